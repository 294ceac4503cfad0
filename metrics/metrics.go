// Package metrics exposes the Prometheus instruments of the back office.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/egor/backoffice/models"
)

// Metrics holds the custom collectors on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	writes      *prometheus.CounterVec
	degraded    *prometheus.CounterVec
	cache       *prometheus.CounterVec
	httpLatency *prometheus.HistogramVec
}

func New(namespace string) *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "writes_total",
			Help:      "Create, update and delete calls by entity and outcome.",
		}, []string{"entity", "action", "outcome"}),
		degraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degraded_reads_total",
			Help:      "List and stats calls answered with an empty result after a failure.",
		}, []string{"entity", "operation"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stats_cache_requests_total",
			Help:      "Dashboard stats cache lookups by result.",
		}, []string{"result"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.Registry.MustRegister(
		m.writes,
		m.degraded,
		m.cache,
		m.httpLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveWrite counts a write; outcome is "ok" or the error kind.
func (m *Metrics) ObserveWrite(entity, action string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = models.Kind(err)
	}
	m.writes.WithLabelValues(entity, action, outcome).Inc()
}

func (m *Metrics) DegradedRead(entity, operation string) {
	m.degraded.WithLabelValues(entity, operation).Inc()
}

func (m *Metrics) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cache.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpLatency.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
