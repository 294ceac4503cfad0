package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egor/backoffice/models"
)

func TestObserveWriteLabelsOutcome(t *testing.T) {
	m := New("test")

	m.ObserveWrite("client", "create", nil)
	m.ObserveWrite("client", "delete", models.Conflict("cannot delete: active transactions exist"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.writes.WithLabelValues("client", "create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.writes.WithLabelValues("client", "delete", "conflict")))
}

func TestDegradedAndCacheCounters(t *testing.T) {
	m := New("test")

	m.DegradedRead("property", "list")
	m.CacheLookup(true)
	m.CacheLookup(false)
	m.CacheLookup(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.degraded.WithLabelValues("property", "list")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cache.WithLabelValues("miss")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New("backoffice")
	m.ObserveHTTP(http.MethodGet, "/api/clients", http.StatusOK, 15*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "backoffice_http_request_duration_seconds")
}
