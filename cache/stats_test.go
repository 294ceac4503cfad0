package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egor/backoffice/events"
	"github.com/egor/backoffice/logger"
	"github.com/egor/backoffice/models"
)

type memoryKV struct {
	data    map[string]string
	ttl     time.Duration
	failGet error
}

func newMemoryKV() *memoryKV { return &memoryKV{data: map[string]string{}} }

func (m *memoryKV) Get(_ context.Context, key string) *redis.StringCmd {
	if m.failGet != nil {
		return redis.NewStringResult("", m.failGet)
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memoryKV) Set(_ context.Context, key string, value interface{}, exp time.Duration) *redis.StatusCmd {
	m.data[key] = string(value.([]byte))
	m.ttl = exp
	return redis.NewStatusResult("OK", nil)
}

func (m *memoryKV) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestDashboardRoundTripAndInvalidate(t *testing.T) {
	kv := newMemoryKV()
	c := NewStatsCache(kv, 30*time.Second, logger.NewNop())
	ctx := context.Background()

	_, hit, err := c.Dashboard(ctx)
	require.NoError(t, err)
	assert.False(t, hit)

	stats := models.EmptyDashboardStats()
	stats.Properties.Total = 7
	stats.Transactions.ByStatus["PENDING"] = 2
	require.NoError(t, c.StoreDashboard(ctx, stats))
	assert.Equal(t, 30*time.Second, kv.ttl)

	got, hit, err := c.Dashboard(ctx)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 7, got.Properties.Total)
	assert.Equal(t, 2, got.Transactions.ByStatus["PENDING"])

	require.NoError(t, c.Publish(ctx, events.Event{Entity: "property", Action: events.Created}))
	_, hit, err = c.Dashboard(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestDashboardCorruptEntryIsMiss(t *testing.T) {
	kv := newMemoryKV()
	kv.data[dashboardKey] = "{not json"

	_, hit, err := NewStatsCache(kv, time.Second, logger.NewNop()).Dashboard(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestDashboardBackendError(t *testing.T) {
	kv := newMemoryKV()
	kv.failGet = errors.New("connection refused")

	_, hit, err := NewStatsCache(kv, time.Second, logger.NewNop()).Dashboard(context.Background())
	assert.Error(t, err)
	assert.False(t, hit)
}

func TestStoredPayloadIsJSON(t *testing.T) {
	kv := newMemoryKV()
	require.NoError(t, NewStatsCache(kv, time.Second, logger.NewNop()).StoreDashboard(context.Background(), models.EmptyDashboardStats()))
	assert.True(t, json.Valid([]byte(kv.data[dashboardKey])))
}
