// Package cache keeps the global dashboard stats in Redis between writes.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/egor/backoffice/config"
	"github.com/egor/backoffice/events"
	"github.com/egor/backoffice/logger"
	"github.com/egor/backoffice/models"
)

const dashboardKey = "backoffice:stats:dashboard"

type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// NewRedisClient connects and pings Redis.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// StatsCache is a read-through cache for the dashboard aggregate. Any write
// event drops the cached value.
type StatsCache struct {
	client kv
	ttl    time.Duration
	log    logger.Logger
}

func NewStatsCache(client kv, ttl time.Duration, log logger.Logger) *StatsCache {
	return &StatsCache{client: client, ttl: ttl, log: log}
}

// Dashboard returns the cached stats and whether there was a hit.
func (c *StatsCache) Dashboard(ctx context.Context) (models.DashboardStats, bool, error) {
	raw, err := c.client.Get(ctx, dashboardKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.DashboardStats{}, false, nil
		}
		return models.DashboardStats{}, false, fmt.Errorf("get dashboard stats: %w", err)
	}

	var stats models.DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		c.log.Warnf("drop corrupt dashboard stats entry: %v", err)
		return models.DashboardStats{}, false, nil
	}
	return stats, true, nil
}

func (c *StatsCache) StoreDashboard(ctx context.Context, stats models.DashboardStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, dashboardKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set dashboard stats: %w", err)
	}
	return nil
}

// Publish invalidates the dashboard entry; it makes the cache an events.Sink.
func (c *StatsCache) Publish(ctx context.Context, _ events.Event) error {
	if err := c.client.Del(ctx, dashboardKey).Err(); err != nil {
		return fmt.Errorf("invalidate dashboard stats: %w", err)
	}
	return nil
}
