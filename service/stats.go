package service

import (
	"context"

	"github.com/egor/backoffice/models"
)

// DashboardCache stores the global dashboard aggregate between writes.
type DashboardCache interface {
	Dashboard(ctx context.Context) (models.DashboardStats, bool, error)
	StoreDashboard(ctx context.Context, stats models.DashboardStats) error
}

// StatsService serves the dashboard. Dashboard numbers are global: they are
// computed without a scope whoever asks.
type StatsService struct {
	base
	stats StatsRepository
	cache DashboardCache
}

// NewStatsService builds the dashboard service; cache may be nil.
func NewStatsService(d Deps, stats StatsRepository, cache DashboardCache) *StatsService {
	return &StatsService{base: newBase(d), stats: stats, cache: cache}
}

// Dashboard never fails. Each section that cannot be computed is zeroed and
// a partially degraded result is not cached.
func (s *StatsService) Dashboard(ctx context.Context) models.DashboardStats {
	if s.cache != nil {
		cached, hit, err := s.cache.Dashboard(ctx)
		if err != nil {
			s.log.Warnf("dashboard stats cache read: %v", err)
		}
		s.metrics.CacheLookup(hit)
		if hit {
			return cached
		}
	}

	db := s.store.DB()
	all := models.Unrestricted()
	out := models.EmptyDashboardStats()
	complete := true

	if props, err := s.stats.Properties(ctx, db, all); err != nil {
		s.degraded(entityProperty, "dashboard", err)
		complete = false
	} else {
		out.Properties = props
	}
	if clients, err := s.stats.Clients(ctx, db, all); err != nil {
		s.degraded(entityClient, "dashboard", err)
		complete = false
	} else {
		out.Clients = clients
	}
	if txs, err := s.stats.Transactions(ctx, db, all); err != nil {
		s.degraded(entityTransaction, "dashboard", err)
		complete = false
	} else {
		out.Transactions = txs
	}

	if s.cache != nil && complete {
		if err := s.cache.StoreDashboard(ctx, out); err != nil {
			s.log.Warnf("dashboard stats cache write: %v", err)
		}
	}
	return out
}
