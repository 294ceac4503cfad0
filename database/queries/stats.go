package queries

import (
	"context"
	"fmt"

	"github.com/egor/backoffice/database"
	"github.com/egor/backoffice/models"
	"github.com/egor/backoffice/query"
)

// StatsRepository runs the aggregate queries behind the stats endpoints.
// Every method applies the scope the same way the list queries do.
type StatsRepository struct{}

func NewStatsRepository() *StatsRepository { return &StatsRepository{} }

func (r *StatsRepository) Properties(ctx context.Context, db database.DBTX, scope models.Scope) (models.PropertyStats, error) {
	where, args := query.ScopeWhere("p.owner_id", scope)
	q := `SELECT p.status, p.type, COUNT(*), COALESCE(SUM(p.price), 0)
		FROM properties p` + where + `
		GROUP BY p.status, p.type`

	stats := models.EmptyPropertyStats()
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return stats, fmt.Errorf("property stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status, typ string
			n           int
			value       float64
		)
		if err := rows.Scan(&status, &typ, &n, &value); err != nil {
			return models.EmptyPropertyStats(), fmt.Errorf("scan property stats: %w", err)
		}
		stats.Total += n
		stats.ByStatus[status] += n
		stats.ByType[typ] += n
		stats.TotalValue += value
	}
	if err := rows.Err(); err != nil {
		return models.EmptyPropertyStats(), fmt.Errorf("iterate property stats: %w", err)
	}
	if stats.Total > 0 {
		stats.AveragePrice = stats.TotalValue / float64(stats.Total)
	}
	return stats, nil
}

func (r *StatsRepository) Clients(ctx context.Context, db database.DBTX, scope models.Scope) (models.ClientStats, error) {
	where, args := query.ScopeWhere("c.agent_id", scope)
	q := `SELECT COUNT(*),
		COUNT(*) FILTER (WHERE c.created_at >= NOW() - INTERVAL '30 days'),
		COUNT(*) FILTER (WHERE EXISTS (
			SELECT 1 FROM transactions t
			 WHERE t.client_id = c.id AND t.status IN ('PENDING', 'IN_PROGRESS'))),
		COUNT(*) FILTER (WHERE NOT EXISTS (
			SELECT 1 FROM transactions t WHERE t.client_id = c.id))
		FROM clients c` + where

	var stats models.ClientStats
	if err := db.QueryRowContext(ctx, q, args...).Scan(
		&stats.Total, &stats.NewLast30Days, &stats.WithActiveDeals, &stats.WithoutTransaction,
	); err != nil {
		return models.ClientStats{}, fmt.Errorf("client stats: %w", err)
	}
	return stats, nil
}

func (r *StatsRepository) Transactions(ctx context.Context, db database.DBTX, scope models.Scope) (models.TransactionStats, error) {
	where, args := query.ScopeWhere("t.agent_id", scope)
	q := `SELECT t.status, t.type, COUNT(*), COALESCE(SUM(t.amount), 0), COALESCE(SUM(t.commission), 0)
		FROM transactions t` + where + `
		GROUP BY t.status, t.type`

	stats := models.EmptyTransactionStats()
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return stats, fmt.Errorf("transaction stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status, typ        string
			n                  int
			amount, commission float64
		)
		if err := rows.Scan(&status, &typ, &n, &amount, &commission); err != nil {
			return models.EmptyTransactionStats(), fmt.Errorf("scan transaction stats: %w", err)
		}
		stats.Total += n
		stats.ByStatus[status] += n
		stats.ByType[typ] += n
		stats.AmountByStatus[status] += amount
		stats.TotalAmount += amount
		stats.TotalCommission += commission
	}
	if err := rows.Err(); err != nil {
		return models.EmptyTransactionStats(), fmt.Errorf("iterate transaction stats: %w", err)
	}
	return stats, nil
}

func (r *StatsRepository) Users(ctx context.Context, db database.DBTX, scope models.Scope) (models.UserStats, error) {
	where, args := query.ScopeWhere("u.id", scope)
	q := `SELECT u.role, COUNT(*) FROM users u` + where + ` GROUP BY u.role`

	stats := models.EmptyUserStats()
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return stats, fmt.Errorf("user stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			role string
			n    int
		)
		if err := rows.Scan(&role, &n); err != nil {
			return models.EmptyUserStats(), fmt.Errorf("scan user stats: %w", err)
		}
		stats.Total += n
		stats.ByRole[role] += n
	}
	if err := rows.Err(); err != nil {
		return models.EmptyUserStats(), fmt.Errorf("iterate user stats: %w", err)
	}
	return stats, nil
}
