package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/egor/backoffice/database"
	"github.com/egor/backoffice/database/queries"
	"github.com/egor/backoffice/models"
	"github.com/egor/backoffice/query"
)

type ClientRepository interface {
	List(ctx context.Context, db database.DBTX, scope models.Scope, filters query.Filters) ([]queries.ClientRow, query.Pagination, error)
	Get(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) (*queries.ClientRow, error)
	Lock(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) error
	Reference(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) error
	EmailTaken(ctx context.Context, db database.DBTX, agentID uuid.UUID, email string, exclude uuid.UUID) (bool, error)
	Insert(ctx context.Context, db database.DBTX, c *models.Client) error
	Update(ctx context.Context, db database.DBTX, id uuid.UUID, changes queries.Changes) error
	Delete(ctx context.Context, db database.DBTX, id uuid.UUID) error
	CountTransactions(ctx context.Context, db database.DBTX, id uuid.UUID, statuses []models.TransactionStatus) (int, error)
	Transactions(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) ([]queries.TransactionSummary, error)
}

type PropertyRepository interface {
	List(ctx context.Context, db database.DBTX, scope models.Scope, filters query.Filters) ([]queries.PropertyRow, query.Pagination, error)
	Get(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) (*queries.PropertyRow, error)
	Lock(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) error
	Reference(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) error
	Insert(ctx context.Context, db database.DBTX, p *models.Property) error
	Update(ctx context.Context, db database.DBTX, id uuid.UUID, changes queries.Changes) error
	Delete(ctx context.Context, db database.DBTX, id uuid.UUID) error
	CountTransactions(ctx context.Context, db database.DBTX, id uuid.UUID, statuses []models.TransactionStatus) (int, error)
	Transactions(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) ([]queries.TransactionSummary, error)
}

type TransactionRepository interface {
	List(ctx context.Context, db database.DBTX, scope models.Scope, filters query.Filters) ([]queries.TransactionRow, query.Pagination, error)
	Get(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) (*queries.TransactionRow, error)
	Lock(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) error
	Insert(ctx context.Context, db database.DBTX, t *models.Transaction) error
	Update(ctx context.Context, db database.DBTX, id uuid.UUID, changes queries.Changes) error
	Delete(ctx context.Context, db database.DBTX, id uuid.UUID) error
}

type UserRepository interface {
	List(ctx context.Context, db database.DBTX, scope models.Scope, filters query.Filters) ([]queries.UserRow, query.Pagination, error)
	Get(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) (*queries.UserRow, error)
	GetByEmail(ctx context.Context, db database.DBTX, email string) (*models.User, error)
	Lock(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) error
	Reference(ctx context.Context, db database.DBTX, id uuid.UUID) error
	EmailTaken(ctx context.Context, db database.DBTX, email string, exclude uuid.UUID) (bool, error)
	Insert(ctx context.Context, db database.DBTX, u *models.User) error
	Update(ctx context.Context, db database.DBTX, id uuid.UUID, changes queries.Changes) error
	Delete(ctx context.Context, db database.DBTX, id uuid.UUID) error
}

type StatsRepository interface {
	Properties(ctx context.Context, db database.DBTX, scope models.Scope) (models.PropertyStats, error)
	Clients(ctx context.Context, db database.DBTX, scope models.Scope) (models.ClientStats, error)
	Transactions(ctx context.Context, db database.DBTX, scope models.Scope) (models.TransactionStats, error)
	Users(ctx context.Context, db database.DBTX, scope models.Scope) (models.UserStats, error)
}

var (
	_ Store                 = (*database.Store)(nil)
	_ ClientRepository      = (*queries.ClientRepository)(nil)
	_ PropertyRepository    = (*queries.PropertyRepository)(nil)
	_ TransactionRepository = (*queries.TransactionRepository)(nil)
	_ UserRepository        = (*queries.UserRepository)(nil)
	_ StatsRepository       = (*queries.StatsRepository)(nil)
)
