package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/egor/backoffice/database"
	"github.com/egor/backoffice/database/queries"
	"github.com/egor/backoffice/events"
	"github.com/egor/backoffice/models"
	"github.com/egor/backoffice/query"
)

// fakeStore runs WithTx callbacks inline and counts them.
type fakeStore struct {
	txs int
}

func (f *fakeStore) DB() database.DBTX { return nil }

func (f *fakeStore) WithTx(_ context.Context, fn func(database.DBTX) error) error {
	f.txs++
	return fn(nil)
}

type recordingNotifier struct {
	mu      sync.Mutex
	events  []events.Event
	ctxErrs []error
}

func (n *recordingNotifier) Notify(ctx context.Context, e events.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
	n.ctxErrs = append(n.ctxErrs, ctx.Err())
}

type countingRecorder struct {
	writes   map[string]int
	degraded map[string]int
	hits     int
	misses   int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{writes: map[string]int{}, degraded: map[string]int{}}
}

func (r *countingRecorder) ObserveWrite(entity, action string, err error) {
	r.writes[entity+"."+action+"."+models.Kind(err)]++
}

func (r *countingRecorder) DegradedRead(entity, operation string) {
	r.degraded[entity+"."+operation]++
}

func (r *countingRecorder) CacheLookup(hit bool) {
	if hit {
		r.hits++
		return
	}
	r.misses++
}

type mockClients struct{ mock.Mock }

func (m *mockClients) List(ctx context.Context, db database.DBTX, scope models.Scope, filters query.Filters) ([]queries.ClientRow, query.Pagination, error) {
	args := m.Called(ctx, db, scope, filters)
	rows, _ := args.Get(0).([]queries.ClientRow)
	return rows, args.Get(1).(query.Pagination), args.Error(2)
}

func (m *mockClients) Get(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) (*queries.ClientRow, error) {
	args := m.Called(ctx, db, id, scope)
	row, _ := args.Get(0).(*queries.ClientRow)
	return row, args.Error(1)
}

func (m *mockClients) Lock(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) error {
	return m.Called(ctx, db, id, scope).Error(0)
}

func (m *mockClients) Reference(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) error {
	return m.Called(ctx, db, id, scope).Error(0)
}

func (m *mockClients) EmailTaken(ctx context.Context, db database.DBTX, agentID uuid.UUID, email string, exclude uuid.UUID) (bool, error) {
	args := m.Called(ctx, db, agentID, email, exclude)
	return args.Bool(0), args.Error(1)
}

func (m *mockClients) Insert(ctx context.Context, db database.DBTX, c *models.Client) error {
	return m.Called(ctx, db, c).Error(0)
}

func (m *mockClients) Update(ctx context.Context, db database.DBTX, id uuid.UUID, changes queries.Changes) error {
	return m.Called(ctx, db, id, changes).Error(0)
}

func (m *mockClients) Delete(ctx context.Context, db database.DBTX, id uuid.UUID) error {
	return m.Called(ctx, db, id).Error(0)
}

func (m *mockClients) CountTransactions(ctx context.Context, db database.DBTX, id uuid.UUID, statuses []models.TransactionStatus) (int, error) {
	args := m.Called(ctx, db, id, statuses)
	return args.Int(0), args.Error(1)
}

func (m *mockClients) Transactions(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) ([]queries.TransactionSummary, error) {
	args := m.Called(ctx, db, id, scope)
	rows, _ := args.Get(0).([]queries.TransactionSummary)
	return rows, args.Error(1)
}

type mockProperties struct{ mock.Mock }

func (m *mockProperties) List(ctx context.Context, db database.DBTX, scope models.Scope, filters query.Filters) ([]queries.PropertyRow, query.Pagination, error) {
	args := m.Called(ctx, db, scope, filters)
	rows, _ := args.Get(0).([]queries.PropertyRow)
	return rows, args.Get(1).(query.Pagination), args.Error(2)
}

func (m *mockProperties) Get(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) (*queries.PropertyRow, error) {
	args := m.Called(ctx, db, id, scope)
	row, _ := args.Get(0).(*queries.PropertyRow)
	return row, args.Error(1)
}

func (m *mockProperties) Lock(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) error {
	return m.Called(ctx, db, id, scope).Error(0)
}

func (m *mockProperties) Reference(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) error {
	return m.Called(ctx, db, id, scope).Error(0)
}

func (m *mockProperties) Insert(ctx context.Context, db database.DBTX, p *models.Property) error {
	return m.Called(ctx, db, p).Error(0)
}

func (m *mockProperties) Update(ctx context.Context, db database.DBTX, id uuid.UUID, changes queries.Changes) error {
	return m.Called(ctx, db, id, changes).Error(0)
}

func (m *mockProperties) Delete(ctx context.Context, db database.DBTX, id uuid.UUID) error {
	return m.Called(ctx, db, id).Error(0)
}

func (m *mockProperties) CountTransactions(ctx context.Context, db database.DBTX, id uuid.UUID, statuses []models.TransactionStatus) (int, error) {
	args := m.Called(ctx, db, id, statuses)
	return args.Int(0), args.Error(1)
}

func (m *mockProperties) Transactions(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) ([]queries.TransactionSummary, error) {
	args := m.Called(ctx, db, id, scope)
	rows, _ := args.Get(0).([]queries.TransactionSummary)
	return rows, args.Error(1)
}

type mockTransactions struct{ mock.Mock }

func (m *mockTransactions) List(ctx context.Context, db database.DBTX, scope models.Scope, filters query.Filters) ([]queries.TransactionRow, query.Pagination, error) {
	args := m.Called(ctx, db, scope, filters)
	rows, _ := args.Get(0).([]queries.TransactionRow)
	return rows, args.Get(1).(query.Pagination), args.Error(2)
}

func (m *mockTransactions) Get(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) (*queries.TransactionRow, error) {
	args := m.Called(ctx, db, id, scope)
	row, _ := args.Get(0).(*queries.TransactionRow)
	return row, args.Error(1)
}

func (m *mockTransactions) Lock(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) error {
	return m.Called(ctx, db, id, scope).Error(0)
}

func (m *mockTransactions) Insert(ctx context.Context, db database.DBTX, t *models.Transaction) error {
	return m.Called(ctx, db, t).Error(0)
}

func (m *mockTransactions) Update(ctx context.Context, db database.DBTX, id uuid.UUID, changes queries.Changes) error {
	return m.Called(ctx, db, id, changes).Error(0)
}

func (m *mockTransactions) Delete(ctx context.Context, db database.DBTX, id uuid.UUID) error {
	return m.Called(ctx, db, id).Error(0)
}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) List(ctx context.Context, db database.DBTX, scope models.Scope, filters query.Filters) ([]queries.UserRow, query.Pagination, error) {
	args := m.Called(ctx, db, scope, filters)
	rows, _ := args.Get(0).([]queries.UserRow)
	return rows, args.Get(1).(query.Pagination), args.Error(2)
}

func (m *mockUsers) Get(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) (*queries.UserRow, error) {
	args := m.Called(ctx, db, id, scope)
	row, _ := args.Get(0).(*queries.UserRow)
	return row, args.Error(1)
}

func (m *mockUsers) GetByEmail(ctx context.Context, db database.DBTX, email string) (*models.User, error) {
	args := m.Called(ctx, db, email)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUsers) Lock(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) error {
	return m.Called(ctx, db, id, scope).Error(0)
}

func (m *mockUsers) Reference(ctx context.Context, db database.DBTX, id uuid.UUID) error {
	return m.Called(ctx, db, id).Error(0)
}

func (m *mockUsers) EmailTaken(ctx context.Context, db database.DBTX, email string, exclude uuid.UUID) (bool, error) {
	args := m.Called(ctx, db, email, exclude)
	return args.Bool(0), args.Error(1)
}

func (m *mockUsers) Insert(ctx context.Context, db database.DBTX, u *models.User) error {
	return m.Called(ctx, db, u).Error(0)
}

func (m *mockUsers) Update(ctx context.Context, db database.DBTX, id uuid.UUID, changes queries.Changes) error {
	return m.Called(ctx, db, id, changes).Error(0)
}

func (m *mockUsers) Delete(ctx context.Context, db database.DBTX, id uuid.UUID) error {
	return m.Called(ctx, db, id).Error(0)
}

type mockStats struct{ mock.Mock }

func (m *mockStats) Properties(ctx context.Context, db database.DBTX, scope models.Scope) (models.PropertyStats, error) {
	args := m.Called(ctx, db, scope)
	return args.Get(0).(models.PropertyStats), args.Error(1)
}

func (m *mockStats) Clients(ctx context.Context, db database.DBTX, scope models.Scope) (models.ClientStats, error) {
	args := m.Called(ctx, db, scope)
	return args.Get(0).(models.ClientStats), args.Error(1)
}

func (m *mockStats) Transactions(ctx context.Context, db database.DBTX, scope models.Scope) (models.TransactionStats, error) {
	args := m.Called(ctx, db, scope)
	return args.Get(0).(models.TransactionStats), args.Error(1)
}

func (m *mockStats) Users(ctx context.Context, db database.DBTX, scope models.Scope) (models.UserStats, error) {
	args := m.Called(ctx, db, scope)
	return args.Get(0).(models.UserStats), args.Error(1)
}

type mockDashboardCache struct{ mock.Mock }

func (m *mockDashboardCache) Dashboard(ctx context.Context) (models.DashboardStats, bool, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.DashboardStats), args.Bool(1), args.Error(2)
}

func (m *mockDashboardCache) StoreDashboard(ctx context.Context, stats models.DashboardStats) error {
	return m.Called(ctx, stats).Error(0)
}

type harness struct {
	store    *fakeStore
	notifier *recordingNotifier
	metrics  *countingRecorder
}

func newHarness() (*harness, Deps) {
	h := &harness{store: &fakeStore{}, notifier: &recordingNotifier{}, metrics: newCountingRecorder()}
	return h, Deps{Store: h.store, Notifier: h.notifier, Metrics: h.metrics}
}
