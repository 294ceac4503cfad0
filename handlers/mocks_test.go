package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/egor/backoffice/models"
	"github.com/egor/backoffice/query"
	"github.com/egor/backoffice/service"
	"github.com/egor/backoffice/validation"
)

type mockClients struct{ mock.Mock }

func (m *mockClients) List(ctx context.Context, f query.Filters, s models.Scope) service.Page[service.ClientView] {
	return m.Called(ctx, f, s).Get(0).(service.Page[service.ClientView])
}

func (m *mockClients) GetByID(ctx context.Context, id uuid.UUID, s models.Scope) (*service.ClientDetail, error) {
	args := m.Called(ctx, id, s)
	v, _ := args.Get(0).(*service.ClientDetail)
	return v, args.Error(1)
}

func (m *mockClients) Create(ctx context.Context, p validation.Payload, owner uuid.UUID) (*service.ClientView, error) {
	args := m.Called(ctx, p, owner)
	v, _ := args.Get(0).(*service.ClientView)
	return v, args.Error(1)
}

func (m *mockClients) Update(ctx context.Context, id uuid.UUID, p validation.Payload, s models.Scope) (*service.ClientView, error) {
	args := m.Called(ctx, id, p, s)
	v, _ := args.Get(0).(*service.ClientView)
	return v, args.Error(1)
}

func (m *mockClients) Delete(ctx context.Context, id uuid.UUID, s models.Scope) (*service.Deleted, error) {
	args := m.Called(ctx, id, s)
	v, _ := args.Get(0).(*service.Deleted)
	return v, args.Error(1)
}

func (m *mockClients) Stats(ctx context.Context, s models.Scope) models.ClientStats {
	return m.Called(ctx, s).Get(0).(models.ClientStats)
}

type mockTransactions struct{ mock.Mock }

func (m *mockTransactions) List(ctx context.Context, f query.Filters, s models.Scope) service.Page[service.TransactionView] {
	return m.Called(ctx, f, s).Get(0).(service.Page[service.TransactionView])
}

func (m *mockTransactions) GetByID(ctx context.Context, id uuid.UUID, s models.Scope) (*service.TransactionView, error) {
	args := m.Called(ctx, id, s)
	v, _ := args.Get(0).(*service.TransactionView)
	return v, args.Error(1)
}

func (m *mockTransactions) Create(ctx context.Context, p validation.Payload, owner uuid.UUID, s models.Scope) (*service.TransactionView, error) {
	args := m.Called(ctx, p, owner, s)
	v, _ := args.Get(0).(*service.TransactionView)
	return v, args.Error(1)
}

func (m *mockTransactions) Update(ctx context.Context, id uuid.UUID, p validation.Payload, s models.Scope) (*service.TransactionView, error) {
	args := m.Called(ctx, id, p, s)
	v, _ := args.Get(0).(*service.TransactionView)
	return v, args.Error(1)
}

func (m *mockTransactions) Delete(ctx context.Context, id uuid.UUID, s models.Scope) (*service.Deleted, error) {
	args := m.Called(ctx, id, s)
	v, _ := args.Get(0).(*service.Deleted)
	return v, args.Error(1)
}

func (m *mockTransactions) Stats(ctx context.Context, s models.Scope) models.TransactionStats {
	return m.Called(ctx, s).Get(0).(models.TransactionStats)
}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) List(ctx context.Context, f query.Filters, s models.Scope) service.Page[service.UserView] {
	return m.Called(ctx, f, s).Get(0).(service.Page[service.UserView])
}

func (m *mockUsers) GetByID(ctx context.Context, id uuid.UUID, s models.Scope) (*service.UserView, error) {
	args := m.Called(ctx, id, s)
	v, _ := args.Get(0).(*service.UserView)
	return v, args.Error(1)
}

func (m *mockUsers) Create(ctx context.Context, p validation.Payload) (*service.UserView, error) {
	args := m.Called(ctx, p)
	v, _ := args.Get(0).(*service.UserView)
	return v, args.Error(1)
}

func (m *mockUsers) Update(ctx context.Context, id uuid.UUID, p validation.Payload, s models.Scope) (*service.UserView, error) {
	args := m.Called(ctx, id, p, s)
	v, _ := args.Get(0).(*service.UserView)
	return v, args.Error(1)
}

func (m *mockUsers) Delete(ctx context.Context, id uuid.UUID, s models.Scope) (*service.Deleted, error) {
	args := m.Called(ctx, id, s)
	v, _ := args.Get(0).(*service.Deleted)
	return v, args.Error(1)
}

func (m *mockUsers) Stats(ctx context.Context, s models.Scope) models.UserStats {
	return m.Called(ctx, s).Get(0).(models.UserStats)
}

func (m *mockUsers) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	v, _ := args.Get(0).(*models.User)
	return v, args.Error(1)
}

type fixedDashboard struct{ stats models.DashboardStats }

func (f fixedDashboard) Dashboard(context.Context) models.DashboardStats { return f.stats }

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }
