package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/egor/backoffice/logger"
	"github.com/egor/backoffice/models"
	"github.com/egor/backoffice/service"
	"github.com/egor/backoffice/validation"
)

type ClientService interface {
	Resource[service.ClientView, *service.ClientDetail, models.ClientStats]
	Create(ctx context.Context, payload validation.Payload, ownerID uuid.UUID) (*service.ClientView, error)
}

type PropertyService interface {
	Resource[service.PropertyView, *service.PropertyDetail, models.PropertyStats]
	Create(ctx context.Context, payload validation.Payload, ownerID uuid.UUID) (*service.PropertyView, error)
}

type TransactionService interface {
	Resource[service.TransactionView, *service.TransactionView, models.TransactionStats]
	Create(ctx context.Context, payload validation.Payload, ownerID uuid.UUID, scope models.Scope) (*service.TransactionView, error)
}

type UserService interface {
	Resource[service.UserView, *service.UserView, models.UserStats]
	Create(ctx context.Context, payload validation.Payload) (*service.UserView, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

var (
	_ ClientService      = (*service.ClientService)(nil)
	_ PropertyService    = (*service.PropertyService)(nil)
	_ TransactionService = (*service.TransactionService)(nil)
	_ UserService        = (*service.UserService)(nil)
)

func NewClientHandler(svc ClientService, log logger.Logger) *ResourceHandler[service.ClientView, *service.ClientDetail, models.ClientStats] {
	return &ResourceHandler[service.ClientView, *service.ClientDetail, models.ClientStats]{
		entity: "client",
		svc:    svc,
		log:    log,
		create: func(ctx context.Context, r models.Requester, p validation.Payload) (any, error) {
			owner, err := service.OwnerFor(r, p, "agentId")
			if err != nil {
				return nil, err
			}
			return svc.Create(ctx, p, owner)
		},
	}
}

func NewPropertyHandler(svc PropertyService, log logger.Logger) *ResourceHandler[service.PropertyView, *service.PropertyDetail, models.PropertyStats] {
	return &ResourceHandler[service.PropertyView, *service.PropertyDetail, models.PropertyStats]{
		entity: "property",
		svc:    svc,
		log:    log,
		create: func(ctx context.Context, r models.Requester, p validation.Payload) (any, error) {
			owner, err := service.OwnerFor(r, p, "ownerId")
			if err != nil {
				return nil, err
			}
			return svc.Create(ctx, p, owner)
		},
	}
}

// NewTransactionHandler resolves the referenced property and client under
// the requester's own scope, whoever ends up owning the transaction.
func NewTransactionHandler(svc TransactionService, log logger.Logger) *ResourceHandler[service.TransactionView, *service.TransactionView, models.TransactionStats] {
	return &ResourceHandler[service.TransactionView, *service.TransactionView, models.TransactionStats]{
		entity: "transaction",
		svc:    svc,
		log:    log,
		create: func(ctx context.Context, r models.Requester, p validation.Payload) (any, error) {
			owner, err := service.OwnerFor(r, p, "agentId")
			if err != nil {
				return nil, err
			}
			return svc.Create(ctx, p, owner, models.ScopeFor(r))
		},
	}
}

// NewUserHandler is mounted behind the admin role check.
func NewUserHandler(svc UserService, log logger.Logger) *ResourceHandler[service.UserView, *service.UserView, models.UserStats] {
	return &ResourceHandler[service.UserView, *service.UserView, models.UserStats]{
		entity: "user",
		svc:    svc,
		log:    log,
		create: func(ctx context.Context, _ models.Requester, p validation.Payload) (any, error) {
			return svc.Create(ctx, p)
		},
	}
}
