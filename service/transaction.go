package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/egor/backoffice/database"
	"github.com/egor/backoffice/database/queries"
	"github.com/egor/backoffice/events"
	"github.com/egor/backoffice/models"
	"github.com/egor/backoffice/query"
	"github.com/egor/backoffice/validation"
)

type TransactionService struct {
	base
	transactions TransactionRepository
	properties   PropertyRepository
	clients      ClientRepository
	users        UserRepository
	stats        StatsRepository
}

func NewTransactionService(d Deps, transactions TransactionRepository, properties PropertyRepository,
	clients ClientRepository, users UserRepository, stats StatsRepository) *TransactionService {
	return &TransactionService{
		base:         newBase(d),
		transactions: transactions,
		properties:   properties,
		clients:      clients,
		users:        users,
		stats:        stats,
	}
}

func (s *TransactionService) List(ctx context.Context, filters query.Filters, scope models.Scope) Page[TransactionView] {
	rows, page, err := s.transactions.List(ctx, s.store.DB(), scope, filters)
	if err != nil {
		s.degraded(entityTransaction, "list", err)
		return emptyPage[TransactionView](filters, err)
	}
	return Page[TransactionView]{Items: formatAll(rows, formatTransaction), Pagination: page}
}

func (s *TransactionService) GetByID(ctx context.Context, id uuid.UUID, scope models.Scope) (*TransactionView, error) {
	row, err := s.transactions.Get(ctx, s.store.DB(), id, scope)
	if err != nil {
		return nil, err
	}
	v := formatTransaction(*row)
	return &v, nil
}

// Create records a deal owned by ownerID. The property and client must be
// visible in scope, the acting user's scope; otherwise the call fails with a
// dependency error even when the records exist.
func (s *TransactionService) Create(ctx context.Context, payload validation.Payload, ownerID uuid.UUID, scope models.Scope) (*TransactionView, error) {
	row, err := s.create(ctx, payload, ownerID, scope)
	if err != nil {
		s.written(ctx, entityTransaction, events.Created, uuid.Nil, ownerID, err)
		return nil, err
	}
	s.written(ctx, entityTransaction, events.Created, row.ID, row.AgentID, nil)
	v := formatTransaction(*row)
	return &v, nil
}

func (s *TransactionService) create(ctx context.Context, payload validation.Payload, ownerID uuid.UUID, scope models.Scope) (*queries.TransactionRow, error) {
	p := validation.ApplyDefaults(validation.Transaction, validation.Sanitize(validation.Transaction, payload))
	if err := validation.ValidateCreate(validation.Transaction, p); err != nil {
		return nil, err
	}

	now := s.now()
	t := &models.Transaction{
		ID:         uuid.New(),
		Type:       models.TransactionType(p.String("type")),
		Status:     models.TransactionStatus(p.String("status")),
		Amount:     p.Float("amount"),
		Commission: p.OptionalFloat("commission"),
		Notes:      p.OptionalString("notes"),
		PropertyID: p.UUID("propertyId"),
		ClientID:   p.UUID("clientId"),
		AgentID:    ownerID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var row *queries.TransactionRow
	err := s.store.WithTx(ctx, func(tx database.DBTX) error {
		if err := s.users.Reference(ctx, tx, ownerID); err != nil {
			return err
		}
		if err := s.referenceProperty(ctx, tx, t.PropertyID, scope); err != nil {
			return err
		}
		if err := s.referenceClient(ctx, tx, t.ClientID, scope); err != nil {
			return err
		}
		if err := s.transactions.Insert(ctx, tx, t); err != nil {
			return err
		}
		var err error
		row, err = s.transactions.Get(ctx, tx, t.ID, models.Unrestricted())
		return err
	})
	return row, err
}

// Update applies the present fields. Status may move between any two values.
func (s *TransactionService) Update(ctx context.Context, id uuid.UUID, patch validation.Payload, scope models.Scope) (*TransactionView, error) {
	p := validation.Sanitize(validation.Transaction, patch)

	var (
		row     *queries.TransactionRow
		changed bool
	)
	err := s.store.WithTx(ctx, func(tx database.DBTX) error {
		if err := s.transactions.Lock(ctx, tx, id, scope); err != nil {
			return err
		}
		current, err := s.transactions.Get(ctx, tx, id, scope)
		if err != nil {
			return err
		}
		if err := validation.ValidateUpdate(validation.Transaction, p); err != nil {
			return err
		}

		changes := changeSet{}
		if p.Has("type") {
			changes.text("type", string(current.Type), p.String("type"))
		}
		if p.Has("status") {
			changes.text("status", string(current.Status), p.String("status"))
		}
		if p.Has("amount") {
			changes.number("amount", current.Amount, p.Float("amount"))
		}
		if p.Has("commission") {
			changes.optionalNumber("commission", current.Commission, p.OptionalFloat("commission"))
		}
		if p.Has("notes") {
			changes.optionalText("notes", current.Notes, p.OptionalString("notes"))
		}
		if p.Has("propertyId") {
			if next := p.UUID("propertyId"); next != current.PropertyID {
				if err := s.referenceProperty(ctx, tx, next, scope); err != nil {
					return err
				}
				changes["property_id"] = next
			}
		}
		if p.Has("clientId") {
			if next := p.UUID("clientId"); next != current.ClientID {
				if err := s.referenceClient(ctx, tx, next, scope); err != nil {
					return err
				}
				changes["client_id"] = next
			}
		}
		if len(changes) == 0 {
			row = current
			return nil
		}
		if err := s.transactions.Update(ctx, tx, id, queries.Changes(changes)); err != nil {
			return err
		}
		changed = true
		row, err = s.transactions.Get(ctx, tx, id, scope)
		return err
	})
	if err != nil {
		s.written(ctx, entityTransaction, events.Updated, id, uuid.Nil, err)
		return nil, err
	}
	if changed {
		s.written(ctx, entityTransaction, events.Updated, id, row.AgentID, nil)
	}
	v := formatTransaction(*row)
	return &v, nil
}

func (s *TransactionService) Delete(ctx context.Context, id uuid.UUID, scope models.Scope) (*Deleted, error) {
	var owner uuid.UUID
	err := s.store.WithTx(ctx, func(tx database.DBTX) error {
		if err := s.transactions.Lock(ctx, tx, id, scope); err != nil {
			return err
		}
		current, err := s.transactions.Get(ctx, tx, id, scope)
		if err != nil {
			return err
		}
		owner = current.AgentID
		return s.transactions.Delete(ctx, tx, id)
	})
	s.written(ctx, entityTransaction, events.Deleted, id, owner, err)
	if err != nil {
		return nil, err
	}
	return &Deleted{Message: "transaction deleted successfully"}, nil
}

func (s *TransactionService) Stats(ctx context.Context, scope models.Scope) models.TransactionStats {
	stats, err := s.stats.Transactions(ctx, s.store.DB(), scope)
	if err != nil {
		s.degraded(entityTransaction, "stats", err)
		return models.EmptyTransactionStats()
	}
	return stats
}

func (s *TransactionService) referenceProperty(ctx context.Context, tx database.DBTX, id uuid.UUID, scope models.Scope) error {
	return asDependency(s.properties.Reference(ctx, tx, id, scope), entityProperty)
}

func (s *TransactionService) referenceClient(ctx context.Context, tx database.DBTX, id uuid.UUID, scope models.Scope) error {
	return asDependency(s.clients.Reference(ctx, tx, id, scope), entityClient)
}

// asDependency turns the NotFound of a referenced record into a dependency
// error naming that record.
func asDependency(err error, entity string) error {
	if errors.Is(err, models.ErrNotFound) {
		return models.MissingDependency(entity)
	}
	return err
}
