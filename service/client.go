package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/egor/backoffice/database"
	"github.com/egor/backoffice/database/queries"
	"github.com/egor/backoffice/events"
	"github.com/egor/backoffice/models"
	"github.com/egor/backoffice/query"
	"github.com/egor/backoffice/validation"
)

type ClientService struct {
	base
	clients ClientRepository
	users   UserRepository
	stats   StatsRepository
}

func NewClientService(d Deps, clients ClientRepository, users UserRepository, stats StatsRepository) *ClientService {
	return &ClientService{base: newBase(d), clients: clients, users: users, stats: stats}
}

// List never fails: a storage error yields an empty page with Failure set.
func (s *ClientService) List(ctx context.Context, filters query.Filters, scope models.Scope) Page[ClientView] {
	rows, page, err := s.clients.List(ctx, s.store.DB(), scope, filters)
	if err != nil {
		s.degraded(entityClient, "list", err)
		return emptyPage[ClientView](filters, err)
	}
	return Page[ClientView]{Items: formatAll(rows, formatClient), Pagination: page}
}

func (s *ClientService) GetByID(ctx context.Context, id uuid.UUID, scope models.Scope) (*ClientDetail, error) {
	db := s.store.DB()
	row, err := s.clients.Get(ctx, db, id, scope)
	if err != nil {
		return nil, err
	}
	txs, err := s.clients.Transactions(ctx, db, id, scope)
	if err != nil {
		return nil, err
	}
	return &ClientDetail{ClientView: formatClient(*row), Transactions: formatSummaries(txs)}, nil
}

// Create stores a new client owned by ownerID. Email is unique per agent.
func (s *ClientService) Create(ctx context.Context, payload validation.Payload, ownerID uuid.UUID) (*ClientView, error) {
	row, err := s.create(ctx, payload, ownerID)
	if err != nil {
		s.written(ctx, entityClient, events.Created, uuid.Nil, ownerID, err)
		return nil, err
	}
	s.written(ctx, entityClient, events.Created, row.ID, row.AgentID, nil)
	v := formatClient(*row)
	return &v, nil
}

func (s *ClientService) create(ctx context.Context, payload validation.Payload, ownerID uuid.UUID) (*queries.ClientRow, error) {
	p := validation.ApplyDefaults(validation.Client, validation.Sanitize(validation.Client, payload))
	if err := validation.ValidateCreate(validation.Client, p); err != nil {
		return nil, err
	}

	now := s.now()
	c := &models.Client{
		ID:          uuid.New(),
		FirstName:   p.String("firstName"),
		LastName:    p.String("lastName"),
		Email:       p.String("email"),
		Phone:       p.OptionalString("phone"),
		Address:     p.OptionalString("address"),
		Preferences: p.JSON("preferences"),
		AgentID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var row *queries.ClientRow
	err := s.store.WithTx(ctx, func(tx database.DBTX) error {
		if err := s.users.Reference(ctx, tx, ownerID); err != nil {
			return err
		}
		if err := s.ensureEmailFree(ctx, tx, ownerID, c.Email, uuid.Nil); err != nil {
			return err
		}
		if err := s.clients.Insert(ctx, tx, c); err != nil {
			return err
		}
		var err error
		row, err = s.clients.Get(ctx, tx, c.ID, models.Unrestricted())
		return err
	})
	return row, err
}

// Update applies the fields present in patch. A patch that changes nothing
// returns the stored record without writing.
func (s *ClientService) Update(ctx context.Context, id uuid.UUID, patch validation.Payload, scope models.Scope) (*ClientView, error) {
	p := validation.Sanitize(validation.Client, patch)

	var (
		row     *queries.ClientRow
		changed bool
	)
	err := s.store.WithTx(ctx, func(tx database.DBTX) error {
		if err := s.clients.Lock(ctx, tx, id, scope); err != nil {
			return err
		}
		current, err := s.clients.Get(ctx, tx, id, scope)
		if err != nil {
			return err
		}
		if err := validation.ValidateUpdate(validation.Client, p); err != nil {
			return err
		}

		changes := changeSet{}
		if p.Has("firstName") {
			changes.text("first_name", current.FirstName, p.String("firstName"))
		}
		if p.Has("lastName") {
			changes.text("last_name", current.LastName, p.String("lastName"))
		}
		if p.Has("email") {
			changes.text("email", current.Email, p.String("email"))
		}
		if p.Has("phone") {
			changes.optionalText("phone", current.Phone, p.OptionalString("phone"))
		}
		if p.Has("address") {
			changes.optionalText("address", current.Address, p.OptionalString("address"))
		}
		if p.Has("preferences") {
			changes.json("preferences", current.Preferences, p.JSON("preferences"))
		}
		if len(changes) == 0 {
			row = current
			return nil
		}

		if email, ok := changes["email"].(string); ok {
			if err := s.ensureEmailFree(ctx, tx, current.AgentID, email, id); err != nil {
				return err
			}
		}
		if err := s.clients.Update(ctx, tx, id, queries.Changes(changes)); err != nil {
			return err
		}
		changed = true
		row, err = s.clients.Get(ctx, tx, id, scope)
		return err
	})
	if err != nil {
		s.written(ctx, entityClient, events.Updated, id, uuid.Nil, err)
		return nil, err
	}
	if changed {
		s.written(ctx, entityClient, events.Updated, id, row.AgentID, nil)
	}
	v := formatClient(*row)
	return &v, nil
}

// Delete refuses while the client has a pending, in-progress or completed
// transaction.
func (s *ClientService) Delete(ctx context.Context, id uuid.UUID, scope models.Scope) (*Deleted, error) {
	var owner uuid.UUID
	err := s.store.WithTx(ctx, func(tx database.DBTX) error {
		if err := s.clients.Lock(ctx, tx, id, scope); err != nil {
			return err
		}
		current, err := s.clients.Get(ctx, tx, id, scope)
		if err != nil {
			return err
		}
		owner = current.AgentID

		active, err := s.clients.CountTransactions(ctx, tx, id, models.ClientBlockingStatuses)
		if err != nil {
			return err
		}
		if active > 0 {
			return models.Conflict("cannot delete: active transactions exist")
		}
		return s.clients.Delete(ctx, tx, id)
	})
	s.written(ctx, entityClient, events.Deleted, id, owner, err)
	if err != nil {
		return nil, err
	}
	return &Deleted{Message: "client deleted successfully"}, nil
}

// Stats never fails: a storage error yields zeroed stats.
func (s *ClientService) Stats(ctx context.Context, scope models.Scope) models.ClientStats {
	stats, err := s.stats.Clients(ctx, s.store.DB(), scope)
	if err != nil {
		s.degraded(entityClient, "stats", err)
		return models.ClientStats{}
	}
	return stats
}

func (s *ClientService) ensureEmailFree(ctx context.Context, tx database.DBTX, agentID uuid.UUID, email string, exclude uuid.UUID) error {
	taken, err := s.clients.EmailTaken(ctx, tx, agentID, email, exclude)
	if err != nil {
		return err
	}
	if taken {
		return models.Conflict("a client with this email already exists")
	}
	return nil
}
