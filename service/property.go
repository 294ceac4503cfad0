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

type PropertyService struct {
	base
	properties PropertyRepository
	users      UserRepository
	stats      StatsRepository
}

func NewPropertyService(d Deps, properties PropertyRepository, users UserRepository, stats StatsRepository) *PropertyService {
	return &PropertyService{base: newBase(d), properties: properties, users: users, stats: stats}
}

func (s *PropertyService) List(ctx context.Context, filters query.Filters, scope models.Scope) Page[PropertyView] {
	rows, page, err := s.properties.List(ctx, s.store.DB(), scope, filters)
	if err != nil {
		s.degraded(entityProperty, "list", err)
		return emptyPage[PropertyView](filters, err)
	}
	return Page[PropertyView]{Items: formatAll(rows, formatProperty), Pagination: page}
}

func (s *PropertyService) GetByID(ctx context.Context, id uuid.UUID, scope models.Scope) (*PropertyDetail, error) {
	db := s.store.DB()
	row, err := s.properties.Get(ctx, db, id, scope)
	if err != nil {
		return nil, err
	}
	txs, err := s.properties.Transactions(ctx, db, id, scope)
	if err != nil {
		return nil, err
	}
	return &PropertyDetail{PropertyView: formatProperty(*row), Transactions: formatSummaries(txs)}, nil
}

func (s *PropertyService) Create(ctx context.Context, payload validation.Payload, ownerID uuid.UUID) (*PropertyView, error) {
	row, err := s.create(ctx, payload, ownerID)
	if err != nil {
		s.written(ctx, entityProperty, events.Created, uuid.Nil, ownerID, err)
		return nil, err
	}
	s.written(ctx, entityProperty, events.Created, row.ID, row.OwnerID, nil)
	v := formatProperty(*row)
	return &v, nil
}

func (s *PropertyService) create(ctx context.Context, payload validation.Payload, ownerID uuid.UUID) (*queries.PropertyRow, error) {
	p := validation.ApplyDefaults(validation.Property, validation.Sanitize(validation.Property, payload))
	if err := validation.ValidateCreate(validation.Property, p); err != nil {
		return nil, err
	}

	now := s.now()
	prop := &models.Property{
		ID:          uuid.New(),
		Title:       p.String("title"),
		Description: p.OptionalString("description"),
		Type:        models.PropertyType(p.String("type")),
		Status:      models.PropertyStatus(p.String("status")),
		Price:       p.Float("price"),
		Address:     p.String("address"),
		City:        p.String("city"),
		State:       p.String("state"),
		ZipCode:     p.String("zipCode"),
		Bedrooms:    p.OptionalInt("bedrooms"),
		Bathrooms:   p.OptionalFloat("bathrooms"),
		Area:        p.OptionalFloat("area"),
		YearBuilt:   p.OptionalInt("yearBuilt"),
		Features:    p.StringList("features"),
		Images:      p.StringList("images"),
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var row *queries.PropertyRow
	err := s.store.WithTx(ctx, func(tx database.DBTX) error {
		if err := s.users.Reference(ctx, tx, ownerID); err != nil {
			return err
		}
		if err := s.properties.Insert(ctx, tx, prop); err != nil {
			return err
		}
		var err error
		row, err = s.properties.Get(ctx, tx, prop.ID, models.Unrestricted())
		return err
	})
	return row, err
}

func (s *PropertyService) Update(ctx context.Context, id uuid.UUID, patch validation.Payload, scope models.Scope) (*PropertyView, error) {
	p := validation.Sanitize(validation.Property, patch)

	var (
		row     *queries.PropertyRow
		changed bool
	)
	err := s.store.WithTx(ctx, func(tx database.DBTX) error {
		if err := s.properties.Lock(ctx, tx, id, scope); err != nil {
			return err
		}
		current, err := s.properties.Get(ctx, tx, id, scope)
		if err != nil {
			return err
		}
		if err := validation.ValidateUpdate(validation.Property, p); err != nil {
			return err
		}

		changes := propertyChanges(current.Property, p)
		if len(changes) == 0 {
			row = current
			return nil
		}
		if err := s.properties.Update(ctx, tx, id, queries.Changes(changes)); err != nil {
			return err
		}
		changed = true
		row, err = s.properties.Get(ctx, tx, id, scope)
		return err
	})
	if err != nil {
		s.written(ctx, entityProperty, events.Updated, id, uuid.Nil, err)
		return nil, err
	}
	if changed {
		s.written(ctx, entityProperty, events.Updated, id, row.OwnerID, nil)
	}
	v := formatProperty(*row)
	return &v, nil
}

func propertyChanges(current models.Property, p validation.Payload) changeSet {
	changes := changeSet{}
	for _, f := range []struct{ field, column, current string }{
		{"title", "title", current.Title},
		{"address", "address", current.Address},
		{"city", "city", current.City},
		{"state", "state", current.State},
		{"zipCode", "zip_code", current.ZipCode},
	} {
		if p.Has(f.field) {
			changes.text(f.column, f.current, p.String(f.field))
		}
	}
	if p.Has("type") {
		changes.text("type", string(current.Type), p.String("type"))
	}
	if p.Has("status") {
		changes.text("status", string(current.Status), p.String("status"))
	}
	if p.Has("description") {
		changes.optionalText("description", current.Description, p.OptionalString("description"))
	}
	if p.Has("price") {
		changes.number("price", current.Price, p.Float("price"))
	}
	if p.Has("bedrooms") {
		changes.optionalInt("bedrooms", current.Bedrooms, p.OptionalInt("bedrooms"))
	}
	if p.Has("bathrooms") {
		changes.optionalNumber("bathrooms", current.Bathrooms, p.OptionalFloat("bathrooms"))
	}
	if p.Has("area") {
		changes.optionalNumber("area", current.Area, p.OptionalFloat("area"))
	}
	if p.Has("yearBuilt") {
		changes.optionalInt("year_built", current.YearBuilt, p.OptionalInt("yearBuilt"))
	}
	if p.Has("features") {
		changes.list("features", current.Features, p.StringList("features"))
	}
	if p.Has("images") {
		changes.list("images", current.Images, p.StringList("images"))
	}
	return changes
}

// Delete refuses while the property has a pending or in-progress transaction.
// Completed deals do not block.
func (s *PropertyService) Delete(ctx context.Context, id uuid.UUID, scope models.Scope) (*Deleted, error) {
	var owner uuid.UUID
	err := s.store.WithTx(ctx, func(tx database.DBTX) error {
		if err := s.properties.Lock(ctx, tx, id, scope); err != nil {
			return err
		}
		current, err := s.properties.Get(ctx, tx, id, scope)
		if err != nil {
			return err
		}
		owner = current.OwnerID

		active, err := s.properties.CountTransactions(ctx, tx, id, models.PropertyBlockingStatuses)
		if err != nil {
			return err
		}
		if active > 0 {
			return models.Conflict("cannot delete: active transactions exist")
		}
		return s.properties.Delete(ctx, tx, id)
	})
	s.written(ctx, entityProperty, events.Deleted, id, owner, err)
	if err != nil {
		return nil, err
	}
	return &Deleted{Message: "property deleted successfully"}, nil
}

func (s *PropertyService) Stats(ctx context.Context, scope models.Scope) models.PropertyStats {
	stats, err := s.stats.Properties(ctx, s.store.DB(), scope)
	if err != nil {
		s.degraded(entityProperty, "stats", err)
		return models.EmptyPropertyStats()
	}
	return stats
}
