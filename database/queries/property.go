package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/egor/backoffice/database"
	"github.com/egor/backoffice/models"
	"github.com/egor/backoffice/query"
)

// PropertyRow is a property joined with its owner and transaction count.
type PropertyRow struct {
	models.Property
	OwnerName        string
	OwnerEmail       string
	TransactionCount int
}

type PropertyRepository struct{}

func NewPropertyRepository() *PropertyRepository { return &PropertyRepository{} }

func scanProperty(row interface{ Scan(...any) error }) (*PropertyRow, error) {
	var (
		p                PropertyRow
		description      sql.NullString
		bedrooms, year   sql.NullInt64
		bathrooms, area  sql.NullFloat64
		features, images []byte
	)
	if err := row.Scan(
		&p.ID, &p.Title, &description, &p.Type, &p.Status, &p.Price, &p.Address, &p.City,
		&p.State, &p.ZipCode, &bedrooms, &bathrooms, &area, &year, &features,
		&images, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt, &p.OwnerName, &p.OwnerEmail,
		&p.TransactionCount,
	); err != nil {
		return nil, err
	}
	p.Description = nullStringToPointer(description)
	p.Bedrooms = nullIntToPointer(bedrooms)
	p.Bathrooms = nullFloatToPointer(bathrooms)
	p.Area = nullFloatToPointer(area)
	p.YearBuilt = nullIntToPointer(year)
	p.Features = jsonList(features)
	p.Images = jsonList(images)
	return &p, nil
}

func (r *PropertyRepository) List(ctx context.Context, db database.DBTX, scope models.Scope, filters query.Filters) ([]PropertyRow, query.Pagination, error) {
	data, cnt, page := query.Build(query.Properties, scope, filters)

	total, err := count(ctx, db, cnt.SQL, cnt.Args...)
	if err != nil {
		return nil, page, fmt.Errorf("count properties: %w", err)
	}

	rows, err := db.QueryContext(ctx, data.SQL, data.Args...)
	if err != nil {
		return nil, page, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()

	list := []PropertyRow{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, page, fmt.Errorf("scan property: %w", err)
		}
		list = append(list, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, page, fmt.Errorf("iterate properties: %w", err)
	}
	return list, page.WithTotal(total), nil
}

func (r *PropertyRepository) Get(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) (*PropertyRow, error) {
	q := query.ByID(query.Properties, scope, id)
	p, err := scanProperty(db.QueryRowContext(ctx, q.SQL, q.Args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NotFound("property")
		}
		return nil, fmt.Errorf("get property: %w", err)
	}
	return p, nil
}

func (r *PropertyRepository) Lock(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) error {
	return lockRow(ctx, db, "properties", "owner_id", "property", "UPDATE", id, scope)
}

func (r *PropertyRepository) Reference(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) error {
	return lockRow(ctx, db, "properties", "owner_id", "property", "KEY SHARE", id, scope)
}

func (r *PropertyRepository) Insert(ctx context.Context, db database.DBTX, p *models.Property) error {
	features, err := marshalList(p.Features)
	if err != nil {
		return fmt.Errorf("encode features: %w", err)
	}
	images, err := marshalList(p.Images)
	if err != nil {
		return fmt.Errorf("encode images: %w", err)
	}

	const q = `
		INSERT INTO properties(id, title, description, type, status, price, address, city, state, zip_code,
		                       bedrooms, bathrooms, area, year_built, features, images, owner_id, created_at, updated_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	if _, err := db.ExecContext(ctx, q,
		p.ID, p.Title, nullable(p.Description), string(p.Type), string(p.Status), p.Price,
		p.Address, p.City, p.State, p.ZipCode, nullable(p.Bedrooms), nullable(p.Bathrooms),
		nullable(p.Area), nullable(p.YearBuilt), features, images, p.OwnerID, p.CreatedAt, p.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert property: %w", database.TranslateError(err, "property"))
	}
	return nil
}

func (r *PropertyRepository) Update(ctx context.Context, db database.DBTX, id uuid.UUID, changes Changes) error {
	for _, col := range []string{"features", "images"} {
		if list, ok := changes[col].([]string); ok {
			encoded, err := marshalList(list)
			if err != nil {
				return fmt.Errorf("encode %s: %w", col, err)
			}
			changes[col] = encoded
		}
	}
	return execUpdate(ctx, db, "properties", "property", id, changes)
}

func (r *PropertyRepository) Delete(ctx context.Context, db database.DBTX, id uuid.UUID) error {
	return execDelete(ctx, db, "properties", "property", id)
}

func (r *PropertyRepository) CountTransactions(ctx context.Context, db database.DBTX, id uuid.UUID, statuses []models.TransactionStatus) (int, error) {
	q := "SELECT COUNT(*) FROM transactions WHERE property_id = $1 AND status IN (" + placeholders(2, len(statuses)) + ")"
	n, err := count(ctx, db, q, append([]any{id}, statusArgs(statuses)...)...)
	if err != nil {
		return 0, fmt.Errorf("count property transactions: %w", err)
	}
	return n, nil
}

func (r *PropertyRepository) Transactions(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) ([]TransactionSummary, error) {
	return transactionSummaries(ctx, db, "t.property_id", id, scope)
}
