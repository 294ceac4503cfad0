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

// TransactionRow is a transaction joined with the property, client and agent
// it links.
type TransactionRow struct {
	models.Transaction
	PropertyTitle   string
	PropertyAddress string
	PropertyPrice   float64
	ClientFirstName string
	ClientLastName  string
	ClientEmail     string
	AgentName       string
	AgentEmail      string
}

type TransactionRepository struct{}

func NewTransactionRepository() *TransactionRepository { return &TransactionRepository{} }

func scanTransaction(row interface{ Scan(...any) error }) (*TransactionRow, error) {
	var (
		t          TransactionRow
		commission sql.NullFloat64
		notes      sql.NullString
	)
	if err := row.Scan(
		&t.ID, &t.Type, &t.Status, &t.Amount, &commission, &notes, &t.PropertyID,
		&t.ClientID, &t.AgentID, &t.CreatedAt, &t.UpdatedAt,
		&t.PropertyTitle, &t.PropertyAddress, &t.PropertyPrice,
		&t.ClientFirstName, &t.ClientLastName, &t.ClientEmail, &t.AgentName, &t.AgentEmail,
	); err != nil {
		return nil, err
	}
	t.Commission = nullFloatToPointer(commission)
	t.Notes = nullStringToPointer(notes)
	return &t, nil
}

func (r *TransactionRepository) List(ctx context.Context, db database.DBTX, scope models.Scope, filters query.Filters) ([]TransactionRow, query.Pagination, error) {
	data, cnt, page := query.Build(query.Transactions, scope, filters)

	total, err := count(ctx, db, cnt.SQL, cnt.Args...)
	if err != nil {
		return nil, page, fmt.Errorf("count transactions: %w", err)
	}

	rows, err := db.QueryContext(ctx, data.SQL, data.Args...)
	if err != nil {
		return nil, page, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	list := []TransactionRow{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, page, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, page, fmt.Errorf("iterate transactions: %w", err)
	}
	return list, page.WithTotal(total), nil
}

func (r *TransactionRepository) Get(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) (*TransactionRow, error) {
	q := query.ByID(query.Transactions, scope, id)
	t, err := scanTransaction(db.QueryRowContext(ctx, q.SQL, q.Args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NotFound("transaction")
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (r *TransactionRepository) Lock(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) error {
	return lockRow(ctx, db, "transactions", "agent_id", "transaction", "UPDATE", id, scope)
}

func (r *TransactionRepository) Insert(ctx context.Context, db database.DBTX, t *models.Transaction) error {
	const q = `
		INSERT INTO transactions(id, type, status, amount, commission, notes, property_id, client_id, agent_id, created_at, updated_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	if _, err := db.ExecContext(ctx, q,
		t.ID, string(t.Type), string(t.Status), t.Amount, nullable(t.Commission), nullable(t.Notes),
		t.PropertyID, t.ClientID, t.AgentID, t.CreatedAt, t.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert transaction: %w", database.TranslateError(err, "transaction"))
	}
	return nil
}

func (r *TransactionRepository) Update(ctx context.Context, db database.DBTX, id uuid.UUID, changes Changes) error {
	return execUpdate(ctx, db, "transactions", "transaction", id, changes)
}

func (r *TransactionRepository) Delete(ctx context.Context, db database.DBTX, id uuid.UUID) error {
	return execDelete(ctx, db, "transactions", "transaction", id)
}
