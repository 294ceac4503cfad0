package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/egor/backoffice/database"
	"github.com/egor/backoffice/models"
	"github.com/egor/backoffice/query"
)

// ClientRow is a client joined with its agent and transaction count.
type ClientRow struct {
	models.Client
	AgentName        string
	AgentEmail       string
	TransactionCount int
}

// TransactionSummary is the compact transaction shape embedded in client and
// property details.
type TransactionSummary struct {
	ID            uuid.UUID
	Type          models.TransactionType
	Status        models.TransactionStatus
	Amount        float64
	PropertyID    uuid.UUID
	PropertyTitle string
	ClientID      uuid.UUID
	ClientName    string
	CreatedAt     time.Time
}

type ClientRepository struct{}

func NewClientRepository() *ClientRepository { return &ClientRepository{} }

func scanClient(row interface{ Scan(...any) error }) (*ClientRow, error) {
	var (
		c           ClientRow
		phone, addr sql.NullString
		prefs       []byte
	)
	if err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &phone, &addr, &prefs,
		&c.AgentID, &c.CreatedAt, &c.UpdatedAt, &c.AgentName, &c.AgentEmail,
		&c.TransactionCount,
	); err != nil {
		return nil, err
	}
	c.Phone = nullStringToPointer(phone)
	c.Address = nullStringToPointer(addr)
	if len(prefs) > 0 {
		c.Preferences = append([]byte(nil), prefs...)
	}
	return &c, nil
}

// List returns one page of clients visible in scope plus the pagination totals.
func (r *ClientRepository) List(ctx context.Context, db database.DBTX, scope models.Scope, filters query.Filters) ([]ClientRow, query.Pagination, error) {
	data, cnt, page := query.Build(query.Clients, scope, filters)

	total, err := count(ctx, db, cnt.SQL, cnt.Args...)
	if err != nil {
		return nil, page, fmt.Errorf("count clients: %w", err)
	}

	rows, err := db.QueryContext(ctx, data.SQL, data.Args...)
	if err != nil {
		return nil, page, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	list := []ClientRow{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, page, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, page, fmt.Errorf("iterate clients: %w", err)
	}
	return list, page.WithTotal(total), nil
}

// Get loads a client inside scope; out-of-scope and missing are both NotFound.
func (r *ClientRepository) Get(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) (*ClientRow, error) {
	q := query.ByID(query.Clients, scope, id)
	c, err := scanClient(db.QueryRowContext(ctx, q.SQL, q.Args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NotFound("client")
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// Lock row-locks a client for update or delete.
func (r *ClientRepository) Lock(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) error {
	return lockRow(ctx, db, "clients", "agent_id", "client", "UPDATE", id, scope)
}

// Reference checks a client is visible in scope and holds it against
// concurrent deletion until the surrounding transaction ends.
func (r *ClientRepository) Reference(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) error {
	return lockRow(ctx, db, "clients", "agent_id", "client", "KEY SHARE", id, scope)
}

// EmailTaken reports whether agentID already has another client with email.
func (r *ClientRepository) EmailTaken(ctx context.Context, db database.DBTX, agentID uuid.UUID, email string, exclude uuid.UUID) (bool, error) {
	n, err := count(ctx, db,
		"SELECT COUNT(*) FROM clients WHERE agent_id = $1 AND LOWER(email) = $2 AND id <> $3",
		agentID, strings.ToLower(email), exclude,
	)
	if err != nil {
		return false, fmt.Errorf("check client email: %w", err)
	}
	return n > 0, nil
}

func (r *ClientRepository) Insert(ctx context.Context, db database.DBTX, c *models.Client) error {
	const q = `
		INSERT INTO clients(id, first_name, last_name, email, phone, address, preferences, agent_id, created_at, updated_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if _, err := db.ExecContext(ctx, q,
		c.ID, c.FirstName, c.LastName, c.Email, nullable(c.Phone), nullable(c.Address),
		rawJSON(c.Preferences), c.AgentID, c.CreatedAt, c.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert client: %w", database.TranslateError(err, "client"))
	}
	return nil
}

func (r *ClientRepository) Update(ctx context.Context, db database.DBTX, id uuid.UUID, changes Changes) error {
	return execUpdate(ctx, db, "clients", "client", id, changes)
}

func (r *ClientRepository) Delete(ctx context.Context, db database.DBTX, id uuid.UUID) error {
	return execDelete(ctx, db, "clients", "client", id)
}

// CountTransactions counts a client's transactions whose status is in statuses.
func (r *ClientRepository) CountTransactions(ctx context.Context, db database.DBTX, id uuid.UUID, statuses []models.TransactionStatus) (int, error) {
	q := "SELECT COUNT(*) FROM transactions WHERE client_id = $1 AND status IN (" + placeholders(2, len(statuses)) + ")"
	n, err := count(ctx, db, q, append([]any{id}, statusArgs(statuses)...)...)
	if err != nil {
		return 0, fmt.Errorf("count client transactions: %w", err)
	}
	return n, nil
}

// Transactions lists the client's transactions visible in scope, newest first.
func (r *ClientRepository) Transactions(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) ([]TransactionSummary, error) {
	return transactionSummaries(ctx, db, "t.client_id", id, scope)
}

func transactionSummaries(ctx context.Context, db database.DBTX, column string, id uuid.UUID, scope models.Scope) ([]TransactionSummary, error) {
	q := `
		SELECT t.id, t.type, t.status, t.amount, t.property_id, p.title,
		       t.client_id, c.first_name || ' ' || c.last_name, t.created_at
		  FROM transactions t
		  JOIN properties p ON p.id = t.property_id
		  JOIN clients c ON c.id = t.client_id
		 WHERE ` + column + ` = $1`
	args := []any{id}
	if owner, restricted := scope.Owner(); restricted {
		q += " AND t.agent_id = $2"
		args = append(args, owner)
	}
	q += " ORDER BY t.created_at DESC, t.id ASC"

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list transaction summaries: %w", err)
	}
	defer rows.Close()

	out := []TransactionSummary{}
	for rows.Next() {
		var s TransactionSummary
		if err := rows.Scan(
			&s.ID, &s.Type, &s.Status, &s.Amount, &s.PropertyID, &s.PropertyTitle,
			&s.ClientID, &s.ClientName, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
