package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/egor/backoffice/database"
	"github.com/egor/backoffice/models"
	"github.com/egor/backoffice/query"
)

// UserRow is a user with the number of records they own.
type UserRow struct {
	models.User
	PropertyCount    int
	ClientCount      int
	TransactionCount int
}

type UserRepository struct{}

func NewUserRepository() *UserRepository { return &UserRepository{} }

func scanUser(row interface{ Scan(...any) error }) (*UserRow, error) {
	var u UserRow
	if err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt,
		&u.PropertyCount, &u.ClientCount, &u.TransactionCount,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context, db database.DBTX, scope models.Scope, filters query.Filters) ([]UserRow, query.Pagination, error) {
	data, cnt, page := query.Build(query.Users, scope, filters)

	total, err := count(ctx, db, cnt.SQL, cnt.Args...)
	if err != nil {
		return nil, page, fmt.Errorf("count users: %w", err)
	}

	rows, err := db.QueryContext(ctx, data.SQL, data.Args...)
	if err != nil {
		return nil, page, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	list := []UserRow{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, page, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, page, fmt.Errorf("iterate users: %w", err)
	}
	return list, page.WithTotal(total), nil
}

func (r *UserRepository) Get(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) (*UserRow, error) {
	q := query.ByID(query.Users, scope, id)
	u, err := scanUser(db.QueryRowContext(ctx, q.SQL, q.Args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NotFound("user")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetByEmail loads the account including its password hash, for login.
func (r *UserRepository) GetByEmail(ctx context.Context, db database.DBTX, email string) (*models.User, error) {
	var u models.User
	err := db.QueryRowContext(ctx,
		"SELECT id, email, password_hash, name, role, created_at, updated_at FROM users WHERE LOWER(email) = $1",
		strings.ToLower(strings.TrimSpace(email)),
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NotFound("user")
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) Lock(ctx context.Context, db database.DBTX, id uuid.UUID, scope models.Scope) error {
	return lockRow(ctx, db, "users", "id", "user", "UPDATE", id, scope)
}

// Reference checks that an owner account exists and pins it for the rest of
// the transaction. A missing account is a dependency failure, not NotFound.
func (r *UserRepository) Reference(ctx context.Context, db database.DBTX, id uuid.UUID) error {
	err := lockRow(ctx, db, "users", "id", "user", "KEY SHARE", id, models.Unrestricted())
	if errors.Is(err, models.ErrNotFound) {
		return models.MissingDependency("user")
	}
	return err
}

func (r *UserRepository) EmailTaken(ctx context.Context, db database.DBTX, email string, exclude uuid.UUID) (bool, error) {
	n, err := count(ctx, db,
		"SELECT COUNT(*) FROM users WHERE LOWER(email) = $1 AND id <> $2",
		strings.ToLower(email), exclude,
	)
	if err != nil {
		return false, fmt.Errorf("check user email: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) Insert(ctx context.Context, db database.DBTX, u *models.User) error {
	const q = `
		INSERT INTO users(id, email, password_hash, name, role, created_at, updated_at)
		VALUES($1, $2, $3, $4, $5, $6, $7)`
	if _, err := db.ExecContext(ctx, q,
		u.ID, u.Email, u.PasswordHash, u.Name, string(u.Role), u.CreatedAt, u.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert user: %w", database.TranslateError(err, "user"))
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, db database.DBTX, id uuid.UUID, changes Changes) error {
	return execUpdate(ctx, db, "users", "user", id, changes)
}

// Delete removes the account; owned clients, properties and transactions go
// with it through ON DELETE CASCADE.
func (r *UserRepository) Delete(ctx context.Context, db database.DBTX, id uuid.UUID) error {
	return execDelete(ctx, db, "users", "user", id)
}
