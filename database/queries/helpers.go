package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/egor/backoffice/database"
	"github.com/egor/backoffice/models"
)

// Changes maps column names to new values for a partial update.
type Changes map[string]any

func nullStringToPointer(ns sql.NullString) *string {
	if ns.Valid {
		s := ns.String
		return &s
	}
	return nil
}

func nullFloatToPointer(nf sql.NullFloat64) *float64 {
	if nf.Valid {
		f := nf.Float64
		return &f
	}
	return nil
}

func nullIntToPointer(ni sql.NullInt64) *int {
	if ni.Valid {
		i := int(ni.Int64)
		return &i
	}
	return nil
}

// nullable turns a typed nil pointer into an untyped nil so the driver sends NULL.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func jsonList(raw []byte) []string {
	out := []string{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return out
}

// marshalList encodes a JSONB list parameter; nil encodes as [].
func marshalList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func rawJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func placeholders(from, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "$" + strconv.Itoa(from+i)
	}
	return strings.Join(parts, ", ")
}

func statusArgs(statuses []models.TransactionStatus) []any {
	out := make([]any, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}

// updateStatement renders UPDATE table SET ... WHERE id = $n with columns in
// sorted order and updated_at bumped.
func updateStatement(table string, id uuid.UUID, changes Changes) (string, []any) {
	cols := make([]string, 0, len(changes))
	for c := range changes {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	sets := make([]string, 0, len(cols)+1)
	args := make([]any, 0, len(cols)+1)
	for _, c := range cols {
		args = append(args, changes[c])
		sets = append(sets, fmt.Sprintf("%s = $%d", c, len(args)))
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, strings.Join(sets, ", "), len(args)), args
}

func execUpdate(ctx context.Context, db database.DBTX, table, entity string, id uuid.UUID, changes Changes) error {
	if len(changes) == 0 {
		return nil
	}
	q, args := updateStatement(table, id, changes)
	res, err := db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, database.TranslateError(err, entity))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.NotFound(entity)
	}
	return nil
}

func execDelete(ctx context.Context, db database.DBTX, table, entity string, id uuid.UUID) error {
	res, err := db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", table, database.TranslateError(err, entity))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.NotFound(entity)
	}
	return nil
}

// lockRow takes a row lock on a record inside scope. It fails with NotFound
// when the row is missing or owned by someone else.
func lockRow(ctx context.Context, db database.DBTX, table, ownerColumn, entity, mode string, id uuid.UUID, scope models.Scope) error {
	q := "SELECT id FROM " + table + " WHERE id = $1"
	args := []any{id}
	if owner, restricted := scope.Owner(); restricted {
		q += " AND " + ownerColumn + " = $2"
		args = append(args, owner)
	}
	q += " FOR " + mode

	var got uuid.UUID
	if err := db.QueryRowContext(ctx, q, args...).Scan(&got); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.NotFound(entity)
		}
		return fmt.Errorf("lock %s: %w", table, err)
	}
	return nil
}

func count(ctx context.Context, db database.DBTX, q string, args ...any) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
