package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/egor/backoffice/models"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// TranslateError maps storage constraint failures onto the public error
// taxonomy so constraint names never reach callers. Other errors pass through.
func TranslateError(err error, entity string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return models.Conflict(entity + " already exists")
	case pgForeignKeyViolation:
		return models.MissingDependency("referenced record")
	}
	return err
}
