package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// pgx driver in database/sql mode
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/egor/backoffice/config"
)

const pingTimeout = 3 * time.Second

var sqlOpen = sql.Open

// Open opens the connection pool and checks connectivity.
func Open(ctx context.Context, cfg config.PostgresConfig) (*sql.DB, error) {
	db, err := sqlOpen("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db.Ping: %w", err)
	}
	return db, nil
}
