package database

import (
	"context"
	"fmt"
)

// schema is idempotent. Client email is unique per agent; see DESIGN.md.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name          TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'AGENT' CHECK (role IN ('AGENT', 'ADMIN')),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS clients (
		id          UUID PRIMARY KEY,
		first_name  TEXT NOT NULL,
		last_name   TEXT NOT NULL,
		email       TEXT NOT NULL,
		phone       TEXT,
		address     TEXT,
		preferences JSONB,
		agent_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (agent_id, email)
	)`,
	`CREATE TABLE IF NOT EXISTS properties (
		id          UUID PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT,
		type        TEXT NOT NULL,
		status      TEXT NOT NULL DEFAULT 'AVAILABLE',
		price       NUMERIC(14, 2) NOT NULL CHECK (price >= 0),
		address     TEXT NOT NULL,
		city        TEXT NOT NULL,
		state       TEXT NOT NULL,
		zip_code    TEXT NOT NULL,
		bedrooms    INTEGER,
		bathrooms   NUMERIC(4, 1),
		area        NUMERIC(12, 2),
		year_built  INTEGER,
		features    JSONB NOT NULL DEFAULT '[]',
		images      JSONB NOT NULL DEFAULT '[]',
		owner_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id          UUID PRIMARY KEY,
		type        TEXT NOT NULL,
		status      TEXT NOT NULL DEFAULT 'PENDING',
		amount      NUMERIC(14, 2) NOT NULL CHECK (amount > 0),
		commission  NUMERIC(14, 2) CHECK (commission >= 0),
		notes       TEXT,
		property_id UUID NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		client_id   UUID NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
		agent_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_clients_agent ON clients (agent_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_properties_owner ON properties (owner_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_properties_status ON properties (status)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_agent ON transactions (agent_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_client ON transactions (client_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_property ON transactions (property_id, status)`,
}

// Migrate applies the schema inside one transaction.
func Migrate(ctx context.Context, s *Store) error {
	return s.WithTx(ctx, func(tx DBTX) error {
		for _, stmt := range schema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("apply schema: %w", err)
			}
		}
		return nil
	})
}
