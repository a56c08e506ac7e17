package infra

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaDDL creates the record-store tables the analytics engine reads from.
// It mirrors the production schema closely enough for repository tests; the
// engine itself never writes to any of these.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	full_name TEXT NOT NULL,
	password_hash TEXT NOT NULL DEFAULT '',
	phone TEXT,
	languages TEXT[],
	broker_id TEXT,
	rating DOUBLE PRECISION NOT NULL DEFAULT 0,
	role TEXT NOT NULL DEFAULT 'client',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS transactions (
	id TEXT PRIMARY KEY,
	broker_id TEXT NOT NULL,
	client_id TEXT NOT NULL,
	side TEXT NOT NULL,
	status TEXT NOT NULL,
	buyer_stage TEXT,
	seller_stage TEXT,
	opened_at TIMESTAMPTZ NOT NULL,
	closed_at TIMESTAMPTZ,
	last_updated TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS timeline_entries (
	id TEXT PRIMARY KEY,
	transaction_id TEXT NOT NULL REFERENCES transactions(id),
	type TEXT NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL,
	previous_stage TEXT,
	new_stage TEXT
);

CREATE TABLE IF NOT EXISTS appointments (
	id TEXT PRIMARY KEY,
	transaction_id TEXT NOT NULL REFERENCES transactions(id),
	type TEXT NOT NULL,
	status TEXT NOT NULL,
	scheduled_at TIMESTAMPTZ NOT NULL,
	visitor_count INT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	transaction_id TEXT NOT NULL REFERENCES transactions(id),
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS properties (
	id TEXT PRIMARY KEY,
	transaction_id TEXT NOT NULL REFERENCES transactions(id),
	listed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS property_offers (
	id TEXT PRIMARY KEY,
	property_id TEXT NOT NULL,
	transaction_id TEXT NOT NULL REFERENCES transactions(id),
	status TEXT NOT NULL,
	amount DOUBLE PRECISION,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS received_offers (
	id TEXT PRIMARY KEY,
	property_id TEXT NOT NULL,
	transaction_id TEXT NOT NULL REFERENCES transactions(id),
	status TEXT NOT NULL,
	amount DOUBLE PRECISION,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS conditions (
	id TEXT PRIMARY KEY,
	transaction_id TEXT NOT NULL REFERENCES transactions(id),
	status TEXT NOT NULL,
	deadline TIMESTAMPTZ
);
`

// ApplySchema creates the analytics record-store tables on the target
// database and returns a connected pool.
func ApplySchema(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect pool: %w", err)
	}

	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return pool, nil
}
