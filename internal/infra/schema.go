package infra

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema holds the DDL applied at startup. Statements are idempotent so
// repeated boots against the same database are safe.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		phone_number TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS wallets (
		id UUID PRIMARY KEY,
		owner_id UUID REFERENCES users(id),
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		account_code TEXT UNIQUE NOT NULL,
		currency TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS services (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS accounts (
		id UUID PRIMARY KEY,
		code TEXT UNIQUE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS postings (
		id UUID PRIMARY KEY,
		reference TEXT NOT NULL,
		kind TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (reference, kind)
	)`,
	`CREATE TABLE IF NOT EXISTS entries (
		id UUID PRIMARY KEY,
		posting_id UUID NOT NULL REFERENCES postings(id),
		account_id UUID NOT NULL REFERENCES accounts(id),
		amount NUMERIC(18, 2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS wallet_transactions (
		id UUID PRIMARY KEY,
		category TEXT NOT NULL,
		amount NUMERIC(18, 2) NOT NULL,
		from_wallet_id UUID,
		to_wallet_id UUID,
		status TEXT NOT NULL,
		reference TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_entries_account ON entries (account_id)`,
	`CREATE INDEX IF NOT EXISTS idx_wallet_tx_from ON wallet_transactions (from_wallet_id)`,
	`CREATE INDEX IF NOT EXISTS idx_wallet_tx_to ON wallet_transactions (to_wallet_id)`,
}

// Migrate applies the schema to the connected database.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
