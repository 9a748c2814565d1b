package database

import (
	"context"
	"database/sql"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS wallets (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		plan TEXT NOT NULL DEFAULT 'personal',
		balance NUMERIC(14,2) NOT NULL DEFAULT 0,
		opening_balance NUMERIC(14,2) NOT NULL DEFAULT 0,
		collaborators JSONB NOT NULL DEFAULT '[]'::jsonb,
		version BIGINT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_wallets_owner ON wallets (owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_wallets_collaborators ON wallets USING GIN (collaborators)`,
	`CREATE TABLE IF NOT EXISTS budgets (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		category TEXT NOT NULL,
		amount NUMERIC(14,2) NOT NULL,
		amount_left NUMERIC(14,2) NOT NULL,
		spent NUMERIC(14,2) NOT NULL DEFAULT 0,
		period TEXT NOT NULL,
		plan TEXT NOT NULL DEFAULT 'personal',
		wallet_id TEXT NOT NULL DEFAULT '',
		wallet_name TEXT NOT NULL DEFAULT '',
		collaborators JSONB NOT NULL DEFAULT '[]'::jsonb,
		version BIGINT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_budgets_owner ON budgets (owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_budgets_wallet ON budgets (wallet_id)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		amount NUMERIC(14,2) NOT NULL CHECK (amount > 0),
		date_time TIMESTAMPTZ NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		wallet_from TEXT NOT NULL,
		wallet_to TEXT,
		description TEXT NOT NULL DEFAULT '',
		created_by TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_by TEXT,
		updated_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_wallet_from ON transactions (wallet_from)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_wallet_to ON transactions (wallet_to)`,
	`CREATE TABLE IF NOT EXISTS user_categories (
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (user_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS wallet_activity (
		id TEXT PRIMARY KEY,
		wallet_id TEXT NOT NULL,
		actor TEXT NOT NULL,
		action TEXT NOT NULL,
		entity_type TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		message TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_wallet_activity_wallet ON wallet_activity (wallet_id, created_at DESC)`,
}

// Migrate creates any missing tables and indexes. Every statement is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}
