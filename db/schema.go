// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The statements are valid for both PostgreSQL and SQLite.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

var schema = []string{
	// Polls
	`CREATE TABLE IF NOT EXISTS poll (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL CHECK (category IN ('Politics', 'Technology', 'Sports', 'Entertainment', 'Education', 'Other')),
    creator_id TEXT NOT NULL,
    start_date TIMESTAMP NOT NULL,
    end_date TIMESTAMP NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    total_votes INTEGER NOT NULL DEFAULT 0 CHECK (total_votes >= 0),
    created_at TIMESTAMP NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_poll_active_created ON poll(is_active, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_poll_category ON poll(category, is_active)`,

	// Options
	`CREATE TABLE IF NOT EXISTS poll_option (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    text TEXT NOT NULL,
    votes INTEGER NOT NULL DEFAULT 0 CHECK (votes >= 0)
)`,
	`CREATE INDEX IF NOT EXISTS idx_poll_option_poll_id ON poll_option(poll_id)`,

	// Voters; the primary key is the one-vote-per-identity guard
	`CREATE TABLE IF NOT EXISTS poll_voter (
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    voter_id TEXT NOT NULL,
    option_id TEXT NOT NULL,
    voted_at TIMESTAMP NOT NULL,
    PRIMARY KEY (poll_id, voter_id)
)`,

	// Payments (entitlement records)
	`CREATE TABLE IF NOT EXISTS payment (
    id TEXT PRIMARY KEY,
    identity_id TEXT NOT NULL,
    payment_id TEXT NOT NULL UNIQUE,
    amount NUMERIC(12, 2) NOT NULL,
    currency TEXT NOT NULL,
    status TEXT NOT NULL CHECK (status IN ('completed', 'pending', 'failed', 'refunded')),
    created_at TIMESTAMP NOT NULL,
    expires_at TIMESTAMP NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_payment_identity ON payment(identity_id, status)`,
}
