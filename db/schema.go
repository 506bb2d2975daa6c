// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema (step %d): %w", i+1, err)
		}
	}

	return nil
}

// migrations run in order, one statement each. The SQL must stay valid for
// both PostgreSQL and SQLite.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS ledger_event (
    seq BIGINT PRIMARY KEY,
    id TEXT NOT NULL UNIQUE,
    type TEXT NOT NULL,
    session_id BIGINT NOT NULL DEFAULT 0,
    actor TEXT NOT NULL,
    recorded_at BIGINT NOT NULL,
    payload TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_ledger_event_session_id ON ledger_event(session_id)`,
	`CREATE INDEX IF NOT EXISTS idx_ledger_event_type ON ledger_event(type)`,
}
