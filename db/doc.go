// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Connecting

Open picks the driver from the configured database type:

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)

"sqlite" (the default) uses modernc.org/sqlite and takes a file path or
":memory:". "postgres" uses github.com/lib/pq and takes a connection URL.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - ledger_event: the event journal, one row per committed event

The primary key is the global sequence number, so two writers racing for
the same slot cannot both succeed.

# Indexes

  - ledger_event.session_id
  - ledger_event.type
*/
package db
