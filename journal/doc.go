// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package journal stores committed ledger events in the ledger_event table.

The ledger appends to the journal before it changes any in-memory state,
so the journal is the source of truth: on startup the server loads it and
replays it into a fresh ledger.

	store := journal.New(conn)
	events, err := store.Load(ctx)
	if err == nil {
		err = l.Replay(events)
	}

Queries use $N placeholders, which both lib/pq and modernc.org/sqlite
accept.
*/
package journal
