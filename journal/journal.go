// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/danielhkuo/quickly-vote/ledger"
)

// DefaultLimit caps List when the query sets no limit.
const DefaultLimit = 100

// MaxLimit is the largest page List returns.
const MaxLimit = 1000

// Store is the durable event journal. It implements ledger.EventLog.
type Store struct {
	db *sql.DB
}

var _ ledger.EventLog = (*Store)(nil)

// New returns a journal backed by db. The schema must already exist.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append writes events in a single transaction. Either every event is
// stored or none is.
func (s *Store) Append(ctx context.Context, events []ledger.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO ledger_event (seq, id, type, session_id, actor, recorded_at, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, evt := range events {
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("encode event %d: %w", evt.Seq, err)
		}
		_, err = stmt.ExecContext(ctx,
			int64(evt.Seq),
			evt.ID,
			string(evt.Type),
			int64(evt.SessionID),
			string(evt.Actor),
			evt.Time.UnixNano(),
			string(payload),
		)
		if err != nil {
			return fmt.Errorf("insert event %d: %w", evt.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Query selects a page of the journal.
type Query struct {
	// After excludes events with Seq <= After.
	After uint64
	// SessionID, when non-zero, keeps only events of that session.
	SessionID uint64
	// Type, when set, keeps only events of that type.
	Type ledger.EventType
	// Limit defaults to DefaultLimit and is capped at MaxLimit.
	Limit int
}

// List returns events matching q in ascending sequence order.
func (s *Store) List(ctx context.Context, q Query) ([]ledger.Event, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	var (
		where []string
		args  []any
	)
	addArg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	where = append(where, "seq > "+addArg(int64(q.After)))
	if q.SessionID != 0 {
		where = append(where, "session_id = "+addArg(int64(q.SessionID)))
	}
	if q.Type != "" {
		where = append(where, "type = "+addArg(string(q.Type)))
	}

	query := `SELECT seq, payload FROM ledger_event WHERE ` +
		strings.Join(where, " AND ") +
		` ORDER BY seq ASC LIMIT ` + addArg(limit)
	return s.query(ctx, query, args...)
}

// Load returns the whole journal in ascending sequence order.
func (s *Store) Load(ctx context.Context) ([]ledger.Event, error) {
	return s.query(ctx, `SELECT seq, payload FROM ledger_event ORDER BY seq ASC`)
}

// LastSeq returns the highest stored sequence number, or 0 when empty.
func (s *Store) LastSeq(ctx context.Context) (uint64, error) {
	var seq sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM ledger_event`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("query last seq: %w", err)
	}
	if !seq.Valid {
		return 0, nil
	}
	return uint64(seq.Int64), nil
}

// Restore replays the whole journal into l and checks that l ends at the
// journal head. It returns the number of events replayed.
func (s *Store) Restore(ctx context.Context, l *ledger.Ledger) (int, error) {
	events, err := s.Load(ctx)
	if err != nil {
		return 0, err
	}
	if err := l.Replay(events); err != nil {
		return 0, err
	}
	head, err := s.LastSeq(ctx)
	if err != nil {
		return 0, err
	}
	if seq := l.Seq(); seq != head {
		return 0, fmt.Errorf("restore: ledger at seq %d but journal head is %d", seq, head)
	}
	return len(events), nil
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]ledger.Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []ledger.Event{}
	for rows.Next() {
		var (
			seq     int64
			payload string
		)
		if err := rows.Scan(&seq, &payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		var evt ledger.Event
		if err := json.Unmarshal([]byte(payload), &evt); err != nil {
			return nil, fmt.Errorf("decode event %d: %w", seq, err)
		}
		if evt.Seq != uint64(seq) {
			return nil, fmt.Errorf("event %d: payload carries seq %d", seq, evt.Seq)
		}
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}
