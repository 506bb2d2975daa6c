// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/danielhkuo/quickly-vote/event"
)

// Config holds the collaborators of a Ledger.
type Config struct {
	// Admin is the single privileged identity. Required.
	Admin Address
	// Clock defaults to SystemClock.
	Clock Clock
	// Log receives every committed event before it is applied. Required.
	Log EventLog
	// EventBus, when set, receives committed events in commit order.
	EventBus *event.EventBus
	// Logger defaults to slog.Default().
	Logger       *slog.Logger
	PromRegistry prometheus.Registerer
	// NewID generates event ids. Defaults to random UUIDs.
	NewID func() string
}

// Ledger is the voting ledger. It is safe for concurrent use: mutations are
// serialized behind one write lock, queries share a read lock.
type Ledger struct {
	mu      sync.RWMutex
	admin   Address
	clock   Clock
	log     EventLog
	bus     *event.EventBus
	logger  *slog.Logger
	newID   func() string
	metrics *ledgerMetrics

	sessions []*sessionState
	voters   map[Address]struct{}
	seq      uint64
}

// New creates an empty ledger with the admin registered as a voter.
func New(cfg Config) (*Ledger, error) {
	if !cfg.Admin.Valid() {
		return nil, fmt.Errorf("invalid admin address %q", cfg.Admin)
	}
	if cfg.Log == nil {
		return nil, errors.New("event log is required")
	}
	l := &Ledger{
		admin:  cfg.Admin,
		clock:  cfg.Clock,
		log:    cfg.Log,
		bus:    cfg.EventBus,
		logger: cfg.Logger,
		newID:  cfg.NewID,
		voters: map[Address]struct{}{cfg.Admin: {}},
	}
	if l.clock == nil {
		l.clock = SystemClock
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	if l.newID == nil {
		l.newID = uuid.NewString
	}
	if cfg.PromRegistry != nil {
		l.metrics = newLedgerMetrics(cfg.PromRegistry)
	}
	return l, nil
}

// Admin returns the administrative identity.
func (l *Ledger) Admin() Address {
	return l.admin
}

// Seq returns the sequence number of the last committed event.
func (l *Ledger) Seq() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.seq
}

// Replay applies previously committed events without authorization or
// window checks. Events must continue the ledger's sequence without gaps.
// Published events are not re-sent to the event bus.
func (l *Ledger) Replay(events []Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, evt := range events {
		if evt.Seq != l.seq+1 {
			return fmt.Errorf("replay: expected seq %d, got %d", l.seq+1, evt.Seq)
		}
		if err := l.apply(evt); err != nil {
			return fmt.Errorf("replay seq %d: %w", evt.Seq, err)
		}
	}
	l.metrics.setSessions(len(l.sessions))
	return nil
}

func (l *Ledger) requireAdmin(op string, caller Address) error {
	if caller == "" {
		return authError(op, "caller identity required")
	}
	if caller != l.admin {
		return authError(op, "caller %s is not the administrator", caller)
	}
	return nil
}

// reject records a rejected operation and returns err unchanged.
func (l *Ledger) reject(op string, err error) error {
	kind, _ := KindOf(err)
	l.logger.Debug("operation rejected", "op", op, "kind", kind, "error", err)
	l.metrics.rejected(op, kind)
	return err
}

// commit stamps events, appends them to the log and applies them.
// The caller must hold l.mu for writing and must have validated the
// transition, so apply cannot fail on these events.
func (l *Ledger) commit(ctx context.Context, op string, caller Address, now time.Time, events ...Event) error {
	for i := range events {
		events[i].Seq = l.seq + uint64(i) + 1
		events[i].ID = l.newID()
		events[i].Actor = caller
		events[i].Time = now
	}
	if err := l.log.Append(ctx, events); err != nil {
		l.logger.Error("failed to append events", "op", op, "error", err)
		return fmt.Errorf("%s: append events: %w", op, err)
	}
	for _, evt := range events {
		if err := l.apply(evt); err != nil {
			// Only reachable through a validation bug; the log already has it.
			l.logger.Error("failed to apply committed event", "op", op, "seq", evt.Seq, "error", err)
			return fmt.Errorf("%s: apply seq %d: %w", op, evt.Seq, err)
		}
	}
	l.logger.Info("operation committed", "op", op, "caller", caller, "seq", l.seq)
	l.metrics.committed(op)
	l.metrics.setSessions(len(l.sessions))
	l.publish(events)
	return nil
}

func (l *Ledger) publish(events []Event) {
	if l.bus == nil {
		return
	}
	for _, evt := range events {
		t := event.EventType(evt.Type)
		l.bus.Publish(t, event.Event{Type: t, Timestamp: evt.Time, Data: evt})
	}
}

// apply mutates state for one event. It validates references before
// touching anything so a failing event leaves state unchanged.
func (l *Ledger) apply(evt Event) error {
	switch evt.Type {
	case EventSessionCreated:
		if evt.SessionID != uint64(len(l.sessions))+1 {
			return fmt.Errorf("session id %d out of order", evt.SessionID)
		}
		if evt.StartTime == nil || evt.EndTime == nil || !evt.StartTime.Before(*evt.EndTime) {
			return fmt.Errorf("session %d has an invalid window", evt.SessionID)
		}
		l.sessions = append(l.sessions, &sessionState{
			id:      evt.SessionID,
			name:    evt.Name,
			start:   *evt.StartTime,
			end:     *evt.EndTime,
			created: true,
			votes:   make(map[Address]uint64),
		})
	case EventSessionStarted, EventSessionEnded:
		s, ok := l.session(evt.SessionID)
		if !ok {
			return fmt.Errorf("unknown session %d", evt.SessionID)
		}
		s.active = evt.Type == EventSessionStarted
	case EventCandidateAdded:
		s, ok := l.session(evt.SessionID)
		if !ok {
			return fmt.Errorf("unknown session %d", evt.SessionID)
		}
		if evt.CandidateID != uint64(len(s.candidates))+1 {
			return fmt.Errorf("candidate id %d out of order in session %d", evt.CandidateID, evt.SessionID)
		}
		s.candidates = append(s.candidates, &Candidate{ID: evt.CandidateID, Name: evt.Name, Active: true})
	case EventCandidateUpdated, EventCandidateRemoved:
		s, ok := l.session(evt.SessionID)
		if !ok {
			return fmt.Errorf("unknown session %d", evt.SessionID)
		}
		c, ok := s.candidate(evt.CandidateID)
		if !ok {
			return fmt.Errorf("unknown candidate %d in session %d", evt.CandidateID, evt.SessionID)
		}
		if evt.Type == EventCandidateUpdated {
			c.Name = evt.Name
		} else {
			c.Active = false
		}
	case EventVoteCast:
		s, ok := l.session(evt.SessionID)
		if !ok {
			return fmt.Errorf("unknown session %d", evt.SessionID)
		}
		c, ok := s.candidate(evt.CandidateID)
		if !ok {
			return fmt.Errorf("unknown candidate %d in session %d", evt.CandidateID, evt.SessionID)
		}
		if _, voted := s.votes[evt.Voter]; voted {
			return fmt.Errorf("voter %s already voted in session %d", evt.Voter, evt.SessionID)
		}
		s.votes[evt.Voter] = evt.CandidateID
		c.VoteCount++
		s.totalVotes++
	case EventVoterRegistered:
		if !evt.Voter.Valid() {
			return fmt.Errorf("invalid voter address %q", evt.Voter)
		}
		l.voters[evt.Voter] = struct{}{}
	default:
		return fmt.Errorf("unknown event type %q", evt.Type)
	}
	l.seq = evt.Seq
	return nil
}

// CheckInvariants verifies the structural invariants over the full state and
// returns every violation found.
func (l *Ledger) CheckInvariants() error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var errs []error
	for i, s := range l.sessions {
		if s.id != uint64(i)+1 {
			errs = append(errs, fmt.Errorf("session at index %d has id %d", i, s.id))
		}
		if !s.created {
			errs = append(errs, fmt.Errorf("session %d is not marked created", s.id))
		}
		if !s.start.Before(s.end) {
			errs = append(errs, fmt.Errorf("session %d: start %s is not before end %s", s.id, s.start, s.end))
		}
		var sum uint64
		for j, c := range s.candidates {
			if c.ID != uint64(j)+1 {
				errs = append(errs, fmt.Errorf("session %d: candidate at index %d has id %d", s.id, j, c.ID))
			}
			sum += c.VoteCount
		}
		if sum != s.totalVotes {
			errs = append(errs, fmt.Errorf("session %d: candidate votes %d != total votes %d", s.id, sum, s.totalVotes))
		}
		if uint64(len(s.votes)) != s.totalVotes {
			errs = append(errs, fmt.Errorf("session %d: voters %d != total votes %d", s.id, len(s.votes), s.totalVotes))
		}
		perCandidate := make(map[uint64]uint64, len(s.candidates))
		for voter, cid := range s.votes {
			if _, ok := s.candidate(cid); !ok {
				errs = append(errs, fmt.Errorf("session %d: voter %s chose unknown candidate %d", s.id, voter, cid))
			}
			perCandidate[cid]++
		}
		for _, c := range s.candidates {
			if perCandidate[c.ID] != c.VoteCount {
				errs = append(errs, fmt.Errorf("session %d: candidate %d has %d votes but %d voters chose it", s.id, c.ID, c.VoteCount, perCandidate[c.ID]))
			}
		}
	}
	if _, ok := l.voters[l.admin]; !ok {
		errs = append(errs, errors.New("admin is not registered"))
	}
	return errors.Join(errs...)
}
