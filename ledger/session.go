// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"time"
)

// Session is a read-only snapshot of a voting session.
type Session struct {
	ID             uint64    `json:"id"`
	Name           string    `json:"name"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Active         bool      `json:"active"`
	Created        bool      `json:"created"`
	TotalVotes     uint64    `json:"total_votes"`
	CandidateCount uint64    `json:"candidate_count"`
}

type sessionState struct {
	id         uint64
	name       string
	start      time.Time
	end        time.Time
	active     bool
	created    bool
	totalVotes uint64
	candidates []*Candidate
	votes      map[Address]uint64
}

// activeAt reports whether the session accepts votes at now. The window is
// inclusive at both ends.
func (s *sessionState) activeAt(now time.Time) bool {
	return s.created && s.active && !now.Before(s.start) && !now.After(s.end)
}

func (s *sessionState) candidate(id uint64) (*Candidate, bool) {
	if id == 0 || id > uint64(len(s.candidates)) {
		return nil, false
	}
	return s.candidates[id-1], true
}

func (s *sessionState) snapshot() Session {
	return Session{
		ID:             s.id,
		Name:           s.name,
		StartTime:      s.start,
		EndTime:        s.end,
		Active:         s.active,
		Created:        s.created,
		TotalVotes:     s.totalVotes,
		CandidateCount: uint64(len(s.candidates)),
	}
}

func (l *Ledger) session(id uint64) (*sessionState, bool) {
	if id == 0 || id > uint64(len(l.sessions)) {
		return nil, false
	}
	return l.sessions[id-1], true
}

// CreateSession creates a session with its initial candidates and returns the
// new session id. Only the admin may create sessions.
func (l *Ledger) CreateSession(ctx context.Context, caller Address, name string, start, end time.Time, candidateNames []string) (uint64, error) {
	const op = "create session"

	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock.Now()

	if err := l.requireAdmin(op, caller); err != nil {
		return 0, l.reject(op, err)
	}
	if name == "" {
		return 0, l.reject(op, validationError(op, "session name is required"))
	}
	if !start.Before(end) {
		return 0, l.reject(op, validationError(op, "start time must be before end time"))
	}
	if len(candidateNames) == 0 {
		return 0, l.reject(op, validationError(op, "at least one candidate is required"))
	}
	for i, cn := range candidateNames {
		if cn == "" {
			return 0, l.reject(op, validationError(op, "candidate %d has an empty name", i+1))
		}
	}

	id := uint64(len(l.sessions)) + 1
	startCopy, endCopy := start, end
	events := make([]Event, 0, len(candidateNames)+1)
	events = append(events, Event{
		Type:      EventSessionCreated,
		SessionID: id,
		Name:      name,
		StartTime: &startCopy,
		EndTime:   &endCopy,
	})
	for i, cn := range candidateNames {
		events = append(events, Event{
			Type:        EventCandidateAdded,
			SessionID:   id,
			CandidateID: uint64(i) + 1,
			Name:        cn,
		})
	}
	if err := l.commit(ctx, op, caller, now, events...); err != nil {
		return 0, l.reject(op, err)
	}
	return id, nil
}

// StartSession activates a session. The session must not already be active
// and the current time must lie in [start, end).
func (l *Ledger) StartSession(ctx context.Context, caller Address, sessionID uint64) error {
	const op = "start session"

	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock.Now()

	if err := l.requireAdmin(op, caller); err != nil {
		return l.reject(op, err)
	}
	s, ok := l.session(sessionID)
	if !ok {
		return l.reject(op, stateError(op, "session %d does not exist", sessionID))
	}
	if s.active {
		return l.reject(op, stateError(op, "session %d is already active", sessionID))
	}
	if now.Before(s.start) {
		return l.reject(op, stateError(op, "session %d has not reached its start time", sessionID))
	}
	if !now.Before(s.end) {
		return l.reject(op, stateError(op, "session %d has passed its end time", sessionID))
	}
	if err := l.commit(ctx, op, caller, now, Event{Type: EventSessionStarted, SessionID: sessionID}); err != nil {
		return l.reject(op, err)
	}
	return nil
}

// EndSession deactivates an active session. It may be called at any time,
// inside or outside the voting window.
func (l *Ledger) EndSession(ctx context.Context, caller Address, sessionID uint64) error {
	const op = "end session"

	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock.Now()

	if err := l.requireAdmin(op, caller); err != nil {
		return l.reject(op, err)
	}
	s, ok := l.session(sessionID)
	if !ok {
		return l.reject(op, stateError(op, "session %d does not exist", sessionID))
	}
	if !s.active {
		return l.reject(op, stateError(op, "session %d is not active", sessionID))
	}
	if err := l.commit(ctx, op, caller, now, Event{Type: EventSessionEnded, SessionID: sessionID}); err != nil {
		return l.reject(op, err)
	}
	return nil
}

// IsSessionActive reports whether the session exists, has been started and
// the current time lies within its window. Unknown ids are never active.
func (l *Ledger) IsSessionActive(sessionID uint64) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	now := l.clock.Now()

	s, ok := l.session(sessionID)
	return ok && s.activeAt(now)
}

// Session returns a snapshot of the session's metadata.
func (l *Ledger) Session(sessionID uint64) (Session, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s, ok := l.session(sessionID)
	if !ok {
		return Session{}, validationError("session", "session %d does not exist", sessionID)
	}
	return s.snapshot(), nil
}

// SessionView is a consistent read of a session: metadata, active
// candidates and activity all taken under one lock at one instant.
type SessionView struct {
	Session
	Candidates []Candidate
	IsActive   bool
	Now        time.Time
}

// View returns the session, its active candidates and whether it is active,
// all read from the same committed state with a single clock sample.
func (l *Ledger) View(sessionID uint64) (SessionView, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	now := l.clock.Now()

	s, ok := l.session(sessionID)
	if !ok {
		return SessionView{}, validationError("session", "session %d does not exist", sessionID)
	}
	candidates := make([]Candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		if c.Active {
			candidates = append(candidates, *c)
		}
	}
	return SessionView{
		Session:    s.snapshot(),
		Candidates: candidates,
		IsActive:   s.activeAt(now),
		Now:        now,
	}, nil
}

// SessionCount returns the number of sessions ever created.
func (l *Ledger) SessionCount() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return uint64(len(l.sessions))
}

// ListAllSessions returns every session id in ascending order.
func (l *Ledger) ListAllSessions() []uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ids := make([]uint64, 0, len(l.sessions))
	for _, s := range l.sessions {
		ids = append(ids, s.id)
	}
	return ids
}

// ListActiveSessions returns, in ascending order, the ids of sessions that
// are active at the current time.
func (l *Ledger) ListActiveSessions() []uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	now := l.clock.Now()

	ids := []uint64{}
	for _, s := range l.sessions {
		if s.activeAt(now) {
			ids = append(ids, s.id)
		}
	}
	return ids
}
