// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"time"
)

// Candidate is a contender within one session. Removed candidates keep their
// votes but have Active set to false.
type Candidate struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	VoteCount uint64 `json:"vote_count"`
	Active    bool   `json:"active"`
}

// editableSession resolves a session whose candidates may be changed at now.
func (l *Ledger) editableSession(op string, sessionID uint64, now time.Time) (*sessionState, error) {
	s, ok := l.session(sessionID)
	if !ok {
		return nil, validationError(op, "session %d does not exist", sessionID)
	}
	if s.activeAt(now) {
		return nil, stateError(op, "session %d is active", sessionID)
	}
	return s, nil
}

// AddCandidate appends a candidate to a session that is not currently
// active and returns its id.
func (l *Ledger) AddCandidate(ctx context.Context, caller Address, sessionID uint64, name string) (uint64, error) {
	const op = "add candidate"

	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock.Now()

	if err := l.requireAdmin(op, caller); err != nil {
		return 0, l.reject(op, err)
	}
	s, err := l.editableSession(op, sessionID, now)
	if err != nil {
		return 0, l.reject(op, err)
	}
	if name == "" {
		return 0, l.reject(op, validationError(op, "candidate name is required"))
	}

	id := uint64(len(s.candidates)) + 1
	evt := Event{Type: EventCandidateAdded, SessionID: sessionID, CandidateID: id, Name: name}
	if err := l.commit(ctx, op, caller, now, evt); err != nil {
		return 0, l.reject(op, err)
	}
	return id, nil
}

// UpdateCandidate renames an active candidate. Its vote count is unchanged.
func (l *Ledger) UpdateCandidate(ctx context.Context, caller Address, sessionID, candidateID uint64, newName string) error {
	const op = "update candidate"

	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock.Now()

	if err := l.requireAdmin(op, caller); err != nil {
		return l.reject(op, err)
	}
	s, err := l.editableSession(op, sessionID, now)
	if err != nil {
		return l.reject(op, err)
	}
	c, ok := s.candidate(candidateID)
	if !ok {
		return l.reject(op, validationError(op, "candidate %d does not exist in session %d", candidateID, sessionID))
	}
	if !c.Active {
		return l.reject(op, stateError(op, "candidate %d has been removed", candidateID))
	}
	if newName == "" {
		return l.reject(op, validationError(op, "candidate name is required"))
	}

	evt := Event{Type: EventCandidateUpdated, SessionID: sessionID, CandidateID: candidateID, Name: newName}
	if err := l.commit(ctx, op, caller, now, evt); err != nil {
		return l.reject(op, err)
	}
	return nil
}

// RemoveCandidate deactivates a candidate. Votes already counted for it stay
// counted, but it can no longer receive votes or win.
func (l *Ledger) RemoveCandidate(ctx context.Context, caller Address, sessionID, candidateID uint64) error {
	const op = "remove candidate"

	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock.Now()

	if err := l.requireAdmin(op, caller); err != nil {
		return l.reject(op, err)
	}
	s, err := l.editableSession(op, sessionID, now)
	if err != nil {
		return l.reject(op, err)
	}
	c, ok := s.candidate(candidateID)
	if !ok {
		return l.reject(op, validationError(op, "candidate %d does not exist in session %d", candidateID, sessionID))
	}
	if !c.Active {
		return l.reject(op, stateError(op, "candidate %d is already removed", candidateID))
	}

	evt := Event{Type: EventCandidateRemoved, SessionID: sessionID, CandidateID: candidateID}
	if err := l.commit(ctx, op, caller, now, evt); err != nil {
		return l.reject(op, err)
	}
	return nil
}

// ListActiveCandidates returns the session's active candidates by ascending id.
func (l *Ledger) ListActiveCandidates(sessionID uint64) ([]Candidate, error) {
	return l.listCandidates(sessionID, true)
}

// ListCandidates returns every candidate of the session, including removed ones.
func (l *Ledger) ListCandidates(sessionID uint64) ([]Candidate, error) {
	return l.listCandidates(sessionID, false)
}

func (l *Ledger) listCandidates(sessionID uint64, activeOnly bool) ([]Candidate, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s, ok := l.session(sessionID)
	if !ok {
		return nil, validationError("list candidates", "session %d does not exist", sessionID)
	}
	out := make([]Candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		if activeOnly && !c.Active {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

// Candidate returns a snapshot of one candidate.
func (l *Ledger) Candidate(sessionID, candidateID uint64) (Candidate, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s, ok := l.session(sessionID)
	if !ok {
		return Candidate{}, validationError("candidate", "session %d does not exist", sessionID)
	}
	c, ok := s.candidate(candidateID)
	if !ok {
		return Candidate{}, validationError("candidate", "candidate %d does not exist in session %d", candidateID, sessionID)
	}
	return *c, nil
}
