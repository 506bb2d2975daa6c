// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import "context"

// Vote records the caller's single vote in a session.
//
// Checks run in order: the caller must be registered, the session must be
// active now, the caller must not have voted in it yet, and the candidate
// must exist and not have been removed.
func (l *Ledger) Vote(ctx context.Context, caller Address, sessionID, candidateID uint64) error {
	const op = "vote"

	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock.Now()

	if caller == "" {
		return l.reject(op, authError(op, "caller identity required"))
	}
	if _, ok := l.voters[caller]; !ok {
		return l.reject(op, authError(op, "voter %s is not registered", caller))
	}
	s, ok := l.session(sessionID)
	if !ok {
		return l.reject(op, stateError(op, "session %d does not exist", sessionID))
	}
	if !s.activeAt(now) {
		return l.reject(op, stateError(op, "session %d is not active", sessionID))
	}
	if _, voted := s.votes[caller]; voted {
		return l.reject(op, stateError(op, "voter %s already voted in session %d", caller, sessionID))
	}
	c, ok := s.candidate(candidateID)
	if !ok {
		return l.reject(op, validationError(op, "candidate %d does not exist in session %d", candidateID, sessionID))
	}
	if !c.Active {
		return l.reject(op, validationError(op, "candidate %d has been removed", candidateID))
	}

	evt := Event{Type: EventVoteCast, SessionID: sessionID, CandidateID: candidateID, Voter: caller}
	if err := l.commit(ctx, op, caller, now, evt); err != nil {
		return l.reject(op, err)
	}
	return nil
}

// HasVoted reports whether voter has cast a vote in the session.
func (l *Ledger) HasVoted(voter Address, sessionID uint64) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s, ok := l.session(sessionID)
	if !ok {
		return false
	}
	_, voted := s.votes[voter]
	return voted
}

// Choice returns the candidate id voter chose in the session.
func (l *Ledger) Choice(voter Address, sessionID uint64) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s, ok := l.session(sessionID)
	if !ok {
		return 0, stateError("choice", "session %d does not exist", sessionID)
	}
	cid, voted := s.votes[voter]
	if !voted {
		return 0, stateError("choice", "voter %s has not voted in session %d", voter, sessionID)
	}
	return cid, nil
}
