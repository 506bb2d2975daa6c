// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

// NoVotesCast is the winner name reported for a session without votes.
const NoVotesCast = "No votes cast"

// Result is the outcome of a tally.
type Result struct {
	Name      string `json:"name"`
	VoteCount uint64 `json:"vote_count"`
	IsTie     bool   `json:"is_tie"`
	NoVotes   bool   `json:"no_votes"`
}

// Winner computes the current leader of a session. It is recomputed on every
// call and may be queried while voting is still open.
func (l *Ledger) Winner(sessionID uint64) (Result, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s, ok := l.session(sessionID)
	if !ok {
		return Result{}, validationError("winner", "session %d does not exist", sessionID)
	}
	return tally(s.totalVotes, s.candidates), nil
}

// tally scans active candidates by ascending id. The lowest id reaching the
// maximum is reported; ties only count at a positive maximum.
func tally(totalVotes uint64, candidates []*Candidate) Result {
	if totalVotes == 0 {
		return Result{Name: NoVotesCast, NoVotes: true}
	}
	var (
		leader   string
		maxVotes uint64
		tied     int
	)
	for _, c := range candidates {
		if !c.Active {
			continue
		}
		switch {
		case c.VoteCount > maxVotes:
			leader = c.Name
			maxVotes = c.VoteCount
			tied = 1
		case c.VoteCount == maxVotes && maxVotes > 0:
			tied++
		}
	}
	return Result{Name: leader, VoteCount: maxVotes, IsTie: tied > 1}
}
