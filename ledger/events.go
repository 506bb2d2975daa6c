// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"time"
)

// EventType identifies the kind of a domain event.
type EventType string

// Session events.
const (
	// EventSessionCreated records a new session and its voting window.
	EventSessionCreated EventType = "session.created"
	// EventSessionStarted records an administrative start.
	EventSessionStarted EventType = "session.started"
	// EventSessionEnded records an administrative end.
	EventSessionEnded EventType = "session.ended"
)

// Candidate events.
const (
	EventCandidateAdded   EventType = "candidate.added"
	EventCandidateUpdated EventType = "candidate.updated"
	EventCandidateRemoved EventType = "candidate.removed"
)

// Voting events.
const (
	EventVoteCast        EventType = "vote.cast"
	EventVoterRegistered EventType = "voter.registered"
)

// EventTypes lists every event type the ledger emits.
var EventTypes = []EventType{
	EventSessionCreated,
	EventSessionStarted,
	EventSessionEnded,
	EventCandidateAdded,
	EventCandidateUpdated,
	EventCandidateRemoved,
	EventVoteCast,
	EventVoterRegistered,
}

// KnownEventType reports whether t is one of EventTypes.
func KnownEventType(t EventType) bool {
	for _, known := range EventTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Event is an immutable record of one committed state transition.
//
// Seq, ID, Actor and Time are assigned on commit. The remaining fields are
// populated according to Type:
//
//	session.created    SessionID, Name, StartTime, EndTime
//	session.started    SessionID
//	session.ended      SessionID
//	candidate.added    SessionID, CandidateID, Name
//	candidate.updated  SessionID, CandidateID, Name (the new name)
//	candidate.removed  SessionID, CandidateID
//	vote.cast          SessionID, CandidateID, Voter
//	voter.registered   Voter
type Event struct {
	Seq         uint64     `json:"seq"`
	ID          string     `json:"id"`
	Type        EventType  `json:"type"`
	Actor       Address    `json:"actor"`
	Time        time.Time  `json:"time"`
	SessionID   uint64     `json:"session_id,omitempty"`
	CandidateID uint64     `json:"candidate_id,omitempty"`
	Name        string     `json:"name,omitempty"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Voter       Address    `json:"voter,omitempty"`
}

// EventLog durably records committed events. Append must store either all
// of the given events or none of them.
type EventLog interface {
	Append(ctx context.Context, events []Event) error
}
