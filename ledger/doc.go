// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger implements the voting ledger state machine.

A Ledger owns every voting session, its candidates, the voter registry and the
per-session vote records. All mutations go through a single writer path and
are recorded as domain events before they become visible.

# Construction

	l, err := ledger.New(ledger.Config{
		Admin: ledger.Address(cfg.AdminAddress),
		Clock: ledger.SystemClock,
		Log:   journal.New(conn),
	})

The administrative address is registered as a voter implicitly. Restore a
previously persisted ledger by replaying its events in order:

	events, err := j.Load(ctx)
	err = l.Replay(events)

# Operations

Administrative (caller must equal the configured admin):

  - CreateSession, StartSession, EndSession
  - AddCandidate, UpdateCandidate, RemoveCandidate
  - RegisterVoter, RegisterVoters

Voter-facing:

  - RegisterSelf: any caller
  - Vote: registered callers, active sessions only, once per session

Queries never fail on unknown voters and never mutate state:

  - IsSessionActive, Session, ListAllSessions, ListActiveSessions
  - ListCandidates, ListActiveCandidates
  - IsRegistered, HasVoted, Choice
  - Winner

# Session activity

A session is active when its active flag is set AND the current time lies in
[start, end]. StartSession requires start <= now < end; EndSession has no
window precondition. Candidates can only be changed while the session is not
active.

# Errors

Every rejection is an *Error with one of three kinds:

	errors.Is(err, ledger.ErrAuth)        // caller lacks privilege or registration
	errors.Is(err, ledger.ErrValidation)  // malformed input, unknown ids
	errors.Is(err, ledger.ErrState)       // lifecycle mismatch, double vote

Failures to append to the EventLog are returned wrapped and leave the ledger
untouched.

# Events

Each committed transition produces exactly one Event per state change,
numbered by a gap-free global sequence starting at 1:

	session.created    session.started    session.ended
	candidate.added    candidate.updated  candidate.removed
	vote.cast          voter.registered
*/
package ledger
