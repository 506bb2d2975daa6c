// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Vote API.

# Handler Types

Each handler is a struct wrapping the ledger and config:

  - SessionHandler: session creation, start/end and listing
  - CandidateHandler: candidate add, rename, remove and listing
  - VoterHandler: voter registration and lookup
  - VotingHandler: vote casting and vote status
  - ResultsHandler: live winner tally
  - EventHandler: journal pages and the live event stream

	sessionHandler := handlers.NewSessionHandler(l, cfg)

# Caller Identity

Mutating routes require X-Caller-Address and X-Caller-Signature (see
package auth). A missing or bad signature is a 401. Whether the caller may
perform the operation is decided by the ledger.

# Errors

Ledger rejections map to status codes by kind:

	auth       → 403
	validation → 400
	state      → 409

Anything else is logged with the request id and returned as a generic 500.

# Event Stream

GET /events/stream pushes committed events as Server-Sent Events:

	id: 12
	event: vote.cast
	data: {"seq":12,"type":"vote.cast",...}

A client that falls behind is disconnected and resumes with
GET /events?after=<last id>.
*/
package handlers
