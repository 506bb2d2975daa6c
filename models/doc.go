// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request and response types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateSessionRequest: name, start_time, end_time, candidates
  - CandidateRequest: name
  - VoteRequest: candidate_id
  - RegisterVoterRequest: address
  - RegisterVotersRequest: addresses

Times are RFC 3339 strings.

# Response Types

Types for JSON responses:

  - CreateSessionResponse: session_id
  - AddCandidateResponse: candidate_id
  - RegisterVotersResponse: registered
  - StatusResponse: status
  - SessionListResponse: sessions
  - SessionView: session fields plus is_active, window, candidates
  - CandidateListResponse: session_id, candidates
  - VoteStatusResponse: session_id, voter, has_voted, candidate_id
  - WinnerResponse: session_id, name, vote_count, is_tie, no_votes
  - VoterStatusResponse: address, registered
  - EventListResponse: events, next_after
  - ErrorResponse: error, message, kind

Sessions, candidates, results and events embed the ledger's own snapshot
types so the JSON shape follows the ledger.
*/
package models
