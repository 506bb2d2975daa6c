// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Vote API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(router.Deps{
		Ledger:   l,
		Journal:  store,
		Bus:      bus,
		Gatherer: registry,
	}, cfg)

# Endpoints

Health and metrics:

	GET /health
	GET /metrics

Sessions (mutations require the admin caller):

	POST /sessions            - Create session
	GET  /sessions            - List all session ids
	GET  /sessions/active     - List active session ids
	GET  /sessions/{id}       - Session with candidates and window
	POST /sessions/{id}/start - Open for voting
	POST /sessions/{id}/end   - Close voting

Candidates (mutations require the admin caller, session not active):

	GET    /sessions/{id}/candidates       - Active candidates (?all=true for all)
	POST   /sessions/{id}/candidates       - Add candidate
	PUT    /sessions/{id}/candidates/{cid} - Rename candidate
	DELETE /sessions/{id}/candidates/{cid} - Deactivate candidate

Voting:

	POST /sessions/{id}/votes         - Cast vote as the caller
	GET  /sessions/{id}/votes/{voter} - Whether and how a voter voted
	GET  /sessions/{id}/winner        - Live winner

Voters:

	POST /voters           - Register voter (admin)
	POST /voters/bulk      - Register many voters (admin)
	POST /voters/self      - Register the caller
	GET  /voters/{address} - Registration status

Events:

	GET /events        - Journal page (?after, limit, session, type)
	GET /events/stream - Server-Sent Events (?type)

Everything except /health, /metrics and the root is wrapped in
middleware.WithLogging.
*/
package router
