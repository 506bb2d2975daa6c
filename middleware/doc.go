// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware holds the HTTP plumbing shared by every handler.

WithLogging tags each request with a UUID, sets X-Request-ID on the
response and stores the id in the request context (see RequestID), then
logs the request with slog when it starts and when it completes. Its
response wrapper forwards Flush, so the event stream works behind it.

	mux.HandleFunc("GET /sessions", middleware.WithLogging(h.ListSessions))

CORS answers preflight requests and allows the caller identity headers
(X-Caller-Address, X-Caller-Signature) from any origin:

	server := http.Server{Handler: middleware.CORS(mux)}

JSONResponse, ErrorResponse and KindErrorResponse write JSON bodies; the
last one tags errors with the ledger error kind so clients can tell a
rejected vote from a malformed request. ParseJSONBody decodes request
bodies. GetClientIP honours X-Forwarded-For and X-Real-IP.
*/
package middleware
