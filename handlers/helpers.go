// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/middleware"
)

// requireCaller resolves the signed caller identity or writes a 401.
func requireCaller(w http.ResponseWriter, r *http.Request, salt string) (ledger.Address, bool) {
	caller, err := auth.CallerFromHeaders(r.Header, salt)
	if err != nil {
		msg := "Invalid caller signature"
		if errors.Is(err, auth.ErrMissingCaller) {
			msg = "X-Caller-Address header is required"
		}
		middleware.ErrorResponse(w, http.StatusUnauthorized, msg)
		return "", false
	}
	return ledger.Address(caller), true
}

// pathID parses a positive integer path value or writes a 400.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uint64, bool) {
	id, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil || id == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// statusForKind maps ledger error kinds to HTTP status codes.
func statusForKind(kind ledger.Kind) int {
	switch kind {
	case ledger.KindAuth:
		return http.StatusForbidden
	case ledger.KindValidation:
		return http.StatusBadRequest
	case ledger.KindState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeLedgerError reports a failed ledger call. Rejections are returned to
// the client; anything else is logged and hidden behind a generic 500.
func writeLedgerError(w http.ResponseWriter, r *http.Request, op string, err error) {
	kind, ok := ledger.KindOf(err)
	if !ok {
		slog.Error("failed to "+op, "error", err, "request_id", middleware.RequestID(r.Context()))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to "+op)
		return
	}
	middleware.KindErrorResponse(w, statusForKind(kind), string(kind), err.Error())
}

// windowText describes a voting window relative to now, e.g.
// "opens 10 minutes from now" or "closed 2 hours ago".
func windowText(now, start, end time.Time) string {
	switch {
	case now.Before(start):
		return "opens " + humanize.RelTime(start, now, "ago", "from now")
	case now.After(end):
		return "closed " + humanize.RelTime(end, now, "ago", "from now")
	default:
		return "closes " + humanize.RelTime(end, now, "ago", "from now")
	}
}
