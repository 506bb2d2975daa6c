// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
)

type ResultsHandler struct {
	ledger *ledger.Ledger
}

func NewResultsHandler(l *ledger.Ledger) *ResultsHandler {
	return &ResultsHandler{ledger: l}
}

// GetWinner handles GET /sessions/{id}/winner
// The tally is live: it reflects every vote cast so far, even while voting
// is still open.
func (h *ResultsHandler) GetWinner(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	res, err := h.ledger.Winner(id)
	if err != nil {
		writeLedgerError(w, r, "compute winner", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.WinnerResponse{SessionID: id, Result: res})
}
