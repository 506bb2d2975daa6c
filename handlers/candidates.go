// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
)

type CandidateHandler struct {
	ledger *ledger.Ledger
	cfg    cliparse.Config
}

func NewCandidateHandler(l *ledger.Ledger, cfg cliparse.Config) *CandidateHandler {
	return &CandidateHandler{ledger: l, cfg: cfg}
}

// ListCandidates handles GET /sessions/{id}/candidates
// Only active candidates are listed unless ?all=true is given.
func (h *CandidateHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	list := h.ledger.ListActiveCandidates
	if r.URL.Query().Get("all") == "true" {
		list = h.ledger.ListCandidates
	}
	candidates, err := list(id)
	if err != nil {
		writeLedgerError(w, r, "list candidates", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CandidateListResponse{
		SessionID:  id,
		Candidates: candidates,
	})
}

// AddCandidate handles POST /sessions/{id}/candidates
func (h *CandidateHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r, h.cfg.CallerSalt)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.CandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	cid, err := h.ledger.AddCandidate(r.Context(), caller, id, req.Name)
	if err != nil {
		writeLedgerError(w, r, "add candidate", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.AddCandidateResponse{CandidateID: cid})
}

// UpdateCandidate handles PUT /sessions/{id}/candidates/{cid}
func (h *CandidateHandler) UpdateCandidate(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r, h.cfg.CallerSalt)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	cid, ok := pathID(w, r, "cid")
	if !ok {
		return
	}

	var req models.CandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.ledger.UpdateCandidate(r.Context(), caller, id, cid, req.Name); err != nil {
		writeLedgerError(w, r, "update candidate", err)
		return
	}
	h.respondCandidate(w, r, id, cid)
}

// RemoveCandidate handles DELETE /sessions/{id}/candidates/{cid}
// The candidate is deactivated, not deleted; its votes remain counted.
func (h *CandidateHandler) RemoveCandidate(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r, h.cfg.CallerSalt)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	cid, ok := pathID(w, r, "cid")
	if !ok {
		return
	}

	if err := h.ledger.RemoveCandidate(r.Context(), caller, id, cid); err != nil {
		writeLedgerError(w, r, "remove candidate", err)
		return
	}
	h.respondCandidate(w, r, id, cid)
}

func (h *CandidateHandler) respondCandidate(w http.ResponseWriter, r *http.Request, id, cid uint64) {
	c, err := h.ledger.Candidate(id, cid)
	if err != nil {
		writeLedgerError(w, r, "get candidate", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, c)
}
