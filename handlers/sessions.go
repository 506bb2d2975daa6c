// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"

	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
)

type SessionHandler struct {
	ledger *ledger.Ledger
	cfg    cliparse.Config
}

func NewSessionHandler(l *ledger.Ledger, cfg cliparse.Config) *SessionHandler {
	return &SessionHandler{ledger: l, cfg: cfg}
}

// CreateSession handles POST /sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r, h.cfg.CallerSalt)
	if !ok {
		return
	}

	var req models.CreateSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	id, err := h.ledger.CreateSession(r.Context(), caller, req.Name, req.StartTime, req.EndTime, req.Candidates)
	if err != nil {
		writeLedgerError(w, r, "create session", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreateSessionResponse{SessionID: id})
}

// ListSessions handles GET /sessions
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.SessionListResponse{
		Sessions: h.ledger.ListAllSessions(),
	})
}

// ListActiveSessions handles GET /sessions/active
func (h *SessionHandler) ListActiveSessions(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.SessionListResponse{
		Sessions: h.ledger.ListActiveSessions(),
	})
}

// GetSession handles GET /sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	view, err := h.ledger.View(id)
	if err != nil {
		writeLedgerError(w, r, "get session", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SessionView{
		Session:    view.Session,
		IsActive:   view.IsActive,
		Window:     windowText(view.Now, view.StartTime, view.EndTime),
		Candidates: view.Candidates,
	})
}

// StartSession handles POST /sessions/{id}/start
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "start session", h.ledger.StartSession)
}

// EndSession handles POST /sessions/{id}/end
func (h *SessionHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "end session", h.ledger.EndSession)
}

type sessionTransition func(ctx context.Context, caller ledger.Address, sessionID uint64) error

func (h *SessionHandler) transition(w http.ResponseWriter, r *http.Request, op string, fn sessionTransition) {
	caller, ok := requireCaller(w, r, h.cfg.CallerSalt)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := fn(r.Context(), caller, id); err != nil {
		writeLedgerError(w, r, op, err)
		return
	}

	sess, err := h.ledger.Session(id)
	if err != nil {
		writeLedgerError(w, r, op, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, sess)
}
