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

type VoterHandler struct {
	ledger *ledger.Ledger
	cfg    cliparse.Config
}

func NewVoterHandler(l *ledger.Ledger, cfg cliparse.Config) *VoterHandler {
	return &VoterHandler{ledger: l, cfg: cfg}
}

// RegisterVoter handles POST /voters
func (h *VoterHandler) RegisterVoter(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r, h.cfg.CallerSalt)
	if !ok {
		return
	}

	var req models.RegisterVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.ledger.RegisterVoter(r.Context(), caller, ledger.Address(req.Address)); err != nil {
		writeLedgerError(w, r, "register voter", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.VoterStatusResponse{
		Address:    req.Address,
		Registered: true,
	})
}

// RegisterVoters handles POST /voters/bulk
func (h *VoterHandler) RegisterVoters(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r, h.cfg.CallerSalt)
	if !ok {
		return
	}

	var req models.RegisterVotersRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	addrs := make([]ledger.Address, len(req.Addresses))
	for i, a := range req.Addresses {
		addrs[i] = ledger.Address(a)
	}
	added, err := h.ledger.RegisterVoters(r.Context(), caller, addrs)
	if err != nil {
		writeLedgerError(w, r, "register voters", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RegisterVotersResponse{Registered: added})
}

// RegisterSelf handles POST /voters/self
func (h *VoterHandler) RegisterSelf(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r, h.cfg.CallerSalt)
	if !ok {
		return
	}

	if err := h.ledger.RegisterSelf(r.Context(), caller); err != nil {
		writeLedgerError(w, r, "register self", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.VoterStatusResponse{
		Address:    string(caller),
		Registered: true,
	})
}

// GetVoter handles GET /voters/{address}
func (h *VoterHandler) GetVoter(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	middleware.JSONResponse(w, http.StatusOK, models.VoterStatusResponse{
		Address:    address,
		Registered: h.ledger.IsRegistered(ledger.Address(address)),
	})
}
