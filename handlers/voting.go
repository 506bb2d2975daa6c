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

type VotingHandler struct {
	ledger *ledger.Ledger
	cfg    cliparse.Config
}

func NewVotingHandler(l *ledger.Ledger, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{ledger: l, cfg: cfg}
}

// CastVote handles POST /sessions/{id}/votes
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r, h.cfg.CallerSalt)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.ledger.Vote(r.Context(), caller, id, req.CandidateID); err != nil {
		writeLedgerError(w, r, "cast vote", err)
		return
	}

	cid := req.CandidateID
	middleware.JSONResponse(w, http.StatusCreated, models.VoteStatusResponse{
		SessionID:   id,
		Voter:       string(caller),
		HasVoted:    true,
		CandidateID: &cid,
	})
}

// GetVoteStatus handles GET /sessions/{id}/votes/{voter}
func (h *VotingHandler) GetVoteStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	voter := ledger.Address(r.PathValue("voter"))

	resp := models.VoteStatusResponse{
		SessionID: id,
		Voter:     string(voter),
		HasVoted:  h.ledger.HasVoted(voter, id),
	}
	if resp.HasVoted {
		cid, err := h.ledger.Choice(voter, id)
		if err != nil {
			writeLedgerError(w, r, "get vote", err)
			return
		}
		resp.CandidateID = &cid
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
