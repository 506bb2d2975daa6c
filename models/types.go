package models

import (
	"time"

	"github.com/danielhkuo/quickly-vote/ledger"
)

// Request types

type CreateSessionRequest struct {
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Candidates []string  `json:"candidates"`
}

type CandidateRequest struct {
	Name string `json:"name"`
}

type VoteRequest struct {
	CandidateID uint64 `json:"candidate_id"`
}

type RegisterVoterRequest struct {
	Address string `json:"address"`
}

type RegisterVotersRequest struct {
	Addresses []string `json:"addresses"`
}

// Response types

type CreateSessionResponse struct {
	SessionID uint64 `json:"session_id"`
}

type AddCandidateResponse struct {
	CandidateID uint64 `json:"candidate_id"`
}

type RegisterVotersResponse struct {
	Registered int `json:"registered"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type SessionListResponse struct {
	Sessions []uint64 `json:"sessions"`
}

// SessionView is a session with its derived activity and current candidates.
type SessionView struct {
	ledger.Session
	IsActive   bool               `json:"is_active"`
	Window     string             `json:"window"`
	Candidates []ledger.Candidate `json:"candidates"`
}

type CandidateListResponse struct {
	SessionID  uint64             `json:"session_id"`
	Candidates []ledger.Candidate `json:"candidates"`
}

type VoteStatusResponse struct {
	SessionID   uint64  `json:"session_id"`
	Voter       string  `json:"voter"`
	HasVoted    bool    `json:"has_voted"`
	CandidateID *uint64 `json:"candidate_id,omitempty"`
}

type WinnerResponse struct {
	SessionID uint64 `json:"session_id"`
	ledger.Result
}

type VoterStatusResponse struct {
	Address    string `json:"address"`
	Registered bool   `json:"registered"`
}

type EventListResponse struct {
	Events []ledger.Event `json:"events"`
	// NextAfter is the cursor for the following page.
	NextAfter uint64 `json:"next_after"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
}
