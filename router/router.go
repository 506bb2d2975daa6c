// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/event"
	"github.com/danielhkuo/quickly-vote/handlers"
	"github.com/danielhkuo/quickly-vote/journal"
	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
)

// Deps are the long-lived components the routes are served from.
type Deps struct {
	Ledger  *ledger.Ledger
	Journal *journal.Store
	Bus     *event.EventBus
	// Gatherer backs GET /metrics. Nil serves the default registry.
	Gatherer prometheus.Gatherer
}

func NewRouter(deps Deps, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(deps.Ledger, cfg)
	candidateHandler := handlers.NewCandidateHandler(deps.Ledger, cfg)
	voterHandler := handlers.NewVoterHandler(deps.Ledger, cfg)
	votingHandler := handlers.NewVotingHandler(deps.Ledger, cfg)
	resultsHandler := handlers.NewResultsHandler(deps.Ledger)
	eventHandler := handlers.NewEventHandler(deps.Journal, deps.Bus)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, models.StatusResponse{Status: "ok"})
	})

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Sessions (mutations require the admin caller)
	mux.HandleFunc("POST /sessions", middleware.WithLogging(sessionHandler.CreateSession))
	mux.HandleFunc("GET /sessions", middleware.WithLogging(sessionHandler.ListSessions))
	mux.HandleFunc("GET /sessions/active", middleware.WithLogging(sessionHandler.ListActiveSessions))
	mux.HandleFunc("GET /sessions/{id}", middleware.WithLogging(sessionHandler.GetSession))
	mux.HandleFunc("POST /sessions/{id}/start", middleware.WithLogging(sessionHandler.StartSession))
	mux.HandleFunc("POST /sessions/{id}/end", middleware.WithLogging(sessionHandler.EndSession))

	// Candidates
	mux.HandleFunc("GET /sessions/{id}/candidates", middleware.WithLogging(candidateHandler.ListCandidates))
	mux.HandleFunc("POST /sessions/{id}/candidates", middleware.WithLogging(candidateHandler.AddCandidate))
	mux.HandleFunc("PUT /sessions/{id}/candidates/{cid}", middleware.WithLogging(candidateHandler.UpdateCandidate))
	mux.HandleFunc("DELETE /sessions/{id}/candidates/{cid}", middleware.WithLogging(candidateHandler.RemoveCandidate))

	// Voting and results
	mux.HandleFunc("POST /sessions/{id}/votes", middleware.WithLogging(votingHandler.CastVote))
	mux.HandleFunc("GET /sessions/{id}/votes/{voter}", middleware.WithLogging(votingHandler.GetVoteStatus))
	mux.HandleFunc("GET /sessions/{id}/winner", middleware.WithLogging(resultsHandler.GetWinner))

	// Voters
	mux.HandleFunc("POST /voters", middleware.WithLogging(voterHandler.RegisterVoter))
	mux.HandleFunc("POST /voters/bulk", middleware.WithLogging(voterHandler.RegisterVoters))
	mux.HandleFunc("POST /voters/self", middleware.WithLogging(voterHandler.RegisterSelf))
	mux.HandleFunc("GET /voters/{address}", middleware.WithLogging(voterHandler.GetVoter))

	// Event journal and live stream
	mux.HandleFunc("GET /events", middleware.WithLogging(eventHandler.ListEvents))
	mux.HandleFunc("GET /events/stream", middleware.WithLogging(eventHandler.Stream))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-vote API v1"))
	})

	return mux
}
