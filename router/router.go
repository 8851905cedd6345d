// Copyright (c) 2025 The Campus Vote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/campusvote/server/cliparse"
	"github.com/campusvote/server/handlers"
	"github.com/campusvote/server/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	voterHandler := handlers.NewVoterHandler(db, cfg)
	electionHandler := handlers.NewElectionHandler(db, cfg)
	candidateHandler := handlers.NewCandidateHandler(db, cfg)
	voteHandler := handlers.NewVoteHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)

	secret := cfg.JWTSecret

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Voter accounts
	mux.HandleFunc("POST /api/voters/register", middleware.WithLogging(voterHandler.Register))
	mux.HandleFunc("POST /api/voters/login", middleware.WithLogging(voterHandler.Login))
	mux.HandleFunc("GET /api/voters/{id}", middleware.WithLogging(middleware.WithAuth(secret, voterHandler.GetVoter)))
	mux.HandleFunc("DELETE /api/voters/{id}", middleware.WithLogging(middleware.WithAdmin(secret, voterHandler.RemoveVoter)))

	// Elections
	mux.HandleFunc("GET /api/elections", middleware.WithLogging(middleware.WithAuth(secret, electionHandler.ListElections)))
	mux.HandleFunc("POST /api/elections", middleware.WithLogging(middleware.WithAdmin(secret, electionHandler.CreateElection)))
	mux.HandleFunc("GET /api/elections/{id}", middleware.WithLogging(middleware.WithAuth(secret, electionHandler.GetElection)))
	mux.HandleFunc("PATCH /api/elections/{id}", middleware.WithLogging(middleware.WithAdmin(secret, electionHandler.UpdateElection)))
	mux.HandleFunc("DELETE /api/elections/{id}", middleware.WithLogging(middleware.WithAdmin(secret, electionHandler.RemoveElection)))
	mux.HandleFunc("GET /api/elections/{id}/candidates", middleware.WithLogging(middleware.WithAuth(secret, electionHandler.GetElectionCandidates)))
	mux.HandleFunc("GET /api/elections/{id}/voters", middleware.WithLogging(middleware.WithAdmin(secret, electionHandler.GetElectionVoters)))
	mux.HandleFunc("GET /api/elections/{id}/results", middleware.WithLogging(middleware.WithAuth(secret, resultsHandler.GetResults)))

	// Admin election controls
	mux.HandleFunc("PATCH /api/elections/{id}/status", middleware.WithLogging(middleware.WithAdmin(secret, electionHandler.SetStatus)))
	mux.HandleFunc("PATCH /api/elections/{id}/start", middleware.WithLogging(middleware.WithAdmin(secret, electionHandler.StartVoting)))
	mux.HandleFunc("DELETE /api/elections/{id}/votes", middleware.WithLogging(middleware.WithAdmin(secret, electionHandler.ResetVotes)))

	// Candidates and voting
	mux.HandleFunc("POST /api/candidates", middleware.WithLogging(middleware.WithAdmin(secret, candidateHandler.AddCandidate)))
	mux.HandleFunc("GET /api/candidates/{id}", middleware.WithLogging(middleware.WithAuth(secret, candidateHandler.GetCandidate)))
	mux.HandleFunc("DELETE /api/candidates/{id}", middleware.WithLogging(middleware.WithAdmin(secret, candidateHandler.RemoveCandidate)))
	mux.HandleFunc("POST /api/candidates/{id}/vote", middleware.WithLogging(middleware.WithAuth(secret, voteHandler.CastVote)))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("campus-vote API v1"))
	})

	return mux
}
