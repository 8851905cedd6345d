// Copyright (c) 2025 The Campus Vote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/campusvote/server/cliparse"
	"github.com/campusvote/server/election"
	"github.com/campusvote/server/middleware"
	"github.com/campusvote/server/models"
)

type ResultsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{db: db, cfg: cfg}
}

// GetResults handles GET /api/elections/{id}/results
// Candidates come back in insertion order with their tallies; percentage
// is voteCount over the election total, with an empty election at 0%.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	var e models.Election
	err := h.db.QueryRow(`
		SELECT id, status, voting_start_time, voting_end_time
		FROM election
		WHERE id = $1
	`, electionID).Scan(&e.ID, &e.Status, &e.VotingStartTime, &e.VotingEndTime)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := election.ReconcileElection(h.db, &e, time.Now()); err != nil {
		slog.Error("failed to reconcile election status", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rows, err := h.db.Query(`
		SELECT id, election_id, full_name, image, motto, vote_count, created_at
		FROM candidate
		WHERE election_id = $1
		ORDER BY created_at
	`, electionID)
	if err != nil {
		slog.Error("failed to query candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	results := []models.CandidateTally{}
	totalVotes := 0
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.ElectionID, &c.FullName, &c.Image,
			&c.Motto, &c.VoteCount, &c.CreatedAt); err != nil {
			slog.Error("failed to scan candidate", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		totalVotes += c.VoteCount
		results = append(results, models.CandidateTally{Candidate: c})
	}

	for i := range results {
		if totalVotes > 0 {
			results[i].Percentage = float64(results[i].VoteCount) / float64(totalVotes) * 100
		}
	}

	// Turnout is ballots over the registered (non-admin) voter base.
	var registered int
	err = h.db.QueryRow(`SELECT COUNT(*) FROM voter WHERE is_admin = FALSE`).Scan(&registered)
	if err != nil {
		slog.Error("failed to count voters", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	turnout := 0.0
	if registered > 0 {
		turnout = float64(totalVotes) / float64(registered) * 100
	}

	middleware.JSONResponse(w, http.StatusOK, models.ElectionResultsResponse{
		ElectionID: electionID,
		Status:     e.Status,
		Results:    results,
		TotalVotes: totalVotes,
		Turnout:    turnout,
	})
}
