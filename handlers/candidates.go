// Copyright (c) 2025 The Campus Vote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/campusvote/server/auth"
	"github.com/campusvote/server/cliparse"
	"github.com/campusvote/server/middleware"
	"github.com/campusvote/server/models"
)

type CandidateHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewCandidateHandler(db *sql.DB, cfg cliparse.Config) *CandidateHandler {
	return &CandidateHandler{db: db, cfg: cfg}
}

// AddCandidate handles POST /api/candidates
func (h *CandidateHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	var req models.AddCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.FullName == "" || req.Motto == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "full_name and motto are required")
		return
	}
	if req.Image == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "image is required")
		return
	}
	if req.ElectionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	var exists bool
	err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM election WHERE id = $1)`, req.ElectionID).Scan(&exists)
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}

	c := models.Candidate{
		ID:         auth.NewID(),
		ElectionID: req.ElectionID,
		FullName:   req.FullName,
		Image:      req.Image,
		Motto:      req.Motto,
		CreatedAt:  time.Now(),
	}

	_, err = h.db.Exec(`
		INSERT INTO candidate (id, election_id, full_name, image, motto, vote_count, created_at)
		VALUES ($1, $2, $3, $4, $5, 0, $6)
	`, c.ID, c.ElectionID, c.FullName, c.Image, c.Motto, c.CreatedAt)

	if err != nil {
		slog.Error("failed to insert candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create candidate")
		return
	}

	slog.Info("candidate added", "candidate_id", c.ID, "election_id", c.ElectionID)

	middleware.JSONResponse(w, http.StatusCreated, c)
}

// GetCandidate handles GET /api/candidates/{id}
func (h *CandidateHandler) GetCandidate(w http.ResponseWriter, r *http.Request) {
	candidateID := r.PathValue("id")
	if candidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate_id is required")
		return
	}

	var c models.Candidate
	err := h.db.QueryRow(`
		SELECT id, election_id, full_name, image, motto, vote_count, created_at
		FROM candidate
		WHERE id = $1
	`, candidateID).Scan(&c.ID, &c.ElectionID, &c.FullName, &c.Image,
		&c.Motto, &c.VoteCount, &c.CreatedAt)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}
	if err != nil {
		slog.Error("failed to query candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, c)
}

// RemoveCandidate handles DELETE /api/candidates/{id}
// Ballots cast for the candidate are withdrawn in the same transaction:
// the vote rows and matching membership rows go away, so the affected
// voters may vote again.
func (h *CandidateHandler) RemoveCandidate(w http.ResponseWriter, r *http.Request) {
	candidateID := r.PathValue("id")
	if candidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate_id is required")
		return
	}

	var exists bool
	err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM candidate WHERE id = $1)`, candidateID).Scan(&exists)
	if err != nil {
		slog.Error("failed to query candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		DELETE FROM election_voter
		WHERE (election_id, voter_id) IN
			(SELECT election_id, voter_id FROM vote WHERE candidate_id = $1)
	`, candidateID)
	if err != nil {
		slog.Error("failed to clear membership", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete candidate")
		return
	}

	_, err = tx.Exec(`DELETE FROM vote WHERE candidate_id = $1`, candidateID)
	if err != nil {
		slog.Error("failed to delete votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete candidate")
		return
	}

	_, err = tx.Exec(`DELETE FROM candidate WHERE id = $1`, candidateID)
	if err != nil {
		slog.Error("failed to delete candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete candidate")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit candidate deletion", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete candidate")
		return
	}

	slog.Info("candidate deleted", "candidate_id", candidateID)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "Candidate deleted successfully",
	})
}
