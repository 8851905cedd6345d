// Copyright (c) 2025 The Campus Vote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/campusvote/server/auth"
	"github.com/campusvote/server/cliparse"
	"github.com/campusvote/server/election"
	"github.com/campusvote/server/middleware"
	"github.com/campusvote/server/models"
	"github.com/campusvote/server/voting"
)

type ElectionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewElectionHandler(db *sql.DB, cfg cliparse.Config) *ElectionHandler {
	return &ElectionHandler{db: db, cfg: cfg}
}

const electionColumns = `
	id, title, description, thumbnail, status,
	voting_start_time, voting_end_time, duration_hours, created_at
`

func scanElection(row interface{ Scan(...interface{}) error }, e *models.Election) error {
	return row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Thumbnail, &e.Status,
		&e.VotingStartTime, &e.VotingEndTime, &e.DurationHours, &e.CreatedAt,
	)
}

// CreateElection handles POST /api/elections
func (h *ElectionHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	var req models.CreateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Title == "" || req.Description == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title and description are required")
		return
	}
	if req.Thumbnail == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "thumbnail is required")
		return
	}

	duration := models.DefaultDurationHours
	if req.DurationHours != nil {
		duration = *req.DurationHours
		if duration < models.MinDurationHours || duration > models.MaxDurationHours {
			middleware.ErrorResponse(w, http.StatusBadRequest, "duration_hours must be between 1 and 24")
			return
		}
	}

	now := time.Now()
	var start time.Time
	if req.VotingStartTime != nil {
		start = *req.VotingStartTime
		if start.Before(now) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Voting start time cannot be in the past")
			return
		}
	} else {
		// Default to tomorrow at 9 AM
		start = time.Date(now.Year(), now.Month(), now.Day(), 9, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	}
	end := start.Add(time.Duration(duration) * time.Hour)

	e := models.Election{
		ID:              auth.NewID(),
		Title:           req.Title,
		Description:     req.Description,
		Thumbnail:       req.Thumbnail,
		Status:          models.StatusScheduled,
		VotingStartTime: start,
		VotingEndTime:   end,
		DurationHours:   duration,
		CreatedAt:       now,
	}

	_, err := h.db.Exec(`
		INSERT INTO election (id, title, description, thumbnail, status,
			voting_start_time, voting_end_time, duration_hours, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, e.ID, e.Title, e.Description, e.Thumbnail, e.Status,
		e.VotingStartTime, e.VotingEndTime, e.DurationHours, e.CreatedAt)

	if err != nil {
		slog.Error("failed to insert election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}

	slog.Info("election created", "election_id", e.ID, "starts", e.VotingStartTime)

	middleware.JSONResponse(w, http.StatusCreated, e)
}

// ListElections handles GET /api/elections
func (h *ElectionHandler) ListElections(w http.ResponseWriter, r *http.Request) {
	// Best-effort promotion so listed statuses are current.
	if _, _, err := election.Sweep(h.db, time.Now()); err != nil {
		slog.Warn("status sweep before listing failed", "error", err)
	}

	rows, err := h.db.Query(`SELECT` + electionColumns + `FROM election ORDER BY created_at DESC`)
	if err != nil {
		slog.Error("failed to query elections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	elections := []models.Election{}
	for rows.Next() {
		var e models.Election
		if err := scanElection(rows, &e); err != nil {
			slog.Error("failed to scan election", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		elections = append(elections, e)
	}

	middleware.JSONResponse(w, http.StatusOK, elections)
}

// GetElection handles GET /api/elections/{id}
func (h *ElectionHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	e, ok := h.fetchElection(w, r)
	if !ok {
		return
	}

	if err := election.ReconcileElection(h.db, e, time.Now()); err != nil {
		slog.Error("failed to reconcile election status", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, e)
}

// UpdateElection handles PATCH /api/elections/{id}
// Metadata only; the voting window is changed through StartVoting.
func (h *ElectionHandler) UpdateElection(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	var req models.UpdateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Title == "" || req.Description == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title and description are required")
		return
	}

	var e models.Election
	var err error
	if req.Thumbnail != "" {
		err = scanElection(h.db.QueryRow(`
			UPDATE election SET title = $1, description = $2, thumbnail = $3
			WHERE id = $4
			RETURNING`+electionColumns, req.Title, req.Description, req.Thumbnail, electionID), &e)
	} else {
		err = scanElection(h.db.QueryRow(`
			UPDATE election SET title = $1, description = $2
			WHERE id = $3
			RETURNING`+electionColumns, req.Title, req.Description, electionID), &e)
	}

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to update election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update election")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, e)
}

// RemoveElection handles DELETE /api/elections/{id}
// Candidates, votes, and membership rows cascade with the election.
func (h *ElectionHandler) RemoveElection(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	res, err := h.db.Exec(`DELETE FROM election WHERE id = $1`, electionID)
	if err != nil {
		slog.Error("failed to delete election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete election")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}

	slog.Info("election deleted", "election_id", electionID)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "Election deleted successfully",
	})
}

// GetElectionCandidates handles GET /api/elections/{id}/candidates
func (h *ElectionHandler) GetElectionCandidates(w http.ResponseWriter, r *http.Request) {
	e, ok := h.fetchElection(w, r)
	if !ok {
		return
	}

	rows, err := h.db.Query(`
		SELECT id, election_id, full_name, image, motto, vote_count, created_at
		FROM candidate
		WHERE election_id = $1
		ORDER BY created_at
	`, e.ID)
	if err != nil {
		slog.Error("failed to query candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.ElectionID, &c.FullName, &c.Image,
			&c.Motto, &c.VoteCount, &c.CreatedAt); err != nil {
			slog.Error("failed to scan candidate", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		candidates = append(candidates, c)
	}

	middleware.JSONResponse(w, http.StatusOK, candidates)
}

// GetElectionVoters handles GET /api/elections/{id}/voters
// The vote table is the audit source: membership rows are joined against
// it so each entry carries the ballot timestamp.
func (h *ElectionHandler) GetElectionVoters(w http.ResponseWriter, r *http.Request) {
	e, ok := h.fetchElection(w, r)
	if !ok {
		return
	}

	rows, err := h.db.Query(`
		SELECT v.id, v.full_name, v.email, vt.id IS NOT NULL, vt.vote_time
		FROM election_voter ev
		JOIN voter v ON v.id = ev.voter_id
		LEFT JOIN vote vt ON vt.election_id = ev.election_id AND vt.voter_id = ev.voter_id
		WHERE ev.election_id = $1
		ORDER BY ev.voted_at
	`, e.ID)
	if err != nil {
		slog.Error("failed to query election voters", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	voters := []models.ElectionVoterStatus{}
	for rows.Next() {
		var vs models.ElectionVoterStatus
		var voteTime sql.NullTime
		if err := rows.Scan(&vs.VoterID, &vs.FullName, &vs.Email, &vs.HasVoted, &voteTime); err != nil {
			slog.Error("failed to scan election voter", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if voteTime.Valid {
			t := voteTime.Time
			vs.VoteTime = &t
		}
		voters = append(voters, vs)
	}

	middleware.JSONResponse(w, http.StatusOK, voters)
}

// SetStatus handles PATCH /api/elections/{id}/status
// Label-only override: it does not touch the voting window, so a setting
// that disagrees with the clock is reverted by the next reconciliation.
func (h *ElectionHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	var req models.SetStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	switch req.Status {
	case models.StatusScheduled, models.StatusActive, models.StatusCompleted:
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid status. Must be scheduled, active, or completed")
		return
	}

	var e models.Election
	err := scanElection(h.db.QueryRow(`
		UPDATE election SET status = $1 WHERE id = $2
		RETURNING`+electionColumns, req.Status, electionID), &e)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to update election status", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update election status")
		return
	}

	slog.Info("election status forced", "election_id", electionID, "status", req.Status)

	middleware.JSONResponse(w, http.StatusOK, e)
}

// StartVoting handles PATCH /api/elections/{id}/start
// Rewrites the window to begin now and forces the election active.
func (h *ElectionHandler) StartVoting(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	var duration int
	err := h.db.QueryRow(`SELECT duration_hours FROM election WHERE id = $1`, electionID).Scan(&duration)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	now := time.Now()
	end := now.Add(time.Duration(duration) * time.Hour)

	var e models.Election
	err = scanElection(h.db.QueryRow(`
		UPDATE election
		SET voting_start_time = $1, voting_end_time = $2, status = $3
		WHERE id = $4
		RETURNING`+electionColumns, now, end, models.StatusActive, electionID), &e)

	if err != nil {
		slog.Error("failed to start voting", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to start voting")
		return
	}

	slog.Info("voting started", "election_id", electionID, "ends", end)

	middleware.JSONResponse(w, http.StatusOK, e)
}

// ResetVotes handles DELETE /api/elections/{id}/votes
func (h *ElectionHandler) ResetVotes(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	if err := voting.ResetVotes(h.db, electionID); err != nil {
		if errors.Is(err, voting.ErrElectionNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
			return
		}
		slog.Error("failed to reset votes", "error", err, "election_id", electionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to reset votes")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "All votes for this election have been reset",
	})
}

// fetchElection loads the election from the path ID, writing the error
// response itself when the lookup fails.
func (h *ElectionHandler) fetchElection(w http.ResponseWriter, r *http.Request) (*models.Election, bool) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return nil, false
	}

	var e models.Election
	err := scanElection(h.db.QueryRow(`
		SELECT`+electionColumns+`FROM election WHERE id = $1`, electionID), &e)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return nil, false
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return nil, false
	}

	return &e, true
}
