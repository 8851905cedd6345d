// Copyright (c) 2025 The Campus Vote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/campusvote/server/auth"
	"github.com/campusvote/server/cliparse"
	"github.com/campusvote/server/middleware"
	"github.com/campusvote/server/models"
)

type VoterHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVoterHandler(db *sql.DB, cfg cliparse.Config) *VoterHandler {
	return &VoterHandler{db: db, cfg: cfg}
}

// Register handles POST /api/voters/register
func (h *VoterHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.FullName == "" || req.Email == "" || req.Password == "" || req.Password2 == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "full_name, email, password and password2 are required")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if len(strings.TrimSpace(req.Password)) < 6 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}
	if req.Password != req.Password2 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Passwords don't match")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	// Exactly one configured email is allowed to register as admin.
	isAdmin := email == strings.ToLower(h.cfg.AdminEmail)

	var studentID sql.NullString
	if req.StudentID != "" {
		studentID = sql.NullString{String: req.StudentID, Valid: true}
	}

	voterID := auth.NewID()
	_, err = h.db.Exec(`
		INSERT INTO voter (id, student_id, full_name, email, password_hash, is_admin, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, voterID, studentID, req.FullName, email, hash, isAdmin, time.Now())

	if err != nil {
		if isUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Email or student ID already registered")
			return
		}
		slog.Error("failed to insert voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	slog.Info("voter registered", "voter_id", voterID, "is_admin", isAdmin)

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterVoterResponse{
		VoterID: voterID,
		Message: "Voter " + req.FullName + " created successfully",
	})
}

// Login handles POST /api/voters/login
func (h *VoterHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email and password are required")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var voterID, hash string
	var isAdmin bool
	err := h.db.QueryRow(`
		SELECT id, password_hash, is_admin FROM voter WHERE email = $1
	`, email).Scan(&voterID, &hash, &isAdmin)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		slog.Error("failed to query voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := auth.CheckPassword(hash, req.Password); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := auth.GenerateToken(voterID, isAdmin, h.cfg.JWTSecret)
	if err != nil {
		slog.Error("failed to generate token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Login failed")
		return
	}

	votedElections, err := h.votedElections(voterID)
	if err != nil {
		slog.Error("failed to query voted elections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("voter logged in", "voter_id", voterID)

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Token:          token,
		VoterID:        voterID,
		IsAdmin:        isAdmin,
		VotedElections: votedElections,
	})
}

// GetVoter handles GET /api/voters/{id}
func (h *VoterHandler) GetVoter(w http.ResponseWriter, r *http.Request) {
	voterID := r.PathValue("id")
	if voterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter_id is required")
		return
	}

	var voter models.Voter
	err := h.db.QueryRow(`
		SELECT id, student_id, full_name, email, is_admin, created_at
		FROM voter
		WHERE id = $1
	`, voterID).Scan(
		&voter.ID, &voter.StudentID, &voter.FullName,
		&voter.Email, &voter.IsAdmin, &voter.CreatedAt,
	)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Voter not found")
		return
	}
	if err != nil {
		slog.Error("failed to query voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, voter)
}

// RemoveVoter handles DELETE /api/voters/{id}
// Admin accounts are not deletable through this path. Removing a student
// also reverses the tallies their ballots produced.
func (h *VoterHandler) RemoveVoter(w http.ResponseWriter, r *http.Request) {
	voterID := r.PathValue("id")
	if voterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter_id is required")
		return
	}

	var isAdmin bool
	err := h.db.QueryRow(`SELECT is_admin FROM voter WHERE id = $1`, voterID).Scan(&isAdmin)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Voter not found")
		return
	}
	if err != nil {
		slog.Error("failed to query voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if isAdmin {
		middleware.ErrorResponse(w, http.StatusForbidden, "Admin accounts cannot be deleted")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	// Reverse the tallies before the cascade removes the vote rows.
	_, err = tx.Exec(`
		UPDATE candidate
		SET vote_count = vote_count - 1
		WHERE id IN (SELECT candidate_id FROM vote WHERE voter_id = $1)
	`, voterID)
	if err != nil {
		slog.Error("failed to reverse tallies", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete voter")
		return
	}

	// Cascades vote and election_voter rows.
	_, err = tx.Exec(`DELETE FROM voter WHERE id = $1`, voterID)
	if err != nil {
		slog.Error("failed to delete voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete voter")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit voter deletion", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete voter")
		return
	}

	slog.Info("voter deleted", "voter_id", voterID)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "Voter deleted successfully",
	})
}

func (h *VoterHandler) votedElections(voterID string) ([]string, error) {
	rows, err := h.db.Query(`
		SELECT election_id FROM election_voter WHERE voter_id = $1 ORDER BY voted_at
	`, voterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	elections := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		elections = append(elections, id)
	}
	return elections, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
