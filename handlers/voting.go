// Copyright (c) 2025 The Campus Vote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/campusvote/server/cliparse"
	"github.com/campusvote/server/middleware"
	"github.com/campusvote/server/models"
	"github.com/campusvote/server/voting"
)

type VoteHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVoteHandler(db *sql.DB, cfg cliparse.Config) *VoteHandler {
	return &VoteHandler{db: db, cfg: cfg}
}

// CastVote handles POST /api/candidates/{id}/vote
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	candidateID := r.PathValue("id")
	if candidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate_id is required")
		return
	}

	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.ElectionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	candidate, err := voting.CastVote(h.db, p.VoterID, req.ElectionID, candidateID, time.Now())
	if err != nil {
		h.writeVotingError(w, err)
		return
	}

	slog.Info("vote cast",
		"voter_id", p.VoterID,
		"election_id", req.ElectionID,
		"candidate_id", candidateID,
	)

	middleware.JSONResponse(w, http.StatusOK, candidate)
}

// writeVotingError maps core voting errors onto HTTP responses. Window
// rejections carry the boundary so the voter gets a specific message.
func (h *VoteHandler) writeVotingError(w http.ResponseWriter, err error) {
	var notStarted *voting.VotingNotStartedError
	var ended *voting.VotingEndedError

	switch {
	case errors.As(err, &notStarted):
		middleware.ErrorResponse(w, http.StatusForbidden, fmt.Sprintf(
			"Voting has not started yet. Voting starts at %s (%s)",
			notStarted.StartsAt.Format(time.RFC1123),
			humanize.Time(notStarted.StartsAt),
		))
	case errors.As(err, &ended):
		middleware.ErrorResponse(w, http.StatusForbidden, fmt.Sprintf(
			"Voting has ended for this election (ended %s)",
			humanize.Time(ended.EndedAt),
		))
	case errors.Is(err, voting.ErrAdminCannotVote):
		middleware.ErrorResponse(w, http.StatusForbidden, "Administrators cannot vote in elections")
	case errors.Is(err, voting.ErrAlreadyVoted):
		middleware.ErrorResponse(w, http.StatusConflict, "You have already voted in this election")
	case errors.Is(err, voting.ErrVoterNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Voter not found")
	case errors.Is(err, voting.ErrElectionNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
	case errors.Is(err, voting.ErrCandidateNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found in this election")
	case errors.Is(err, voting.ErrConflict):
		middleware.ErrorResponse(w, http.StatusConflict, "Could not record vote due to contention, please try again")
	default:
		slog.Error("vote failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Voting failed")
	}
}
