// Copyright (c) 2025 The Campus Vote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Election status constants
const (
	StatusScheduled = "scheduled"
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// Voting schedule bounds (duration is in hours)
const (
	DefaultDurationHours = 4
	MinDurationHours     = 1
	MaxDurationHours     = 24
)

// Request types

type RegisterVoterRequest struct {
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	StudentID string `json:"student_id,omitempty"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateElectionRequest struct {
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Thumbnail       string     `json:"thumbnail"`
	VotingStartTime *time.Time `json:"voting_start_time,omitempty"`
	DurationHours   *int       `json:"duration_hours,omitempty"`
}

type UpdateElectionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	// Empty thumbnail keeps the existing reference.
	Thumbnail string `json:"thumbnail,omitempty"`
}

type SetStatusRequest struct {
	Status string `json:"status"`
}

type AddCandidateRequest struct {
	FullName   string `json:"full_name"`
	Motto      string `json:"motto"`
	Image      string `json:"image"`
	ElectionID string `json:"election_id"`
}

type CastVoteRequest struct {
	ElectionID string `json:"election_id"`
}

// Response types

type RegisterVoterResponse struct {
	VoterID string `json:"voter_id"`
	Message string `json:"message"`
}

type LoginResponse struct {
	Token          string   `json:"token"`
	VoterID        string   `json:"id"`
	IsAdmin        bool     `json:"is_admin"`
	VotedElections []string `json:"voted_elections"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Domain types

type Voter struct {
	ID           string    `json:"id"`
	StudentID    *string   `json:"student_id,omitempty"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

type Election struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Thumbnail       string    `json:"thumbnail"`
	Status          string    `json:"status"`
	VotingStartTime time.Time `json:"voting_start_time"`
	VotingEndTime   time.Time `json:"voting_end_time"`
	DurationHours   int       `json:"duration_hours"`
	CreatedAt       time.Time `json:"created_at"`
}

type Candidate struct {
	ID         string    `json:"id"`
	ElectionID string    `json:"election_id"`
	FullName   string    `json:"full_name"`
	Image      string    `json:"image"`
	Motto      string    `json:"motto"`
	VoteCount  int       `json:"vote_count"`
	CreatedAt  time.Time `json:"created_at"`
}

type Vote struct {
	ID          string    `json:"id"`
	VoterID     string    `json:"voter_id"`
	ElectionID  string    `json:"election_id"`
	CandidateID string    `json:"candidate_id"`
	VoteTime    time.Time `json:"vote_time"`
}

// Results types

type CandidateTally struct {
	Candidate
	Percentage float64 `json:"percentage"`
}

type ElectionResultsResponse struct {
	ElectionID string           `json:"election_id"`
	Status     string           `json:"status"`
	Results    []CandidateTally `json:"results"`
	TotalVotes int              `json:"total_votes"`
	Turnout    float64          `json:"turnout"`
}

type ElectionVoterStatus struct {
	VoterID  string     `json:"voter_id"`
	FullName string     `json:"full_name"`
	Email    string     `json:"email"`
	HasVoted bool       `json:"has_voted"`
	VoteTime *time.Time `json:"vote_time,omitempty"`
}
