// Copyright (c) 2025 The Campus Vote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Campus Vote API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - VoterHandler: registration, login, voter lookup and removal
  - ElectionHandler: election lifecycle and admin controls
  - CandidateHandler: candidates under an election
  - VoteHandler: ballot casting
  - ResultsHandler: tallies and turnout

Handlers are created via constructor functions that accept *sql.DB and Config:

	electionHandler := handlers.NewElectionHandler(db, cfg)

# Election Lifecycle

Elections progress through three states: scheduled → active → completed

	POST   /api/elections              → CreateElection (window defaults: next day 09:00, 4h)
	PATCH  /api/elections/{id}/status  → SetStatus (label-only override)
	PATCH  /api/elections/{id}/start   → StartVoting (window rewrite, forces active)
	DELETE /api/elections/{id}/votes   → ResetVotes

Admin operations go through middleware.WithAdmin.

# Voting Flow

	POST /api/voters/register       → Register
	POST /api/voters/login          → Login (returns bearer token)
	POST /api/candidates/{id}/vote  → CastVote

CastVote delegates to the voting package, which owns every integrity
rule; this layer only translates its errors into HTTP responses and
renders the window boundaries into user-facing messages.
*/
package handlers
