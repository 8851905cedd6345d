// Copyright (c) 2025 The Campus Vote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - Voter: account record; PasswordHash is never serialized
  - Election: scheduled contest with a voting window and lifecycle status
  - Candidate: contestant owned by one election, with a denormalized tally
  - Vote: immutable ballot record, unique per (voter, election)

# Constants

Status values:

	StatusScheduled = "scheduled"
	StatusActive    = "active"
	StatusCompleted = "completed"

Voting schedule bounds (hours):

	DefaultDurationHours = 4
	MinDurationHours     = 1
	MaxDurationHours     = 24

Request and response types mirror the JSON bodies of the HTTP API; see
the handlers package for which endpoint uses which.
*/
package models
