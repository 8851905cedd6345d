// Copyright (c) 2025 The Campus Vote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrVoterNotFound     = errors.New("voter not found")
	ErrElectionNotFound  = errors.New("election not found")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrAdminCannotVote   = errors.New("administrators cannot vote in elections")
	ErrAlreadyVoted      = errors.New("voter has already voted in this election")
	ErrConflict          = errors.New("vote could not be committed due to concurrent writes")
)

// VotingNotStartedError carries the scheduled start so callers can tell
// the voter when to come back.
type VotingNotStartedError struct {
	StartsAt time.Time
}

func (e *VotingNotStartedError) Error() string {
	return fmt.Sprintf("voting has not started yet, starts at %s", e.StartsAt.Format(time.RFC3339))
}

// VotingEndedError carries the window end for the rejection message.
type VotingEndedError struct {
	EndedAt time.Time
}

func (e *VotingEndedError) Error() string {
	return fmt.Sprintf("voting ended at %s", e.EndedAt.Format(time.RFC3339))
}
