// Copyright (c) 2025 The Campus Vote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"github.com/campusvote/server/auth"
	"github.com/campusvote/server/election"
	"github.com/campusvote/server/models"
)

// maxCommitAttempts bounds the internal retries on serialization
// failures before surfacing ErrConflict to the caller.
const maxCommitAttempts = 3

// CastVote is the single path by which a vote record is created.
//
// Preconditions are checked in order: the voter must exist and not be an
// admin, the election must exist and reconcile to active at now, the
// voter must not have voted in the election, and the candidate must
// belong to the election. The write itself is one transaction covering
// the vote row, the candidate tally, and the voter/election membership;
// either all of it commits or none of it does. The unique constraint on
// vote(voter_id, election_id) closes the race between the existence
// check and the insert, so two concurrent calls for the same voter and
// election yield exactly one success and one ErrAlreadyVoted.
//
// Returns the candidate with its updated tally.
func CastVote(db *sql.DB, voterID, electionID, candidateID string, now time.Time) (*models.Candidate, error) {
	// Admins are barred from voting.
	var isAdmin bool
	err := db.QueryRow(`SELECT is_admin FROM voter WHERE id = $1`, voterID).Scan(&isAdmin)
	if err == sql.ErrNoRows {
		return nil, ErrVoterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query voter: %w", err)
	}
	if isAdmin {
		return nil, ErrAdminCannotVote
	}

	var e models.Election
	err = db.QueryRow(`
		SELECT id, status, voting_start_time, voting_end_time
		FROM election
		WHERE id = $1
	`, electionID).Scan(&e.ID, &e.Status, &e.VotingStartTime, &e.VotingEndTime)
	if err == sql.ErrNoRows {
		return nil, ErrElectionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query election: %w", err)
	}

	// The vote attempt is a write path, so a corrected status is
	// persisted before any window rejection.
	if err := election.ReconcileElection(db, &e, now); err != nil {
		return nil, err
	}
	switch e.Status {
	case models.StatusScheduled:
		return nil, &VotingNotStartedError{StartsAt: e.VotingStartTime}
	case models.StatusCompleted:
		return nil, &VotingEndedError{EndedAt: e.VotingEndTime}
	}

	// Friendly pre-check; the unique constraint is the real guarantee.
	var hasVoted bool
	err = db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM vote WHERE voter_id = $1 AND election_id = $2)
	`, voterID, electionID).Scan(&hasVoted)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing vote: %w", err)
	}
	if hasVoted {
		return nil, ErrAlreadyVoted
	}

	var cand models.Candidate
	err = db.QueryRow(`
		SELECT id, election_id, full_name, image, motto, vote_count, created_at
		FROM candidate
		WHERE id = $1 AND election_id = $2
	`, candidateID, electionID).Scan(
		&cand.ID, &cand.ElectionID, &cand.FullName, &cand.Image,
		&cand.Motto, &cand.VoteCount, &cand.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrCandidateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query candidate: %w", err)
	}

	for attempt := 1; attempt <= maxCommitAttempts; attempt++ {
		newCount, err := castVoteTx(db, voterID, electionID, candidateID, now)
		if err == nil {
			cand.VoteCount = newCount
			return &cand, nil
		}
		if isUniqueViolation(err) {
			return nil, ErrAlreadyVoted
		}
		if isSerializationFailure(err) {
			slog.Warn("vote commit conflict, retrying",
				"election_id", electionID,
				"attempt", attempt,
			)
			continue
		}
		return nil, err
	}

	return nil, ErrConflict
}

// castVoteTx applies the four effects of a vote atomically and returns
// the candidate's new tally.
func castVoteTx(db *sql.DB, voterID, electionID, candidateID string, now time.Time) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO vote (id, voter_id, election_id, candidate_id, vote_time)
		VALUES ($1, $2, $3, $4, $5)
	`, auth.NewID(), voterID, electionID, candidateID, now)
	if err != nil {
		return 0, err
	}

	var newCount int
	err = tx.QueryRow(`
		UPDATE candidate
		SET vote_count = vote_count + 1
		WHERE id = $1
		RETURNING vote_count
	`, candidateID).Scan(&newCount)
	if err != nil {
		return 0, err
	}

	// Idempotent membership add; unreachable as a duplicate given the
	// vote insert above, but harmless if it ever races.
	_, err = tx.Exec(`
		INSERT INTO election_voter (election_id, voter_id, voted_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (election_id, voter_id) DO NOTHING
	`, electionID, voterID, now)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return newCount, nil
}

// ResetVotes removes every vote for an election and reverses the
// denormalized state it produced: candidate tallies drop to zero and the
// membership rows disappear, all in one transaction.
func ResetVotes(db *sql.DB, electionID string) error {
	var exists bool
	err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM election WHERE id = $1)`, electionID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to query election: %w", err)
	}
	if !exists {
		return ErrElectionNotFound
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM vote WHERE election_id = $1`, electionID); err != nil {
		return fmt.Errorf("failed to delete votes: %w", err)
	}

	if _, err := tx.Exec(`UPDATE candidate SET vote_count = 0 WHERE election_id = $1`, electionID); err != nil {
		return fmt.Errorf("failed to reset candidate tallies: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM election_voter WHERE election_id = $1`, electionID); err != nil {
		return fmt.Errorf("failed to clear election voters: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reset: %w", err)
	}

	slog.Info("votes reset", "election_id", electionID)
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	// serialization_failure or deadlock_detected
	return errors.As(err, &pqErr) && (pqErr.Code == "40001" || pqErr.Code == "40P01")
}
