// Copyright (c) 2025 The Campus Vote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/campusvote/server/models"
)

// ReconcileStatus returns the correct status for an election snapshot at
// the given instant. Completed is terminal, and an election that has gone
// active is never demoted back to scheduled even if the clock moves
// backward relative to its window.
func ReconcileStatus(status string, start, end, now time.Time) string {
	if status == models.StatusCompleted {
		return models.StatusCompleted
	}
	if !now.Before(end) {
		return models.StatusCompleted
	}
	if !now.Before(start) {
		return models.StatusActive
	}
	if status == models.StatusActive {
		return models.StatusActive
	}
	return models.StatusScheduled
}

// ReconcileElection recomputes the election's status against now and
// persists it if it changed, updating e in place.
func ReconcileElection(db *sql.DB, e *models.Election, now time.Time) error {
	correct := ReconcileStatus(e.Status, e.VotingStartTime, e.VotingEndTime, now)
	if correct == e.Status {
		return nil
	}

	_, err := db.Exec(`UPDATE election SET status = $1 WHERE id = $2`, correct, e.ID)
	if err != nil {
		return fmt.Errorf("failed to persist election status: %w", err)
	}
	e.Status = correct
	return nil
}

// Sweep promotes all elections whose window boundaries have passed:
// scheduled elections become active once their start time arrives, and
// scheduled or active elections become completed once their end time
// passes. Returns how many rows changed in each direction.
func Sweep(db *sql.DB, now time.Time) (activated, completed int64, err error) {
	res, err := db.Exec(`
		UPDATE election
		SET status = $1
		WHERE status = $2 AND voting_start_time <= $3 AND voting_end_time > $3
	`, models.StatusActive, models.StatusScheduled, now)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to activate elections: %w", err)
	}
	activated, _ = res.RowsAffected()

	res, err = db.Exec(`
		UPDATE election
		SET status = $1
		WHERE status IN ($2, $3) AND voting_end_time <= $4
	`, models.StatusCompleted, models.StatusScheduled, models.StatusActive, now)
	if err != nil {
		return activated, 0, fmt.Errorf("failed to complete elections: %w", err)
	}
	completed, _ = res.RowsAffected()

	return activated, completed, nil
}
