// Copyright (c) 2025 The Campus Vote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Voters
CREATE TABLE IF NOT EXISTS voter (
    id TEXT PRIMARY KEY,
    student_id TEXT UNIQUE,
    full_name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    is_admin BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_voter_email ON voter(email);

-- Elections
CREATE TABLE IF NOT EXISTS election (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    thumbnail TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'scheduled' CHECK (status IN ('scheduled', 'active', 'completed')),
    voting_start_time TIMESTAMP NOT NULL,
    voting_end_time TIMESTAMP NOT NULL,
    duration_hours INT NOT NULL DEFAULT 4 CHECK (duration_hours BETWEEN 1 AND 24),
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    CHECK (voting_end_time > voting_start_time)
);

CREATE INDEX IF NOT EXISTS idx_election_status ON election(status);

-- Candidates
CREATE TABLE IF NOT EXISTS candidate (
    id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    full_name TEXT NOT NULL,
    image TEXT NOT NULL,
    motto TEXT NOT NULL,
    vote_count INT NOT NULL DEFAULT 0 CHECK (vote_count >= 0),
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_candidate_election_id ON candidate(election_id);

-- Votes: the source-of-truth ballot records.
-- UNIQUE (voter_id, election_id) is what makes double-voting impossible
-- regardless of application-level races.
CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    voter_id TEXT NOT NULL REFERENCES voter(id) ON DELETE CASCADE,
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    candidate_id TEXT NOT NULL REFERENCES candidate(id) ON DELETE CASCADE,
    vote_time TIMESTAMP NOT NULL DEFAULT NOW(),
    UNIQUE (voter_id, election_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_election_id ON vote(election_id);
CREATE INDEX IF NOT EXISTS idx_vote_candidate_id ON vote(candidate_id);

-- Voter/election membership: which voters have completed voting in which
-- elections. Maintained in the same transaction as the vote insert.
CREATE TABLE IF NOT EXISTS election_voter (
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    voter_id TEXT NOT NULL REFERENCES voter(id) ON DELETE CASCADE,
    voted_at TIMESTAMP NOT NULL DEFAULT NOW(),
    PRIMARY KEY (election_id, voter_id)
);

CREATE INDEX IF NOT EXISTS idx_election_voter_voter ON election_voter(voter_id);
`
