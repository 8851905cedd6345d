// Copyright (c) 2025 The Campus Vote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema

The schema consists of five tables:

  - voter: registered accounts (students and the bootstrap admin)
  - election: scheduled contests with a [voting_start_time, voting_end_time) window
  - candidate: contestants, each owned by one election, with a denormalized vote_count
  - vote: immutable ballot records, UNIQUE (voter_id, election_id)
  - election_voter: voter/election membership written alongside each vote

# Usage

Call CreateSchema after connecting to the database:

	if err := db.CreateSchema(dbConn); err != nil {
		log.Fatal(err)
	}

The schema uses IF NOT EXISTS so it's safe to call on every startup.

# Integrity

The vote table is ground truth. The unique constraint on
(voter_id, election_id) closes the check-then-insert race between
concurrent votes from the same voter; candidate.vote_count and
election_voter are caches of the vote table kept consistent in the
same transaction. All child tables cascade on election deletion so a
removed election never leaves orphaned ballots behind.
*/
package db
