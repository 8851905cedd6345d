// Copyright (c) 2025 The Campus Vote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting implements the exactly-once vote-casting protocol.

CastVote is the only code path that creates vote rows or mutates
candidate.vote_count and election_voter; ResetVotes is the only path
that bulk-reverses them. Both are all-or-nothing transactions, so at
every commit boundary the following holds for any voter V and
election E:

	a vote(V, E) row exists
	⇔ election_voter contains (E, V)
	⇔ exactly one of E's candidates has counted V's ballot

Double-voting is prevented by the storage-level unique constraint on
vote(voter_id, election_id), not by the application-level existence
check (which exists only to produce a friendly error without burning a
transaction). Serialization failures are retried a bounded number of
times before surfacing ErrConflict.
*/
package voting
