// Copyright (c) 2025 The Campus Vote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing, access tokens, and ID generation.

# Passwords

Voter passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, attempt)

# Tokens

Access tokens are HS256 JWTs carrying the voter ID and admin flag,
valid for TokenTTL (7 days):

	token, err := auth.GenerateToken(voterID, isAdmin, secret)
	voterID, isAdmin, err := auth.ParseToken(token, secret)

The middleware package turns a parsed token into a request Principal.

# IDs

Entity rows (voters, elections, candidates, votes) use random UUIDs
from NewID.
*/
package auth
