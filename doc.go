// Copyright (c) 2025 The Campus Vote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Campus Vote API server.

Campus Vote is a campus election platform: students register and log in,
admins schedule elections with candidates, voters cast exactly one vote
per election inside its voting window, and results are tallied per
candidate.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... go run main.go

Or with flags:

	go run main.go -p 3000 -d "postgres://..."

# Configuration

Required settings:

  - DATABASE_URL (-d): PostgreSQL connection string
  - JWT_SECRET (--jwt-secret): Access token signing secret
  - ADMIN_EMAIL (--admin-email): The one email allowed to register as admin

Optional settings:

  - PORT (-p): Server port (default: 3000)
  - SWEEP_INTERVAL (--sweep-interval): Status sweep cadence (default: 1m)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (voters, elections, candidates, voting, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, bearer-token auth
  - models: Request/response and domain types
  - auth: Password hashing, JWT tokens, ID generation
  - election: Status engine (reconciliation + periodic sweep)
  - voting: Vote-casting and reset transactions
  - db: Schema creation
  - cliparse: Configuration parsing

The one invariant the whole system leans on: a voter gets exactly one
vote per election, enforced by a unique constraint in the vote table and
a single transactional write path in the voting package.

See package documentation for each component.
*/
package main
