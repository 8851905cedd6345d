// Copyright (c) 2025 The Campus Vote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and request/response helpers.

# Middleware

  - WithLogging: structured request logging via slog
  - WithAuth: bearer-token validation, attaches a Principal to the context
  - WithAdmin: WithAuth plus an isAdmin requirement
  - CORS: cross-origin headers and preflight handling

# Helpers

  - JSONResponse / ErrorResponse: write JSON bodies
  - ParseJSONBody: decode request bodies
  - GetClientIP: client address behind proxies
  - PrincipalFrom / SetPrincipal: context access to the acting identity

Handlers never parse tokens themselves; they read the Principal that
WithAuth attached.
*/
package middleware
