// Copyright (c) 2025 The Campus Vote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the HTTP routes using Go 1.22+ routing.

All API routes live under /api/. Authenticated routes are wrapped in
middleware.WithAuth; admin-only routes in middleware.WithAdmin. The
two unauthenticated routes are registration and login.
*/
package router
