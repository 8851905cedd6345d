// Copyright (c) 2025 The Campus Vote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/campusvote/server/auth"
)

// Principal is the authenticated identity attached to a request.
type Principal struct {
	VoterID string
	IsAdmin bool
}

type contextKey int

const principalKey contextKey = 0

// WithAuth validates the Authorization bearer token and attaches the
// resulting Principal to the request context.
func WithAuth(secret string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			ErrorResponse(w, http.StatusUnauthorized, "Authorization bearer token required")
			return
		}

		voterID, isAdmin, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "), secret)
		if err != nil {
			ErrorResponse(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := SetPrincipal(r.Context(), Principal{VoterID: voterID, IsAdmin: isAdmin})
		next(w, r.WithContext(ctx))
	}
}

// WithAdmin is WithAuth plus an isAdmin requirement.
func WithAdmin(secret string, next http.HandlerFunc) http.HandlerFunc {
	return WithAuth(secret, func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFrom(r.Context())
		if !ok || !p.IsAdmin {
			ErrorResponse(w, http.StatusForbidden, "Only admin can perform this action")
			return
		}
		next(w, r)
	})
}

// PrincipalFrom returns the Principal attached by WithAuth, if any.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// SetPrincipal attaches a Principal to a context. Exported for tests.
func SetPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}
