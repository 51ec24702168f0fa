// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/voxpop/auth"
)

type authCtxKey int

const userIDKey authCtxKey = 1

// WithAuth attaches the token subject to the request context when the
// Authorization header carries a valid bearer token. Invalid or missing
// tokens pass through unauthenticated.
func WithAuth(secret string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if tok, ok := auth.BearerToken(r.Header.Get("Authorization")); ok {
			userID, err := auth.ParseToken(secret, tok)
			if err == nil {
				next(w, r.WithContext(ContextWithUserID(r.Context(), userID)))
				return
			}
			slog.Debug("rejected bearer token", "error", err)
		}
		next(w, r)
	}
}

// RequireAuth rejects requests WithAuth did not authenticate
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserIDFromContext(r.Context()); !ok {
			ErrorResponse(w, http.StatusUnauthorized, "Valid bearer token required")
			return
		}
		next(w, r)
	}
}

// ContextWithUserID stores the authenticated user id
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user id
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}
