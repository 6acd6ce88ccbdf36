// Package middleware provides HTTP middleware for resolving browser sessions.
package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// sessionIDKey is the context key for storing the session ID.
const sessionIDKey ContextKey = "sessionID"

// CookieName is the cookie carrying the signed session token.
const CookieName = "coldmail_session"

// TokenValidator is an interface for validating session tokens.
// This allows the middleware to work with any token service implementation.
type TokenValidator interface {
	ValidateToken(tokenString string) (SessionIDGetter, error)
}

// SessionIDGetter is an interface for extracting the session ID from token claims.
type SessionIDGetter interface {
	GetSessionID() uuid.UUID
}

// SessionMiddleware reads the session cookie and, when its token is valid, adds the
// session ID to the request context. Requests without a valid cookie pass through
// unchanged so the handler can start a new session.
func SessionMiddleware(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.ValidateToken(cookie.Value)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithSessionID(r.Context(), claims.GetSessionID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithSessionID returns a copy of ctx carrying the session ID.
func WithSessionID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// GetSessionID extracts the session ID from the request context.
func GetSessionID(r *http.Request) (uuid.UUID, error) {
	id, ok := r.Context().Value(sessionIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("session ID not found in request context")
	}
	return id, nil
}
