// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const userKey ctxKey = "user"
const tokenKey ctxKey = "token"

// TokenResolver resolves a bearer token to a user id.
type TokenResolver interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// BearerAuth is a middleware that enforces bearer-token authentication.
//
// It expects an "Authorization: Bearer <token>" header, resolves the token to
// a user id through the resolver, and stores both the user id and the raw
// token in the request context for downstream handlers. Requests without a
// valid token are rejected with 401.
func BearerAuth(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				http.Error(w, "authorization required", http.StatusUnauthorized)
				return
			}
			userID, err := resolver.Authenticate(r.Context(), token)
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), userKey, userID)
			ctx = context.WithValue(ctx, tokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from the Authorization header. WebSocket
// clients cannot always set headers, so a "token" query parameter is accepted
// as a fallback.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

// GetUserIDFromContext extracts the authenticated user id from the request
// context. Returns an empty string if not found.
func GetUserIDFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

// GetTokenFromContext extracts the raw bearer token from the request context.
// Returns an empty string if not found.
func GetTokenFromContext(ctx context.Context) string {
	val := ctx.Value(tokenKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
