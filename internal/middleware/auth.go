package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mindtype/insights/internal/domain/auth"
)

type contextKey string

const UserKey contextKey = "user"

// BearerAuth resolves the bearer token through the auth provider and stores
// the identity in the request context.
func BearerAuth(provider auth.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Login, health and metrics are reachable without a token.
			switch r.URL.Path {
			case "/health", "/metrics", "/v1/auth/login":
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				http.Error(w, "missing Authorization header", http.StatusUnauthorized)
				return
			}

			// Support both "Bearer <token>" and "<token>" formats
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if token == "" {
				http.Error(w, "invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			user, err := provider.Verify(r.Context(), token)
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFrom returns the authenticated user stored by BearerAuth, or nil.
func UserFrom(ctx context.Context) *auth.User {
	user, _ := ctx.Value(UserKey).(*auth.User)
	return user
}
