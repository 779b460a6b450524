package rest

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// contextKey is unexported so only this package can place values; access
// goes through UserIDFrom rather than ambient globals.
type contextKey struct{ name string }

var userIDKey = &contextKey{"userID"}

// UserIDFrom returns the authenticated user id injected by RequireAuth.
func UserIDFrom(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}

// RequireAuth gates a route behind "Authorization: Bearer <token>".
// Requests with a missing or invalid token fail with 401 before any
// handler runs; on success the user id travels in the request context.
func RequireAuth(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				respondJSON(w, http.StatusUnauthorized, messageResponse{Message: "not authorized, no token"})
				return
			}

			userID, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				respondJSON(w, http.StatusUnauthorized, messageResponse{Message: "not authorized, token failed"})
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
