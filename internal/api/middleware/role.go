package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/careslot/backend/internal/domain/entities"
)

// SessionReader reads back the recorded role flag
type SessionReader interface {
	Current(ctx context.Context) (*entities.CurrentUser, error)
}

// RequireRole guards a route behind the demo role flag. It is a routing guard,
// not an authorization layer: the flag is self-asserted at login.
func RequireRole(sessions SessionReader, role entities.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := sessions.Current(r.Context())
			if err != nil || user == nil || user.Role != role {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "requires " + string(role) + " role",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
