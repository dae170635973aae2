package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/patrickdoane/grail-tracker-redux/internal/models"
)

type contextKey struct{}

// UserSource resolves a token subject to an account.
type UserSource interface {
	UserByUsernameOrEmail(usernameOrEmail string) (*models.User, error)
}

// RequireUser is chi middleware that rejects requests without a valid bearer
// token and stores the authenticated user on the request context.
func RequireUser(tokens *TokenService, users UserSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			const prefix = "Bearer "
			if !strings.HasPrefix(header, prefix) {
				unauthorized(w, "Missing bearer token")
				return
			}

			subject, err := tokens.Subject(strings.TrimSpace(header[len(prefix):]))
			if err != nil {
				unauthorized(w, "Invalid or expired token")
				return
			}

			user, err := users.UserByUsernameOrEmail(subject)
			if err != nil || user == nil {
				unauthorized(w, "Unknown account")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// WithUser stores the authenticated user on a context.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// UserFrom returns the authenticated user, or nil outside RequireUser.
func UserFrom(ctx context.Context) *models.User {
	user, _ := ctx.Value(contextKey{}).(*models.User)
	return user
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
