package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/isdelr/task-manager-be/internal/api/response"
	"github.com/isdelr/task-manager-be/internal/apperr"
	"github.com/isdelr/task-manager-be/internal/models"
	"github.com/isdelr/task-manager-be/internal/storage"
	"github.com/rs/zerolog/log"
)

// UserLookup resolves token subjects to accounts.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Guard authenticates requests from their bearer token.
type Guard struct {
	tokens *TokenService
	users  UserLookup
}

// NewGuard creates a Guard.
func NewGuard(tokens *TokenService, users UserLookup) *Guard {
	return &Guard{tokens: tokens, users: users}
}

// Authenticate rejects the request unless it carries a valid token for an
// existing, active account. The account is reloaded on every request, so
// deactivation takes effect immediately.
func (g *Guard) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := extractToken(r.Header.Get("Authorization"))
		if tokenStr == "" {
			response.Error(w, r, apperr.Unauthenticated("No authentication token provided"))
			return
		}

		claims, err := g.tokens.Validate(tokenStr)
		if err != nil {
			log.Debug().Err(err).Msg("Rejected bearer token")
			response.Error(w, r, err)
			return
		}

		user, err := g.users.GetUserByID(r.Context(), claims.Subject)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			response.Error(w, r, apperr.Unauthenticated("User not found"))
			return
		case err != nil:
			log.Error().Err(err).Str("user_id", claims.Subject).Msg("Failed to load user for token")
			response.JSON(w, http.StatusInternalServerError, response.Envelope{Message: "Authentication error"})
			return
		case !user.IsActive:
			response.Error(w, r, apperr.AccountDeactivated())
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user, tokenStr)))
	})
}

// extractToken accepts "Bearer <token>" and, like earlier clients sent it,
// a bare token.
func extractToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

// RequireRole admits only authenticated users holding role. It must run
// after Authenticate.
func RequireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				response.Error(w, r, apperr.Unauthenticated("Not authenticated"))
				return
			}
			if user.Role != role {
				response.Error(w, r, apperr.Forbidden("Access denied. Insufficient permissions"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
