package auth

import (
	"context"

	"github.com/isdelr/task-manager-be/internal/models"
)

type contextKey string

const (
	userKey  = contextKey("user")
	tokenKey = contextKey("token")
)

// WithUser returns a copy of ctx carrying the authenticated user and the
// raw token it presented.
func WithUser(ctx context.Context, user *models.User, token string) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, tokenKey, token)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}

// TokenFromContext returns the raw bearer token of the request.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}
