package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/task-manager-be/internal/apperr"
	"github.com/isdelr/task-manager-be/internal/auth"
	"github.com/isdelr/task-manager-be/internal/models"
	"github.com/isdelr/task-manager-be/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUserService(t *testing.T) *UserService {
	return NewUserService(newTestStore(t), bcrypt.MinCost)
}

func TestUserService_CreateUser(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, validation.RegisterInput{Username: "alice", Email: "Alice@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.True(t, auth.CheckPassword(user.PasswordHash, "secret1"))

	got, err := svc.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
}

func TestUserService_CreateUser_Rejections(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()
	_, err := svc.CreateUser(ctx, validation.RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, validation.RegisterInput{Username: "alice", Email: "ALICE@example.com", Password: "secret1"})
	require.Error(t, err)
	e := apperr.From(err)
	assert.Equal(t, apperr.KindValidation, e.Kind)
	require.Len(t, e.Fields, 2)
	assert.Equal(t, "username", e.Fields[0].Field)
	assert.Equal(t, "email", e.Fields[1].Field)

	_, err = svc.CreateUser(ctx, validation.RegisterInput{Username: "bo", Email: "bad", Password: "1"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Len(t, apperr.From(err).Fields, 3)
}

func TestUserService_AuthenticateUser(t *testing.T) {
	store := newTestStore(t)
	svc := NewUserService(store, bcrypt.MinCost)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, validation.RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	hash, err := auth.HashPassword("secret1", bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, store.CreateUser(ctx, &models.User{
		ID: uuid.NewString(), Username: "carol", Email: "carol@example.com",
		PasswordHash: hash, Role: models.RoleUser, IsActive: false, CreatedAt: now, UpdatedAt: now,
	}))

	user, err := svc.AuthenticateUser(ctx, validation.LoginInput{Email: " ALICE@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	tests := []struct {
		name     string
		input    validation.LoginInput
		wantKind apperr.Kind
		wantMsg  string
	}{
		{"wrong password", validation.LoginInput{Email: "alice@example.com", Password: "nope"}, apperr.KindUnauthenticated, "Invalid credentials"},
		{"unknown email", validation.LoginInput{Email: "nobody@example.com", Password: "secret1"}, apperr.KindUnauthenticated, "Invalid credentials"},
		{"deactivated", validation.LoginInput{Email: "carol@example.com", Password: "secret1"}, apperr.KindAccountDeactivated, "User account is deactivated"},
		{"missing fields", validation.LoginInput{}, apperr.KindValidation, "Validation error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AuthenticateUser(ctx, tt.input)
			require.Error(t, err)
			e := apperr.From(err)
			assert.Equal(t, tt.wantKind, e.Kind)
			assert.Equal(t, tt.wantMsg, e.Message)
		})
	}
}

func TestUserService_EnsureAdmin(t *testing.T) {
	store := newTestStore(t)
	svc := NewUserService(store, bcrypt.MinCost)
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "", "", ""))

	require.NoError(t, svc.EnsureAdmin(ctx, "root", "Root@Example.com", "adminpass"))
	admin, err := store.GetUserByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.Equal(t, "root", admin.Username)

	require.NoError(t, svc.EnsureAdmin(ctx, "root", "root@example.com", "adminpass"))

	logged, err := svc.AuthenticateUser(ctx, validation.LoginInput{Email: "root@example.com", Password: "adminpass"})
	require.NoError(t, err)
	assert.True(t, logged.IsAdmin())
}

func TestUserService_GetUserByID_NotFound(t *testing.T) {
	svc := newUserService(t)
	_, err := svc.GetUserByID(context.Background(), "missing")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
