package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/task-manager-be/internal/apperr"
	"github.com/isdelr/task-manager-be/internal/auth"
	"github.com/isdelr/task-manager-be/internal/models"
	"github.com/isdelr/task-manager-be/internal/storage"
	"github.com/isdelr/task-manager-be/internal/validation"
	"github.com/rs/zerolog/log"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	CreateUser(ctx context.Context, in validation.RegisterInput) (*models.User, error)
	AuthenticateUser(ctx context.Context, in validation.LoginInput) (*models.User, error)
}

// UserService provides business logic for user management.
type UserService struct {
	store      storage.UserStore
	bcryptCost int
	now        func() time.Time
}

// NewUserService creates a new UserService. A bcryptCost of zero selects
// the bcrypt default.
func NewUserService(store storage.UserStore, bcryptCost int) *UserService {
	return &UserService{store: store, bcryptCost: bcryptCost, now: time.Now}
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("get user %s: %w", id, err))
	}
	return user, nil
}

// CreateUser validates a registration and stores a new active user with
// the user role. Taken usernames and emails are reported as field errors.
func (s *UserService) CreateUser(ctx context.Context, in validation.RegisterInput) (*models.User, error) {
	if errs := validation.ValidateRegister(&in); len(errs) > 0 {
		return nil, apperr.Validation(errs)
	}

	var taken []apperr.FieldError
	if _, err := s.store.GetUserByUsername(ctx, in.Username); err == nil {
		taken = append(taken, apperr.FieldError{Field: "username", Message: "Username is already taken"})
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.Internal(err)
	}
	if _, err := s.store.GetUserByEmail(ctx, in.Email); err == nil {
		taken = append(taken, apperr.FieldError{Field: "email", Message: "Email is already registered"})
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.Internal(err)
	}
	if len(taken) > 0 {
		return nil, apperr.Validation(taken)
	}

	user, err := s.newUser(in.Username, in.Email, in.Password, models.RoleUser)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			// Lost a race with a concurrent registration.
			return nil, apperr.Validation([]apperr.FieldError{{Field: "email", Message: "User already exists"}})
		}
		return nil, apperr.Internal(fmt.Errorf("create user: %w", err))
	}
	return user, nil
}

// AuthenticateUser verifies a user's credentials. Unknown emails and wrong
// passwords produce the same error.
func (s *UserService) AuthenticateUser(ctx context.Context, in validation.LoginInput) (*models.User, error) {
	if errs := validation.ValidateLogin(&in); len(errs) > 0 {
		return nil, apperr.Validation(errs)
	}

	user, err := s.store.GetUserByEmail(ctx, in.Email)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.Unauthenticated("Invalid credentials")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !auth.CheckPassword(user.PasswordHash, in.Password) {
		return nil, apperr.Unauthenticated("Invalid credentials")
	}
	if !user.IsActive {
		return nil, apperr.AccountDeactivated()
	}
	return user, nil
}

// EnsureAdmin creates an admin account unless one with the same email
// already exists. It is a no-op when email or password is empty.
func (s *UserService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	email = validation.NormalizeEmail(email)
	if username == "" {
		username = "admin"
	}

	existing, err := s.store.GetUserByEmail(ctx, email)
	if err == nil {
		if !existing.IsAdmin() {
			log.Warn().Str("email", email).Msg("Seed admin email belongs to a non-admin account")
		}
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("look up admin: %w", err)
	}

	user, err := s.newUser(username, email, password, models.RoleAdmin)
	if err != nil {
		return err
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Info().Str("email", email).Msg("Admin user created")
	return nil
}

func (s *UserService) newUser(username, email, password string, role models.Role) (*models.User, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC().Truncate(time.Millisecond)
	return &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
