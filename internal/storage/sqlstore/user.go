package sqlstore

import (
	"context"

	"github.com/isdelr/task-manager-be/internal/models"
)

const userColumns = `id, username, email, password_hash, role, is_active, created_at, updated_at`

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		user.ID, user.Username, user.Email, user.PasswordHash,
		string(user.Role), user.IsActive, user.CreatedAt, user.UpdatedAt)
	return wrapError(err)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "id", id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email", email)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getUser(ctx, "username", username)
}

// getUser looks a user up by one of the unique columns. column is never
// caller input.
func (s *Store) getUser(ctx context.Context, column, value string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, s.q(`SELECT `+userColumns+` FROM users WHERE `+column+` = ?`), value)
	if err != nil {
		return nil, wrapError(err)
	}
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	return &user, nil
}
