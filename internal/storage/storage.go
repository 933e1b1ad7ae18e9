// Package storage defines the persistence contracts for users and tasks.
//
// Drivers live in the sqlstore (SQLite, PostgreSQL) and mongostore
// (MongoDB) subpackages. Every task read and write that is not an admin
// listing is scoped by owner id, so a task owned by someone else looks
// exactly like a missing one.
package storage

import (
	"context"

	"github.com/isdelr/task-manager-be/internal/models"
)

// UserStore is the credential store.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// TaskStore is the task store.
type TaskStore interface {
	CreateTask(ctx context.Context, task *models.Task) error
	// GetTask returns ErrNotFound unless the task exists and belongs to ownerID.
	GetTask(ctx context.Context, id, ownerID string) (*models.Task, error)
	// ListTasks applies every non-zero constraint of the filter.
	ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	// ListTasksWithOwners is ListTasks with the owner's public fields joined in.
	ListTasksWithOwners(ctx context.Context, filter models.TaskFilter) ([]models.TaskWithOwner, error)
	// UpdateTask overwrites the mutable fields of the task matching both
	// task.ID and task.OwnerID.
	UpdateTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, id, ownerID string) error
	CountTasksByStatus(ctx context.Context) (map[models.TaskStatus]int, error)
}

// Store bundles both stores behind one connection.
type Store interface {
	UserStore
	TaskStore
	Close() error
}
