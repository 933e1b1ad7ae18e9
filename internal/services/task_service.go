package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/task-manager-be/internal/apperr"
	"github.com/isdelr/task-manager-be/internal/models"
	"github.com/isdelr/task-manager-be/internal/storage"
	"github.com/isdelr/task-manager-be/internal/validation"
)

const taskNotFound = "Task not found"

// TaskServiceProvider defines the interface for task services. Every
// method except ListAll is scoped to the given owner.
type TaskServiceProvider interface {
	List(ctx context.Context, owner *models.User, filter models.TaskFilter) ([]models.Task, error)
	ListAll(ctx context.Context, filter models.TaskFilter) ([]models.TaskWithOwner, error)
	Get(ctx context.Context, owner *models.User, id string) (*models.Task, error)
	Create(ctx context.Context, owner *models.User, in validation.TaskInput) (*models.Task, error)
	Update(ctx context.Context, owner *models.User, id string, in validation.TaskInput) (*models.Task, error)
	Delete(ctx context.Context, owner *models.User, id string) error
}

// TaskService provides business logic for task management.
type TaskService struct {
	store storage.TaskStore
	now   func() time.Time
}

// NewTaskService creates a new TaskService.
func NewTaskService(store storage.TaskStore) *TaskService {
	return &TaskService{store: store, now: time.Now}
}

// clock returns the current time at the precision every store keeps.
func (s *TaskService) clock() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// List returns the owner's tasks. Any owner set on filter is replaced.
func (s *TaskService) List(ctx context.Context, owner *models.User, filter models.TaskFilter) ([]models.Task, error) {
	filter.OwnerID = owner.ID
	tasks, err := s.store.ListTasks(ctx, filter)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("list tasks: %w", err))
	}
	return tasks, nil
}

// ListAll returns tasks across all owners with owner details attached.
// Callers must have checked the admin role.
func (s *TaskService) ListAll(ctx context.Context, filter models.TaskFilter) ([]models.TaskWithOwner, error) {
	tasks, err := s.store.ListTasksWithOwners(ctx, filter)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("list all tasks: %w", err))
	}
	return tasks, nil
}

// Get returns a task owned by owner. Tasks of other users are reported as
// not found.
func (s *TaskService) Get(ctx context.Context, owner *models.User, id string) (*models.Task, error) {
	task, err := s.store.GetTask(ctx, id, owner.ID)
	if err != nil {
		return nil, storeError(err)
	}
	return task, nil
}

// Create validates the input and stores a new task owned by owner.
func (s *TaskService) Create(ctx context.Context, owner *models.User, in validation.TaskInput) (*models.Task, error) {
	now := s.clock()
	fields, errs := validation.ValidateTaskCreate(in, now)
	if len(errs) > 0 {
		return nil, apperr.Validation(errs)
	}

	task := &models.Task{
		ID:        uuid.NewString(),
		Status:    models.TaskStatusPending,
		Priority:  models.TaskPriorityMedium,
		OwnerID:   owner.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	apply(task, fields)

	if err := s.store.CreateTask(ctx, task); err != nil {
		return nil, apperr.Internal(fmt.Errorf("create task: %w", err))
	}
	return task, nil
}

// Update checks ownership, then validates and applies the supplied fields.
// The owner never changes.
func (s *TaskService) Update(ctx context.Context, owner *models.User, id string, in validation.TaskInput) (*models.Task, error) {
	task, err := s.store.GetTask(ctx, id, owner.ID)
	if err != nil {
		return nil, storeError(err)
	}

	now := s.clock()
	fields, errs := validation.ValidateTaskUpdate(in, now)
	if len(errs) > 0 {
		return nil, apperr.Validation(errs)
	}

	apply(task, fields)
	task.UpdatedAt = now

	if err := s.store.UpdateTask(ctx, task); err != nil {
		return nil, storeError(err)
	}
	return task, nil
}

// Delete removes a task owned by owner.
func (s *TaskService) Delete(ctx context.Context, owner *models.User, id string) error {
	if err := s.store.DeleteTask(ctx, id, owner.ID); err != nil {
		return storeError(err)
	}
	return nil
}

func apply(task *models.Task, f validation.TaskFields) {
	if f.Title != nil {
		task.Title = *f.Title
	}
	if f.Description != nil {
		task.Description = *f.Description
	}
	if f.Status != nil {
		task.Status = *f.Status
	}
	if f.Priority != nil {
		task.Priority = *f.Priority
	}
	if f.DueDate != nil {
		due := f.DueDate.Truncate(time.Millisecond)
		task.DueDate = &due
	}
}

func storeError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound(taskNotFound)
	}
	return apperr.Internal(err)
}
