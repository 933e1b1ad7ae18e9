package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/isdelr/task-manager-be/internal/apperr"
	"github.com/isdelr/task-manager-be/internal/models"
	"github.com/isdelr/task-manager-be/internal/storage/sqlstore"
	"github.com/isdelr/task-manager-be/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var start = time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

type taskFixture struct {
	store   *sqlstore.Store
	tasks   *TaskService
	advance func(time.Duration)
	alice   *models.User
	bob     *models.User
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	store := newTestStore(t)
	users := NewUserService(store, bcrypt.MinCost)
	ctx := context.Background()

	alice, err := users.CreateUser(ctx, validation.RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	bob, err := users.CreateUser(ctx, validation.RegisterInput{Username: "bob", Email: "bob@example.com", Password: "secret1"})
	require.NoError(t, err)

	tasks := NewTaskService(store)
	now, advance := fixedClock(start)
	tasks.now = now

	return &taskFixture{store: store, tasks: tasks, advance: advance, alice: alice, bob: bob}
}

func TestTaskService_CreateDefaults(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	task, err := f.tasks.Create(ctx, f.alice, validation.TaskInput{Title: strPtr("  Buy milk  ")})
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, models.TaskStatusPending, task.Status)
	assert.Equal(t, models.TaskPriorityMedium, task.Priority)
	assert.Equal(t, f.alice.ID, task.OwnerID)
	assert.Nil(t, task.DueDate)
	assert.True(t, start.Equal(task.CreatedAt))
	assert.True(t, start.Equal(task.UpdatedAt))

	got, err := f.tasks.Get(ctx, f.alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Title, got.Title)
	assert.Equal(t, task.Status, got.Status)
	assert.Equal(t, task.Priority, got.Priority)
	assert.True(t, task.CreatedAt.Equal(got.CreatedAt))
}

func TestTaskService_CreateRoundTripsEveryField(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	in := validation.TaskInput{
		Title:       strPtr("Plan trip"),
		Description: strPtr("Book <hotel> & flights"),
		Status:      strPtr("in-progress"),
		Priority:    strPtr("high"),
		DueDate:     strPtr(start.Add(48 * time.Hour).Format(time.RFC3339)),
	}
	task, err := f.tasks.Create(ctx, f.alice, in)
	require.NoError(t, err)

	got, err := f.tasks.Get(ctx, f.alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Plan trip", got.Title)
	assert.Equal(t, "Book <hotel> & flights", got.Description)
	assert.Equal(t, models.TaskStatusInProgress, got.Status)
	assert.Equal(t, models.TaskPriorityHigh, got.Priority)
	require.NotNil(t, got.DueDate)
	assert.True(t, start.Add(48*time.Hour).Equal(*got.DueDate))
}

func TestTaskService_CreateReportsEveryViolation(t *testing.T) {
	f := newTaskFixture(t)

	_, err := f.tasks.Create(context.Background(), f.alice, validation.TaskInput{
		Title:       strPtr("ab"),
		Description: strPtr(strings.Repeat("x", 501)),
		DueDate:     strPtr(start.Add(-time.Minute).Format(time.RFC3339)),
	})
	require.Error(t, err)
	e := apperr.From(err)
	assert.Equal(t, apperr.KindValidation, e.Kind)
	assert.Len(t, e.Fields, 3)

	tasks, err := f.tasks.List(context.Background(), f.alice, models.TaskFilter{Sort: models.DefaultTaskSort})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskService_DueDateExactlyNow(t *testing.T) {
	f := newTaskFixture(t)

	task, err := f.tasks.Create(context.Background(), f.alice, validation.TaskInput{
		Title:   strPtr("Now"),
		DueDate: strPtr(start.Format(time.RFC3339)),
	})
	require.NoError(t, err)
	require.NotNil(t, task.DueDate)
	assert.True(t, start.Equal(*task.DueDate))
}

func TestTaskService_OtherUsersTasksAreNotFound(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	task, err := f.tasks.Create(ctx, f.alice, validation.TaskInput{Title: strPtr("Private")})
	require.NoError(t, err)

	_, err = f.tasks.Get(ctx, f.bob, task.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = f.tasks.Update(ctx, f.bob, task.ID, validation.TaskInput{Title: strPtr("Hijacked")})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	// Ownership is checked before validation.
	_, err = f.tasks.Update(ctx, f.bob, task.ID, validation.TaskInput{Title: strPtr("x")})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	err = f.tasks.Delete(ctx, f.bob, task.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = f.tasks.Get(ctx, f.alice, "does-not-exist")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	got, err := f.tasks.Get(ctx, f.alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Private", got.Title)
}

func TestTaskService_UpdateIsPartial(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	task, err := f.tasks.Create(ctx, f.alice, validation.TaskInput{Title: strPtr("Draft"), Description: strPtr("keep me"), Priority: strPtr("low")})
	require.NoError(t, err)

	f.advance(time.Hour)
	updated, err := f.tasks.Update(ctx, f.alice, task.ID, validation.TaskInput{Status: strPtr("completed")})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusCompleted, updated.Status)
	assert.Equal(t, "Draft", updated.Title)
	assert.Equal(t, "keep me", updated.Description)
	assert.Equal(t, models.TaskPriorityLow, updated.Priority)
	assert.Equal(t, f.alice.ID, updated.OwnerID)
	assert.True(t, start.Equal(updated.CreatedAt))
	assert.True(t, start.Add(time.Hour).Equal(updated.UpdatedAt))

	_, err = f.tasks.Update(ctx, f.alice, task.ID, validation.TaskInput{Status: strPtr("archived")})
	e := apperr.From(err)
	assert.Equal(t, apperr.KindValidation, e.Kind)
	assert.Equal(t, "status", e.Fields[0].Field)

	got, err := f.tasks.Get(ctx, f.alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusCompleted, got.Status)
}

func TestTaskService_Delete(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	task, err := f.tasks.Create(ctx, f.alice, validation.TaskInput{Title: strPtr("Temp")})
	require.NoError(t, err)

	require.NoError(t, f.tasks.Delete(ctx, f.alice, task.ID))
	_, err = f.tasks.Get(ctx, f.alice, task.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(f.tasks.Delete(ctx, f.alice, task.ID)))
}

func TestTaskService_ListScopesAndListAllJoinsOwners(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	_, err := f.tasks.Create(ctx, f.alice, validation.TaskInput{Title: strPtr("Alice one")})
	require.NoError(t, err)
	f.advance(time.Minute)
	_, err = f.tasks.Create(ctx, f.alice, validation.TaskInput{Title: strPtr("Alice two"), Status: strPtr("completed")})
	require.NoError(t, err)
	f.advance(time.Minute)
	_, err = f.tasks.Create(ctx, f.bob, validation.TaskInput{Title: strPtr("Bob one")})
	require.NoError(t, err)

	// An owner smuggled into the filter is ignored.
	mine, err := f.tasks.List(ctx, f.alice, models.TaskFilter{OwnerID: f.bob.ID, Sort: models.DefaultTaskSort})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "Alice two", mine[0].Title)
	for _, task := range mine {
		assert.Equal(t, f.alice.ID, task.OwnerID)
	}

	done, err := f.tasks.List(ctx, f.alice, models.TaskFilter{Status: models.TaskStatusCompleted, Sort: models.DefaultTaskSort})
	require.NoError(t, err)
	require.Len(t, done, 1)

	all, err := f.tasks.ListAll(ctx, models.TaskFilter{Sort: models.DefaultTaskSort})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Bob one", all[0].Title)
	assert.Equal(t, models.OwnerSummary{ID: f.bob.ID, Username: "bob", Email: "bob@example.com"}, all[0].Owner)
	assert.Equal(t, "alice", all[2].Owner.Username)
}
