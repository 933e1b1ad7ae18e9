package mongostore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/isdelr/task-manager-be/internal/models"
	"github.com/isdelr/task-manager-be/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStore uses a throwaway database and skips when no server is reachable.
func testStore(t *testing.T) *Store {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	s, err := NewStore(uri, "task_manager_test")
	if err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}

	ctx := context.Background()
	require.NoError(t, s.db.Drop(ctx))
	require.NoError(t, s.ensureIndexes(ctx))

	t.Cleanup(func() {
		s.db.Drop(context.Background())
		s.Close()
	})
	return s
}

func newUser(id, username string) *models.User {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &models.User{
		ID:           id,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		Role:         models.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func newTask(id, ownerID, title string, created time.Time) *models.Task {
	return &models.Task{
		ID:        id,
		Title:     title,
		Status:    models.TaskStatusPending,
		Priority:  models.TaskPriorityMedium,
		OwnerID:   ownerID,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestUserCRUD(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	alice := newUser("user-1", "alice")
	require.NoError(t, s.CreateUser(ctx, alice))

	dup := newUser("user-2", "alice")
	assert.ErrorIs(t, s.CreateUser(ctx, dup), storage.ErrDuplicate)

	got, err := s.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.ID)
	assert.Equal(t, "hash", got.PasswordHash)

	got, err = s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.ID)

	_, err = s.GetUserByID(ctx, "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTaskOwnershipAndListing(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)

	require.NoError(t, s.CreateUser(ctx, newUser("user-a", "alice")))
	require.NoError(t, s.CreateUser(ctx, newUser("user-b", "bob")))
	require.NoError(t, s.CreateTask(ctx, newTask("task-1", "user-a", "First", base)))
	require.NoError(t, s.CreateTask(ctx, newTask("task-2", "user-a", "Second", base.Add(time.Second))))
	require.NoError(t, s.CreateTask(ctx, newTask("task-3", "user-b", "Bob's", base.Add(2*time.Second))))

	_, err := s.GetTask(ctx, "task-1", "user-b")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	tasks, err := s.ListTasks(ctx, models.TaskFilter{OwnerID: "user-a", Sort: models.DefaultTaskSort})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "task-2", tasks[0].ID)

	all, err := s.ListTasksWithOwners(ctx, models.TaskFilter{Sort: models.DefaultTaskSort})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, models.OwnerSummary{ID: "user-b", Username: "bob", Email: "bob@example.com"}, all[0].Owner)

	task := newTask("task-1", "user-a", "Renamed", base)
	task.Status = models.TaskStatusCompleted
	require.NoError(t, s.UpdateTask(ctx, task))
	task.OwnerID = "user-b"
	assert.ErrorIs(t, s.UpdateTask(ctx, task), storage.ErrNotFound)

	got, err := s.GetTask(ctx, "task-1", "user-a")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.True(t, base.Equal(got.CreatedAt))

	counts, err := s.CountTasksByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[models.TaskStatusPending])
	assert.Equal(t, 1, counts[models.TaskStatusCompleted])

	assert.ErrorIs(t, s.DeleteTask(ctx, "task-1", "user-b"), storage.ErrNotFound)
	require.NoError(t, s.DeleteTask(ctx, "task-1", "user-a"))
	_, err = s.GetTask(ctx, "task-1", "user-a")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
