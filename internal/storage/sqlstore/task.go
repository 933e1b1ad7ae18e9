package sqlstore

import (
	"context"
	"strings"

	"github.com/isdelr/task-manager-be/internal/models"
)

const taskColumns = `t.id, t.title, t.description, t.status, t.priority, t.due_date, t.owner_id, t.created_at, t.updated_at`

var sortColumns = map[models.TaskSortField]string{
	models.SortByCreatedAt: "t.created_at",
	models.SortByUpdatedAt: "t.updated_at",
	models.SortByDueDate:   "t.due_date",
	models.SortByTitle:     "t.title",
	models.SortByStatus:    "t.status",
	models.SortByPriority:  "t.priority",
}

// taskOwnerRow is a task joined with its owner's public columns.
type taskOwnerRow struct {
	models.Task
	OwnerUsername string `db:"owner_username"`
	OwnerEmail    string `db:"owner_email"`
}

func (s *Store) CreateTask(ctx context.Context, task *models.Task) error {
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO tasks (id, title, description, status, priority, due_date, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		task.ID, task.Title, task.Description, string(task.Status), string(task.Priority),
		task.DueDate, task.OwnerID, task.CreatedAt, task.UpdatedAt)
	return wrapError(err)
}

func (s *Store) GetTask(ctx context.Context, id, ownerID string) (*models.Task, error) {
	var task models.Task
	err := s.db.GetContext(ctx, &task, s.q(`SELECT `+taskColumns+` FROM tasks t WHERE t.id = ? AND t.owner_id = ?`), id, ownerID)
	if err != nil {
		return nil, wrapError(err)
	}
	utc(&task)
	return &task, nil
}

func (s *Store) ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	where, args := whereClause(filter)
	query := `SELECT ` + taskColumns + ` FROM tasks t` + where + orderBy(filter.Sort)

	tasks := []models.Task{}
	if err := s.db.SelectContext(ctx, &tasks, s.q(query), args...); err != nil {
		return nil, wrapError(err)
	}
	for i := range tasks {
		utc(&tasks[i])
	}
	return tasks, nil
}

func (s *Store) ListTasksWithOwners(ctx context.Context, filter models.TaskFilter) ([]models.TaskWithOwner, error) {
	where, args := whereClause(filter)
	query := `SELECT ` + taskColumns + `, u.username AS owner_username, u.email AS owner_email
		FROM tasks t JOIN users u ON u.id = t.owner_id` + where + orderBy(filter.Sort)

	var rows []taskOwnerRow
	if err := s.db.SelectContext(ctx, &rows, s.q(query), args...); err != nil {
		return nil, wrapError(err)
	}

	tasks := make([]models.TaskWithOwner, 0, len(rows))
	for _, row := range rows {
		utc(&row.Task)
		tasks = append(tasks, models.TaskWithOwner{
			Task: row.Task,
			Owner: models.OwnerSummary{
				ID:       row.OwnerID,
				Username: row.OwnerUsername,
				Email:    row.OwnerEmail,
			},
		})
	}
	return tasks, nil
}

func (s *Store) UpdateTask(ctx context.Context, task *models.Task) error {
	return affectedOne(s.db.ExecContext(ctx, s.q(`
		UPDATE tasks
		SET title = ?, description = ?, status = ?, priority = ?, due_date = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`),
		task.Title, task.Description, string(task.Status), string(task.Priority),
		task.DueDate, task.UpdatedAt, task.ID, task.OwnerID))
}

func (s *Store) DeleteTask(ctx context.Context, id, ownerID string) error {
	return affectedOne(s.db.ExecContext(ctx, s.q(`DELETE FROM tasks WHERE id = ? AND owner_id = ?`), id, ownerID))
}

func (s *Store) CountTasksByStatus(ctx context.Context) (map[models.TaskStatus]int, error) {
	var rows []struct {
		Status models.TaskStatus `db:"status"`
		Count  int               `db:"n"`
	}
	if err := s.db.SelectContext(ctx, &rows, `SELECT status, COUNT(*) AS n FROM tasks GROUP BY status`); err != nil {
		return nil, wrapError(err)
	}

	counts := make(map[models.TaskStatus]int, len(models.TaskStatuses))
	for _, st := range models.TaskStatuses {
		counts[st] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func whereClause(filter models.TaskFilter) (string, []any) {
	var conds []string
	var args []any
	if filter.OwnerID != "" {
		conds = append(conds, "t.owner_id = ?")
		args = append(args, filter.OwnerID)
	}
	if filter.Status != "" {
		conds = append(conds, "t.status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Priority != "" {
		conds = append(conds, "t.priority = ?")
		args = append(args, string(filter.Priority))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// orderBy always appends id as a tie breaker so listings are stable.
func orderBy(sort models.TaskSort) string {
	col, ok := sortColumns[sort.Field]
	if !ok {
		sort = models.DefaultTaskSort
		col = sortColumns[sort.Field]
	}
	dir := " ASC"
	if sort.Desc {
		dir = " DESC"
	}
	return " ORDER BY " + col + dir + ", t.id" + dir
}

// utc normalizes timestamps read back from the driver.
func utc(t *models.Task) {
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	if t.DueDate != nil {
		d := t.DueDate.UTC()
		t.DueDate = &d
	}
}
