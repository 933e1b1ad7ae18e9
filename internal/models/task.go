package models

import (
	"strings"
	"time"
)

// TaskStatus is the progress state of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// TaskStatuses lists every valid status in display order.
var TaskStatuses = []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted}

// TaskPriority is the urgency of a task.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// TaskPriorities lists every valid priority in ascending order.
var TaskPriorities = []TaskPriority{TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh}

// Task is a unit of work owned by exactly one user.
type Task struct {
	ID          string       `json:"id" db:"id" bson:"_id"`
	Title       string       `json:"title" db:"title" bson:"title"`
	Description string       `json:"description,omitempty" db:"description" bson:"description,omitempty"`
	Status      TaskStatus   `json:"status" db:"status" bson:"status"`
	Priority    TaskPriority `json:"priority" db:"priority" bson:"priority"`
	DueDate     *time.Time   `json:"dueDate,omitempty" db:"due_date" bson:"due_date,omitempty"`
	OwnerID     string       `json:"owner" db:"owner_id" bson:"owner_id"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at" bson:"created_at"`
	UpdatedAt   time.Time    `json:"updatedAt" db:"updated_at" bson:"updated_at"`
}

// TaskWithOwner is a task annotated with its owner's public fields.
// The embedded owner id is shadowed in JSON by the owner object.
type TaskWithOwner struct {
	Task
	Owner OwnerSummary `json:"owner"`
}

// TaskSortField names a sortable task attribute using its API spelling.
type TaskSortField string

const (
	SortByCreatedAt TaskSortField = "createdAt"
	SortByUpdatedAt TaskSortField = "updatedAt"
	SortByDueDate   TaskSortField = "dueDate"
	SortByTitle     TaskSortField = "title"
	SortByStatus    TaskSortField = "status"
	SortByPriority  TaskSortField = "priority"
)

// TaskSort is a sort key with direction.
type TaskSort struct {
	Field TaskSortField
	Desc  bool
}

// DefaultTaskSort orders newest tasks first.
var DefaultTaskSort = TaskSort{Field: SortByCreatedAt, Desc: true}

// ParseTaskSort parses the "-field" / "field" query syntax. An empty string
// yields DefaultTaskSort.
func ParseTaskSort(s string) (TaskSort, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultTaskSort, true
	}
	sort := TaskSort{}
	if strings.HasPrefix(s, "-") {
		sort.Desc = true
		s = s[1:]
	}
	switch f := TaskSortField(s); f {
	case SortByCreatedAt, SortByUpdatedAt, SortByDueDate, SortByTitle, SortByStatus, SortByPriority:
		sort.Field = f
		return sort, true
	}
	return TaskSort{}, false
}

// String renders the sort back into query syntax.
func (s TaskSort) String() string {
	if s.Desc {
		return "-" + string(s.Field)
	}
	return string(s.Field)
}

// TaskFilter holds optional equality constraints for task listings.
// Zero values mean "no constraint".
type TaskFilter struct {
	OwnerID  string
	Status   TaskStatus
	Priority TaskPriority
	Sort     TaskSort
}
