package mongostore

import (
	"context"

	"github.com/isdelr/task-manager-be/internal/models"
	"github.com/isdelr/task-manager-be/internal/storage"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var sortKeys = map[models.TaskSortField]string{
	models.SortByCreatedAt: "created_at",
	models.SortByUpdatedAt: "updated_at",
	models.SortByDueDate:   "due_date",
	models.SortByTitle:     "title",
	models.SortByStatus:    "status",
	models.SortByPriority:  "priority",
}

func ownedBy(id, ownerID string) bson.D {
	return bson.D{{Key: "_id", Value: id}, {Key: "owner_id", Value: ownerID}}
}

func (s *Store) CreateTask(ctx context.Context, task *models.Task) error {
	return insertOne(ctx, s.col(ColTasks), task)
}

func (s *Store) GetTask(ctx context.Context, id, ownerID string) (*models.Task, error) {
	return findOne[models.Task](ctx, s.col(ColTasks), ownedBy(id, ownerID))
}

func (s *Store) ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	return findMany[models.Task](ctx, s.col(ColTasks), taskFilter(filter), findOptions(filter.Sort))
}

// ListTasksWithOwners loads the tasks, then their owners in one $in query.
func (s *Store) ListTasksWithOwners(ctx context.Context, filter models.TaskFilter) ([]models.TaskWithOwner, error) {
	tasks, err := s.ListTasks(ctx, filter)
	if err != nil {
		return nil, err
	}

	ownerIDs := make([]string, 0, len(tasks))
	seen := make(map[string]bool)
	for _, t := range tasks {
		if !seen[t.OwnerID] {
			seen[t.OwnerID] = true
			ownerIDs = append(ownerIDs, t.OwnerID)
		}
	}

	owners := make(map[string]models.OwnerSummary, len(ownerIDs))
	if len(ownerIDs) > 0 {
		summaries, err := findMany[models.OwnerSummary](ctx, s.col(ColUsers),
			bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ownerIDs}}}},
			options.Find().SetProjection(bson.D{{Key: "username", Value: 1}, {Key: "email", Value: 1}}))
		if err != nil {
			return nil, err
		}
		for _, o := range summaries {
			owners[o.ID] = o
		}
	}

	out := make([]models.TaskWithOwner, 0, len(tasks))
	for _, t := range tasks {
		owner, ok := owners[t.OwnerID]
		if !ok {
			owner = models.OwnerSummary{ID: t.OwnerID}
		}
		out = append(out, models.TaskWithOwner{Task: t, Owner: owner})
	}
	return out, nil
}

func (s *Store) UpdateTask(ctx context.Context, task *models.Task) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: task.Title},
		{Key: "description", Value: task.Description},
		{Key: "status", Value: task.Status},
		{Key: "priority", Value: task.Priority},
		{Key: "due_date", Value: task.DueDate},
		{Key: "updated_at", Value: task.UpdatedAt},
	}}}
	res, err := s.col(ColTasks).UpdateOne(ctx, ownedBy(task.ID, task.OwnerID), update)
	if err != nil {
		return wrapError(err)
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, id, ownerID string) error {
	res, err := s.col(ColTasks).DeleteOne(ctx, ownedBy(id, ownerID))
	if err != nil {
		return wrapError(err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) CountTasksByStatus(ctx context.Context) (map[models.TaskStatus]int, error) {
	pipeline := bson.A{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "n", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := s.col(ColTasks).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, wrapError(err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status models.TaskStatus `bson:"_id"`
		Count  int               `bson:"n"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
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

func taskFilter(filter models.TaskFilter) bson.D {
	f := bson.D{}
	if filter.OwnerID != "" {
		f = append(f, bson.E{Key: "owner_id", Value: filter.OwnerID})
	}
	if filter.Status != "" {
		f = append(f, bson.E{Key: "status", Value: filter.Status})
	}
	if filter.Priority != "" {
		f = append(f, bson.E{Key: "priority", Value: filter.Priority})
	}
	return f
}

func findOptions(sort models.TaskSort) *options.FindOptionsBuilder {
	key, ok := sortKeys[sort.Field]
	if !ok {
		sort = models.DefaultTaskSort
		key = sortKeys[sort.Field]
	}
	dir := 1
	if sort.Desc {
		dir = -1
	}
	return options.Find().SetSort(bson.D{{Key: key, Value: dir}, {Key: "_id", Value: dir}})
}
