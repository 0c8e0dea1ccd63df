package gateway

import (
	"context"

	"taskflow/internal/models"
)

// TaskFields lists the task fields requested from the record service.
var TaskFields = []string{
	"Id", "title", "description", "dueDate", "priority",
	"status", "isCompleted", "category", "createdAt", "updatedAt",
}

var taskMessages = messages{
	list:     "Failed to fetch tasks",
	notFound: "Task not found",
	get:      "Failed to fetch task",
	create:   "Failed to create task",
	update:   "Failed to update task",
	delete:   "Failed to delete task",
}

// Tasks is the gateway for task records.
type Tasks struct {
	svc RecordService[models.Task, models.TaskRecord]
}

// NewTasks returns a task gateway over svc.
func NewTasks(svc RecordService[models.Task, models.TaskRecord]) *Tasks {
	return &Tasks{svc: svc}
}

// List fetches tasks newest first. A categoryID other than "" or "all" is
// applied by the record service.
func (g *Tasks) List(ctx context.Context, categoryID string) Result[[]models.Task] {
	q := models.ListQuery{
		Fields:  TaskFields,
		OrderBy: []models.OrderBy{{FieldName: models.FieldCreatedAt, SortType: models.SortDesc}},
	}
	if categoryID != "" && categoryID != models.FilterAll {
		q.Where = []models.Condition{{
			FieldName: models.FieldCategory,
			Operator:  models.OpExactMatch,
			Values:    []string{categoryID},
		}}
	}
	return list(ctx, g.svc, q, taskMessages)
}

// GetByID fetches one task.
func (g *Tasks) GetByID(ctx context.Context, id string) Result[models.Task] {
	return get(ctx, g.svc, id, TaskFields, taskMessages)
}

// Create submits the writable fields of a new task.
func (g *Tasks) Create(ctx context.Context, f models.TaskFields) Result[models.Task] {
	return mutate(ctx, g.svc.Create, models.TaskRecord{TaskFields: f}, "create", taskMessages.create)
}

// Update submits the writable fields of task id.
func (g *Tasks) Update(ctx context.Context, id string, f models.TaskFields) Result[models.Task] {
	return mutate(ctx, g.svc.Update, models.TaskRecord{ID: id, TaskFields: f}, "update", taskMessages.update)
}

// Delete removes task id.
func (g *Tasks) Delete(ctx context.Context, id string) Result[struct{}] {
	return remove(ctx, g.svc, id, taskMessages.delete)
}
