package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"taskflow/internal/models"
	"taskflow/pkg/logger"
)

const taskColumns = `id, title, description, due_date, priority, status, is_completed, category_id, created_at, updated_at`

// ListTasks returns the owner's tasks, newest first unless q.Ascending.
func (r *Repository) ListTasks(ctx context.Context, owner string, q models.TaskQuery) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE owner = $1`
	args := []any{owner}
	if q.CategoryID != "" {
		query += ` AND category_id = $2`
		args = append(args, q.CategoryID)
	}
	if q.Ascending {
		query += ` ORDER BY created_at ASC`
	} else {
		query += ` ORDER BY created_at DESC`
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error(ctx, "Repository ListTasks failed", "error", err)
		return nil, err
	}
	defer rows.Close()
	tasks := make([]models.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			logger.Error(ctx, "Repository scan task failed", "error", err)
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// GetTask returns one task of the owner.
func (r *Repository) GetTask(ctx context.Context, owner, id string) (models.Task, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND owner = $2`, id, owner)
	t, err := scanTask(row)
	if err != nil {
		return models.Task{}, mapErr(err, err)
	}
	return t, nil
}

// CreateTask inserts a task with a fresh id and timestamps.
func (r *Repository) CreateTask(ctx context.Context, owner string, f models.TaskFields) (models.Task, error) {
	f = f.Normalize()
	now := time.Now().UTC()
	t := models.Task{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}
	setTaskFields(&t, f)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (id, owner, title, description, due_date, priority, status, is_completed, category_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		t.ID, owner, t.Title, t.Description, nullDate(t.DueDate), t.Priority, t.Status, t.IsCompleted, t.Category, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		logger.Error(ctx, "Repository CreateTask failed", "error", err)
		return models.Task{}, mapErr(err, ErrUnknownCategory)
	}
	return t, nil
}

// UpdateTask overwrites the writable fields of task id. updated_at never moves
// behind created_at.
func (r *Repository) UpdateTask(ctx context.Context, owner, id string, f models.TaskFields) (models.Task, error) {
	f = f.Normalize()
	t := models.Task{ID: id}
	setTaskFields(&t, f)
	err := r.db.QueryRowContext(ctx,
		`UPDATE tasks SET title = $1, description = $2, due_date = $3, priority = $4, status = $5, is_completed = $6, category_id = $7, updated_at = GREATEST($8, created_at) WHERE id = $9 AND owner = $10 RETURNING created_at, updated_at`,
		t.Title, t.Description, nullDate(t.DueDate), t.Priority, t.Status, t.IsCompleted, t.Category, time.Now().UTC(), id, owner,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Error(ctx, "Repository UpdateTask failed", "error", err, "id", id)
		}
		return models.Task{}, mapErr(err, ErrUnknownCategory)
	}
	return t, nil
}

// DeleteTask removes task id of the owner.
func (r *Repository) DeleteTask(ctx context.Context, owner, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND owner = $2`, id, owner)
	if err != nil {
		logger.Error(ctx, "Repository DeleteTask failed", "error", err, "id", id)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTask(s scanner) (models.Task, error) {
	var (
		t   models.Task
		due sql.NullTime
	)
	if err := s.Scan(&t.ID, &t.Title, &t.Description, &due, &t.Priority, &t.Status, &t.IsCompleted, &t.Category, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return models.Task{}, err
	}
	if due.Valid {
		t.DueDate = due.Time.Format(models.DateLayout)
	}
	return t, nil
}

func setTaskFields(t *models.Task, f models.TaskFields) {
	t.Title = f.Title
	t.Description = f.Description
	t.DueDate = f.DueDate
	t.Priority = f.Priority
	t.Status = f.Status
	t.IsCompleted = f.IsCompleted
	t.Category = f.Category
}

func nullDate(s string) any {
	if s == "" {
		return nil
	}
	return s
}
