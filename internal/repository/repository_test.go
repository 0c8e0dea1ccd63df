package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"taskflow/internal/models"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		db.Close()
	})
	return New(db), mock
}

var taskCols = []string{"id", "title", "description", "due_date", "priority", "status", "is_completed", "category_id", "created_at", "updated_at"}

func TestListTasksFiltersAndOrders(t *testing.T) {
	repo, mock := newMock(t)
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	due := time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM tasks WHERE owner = \$1 AND category_id = \$2 ORDER BY created_at DESC`).
		WithArgs("user-1", "1").
		WillReturnRows(sqlmock.NewRows(taskCols).
			AddRow("t2", "Write report", "", due, "high", "pending", false, "1", created.Add(time.Hour), created.Add(time.Hour)).
			AddRow("t1", "Plan", "q3", nil, "medium", "completed", true, "1", created, created))

	tasks, err := repo.ListTasks(context.Background(), "user-1", models.TaskQuery{CategoryID: "1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != "t2" || tasks[0].DueDate != "2024-05-03" || tasks[1].DueDate != "" {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}
	if !tasks[1].IsCompleted || tasks[1].Status != models.StatusCompleted {
		t.Fatalf("unexpected completion: %+v", tasks[1])
	}
}

func TestListTasksEmptyIsNotNil(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(`FROM tasks WHERE owner = \$1 ORDER BY created_at ASC`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(taskCols))

	tasks, err := repo.ListTasks(context.Background(), "user-1", models.TaskQuery{Ascending: true})
	if err != nil || tasks == nil || len(tasks) != 0 {
		t.Fatalf("got %v, %v", tasks, err)
	}
}

func TestGetTaskNotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(`FROM tasks WHERE id = \$1 AND owner = \$2`).
		WithArgs("missing", "user-1").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetTask(context.Background(), "user-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateTaskAssignsServerFields(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(`INSERT INTO tasks`).
		WithArgs(sqlmock.AnyArg(), "user-1", "Buy milk", "", nil, models.PriorityMedium, models.StatusPending, false, "3", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	task, err := repo.CreateTask(context.Background(), "user-1", models.TaskFields{Title: " Buy milk ", Category: "3"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.ID == "" || task.CreatedAt.IsZero() || !task.UpdatedAt.Equal(task.CreatedAt) || task.Title != "Buy milk" {
		t.Fatalf("unexpected task: %+v", task)
	}
}

func TestCreateTaskUnknownCategory(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(`INSERT INTO tasks`).WillReturnError(&pq.Error{Code: "23503"})

	_, err := repo.CreateTask(context.Background(), "user-1", models.TaskFields{Title: "a", Category: "gone"})
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestUpdateTask(t *testing.T) {
	repo, mock := newMock(t)
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)
	mock.ExpectQuery(`UPDATE tasks SET .* WHERE id = \$9 AND owner = \$10 RETURNING created_at, updated_at`).
		WithArgs("Buy milk", "", "2024-05-02", models.PriorityLow, models.StatusCompleted, true, "3", sqlmock.AnyArg(), "t1", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(created, updated))

	task, err := repo.UpdateTask(context.Background(), "user-1", "t1", models.TaskFields{
		Title: "Buy milk", Category: "3", DueDate: "2024-05-02", Priority: models.PriorityLow, Status: models.StatusCompleted,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if task.ID != "t1" || !task.CreatedAt.Equal(created) || !task.UpdatedAt.Equal(updated) || !task.IsCompleted {
		t.Fatalf("unexpected task: %+v", task)
	}
}

func TestUpdateTaskMissing(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(`UPDATE tasks`).WillReturnError(sql.ErrNoRows)

	if _, err := repo.UpdateTask(context.Background(), "user-1", "nope", models.TaskFields{Title: "a", Category: "1"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTask(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(`DELETE FROM tasks WHERE id = \$1 AND owner = \$2`).
		WithArgs("t1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM tasks`).
		WithArgs("t1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ctx := context.Background()
	if err := repo.DeleteTask(ctx, "user-1", "t1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.DeleteTask(ctx, "user-1", "t1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func TestListCategories(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(`SELECT id, name, color FROM categories WHERE owner = \$1 ORDER BY created_at ASC`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "color"}).
			AddRow("1", "Work", "#3b82f6").
			AddRow("2", "Personal", "#8b5cf6"))

	categories, err := repo.ListCategories(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(categories) != 2 || categories[1].Name != "Personal" {
		t.Fatalf("unexpected categories: %+v", categories)
	}
}

func TestCreateCategoryDefaultsColor(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(`INSERT INTO categories`).
		WithArgs(sqlmock.AnyArg(), "user-1", "Study", models.DefaultColor, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, err := repo.CreateCategory(context.Background(), "user-1", models.CategoryFields{Name: "Study"})
	if err != nil || c.ID == "" || c.Color != models.DefaultColor {
		t.Fatalf("got %+v, %v", c, err)
	}
}

func TestDeleteCategoryInUse(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(`DELETE FROM categories`).
		WithArgs("1", "user-1").
		WillReturnError(&pq.Error{Code: "23503"})

	if err := repo.DeleteCategory(context.Background(), "user-1", "1"); !errors.Is(err, ErrInUse) {
		t.Fatalf("expected ErrInUse, got %v", err)
	}
}

func TestUpdateCategoryMissing(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(`UPDATE categories SET name = \$1, color = \$2 WHERE id = \$3 AND owner = \$4`).
		WithArgs("Home", "#10b981", "9", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.UpdateCategory(context.Background(), "user-1", "9", models.CategoryFields{Name: "Home", Color: "#10b981"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSeedCategoriesKeepsIDs(t *testing.T) {
	repo, mock := newMock(t)
	for _, c := range models.DefaultCategories() {
		mock.ExpectExec(`INSERT INTO categories .* ON CONFLICT \(owner, id\) DO NOTHING`).
			WithArgs(c.ID, "user-1", c.Name, c.Color, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	if err := repo.SeedCategories(context.Background(), "user-1", models.DefaultCategories()); err != nil {
		t.Fatalf("seed: %v", err)
	}
}
