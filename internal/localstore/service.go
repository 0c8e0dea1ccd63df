package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskflow/internal/models"
	"taskflow/pkg/logger"
)

// Errors reported through the record contract.
var (
	ErrNotFound      = errors.New("Record not found")
	ErrCategoryInUse = errors.New("Category is still used by tasks")
)

// Service is an in-process record service. Collections are read once at Open
// and the affected slot is rewritten after every mutation.
type Service struct {
	slots Slots
	now   func() time.Time

	mu         sync.Mutex
	tasks      []models.Task
	categories []models.Category
}

// Open reads both slots. A missing categories slot is seeded with the defaults.
func Open(ctx context.Context, slots Slots) (*Service, error) {
	s := &Service{slots: slots, now: func() time.Time { return time.Now().UTC() }}

	ok, err := s.read(ctx, SlotCategories, &s.categories)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.categories = models.DefaultCategories()
		if err := s.write(ctx, SlotCategories, s.categories); err != nil {
			return nil, err
		}
	}
	if _, err := s.read(ctx, SlotTasks, &s.tasks); err != nil {
		return nil, err
	}
	logger.Debug(ctx, "Standalone workspace opened", "tasks", len(s.tasks), "categories", len(s.categories))
	return s, nil
}

func (s *Service) read(ctx context.Context, key string, out any) (bool, error) {
	b, ok, err := s.slots.Load(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Service) write(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := s.slots.Save(ctx, key, b); err != nil {
		logger.Error(ctx, "Slot write failed", "slot", key, "error", err)
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Tasks returns the task table.
func (s *Service) Tasks() *TaskTable { return &TaskTable{s: s} }

// Categories returns the category table.
func (s *Service) Categories() *CategoryTable { return &CategoryTable{s: s} }

// TaskTable serves task records.
type TaskTable struct{ s *Service }

func (t *TaskTable) Fetch(_ context.Context, q models.ListQuery) (*models.ListResponse[models.Task], error) {
	tq, err := models.ParseTaskQuery(q)
	if err != nil {
		return nil, err
	}

	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	out := make([]models.Task, 0, len(t.s.tasks))
	for _, task := range t.s.tasks {
		if tq.CategoryID == "" || task.Category == tq.CategoryID {
			out = append(out, task)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if tq.Ascending {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return &models.ListResponse[models.Task]{Data: out}, nil
}

func (t *TaskTable) Get(_ context.Context, id string, _ []string) (*models.GetResponse[models.Task], error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for _, task := range t.s.tasks {
		if task.ID == id {
			task := task
			return &models.GetResponse[models.Task]{Data: &task}, nil
		}
	}
	return &models.GetResponse[models.Task]{}, nil
}

func (t *TaskTable) Create(ctx context.Context, req models.MutationRequest[models.TaskRecord]) (*models.MutationResponse[models.Task], error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	resp := &models.MutationResponse[models.Task]{Success: true}
	next := t.s.tasks
	for _, rec := range req.Records {
		f := rec.TaskFields.Normalize()
		if errs := models.Validate(f); errs != nil {
			return &models.MutationResponse[models.Task]{Message: errs.Error()}, nil
		}
		now := t.s.now()
		task := models.Task{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
		apply(&task, f)
		next = append([]models.Task{task}, next...)
		resp.Results = append(resp.Results, models.MutationResult[models.Task]{Success: true, Data: &task})
	}
	if err := t.s.write(ctx, SlotTasks, next); err != nil {
		return nil, err
	}
	t.s.tasks = next
	return resp, nil
}

func (t *TaskTable) Update(ctx context.Context, req models.MutationRequest[models.TaskRecord]) (*models.MutationResponse[models.Task], error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	resp := &models.MutationResponse[models.Task]{Success: true}
	next := append([]models.Task(nil), t.s.tasks...)
	for _, rec := range req.Records {
		f := rec.TaskFields.Normalize()
		if errs := models.Validate(f); errs != nil {
			return &models.MutationResponse[models.Task]{Message: errs.Error()}, nil
		}
		i := indexTask(next, rec.ID)
		if i < 0 {
			return &models.MutationResponse[models.Task]{Message: ErrNotFound.Error()}, nil
		}
		apply(&next[i], f)
		next[i].UpdatedAt = t.s.now()
		task := next[i]
		resp.Results = append(resp.Results, models.MutationResult[models.Task]{Success: true, Data: &task})
	}
	if err := t.s.write(ctx, SlotTasks, next); err != nil {
		return nil, err
	}
	t.s.tasks = next
	return resp, nil
}

func (t *TaskTable) Delete(ctx context.Context, req models.DeleteRequest) (*models.DeleteResponse, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	next := append([]models.Task(nil), t.s.tasks...)
	for _, id := range req.RecordIDs {
		i := indexTask(next, id)
		if i < 0 {
			return &models.DeleteResponse{Message: ErrNotFound.Error()}, nil
		}
		next = append(next[:i], next[i+1:]...)
	}
	if err := t.s.write(ctx, SlotTasks, next); err != nil {
		return nil, err
	}
	t.s.tasks = next
	return &models.DeleteResponse{Success: true}, nil
}

func apply(t *models.Task, f models.TaskFields) {
	t.Title = f.Title
	t.Description = f.Description
	t.DueDate = f.DueDate
	t.Priority = f.Priority
	t.Status = f.Status
	t.IsCompleted = f.IsCompleted
	t.Category = f.Category
}

func indexTask(tasks []models.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// CategoryTable serves category records.
type CategoryTable struct{ s *Service }

func (c *CategoryTable) Fetch(_ context.Context, _ models.ListQuery) (*models.ListResponse[models.Category], error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	return &models.ListResponse[models.Category]{Data: append([]models.Category{}, c.s.categories...)}, nil
}

func (c *CategoryTable) Get(_ context.Context, id string, _ []string) (*models.GetResponse[models.Category], error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if i := indexCategory(c.s.categories, id); i >= 0 {
		cat := c.s.categories[i]
		return &models.GetResponse[models.Category]{Data: &cat}, nil
	}
	return &models.GetResponse[models.Category]{}, nil
}

func (c *CategoryTable) Create(ctx context.Context, req models.MutationRequest[models.CategoryRecord]) (*models.MutationResponse[models.Category], error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	resp := &models.MutationResponse[models.Category]{Success: true}
	next := append([]models.Category(nil), c.s.categories...)
	for _, rec := range req.Records {
		f := rec.CategoryFields.Normalize()
		if errs := models.Validate(f); errs != nil {
			return &models.MutationResponse[models.Category]{Message: errs.Error()}, nil
		}
		cat := models.Category{ID: uuid.NewString(), Name: f.Name, Color: f.Color}
		next = append(next, cat)
		resp.Results = append(resp.Results, models.MutationResult[models.Category]{Success: true, Data: &cat})
	}
	if err := c.s.write(ctx, SlotCategories, next); err != nil {
		return nil, err
	}
	c.s.categories = next
	return resp, nil
}

func (c *CategoryTable) Update(ctx context.Context, req models.MutationRequest[models.CategoryRecord]) (*models.MutationResponse[models.Category], error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	resp := &models.MutationResponse[models.Category]{Success: true}
	next := append([]models.Category(nil), c.s.categories...)
	for _, rec := range req.Records {
		f := rec.CategoryFields.Normalize()
		if errs := models.Validate(f); errs != nil {
			return &models.MutationResponse[models.Category]{Message: errs.Error()}, nil
		}
		i := indexCategory(next, rec.ID)
		if i < 0 {
			return &models.MutationResponse[models.Category]{Message: ErrNotFound.Error()}, nil
		}
		next[i].Name, next[i].Color = f.Name, f.Color
		cat := next[i]
		resp.Results = append(resp.Results, models.MutationResult[models.Category]{Success: true, Data: &cat})
	}
	if err := c.s.write(ctx, SlotCategories, next); err != nil {
		return nil, err
	}
	c.s.categories = next
	return resp, nil
}

// Delete refuses categories that tasks still reference.
func (c *CategoryTable) Delete(ctx context.Context, req models.DeleteRequest) (*models.DeleteResponse, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	next := append([]models.Category(nil), c.s.categories...)
	for _, id := range req.RecordIDs {
		i := indexCategory(next, id)
		if i < 0 {
			return &models.DeleteResponse{Message: ErrNotFound.Error()}, nil
		}
		for _, t := range c.s.tasks {
			if t.Category == id {
				return &models.DeleteResponse{Message: ErrCategoryInUse.Error()}, nil
			}
		}
		next = append(next[:i], next[i+1:]...)
	}
	if err := c.s.write(ctx, SlotCategories, next); err != nil {
		return nil, err
	}
	c.s.categories = next
	return &models.DeleteResponse{Success: true}, nil
}

func indexCategory(categories []models.Category, id string) int {
	for i, c := range categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}
