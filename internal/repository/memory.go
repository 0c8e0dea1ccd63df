package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskflow/internal/models"
)

// Memory is an in-process record store with the same semantics as Repository.
// The server falls back to it when DATABASE_URL is unset.
type Memory struct {
	mu         sync.Mutex
	now        func() time.Time
	seed       []models.Category
	tasks      map[string][]models.Task
	categories map[string][]models.Category
}

// NewMemory returns an empty Memory store. Each owner starts with a copy of seed.
func NewMemory(seed []models.Category) *Memory {
	return &Memory{
		now:        func() time.Time { return time.Now().UTC() },
		seed:       seed,
		tasks:      make(map[string][]models.Task),
		categories: make(map[string][]models.Category),
	}
}

func (m *Memory) ListTasks(_ context.Context, owner string, q models.TaskQuery) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Task, 0)
	for _, t := range m.tasks[owner] {
		if q.CategoryID == "" || t.Category == q.CategoryID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if q.Ascending {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) GetTask(_ context.Context, owner, id string) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.taskIndex(owner, id); i >= 0 {
		return m.tasks[owner][i], nil
	}
	return models.Task{}, ErrNotFound
}

func (m *Memory) CreateTask(_ context.Context, owner string, f models.TaskFields) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f = f.Normalize()
	if m.categoryIndex(owner, f.Category) < 0 {
		return models.Task{}, ErrUnknownCategory
	}
	now := m.now()
	t := models.Task{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}
	setTaskFields(&t, f)
	m.tasks[owner] = append(m.tasks[owner], t)
	return t, nil
}

func (m *Memory) UpdateTask(_ context.Context, owner, id string, f models.TaskFields) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.taskIndex(owner, id)
	if i < 0 {
		return models.Task{}, ErrNotFound
	}
	f = f.Normalize()
	if m.categoryIndex(owner, f.Category) < 0 {
		return models.Task{}, ErrUnknownCategory
	}
	t := m.tasks[owner][i]
	setTaskFields(&t, f)
	if now := m.now(); now.After(t.CreatedAt) {
		t.UpdatedAt = now
	} else {
		t.UpdatedAt = t.CreatedAt
	}
	m.tasks[owner][i] = t
	return t, nil
}

func (m *Memory) DeleteTask(_ context.Context, owner, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.taskIndex(owner, id)
	if i < 0 {
		return ErrNotFound
	}
	tasks := m.tasks[owner]
	m.tasks[owner] = append(tasks[:i:i], tasks[i+1:]...)
	return nil
}

func (m *Memory) ListCategories(_ context.Context, owner string) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	categories := m.ownerCategories(owner)
	return append(make([]models.Category, 0, len(categories)), categories...), nil
}

func (m *Memory) GetCategory(_ context.Context, owner, id string) (models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.categoryIndex(owner, id); i >= 0 {
		return m.categories[owner][i], nil
	}
	return models.Category{}, ErrNotFound
}

func (m *Memory) CreateCategory(_ context.Context, owner string, f models.CategoryFields) (models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f = f.Normalize()
	c := models.Category{ID: uuid.New().String(), Name: f.Name, Color: f.Color}
	m.categories[owner] = append(m.ownerCategories(owner), c)
	return c, nil
}

func (m *Memory) UpdateCategory(_ context.Context, owner, id string, f models.CategoryFields) (models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.categoryIndex(owner, id)
	if i < 0 {
		return models.Category{}, ErrNotFound
	}
	f = f.Normalize()
	c := models.Category{ID: id, Name: f.Name, Color: f.Color}
	m.categories[owner][i] = c
	return c, nil
}

func (m *Memory) DeleteCategory(_ context.Context, owner, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.categoryIndex(owner, id)
	if i < 0 {
		return ErrNotFound
	}
	for _, t := range m.tasks[owner] {
		if t.Category == id {
			return ErrInUse
		}
	}
	categories := m.categories[owner]
	m.categories[owner] = append(categories[:i:i], categories[i+1:]...)
	return nil
}

// ownerCategories returns owner's categories, seeding them on first use.
func (m *Memory) ownerCategories(owner string) []models.Category {
	categories, ok := m.categories[owner]
	if !ok {
		categories = append([]models.Category(nil), m.seed...)
		m.categories[owner] = categories
	}
	return categories
}

func (m *Memory) taskIndex(owner, id string) int {
	for i, t := range m.tasks[owner] {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (m *Memory) categoryIndex(owner, id string) int {
	for i, c := range m.ownerCategories(owner) {
		if c.ID == id {
			return i
		}
	}
	return -1
}
