package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"taskflow/internal/models"
)

// Source is the authoritative record store behind the cache.
type Source interface {
	ListTasks(ctx context.Context, owner string, q models.TaskQuery) ([]models.Task, error)
	GetTask(ctx context.Context, owner, id string) (models.Task, error)
	CreateTask(ctx context.Context, owner string, f models.TaskFields) (models.Task, error)
	UpdateTask(ctx context.Context, owner, id string, f models.TaskFields) (models.Task, error)
	DeleteTask(ctx context.Context, owner, id string) error

	ListCategories(ctx context.Context, owner string) ([]models.Category, error)
	GetCategory(ctx context.Context, owner, id string) (models.Category, error)
	CreateCategory(ctx context.Context, owner string, f models.CategoryFields) (models.Category, error)
	UpdateCategory(ctx context.Context, owner, id string, f models.CategoryFields) (models.Category, error)
	DeleteCategory(ctx context.Context, owner, id string) error
}

// Records is a read-through cache over a Source. List reads are served from
// Redis when present; every successful write invalidates the owner's lists.
// A nil Redis client turns it into a pass-through.
type Records struct {
	src Source
	rdb *redis.Client
	ttl time.Duration
}

// NewRecords wraps src with a Redis-backed list cache.
func NewRecords(src Source, rdb *redis.Client, ttl time.Duration) *Records {
	return &Records{src: src, rdb: rdb, ttl: ttlOrDefault(ttl)}
}

func (r *Records) ListTasks(ctx context.Context, owner string, q models.TaskQuery) ([]models.Task, error) {
	var (
		gen     int64
		canFill bool
	)
	if r.rdb != nil {
		var tasks []models.Task
		b, err := r.rdb.HGet(ctx, TasksKey(owner), taskQueryField(q)).Bytes()
		if getJSON(ctx, b, err, &tasks) {
			return tasks, nil
		}
		// Read before the source so a write landing in between voids the fill.
		gen, canFill = r.generation(ctx, TasksKey(owner))
	}
	tasks, err := r.src.ListTasks(ctx, owner, q)
	if err != nil {
		return nil, err
	}
	if canFill {
		r.setTaskList(ctx, owner, q, gen, tasks)
	}
	return tasks, nil
}

func (r *Records) GetTask(ctx context.Context, owner, id string) (models.Task, error) {
	return r.src.GetTask(ctx, owner, id)
}

func (r *Records) CreateTask(ctx context.Context, owner string, f models.TaskFields) (models.Task, error) {
	t, err := r.src.CreateTask(ctx, owner, f)
	if err == nil {
		r.Invalidate(ctx, owner, models.TableTask)
	}
	return t, err
}

func (r *Records) UpdateTask(ctx context.Context, owner, id string, f models.TaskFields) (models.Task, error) {
	t, err := r.src.UpdateTask(ctx, owner, id, f)
	if err == nil {
		r.Invalidate(ctx, owner, models.TableTask)
	}
	return t, err
}

func (r *Records) DeleteTask(ctx context.Context, owner, id string) error {
	err := r.src.DeleteTask(ctx, owner, id)
	if err == nil {
		r.Invalidate(ctx, owner, models.TableTask)
	}
	return err
}

func (r *Records) ListCategories(ctx context.Context, owner string) ([]models.Category, error) {
	var (
		gen     int64
		canFill bool
	)
	if r.rdb != nil {
		var categories []models.Category
		b, err := r.rdb.Get(ctx, CategoriesKey(owner)).Bytes()
		if getJSON(ctx, b, err, &categories) {
			return categories, nil
		}
		gen, canFill = r.generation(ctx, CategoriesKey(owner))
	}
	categories, err := r.src.ListCategories(ctx, owner)
	if err != nil {
		return nil, err
	}
	if canFill {
		r.setCategories(ctx, owner, gen, categories)
	}
	return categories, nil
}

func (r *Records) GetCategory(ctx context.Context, owner, id string) (models.Category, error) {
	return r.src.GetCategory(ctx, owner, id)
}

func (r *Records) CreateCategory(ctx context.Context, owner string, f models.CategoryFields) (models.Category, error) {
	c, err := r.src.CreateCategory(ctx, owner, f)
	if err == nil {
		r.Invalidate(ctx, owner, models.TableCategory)
	}
	return c, err
}

func (r *Records) UpdateCategory(ctx context.Context, owner, id string, f models.CategoryFields) (models.Category, error) {
	c, err := r.src.UpdateCategory(ctx, owner, id, f)
	if err == nil {
		r.Invalidate(ctx, owner, models.TableCategory)
	}
	return c, err
}

func (r *Records) DeleteCategory(ctx context.Context, owner, id string) error {
	err := r.src.DeleteCategory(ctx, owner, id)
	if err == nil {
		r.Invalidate(ctx, owner, models.TableCategory)
	}
	return err
}
