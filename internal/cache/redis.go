package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"taskflow/internal/config"
	"taskflow/internal/models"
	"taskflow/pkg/logger"
)

var (
	client *redis.Client
	once   sync.Once
)

// Client returns the global Redis client (initialized on first use).
func Client(ctx context.Context) *redis.Client {
	once.Do(func() {
		cfg, err := config.Get()
		if err != nil {
			logger.Error(ctx, "Config load failed", "error", err)
			return
		}
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error(ctx, "Invalid REDIS_URL", "error", err, "url", cfg.RedisURL)
			return
		}
		opts.PoolSize = cfg.RedisPoolSize
		c := redis.NewClient(opts)
		if err := c.Ping(ctx).Err(); err != nil {
			logger.Error(ctx, "Redis ping failed", "error", err)
			_ = c.Close()
			return
		}
		client = c
		logger.Info(ctx, "Redis client initialized", "pool_size", cfg.RedisPoolSize)
	})
	return client
}

// TasksKey is the hash holding an owner's cached task lists, one field per query.
func TasksKey(owner string) string {
	return "tasks:" + owner
}

// CategoriesKey holds an owner's cached category list.
func CategoriesKey(owner string) string {
	return "categories:" + owner
}

func taskQueryField(q models.TaskQuery) string {
	order := models.SortDesc
	if q.Ascending {
		order = models.SortAsc
	}
	category := q.CategoryID
	if category == "" {
		category = models.FilterAll
	}
	return category + ":" + order
}

// getJSON reads and decodes a cached value. Returns false on miss or error.
func getJSON(ctx context.Context, b []byte, err error, v any) bool {
	if err == redis.Nil {
		return false
	}
	if err != nil {
		logger.Debug(ctx, "Redis get failed", "error", err)
		return false
	}
	if err := json.Unmarshal(b, v); err != nil {
		logger.Debug(ctx, "Redis unmarshal failed", "error", err)
		return false
	}
	return true
}

// generationKey counts invalidations of key. A fill is stored only if no
// invalidation happened between reading the generation and writing the entry.
func generationKey(key string) string {
	return "gen:" + key
}

var errStaleFill = errors.New("cache entry invalidated during fill")

// generation returns the current invalidation count of key. ok is false when
// Redis could not be read, in which case the caller skips the fill.
func (r *Records) generation(ctx context.Context, key string) (gen int64, ok bool) {
	gen, err := r.rdb.Get(ctx, generationKey(key)).Int64()
	if err == redis.Nil {
		return 0, true
	}
	if err != nil {
		logger.Debug(ctx, "Redis generation read failed", "error", err, "key", key)
		return 0, false
	}
	return gen, true
}

// fill runs set in a transaction that aborts if key was invalidated since gen was read.
func (r *Records) fill(ctx context.Context, key string, gen int64, set func(redis.Pipeliner)) {
	gk := generationKey(key)
	err := r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, gk).Int64()
		if err != nil && err != redis.Nil {
			return err
		}
		if cur != gen {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			set(pipe)
			return nil
		})
		return err
	}, gk)
	switch {
	case err == nil:
	case errors.Is(err, errStaleFill), errors.Is(err, redis.TxFailedErr):
		logger.Debug(ctx, "Dropped cache fill after invalidation", "key", key)
	default:
		logger.Debug(ctx, "Redis fill failed", "error", err, "key", key)
	}
}

func (r *Records) setTaskList(ctx context.Context, owner string, q models.TaskQuery, gen int64, tasks []models.Task) {
	b, err := json.Marshal(tasks)
	if err != nil {
		logger.Debug(ctx, "Marshal tasks for cache failed", "error", err)
		return
	}
	key := TasksKey(owner)
	r.fill(ctx, key, gen, func(pipe redis.Pipeliner) {
		pipe.HSet(ctx, key, taskQueryField(q), b)
		pipe.Expire(ctx, key, r.ttl)
	})
}

func (r *Records) setCategories(ctx context.Context, owner string, gen int64, categories []models.Category) {
	b, err := json.Marshal(categories)
	if err != nil {
		logger.Debug(ctx, "Marshal categories for cache failed", "error", err)
		return
	}
	key := CategoriesKey(owner)
	r.fill(ctx, key, gen, func(pipe redis.Pipeliner) {
		pipe.Set(ctx, key, b, r.ttl)
	})
}

// Invalidate drops the owner's cached lists for table so the next read goes to
// the source, and bumps the generation so fills already in flight are discarded.
func (r *Records) Invalidate(ctx context.Context, owner, table string) {
	if r.rdb == nil {
		return
	}
	var key string
	switch table {
	case models.TableTask:
		key = TasksKey(owner)
	case models.TableCategory:
		key = CategoriesKey(owner)
	default:
		return
	}
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(key))
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		logger.Debug(ctx, "Redis invalidate failed", "error", err, "key", key)
	}
}

// ttlOrDefault keeps a zero TTL from making entries permanent.
func ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 5 * time.Minute
	}
	return ttl
}
