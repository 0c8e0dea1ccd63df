// Package localstore keeps the standalone workspace in two named key-value slots
// and serves it through the same record contract as the remote service.
package localstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Slot names.
const (
	SlotCategories = "taskflow-categories"
	SlotTasks      = "taskflow-tasks"
)

// Slots is a key-value store of serialized collections.
type Slots interface {
	// Load returns the slot content and whether the slot exists.
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, data []byte) error
}

// FileSlots stores each slot as <dir>/<key>.json.
type FileSlots struct {
	dir string
}

// NewFileSlots returns file-backed slots under dir, creating it if needed.
func NewFileSlots(dir string) (*FileSlots, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileSlots{dir: dir}, nil
}

func (f *FileSlots) path(key string) string {
	return filepath.Join(f.dir, strings.ReplaceAll(key, string(filepath.Separator), "_")+".json")
}

func (f *FileSlots) Load(_ context.Context, key string) ([]byte, bool, error) {
	b, err := os.ReadFile(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Save writes through a temporary file so a crash never leaves a torn slot.
func (f *FileSlots) Save(_ context.Context, key string, data []byte) error {
	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.path(key))
}

// RedisSlots stores each slot under <prefix><key> without expiry.
type RedisSlots struct {
	client *redis.Client
	prefix string
}

// NewRedisSlots returns Redis-backed slots.
func NewRedisSlots(client *redis.Client, prefix string) *RedisSlots {
	return &RedisSlots{client: client, prefix: prefix}
}

func (r *RedisSlots) Load(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (r *RedisSlots) Save(ctx context.Context, key string, data []byte) error {
	return r.client.Set(ctx, r.prefix+key, data, 0).Err()
}
