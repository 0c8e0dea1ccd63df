package database

import (
	"context"
	"database/sql"
	"fmt"

	"taskflow/pkg/logger"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id         TEXT NOT NULL,
		owner      TEXT NOT NULL,
		name       TEXT NOT NULL,
		color      TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (owner, id)
	)`,
	`CREATE INDEX IF NOT EXISTS categories_owner_idx ON categories (owner, created_at)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id           TEXT PRIMARY KEY,
		owner        TEXT NOT NULL,
		title        TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		due_date     DATE,
		priority     TEXT NOT NULL,
		status       TEXT NOT NULL,
		is_completed BOOLEAN NOT NULL DEFAULT FALSE,
		category_id  TEXT NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL,
		FOREIGN KEY (owner, category_id) REFERENCES categories (owner, id),
		CHECK (updated_at >= created_at),
		CHECK (is_completed = (status = 'completed'))
	)`,
	`CREATE INDEX IF NOT EXISTS tasks_owner_created_idx ON tasks (owner, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS tasks_owner_category_idx ON tasks (owner, category_id)`,
}

// MigrateOrCreateSchema creates the record tables if they do not exist.
func MigrateOrCreateSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("database not available")
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	logger.Info(ctx, "Schema ensured", "statements", len(schema))
	return nil
}
