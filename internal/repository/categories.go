package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taskflow/internal/models"
	"taskflow/pkg/logger"
)

// ListCategories returns the owner's categories in creation order.
func (r *Repository) ListCategories(ctx context.Context, owner string) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, color FROM categories WHERE owner = $1 ORDER BY created_at ASC`, owner)
	if err != nil {
		logger.Error(ctx, "Repository ListCategories failed", "error", err)
		return nil, err
	}
	defer rows.Close()
	categories := make([]models.Category, 0)
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color); err != nil {
			logger.Error(ctx, "Repository scan category failed", "error", err)
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategory returns one category of the owner.
func (r *Repository) GetCategory(ctx context.Context, owner, id string) (models.Category, error) {
	var c models.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, color FROM categories WHERE id = $1 AND owner = $2`, id, owner,
	).Scan(&c.ID, &c.Name, &c.Color)
	if err != nil {
		return models.Category{}, mapErr(err, err)
	}
	return c, nil
}

// CreateCategory inserts a category with a fresh id.
func (r *Repository) CreateCategory(ctx context.Context, owner string, f models.CategoryFields) (models.Category, error) {
	f = f.Normalize()
	c := models.Category{ID: uuid.New().String(), Name: f.Name, Color: f.Color}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, owner, name, color, created_at) VALUES ($1, $2, $3, $4, $5)`,
		c.ID, owner, c.Name, c.Color, time.Now().UTC())
	if err != nil {
		logger.Error(ctx, "Repository CreateCategory failed", "error", err)
		return models.Category{}, err
	}
	return c, nil
}

// UpdateCategory overwrites name and color of category id.
func (r *Repository) UpdateCategory(ctx context.Context, owner, id string, f models.CategoryFields) (models.Category, error) {
	f = f.Normalize()
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = $1, color = $2 WHERE id = $3 AND owner = $4`, f.Name, f.Color, id, owner)
	if err != nil {
		logger.Error(ctx, "Repository UpdateCategory failed", "error", err, "id", id)
		return models.Category{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.Category{}, ErrNotFound
	}
	return models.Category{ID: id, Name: f.Name, Color: f.Color}, nil
}

// DeleteCategory removes category id. Categories still referenced by tasks
// are refused with ErrInUse.
func (r *Repository) DeleteCategory(ctx context.Context, owner, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1 AND owner = $2`, id, owner)
	if err != nil {
		mapped := mapErr(err, ErrInUse)
		if mapped != ErrInUse {
			logger.Error(ctx, "Repository DeleteCategory failed", "error", err, "id", id)
		}
		return mapped
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// SeedCategories inserts categories for owner, keeping their ids. Existing ids are left untouched.
func (r *Repository) SeedCategories(ctx context.Context, owner string, categories []models.Category) error {
	now := time.Now().UTC()
	for i, c := range categories {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO categories (id, owner, name, color, created_at) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (owner, id) DO NOTHING`,
			c.ID, owner, c.Name, c.Color, now.Add(time.Duration(i)*time.Millisecond))
		if err != nil {
			logger.Error(ctx, "Repository SeedCategories failed", "error", err, "id", c.ID)
			return err
		}
	}
	return nil
}
