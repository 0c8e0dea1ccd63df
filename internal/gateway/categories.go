package gateway

import (
	"context"

	"taskflow/internal/models"
)

// CategoryFields lists the category fields requested from the record service.
var CategoryFields = []string{"Id", "Name", "color"}

var categoryMessages = messages{
	list:     "Failed to fetch categories",
	notFound: "Category not found",
	get:      "Failed to fetch category",
	create:   "Failed to create category",
	update:   "Failed to update category",
	delete:   "Failed to delete category",
}

// Categories is the gateway for category records.
type Categories struct {
	svc RecordService[models.Category, models.CategoryRecord]
}

// NewCategories returns a category gateway over svc.
func NewCategories(svc RecordService[models.Category, models.CategoryRecord]) *Categories {
	return &Categories{svc: svc}
}

// List fetches every category.
func (g *Categories) List(ctx context.Context) Result[[]models.Category] {
	return list(ctx, g.svc, models.ListQuery{Fields: CategoryFields}, categoryMessages)
}

// GetByID fetches one category.
func (g *Categories) GetByID(ctx context.Context, id string) Result[models.Category] {
	return get(ctx, g.svc, id, CategoryFields, categoryMessages)
}

// Create submits a new category.
func (g *Categories) Create(ctx context.Context, f models.CategoryFields) Result[models.Category] {
	return mutate(ctx, g.svc.Create, models.CategoryRecord{CategoryFields: f}, "create", categoryMessages.create)
}

// Update submits the writable fields of category id.
func (g *Categories) Update(ctx context.Context, id string, f models.CategoryFields) Result[models.Category] {
	return mutate(ctx, g.svc.Update, models.CategoryRecord{ID: id, CategoryFields: f}, "update", categoryMessages.update)
}

// Delete removes category id.
func (g *Categories) Delete(ctx context.Context, id string) Result[struct{}] {
	return remove(ctx, g.svc, id, categoryMessages.delete)
}
