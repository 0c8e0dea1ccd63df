package tasksync

import (
	"taskflow/internal/models"
	"taskflow/internal/store"
)

// UnknownCategory is shown for tasks whose category is not in the store.
const UnknownCategory = "Unknown"

// View is an immutable snapshot of both stores.
type View struct {
	Tasks      store.TaskState
	Categories store.CategoryState
}

// Filter returns the selected category filter.
func (v View) Filter() string { return v.Categories.Filter }

// Visible returns the tasks shown under the selected filter.
func (v View) Visible() []models.Task {
	return store.FilterTasks(v.Tasks.Tasks, v.Categories.Filter)
}

// CategoryName returns the display name of category id.
func (v View) CategoryName(id string) string {
	if c, ok := v.Categories.Find(id); ok {
		return c.Name
	}
	return UnknownCategory
}

// Loading reports whether either store is loading.
func (v View) Loading() bool {
	return v.Tasks.Loading() || v.Categories.Loading()
}
