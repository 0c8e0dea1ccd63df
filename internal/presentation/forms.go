package presentation

import (
	"strings"

	"taskflow/internal/models"
)

// Form-level notification texts.
const (
	MsgRequiredFields       = "Please fill in all required fields"
	MsgCategoryNameRequired = "Category name is required"
)

// TaskDraft is the create/edit form for a task.
type TaskDraft struct {
	Title       string
	Description string
	DueDate     string
	Category    string
	Priority    models.Priority
	Status      models.Status
}

// NewTaskDraft returns an empty form with the default priority and status.
func NewTaskDraft() TaskDraft {
	return TaskDraft{Priority: models.PriorityMedium, Status: models.StatusPending}
}

// DraftFrom fills a form from an existing task.
func DraftFrom(t models.Task) TaskDraft {
	return TaskDraft{
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Category:    t.Category,
		Priority:    t.Priority,
		Status:      t.Status,
	}
}

// Fields converts the form into the writable record subset.
func (d TaskDraft) Fields() models.TaskFields {
	return models.TaskFields{
		Title:       d.Title,
		Description: strings.TrimSpace(d.Description),
		DueDate:     strings.TrimSpace(d.DueDate),
		Priority:    d.Priority,
		Status:      d.Status,
		Category:    d.Category,
	}.Normalize()
}

// Validate returns per-field messages keyed by the field's wire name, or nil.
func (d TaskDraft) Validate() models.FieldErrors {
	return models.Validate(d.Fields())
}

// CategoryDraft is the add-category form.
type CategoryDraft struct {
	Name  string
	Color string
}

// NewCategoryDraft returns an empty form with the default color.
func NewCategoryDraft() CategoryDraft {
	return CategoryDraft{Color: models.DefaultColor}
}

func (d CategoryDraft) Fields() models.CategoryFields {
	return models.CategoryFields{Name: d.Name, Color: strings.TrimSpace(d.Color)}.Normalize()
}

func (d CategoryDraft) Validate() models.FieldErrors {
	return models.Validate(d.Fields())
}
