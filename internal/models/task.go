package models

import (
	"strings"
	"time"
)

// Priority is the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// FilterAll is the category filter value meaning "no category restriction".
const FilterAll = "all"

// DateLayout is the wire format of Task.DueDate.
const DateLayout = "2006-01-02"

// Task represents a task record as exchanged with the record service.
type Task struct {
	ID          string    `json:"Id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     string    `json:"dueDate,omitempty"`
	Priority    Priority  `json:"priority"`
	Status      Status    `json:"status"`
	IsCompleted bool      `json:"isCompleted"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Fields returns the mutable subset of t.
func (t Task) Fields() TaskFields {
	return TaskFields{
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		Status:      t.Status,
		IsCompleted: t.IsCompleted,
		Category:    t.Category,
	}
}

// Toggled returns t with its completion flipped. The flag is computed from the
// status before the flip, so the pair stays consistent.
func (t Task) Toggled() Task {
	next := t
	next.IsCompleted = t.Status != StatusCompleted
	if t.Status == StatusCompleted {
		next.Status = StatusPending
	} else {
		next.Status = StatusCompleted
	}
	return next
}

// TaskFields is the client-writable part of a task. Identifiers and timestamps
// are managed by the record service.
type TaskFields struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	DueDate     string   `json:"dueDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Priority    Priority `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status      Status   `json:"status" validate:"omitempty,oneof=pending completed"`
	IsCompleted bool     `json:"isCompleted"`
	Category    string   `json:"category" validate:"required"`
}

// Normalize trims text, fills defaults and keeps IsCompleted in step with Status.
func (f TaskFields) Normalize() TaskFields {
	f.Title = strings.TrimSpace(f.Title)
	f.Category = strings.TrimSpace(f.Category)
	if f.Priority == "" {
		f.Priority = PriorityMedium
	}
	if f.Status == "" {
		if f.IsCompleted {
			f.Status = StatusCompleted
		} else {
			f.Status = StatusPending
		}
	}
	f.IsCompleted = f.Status == StatusCompleted
	return f
}

// TaskRecord is the outbound payload for create (ID empty) and update (ID set).
type TaskRecord struct {
	ID string `json:"Id,omitempty"`
	TaskFields
}

// TaskQuery narrows a task listing.
type TaskQuery struct {
	CategoryID string
	Ascending  bool
}
