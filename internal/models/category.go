package models

import "strings"

// Category groups tasks. Color is only used for presentation.
type Category struct {
	ID    string `json:"Id"`
	Name  string `json:"Name"`
	Color string `json:"color"`
}

// Fields returns the mutable subset of c.
func (c Category) Fields() CategoryFields {
	return CategoryFields{Name: c.Name, Color: c.Color}
}

// CategoryFields is the client-writable part of a category.
type CategoryFields struct {
	Name  string `json:"Name" validate:"required,max=100"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

// Normalize trims the name and fills the default color.
func (f CategoryFields) Normalize() CategoryFields {
	f.Name = strings.TrimSpace(f.Name)
	if f.Color == "" {
		f.Color = DefaultColor
	}
	return f
}

// CategoryRecord is the outbound payload for create (ID empty) and update (ID set).
type CategoryRecord struct {
	ID string `json:"Id,omitempty"`
	CategoryFields
}

// DefaultColor is used when a category is created without a color.
const DefaultColor = "#3b82f6"

// DefaultCategories seed an empty standalone workspace.
func DefaultCategories() []Category {
	return []Category{
		{ID: "1", Name: "Work", Color: "#3b82f6"},
		{ID: "2", Name: "Personal", Color: "#8b5cf6"},
		{ID: "3", Name: "Shopping", Color: "#f97316"},
		{ID: "4", Name: "Health", Color: "#10b981"},
	}
}
