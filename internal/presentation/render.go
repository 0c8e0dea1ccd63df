package presentation

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"taskflow/internal/models"
	"taskflow/internal/tasksync"
)

// Display texts.
const (
	EmptyList    = "No tasks found. Create a new task to get started!"
	LoadingText  = "Loading..."
	AllTasksName = "All"
)

// Heading returns "All Tasks (n)" or "<Category> Tasks (n)" for the view's filter.
func Heading(v tasksync.View) string {
	name := AllTasksName
	if v.Filter() != models.FilterAll {
		name = v.CategoryName(v.Filter())
	}
	return fmt.Sprintf("%s Tasks (%d)", name, len(v.Visible()))
}

// FormatDue renders a YYYY-MM-DD date as "Jan 2, 2006". Unparseable values are returned as is.
func FormatDue(date string) string {
	t, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2, 2006")
}

func priorityLabel(p models.Priority) string {
	s := string(p)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:] + " Priority"
}

// Render writes the filtered task list. Colors are applied only when w is a terminal.
func (p *Page) Render(w io.Writer) error {
	return RenderTasks(w, p.View())
}

// RenderTasks writes the task list of v.
func RenderTasks(w io.Writer, v tasksync.View) error {
	st := newStyles(lipgloss.NewRenderer(w))
	var b strings.Builder

	b.WriteString(st.heading.Render(Heading(v)))
	b.WriteString("\n")
	if v.Tasks.Error != "" {
		b.WriteString(st.priority["high"].Render("Error: " + v.Tasks.Error))
		b.WriteString("\n")
	}
	visible := v.Visible()
	if len(visible) == 0 {
		if v.Loading() {
			b.WriteString(st.muted.Render(LoadingText))
		} else {
			b.WriteString(st.muted.Render(EmptyList))
		}
		b.WriteString("\n")
	}
	for _, t := range visible {
		mark := "[ ]"
		title := t.Title
		if t.Status == models.StatusCompleted {
			mark = "[x]"
			title = st.done.Render(title)
		}
		line := []string{mark + " " + title}
		if c, ok := v.Categories.Find(t.Category); ok {
			line = append(line, st.category(c.Color).Render(c.Name))
		} else {
			line = append(line, st.muted.Render(tasksync.UnknownCategory))
		}
		if label := priorityLabel(t.Priority); label != "" {
			line = append(line, st.priority[string(t.Priority)].Render(label))
		}
		if t.DueDate != "" {
			line = append(line, st.muted.Render("Due "+FormatDue(t.DueDate)))
		}
		line = append(line, st.muted.Render("#"+t.ID))
		b.WriteString(strings.Join(line, "  "))
		b.WriteString("\n")
		if t.Description != "" {
			b.WriteString("    ")
			b.WriteString(st.muted.Render(t.Description))
			b.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderCategories writes the filter options: "All" followed by every category.
// Task counts are shown where the loaded tasks cover the option.
func RenderCategories(w io.Writer, v tasksync.View) error {
	st := newStyles(lipgloss.NewRenderer(w))
	var b strings.Builder

	marker := func(value string) string {
		if v.Filter() == value {
			return "*"
		}
		return " "
	}
	// Once a category is selected the task store holds only that category's
	// tasks, so the other counts are unknown and left out.
	count := func(value string, n int) string {
		if f := v.Filter(); f != "" && f != models.FilterAll && f != value {
			return ""
		}
		return fmt.Sprintf(" (%d)", n)
	}
	fmt.Fprintf(&b, "%s %s%s\n", marker(models.FilterAll), st.heading.Render("All Tasks"), count(models.FilterAll, len(v.Tasks.Tasks)))
	if v.Categories.Error != "" {
		b.WriteString(st.priority["high"].Render("Error: " + v.Categories.Error))
		b.WriteString("\n")
	}
	for _, c := range v.Categories.Categories {
		n := len(tasksByCategory(v.Tasks.Tasks, c.ID))
		fmt.Fprintf(&b, "%s %s%s  %s\n", marker(c.ID), st.category(c.Color).Render(c.Name), count(c.ID, n), st.muted.Render("#"+c.ID))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func tasksByCategory(tasks []models.Task, id string) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if t.Category == id {
			out = append(out, t)
		}
	}
	return out
}
