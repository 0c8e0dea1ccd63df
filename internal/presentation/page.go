// Package presentation exposes the user-facing intents and renders the task list.
package presentation

import (
	"context"

	"taskflow/internal/gateway"
	"taskflow/internal/models"
	"taskflow/internal/tasksync"
)

// TaskCreator creates tasks. The create path bypasses the controller.
type TaskCreator interface {
	Create(ctx context.Context, f models.TaskFields) gateway.Result[models.Task]
}

// Page is the task list screen.
type Page struct {
	ctrl   *tasksync.Controller
	tasks  TaskCreator
	notify tasksync.Notifier
}

// NewPage wires the screen to a controller. notify must be the notifier the
// controller reports to, so form errors and call results land in one place.
func NewPage(ctrl *tasksync.Controller, tasks TaskCreator, notify tasksync.Notifier) *Page {
	if notify == nil {
		notify = tasksync.LogNotifier{}
	}
	return &Page{ctrl: ctrl, tasks: tasks, notify: notify}
}

// Load runs the initial category and task load.
func (p *Page) Load(ctx context.Context) {
	p.ctrl.InitialLoad(ctx)
}

// CreateTask submits the create form. Invalid drafts are rejected locally
// with their field errors; no remote call is made.
func (p *Page) CreateTask(ctx context.Context, d TaskDraft) (models.FieldErrors, bool) {
	if errs := d.Validate(); errs != nil {
		p.notify.Error(ctx, MsgRequiredFields)
		return errs, false
	}
	res := p.tasks.Create(ctx, d.Fields())
	if !res.Success {
		p.notify.Error(ctx, res.Error)
		return nil, false
	}
	p.ctrl.InsertTask(res.Data)
	p.notify.Success(ctx, tasksync.MsgTaskCreated)
	return nil, true
}

// EditTask applies the edit form to task id.
func (p *Page) EditTask(ctx context.Context, id string, d TaskDraft) (models.FieldErrors, bool) {
	if errs := d.Validate(); errs != nil {
		p.notify.Error(ctx, MsgRequiredFields)
		return errs, false
	}
	task, ok := p.ctrl.Snapshot().Tasks.Find(id)
	if !ok {
		p.notify.Error(ctx, "Task not found")
		return nil, false
	}
	f := d.Fields()
	task.Title, task.Description, task.DueDate = f.Title, f.Description, f.DueDate
	task.Priority, task.Status, task.IsCompleted, task.Category = f.Priority, f.Status, f.IsCompleted, f.Category
	return nil, p.ctrl.UpdateTask(ctx, task)
}

// UpdateTask sends task as the new state of its record.
func (p *Page) UpdateTask(ctx context.Context, task models.Task) bool {
	return p.ctrl.UpdateTask(ctx, task)
}

func (p *Page) ToggleTask(ctx context.Context, id string) bool {
	return p.ctrl.ToggleTask(ctx, id)
}

func (p *Page) DeleteTask(ctx context.Context, id string) bool {
	return p.ctrl.DeleteTask(ctx, id)
}

// AddCategory submits the add-category form.
func (p *Page) AddCategory(ctx context.Context, d CategoryDraft) (models.FieldErrors, bool) {
	if errs := d.Validate(); errs != nil {
		if _, missing := errs["Name"]; missing {
			p.notify.Error(ctx, MsgCategoryNameRequired)
		} else {
			p.notify.Error(ctx, errs.Error())
		}
		return errs, false
	}
	return nil, p.ctrl.AddCategory(ctx, d.Fields())
}

func (p *Page) DeleteCategory(ctx context.Context, id string) bool {
	return p.ctrl.DeleteCategory(ctx, id)
}

// SelectCategoryFilter switches the list to a category id or models.FilterAll.
func (p *Page) SelectCategoryFilter(ctx context.Context, value string) {
	p.ctrl.SelectCategoryFilter(ctx, value)
}

// View returns the current state.
func (p *Page) View() tasksync.View {
	return p.ctrl.Snapshot()
}
