// Package tasksync sequences store transitions around gateway calls.
package tasksync

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"taskflow/internal/gateway"
	"taskflow/internal/models"
	"taskflow/internal/store"
	"taskflow/pkg/logger"
)

// Notification texts.
const (
	MsgTaskCreated     = "Task created successfully!"
	MsgTaskUpdated     = "Task updated successfully!"
	MsgTaskDeleted     = "Task deleted successfully!"
	MsgCategoryAdded   = "Category added!"
	MsgCategoryDeleted = "Category deleted!"
)

// TaskGateway is the subset of gateway.Tasks the controller drives.
type TaskGateway interface {
	List(ctx context.Context, categoryID string) gateway.Result[[]models.Task]
	Update(ctx context.Context, id string, f models.TaskFields) gateway.Result[models.Task]
	Delete(ctx context.Context, id string) gateway.Result[struct{}]
}

// CategoryGateway is the subset of gateway.Categories the controller drives.
type CategoryGateway interface {
	List(ctx context.Context) gateway.Result[[]models.Category]
	Create(ctx context.Context, f models.CategoryFields) gateway.Result[models.Category]
	Delete(ctx context.Context, id string) gateway.Result[struct{}]
}

// Controller owns the task and category stores. Gateway calls run without the
// lock held; only the resulting transitions are serialized.
type Controller struct {
	tasksGW      TaskGateway
	categoriesGW CategoryGateway
	notify       Notifier

	mu         sync.Mutex
	tasks      store.TaskState
	categories store.CategoryState
	// in-flight calls per task id
	updating map[string]int
	deleting map[string]int
}

// New returns a Controller with empty, idle stores. A nil notifier logs.
func New(tasks TaskGateway, categories CategoryGateway, notify Notifier) *Controller {
	if notify == nil {
		notify = LogNotifier{}
	}
	return &Controller{
		tasksGW:      tasks,
		categoriesGW: categories,
		notify:       notify,
		categories:   store.NewCategoryState(),
		updating:     make(map[string]int),
		deleting:     make(map[string]int),
	}
}

// InitialLoad loads categories and then tasks. The task load is issued right
// after the category load and does not wait for it to succeed.
func (c *Controller) InitialLoad(ctx context.Context) {
	var g errgroup.Group
	catStarted := make(chan struct{})
	g.Go(func() error {
		c.loadCategories(ctx, catStarted)
		return nil
	})
	<-catStarted
	g.Go(func() error {
		c.loadTasks(ctx)
		return nil
	})
	_ = g.Wait()
}

// ReloadTasks refetches tasks for the current filter.
func (c *Controller) ReloadTasks(ctx context.Context) {
	c.loadTasks(ctx)
}

func (c *Controller) loadCategories(ctx context.Context, started chan<- struct{}) {
	c.mu.Lock()
	c.categories = store.ReduceCategories(c.categories, store.BeginLoad{})
	seq := c.categories.Seq
	c.mu.Unlock()
	close(started)

	res := c.categoriesGW.List(ctx)

	c.mu.Lock()
	if res.Success {
		c.categories = store.ReduceCategories(c.categories, store.CategoriesLoaded{Seq: seq, Categories: res.Data})
	} else {
		c.categories = store.ReduceCategories(c.categories, store.LoadFailed{Seq: seq, Err: res.Error})
	}
	c.mu.Unlock()

	if !res.Success {
		c.notify.Error(ctx, res.Error)
		return
	}
	logger.Debug(ctx, "Categories loaded", "count", len(res.Data))
}

func (c *Controller) loadTasks(ctx context.Context) {
	c.mu.Lock()
	c.tasks = store.ReduceTasks(c.tasks, store.BeginLoad{})
	seq := c.tasks.Seq
	filter := c.categories.Filter
	c.mu.Unlock()

	res := c.tasksGW.List(ctx, filter)

	c.mu.Lock()
	if res.Success {
		c.tasks = store.ReduceTasks(c.tasks, store.TasksLoaded{Seq: seq, Tasks: res.Data})
	} else {
		c.tasks = store.ReduceTasks(c.tasks, store.LoadFailed{Seq: seq, Err: res.Error})
	}
	stale := seq != c.tasks.Seq
	c.mu.Unlock()

	if stale {
		logger.Debug(ctx, "Discarded stale task load", "seq", seq)
		return
	}
	if !res.Success {
		c.notify.Error(ctx, res.Error)
		return
	}
	logger.Debug(ctx, "Tasks loaded", "count", len(res.Data), "filter", filter)
}

// SelectCategoryFilter selects "all" or a category id. Tasks are refetched when
// the value changed and the category store has settled at least once.
func (c *Controller) SelectCategoryFilter(ctx context.Context, value string) {
	c.mu.Lock()
	before := c.categories.Filter
	c.categories = store.ReduceCategories(c.categories, store.SelectFilter{Value: value})
	changed := c.categories.Filter != before
	settled := c.categories.Settled
	c.mu.Unlock()

	if changed && settled {
		c.loadTasks(ctx)
	}
}

// InsertTask puts a confirmed, newly created task at the front of the store.
func (c *Controller) InsertTask(task models.Task) {
	c.mu.Lock()
	c.tasks = store.ReduceTasks(c.tasks, store.InsertTask{Task: task})
	c.mu.Unlock()
}

// UpdateTask sends task's writable fields and replaces the stored copy with the
// confirmed record. On failure the store is left untouched.
func (c *Controller) UpdateTask(ctx context.Context, task models.Task) bool {
	c.mark(c.updating, task.ID)
	defer c.unmark(c.updating, task.ID)

	res := c.tasksGW.Update(ctx, task.ID, task.Fields())
	if !res.Success {
		c.notify.Error(ctx, res.Error)
		return false
	}
	c.mu.Lock()
	c.tasks = store.ReduceTasks(c.tasks, store.ReplaceTask{Task: res.Data})
	c.mu.Unlock()
	c.notify.Success(ctx, MsgTaskUpdated)
	return true
}

// ToggleTask flips the completion of task id through UpdateTask. Unknown ids
// are ignored.
func (c *Controller) ToggleTask(ctx context.Context, id string) bool {
	c.mu.Lock()
	task, ok := c.tasks.Find(id)
	c.mu.Unlock()
	if !ok {
		logger.Debug(ctx, "Toggle of unknown task ignored", "id", id)
		return false
	}
	return c.UpdateTask(ctx, task.Toggled())
}

// DeleteTask removes task id remotely and then from the store.
func (c *Controller) DeleteTask(ctx context.Context, id string) bool {
	c.mark(c.deleting, id)
	defer c.unmark(c.deleting, id)

	res := c.tasksGW.Delete(ctx, id)
	if !res.Success {
		c.notify.Error(ctx, res.Error)
		return false
	}
	c.mu.Lock()
	c.tasks = store.ReduceTasks(c.tasks, store.RemoveTask{ID: id})
	c.mu.Unlock()
	c.notify.Success(ctx, MsgTaskDeleted)
	return true
}

// AddCategory creates a category and appends the confirmed record.
func (c *Controller) AddCategory(ctx context.Context, f models.CategoryFields) bool {
	res := c.categoriesGW.Create(ctx, f)
	if !res.Success {
		c.notify.Error(ctx, res.Error)
		return false
	}
	c.mu.Lock()
	c.categories = store.ReduceCategories(c.categories, store.AppendCategory{Category: res.Data})
	c.mu.Unlock()
	c.notify.Success(ctx, MsgCategoryAdded)
	return true
}

// DeleteCategory removes category id. A filter pointing at it is kept.
func (c *Controller) DeleteCategory(ctx context.Context, id string) bool {
	res := c.categoriesGW.Delete(ctx, id)
	if !res.Success {
		c.notify.Error(ctx, res.Error)
		return false
	}
	c.mu.Lock()
	c.categories = store.ReduceCategories(c.categories, store.RemoveCategory{ID: id})
	c.mu.Unlock()
	c.notify.Success(ctx, MsgCategoryDeleted)
	return true
}

// IsUpdating reports whether an update of task id is in flight.
func (c *Controller) IsUpdating(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updating[id] > 0
}

// IsDeleting reports whether a delete of task id is in flight.
func (c *Controller) IsDeleting(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleting[id] > 0
}

// Busy reports whether any update is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.updating) > 0
}

func (c *Controller) mark(set map[string]int, id string) {
	c.mu.Lock()
	set[id]++
	c.mu.Unlock()
}

func (c *Controller) unmark(set map[string]int, id string) {
	c.mu.Lock()
	if set[id] <= 1 {
		delete(set, id)
	} else {
		set[id]--
	}
	c.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	tasks := c.tasks
	tasks.Tasks = append([]models.Task(nil), c.tasks.Tasks...)
	categories := c.categories
	categories.Categories = append([]models.Category(nil), c.categories.Categories...)
	return View{Tasks: tasks, Categories: categories}
}
