package tasksync

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	"taskflow/internal/gateway"
	"taskflow/internal/models"
	"taskflow/internal/store"
)

type stubTasks struct {
	listFn   func(ctx context.Context, categoryID string) gateway.Result[[]models.Task]
	updateFn func(ctx context.Context, id string, f models.TaskFields) gateway.Result[models.Task]
	deleteFn func(ctx context.Context, id string) gateway.Result[struct{}]
}

func (s *stubTasks) List(ctx context.Context, categoryID string) gateway.Result[[]models.Task] {
	if s.listFn == nil {
		return gateway.Ok([]models.Task{})
	}
	return s.listFn(ctx, categoryID)
}

func (s *stubTasks) Update(ctx context.Context, id string, f models.TaskFields) gateway.Result[models.Task] {
	return s.updateFn(ctx, id, f)
}

func (s *stubTasks) Delete(ctx context.Context, id string) gateway.Result[struct{}] {
	return s.deleteFn(ctx, id)
}

type stubCategories struct {
	listFn   func(ctx context.Context) gateway.Result[[]models.Category]
	createFn func(ctx context.Context, f models.CategoryFields) gateway.Result[models.Category]
	deleteFn func(ctx context.Context, id string) gateway.Result[struct{}]
}

func (s *stubCategories) List(ctx context.Context) gateway.Result[[]models.Category] {
	if s.listFn == nil {
		return gateway.Ok([]models.Category{})
	}
	return s.listFn(ctx)
}

func (s *stubCategories) Create(ctx context.Context, f models.CategoryFields) gateway.Result[models.Category] {
	return s.createFn(ctx, f)
}

func (s *stubCategories) Delete(ctx context.Context, id string) gateway.Result[struct{}] {
	return s.deleteFn(ctx, id)
}

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(_ context.Context, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordingNotifier) Error(_ context.Context, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

func (n *recordingNotifier) errorMessages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.errors...)
}

func seeded(tasks ...models.Task) *stubTasks {
	return &stubTasks{
		listFn: func(context.Context, string) gateway.Result[[]models.Task] {
			return gateway.Ok(append([]models.Task(nil), tasks...))
		},
	}
}

func taskIDs(tasks []models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestInitialLoadScenario(t *testing.T) {
	cats := &stubCategories{
		listFn: func(context.Context) gateway.Result[[]models.Category] {
			return gateway.Ok([]models.Category{{ID: "1", Name: "Work"}, {ID: "2", Name: "Home"}})
		},
	}
	var gotFilter string
	tasks := &stubTasks{
		listFn: func(_ context.Context, categoryID string) gateway.Result[[]models.Task] {
			gotFilter = categoryID
			return gateway.Ok([]models.Task{})
		},
	}
	c := New(tasks, cats, &recordingNotifier{})

	c.InitialLoad(context.Background())

	v := c.Snapshot()
	if v.Tasks.Loading() || v.Categories.Loading() || v.Loading() {
		t.Fatalf("still loading: %+v", v)
	}
	if len(v.Tasks.Tasks) != 0 || len(v.Categories.Categories) != 2 {
		t.Fatalf("unexpected view: %+v", v)
	}
	if gotFilter != models.FilterAll || v.Filter() != models.FilterAll {
		t.Fatalf("unexpected filter: %q / %q", gotFilter, v.Filter())
	}
}

func TestCategoryFailureDoesNotBlockTasks(t *testing.T) {
	n := &recordingNotifier{}
	cats := &stubCategories{
		listFn: func(context.Context) gateway.Result[[]models.Category] {
			return gateway.Fail[[]models.Category]("Failed to fetch categories")
		},
	}
	c := New(seeded(models.Task{ID: "t1", Category: "1"}), cats, n)

	c.InitialLoad(context.Background())

	v := c.Snapshot()
	if v.Categories.Phase != store.Errored || v.Categories.Error != "Failed to fetch categories" {
		t.Fatalf("unexpected category state: %+v", v.Categories)
	}
	if len(v.Tasks.Tasks) != 1 || v.Tasks.Phase != store.Loaded {
		t.Fatalf("tasks should load anyway: %+v", v.Tasks)
	}
	if v.CategoryName("1") != UnknownCategory {
		t.Fatalf("expected unknown category name, got %q", v.CategoryName("1"))
	}
	if got := n.errorMessages(); !reflect.DeepEqual(got, []string{"Failed to fetch categories"}) {
		t.Fatalf("unexpected notifications: %v", got)
	}
}

func TestTaskLoadFailureKeepsStaleData(t *testing.T) {
	n := &recordingNotifier{}
	fail := false
	tasks := &stubTasks{
		listFn: func(context.Context, string) gateway.Result[[]models.Task] {
			if fail {
				return gateway.Fail[[]models.Task]("Network error")
			}
			return gateway.Ok([]models.Task{{ID: "t1"}})
		},
	}
	c := New(tasks, &stubCategories{}, n)
	c.InitialLoad(context.Background())

	fail = true
	c.ReloadTasks(context.Background())

	v := c.Snapshot()
	if v.Tasks.Phase != store.Errored || v.Tasks.Error != "Network error" || len(v.Tasks.Tasks) != 1 {
		t.Fatalf("unexpected state: %+v", v.Tasks)
	}
}

func TestFilterChangeReloadsOnlyAfterSettle(t *testing.T) {
	var calls []string
	tasks := &stubTasks{
		listFn: func(_ context.Context, categoryID string) gateway.Result[[]models.Task] {
			calls = append(calls, categoryID)
			return gateway.Ok([]models.Task{})
		},
	}
	c := New(tasks, &stubCategories{}, &recordingNotifier{})
	ctx := context.Background()

	c.SelectCategoryFilter(ctx, "2")
	if len(calls) != 0 {
		t.Fatalf("filter change before the first category load must not fetch: %v", calls)
	}

	c.InitialLoad(ctx)
	c.SelectCategoryFilter(ctx, "1")
	c.SelectCategoryFilter(ctx, "1")
	c.SelectCategoryFilter(ctx, models.FilterAll)

	if want := []string{"2", "1", models.FilterAll}; !reflect.DeepEqual(calls, want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
}

func TestUpdateFailureScenario(t *testing.T) {
	n := &recordingNotifier{}
	orig := models.Task{ID: "t1", Title: "Buy milk", Status: models.StatusPending}
	tasks := seeded(orig)
	tasks.updateFn = func(context.Context, string, models.TaskFields) gateway.Result[models.Task] {
		return gateway.Fail[models.Task]("Network error")
	}
	c := New(tasks, &stubCategories{}, n)
	c.InitialLoad(context.Background())
	before := c.Snapshot().Tasks.Tasks

	edited := orig
	edited.Title = "Buy oat milk"
	if c.UpdateTask(context.Background(), edited) {
		t.Fatal("update should report failure")
	}

	if after := c.Snapshot().Tasks.Tasks; !reflect.DeepEqual(after, before) {
		t.Fatalf("store changed: %+v", after)
	}
	if got := n.errorMessages(); !reflect.DeepEqual(got, []string{"Network error"}) {
		t.Fatalf("unexpected notifications: %v", got)
	}
	if c.IsUpdating("t1") || c.Busy() {
		t.Fatal("in-flight indicator not cleared")
	}
}

func TestUpdateReplacesWithConfirmedRecord(t *testing.T) {
	n := &recordingNotifier{}
	tasks := seeded(models.Task{ID: "t1", Title: "a"}, models.Task{ID: "t2", Title: "b"})
	tasks.updateFn = func(_ context.Context, id string, f models.TaskFields) gateway.Result[models.Task] {
		return gateway.Ok(models.Task{ID: id, Title: f.Title, UpdatedAt: time.Unix(100, 0)})
	}
	c := New(tasks, &stubCategories{}, n)
	c.InitialLoad(context.Background())

	if !c.UpdateTask(context.Background(), models.Task{ID: "t2", Title: "B"}) {
		t.Fatal("update should succeed")
	}
	v := c.Snapshot()
	if v.Tasks.Tasks[1].Title != "B" || v.Tasks.Tasks[1].UpdatedAt.Unix() != 100 {
		t.Fatalf("not replaced: %+v", v.Tasks.Tasks)
	}
	if !reflect.DeepEqual(n.successes, []string{MsgTaskUpdated}) {
		t.Fatalf("unexpected notifications: %v", n.successes)
	}
}

func TestToggleRoundTrip(t *testing.T) {
	tasks := seeded(models.Task{ID: "t1", Status: models.StatusPending})
	var sent []models.TaskFields
	tasks.updateFn = func(_ context.Context, id string, f models.TaskFields) gateway.Result[models.Task] {
		sent = append(sent, f)
		return gateway.Ok(models.Task{ID: id, Status: f.Status, IsCompleted: f.IsCompleted})
	}
	c := New(tasks, &stubCategories{}, &recordingNotifier{})
	ctx := context.Background()
	c.InitialLoad(ctx)

	c.ToggleTask(ctx, "t1")
	got, _ := c.Snapshot().Tasks.Find("t1")
	if got.Status != models.StatusCompleted || !got.IsCompleted {
		t.Fatalf("after first toggle: %+v", got)
	}

	c.ToggleTask(ctx, "t1")
	got, _ = c.Snapshot().Tasks.Find("t1")
	if got.Status != models.StatusPending || got.IsCompleted {
		t.Fatalf("after second toggle: %+v", got)
	}
	if len(sent) != 2 {
		t.Fatalf("expected two updates, got %d", len(sent))
	}
}

func TestToggleUnknownTaskIsIgnored(t *testing.T) {
	tasks := seeded()
	tasks.updateFn = func(context.Context, string, models.TaskFields) gateway.Result[models.Task] {
		t.Fatal("update must not be called")
		return gateway.Result[models.Task]{}
	}
	c := New(tasks, &stubCategories{}, &recordingNotifier{})
	c.InitialLoad(context.Background())
	if c.ToggleTask(context.Background(), "nope") {
		t.Fatal("toggle of unknown task should report false")
	}
}

func TestConcurrentDeletesTrackedPerID(t *testing.T) {
	n := &recordingNotifier{}
	tasks := seeded(models.Task{ID: "5"}, models.Task{ID: "7"})
	entered7 := make(chan struct{})
	release7 := make(chan struct{})
	tasks.deleteFn = func(_ context.Context, id string) gateway.Result[struct{}] {
		if id == "7" {
			close(entered7)
			<-release7
		}
		return gateway.Ok(struct{}{})
	}
	c := New(tasks, &stubCategories{}, n)
	ctx := context.Background()
	c.InitialLoad(ctx)

	done7 := make(chan bool)
	go func() { done7 <- c.DeleteTask(ctx, "7") }()
	<-entered7

	if !c.DeleteTask(ctx, "5") {
		t.Fatal("delete 5 should succeed")
	}
	v := c.Snapshot()
	if got := taskIDs(v.Tasks.Tasks); !reflect.DeepEqual(got, []string{"7"}) {
		t.Fatalf("after deleting 5: %v", got)
	}
	if c.IsDeleting("5") || !c.IsDeleting("7") {
		t.Fatalf("in-flight: 5=%v 7=%v", c.IsDeleting("5"), c.IsDeleting("7"))
	}

	close(release7)
	if !<-done7 {
		t.Fatal("delete 7 should succeed")
	}
	if c.IsDeleting("7") || len(c.Snapshot().Tasks.Tasks) != 0 {
		t.Fatal("task 7 should be gone and no longer in flight")
	}
}

func TestDeleteFailureLeavesStore(t *testing.T) {
	n := &recordingNotifier{}
	tasks := seeded(models.Task{ID: "5"})
	tasks.deleteFn = func(context.Context, string) gateway.Result[struct{}] {
		return gateway.Fail[struct{}]("Failed to delete task")
	}
	c := New(tasks, &stubCategories{}, n)
	c.InitialLoad(context.Background())

	if c.DeleteTask(context.Background(), "5") {
		t.Fatal("delete should fail")
	}
	if len(c.Snapshot().Tasks.Tasks) != 1 || c.IsDeleting("5") {
		t.Fatal("store changed or indicator left set")
	}
}

func TestStaleTaskLoadDiscarded(t *testing.T) {
	firstEntered := make(chan struct{})
	releaseFirst := make(chan struct{})
	var mu sync.Mutex
	call := 0
	tasks := &stubTasks{
		listFn: func(context.Context, string) gateway.Result[[]models.Task] {
			mu.Lock()
			call++
			n := call
			mu.Unlock()
			if n == 1 {
				close(firstEntered)
				<-releaseFirst
				return gateway.Ok([]models.Task{{ID: "stale"}})
			}
			return gateway.Ok([]models.Task{{ID: "fresh"}})
		},
	}
	c := New(tasks, &stubCategories{}, &recordingNotifier{})
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		c.ReloadTasks(ctx)
		close(done)
	}()
	<-firstEntered
	c.ReloadTasks(ctx)
	close(releaseFirst)
	<-done

	if got := taskIDs(c.Snapshot().Tasks.Tasks); !reflect.DeepEqual(got, []string{"fresh"}) {
		t.Fatalf("stale response overwrote newer data: %v", got)
	}
}

func TestInsertTaskPrepends(t *testing.T) {
	c := New(seeded(models.Task{ID: "old"}), &stubCategories{}, &recordingNotifier{})
	c.InitialLoad(context.Background())
	c.InsertTask(models.Task{ID: "new", Title: "Buy milk"})
	if got := taskIDs(c.Snapshot().Tasks.Tasks); !reflect.DeepEqual(got, []string{"new", "old"}) {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestCategoryAddAndDelete(t *testing.T) {
	n := &recordingNotifier{}
	cats := &stubCategories{
		listFn: func(context.Context) gateway.Result[[]models.Category] {
			return gateway.Ok([]models.Category{{ID: "1", Name: "Work"}})
		},
		createFn: func(_ context.Context, f models.CategoryFields) gateway.Result[models.Category] {
			return gateway.Ok(models.Category{ID: "2", Name: f.Name, Color: f.Color})
		},
		deleteFn: func(_ context.Context, id string) gateway.Result[struct{}] {
			if id == "1" {
				return gateway.Fail[struct{}]("Category is still used by tasks")
			}
			return gateway.Ok(struct{}{})
		},
	}
	c := New(seeded(), cats, n)
	ctx := context.Background()
	c.InitialLoad(ctx)

	if !c.AddCategory(ctx, models.CategoryFields{Name: "Home", Color: "#ffffff"}) {
		t.Fatal("add should succeed")
	}
	if c.DeleteCategory(ctx, "1") {
		t.Fatal("delete of referenced category should fail")
	}
	c.SelectCategoryFilter(ctx, "2")
	if !c.DeleteCategory(ctx, "2") {
		t.Fatal("delete should succeed")
	}

	v := c.Snapshot()
	if len(v.Categories.Categories) != 1 || v.Categories.Categories[0].ID != "1" {
		t.Fatalf("unexpected categories: %+v", v.Categories.Categories)
	}
	if v.Filter() != "2" || len(v.Visible()) != 0 {
		t.Fatalf("filter on a deleted category should be kept and empty: %q", v.Filter())
	}
	if !reflect.DeepEqual(n.errorMessages(), []string{"Category is still used by tasks"}) {
		t.Fatalf("unexpected errors: %v", n.errorMessages())
	}
}
