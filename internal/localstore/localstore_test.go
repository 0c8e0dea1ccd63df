package localstore

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"taskflow/internal/gateway"
	"taskflow/internal/models"
)

func openFile(t *testing.T, dir string) *Service {
	t.Helper()
	slots, err := NewFileSlots(dir)
	if err != nil {
		t.Fatalf("file slots: %v", err)
	}
	svc, err := Open(context.Background(), slots)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return svc
}

func TestOpenSeedsDefaultCategories(t *testing.T) {
	svc := openFile(t, t.TempDir())
	res := gateway.NewCategories(svc.Categories()).List(context.Background())
	if !res.Success || !reflect.DeepEqual(res.Data, models.DefaultCategories()) {
		t.Fatalf("unexpected categories: %+v", res)
	}
}

func TestTasksPersistAcrossOpen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	svc := openFile(t, dir)
	tick := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}
	tasks := gateway.NewTasks(svc.Tasks())

	first := tasks.Create(ctx, models.TaskFields{Title: "Buy milk", Category: "3", Priority: models.PriorityLow})
	second := tasks.Create(ctx, models.TaskFields{Title: "Write report", Category: "1"})
	if !first.Success || !second.Success {
		t.Fatalf("create failed: %+v %+v", first, second)
	}
	if first.Data.ID == "" || first.Data.CreatedAt.IsZero() || first.Data.Status != models.StatusPending {
		t.Fatalf("server-managed fields not assigned: %+v", first.Data)
	}

	reopened := gateway.NewTasks(openFile(t, dir).Tasks())
	all := reopened.List(ctx, models.FilterAll)
	if !all.Success || len(all.Data) != 2 || all.Data[0].ID != second.Data.ID {
		t.Fatalf("expected newest first after reopen: %+v", all)
	}
	shopping := reopened.List(ctx, "3")
	if len(shopping.Data) != 1 || shopping.Data[0].Title != "Buy milk" {
		t.Fatalf("unexpected filtered list: %+v", shopping)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := openFile(t, t.TempDir())
	tasks := gateway.NewTasks(svc.Tasks())
	created := tasks.Create(ctx, models.TaskFields{Title: "a", Category: "1"}).Data

	toggled := created.Toggled()
	res := tasks.Update(ctx, created.ID, toggled.Fields())
	if !res.Success || res.Data.Status != models.StatusCompleted || !res.Data.IsCompleted {
		t.Fatalf("update: %+v", res)
	}
	if res.Data.UpdatedAt.Before(res.Data.CreatedAt) {
		t.Fatalf("updated before created: %+v", res.Data)
	}

	if res := tasks.Update(ctx, "missing", toggled.Fields()); res.Success || res.Error != "Record not found" {
		t.Fatalf("update missing: %+v", res)
	}
	if res := tasks.Delete(ctx, created.ID); !res.Success {
		t.Fatalf("delete: %+v", res)
	}
	if res := tasks.GetByID(ctx, created.ID); res.Success || res.Error != "Task not found" {
		t.Fatalf("get after delete: %+v", res)
	}
}

func TestCreateRejectsInvalidFields(t *testing.T) {
	tasks := gateway.NewTasks(openFile(t, t.TempDir()).Tasks())
	res := tasks.Create(context.Background(), models.TaskFields{Title: "   "})
	if res.Success || res.Error == "" {
		t.Fatalf("expected validation failure: %+v", res)
	}
}

func TestCategoryDeleteRefusedWhileReferenced(t *testing.T) {
	ctx := context.Background()
	svc := openFile(t, t.TempDir())
	categories := gateway.NewCategories(svc.Categories())
	tasks := gateway.NewTasks(svc.Tasks())

	added := categories.Create(ctx, models.CategoryFields{Name: "Study"})
	if !added.Success || added.Data.Color != models.DefaultColor {
		t.Fatalf("create category: %+v", added)
	}
	task := tasks.Create(ctx, models.TaskFields{Title: "Read", Category: added.Data.ID}).Data

	if res := categories.Delete(ctx, added.Data.ID); res.Success || res.Error != "Category is still used by tasks" {
		t.Fatalf("expected refusal: %+v", res)
	}
	tasks.Delete(ctx, task.ID)
	if res := categories.Delete(ctx, added.Data.ID); !res.Success {
		t.Fatalf("delete: %+v", res)
	}
	if res := categories.GetByID(ctx, added.Data.ID); res.Success {
		t.Fatalf("category still present: %+v", res)
	}
}

func TestRedisSlots(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	svc, err := Open(ctx, NewRedisSlots(client, "user-1:"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if res := gateway.NewTasks(svc.Tasks()).Create(ctx, models.TaskFields{Title: "a", Category: "1"}); !res.Success {
		t.Fatalf("create: %+v", res)
	}

	raw, err := mr.Get("user-1:" + SlotTasks)
	if err != nil {
		t.Fatalf("slot missing: %v", err)
	}
	var stored []models.Task
	if err := json.Unmarshal([]byte(raw), &stored); err != nil || len(stored) != 1 {
		t.Fatalf("unexpected slot content %q: %v", raw, err)
	}
	if !mr.Exists("user-1:" + SlotCategories) {
		t.Fatal("default categories not written")
	}
}

func TestCorruptSlotFailsOpen(t *testing.T) {
	dir := t.TempDir()
	slots, err := NewFileSlots(dir)
	if err != nil {
		t.Fatalf("file slots: %v", err)
	}
	if err := slots.Save(context.Background(), SlotTasks, []byte("{not json")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := Open(context.Background(), slots); err == nil {
		t.Fatal("expected decode error")
	}
}
