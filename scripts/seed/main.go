// Seed adds the default categories and sample tasks for one owner. Run from project root: go run ./scripts/seed -owner alice
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"taskflow/internal/config"
	"taskflow/internal/database"
	"taskflow/internal/models"
	"taskflow/internal/queue"
	"taskflow/internal/repository"
)

func main() {
	owner := flag.String("owner", "seed-user", "record owner (JWT subject)")
	total := flag.Int("tasks", 100, "number of sample tasks")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.Get()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Config failed:", err)
		os.Exit(1)
	}
	db := database.DB(ctx)
	if db == nil {
		fmt.Fprintln(os.Stderr, "DATABASE_URL not set or DB connection failed")
		os.Exit(1)
	}
	if err := database.MigrateOrCreateSchema(ctx, db); err != nil {
		fmt.Fprintln(os.Stderr, "Schema failed:", err)
		os.Exit(1)
	}

	repo := repository.New(db)
	categories := models.DefaultCategories()
	if err := repo.SeedCategories(ctx, *owner, categories); err != nil {
		fmt.Fprintln(os.Stderr, "Seeding categories failed:", err)
		os.Exit(1)
	}

	// Cached lists for this owner are dropped by the invalidation worker.
	events := queue.NewPublisher(ctx, cfg)
	defer events.Close()

	priorities := []models.Priority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh}
	start := time.Now()
	for n := 1; n <= *total; n++ {
		f := models.TaskFields{
			Title:       fmt.Sprintf("Task %d", n),
			Description: fmt.Sprintf("Description for task %d", n),
			Priority:    priorities[n%len(priorities)],
			Category:    categories[n%len(categories)].ID,
		}
		if n%5 == 0 {
			f.Status = models.StatusCompleted
		}
		if n%3 == 0 {
			f.DueDate = start.AddDate(0, 0, n%30).Format(models.DateLayout)
		}
		t, err := repo.CreateTask(ctx, *owner, f)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Insert failed:", err)
			os.Exit(1)
		}
		_ = events.Publish(ctx, models.RecordEvent{
			Action: models.ActionCreate, Table: models.TableTask, ID: t.ID, Owner: *owner, OccurredAt: time.Now().UTC(),
		})
		fmt.Printf("\rInserted %d / %d", n, *total)
	}

	fmt.Printf("\nDone: %d categories, %d tasks for %s in %v\n", len(categories), *total, *owner, time.Since(start))
}
