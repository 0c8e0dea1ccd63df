package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"taskflow/internal/cache"
	"taskflow/internal/config"
	"taskflow/internal/controller"
	"taskflow/internal/database"
	"taskflow/internal/models"
	"taskflow/internal/queue"
	"taskflow/internal/repository"
	"taskflow/internal/routes"
	"taskflow/internal/worker"
	"taskflow/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Get()
	if err != nil {
		logger.Error(ctx, "Config load failed", "error", err)
		os.Exit(1)
	}
	logger.SetLevel(cfg.LogLevel)
	gin.SetMode(gin.ReleaseMode)

	var (
		source cache.Source
		checks []controller.Check
	)
	if cfg.DatabaseURL == "" {
		logger.Warn(ctx, "DATABASE_URL not set; serving records from memory")
		source = repository.NewMemory(models.DefaultCategories())
	} else {
		db := database.DB(ctx)
		if db == nil {
			logger.Error(ctx, "Database not available; exiting")
			os.Exit(1)
		}
		if err := database.MigrateOrCreateSchema(ctx, db); err != nil {
			logger.Error(ctx, "Schema migration failed", "error", err)
			os.Exit(1)
		}
		source = repository.New(db)
		checks = append(checks, controller.Check{Name: "database", Ping: db.PingContext})
	}

	// Redis is optional; without it reads go straight to the source.
	rdb := cache.Client(ctx)
	if rdb != nil {
		checks = append(checks, controller.Check{Name: "redis", Ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}
	records := cache.NewRecords(source, rdb, cfg.CacheTTLDuration())

	queue.EnsureTopic(ctx, cfg)
	events := queue.NewPublisher(ctx, cfg)
	defer events.Close()

	// Consume record events and invalidate cached lists
	go worker.Run(ctx, cfg, records)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      routes.Router(controller.NewRecords(records, events), cfg.JWTSecret, checks...),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		logger.Info(ctx, "HTTP server listening", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "Server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info(ctx, "Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Server shutdown error", "error", err)
	}
	logger.Info(ctx, "Server stopped")
}

