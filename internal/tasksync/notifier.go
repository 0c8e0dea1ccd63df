package tasksync

import (
	"context"

	"taskflow/pkg/logger"
)

// Notifier shows transient, user-visible messages.
type Notifier interface {
	Success(ctx context.Context, msg string)
	Error(ctx context.Context, msg string)
}

// LogNotifier writes notifications to the context logger.
type LogNotifier struct{}

func (LogNotifier) Success(ctx context.Context, msg string) {
	logger.Info(ctx, msg, "notification", "success")
}

func (LogNotifier) Error(ctx context.Context, msg string) {
	logger.Warn(ctx, msg, "notification", "error")
}
