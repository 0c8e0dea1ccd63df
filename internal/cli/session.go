package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/redis/go-redis/v9"

	"taskflow/internal/config"
	"taskflow/internal/gateway"
	"taskflow/internal/localstore"
	"taskflow/internal/models"
	"taskflow/internal/presentation"
	"taskflow/internal/recordclient"
	"taskflow/internal/tasksync"
	"taskflow/pkg/logger"
)

// redisSlotPrefix namespaces standalone slots in a shared Redis.
const redisSlotPrefix = "taskflow:"

// StreamNotifier prints notifications to w and counts failures.
type StreamNotifier struct {
	w        io.Writer
	ok       lipgloss.Style
	fail     lipgloss.Style
	Failures int
}

// NewStreamNotifier returns a notifier writing to w.
func NewStreamNotifier(w io.Writer) *StreamNotifier {
	r := lipgloss.NewRenderer(w)
	return &StreamNotifier{
		w:    w,
		ok:   r.NewStyle().Foreground(lipgloss.Color(presentation.ColorLow)),
		fail: r.NewStyle().Foreground(lipgloss.Color(presentation.ColorHigh)),
	}
}

func (n *StreamNotifier) Success(ctx context.Context, msg string) {
	logger.Debug(ctx, msg, "notification", "success")
	fmt.Fprintln(n.w, n.ok.Render(msg))
}

func (n *StreamNotifier) Error(ctx context.Context, msg string) {
	n.Failures++
	logger.Debug(ctx, msg, "notification", "error")
	fmt.Fprintln(n.w, n.fail.Render(msg))
}

// Session is one loaded workspace.
type Session struct {
	Page   *presentation.Page
	Notes  *StreamNotifier
	Mode   string
	closer func() error
}

// Close releases the backend connection, if any.
func (s *Session) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// OpenSession builds the page for cfg and runs the initial load. Remote mode
// without a token falls back to the standalone workspace.
func OpenSession(ctx context.Context, cfg *config.Config, notes io.Writer) (*Session, error) {
	var (
		tasks      gateway.RecordService[models.Task, models.TaskRecord]
		categories gateway.RecordService[models.Category, models.CategoryRecord]
		closer     func() error
	)
	mode := cfg.Client.Mode
	if mode == config.ModeRemote && cfg.Client.Token == "" {
		logger.Warn(ctx, "TASKFLOW_TOKEN not set; using the standalone workspace")
		mode = config.ModeStandalone
	}

	switch mode {
	case config.ModeRemote:
		client := recordclient.New(cfg.Client.APIURL, cfg.Client.Token, cfg.Client.RequestTimeout)
		tasks, categories = client.Tasks(), client.Categories()
	case config.ModeStandalone:
		slots, release, err := openSlots(cfg)
		if err != nil {
			return nil, err
		}
		svc, err := localstore.Open(ctx, slots)
		if err != nil {
			if release != nil {
				_ = release()
			}
			return nil, err
		}
		tasks, categories, closer = svc.Tasks(), svc.Categories(), release
	default:
		return nil, fmt.Errorf("unknown TASKFLOW_MODE %q", cfg.Client.Mode)
	}

	n := NewStreamNotifier(notes)
	taskGW := gateway.NewTasks(tasks)
	ctrl := tasksync.New(taskGW, gateway.NewCategories(categories), n)
	page := presentation.NewPage(ctrl, taskGW, n)
	page.Load(ctx)
	logger.Debug(ctx, "Session opened", "mode", mode)
	return &Session{Page: page, Notes: n, Mode: mode, closer: closer}, nil
}

func openSlots(cfg *config.Config) (localstore.Slots, func() error, error) {
	switch cfg.Client.Slots {
	case config.SlotsFile:
		slots, err := localstore.NewFileSlots(cfg.Client.StateDir)
		return slots, nil, err
	case config.SlotsRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		return localstore.NewRedisSlots(client, redisSlotPrefix), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown TASKFLOW_SLOTS %q", cfg.Client.Slots)
	}
}
