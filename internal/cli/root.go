// Package cli is the taskflow command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"taskflow/internal/config"
	"taskflow/internal/models"
	"taskflow/pkg/logger"
)

// errIntentFailed is returned after a failed intent; its message was already printed.
var errIntentFailed = errors.New("operation failed")

// ConfigLoader returns the client configuration.
type ConfigLoader func() (*config.Config, error)

type app struct {
	loadConfig  ConfigLoader
	openSession func(ctx context.Context, cfg *config.Config, notes io.Writer) (*Session, error)
	mode        string
	session     *Session
}

// NewRootCommand returns the taskflow command tree. The session is closed after
// a successful command; Execute also closes it after a failed one.
func NewRootCommand(load ConfigLoader) *cobra.Command {
	root, _ := newRoot(load)
	return root
}

func newRoot(load ConfigLoader) (*cobra.Command, *app) {
	a := &app{loadConfig: load, openSession: OpenSession}
	root := &cobra.Command{
		Use:   "taskflow",
		Short: "TaskFlow - tasks grouped by category",
		Long: `TaskFlow keeps a list of tasks grouped into categories.

Without TASKFLOW_TOKEN it works on a standalone workspace stored in TASKFLOW_STATE_DIR
(or Redis with TASKFLOW_SLOTS=redis). With TASKFLOW_MODE=remote and a token it talks
to the record service at TASKFLOW_API_URL.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.open,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.closeSession()
		},
	}
	root.PersistentFlags().StringVar(&a.mode, "mode", "", "standalone or remote (overrides TASKFLOW_MODE)")

	root.AddCommand(
		a.listCmd(),
		a.addCmd(),
		a.editCmd(),
		a.toggleCmd(),
		a.deleteCmd(),
		a.categoriesCmd(),
	)
	return root, a
}

// Execute runs the command tree against the process environment.
func Execute() error {
	cfg, err := config.Get()
	if err == nil {
		logger.Init(cfg.LogLevel, os.Stderr)
	}
	root, a := newRoot(func() (*config.Config, error) { return cfg, err })
	if err := a.execute(root); err != nil {
		if !errors.Is(err, errIntentFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return err
	}
	return nil
}

// execute runs root and releases the session even when the command failed,
// since cobra skips post-run hooks after a RunE error.
func (a *app) execute(root *cobra.Command) error {
	defer func() {
		if err := a.closeSession(); err != nil {
			logger.Warn(context.Background(), "Session close failed", "error", err)
		}
	}()
	return root.Execute()
}

func (a *app) closeSession() error {
	if a.session == nil {
		return nil
	}
	s := a.session
	a.session = nil
	return s.Close()
}

func (a *app) open(cmd *cobra.Command, _ []string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.mode != "" {
		c := *cfg
		c.Client.Mode = a.mode
		cfg = &c
	}
	a.session, err = a.openSession(a.ctx(cmd), cfg, cmd.ErrOrStderr())
	return err
}

// result turns an intent outcome into the command's error.
func result(ok bool) error {
	if !ok {
		return errIntentFailed
	}
	return nil
}

// resolveCategory accepts a category id or a case-insensitive name.
func (a *app) resolveCategory(value string) string {
	v := a.session.Page.View()
	if _, ok := v.Categories.Find(value); ok || value == models.FilterAll {
		return value
	}
	for _, c := range v.Categories.Categories {
		if strings.EqualFold(c.Name, value) {
			return c.ID
		}
	}
	return value
}

func (a *app) ctx(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
