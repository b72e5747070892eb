package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/huh"
	mtp "github.com/modeltoolsprotocol/go-sdk"
	"github.com/rogersnm/todos/internal/config"
	"github.com/rogersnm/todos/internal/markdown"
	"github.com/rogersnm/todos/internal/model"
	"github.com/rogersnm/todos/internal/persist"
	"github.com/rogersnm/todos/internal/store"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	dataDir string
	backend string
	filter  string
	verbose bool

	st     *store.TaskStore
	cfg    *config.Config
	rend   *renderer
	logger *slog.Logger

	nowFunc = time.Now

	// confirmPrompt asks before destructive operations. Replaced in tests.
	confirmPrompt store.Confirm = huhConfirm
)

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".todos")
	}
	return filepath.Join(home, ".todos")
}

var rootCmd = &cobra.Command{
	Use:     "todos",
	Short:   "A small task list with durable local storage",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}

		var err error
		cfg, err = config.Load(dataDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		// Config commands work without a store
		if cmd.Name() == "config" || (cmd.Parent() != nil && cmd.Parent().Name() == "config") {
			return nil
		}

		if backend != "" {
			cfg.Backend = backend
			if err := cfg.Validate(); err != nil {
				return err
			}
		}
		mode, err := model.ParseFilterMode(filter)
		if err != nil {
			return err
		}
		if filter == "" && cfg.DefaultFilter != "" {
			mode = model.FilterMode(cfg.DefaultFilter)
		}

		adapter, err := persist.Open(cfg, dataDir)
		if err != nil {
			return fmt.Errorf("opening %s backend: %w", cfg.BackendName(), err)
		}
		st = store.New(adapter, store.WithLogger(logger), store.WithFilter(mode), store.WithClock(nowFunc))
		if err := st.Load(cmd.Context()); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), markdown.RenderWarning(err.Error()))
		}

		rend = &renderer{w: cmd.OutOrStdout()}
		st.Subscribe(rend.OnChange)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if st == nil {
			return nil
		}
		err := st.Close()
		st = nil
		return err
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", defaultDataDir(), "data directory path")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "storage backend (file, sqlite, http, memory); overrides config")
	rootCmd.PersistentFlags().StringVarP(&filter, "filter", "F", "", "view filter used when printing tasks (all, pending, completed)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	mtpOpts := &mtp.DescribeOptions{
		Commands: map[string]*mtp.CommandAnnotation{
			"add": {
				Stdin: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "One task per line, used when no text argument is given",
				},
				Examples: []mtp.Example{
					{Description: "Add a task", Command: "todos add \"Buy milk\""},
					{Description: "Add several tasks from a pipe", Command: "printf 'Buy milk\\nWrite report\\n' | todos add"},
				},
			},
			"list": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Table of tasks (ID, done, text, created) followed by total/completed/pending counts",
				},
				Examples: []mtp.Example{
					{Description: "Show pending tasks", Command: "todos list --filter pending"},
					{Description: "Machine-readable output", Command: "todos list --json"},
				},
			},
			"toggle": {
				Examples: []mtp.Example{
					{Description: "Flip a task between pending and completed", Command: "todos toggle 1718000000123"},
				},
			},
			"delete": {
				Examples: []mtp.Example{
					{Description: "Delete a task", Command: "todos delete 1718000000123"},
				},
			},
			"clear-completed": {
				Examples: []mtp.Example{
					{Description: "Remove completed tasks (interactive confirm)", Command: "todos clear-completed"},
					{Description: "Remove completed tasks (skip confirm)", Command: "todos clear-completed --force"},
				},
			},
			"clear-all": {
				Examples: []mtp.Example{
					{Description: "Remove every task (skip confirm)", Command: "todos clear-all --force"},
				},
			},
			"stats": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Total, completed and pending counts",
				},
			},
			"export": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/markdown",
					Description: "Markdown checklist with YAML frontmatter",
				},
				Examples: []mtp.Example{
					{Description: "Export pending tasks to a file", Command: "todos export --filter pending -o pending.md"},
				},
			},
			"import": {
				Examples: []mtp.Example{
					{Description: "Import a markdown checklist", Command: "todos import pending.md"},
				},
			},
		},
	}

	mtp.WithDescribe(rootCmd, mtpOpts)
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func huhConfirm(prompt string) (bool, error) {
	var ok bool
	if err := huh.NewConfirm().Title(prompt).Value(&ok).Run(); err != nil {
		return false, err
	}
	return ok, nil
}

// gate returns the confirmation for destructive commands, or nil with --force.
func gate(cmd *cobra.Command) store.Confirm {
	if force, _ := cmd.Flags().GetBool("force"); force {
		return nil
	}
	return confirmPrompt
}

func isPersistErr(err error) bool {
	var perr *model.PersistenceError
	return errors.As(err, &perr)
}

// nonFatal downgrades persistence failures to a warning: the change was
// applied in memory and the command still succeeds.
func nonFatal(cmd *cobra.Command, err error) error {
	var perr *model.PersistenceError
	if errors.As(err, &perr) {
		fmt.Fprintln(cmd.ErrOrStderr(), markdown.RenderWarning("changes not saved: "+perr.Error()))
		return nil
	}
	return err
}
