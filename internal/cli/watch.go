package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// rerunDelay is how long the watcher waits after the last write before
// starting a new run.
const rerunDelay = 500 * time.Millisecond

// NewWatchCommand creates the watch command.
func NewWatchCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Re-run the journey whenever the plan or config file changes",
		Long: `Run the journey once, then again each time the config file or the
plan file is saved. Built-in plans cannot be watched; pass a plan file
with --plan or a config file with --config.

Stop with Ctrl+C.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := watchedPaths(opts)
			if len(paths) == 0 {
				return NewExitError(ExitCommandError, "nothing to watch: pass --config or a plan file with --plan")
			}

			out := cmd.OutOrStdout()
			run := func() {
				if err := runJourney(cmd, opts); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", styleError.Render("Error:"), err)
				}
				fmt.Fprintln(out, styleHint.Render(fmt.Sprintf("Watching %v for changes...", paths)))
			}

			run()
			return watchFiles(cmd.Context(), paths, rerunDelay, opts.logger(cmd.ErrOrStderr()), run)
		},
	}
}

// watchedPaths returns the config file and the plan file, when the plan
// refers to one.
func watchedPaths(opts *RootOptions) []string {
	var paths []string
	if opts.ConfigPath != "" {
		paths = append(paths, opts.ConfigPath)
	}
	if fi, err := os.Stat(opts.Plan); err == nil && !fi.IsDir() {
		paths = append(paths, opts.Plan)
	}
	return paths
}

// watchFiles calls fn after any of paths is written, created or replaced,
// once no further change has arrived for delay. The parent directories are
// watched so editors that save by rename are seen. Blocks until ctx is
// cancelled.
func watchFiles(ctx context.Context, paths []string, delay time.Duration, logger *slog.Logger, fn func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	targets := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve %q: %w", p, err)
		}
		targets[abs] = true

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %q: %w", dir, err)
		}
		dirs[dir] = true
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !targets[filepath.Clean(event.Name)] {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				logger.Debug("file changed", "path", event.Name, "op", event.Op.String())
				pending = time.After(delay)
			}

		case <-pending:
			pending = nil
			fn()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", "error", err)
		}
	}
}
