package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const watchDebounce = 300 * time.Millisecond

func newWatchCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [repo-path]",
		Short: "Re-run the checks whenever the repository changes",
		Long: `Run the checks, then run them again each time a file outside .git changes,
until interrupted. Watch mode never fixes in place.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.resolve(cmd.Context(), repoArg(args))
			if err != nil {
				return &exitError{code: exitConfig, err: err}
			}
			defer func() { _ = s.logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
			run := func() {
				fmt.Fprintf(stdout, "\n=== %s ===\n", time.Now().Format(time.TimeOnly))
				if code, err := s.lint(stdout, stderr, false); err != nil {
					fmt.Fprintf(stderr, "error: %v\n", err)
				} else {
					s.logger.Debugw("run finished", "failures", code)
				}
			}
			return watchTree(ctx, s.info.TopLevel, watchDebounce, s.ownOutput(), s.logger, run)
		},
	}
}

// watchTree calls run once, then again after every burst of changes under
// root settles for debounce. Changes under .git and paths for which ignore
// returns true do not count. Runs happen on the calling goroutine. It
// returns when ctx is done.
func watchTree(ctx context.Context, root string, debounce time.Duration, ignore func(string) bool, logger *zap.SugaredLogger, run func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	if err := addWatchRecursive(w, root); err != nil {
		return fmt.Errorf("watching %s: %w", root, err)
	}

	run()

	timer := time.NewTimer(debounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if inGitDir(root, ev.Name) || (ignore != nil && ignore(ev.Name)) {
				continue
			}
			logger.Debugw("file changed", "path", ev.Name, "op", ev.Op.String())
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addWatchRecursive(w, ev.Name); err != nil {
						logger.Warnw("cannot watch new directory", "path", ev.Name, "error", err)
					}
				}
			}
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("watch error", "error", err)
		case <-timer.C:
			run()
		}
	}
}

func addWatchRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

func inGitDir(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == ".git" || strings.HasPrefix(rel, ".git"+string(filepath.Separator))
}

// ownOutput matches the files a run writes itself: the metrics file and
// the temporary siblings it is renamed from.
func (s *session) ownOutput() func(string) bool {
	if s.cfg.MetricsFile == "" {
		return nil
	}
	return writtenFiles(s.cfg.MetricsFile)
}

func writtenFiles(path string) func(string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	dir, base := filepath.Dir(abs), filepath.Base(abs)
	if real, err := filepath.EvalSymlinks(dir); err == nil {
		dir = real
	}
	return func(name string) bool {
		d := filepath.Dir(name)
		if d != dir {
			if real, err := filepath.EvalSymlinks(d); err != nil || real != dir {
				return false
			}
		}
		return strings.HasPrefix(filepath.Base(name), base)
	}
}
