package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"codereview/internal/diagfmt"
	"codereview/internal/discover"
	"codereview/internal/source"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [flags] <directory>",
		Short: "Review a directory and review it again whenever a C++ file changes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runWatch,
	}
	addScanFlags(cmd)
	cmd.Flags().String("format", "text", "output format (text|short)")
	cmd.Flags().Duration("debounce", 300*time.Millisecond, "quiet period before a rescan")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	root, ok := resolveRoot(cmd, args)
	if !ok {
		return nil
	}
	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	outFormat, err := diagfmt.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	if outFormat != diagfmt.FormatText && outFormat != diagfmt.FormatShort {
		return fmt.Errorf("watch supports text and short output, not %s", outFormat)
	}
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return fmt.Errorf("failed to get debounce flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	colored, err := useColor(cmd)
	if err != nil {
		return err
	}

	setup, err := loadSetup(cmd, root)
	if err != nil {
		return err
	}
	if cmd.Context() == nil {
		cmd.SetContext(context.Background())
	}
	stopTrace, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer stopTrace()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	walker, err := discover.New(root, setup.settings.Discover)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()
	if err := addTree(watcher, root); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	rescan := func() error {
		res, walkErr, err := scan(ctx, setup, scanOptions{ui: uiModeOff})
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return err
		}
		if walkErr != nil && !quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", walkErr)
		}
		if !quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "== %s: %d files, %d diagnostics ==\n",
				time.Now().Format(time.TimeOnly), res.Scanned, res.Count())
		}
		return diagfmt.Write(out, res, diagfmt.Options{
			Format: outFormat,
			Text:   diagfmt.TextOpts{Color: colored, PathMode: source.PathModeAsGiven, BaseDir: root},
		})
	}
	if err := rescan(); err != nil {
		return err
	}

	relevant := func(ev fsnotify.Event) bool {
		if ev.Op == fsnotify.Chmod {
			return false
		}
		if ev.Has(fsnotify.Create) {
			if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
				if err := addTree(watcher, ev.Name); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
				}
				return true
			}
		}
		return walker.Match(ev.Name)
	}
	onError := func(err error) {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: watch: %v\n", err)
	}
	return watchLoop(ctx, watcher.Events, watcher.Errors, debounce, relevant, rescan, onError)
}

// addTree watches dir and every directory below it; fsnotify is not
// recursive.
func addTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return filepath.SkipDir
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// watchLoop calls onChange once the event stream has been quiet for
// debounce after a relevant event. It returns when ctx is done or the
// event channel is closed; an onChange error ends the loop.
func watchLoop(
	ctx context.Context,
	events <-chan fsnotify.Event,
	errs <-chan error,
	debounce time.Duration,
	relevant func(fsnotify.Event) bool,
	onChange func() error,
	onError func(error),
) error {
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if relevant(ev) {
				timer.Reset(debounce)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			onError(err)
		case <-timer.C:
			if err := onChange(); err != nil {
				return err
			}
		}
	}
}
