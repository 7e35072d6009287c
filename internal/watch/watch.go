// Package watch re-checks postings when they change on disk.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/andreasscherbaum/check-markdown-files/internal/runner"
	"github.com/andreasscherbaum/check-markdown-files/internal/storage"
)

// Callback is called with the result of a watcher-driven check run.
type Callback func(res *runner.Result)

// Watch starts an fsnotify watcher on the content directories and lints
// changed .md files until ctx is cancelled. Runs are always dry, the
// watcher never writes rewritten content back. It calls cb (if non-nil)
// after each run.
//
// Writes are debounced per path because editors typically emit several
// events for one save. New directories created at runtime are
// automatically added to the watch list.
func Watch(ctx context.Context, store storage.Provider, r *runner.Runner, dirs []string, cb Callback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	watched := 0
	for _, dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := addDirsRecursive(w, dir); err != nil {
			return err
		}
		watched++
	}
	slog.Info("watcher: started", slog.Int("dirs", watched))

	// Dirty paths waiting for the debounce timer.
	dirty := make(map[string]struct{})
	var flushTimer *time.Timer
	var flushCh <-chan time.Time

	scheduleFlush := func() {
		if flushTimer == nil {
			flushTimer = time.NewTimer(200 * time.Millisecond)
			flushCh = flushTimer.C
		} else {
			flushTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if flushTimer != nil {
				flushTimer.Stop()
			}
			slog.Info("watcher: stopped")
			return nil

		case <-flushCh:
			for path := range dirty {
				delete(dirty, path)
				lintOne(store, r, path, cb)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						slog.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					} else {
						slog.Debug("watcher: watching new dir", slog.String("path", ev.Name))
					}
					continue
				}
			}

			if !strings.HasSuffix(ev.Name, ".md") {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}

			dirty[ev.Name] = struct{}{}
			scheduleFlush()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func lintOne(store storage.Provider, r *runner.Runner, path string, cb Callback) {
	data, err := store.Read(path)
	if err != nil {
		slog.Warn("watcher: read failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	res, err := r.Run(path, string(data))
	if err != nil {
		slog.Warn("watcher: check failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	slog.Debug("watcher: checked",
		slog.String("path", path),
		slog.Int("diagnostics", len(res.Diagnostics)))
	if cb != nil {
		cb(res)
	}
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
