package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow collapses the burst of filesystem events a single editor
// save produces (truncate + write, or an atomic rename) into one reload.
const debounceWindow = 100 * time.Millisecond

// Watch monitors path and calls onChange with the newly loaded Config after
// the file changes. Rapid successive writes are coalesced into a single
// reload. It runs until ctx is cancelled.
//
// If a reload fails (e.g., invalid YAML), the error is logged and the
// previous config remains active — Watch does not call onChange.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	slog.Info("config: watching for changes", "path", path)

	// pending is non-nil while a reload is scheduled; further events inside
	// the window fold into the scheduled one.
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Writes and creates both mean new content: editors often save
			// atomically via rename, which arrives as Create.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if pending == nil {
				pending = time.After(debounceWindow)
			}

		case <-pending:
			pending = nil

			// An atomic save may have replaced the inode; re-watch the path
			// before reading so later edits keep arriving.
			_ = watcher.Add(path)

			cfg, err := Load(path)
			if err != nil {
				slog.Error("config: reload failed — keeping previous config",
					"path", path, "err", err)
				continue
			}

			slog.Info("config: reloaded",
				"path", path, "services", len(cfg.Monitor.Services))
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}
