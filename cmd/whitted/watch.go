package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/taigrr/whitted/pkg/config"
)

// settle is how long the watcher waits after the last change before
// rendering, so that an editor's save burst triggers one render.
const settle = 200 * time.Millisecond

// watchedPaths lists the config file and every model file.
func watchedPaths(cfg config.Config) []string {
	var paths []string
	if *configPath != "" {
		paths = append(paths, *configPath)
	}
	for _, m := range cfg.Models {
		paths = append(paths, cfg.ResolvePath(m.Path))
	}
	return paths
}

// watchAndRender calls rerender once, then again whenever one of paths is
// written, created or renamed, until ctx is done. Render errors are
// logged and do not stop the watch.
func watchAndRender(ctx context.Context, paths []string, rerender func() error, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	// Editors often replace files instead of writing them, so watch the
	// directories and filter by name.
	watched := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		watched[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	if err := rerender(); err != nil {
		logger.Error("render failed", "err", err)
	}
	fmt.Printf("Watching %d files, Ctrl+C to stop\n", len(watched))

	timer := time.NewTimer(settle)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(ev.Name)] {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				logger.Debug("change detected", "path", ev.Name, "op", ev.Op.String())
				timer.Reset(settle)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		case <-timer.C:
			if err := rerender(); err != nil {
				logger.Error("render failed", "err", err)
			}
		}
	}
}
