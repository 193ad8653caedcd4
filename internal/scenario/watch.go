// Copyright (c) 2025 Berik Ashimov

package scenario

import (
	"context"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// Watch reloads path into c whenever it is written or replaced, until ctx
// is done. The parent directory is watched so editors that save by rename
// are picked up. A failed reload keeps the previous catalog.
func Watch(ctx context.Context, path string, c *Catalog, logger *log.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create scenario watcher")
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(err, "resolve scenario path")
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return errors.Wrapf(err, "watch %s", filepath.Dir(abs))
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, _ := filepath.Abs(event.Name)
			if name != abs || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := c.Load(path); err != nil {
				logger.Warn("scenario reload failed", "path", path, "error", err)
				continue
			}
			logger.Info("scenario catalog reloaded", "path", path, "scenarios", len(c.Scenarios()))
			for _, s := range c.Scenarios() {
				for _, f := range Audit(s) {
					logger.Warn("scenario issue disagrees with arithmetic", "scenario", s.Title, "device", f.Device, "computed", f.Computed)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("scenario watcher error", "error", err)
		}
	}
}
