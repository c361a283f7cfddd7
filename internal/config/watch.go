package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
)

// Watch monitors path for changes and calls onChange with the newly loaded
// Config each time the file is written or replaced. It runs until ctx is
// cancelled.
//
// The parent directory is watched so editors that save by rename are picked
// up. If a reload fails the error is logged and onChange is not called.
func Watch(ctx context.Context, path string, logger log.Logger, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "config: create watcher")
	}
	defer watcher.Close()

	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return errors.Wrapf(err, "config: watch %s", path)
	}

	level.Info(logger).Log("msg", "watching config for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != path {
				continue
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, err := Load(path)
			if err != nil {
				level.Error(logger).Log("msg", "config reload failed, keeping previous config", "path", path, "err", err)
				continue
			}

			level.Info(logger).Log("msg", "config reloaded", "path", path, "stages", len(cfg.Stages))
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			level.Error(logger).Log("msg", "config watcher error", "err", err)
		}
	}
}
