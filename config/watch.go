package config

import (
	"context"

	"github.com/fsnotify/fsnotify"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("config")

// Watch monitors the config file for changes and calls onChange with the newly
// loaded Config on every successful reload. It blocks until the context is
// cancelled. A failed reload keeps the previous config active and does not call
// onChange.
func Watch(ctx context.Context, path string, onChange func(cfg *Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		_ = watcher.Close()
	}()

	err = watcher.Add(path)
	if err != nil {
		return err
	}

	log.Info("watching config file for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// editors often save atomically via rename, so catch Create as well
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, errLoad := LoadConfig(path)
			if errLoad != nil {
				log.Warn("config reload failed, keeping previous config", "path", path, "error", errLoad)
				continue
			}

			log.Info("config reloaded", "path", path)
			onChange(cfg)

			// re-add the file in case an atomic save replaced the inode
			_ = watcher.Add(path)
		case errWatch, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("config watcher error", "error", errWatch)
		}
	}
}
