package config

import (
	"context"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the config file whenever it changes on disk and hands the
// result to onChange. The parent directory is watched rather than the file
// itself because most editors replace the file on save. Reload errors are
// logged and skipped; the previous config stays in effect.
//
// Watch blocks until ctx is cancelled; run it in its own goroutine.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		_ = watcher.Close()
	}()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := LoadFile(path)
			if err != nil {
				log.Printf("[Config] reload failed, keeping previous config: %v", err)
				continue
			}
			if err := cfg.Validate(); err != nil {
				log.Printf("[Config] reloaded config invalid, keeping previous: %v", err)
				continue
			}
			onChange(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[Config] watch error: %v", err)
		}
	}
}
