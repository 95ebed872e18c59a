package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// RestartRequired lists the attributes that are read once at startup.
// Changing them in a running server has no effect until it is restarted.
var RestartRequired = []string{"guest_mode", "storage_backend", "uploads_root", "s3_bucket", "s3_region", "s3_endpoint"}

// Watch reloads the global configuration whenever the config file is
// written, created or renamed into place. It blocks until ctx is done.
// onReload receives the configuration before and after each reload. A
// file that fails to parse or validate is passed to onError and keeps
// the previous values; a missing file is ignored.
func Watch(ctx context.Context, onReload func(prev, next *ZealotConfig), onError func(error)) error {
	path := Get().ConfigFilePath()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory so that editors replacing the file are noticed
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			prev := Get()
			next, err := reloadValid(path)
			if err != nil {
				if onError != nil {
					onError(err)
				}
				continue
			}
			if next == nil {
				continue
			}
			set(next)
			if onReload != nil {
				onReload(prev, next)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if onError != nil {
				onError(err)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// reloadValid loads and validates the configuration after path changed.
// It returns nil without error while the file is missing, as happens
// between an editor moving the old file away and writing the new one.
func reloadValid(path string) (*ZealotConfig, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("ignoring invalid %s: %w", path, err)
	}
	return cfg, nil
}

// Changed returns the names of the attributes whose values differ between a and b.
func Changed(a, b *ZealotConfig) []string {
	before := make(map[string]string)
	for _, attr := range a.Attributes() {
		before[attr.Name] = attr.Value
	}

	var changed []string
	for _, attr := range b.Attributes() {
		if before[attr.Name] != attr.Value {
			changed = append(changed, attr.Name)
		}
	}
	return changed
}
