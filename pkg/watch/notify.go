package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// NotifyWatcher waits for push-based file events instead of polling. It
// watches the parent directory because editors commonly replace the file,
// which breaks a file-level watch.
type NotifyWatcher struct {
	path    string
	watcher *fsnotify.Watcher
}

// NewNotifyWatcher creates a notification watcher. The watched file must
// already exist.
func NewNotifyWatcher(path string) (*NotifyWatcher, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	return &NotifyWatcher{
		path:    path,
		watcher: fsWatcher,
	}, nil
}

// Wait blocks until the watched file is written, created, or removed.
func (w *NotifyWatcher) Wait(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watch %s: event channel closed", w.path)
			}
			if event.Name != w.path {
				continue
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				return ErrFileRemoved
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				return nil
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watch %s: error channel closed", w.path)
			}
			return fmt.Errorf("watch %s: %w", w.path, err)
		}
	}
}

// Close stops the underlying fsnotify watcher.
func (w *NotifyWatcher) Close() error {
	return w.watcher.Close()
}
