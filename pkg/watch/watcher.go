// Package watch detects changes to the pending-input file. The mechanism is
// isolated behind the Waiter interface so the polling default can be swapped
// for push-based notification without touching the workflow.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrFileRemoved is returned when the watched file disappears mid-watch.
// The watch loop treats it as a clean stop, not a crash.
var ErrFileRemoved = errors.New("watched file was removed")

// DefaultInterval is the poll period. Change detection latency is bounded
// by it; that coarseness is an accepted trade-off for simplicity.
const DefaultInterval = 2 * time.Second

// Waiter blocks until the watched file changes.
type Waiter interface {
	// Wait returns nil when a change was observed, ErrFileRemoved when the
	// file vanished, or the context error on cancellation.
	Wait(ctx context.Context) error

	// Close releases any watch resources.
	Close() error
}

// PollWatcher compares the watched file's modification timestamp against
// the last observed value on a fixed interval.
type PollWatcher struct {
	path     string
	interval time.Duration
	lastMod  time.Time
}

// NewPollWatcher creates a poll watcher. The watched file must already
// exist; the watcher never creates it.
func NewPollWatcher(path string, interval time.Duration) (*PollWatcher, error) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	return &PollWatcher{
		path:     path,
		interval: interval,
		lastMod:  info.ModTime(),
	}, nil
}

// Wait polls until the modification timestamp moves.
func (w *PollWatcher) Wait(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil {
				if os.IsNotExist(err) {
					return ErrFileRemoved
				}
				return fmt.Errorf("watch %s: %w", w.path, err)
			}
			if !info.ModTime().Equal(w.lastMod) {
				w.lastMod = info.ModTime()
				return nil
			}
		}
	}
}

// Close is a no-op for the poll watcher.
func (w *PollWatcher) Close() error {
	return nil
}
