// Package watcher reports changes to a fixed set of files, batching bursts
// of editor writes into one event.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aleksaelezovic/rdfgraph/internal/logging"
)

// DefaultQuietPeriod is how long the files must stay untouched before an
// event is emitted.
const DefaultQuietPeriod = 100 * time.Millisecond

// ChangeEvent represents a batch of file system changes
type ChangeEvent struct {
	Paths     []string
	Timestamp time.Time
}

// FileWatcher watches individual files. Their parent directories are
// watched so that editors that replace files on save are still seen.
type FileWatcher struct {
	watcher     *fsnotify.Watcher
	files       map[string]bool
	quietPeriod time.Duration
	events      chan ChangeEvent
}

// NewFileWatcher creates a watcher for the given files.
func NewFileWatcher(paths []string, quietPeriod time.Duration) (*FileWatcher, error) {
	if quietPeriod <= 0 {
		quietPeriod = DefaultQuietPeriod
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	fw := &FileWatcher{
		watcher:     w,
		files:       make(map[string]bool),
		quietPeriod: quietPeriod,
		events:      make(chan ChangeEvent, 10),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		fw.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	return fw, nil
}

// Start processes events until ctx is cancelled, then closes the events
// channel.
func (fw *FileWatcher) Start(ctx context.Context) {
	logging.Info("started watching", "files", len(fw.files))
	go fw.processEvents(ctx)
}

func (fw *FileWatcher) processEvents(ctx context.Context) {
	defer close(fw.events)
	defer fw.watcher.Close()

	pending := make(map[string]bool)
	flushTimer := time.NewTimer(fw.quietPeriod)
	flushTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !fw.files[filepath.Clean(event.Name)] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logging.Debug("file changed", "path", event.Name, "op", event.Op.String())
			pending[event.Name] = true
			flushTimer.Reset(fw.quietPeriod)

		case <-flushTimer.C:
			if len(pending) == 0 {
				continue
			}
			ev := ChangeEvent{Timestamp: time.Now()}
			for p := range pending {
				ev.Paths = append(ev.Paths, p)
			}
			pending = make(map[string]bool)
			select {
			case fw.events <- ev:
			case <-ctx.Done():
				return
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("watcher error", "error", err)
		}
	}
}

// Events returns the channel of change events
func (fw *FileWatcher) Events() <-chan ChangeEvent {
	return fw.events
}
