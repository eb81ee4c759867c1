// Package watch reports edits to an input file.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mcncl/jsongrid/internal/errors"
)

// DefaultDebounce groups the bursts of events editors emit for one save.
const DefaultDebounce = 100 * time.Millisecond

// Event carries the file contents after a change, or the error that
// prevented reading them.
type Event struct {
	Path string
	Data []byte
	Err  error
}

// Watcher watches one file. The directory is watched rather than the file
// so that editors replacing the file on save are still seen.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
	fs       *fsnotify.Watcher
	events   chan Event
	done     chan struct{}

	mu        sync.Mutex
	timer     *time.Timer
	closeOnce sync.Once
}

// New starts watching path.
func New(path string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if path == "" || path == "-" {
		return nil, errors.NewWatchError("cannot watch standard input", errors.ErrWatchStdin)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.NewWatchError(fmt.Sprintf("invalid path %q", path), err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, errors.NewWatchError(fmt.Sprintf("cannot watch %q", path), errors.ErrFileNotFound)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.NewWatchError("failed to create watcher", err)
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		_ = fs.Close()
		return nil, errors.NewWatchError(fmt.Sprintf("failed to watch %q", filepath.Dir(abs)), err)
	}

	w := &Watcher{
		path:     abs,
		debounce: debounce,
		logger:   logger,
		fs:       fs,
		events:   make(chan Event, 1),
		done:     make(chan struct{}),
	}
	go w.loop()
	logger.Debug("watching file", "path", abs, "debounce", debounce)
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Events delivers one event per settled burst of changes.
func (w *Watcher) Events() <-chan Event { return w.events }

// Next waits for the next event. It returns false once ctx is done or the
// watcher is closed.
func (w *Watcher) Next(ctx context.Context) (Event, bool) {
	select {
	case ev := <-w.events:
		return ev, true
	case <-ctx.Done():
		return Event{}, false
	case <-w.done:
		return Event{}, false
	}
}

// Close stops watching. Pending events are dropped.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			// Only handle events that can change the contents
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("file event", "op", event.Op.String())
			w.schedule()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Debug("watcher error", "error", err)
			w.emit(Event{Path: w.path, Err: errors.NewWatchError("watcher failed", err)})
		}
	}
}

// schedule debounces reloads
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		w.logger.Debug("reload failed", "path", w.path, "error", err)
		w.emit(Event{Path: w.path, Err: errors.NewWatchError("failed to read changed file", err)})
		return
	}
	w.logger.Debug("change detected", "path", filepath.Base(w.path), "bytes", len(data))
	w.emit(Event{Path: w.path, Data: data})
}

func (w *Watcher) emit(ev Event) {
	select {
	case w.events <- ev:
	case <-w.done:
	}
}
