package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/wesleywu/simconfig/internal/logger"
)

// DefaultDebounce is used when no debounce interval is given
const DefaultDebounce = 500 * time.Millisecond

// ChangeFunc is called once a burst of changes to the watched file has settled
type ChangeFunc func(ctx context.Context) error

// Watcher watches a single definition file and calls a ChangeFunc after it
// changes. Editors often replace a file instead of writing it in place, so
// the parent directory is watched and events are filtered by name.
type Watcher struct {
	mu       sync.RWMutex
	watcher  *fsnotify.Watcher
	file     string
	dir      string
	debounce time.Duration
	onChange ChangeFunc
	logger   *logger.Logger

	pending  time.Time
	running  bool
	stopped  bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}

	stats Stats
}

// Stats tracks watcher activity
type Stats struct {
	Events        int
	Reloads       int
	Errors        int
	LastEventTime time.Time
	LastEvent     string
}

// New creates a watcher for file. The watcher does nothing until Start.
func New(file string, debounce time.Duration, onChange ChangeFunc, log *logger.Logger) (*Watcher, error) {
	if file == "" {
		return nil, errors.New("watched file cannot be empty")
	}
	if onChange == nil {
		return nil, errors.New("change callback cannot be nil")
	}
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", file, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		watcher:  fw,
		file:     abs,
		dir:      filepath.Dir(abs),
		debounce: debounce,
		onChange: onChange,
		logger:   log.WithComponent("watch"),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// File returns the absolute path of the watched file
func (w *Watcher) File() string {
	return w.file
}

// Start begins watching. It does not block; the watcher runs until Stop is
// called or ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	if w.stopped {
		w.mu.Unlock()
		return errors.New("watcher already stopped")
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.dir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	w.logger.WatchStart(w.file, w.debounce.String())

	go w.run(ctx)

	return nil
}

// Stop stops the watcher and waits for its event loop to exit. It is safe to
// call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	running := w.running
	w.stopped = true
	w.mu.Unlock()

	w.stopOnce.Do(func() { close(w.stopCh) })

	if running {
		<-w.doneCh
		return
	}
	_ = w.watcher.Close()
}

// Stats returns a snapshot of the watcher statistics
func (w *Watcher) Stats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer func() {
		if err := w.watcher.Close(); err != nil {
			w.logger.Error("Failed to close file watcher", slog.String("error", err.Error()))
		}
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		w.logger.WatchStop()
	}()

	tick := w.debounce / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", slog.String("error", err.Error()))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-ticker.C:
			w.processPending(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.file {
		return
	}

	var eventType string
	switch {
	case event.Has(fsnotify.Create):
		eventType = "create"
	case event.Has(fsnotify.Write):
		eventType = "modify"
	case event.Has(fsnotify.Remove):
		eventType = "delete"
	case event.Has(fsnotify.Rename):
		eventType = "rename"
	default:
		return
	}

	w.logger.DefinitionChanged(w.file, eventType)

	w.mu.Lock()
	w.stats.Events++
	w.stats.LastEventTime = time.Now()
	w.stats.LastEvent = eventType
	w.pending = time.Now()
	w.mu.Unlock()
}

// processPending calls the change callback once no event has arrived for a
// full debounce interval
func (w *Watcher) processPending(ctx context.Context) {
	w.mu.Lock()
	if w.pending.IsZero() || time.Since(w.pending) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.pending = time.Time{}
	w.mu.Unlock()

	err := w.onChange(ctx)

	w.mu.Lock()
	w.stats.Reloads++
	if err != nil {
		w.stats.Errors++
	}
	w.mu.Unlock()

	if err != nil {
		w.logger.Error("Reload after definition change failed",
			slog.String("file", w.file),
			slog.String("error", err.Error()))
	}
}
