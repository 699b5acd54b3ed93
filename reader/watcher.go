package reader

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	// defaultDebounce is how long the watcher waits for further changes
	// before emitting a reload event.
	defaultDebounce = 500 * time.Millisecond

	// eventChannelBuffer is the size of the reload event channel.
	eventChannelBuffer = 16
)

// ReloadEvent reports that one or more watched SEM-I files changed.
type ReloadEvent struct {
	// Paths are the changed files, sorted, coalesced over the debounce
	// window.
	Paths []string
}

// Watcher watches the files of a loaded SEM-I and emits debounced
// reload events when any of them change. Editors often replace files by
// rename, so the parent directories are watched and events filtered to
// the known file set.
type Watcher struct {
	files    map[string]bool
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	events   chan ReloadEvent
}

// NewWatcher creates a watcher over the given files (typically
// Result.Files from a Load). A nil logger falls back to slog.Default;
// a zero debounce uses the default.
func NewWatcher(files []string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	w := &Watcher{
		files:    make(map[string]bool, len(files)),
		debounce: debounce,
		watcher:  fw,
		logger:   logger,
		events:   make(chan ReloadEvent, eventChannelBuffer),
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("resolve %q: %w", f, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch %q: %w", dir, err)
		}
	}

	return w, nil
}

// Events returns the channel of debounced reload events.
func (w *Watcher) Events() <-chan ReloadEvent {
	return w.events
}

// Start runs the watch loop until the context is canceled. It closes
// the event channel on return.
func (w *Watcher) Start(ctx context.Context) {
	defer close(w.events)

	pending := make(map[string]bool)
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("SEM-I file changed",
				slog.String("path", ev.Name),
				slog.String("op", ev.Op.String()))
			pending[ev.Name] = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("File watcher error", slog.String("error", err.Error()))

		case <-fire:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			pending = make(map[string]bool)
			fire = nil

			select {
			case w.events <- ReloadEvent{Paths: paths}:
			default:
				w.logger.Warn("Dropping reload event, channel full")
			}
		}
	}
}

// Close releases the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// relevant reports whether a filesystem event concerns a watched file.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !w.files[ev.Name] {
		return false
	}
	return ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) ||
		ev.Op.Has(fsnotify.Rename) || ev.Op.Has(fsnotify.Remove)
}
