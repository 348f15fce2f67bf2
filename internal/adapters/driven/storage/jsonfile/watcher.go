package jsonfile

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/lifeops/internal/logger"
)

const (
	debounceDelay   = 50 * time.Millisecond
	eventBufferSize = 16
)

// SlotEvent reports an external write to a slot.
type SlotEvent struct {
	Key  string
	Time time.Time
}

// Watch streams external writes to key until ctx is cancelled, then closes
// the channel. Writes made through this Store are not reported.
func (s *Store) Watch(ctx context.Context, key string) (<-chan SlotEvent, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	// Watch the directory: atomic renames replace the file's inode.
	if err := watcher.Add(s.dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", s.dir, err)
	}

	out := make(chan SlotEvent, eventBufferSize)
	w := &slotWatcher{store: s, key: key, watcher: watcher, out: out}
	go w.run(ctx)
	return out, nil
}

type slotWatcher struct {
	store   *Store
	key     string
	watcher *fsnotify.Watcher
	out     chan SlotEvent

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
}

func (w *slotWatcher) run(ctx context.Context) {
	defer func() {
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.closed = true
		close(w.out)
		w.mu.Unlock()
		_ = w.watcher.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("slot watcher: %v", err)
		}
	}
}

func (w *slotWatcher) handle(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	key, ok := keyFromFile(filepath.Base(event.Name))
	if !ok || fileName(key) != fileName(w.key) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounceDelay, func() { w.emit(ctx) })
}

func (w *slotWatcher) emit(ctx context.Context) {
	data, err := w.store.Get(ctx, w.key)
	if err != nil || w.store.ownWrite(w.key, data) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	select {
	case w.out <- SlotEvent{Key: w.key, Time: time.Now()}:
	default:
		// Subscriber is behind; drop rather than block the watcher.
	}
}
