package local

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watcher monitors the local database file and calls onDelete when it is
// removed out from under the process (the UI layer recreates the store).
// The parent directory is watched since fsnotify cannot watch a file that
// no longer exists.
type Watcher struct {
	dbPath     string
	parentPath string
	onDelete   func()
	watcher    *fsnotify.Watcher
	ctx        context.Context
	cancel     context.CancelFunc
	mu         sync.Mutex
	running    bool
	debounce   time.Duration
}

// NewWatcher creates a Watcher for the given database path.
func NewWatcher(dbPath string, onDelete func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Watcher{
		dbPath:     dbPath,
		parentPath: filepath.Dir(dbPath),
		onDelete:   onDelete,
		watcher:    fsw,
		ctx:        ctx,
		cancel:     cancel,
		debounce:   100 * time.Millisecond,
	}, nil
}

// Start begins watching for deletion events.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.addWatch(); err != nil {
		log.Warn().Err(err).Str("path", w.parentPath).Msg("Failed to add initial watch")
	}

	go w.watchLoop()
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	w.running = false
	w.cancel()
	return w.watcher.Close()
}

func (w *Watcher) addWatch() error {
	if _, err := os.Stat(w.parentPath); os.IsNotExist(err) {
		return err
	}
	return w.watcher.Add(w.parentPath)
}

func (w *Watcher) watchLoop() {
	var (
		debounceTimer *time.Timer
		pendingDelete bool
	)

	for {
		select {
		case <-w.ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			eventPath := filepath.Clean(event.Name)
			dbPath := filepath.Clean(w.dbPath)

			switch {
			// Data directory or database file removed: debounce, then fire.
			case (eventPath == w.parentPath || eventPath == dbPath) && event.Op&fsnotify.Remove != 0:
				log.Info().Str("path", eventPath).Msg("Local database removed")
				pendingDelete = true
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(w.debounce, w.handleDeletion)

			// Data directory recreated: re-establish the watch.
			case eventPath == w.parentPath && event.Op&fsnotify.Create != 0:
				_ = w.addWatch()

			// Database recreated before the debounce fired: cancel.
			case pendingDelete && eventPath == dbPath && event.Op&fsnotify.Create != 0:
				pendingDelete = false
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("Local database watcher error")
		}
	}
}

func (w *Watcher) handleDeletion() {
	log.Info().Str("path", w.dbPath).Msg("Triggering local store recreation")

	if w.onDelete != nil {
		w.onDelete()
	}

	// Parent may have been recreated in the meantime.
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := w.addWatch(); err != nil {
			log.Warn().Err(err).Str("path", w.parentPath).Msg("Failed to re-establish watch after deletion")
		}
	}()
}
