package server

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

const defaultDebounce = 500 * time.Millisecond

// ErrRebuildFuncRequired indicates the watcher has nothing to run on change.
var ErrRebuildFuncRequired = errors.New("server: rebuild function is required")

// WatchConfig controls the source watcher.
type WatchConfig struct {
	// Dirs are the directory trees to watch recursively.
	Dirs []string
	// Debounce collapses bursts of events into one rebuild.
	Debounce time.Duration
}

// Watcher rebuilds the site whenever the watched trees change. Events are
// debounced so editor save bursts trigger a single rebuild.
type Watcher struct {
	cfg     WatchConfig
	rebuild func(context.Context) error
	logger  interfaces.Logger

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher builds a watcher invoking rebuild after each debounced change.
func NewWatcher(cfg WatchConfig, rebuild func(context.Context) error, logger interfaces.Logger) (*Watcher, error) {
	if rebuild == nil {
		return nil, ErrRebuildFuncRequired
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultDebounce
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Watcher{cfg: cfg, rebuild: rebuild, logger: logger}, nil
}

// Run watches until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, dir := range w.cfg.Dirs {
		if err := addRecursive(watcher, dir, w.logger); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			w.logger.Debug("server.watch.change", "path", event.Name, "op", event.Op.String())

			// New subdirectories are not watched automatically.
			if event.Has(fsnotify.Create) {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					if addErr := addRecursive(watcher, event.Name, w.logger); addErr != nil {
						w.logger.Warn("server.watch.add_failed", "path", event.Name, "error", addErr)
					}
				}
			}

			w.scheduleRebuild(ctx)
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("server.watch.error", "error", watchErr)
		}
	}
}

func (w *Watcher) scheduleRebuild(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.cfg.Debounce, func() {
		if ctx.Err() != nil {
			return
		}
		w.logger.Info("server.watch.rebuild")
		if err := w.rebuild(ctx); err != nil {
			w.logger.Error("server.watch.rebuild_failed", "error", err)
			return
		}
		w.logger.Info("server.watch.rebuild_done")
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func relevant(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) ||
		event.Has(fsnotify.Rename)
}

func addRecursive(watcher *fsnotify.Watcher, root string, logger interfaces.Logger) error {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("server.watch.missing_dir", "path", root)
			return nil
		}
		return err
	}
	if !info.IsDir() {
		return watcher.Add(root)
	}
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			logger.Warn("server.watch.walk_error", "path", path, "error", walkErr)
			return nil
		}
		if entry.IsDir() {
			if addErr := watcher.Add(path); addErr != nil {
				logger.Warn("server.watch.add_failed", "path", path, "error", addErr)
			}
		}
		return nil
	})
}
