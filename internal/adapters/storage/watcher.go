package storage

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces the burst of events one atomic rename produces.
const reloadDebounce = 100 * time.Millisecond

// Watcher reloads the store when something else rewrites the quotes file:
// a second process, a manual edit, a restore from backup. It is the service
// analogue of another browser tab writing shared storage.
//
// Reloading after our own saves is harmless (disk already equals memory),
// so the watcher makes no attempt to tell writers apart.
type Watcher struct {
	path   string
	reload func(ctx context.Context) error
	logger *slog.Logger

	fsw  *fsnotify.Watcher
	stop chan struct{}
	done chan struct{}
}

// WatcherConfig contains configuration for the reload watcher.
type WatcherConfig struct {
	// Path is the quotes file to watch.
	Path string

	// Reload is invoked after the file changes on disk.
	Reload func(ctx context.Context) error

	Logger *slog.Logger
}

// NewWatcher creates a watcher on the directory containing the quotes file.
// The directory, not the file, is watched: atomic saves rename a temp file
// over the target, which would silently detach a file-level watch.
func NewWatcher(cfg WatcherConfig) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("watch path is required")
	}

	if cfg.Reload == nil {
		return nil, fmt.Errorf("reload callback is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	if err := fsw.Add(filepath.Dir(cfg.Path)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(cfg.Path), err)
	}

	return &Watcher{
		path:   cfg.Path,
		reload: cfg.Reload,
		logger: logger.With(slog.String("component", "storage.Watcher")),
		fsw:    fsw,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}, nil
}

// Start launches the watch loop. Watch failures are logged, never fatal.
func (w *Watcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)

	var (
		pending bool
		timer   = time.NewTimer(reloadDebounce)
	)

	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-w.stop:
			return

		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}

			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}

			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}

			if !pending {
				pending = true
				timer.Reset(reloadDebounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}

			w.logger.Warn("watch error", slog.Any("error", err))

		case <-timer.C:
			pending = false

			if err := w.reload(ctx); err != nil {
				w.logger.Warn("reload after external change failed", slog.Any("error", err))
			} else {
				w.logger.Info("store reloaded after external change")
			}
		}
	}
}

// Stop halts the watch loop and releases the fsnotify handle.
func (w *Watcher) Stop() {
	select {
	case <-w.stop:
		// Already stopped.
	default:
		close(w.stop)
	}

	<-w.done
	_ = w.fsw.Close()
}
