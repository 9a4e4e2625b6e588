package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/aretw0/debloat/internal/logging"
	"github.com/aretw0/debloat/pkg/domain"
	"github.com/fsnotify/fsnotify"
)

// Watcher is a ports.CatalogProvider that reloads its file on change.
// A reload that fails to parse or validate keeps the previous catalog.
// Plans already captured by a running session are never affected.
type Watcher struct {
	path     string
	current  atomic.Pointer[domain.Catalog]
	logger   *slog.Logger
	onReload func(*domain.Catalog)
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatchLogger sets the logger used to report reloads.
func WithWatchLogger(l *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// OnReload registers a callback invoked after each successful reload.
func OnReload(fn func(*domain.Catalog)) WatcherOption {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// NewWatcher loads path once and returns a provider for it.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving catalog path: %w", err)
	}
	c, err := Load(abs)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:   abs,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.current.Store(c)
	return w, nil
}

// Catalog returns the most recently loaded catalog.
func (w *Watcher) Catalog() *domain.Catalog {
	return w.current.Load()
}

// Reload re-reads the file now.
func (w *Watcher) Reload() error {
	c, err := Load(w.path)
	if err != nil {
		return err
	}
	w.current.Store(c)
	if w.onReload != nil {
		w.onReload(c)
	}
	return nil
}

// Watch blocks, reloading on change, until ctx is done.
// The parent directory is watched so editors that replace the file are handled.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watching catalog directory: %w", err)
	}
	w.logger.Info("Watching catalog", "path", w.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := w.Reload(); err != nil {
				w.logger.Warn("Catalog reload failed, keeping previous", "error", err)
				continue
			}
			w.logger.Info("Catalog reloaded", "path", w.path)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Catalog watcher error", "error", err)
		}
	}
}
