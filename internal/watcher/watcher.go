// Package watcher keeps tracked root folders in sync with the filesystem by
// re-matching a root whenever video files appear, move, or disappear under
// it.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/mondohq/mondo/internal/logging"
	"github.com/mondohq/mondo/internal/parse"
)

type EventType string

const (
	EventCreate EventType = "create"
	EventWrite  EventType = "write"
	EventMove   EventType = "move"
	EventDelete EventType = "delete"
)

// FileEvent is one filesystem change under a tracked root.
type FileEvent struct {
	Type EventType
	Path string
	Root string
}

// Handler reacts to changes under tracked roots. RootChanged is invoked with
// the root folder owning the changed file.
type Handler interface {
	RootChanged(ctx context.Context, root string) error
}

// Watcher observes tracked roots recursively.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	handler   Handler
	logger    *logging.Logger
	roots     []string
}

// NewWatcher creates a Watcher dispatching to handler.
func NewWatcher(handler Handler, logger *logging.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("unable to create watcher: %w", err)
	}
	if logger == nil {
		logger = logging.Nop()
	}

	return &Watcher{
		fsWatcher: fsWatcher,
		handler:   handler,
		logger:    logger,
	}, nil
}

// Watch registers the given root folders and their subdirectories.
func (w *Watcher) Watch(roots []string) error {
	for _, root := range roots {
		if err := w.addRecursive(root); err != nil {
			return err
		}
		w.roots = append(w.roots, root)
	}
	return nil
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if strings.HasPrefix(filepath.Base(path), ".") {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			return fmt.Errorf("unable to watch %s: %w", path, err)
		}
		w.logger.Debug("watcher", "watching", logging.F("path", path))
		return nil
	})
}

// Start blocks dispatching events until ctx is cancelled or the watcher
// fails.
func (w *Watcher) Start(ctx context.Context) error {
	w.logger.Info("watcher", "watcher started", logging.F("roots", len(w.roots)))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					w.watchNewDir(event.Name)
					continue
				}
			}

			if err := w.handleEvent(ctx, event); err != nil {
				w.logger.Error("watcher", "event handling failed",
					logging.F("path", event.Name),
					logging.F("error", err.Error()))
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("watcher", "watcher error", logging.F("error", err.Error()))
		}
	}
}

// watchNewDir registers a directory created under a tracked root.
func (w *Watcher) watchNewDir(path string) {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return
	}
	if err := w.fsWatcher.Add(path); err != nil {
		w.logger.Error("watcher", "unable to watch new directory",
			logging.F("path", path),
			logging.F("error", err.Error()))
		return
	}
	w.logger.Debug("watcher", "watching new directory", logging.F("path", path))
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsWatcher.Close()
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) error {
	if !parse.IsVideoFile(event.Name) {
		return nil
	}

	root := w.owningRoot(event.Name)
	if root == "" {
		return nil
	}

	eventType := EventCreate
	if event.Op&fsnotify.Write == fsnotify.Write {
		eventType = EventWrite
	} else if event.Op&fsnotify.Rename == fsnotify.Rename {
		eventType = EventMove
	} else if event.Op&fsnotify.Remove == fsnotify.Remove {
		eventType = EventDelete
	}

	w.logger.Debug("watcher", "file event",
		logging.F("type", string(eventType)),
		logging.F("file", filepath.Base(event.Name)))

	return w.handler.RootChanged(ctx, root)
}

// owningRoot maps an event path back to the tracked root it lives under.
func (w *Watcher) owningRoot(path string) string {
	for _, root := range w.roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return root
		}
	}
	return ""
}
