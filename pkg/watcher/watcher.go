// Package watcher observes a catalog directory for entity file changes and
// emits batched change events that drive context map rebuilds.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/suren2787/contextmap/pkg/logging"
)

// ChangeEvent represents a batch of catalog file changes
type ChangeEvent struct {
	Paths     []string
	Timestamp time.Time
}

// CatalogWatcher watches a catalog directory for entity YAML changes
type CatalogWatcher struct {
	watcher *fsnotify.Watcher
	dir     string
	events  chan ChangeEvent
}

// NewCatalogWatcher creates a new file system watcher over a catalog directory
func NewCatalogWatcher(dir string) (*CatalogWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &CatalogWatcher{
		watcher: watcher,
		dir:     dir,
		events:  make(chan ChangeEvent, 100),
	}, nil
}

// Start begins watching for entity file changes. All subdirectories are
// watched; fsnotify does not recurse on its own.
func (cw *CatalogWatcher) Start(ctx context.Context) error {
	if err := cw.watchTree(); err != nil {
		return err
	}

	logging.Info("started watching catalog", "path", cw.dir)
	go cw.processEvents(ctx)
	return nil
}

// watchTree adds the catalog directory and all its subdirectories
func (cw *CatalogWatcher) watchTree() error {
	err := filepath.Walk(cw.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip entries we can't access
		}
		if !info.IsDir() {
			return nil
		}
		if strings.HasPrefix(info.Name(), ".") && path != cw.dir {
			return filepath.SkipDir
		}
		if err := cw.watcher.Add(path); err != nil {
			logging.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk catalog directory: %w", err)
	}
	return nil
}

// processEvents batches file system events so one save does not trigger a
// rebuild per write syscall
func (cw *CatalogWatcher) processEvents(ctx context.Context) {
	var pending []string

	flushTimer := time.NewTimer(100 * time.Millisecond)
	flushTimer.Stop()

	flush := func() {
		if len(pending) == 0 {
			return
		}
		cw.events <- ChangeEvent{
			Paths:     pending,
			Timestamp: time.Now(),
		}
		pending = nil
	}

	for {
		select {
		case <-ctx.Done():
			cw.watcher.Close()
			close(cw.events)
			return

		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}

			name := filepath.Base(event.Name)
			if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
				pending = append(pending, event.Name)
				flushTimer.Reset(100 * time.Millisecond)
			} else if event.Op&fsnotify.Create != 0 {
				// A new subdirectory may hold future entity files
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := cw.watcher.Add(event.Name); err != nil {
						logging.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
				}
			}

		case <-flushTimer.C:
			flush()

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("watcher error", "error", err)
		}
	}
}

// Events returns the channel of change events
func (cw *CatalogWatcher) Events() <-chan ChangeEvent {
	return cw.events
}

// Stop stops the catalog watcher
func (cw *CatalogWatcher) Stop() error {
	return cw.watcher.Close()
}
