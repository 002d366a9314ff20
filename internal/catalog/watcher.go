package catalog

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"ranfeat/internal/feature"
	"ranfeat/pkg/logging"
)

// Watcher reloads a Catalog when its snapshot file changes on disk.
//
// The parent directory is watched rather than the file itself because the
// build step replaces features.json by rename. Bursts of events are folded
// into one reload after the debounce interval.
type Watcher struct {
	mu sync.Mutex

	catalog  *Catalog
	dir      string
	file     string
	debounce time.Duration
	onReload func(*View, error)

	watcher *fsnotify.Watcher
	timer   *time.Timer
	stopCh  chan struct{}
	running bool
}

// NewWatcher creates a watcher for c. onReload, when set, is called after
// every reload attempt.
func NewWatcher(c *Catalog, debounce time.Duration, onReload func(*View, error)) *Watcher {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	dir, file := snapshotLocation(c.Path())
	return &Watcher{
		catalog:  c,
		dir:      dir,
		file:     file,
		debounce: debounce,
		onReload: onReload,
		stopCh:   make(chan struct{}),
	}
}

func snapshotLocation(path string) (dir, file string) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return path, feature.SnapshotFile
	}
	return filepath.Dir(path), filepath.Base(path)
}

// Start begins watching until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	if err := watcher.Add(w.dir); err != nil {
		_ = watcher.Close()
		w.mu.Unlock()
		return err
	}

	w.watcher = watcher
	w.running = true
	w.stopCh = make(chan struct{})
	w.mu.Unlock()

	go w.processEvents(ctx)

	logging.Info("CatalogWatcher", "Watching %s for snapshot changes", filepath.Join(w.dir, w.file))
	return nil
}

// Stop ends watching. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	w.running = false
	close(w.stopCh)
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	if w.watcher != nil {
		_ = w.watcher.Close()
	}
}

func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
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
			logging.Error("CatalogWatcher", err, "Filesystem watcher error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Base(event.Name) != w.file {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	v, err := w.catalog.Reload()
	if err != nil {
		logging.Error("CatalogWatcher", err, "Reload failed, keeping generation %d", w.catalog.View().Generation)
	}
	if w.onReload != nil {
		w.onReload(v, err)
	}
}
