package server

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/blogsmith/blogsmith/internal/logfields"
)

// debounceWindow coalesces editor save bursts into one rebuild.
const debounceWindow = 300 * time.Millisecond

// Rebuild is the callback a Watcher drives.
type Rebuild func() error

// Watcher triggers rebuilds when watched trees change.
type Watcher struct {
	paths   []string
	rebuild Rebuild
	health  *Health
	metrics *Metrics
}

// NewWatcher watches the given directories (recursively) and files.
func NewWatcher(paths []string, rebuild Rebuild, health *Health, metrics *Metrics) *Watcher {
	return &Watcher{paths: paths, rebuild: rebuild, health: health, metrics: metrics}
}

// Run blocks until the context is canceled. The initial build is the
// caller's business; Run only reacts to changes.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer fsw.Close()

	for _, p := range w.paths {
		if err := addRecursive(fsw, p); err != nil {
			return err
		}
	}

	rebuildReq := make(chan struct{}, 1)
	trigger := newDebouncer(rebuildReq)

	go w.rebuildLoop(ctx, rebuildReq)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if skipEvent(event) {
				continue
			}
			// New directories need watches of their own.
			if event.Op.Has(fsnotify.Create) {
				if st, err := os.Stat(event.Name); err == nil && st.IsDir() {
					_ = addRecursive(fsw, event.Name)
				}
			}
			slog.Debug("change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			trigger()
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) rebuildLoop(ctx context.Context, rebuildReq <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-rebuildReq:
			start := time.Now()
			err := w.rebuild()
			if w.metrics != nil {
				w.metrics.ObserveBuild(time.Since(start), err)
			}
			if err != nil {
				slog.Error("rebuild failed", logfields.Error(err))
				if w.health != nil {
					w.health.SetError(err)
				}
				continue
			}
			if w.health != nil {
				w.health.SetOK()
			}
			slog.Info("site rebuilt", logfields.DurationMS(float64(time.Since(start).Milliseconds())))
		}
	}
}

// newDebouncer returns a trigger that arms a timer; repeated triggers
// within the window collapse into a single request.
func newDebouncer(rebuildReq chan<- struct{}) func() {
	var mu sync.Mutex
	var timer *time.Timer
	return func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounceWindow, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
}

func addRecursive(fsw *fsnotify.Watcher, root string) error {
	st, err := os.Stat(root)
	if err != nil {
		// Watched paths are allowed to be absent (optional extra dir).
		return nil
	}
	if !st.IsDir() {
		return fsw.Add(root)
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return fs.SkipDir
		}
		return fsw.Add(path)
	})
}

// skipEvent drops noise: chmod-only events and editor temp files.
func skipEvent(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return true
	}
	base := filepath.Base(event.Name)
	if strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp") || strings.HasSuffix(base, ".tmp") {
		return true
	}
	return false
}
