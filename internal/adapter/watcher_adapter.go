package adapter

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	m "gdshadow.dev/pkg/gdshadow/internal/model"
)

const defaultDebounce = 250 * time.Millisecond

// WatchAdapter reports batches of changed paths under a set of directories.
type WatchAdapter interface {
	// Watch blocks until ctx is done, calling onChange once per debounced
	// batch of changes.
	Watch(ctx context.Context, roots []m.Path, debounce time.Duration, onChange func(changed []m.Path)) error
}

// FSNotifyWatchAdapter is the fsnotify-backed WatchAdapter.
type FSNotifyWatchAdapter struct{}

// NewFSNotifyWatchAdapter constructs an FSNotifyWatchAdapter.
func NewFSNotifyWatchAdapter() *FSNotifyWatchAdapter {
	return &FSNotifyWatchAdapter{}
}

// Watch registers every directory under roots and debounces events.
func (a *FSNotifyWatchAdapter) Watch(ctx context.Context, roots []m.Path, debounce time.Duration, onChange func(changed []m.Path)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	defer func() { _ = watcher.Close() }()

	for _, root := range roots {
		if err := addWatchRecursive(watcher, string(root)); err != nil {
			return err
		}
	}

	if debounce <= 0 {
		debounce = defaultDebounce
	}

	timer := time.NewTimer(time.Hour)
	stopTimer(timer)

	defer timer.Stop()

	pending := map[string]bool{}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			path := filepath.Clean(event.Name)
			if shouldIgnoreWatchPath(path) {
				continue
			}

			if event.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
					_ = addWatchRecursive(watcher, path)
				}
			}

			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if len(pending) > 0 {
				stopTimer(timer)
			}

			pending[path] = true

			timer.Reset(debounce)
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}

			changed := make([]m.Path, 0, len(pending))
			for path := range pending {
				changed = append(changed, m.Path(path))
			}

			sort.Slice(changed, func(i, j int) bool { return changed[i] < changed[j] })

			pending = map[string]bool{}

			onChange(changed)
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			return watchErr
		}
	}
}

func stopTimer(timer *time.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}

func addWatchRecursive(watcher *fsnotify.Watcher, root string) error {
	root = filepath.Clean(root)

	return filepath.WalkDir(root, func(path string, entry os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if !entry.IsDir() {
			return nil
		}

		if path != root && strings.HasPrefix(entry.Name(), ".") {
			return filepath.SkipDir
		}

		return watcher.Add(path)
	})
}

func shouldIgnoreWatchPath(path string) bool {
	base := filepath.Base(path)

	return strings.HasPrefix(base, ".") || strings.HasSuffix(base, ".swp") || strings.HasSuffix(base, "~")
}
