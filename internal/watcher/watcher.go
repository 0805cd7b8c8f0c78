// Package watcher reports edits to a fixed set of files.
package watcher

import (
	"Aviary/internal/logger"
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce groups the burst of events an editor save produces.
const DefaultDebounce = 150 * time.Millisecond

// Watch delivers a path from paths each time that file is written or
// replaced, once the file has been quiet for DefaultDebounce. Paths come back exactly as
// given. The channel is closed once ctx is done.
func Watch(ctx context.Context, paths []string) (<-chan string, error) {
	return watch(ctx, paths, DefaultDebounce)
}

func watch(ctx context.Context, paths []string, debounce time.Duration) (<-chan string, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	// Directories are watched rather than files so editors that save by
	// renaming a temp file over the original are still seen.
	watched := make(map[string]string, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("watch %s: %w", p, err)
		}
		watched[abs] = p
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	out := make(chan string, len(paths))
	go run(ctx, w, watched, debounce, out)
	logger.Log.Info("Watching files", zap.Strings("paths", paths), zap.Int("directories", len(dirs)))
	return out, nil
}

func run(ctx context.Context, w *fsnotify.Watcher, watched map[string]string, debounce time.Duration, out chan<- string) {
	defer close(out)
	defer w.Close()

	pending := make(map[string]bool)
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			original, interesting := watched[filepath.Clean(event.Name)]
			if !interesting || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)) {
				continue
			}
			logger.Log.Debug("File event", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			pending[original] = true
			resetTimer(timer, debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Log.Warn("File watcher error", zap.Error(err))
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			clear(pending)
			for _, p := range changed {
				select {
				case out <- p:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

// resetTimer restarts t, dropping a tick that fired but was not read.
func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}
