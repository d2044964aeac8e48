package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce is the default debounce interval for file watch events.
const DefaultWatchDebounce = 500 * time.Millisecond

// Watcher reloads a config file when it changes on disk. It runs as a
// supervised service; each successful reload is handed to OnReload.
type Watcher struct {
	Path     string
	Debounce time.Duration
	OnReload func(*LoadResult)
	Logger   *slog.Logger
}

func (w *Watcher) String() string {
	return "config-watcher"
}

// Serve watches until ctx is done. Load errors are logged and the previous
// configuration stays in effect.
func (w *Watcher) Serve(ctx context.Context) error {
	log := w.Logger
	if log == nil {
		log = slog.Default()
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	// Watch the directory so editors that replace the file by rename keep
	// triggering events.
	dir := filepath.Dir(w.Path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	absPath, _ := filepath.Abs(w.Path)
	baseName := filepath.Base(w.Path)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return fmt.Errorf("file watcher closed")
			}
			eventAbs, _ := filepath.Abs(event.Name)
			if filepath.Base(event.Name) != baseName && eventAbs != absPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(debounce)
			fire = timer.C

		case <-fire:
			timer, fire = nil, nil
			res, err := LoadFromPath(w.Path)
			if err != nil {
				log.Warn("config reload failed", "path", w.Path, "error", err)
				continue
			}
			log.Info("config reloaded", "path", w.Path)
			if w.OnReload != nil {
				w.OnReload(res)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return fmt.Errorf("file watcher closed")
			}
			log.Warn("config watch error", "error", err)
		}
	}
}
