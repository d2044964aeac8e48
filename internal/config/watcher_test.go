package config

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func startWatcher(t *testing.T, w *Watcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Serve(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	// Give watcher time to start
	time.Sleep(100 * time.Millisecond)
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.yaml", "display:\n  fps: 30\n")

	var reloads atomic.Int32
	var lastFPS atomic.Int32
	startWatcher(t, &Watcher{
		Path:     path,
		Debounce: 50 * time.Millisecond,
		OnReload: func(res *LoadResult) {
			reloads.Add(1)
			lastFPS.Store(int32(res.Config.Display.FPS))
		},
	})

	if err := os.WriteFile(path, []byte("display:\n  fps: 24\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	time.Sleep(300 * time.Millisecond)

	if got := reloads.Load(); got != 1 {
		t.Fatalf("expected 1 reload, got %d", got)
	}
	if got := lastFPS.Load(); got != 24 {
		t.Fatalf("expected fps 24 after reload, got %d", got)
	}
}

func TestWatcher_DebounceAndIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.yaml", "watch: true\n")

	var reloads atomic.Int32
	startWatcher(t, &Watcher{
		Path:     path,
		Debounce: 100 * time.Millisecond,
		OnReload: func(*LoadResult) { reloads.Add(1) },
	})

	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("watch: false\n"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(400 * time.Millisecond)

	if got := reloads.Load(); got != 1 {
		t.Fatalf("expected 1 debounced reload, got %d", got)
	}
}

func TestWatcher_InvalidConfigKeepsRunning(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.yaml", "watch: true\n")

	var reloads atomic.Int32
	startWatcher(t, &Watcher{
		Path:     path,
		Debounce: 50 * time.Millisecond,
		OnReload: func(*LoadResult) { reloads.Add(1) },
	})

	if err := os.WriteFile(path, []byte("bogus: [\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	time.Sleep(250 * time.Millisecond)
	if got := reloads.Load(); got != 0 {
		t.Fatalf("expected no reload for invalid config, got %d", got)
	}

	if err := os.WriteFile(path, []byte("watch: false\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	time.Sleep(250 * time.Millisecond)
	if got := reloads.Load(); got != 1 {
		t.Fatalf("expected reload after fix, got %d", got)
	}
}
