package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Dir returns the runtime directory for softx session files. Priority:
// 1) XDG_RUNTIME_DIR (if set)
// 2) /run/user/<uid> (if present)
// 3) /tmp/softx-runtime-<uid> (created)
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	uid := os.Getuid()
	runUserDir := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return runUserDir, nil
	}

	tmpDir := fmt.Sprintf("/tmp/softx-runtime-%d", uid)
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// ScreenshotDir returns dir, or <runtime dir>/softx-screenshots when dir is
// empty. The directory is created.
func ScreenshotDir(dir string) (string, error) {
	if dir == "" {
		runtimeDir, err := Dir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(runtimeDir, "softx-screenshots")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create screenshot dir: %w", err)
	}
	return dir, nil
}

// ScreenshotPath returns a timestamped PNG path inside ScreenshotDir(dir).
func ScreenshotPath(dir string, now time.Time) (string, error) {
	dir, err := ScreenshotDir(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "softx-"+now.Format("20060102-150405.000")+".png"), nil
}
