// Package eventlog writes window lifecycle notifications to a rotating file.
package eventlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/1broseidon/softx/internal/config"
	"github.com/1broseidon/softx/internal/display"
)

// Level defines the logging verbosity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Kind is the tag written between brackets on each line.
type Kind string

const (
	KindCreated   Kind = "CREATED"
	KindMapped    Kind = "MAPPED"
	KindUnmapped  Kind = "UNMAPPED"
	KindDestroyed Kind = "DESTROYED"
	KindFocused   Kind = "FOCUSED"
	KindSession   Kind = "SESSION"
)

func kindOf(k display.EventKind) Kind {
	switch k {
	case display.EventCreated:
		return KindCreated
	case display.EventMapped:
		return KindMapped
	case display.EventUnmapped:
		return KindUnmapped
	case display.EventDestroyed:
		return KindDestroyed
	case display.EventFocused:
		return KindFocused
	default:
		return Kind(strings.ToUpper(k.String()))
	}
}

// Focus changes follow every click, so they only show at debug level.
func kindLevel(k Kind) Level {
	if k == KindFocused {
		return LevelDebug
	}
	return LevelInfo
}

// Config holds the event log settings.
type Config struct {
	Enabled   bool
	Level     Level
	FilePath  string
	MaxSizeMB int
	MaxFiles  int
	Session   string
}

// FromConfig builds a Config from the loaded application config.
func FromConfig(cfg *config.Config, session string) Config {
	el := cfg.GetEventLogConfig()
	return Config{
		Enabled:   el.Enabled,
		Level:     ParseLevel(cfg.Logging.Level),
		FilePath:  el.File,
		MaxSizeMB: el.MaxSizeMB,
		MaxFiles:  el.MaxFiles,
		Session:   session,
	}
}

// Logger appends lifecycle lines to a file, rotating it by size.
type Logger struct {
	mu          sync.Mutex
	file        *os.File
	config      Config
	currentSize int64
	now         func() time.Time
}

// New opens the log file. A disabled config returns a logger that drops everything.
func New(cfg Config) (*Logger, error) {
	if !cfg.Enabled {
		return &Logger{config: cfg}, nil
	}

	dir := filepath.Dir(cfg.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", cfg.FilePath, err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat log file: %w", err)
	}

	l := &Logger{
		file:        f,
		config:      cfg,
		currentSize: stat.Size(),
		now:         time.Now,
	}
	if cfg.Session != "" {
		l.write(KindSession, fmt.Sprintf(" session=%s", cfg.Session))
	}
	return l, nil
}

// Attach subscribes the logger to server notifications and returns the
// cancel func.
func (l *Logger) Attach(server *display.Server) func() {
	return server.Subscribe(l.Handle)
}

// Handle records one notification.
func (l *Logger) Handle(ev display.Event) {
	if ev.Window == nil {
		return
	}
	w := ev.Window
	l.Log(kindOf(ev.Kind), fmt.Sprintf(" window=%d name=%q", w.ID(), w.Name()))
}

// Log records a line with a preformatted detail suffix.
func (l *Logger) Log(kind Kind, details string) {
	if l == nil || !l.config.Enabled {
		return
	}
	if kindLevel(kind) < l.config.Level {
		return
	}
	l.write(kind, details)
}

func (l *Logger) write(kind Kind, details string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return
	}

	maxBytes := int64(l.config.MaxSizeMB) * 1024 * 1024
	if maxBytes > 0 && l.currentSize >= maxBytes {
		if err := l.rotate(); err != nil {
			fmt.Fprintf(os.Stderr, "event log rotation failed: %v\n", err)
		}
		if l.file == nil {
			return
		}
	}

	var sb strings.Builder
	sb.WriteString(l.now().Format("2006-01-02 15:04:05"))
	sb.WriteString(" [")
	sb.WriteString(string(kind))
	sb.WriteString("]")
	sb.WriteString(details)
	sb.WriteString("\n")

	n, err := l.file.WriteString(sb.String())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to write event log entry: %v\n", err)
		return
	}
	l.currentSize += int64(n)
}

// Close closes the file.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// rotate shifts events.log -> events.log.1 -> ... and drops the oldest beyond MaxFiles.
func (l *Logger) rotate() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}

	basePath := l.config.FilePath
	for i := l.config.MaxFiles; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", basePath, i)
		if i == l.config.MaxFiles {
			os.Remove(oldPath)
			continue
		}
		os.Rename(oldPath, fmt.Sprintf("%s.%d", basePath, i+1))
	}

	if l.config.MaxFiles > 0 {
		if err := os.Rename(basePath, basePath+".1"); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to rotate log file: %w", err)
		}
	} else {
		os.Remove(basePath)
	}

	f, err := os.OpenFile(basePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open new log file: %w", err)
	}
	l.file = f
	l.currentSize = 0
	return nil
}

// ParseLevel converts a config level string. Unknown values mean info.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}
