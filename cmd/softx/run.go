package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/1broseidon/softx/internal/config"
	"github.com/1broseidon/softx/internal/eventlog"
	"github.com/1broseidon/softx/internal/host"
	"github.com/1broseidon/softx/internal/mcp"
	"github.com/1broseidon/softx/internal/platform"
	"github.com/1broseidon/softx/internal/service"
)

func printRunUsage(w *os.File) {
	fmt.Fprintln(w, "Usage: softx run [--path PATH] [--backend ebiten|x11|headless] [--mcp] [--log-level LEVEL]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Start a session with the configured panels. Titled panels are decorated by")
	fmt.Fprintln(w, "the built-in window manager: drag the titlebar to move, drag a corner grip to")
	fmt.Fprintln(w, "resize, click the close box to destroy.")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "With --mcp the session is also controllable over MCP on stdio, e.g.:")
	fmt.Fprintln(w, "  claude mcp add softx -- softx run --mcp")
}

func runRun(args []string) int {
	if isHelp(args) {
		printRunUsage(os.Stdout)
		return 0
	}

	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/softx/config.yaml)")
	backend := fs.String("backend", "", "Output backend: ebiten, x11 or headless (default: from config)")
	enableMCP := fs.Bool("mcp", false, "Serve MCP on stdio (overrides mcp.enabled)")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn or error (default: from config)")
	session := fs.String("session", "", "Session id (default: random uuid)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config
	if *backend != "" {
		cfg.Backend = config.Backend(*backend)
	}
	if *enableMCP {
		cfg.MCP.Enabled = true
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	logger := newLogger(cfg.Logging.Level)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runSession(ctx, res, *session, logger); err != nil {
		logger.Error("session failed", "error", err)
		return 1
	}
	return 0
}

func runSession(ctx context.Context, res *config.LoadResult, session string, logger *slog.Logger) error {
	cfg := res.Config
	h := host.New(host.Options{Config: cfg, Logger: logger, Session: session})
	defer h.Close()

	events, err := eventlog.New(eventlog.FromConfig(cfg, h.Session()))
	if err != nil {
		logger.Warn("event log disabled", "error", err)
	} else {
		defer events.Close()
		detach := events.Attach(h.Server())
		defer detach()
	}

	if _, err := h.SpawnPanels(cfg.Panels, cfg.Placement); err != nil {
		logger.Warn("some panels were not created", "error", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	apply := func(r *config.LoadResult) {
		err := h.Exec(ctx, func(h *host.Host) error {
			h.ApplyConfig(r.Config)
			return nil
		})
		if err != nil && !errors.Is(err, host.ErrClosed) && !errors.Is(err, context.Canceled) {
			logger.Warn("config apply failed", "error", err)
		}
	}

	super := service.New("softx", logger)
	service.Add(super, service.NewFunc("sighup-reload", func(ctx context.Context) error {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGHUP)
		defer signal.Stop(sigCh)
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-sigCh:
				logger.Info("received SIGHUP, reloading config", "path", res.Path)
				r, err := config.LoadFromPath(res.Path)
				if err != nil {
					logger.Warn("config reload failed", "error", err)
					continue
				}
				apply(r)
			}
		}
	}))
	if cfg.MCP.Enabled {
		service.Add(super, mcp.NewServer(h, cfg, logger))
	}
	if cfg.Watch {
		if _, err := os.Stat(filepath.Dir(res.Path)); err != nil {
			logger.Warn("config watch disabled", "path", res.Path, "error", err)
		} else {
			service.Add(super, &config.Watcher{
				Path:     res.Path,
				Logger:   logger,
				OnReload: apply,
			})
		}
	}
	superDone := super.ServeBackground(ctx)

	err = present(ctx, h, cfg, logger)

	cancel()
	h.Close()
	if superErr := <-superDone; superErr != nil && !errors.Is(superErr, context.Canceled) {
		logger.Debug("supervisor stopped", "error", superErr)
	}
	return err
}

// present drives h with the configured backend until the output closes or
// ctx is done.
func present(ctx context.Context, h *host.Host, cfg *config.Config, logger *slog.Logger) error {
	d := cfg.Display
	logger.Info("starting output", "backend", cfg.Backend, "width", d.Width, "height", d.Height)

	switch cfg.Backend {
	case config.BackendEbiten:
		game := platform.NewEbitenGame(platform.EbitenConfig{
			Width:  d.Width,
			Height: d.Height,
			Title:  d.Title,
			TPS:    d.FPS,
		}, h)
		return game.Run(ctx)

	case config.BackendX11:
		b, err := platform.NewX11Backend(d.Title, d.Width, d.Height)
		if err != nil {
			return err
		}
		defer b.Close()
		return h.Run(ctx, b)

	case config.BackendHeadless:
		b := platform.NewHeadless(d.Width, d.Height)
		defer b.Close()
		return h.Run(ctx, b)

	default:
		return fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
