// Package host runs a softx session: it owns the display server, the window
// manager and the compositor, and advances them one tick at a time.
//
// All session state lives on the tick goroutine. Other goroutines reach it
// through Exec.
package host

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/1broseidon/softx/internal/canvas"
	"github.com/1broseidon/softx/internal/compositor"
	"github.com/1broseidon/softx/internal/config"
	"github.com/1broseidon/softx/internal/display"
	"github.com/1broseidon/softx/internal/panel"
	"github.com/1broseidon/softx/internal/platform"
	"github.com/1broseidon/softx/internal/wm"
)

// ErrClosed is returned by Exec after the host was closed.
var ErrClosed = errors.New("host closed")

const commandQueueSize = 64

// Input is the per-tick input sample.
type Input struct {
	DeltaTime time.Duration
	X         int
	Y         int
	LeftDown  bool
}

// Frame reports the result of one tick.
type Frame struct {
	Stats compositor.Stats
	// Changed is true when the presented image may differ from the last one.
	Changed bool
}

type command struct {
	fn     func(*Host) error
	result chan error
}

// Options configures a Host.
type Options struct {
	Config  *config.Config
	Logger  *slog.Logger
	Session string // generated when empty
}

// Host is one compositing session.
type Host struct {
	cfg     *config.Config
	log     *slog.Logger
	session string

	server *display.Server
	twm    *wm.Twm
	comp   *compositor.Compositor
	target *canvas.Surface
	output *canvas.Surface

	background uint32
	dirty      bool
	prevDown   bool
	ticks      uint64

	animators map[uint32]*panel.Animator

	commands  chan command
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a session sized from cfg.Display.
func New(opts Options) *Host {
	cfg := config.DefaultConfig()
	if opts.Config != nil {
		c := *opts.Config
		cfg = &c
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	session := opts.Session
	if session == "" {
		session = uuid.NewString()
	}
	logger = logger.With("component", "host", "session", session)

	server := display.NewServer()
	h := &Host{
		cfg:        cfg,
		log:        logger,
		session:    session,
		server:     server,
		comp:       compositor.New(),
		target:     canvas.NewSurface(cfg.Display.Width, cfg.Display.Height),
		output:     canvas.NewSurface(cfg.Display.Width, cfg.Display.Height),
		background: cfg.Display.Background.ARGB(),
		dirty:      true,
		animators:  make(map[uint32]*panel.Animator),
		commands:   make(chan command, commandQueueSize),
		done:       make(chan struct{}),
	}
	h.twm = wm.New(server, TwmOptions(cfg, opts.Logger))
	server.Subscribe(h.handleEvent)
	return h
}

// TwmOptions maps the decoration config onto window manager options.
func TwmOptions(cfg *config.Config, logger *slog.Logger) wm.Options {
	d := cfg.Decorations
	return wm.Options{
		TitlebarHeight: d.TitlebarHeight,
		GripSize:       d.GripSize,
		MinWidth:       d.MinWidth,
		MinHeight:      d.MinHeight,
		Theme: wm.Theme{
			Titlebar:        d.Colors.Titlebar.ARGB(),
			TitlebarFocused: d.Colors.TitlebarFocused.ARGB(),
			TitleText:       d.Colors.TitleText.ARGB(),
			CloseBox:        d.Colors.CloseBox.ARGB(),
			Grip:            d.Colors.Grip.ARGB(),
		},
		Logger: logger,
	}
}

func (h *Host) handleEvent(ev display.Event) {
	if ev.Kind == display.EventDestroyed {
		delete(h.animators, ev.Window.ID())
	}
}

func (h *Host) Server() *display.Server { return h.server }
func (h *Host) Twm() *wm.Twm             { return h.twm }
func (h *Host) Config() *config.Config   { return h.cfg }
func (h *Host) Session() string          { return h.session }

// Size returns the target size in pixels.
func (h *Host) Size() (int, int) { return h.target.Width, h.target.Height }

// Output returns the opaque frame produced by the last tick.
func (h *Host) Output() *canvas.Surface { return h.output }

// Tick advances the session: queued commands, panel animation, window
// manager update, pointer handling, then compositing.
func (h *Host) Tick(in Input) Frame {
	h.drain()

	for _, a := range h.animators {
		a.Step(in.DeltaTime)
	}

	manager := h.server.WindowManager()
	if manager != nil {
		manager.Update()
	}

	pressed := in.LeftDown && !h.prevDown
	released := !in.LeftDown && h.prevDown
	h.prevDown = in.LeftDown
	if manager != nil {
		manager.HandleMouse(in.X, in.Y, in.LeftDown, pressed, released)
	}

	stats := h.comp.Compose(h.server, h.target)
	changed := stats.Changed() || h.dirty
	if changed {
		h.target.FlattenInto(h.output, h.background)
		h.dirty = false
	}
	h.ticks++
	return Frame{Stats: stats, Changed: changed}
}

// Ticks returns the number of completed ticks.
func (h *Host) Ticks() uint64 { return h.ticks }

// Advance implements platform.Driver.
func (h *Host) Advance(dt time.Duration, p platform.Pointer) (*canvas.Surface, bool) {
	f := h.Tick(Input{DeltaTime: dt, X: p.X, Y: p.Y, LeftDown: p.LeftDown})
	return h.output, f.Changed
}

var _ platform.Driver = (*Host)(nil)

// Run ticks at the configured rate, sampling the pointer from backend and
// presenting changed frames. It returns nil when ctx is done or the backend
// window is closed.
func (h *Host) Run(ctx context.Context, backend platform.Backend) error {
	fps := h.cfg.Display.FPS
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	h.log.Info("session started", "fps", fps, "width", h.target.Width, "height", h.target.Height)
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-h.done:
			return nil
		case now := <-ticker.C:
			p, err := backend.Pointer()
			if errors.Is(err, platform.ErrClosed) {
				h.log.Info("output closed")
				return nil
			}
			if err != nil {
				return err
			}

			f := h.Tick(Input{DeltaTime: now.Sub(last), X: p.X, Y: p.Y, LeftDown: p.LeftDown})
			last = now
			if !f.Changed {
				continue
			}
			if err := backend.Present(h.output); err != nil {
				if errors.Is(err, platform.ErrClosed) {
					return nil
				}
				return err
			}
		}
	}
}

// Exec queues fn for the next tick and waits for its result.
func (h *Host) Exec(ctx context.Context, fn func(*Host) error) error {
	cmd := command{fn: fn, result: make(chan error, 1)}
	select {
	case h.commands <- cmd:
	case <-h.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-cmd.result:
		return err
	case <-h.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Host) drain() {
	for {
		select {
		case cmd := <-h.commands:
			cmd.result <- cmd.fn(h)
		default:
			return
		}
	}
}

// Close stops accepting commands. Waiting Exec calls return ErrClosed.
func (h *Host) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
		h.log.Debug("session closed", "ticks", h.ticks)
	})
}

// ApplyConfig applies the settings that can change at runtime: background
// and decorations. Display size and backend need a restart.
func (h *Host) ApplyConfig(cfg *config.Config) {
	if cfg.Display.Width != h.target.Width || cfg.Display.Height != h.target.Height {
		h.log.Warn("display size change needs a restart",
			"width", cfg.Display.Width, "height", cfg.Display.Height)
	}
	h.background = cfg.Display.Background.ARGB()
	h.twm.SetOptions(TwmOptions(cfg, h.twm.Options().Logger))
	h.cfg.Display.Background = cfg.Display.Background
	h.cfg.Decorations = cfg.Decorations
	h.dirty = true
	h.log.Info("configuration applied")
}
