// Package wm implements Twm, the reference window manager. Twm wraps each
// titled window in a decorated frame window and turns mouse ticks into
// drag, resize and close actions.
package wm

import (
	"log/slog"
	"strings"

	"github.com/1broseidon/softx/internal/display"
)

const (
	DefaultTitlebarHeight = 16
	MinTitlebarHeight     = 8
	DefaultGripSize       = 8
	MinContentWidth       = 10
	MinContentHeight      = 6

	// FramePrefix tags frame window names so auto-wrap skips them.
	FramePrefix = "twm.frame:"
)

// Options configures a Twm. Zero values select defaults.
type Options struct {
	TitlebarHeight int
	GripSize       int
	MinWidth       int
	MinHeight      int
	Theme          Theme
	Logger         *slog.Logger
}

func (o Options) normalized() Options {
	if o.TitlebarHeight == 0 {
		o.TitlebarHeight = DefaultTitlebarHeight
	}
	if o.TitlebarHeight < MinTitlebarHeight {
		o.TitlebarHeight = MinTitlebarHeight
	}
	if o.GripSize <= 0 {
		o.GripSize = DefaultGripSize
	}
	if o.MinWidth < MinContentWidth {
		o.MinWidth = MinContentWidth
	}
	if o.MinHeight < MinContentHeight {
		o.MinHeight = MinContentHeight
	}
	if o.Theme == (Theme{}) {
		o.Theme = DefaultTheme()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Twm is the wrapping window manager.
type Twm struct {
	server *display.Server
	opts   Options
	log    *slog.Logger

	frames  map[uint32]*display.Window // client id -> frame
	clients map[uint32]*display.Window // frame id -> client
	titles  map[uint32]*titleMask      // frame id -> rendered title

	// released holds clients remapped by Unwrap so the map notification
	// does not wrap them straight back.
	released map[uint32]struct{}

	state       *State
	unsubscribe func()
}

var _ display.WindowManager = (*Twm)(nil)

// New attaches a Twm to the server. It panics if server is nil.
func New(server *display.Server, opts Options) *Twm {
	if server == nil {
		panic("wm: nil display server")
	}
	opts = opts.normalized()
	t := &Twm{
		server:   server,
		opts:     opts,
		log:      opts.Logger.With("component", "twm"),
		frames:   make(map[uint32]*display.Window),
		clients:  make(map[uint32]*display.Window),
		titles:   make(map[uint32]*titleMask),
		released: make(map[uint32]struct{}),
		state:    NewState(),
	}
	t.unsubscribe = server.Subscribe(t.handleEvent)
	server.SetWindowManager(t)
	return t
}

// Detach stops listening to the server. Existing frames stay in place.
func (t *Twm) Detach() {
	if t.unsubscribe != nil {
		t.unsubscribe()
		t.unsubscribe = nil
	}
	if t.server.WindowManager() == display.WindowManager(t) {
		t.server.SetWindowManager(nil)
	}
}

// Options returns the effective options.
func (t *Twm) Options() Options { return t.opts }

// SetOptions replaces the decoration settings. Frames pick them up on the next Update.
func (t *Twm) SetOptions(opts Options) {
	if opts.Logger == nil {
		opts.Logger = t.opts.Logger
	}
	t.opts = opts.normalized()
	clear(t.titles)
}

// State returns the current interaction state. Callers must not modify it.
func (t *Twm) State() *State { return t.state }

// IsFrame reports whether w was created by a window manager as a frame.
func IsFrame(w *display.Window) bool {
	return w != nil && strings.HasPrefix(w.Name(), FramePrefix)
}

func (t *Twm) IsWrapped(client *display.Window) bool {
	if client == nil {
		return false
	}
	_, ok := t.frames[client.ID()]
	return ok
}

// FrameOf returns the frame wrapping client.
func (t *Twm) FrameOf(client *display.Window) (*display.Window, bool) {
	if client == nil {
		return nil, false
	}
	f, ok := t.frames[client.ID()]
	return f, ok
}

// ClientOf returns the client wrapped by frame.
func (t *Twm) ClientOf(frame *display.Window) (*display.Window, bool) {
	if frame == nil {
		return nil, false
	}
	c, ok := t.clients[frame.ID()]
	return c, ok
}

func (t *Twm) handleEvent(ev display.Event) {
	w := ev.Window
	switch ev.Kind {
	case display.EventMapped:
		if _, ok := t.released[w.ID()]; ok {
			delete(t.released, w.ID())
			return
		}
		if IsFrame(w) || t.IsWrapped(w) || w.Style() != display.StyleTitled {
			return
		}
		t.Wrap(w)

	case display.EventDestroyed:
		if frame, ok := t.frames[w.ID()]; ok {
			t.forget(w, frame)
			t.server.DestroyWindow(frame)
			t.log.Debug("client destroyed, dropping frame", "client", w.ID(), "frame", frame.ID())
		} else if client, ok := t.clients[w.ID()]; ok {
			t.forget(client, w)
			t.server.DestroyWindow(client)
			t.log.Debug("frame destroyed, closing client", "client", client.ID(), "frame", w.ID())
		}
		delete(t.released, w.ID())
		if t.state.Involves(w) {
			t.state.Reset()
		}
	}
}

// Wrap creates a decorated frame for client. It returns false if the client
// is already wrapped, is itself a frame, or is not a live window.
func (t *Twm) Wrap(client *display.Window) bool {
	if client == nil || client.Destroyed() || IsFrame(client) || t.IsWrapped(client) {
		return false
	}
	if _, live := t.server.Window(client.ID()); !live {
		return false
	}

	cx, cy := client.Position()
	cw, ch := client.ContentSize()
	frame := t.server.CreateWindow(
		FramePrefix+client.Name(),
		client.Title(),
		rect(cx, cy, cw, ch+t.opts.TitlebarHeight),
		display.StyleBorderless,
		client.Scale(),
	)
	t.frames[client.ID()] = frame
	t.clients[frame.ID()] = client
	delete(t.released, client.ID())

	t.syncGeometry(client, frame)
	t.server.MapWindow(frame)
	t.server.UnmapWindow(client)

	t.log.Debug("wrapped window", "client", client.ID(), "frame", frame.ID(), "name", client.Name())
	return true
}

// Unwrap destroys the frame of client and maps the client again. It returns
// false if the client is not wrapped.
func (t *Twm) Unwrap(client *display.Window) bool {
	frame, ok := t.FrameOf(client)
	if !ok {
		return false
	}
	t.forget(client, frame)
	if t.state.Involves(client) {
		t.state.Reset()
	}
	t.server.DestroyWindow(frame)
	if !client.Destroyed() {
		t.released[client.ID()] = struct{}{}
		t.server.MapWindow(client)
	}
	t.log.Debug("unwrapped window", "client", client.ID())
	return true
}

func (t *Twm) forget(client, frame *display.Window) {
	delete(t.frames, client.ID())
	delete(t.clients, frame.ID())
	delete(t.titles, frame.ID())
}

// Update resyncs every frame to its client and repaints decorations.
func (t *Twm) Update() {
	for _, client := range t.server.Windows() {
		frame, ok := t.frames[client.ID()]
		if !ok || client.Destroyed() || frame.Destroyed() {
			continue
		}
		if !t.state.Involves(frame) {
			t.syncGeometry(client, frame)
		}
		t.paint(client, frame)
	}
}

// syncGeometry makes the frame sit directly above the client with the same
// width and scale.
func (t *Twm) syncGeometry(client, frame *display.Window) {
	tb := t.opts.TitlebarHeight
	if frame.Scale() != client.Scale() {
		t.server.SetWindowScale(frame.ID(), client.Scale(), false)
	}
	cw, ch := client.ContentSize()
	if fw, fh := frame.ContentSize(); fw != cw || fh != ch+tb {
		t.server.SetWindowContentSize(frame.ID(), cw, ch+tb)
	}
	cx, cy := client.Position()
	t.server.MoveWindow(frame, cx, cy-tb*frame.Scale())
}
