package wm

import (
	"github.com/1broseidon/softx/internal/canvas"
	"github.com/1broseidon/softx/internal/display"
)

// HandleMouse advances the drag/resize state machine by one tick.
// pressed and released are edges of the left button derived by the host.
func (t *Twm) HandleMouse(x, y int, down, pressed, released bool) {
	if t.state.Active() && !t.stateLive() {
		t.state.Reset()
	}

	if pressed && !t.state.Active() {
		t.press(x, y)
	}

	if down {
		switch t.state.Phase {
		case PhaseDragging:
			t.dragTo(x, y)
		case PhaseResizing:
			t.resizeTo(x, y)
		}
	}

	if released && t.state.Active() {
		if t.state.Phase == PhaseResizing {
			fx, fy := t.state.Frame.Position()
			t.place(t.state.Client, t.state.Frame, fx, fy)
		}
		t.log.Debug("interaction ended", "phase", t.state.Phase.String(), "client", t.state.Client.ID())
		t.state.Reset()
	}
}

func (t *Twm) stateLive() bool {
	s := t.state
	return s.Client != nil && s.Frame != nil && !s.Client.Destroyed() && !s.Frame.Destroyed()
}

// press hit-tests mapped windows front to back. Only the topmost window under
// the pointer is considered; presses on undecorated windows do nothing.
func (t *Twm) press(x, y int) {
	windows := t.server.Windows()
	for i := len(windows) - 1; i >= 0; i-- {
		w := windows[i]
		if !w.Mapped() || !w.Bounds().Contains(x, y) {
			continue
		}
		client, ok := t.clients[w.ID()]
		if !ok {
			return
		}
		t.pressFrame(client, w, x, y)
		return
	}
}

func (t *Twm) pressFrame(client, frame *display.Window, x, y int) {
	fx, fy := frame.Position()
	scale := frame.Scale()
	lx := (x - fx) / scale
	ly := (y - fy) / scale
	fw, _ := frame.ContentSize()

	if h := t.gripAt(frame, lx, ly); h != HandleNone {
		cw, ch := client.ContentSize()
		*t.state = State{
			Phase:       PhaseResizing,
			Handle:      h,
			Client:      client,
			Frame:       frame,
			StartMouseX: x,
			StartMouseY: y,
			StartWidth:  cw,
			StartHeight: ch,
			StartFrameX: fx,
			StartFrameY: fy,
		}
		t.raise(client, frame)
		t.log.Debug("resize started", "client", client.ID(), "handle", h.String())
		return
	}

	if t.closeBoxRect(fw).Contains(lx, ly) {
		t.close(client, frame)
		return
	}

	if ly < t.opts.TitlebarHeight {
		*t.state = State{
			Phase:   PhaseDragging,
			Client:  client,
			Frame:   frame,
			OffsetX: x - fx,
			OffsetY: y - fy,
		}
		t.raise(client, frame)
		t.log.Debug("drag started", "client", client.ID())
		return
	}

	// Content click: click-to-focus.
	t.raise(client, frame)
}

// gripAt returns the resize corner under a frame-local point. Bottom zones are
// gripSize deep; top zones are a thin band along the top edge so the titlebar
// stays draggable near its corners.
func (t *Twm) gripAt(frame *display.Window, lx, ly int) Handle {
	fw, fh := frame.ContentSize()
	g := t.opts.GripSize
	topBand := max(1, g/4)

	left := lx < g
	right := lx >= fw-g
	bottom := ly >= fh-g
	top := ly < topBand

	switch {
	case bottom && right:
		return HandleBottomRight
	case bottom && left:
		return HandleBottomLeft
	case top && right:
		return HandleTopRight
	case top && left:
		return HandleTopLeft
	default:
		return HandleNone
	}
}

func (t *Twm) raise(client, frame *display.Window) {
	t.server.BringToFront(client)
	t.server.BringToFront(frame)
	t.server.FocusWindow(client)
}

// close destroys client and frame. This is terminal: no state is entered.
func (t *Twm) close(client, frame *display.Window) {
	t.forget(client, frame)
	t.server.DestroyWindow(frame)
	t.server.DestroyWindow(client)
	t.log.Debug("closed window", "client", client.ID(), "name", client.Name())
}

func (t *Twm) dragTo(x, y int) {
	s := t.state
	t.place(s.Client, s.Frame, x-s.OffsetX, y-s.OffsetY)
}

func (t *Twm) resizeTo(x, y int) {
	s := t.state
	scale := s.Frame.Scale()
	dx := (x - s.StartMouseX) / scale
	dy := (y - s.StartMouseY) / scale

	w, h := s.StartWidth, s.StartHeight
	if s.Handle.left() {
		w -= dx
	} else {
		w += dx
	}
	if s.Handle.top() {
		h -= dy
	} else {
		h += dy
	}
	w = max(w, t.opts.MinWidth)
	h = max(h, t.opts.MinHeight)

	// Left and top handles move the origin so the opposite corner stays put.
	fx, fy := s.StartFrameX, s.StartFrameY
	if s.Handle.left() {
		fx += (s.StartWidth - w) * scale
	}
	if s.Handle.top() {
		fy += (s.StartHeight - h) * scale
	}

	t.server.SetWindowContentSize(s.Client.ID(), w, h)
	t.server.SetWindowContentSize(s.Frame.ID(), w, h+t.opts.TitlebarHeight)
	t.place(s.Client, s.Frame, fx, fy)
}

// place moves the frame to (fx, fy) and the client right below its titlebar.
func (t *Twm) place(client, frame *display.Window, fx, fy int) {
	t.server.MoveWindow(frame, fx, fy)
	t.server.MoveWindow(client, fx, fy+t.opts.TitlebarHeight*frame.Scale())
}

func rect(x, y, w, h int) canvas.Rect {
	return canvas.Rect{X: x, Y: y, Width: w, Height: h}
}
