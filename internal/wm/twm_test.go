package wm

import (
	"testing"

	"github.com/1broseidon/softx/internal/canvas"
	"github.com/1broseidon/softx/internal/compositor"
	"github.com/1broseidon/softx/internal/display"
)

// newClient creates a titled window and maps it, which auto-wraps it.
func newClient(t *testing.T, s *display.Server, name string, x, y, w, h int) *display.Window {
	t.Helper()
	c := s.CreateWindow(name, name, canvas.Rect{X: x, Y: y, Width: w, Height: h}, display.StyleTitled, 1)
	s.MapWindow(c)
	return c
}

func mustFrame(t *testing.T, m *Twm, client *display.Window) *display.Window {
	t.Helper()
	f, ok := m.FrameOf(client)
	if !ok {
		t.Fatalf("client %d is not wrapped", client.ID())
	}
	return f
}

func TestNew_PanicsOnNilServer(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for nil server")
		}
	}()
	New(nil, Options{})
}

func TestNew_InstallsItself(t *testing.T) {
	s := display.NewServer()
	m := New(s, Options{})
	if s.WindowManager() != display.WindowManager(m) {
		t.Fatalf("server window manager not set")
	}
}

func TestOptions_Normalized(t *testing.T) {
	tests := []struct {
		name string
		in   Options
		tb   int
	}{
		{"default titlebar", Options{}, 16},
		{"minimum titlebar", Options{TitlebarHeight: 3}, 8},
		{"custom titlebar", Options{TitlebarHeight: 20}, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.normalized()
			if got.TitlebarHeight != tt.tb {
				t.Errorf("TitlebarHeight = %d, want %d", got.TitlebarHeight, tt.tb)
			}
			if got.GripSize != DefaultGripSize || got.MinWidth != MinContentWidth || got.MinHeight != MinContentHeight {
				t.Errorf("unexpected defaults: %+v", got)
			}
		})
	}
}

func TestAutoWrapOnMap(t *testing.T) {
	s := display.NewServer()
	m := New(s, Options{})
	c := newClient(t, s, "term", 10, 26, 40, 20)

	f := mustFrame(t, m, c)
	if c.Mapped() {
		t.Fatalf("client should be unmapped once wrapped")
	}
	if !f.Mapped() || !IsFrame(f) {
		t.Fatalf("frame mapped=%v isFrame=%v, want true,true", f.Mapped(), IsFrame(f))
	}
	if got := f.Geometry(); got != (canvas.Rect{X: 10, Y: 10, Width: 40, Height: 36}) {
		t.Fatalf("frame geometry = %+v, want 10,10 40x36", got)
	}
	if _, wrapped := m.FrameOf(f); wrapped {
		t.Fatalf("frames must never be wrapped")
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (client + frame)", s.Len())
	}
}

func TestAutoWrap_SkipsUndecoratedStyles(t *testing.T) {
	s := display.NewServer()
	m := New(s, Options{})
	p := s.CreateWindow("popup", "", canvas.Rect{Width: 10, Height: 10}, display.StylePopup, 1)
	s.MapWindow(p)
	if m.IsWrapped(p) {
		t.Fatalf("popup windows are not auto-wrapped")
	}
	if !m.Wrap(p) {
		t.Fatalf("explicit Wrap should still work")
	}
}

func TestWrap_Twice(t *testing.T) {
	s := display.NewServer()
	m := New(s, Options{})
	c := newClient(t, s, "term", 0, 16, 40, 20)

	if m.Wrap(c) {
		t.Fatalf("second Wrap must return false")
	}
	frames := 0
	for _, w := range s.Windows() {
		if IsFrame(w) {
			frames++
		}
	}
	if frames != 1 {
		t.Fatalf("frames = %d, want exactly 1", frames)
	}
}

func TestUnwrap(t *testing.T) {
	s := display.NewServer()
	m := New(s, Options{})
	c := newClient(t, s, "term", 0, 16, 40, 20)
	f := mustFrame(t, m, c)

	if !m.Unwrap(c) {
		t.Fatalf("Unwrap returned false")
	}
	if !f.Destroyed() {
		t.Fatalf("frame should be destroyed")
	}
	if !c.Mapped() || m.IsWrapped(c) {
		t.Fatalf("client mapped=%v wrapped=%v, want true,false", c.Mapped(), m.IsWrapped(c))
	}
	if m.Unwrap(c) {
		t.Fatalf("Unwrap of unwrapped client must return false")
	}

	// Remapping after an unmap wraps again.
	s.UnmapWindow(c)
	s.MapWindow(c)
	if !m.IsWrapped(c) {
		t.Fatalf("client should be wrapped again after remap")
	}
}

func TestUpdate_ResyncsFrame(t *testing.T) {
	s := display.NewServer()
	m := New(s, Options{})
	c := newClient(t, s, "term", 10, 26, 40, 20)
	f := mustFrame(t, m, c)

	s.MoveWindow(c, 100, 120)
	s.SetWindowContentSize(c.ID(), 60, 30)
	s.SetWindowScale(c.ID(), 2, false)
	m.Update()

	if f.Scale() != 2 {
		t.Fatalf("frame scale = %d, want 2", f.Scale())
	}
	// frame.y = client.y - titlebar*scale = 120 - 32
	if got := f.Geometry(); got != (canvas.Rect{X: 100, Y: 88, Width: 60, Height: 46}) {
		t.Fatalf("frame geometry = %+v, want 100,88 60x46", got)
	}
}

func TestUpdate_PaintsDecorationsAndContent(t *testing.T) {
	s := display.NewServer()
	m := New(s, Options{})
	c := newClient(t, s, "term", 0, 16, 40, 20)
	f := mustFrame(t, m, c)
	c.Canvas().Clear(0xff112233)
	f.Canvas().ClearDirty()

	m.Update()
	fc := f.Canvas()
	if got := fc.Pixel(1, 1); got != ColorTitlebar {
		t.Fatalf("titlebar pixel = %#x, want %#x", got, ColorTitlebar)
	}
	box := m.closeBoxRect(40)
	if got := fc.Pixel(box.X+1, box.Y+1); got != ColorCloseBox {
		t.Fatalf("close box pixel = %#x, want %#x", got, ColorCloseBox)
	}
	if got := fc.Pixel(5, 16+5); got != 0xff112233 {
		t.Fatalf("content pixel = %#x, want client color", got)
	}
	if got := fc.Pixel(39, 35); got != ColorGrip {
		t.Fatalf("grip pixel = %#x, want %#x", got, ColorGrip)
	}
	r, ok := fc.Dirty()
	if !ok || r != (canvas.Rect{Width: 40, Height: 36}) {
		t.Fatalf("frame dirty = %+v,%v, want whole frame", r, ok)
	}
	if c.Canvas().IsDirty() {
		t.Fatalf("client dirty rect should be consumed by the frame copy")
	}

	s.FocusWindow(c)
	m.Update()
	if got := fc.Pixel(1, 1); got != ColorTitlebarFocused {
		t.Fatalf("focused titlebar pixel = %#x, want %#x", got, ColorTitlebarFocused)
	}
}

func TestDrag(t *testing.T) {
	s := display.NewServer()
	m := New(s, Options{})
	c := newClient(t, s, "term", 10, 26, 40, 20)
	f := mustFrame(t, m, c)
	other := newClient(t, s, "other", 200, 200, 20, 10)

	m.HandleMouse(15, 12, true, true, false)
	st := m.State()
	if st.Phase != PhaseDragging {
		t.Fatalf("phase = %s, want dragging", st.Phase)
	}
	if st.OffsetX != 5 || st.OffsetY != 2 {
		t.Fatalf("offset = (%d,%d), want (5,2)", st.OffsetX, st.OffsetY)
	}
	if s.Focused() != c {
		t.Fatalf("dragged client should be focused")
	}
	ws := s.Windows()
	if ws[len(ws)-1] != f {
		t.Fatalf("dragged frame should be raised to the top")
	}

	m.HandleMouse(50, 40, true, false, false)
	if x, y := f.Position(); x != 45 || y != 38 {
		t.Fatalf("frame = (%d,%d), want (45,38)", x, y)
	}
	if x, y := c.Position(); x != 45 || y != 54 {
		t.Fatalf("client = (%d,%d), want (45,54)", x, y)
	}

	// Update during the drag keeps the relationship.
	m.Update()
	if x, y := f.Position(); x != 45 || y != 38 {
		t.Fatalf("frame after Update = (%d,%d), want (45,38)", x, y)
	}

	m.HandleMouse(50, 40, false, false, true)
	if m.State().Active() {
		t.Fatalf("state should clear on release")
	}
	if x, y := c.Position(); x != 45 || y != 54 {
		t.Fatalf("client after release = (%d,%d), want (45,54)", x, y)
	}
	if x, y := other.Position(); x != 200 || y != 200 {
		t.Fatalf("unrelated window moved to (%d,%d)", x, y)
	}
}

func TestResize_BottomRight(t *testing.T) {
	s := display.NewServer()
	m := New(s, Options{})
	c := newClient(t, s, "term", 0, 16, 40, 20)
	f := mustFrame(t, m, c)

	m.HandleMouse(38, 34, true, true, false)
	if st := m.State(); st.Phase != PhaseResizing || st.Handle != HandleBottomRight {
		t.Fatalf("state = %s/%s, want resizing/bottom-right", st.Phase, st.Handle)
	}

	m.HandleMouse(48, 44, true, false, false)
	if w, h := c.ContentSize(); w != 50 || h != 30 {
		t.Fatalf("client = %dx%d, want 50x30", w, h)
	}
	if w, h := f.ContentSize(); w != 50 || h != 46 {
		t.Fatalf("frame = %dx%d, want 50x46", w, h)
	}
	if x, y := f.Position(); x != 0 || y != 0 {
		t.Fatalf("frame origin = (%d,%d), want (0,0)", x, y)
	}

	m.HandleMouse(48, 44, false, false, true)
	if m.State().Active() {
		t.Fatalf("state should clear on release")
	}
	if x, y := c.Position(); x != 0 || y != 16 {
		t.Fatalf("client after release = (%d,%d), want (0,16)", x, y)
	}
}

func TestResize_TopLeftAnchorsOppositeCorner(t *testing.T) {
	s := display.NewServer()
	m := New(s, Options{})
	c := newClient(t, s, "term", 100, 116, 40, 20)
	f := mustFrame(t, m, c)

	// frame at (100,100) 40x36; top band is 2px deep
	m.HandleMouse(101, 100, true, true, false)
	if st := m.State(); st.Handle != HandleTopLeft {
		t.Fatalf("handle = %s, want top-left", st.Handle)
	}
	m.HandleMouse(91, 95, true, false, false)
	// width 40+10, height 20+5; origin shifted by the same delta
	if w, h := c.ContentSize(); w != 50 || h != 25 {
		t.Fatalf("client = %dx%d, want 50x25", w, h)
	}
	if x, y := f.Position(); x != 90 || y != 95 {
		t.Fatalf("frame origin = (%d,%d), want (90,95)", x, y)
	}
	// bottom-right corner stays at (140,136)
	fw, fh := f.OnscreenSize()
	if x, y := f.Position(); x+fw != 140 || y+fh != 136 {
		t.Fatalf("bottom-right corner = (%d,%d), want (140,136)", x+fw, y+fh)
	}
}

func TestResize_ClampsToMinimum(t *testing.T) {
	s := display.NewServer()
	m := New(s, Options{})
	c := newClient(t, s, "term", 0, 16, 40, 20)

	m.HandleMouse(38, 34, true, true, false)
	m.HandleMouse(-100, -100, true, false, false)
	if w, h := c.ContentSize(); w != MinContentWidth || h != MinContentHeight {
		t.Fatalf("client = %dx%d, want %dx%d", w, h, MinContentWidth, MinContentHeight)
	}
}

func TestResize_DeltaDividedByScale(t *testing.T) {
	s := display.NewServer()
	m := New(s, Options{})
	c := s.CreateWindow("hidpi", "", canvas.Rect{X: 0, Y: 32, Width: 40, Height: 20}, display.StyleTitled, 2)
	s.MapWindow(c)

	// frame on-screen 80x72 at (0,0)
	m.HandleMouse(78, 70, true, true, false)
	m.HandleMouse(98, 90, true, false, false)
	if w, h := c.ContentSize(); w != 50 || h != 30 {
		t.Fatalf("client = %dx%d, want 50x30", w, h)
	}
}

func TestClose_DestroysAndPurgesCache(t *testing.T) {
	s := display.NewServer()
	m := New(s, Options{})
	comp := compositor.New()
	target := canvas.NewSurface(100, 100)

	c := newClient(t, s, "term", 0, 16, 40, 20)
	f := mustFrame(t, m, c)
	m.Update()
	comp.Compose(s, target)
	if !comp.Cached(f.ID()) {
		t.Fatalf("expected frame to be cached after compose")
	}

	box := m.closeBoxRect(40)
	m.HandleMouse(box.X+1, box.Y+1, true, true, false)
	if !c.Destroyed() || !f.Destroyed() {
		t.Fatalf("client destroyed=%v frame destroyed=%v, want both", c.Destroyed(), f.Destroyed())
	}
	if m.State().Active() {
		t.Fatalf("close must not enter a state")
	}
	if m.IsWrapped(c) {
		t.Fatalf("mapping should be cleared")
	}

	stats := comp.Compose(s, target)
	if comp.Cached(f.ID()) || comp.Cached(c.ID()) {
		t.Fatalf("cache still references closed windows")
	}
	if stats.Purged != 1 {
		t.Fatalf("Purged = %d, want 1", stats.Purged)
	}
}

func TestPress_IgnoredWhileActive(t *testing.T) {
	s := display.NewServer()
	m := New(s, Options{})
	a := newClient(t, s, "a", 10, 26, 40, 20)
	newClient(t, s, "b", 200, 216, 40, 20)

	m.HandleMouse(15, 12, true, true, false)
	// A second press edge over b while still dragging a.
	m.HandleMouse(205, 202, true, true, false)
	if st := m.State(); st.Client != a || st.Phase != PhaseDragging {
		t.Fatalf("state switched to another window")
	}
}

func TestPress_MissIsNoop(t *testing.T) {
	s := display.NewServer()
	m := New(s, Options{})
	newClient(t, s, "a", 10, 26, 40, 20)

	m.HandleMouse(500, 500, true, true, false)
	if m.State().Active() {
		t.Fatalf("miss should not start an interaction")
	}
}

func TestClientDestroyedExternally_DropsFrame(t *testing.T) {
	s := display.NewServer()
	m := New(s, Options{})
	c := newClient(t, s, "a", 10, 26, 40, 20)
	f := mustFrame(t, m, c)

	m.HandleMouse(15, 12, true, true, false)
	s.DestroyWindow(c)
	if !f.Destroyed() {
		t.Fatalf("frame should follow its client")
	}
	if m.State().Active() {
		t.Fatalf("interaction on a destroyed window should end")
	}
	m.HandleMouse(60, 60, true, false, false)
	m.Update()
}
