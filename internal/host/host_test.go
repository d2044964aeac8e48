package host

import (
	"context"
	"errors"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/1broseidon/softx/internal/canvas"
	"github.com/1broseidon/softx/internal/config"
	"github.com/1broseidon/softx/internal/display"
	"github.com/1broseidon/softx/internal/platform"
)

func newTestHost(t *testing.T, mutate func(*config.Config)) *Host {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Display.Width = 200
	cfg.Display.Height = 150
	if mutate != nil {
		mutate(cfg)
	}
	h := New(Options{Config: cfg})
	t.Cleanup(h.Close)
	return h
}

func rectOf(x, y, w, h int) canvas.Rect {
	return canvas.Rect{X: x, Y: y, Width: w, Height: h}
}

func solidPanel(name string, w, h int) config.Panel {
	return config.Panel{Name: name, Pattern: "solid", Color: 0xff00ff00, Width: w, Height: h, Scale: 1, Style: "titled"}
}

func TestNew_GeneratesSessionAndSizesTarget(t *testing.T) {
	h := newTestHost(t, nil)
	if _, err := uuid.Parse(h.Session()); err != nil {
		t.Fatalf("Session() = %q, not a uuid: %v", h.Session(), err)
	}
	if w, ht := h.Size(); w != 200 || ht != 150 {
		t.Fatalf("Size() = %d,%d, want 200,150", w, ht)
	}
	if h.Server().WindowManager() == nil {
		t.Fatalf("expected window manager installed")
	}
}

func TestTick_ChangedOnlyWhenSomethingMoved(t *testing.T) {
	h := newTestHost(t, nil)

	if f := h.Tick(Input{}); !f.Changed {
		t.Fatalf("first tick must produce a frame")
	}
	if f := h.Tick(Input{}); f.Changed {
		t.Fatalf("idle tick reported change: %+v", f.Stats)
	}

	w := h.Server().CreateWindow("p", "", rectOf(0, 0, 4, 4), display.StyleBorderless, 1)
	h.Server().MapWindow(w)
	if f := h.Tick(Input{}); !f.Changed || f.Stats.Windows != 1 {
		t.Fatalf("tick after map = %+v, want changed with 1 window", f)
	}
}

func TestTick_DragThroughEdgeDetection(t *testing.T) {
	h := newTestHost(t, nil)
	client, err := h.CreatePanel(solidPanel("a", 40, 20), 10, 10)
	if err != nil {
		t.Fatalf("CreatePanel: %v", err)
	}
	frame, ok := h.Twm().FrameOf(client)
	if !ok {
		t.Fatalf("expected titled panel to be wrapped")
	}
	if x, y := frame.Position(); x != 10 || y != 10 {
		t.Fatalf("frame at %d,%d, want 10,10", x, y)
	}

	h.Tick(Input{X: 15, Y: 12, LeftDown: true})
	h.Tick(Input{X: 50, Y: 40, LeftDown: true})
	if x, y := frame.Position(); x != 45 || y != 38 {
		t.Fatalf("frame at %d,%d, want 45,38", x, y)
	}
	if x, y := client.Position(); x != 45 || y != 54 {
		t.Fatalf("client at %d,%d, want 45,54", x, y)
	}

	h.Tick(Input{X: 50, Y: 40})
	if h.Twm().State().Active() {
		t.Fatalf("release must end the drag")
	}

	// Holding the button without a new press does not start anything.
	h.Tick(Input{X: 15, Y: 12, LeftDown: false})
	h.Tick(Input{X: 60, Y: 60, LeftDown: false})
	if x, y := frame.Position(); x != 45 || y != 38 {
		t.Fatalf("frame moved without a press: %d,%d", x, y)
	}
}

func TestExec_RunsOnTick(t *testing.T) {
	h := newTestHost(t, nil)

	errc := make(chan error, 1)
	var created *display.Window
	go func() {
		errc <- h.Exec(context.Background(), func(h *Host) error {
			w, err := h.CreatePanel(solidPanel("remote", 10, 10), 0, 0)
			created = w
			return err
		})
	}()

	deadline := time.After(2 * time.Second)
	for {
		h.Tick(Input{})
		select {
		case err := <-errc:
			if err != nil {
				t.Fatalf("Exec() error = %v", err)
			}
			if created == nil || created.Name() != "remote" {
				t.Fatalf("expected panel created on tick")
			}
			return
		case <-deadline:
			t.Fatalf("Exec did not complete")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func TestExec_PropagatesError(t *testing.T) {
	h := newTestHost(t, nil)
	want := errors.New("boom")

	errc := make(chan error, 1)
	go func() {
		errc <- h.Exec(context.Background(), func(*Host) error { return want })
	}()
	for {
		h.Tick(Input{})
		select {
		case err := <-errc:
			if !errors.Is(err, want) {
				t.Fatalf("Exec() error = %v, want %v", err, want)
			}
			return
		case <-time.After(time.Millisecond):
		}
	}
}

func TestExec_ClosedAndCancelled(t *testing.T) {
	h := newTestHost(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := h.Exec(ctx, func(*Host) error { return nil }); !errors.Is(err, context.Canceled) {
		t.Fatalf("Exec(cancelled) = %v, want context.Canceled", err)
	}

	h.Close()
	h.Close()
	if err := h.Exec(context.Background(), func(*Host) error { return nil }); !errors.Is(err, ErrClosed) {
		t.Fatalf("Exec(after close) = %v, want ErrClosed", err)
	}
}

func TestCreatePanel_WrapOverrides(t *testing.T) {
	h := newTestHost(t, nil)

	no := false
	p := solidPanel("bare", 10, 10)
	p.Wrap = &no
	w, err := h.CreatePanel(p, 5, 6)
	if err != nil {
		t.Fatalf("CreatePanel: %v", err)
	}
	if h.Twm().IsWrapped(w) || !w.Mapped() {
		t.Fatalf("wrap=false panel must stay mapped and undecorated")
	}
	if x, y := w.Position(); x != 5 || y != 6 {
		t.Fatalf("position = %d,%d, want 5,6", x, y)
	}

	yes := true
	p = solidPanel("popup", 10, 10)
	p.Style = "popup"
	p.Wrap = &yes
	w, err = h.CreatePanel(p, 20, 20)
	if err != nil {
		t.Fatalf("CreatePanel: %v", err)
	}
	frame, ok := h.Twm().FrameOf(w)
	if !ok {
		t.Fatalf("wrap=true popup must be wrapped")
	}
	if x, y := frame.Position(); x != 20 || y != 20 {
		t.Fatalf("frame = %d,%d, want 20,20", x, y)
	}
}

func TestCreatePanel_Errors(t *testing.T) {
	h := newTestHost(t, nil)
	p := solidPanel("bad", 10, 10)
	p.Pattern = "plasma"
	if _, err := h.CreatePanel(p, 0, 0); err == nil {
		t.Fatalf("expected unknown pattern error")
	}
	if _, err := h.CreatePanel(solidPanel("empty", 0, 10), 0, 0); err == nil {
		t.Fatalf("expected size error")
	}
	if h.Server().Len() != 0 {
		t.Fatalf("failed panels must not leave windows behind")
	}
}

func TestSpawnPanels_BuiltinsFitTarget(t *testing.T) {
	h := newTestHost(t, func(c *config.Config) {
		c.Display.Width = 800
		c.Display.Height = 600
	})
	created, err := h.SpawnPanels(config.BuiltinPanels(), h.Config().Placement)
	if err != nil {
		t.Fatalf("SpawnPanels: %v", err)
	}
	if len(created) != 4 {
		t.Fatalf("created %d panels, want 4", len(created))
	}
	for _, w := range created {
		frame, ok := h.Twm().FrameOf(w)
		if !ok {
			t.Fatalf("panel %q not wrapped", w.Name())
		}
		b := frame.Bounds().Union(w.Bounds())
		if b.X < 0 || b.Y < 0 || b.Right() > 800 || b.Bottom() > 600 {
			t.Errorf("panel %q outside target: %+v", w.Name(), b)
		}
		if !h.Animated(w.ID()) {
			t.Errorf("panel %q has no animator", w.Name())
		}
	}
	if h.Server().Focused() != created[3] {
		t.Fatalf("expected last panel focused")
	}
}

func TestSpawnPanels_ExplicitPositionsAndErrors(t *testing.T) {
	h := newTestHost(t, nil)
	x, y := 30, 40
	placed := solidPanel("placed", 10, 10)
	placed.X, placed.Y = &x, &y
	bad := solidPanel("bad", 10, 10)
	bad.Pattern = "nope"

	created, err := h.SpawnPanels([]config.Panel{placed, bad}, h.Config().Placement)
	if err == nil {
		t.Fatalf("expected error for bad panel")
	}
	if len(created) != 1 {
		t.Fatalf("created %d, want 1", len(created))
	}
	frame, _ := h.Twm().FrameOf(created[0])
	if fx, fy := frame.Position(); fx != 30 || fy != 40 {
		t.Fatalf("frame = %d,%d, want 30,40", fx, fy)
	}
}

func TestDestroy_DropsAnimator(t *testing.T) {
	h := newTestHost(t, nil)
	w, _ := h.CreatePanel(solidPanel("a", 10, 10), 0, 0)
	h.Server().DestroyWindow(w)
	if h.Animated(w.ID()) {
		t.Fatalf("animator kept for destroyed window")
	}
	h.Tick(Input{DeltaTime: time.Second})
}

func TestScreenshot_WritesBackground(t *testing.T) {
	h := newTestHost(t, func(c *config.Config) { c.Display.Background = 0xff102030 })
	h.Tick(Input{})

	path := filepath.Join(t.TempDir(), "shots", "a.png")
	if err := h.Screenshot(path); err != nil {
		t.Fatalf("Screenshot: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 150 {
		t.Fatalf("bounds = %v, want 200x150", b)
	}
	got := color.NRGBAModel.Convert(img.At(0, 0)).(color.NRGBA)
	if got != (color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}) {
		t.Fatalf("At(0,0) = %v, want background", got)
	}
}

func TestApplyConfig_ChangesBackgroundAndTheme(t *testing.T) {
	h := newTestHost(t, nil)
	h.Tick(Input{})

	cfg := config.DefaultConfig()
	cfg.Display.Width, cfg.Display.Height = 200, 150
	cfg.Display.Background = 0xff000000
	cfg.Decorations.TitlebarHeight = 20
	h.ApplyConfig(cfg)

	if f := h.Tick(Input{}); !f.Changed {
		t.Fatalf("expected change after background update")
	}
	if got := h.Output().PixelAt(0, 0); got != 0xff000000 {
		t.Fatalf("PixelAt(0,0) = %#x, want new background", got)
	}
	if h.Twm().Options().TitlebarHeight != 20 {
		t.Fatalf("titlebar height = %d, want 20", h.Twm().Options().TitlebarHeight)
	}
}

func TestRun_PresentsUntilCancelled(t *testing.T) {
	h := newTestHost(t, func(c *config.Config) { c.Display.FPS = 240 })
	backend := platform.NewHeadless(200, 150)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := h.Run(ctx, backend); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if backend.Presents() < 1 {
		t.Fatalf("expected at least one presented frame")
	}
	if h.Ticks() < 2 {
		t.Fatalf("Ticks() = %d, want several", h.Ticks())
	}
}

func TestRun_StopsWhenBackendCloses(t *testing.T) {
	h := newTestHost(t, nil)
	backend := platform.NewHeadless(200, 150)
	backend.Close()
	if err := h.Run(context.Background(), backend); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestWindows_ReportsFramesAndLookupResolvesClient(t *testing.T) {
	h := newTestHost(t, nil)
	client, _ := h.CreatePanel(solidPanel("a", 10, 10), 0, 0)
	frame, _ := h.Twm().FrameOf(client)

	infos := h.Windows()
	if len(infos) != 2 {
		t.Fatalf("Windows() len = %d, want 2", len(infos))
	}
	if infos[0].ID != client.ID() || infos[0].FrameID != frame.ID() || infos[0].Mapped {
		t.Fatalf("client info = %+v", infos[0])
	}
	if !infos[1].Frame || !infos[1].Mapped {
		t.Fatalf("frame info = %+v", infos[1])
	}

	w, err := h.Lookup(frame.ID())
	if err != nil || w != client {
		t.Fatalf("Lookup(frame) = %v, %v, want client", w, err)
	}
	if _, err := h.Lookup(999); err == nil {
		t.Fatalf("Lookup(999) expected error")
	}
}
