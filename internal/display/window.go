package display

import (
	"math"

	"github.com/1broseidon/softx/internal/canvas"
)

// Style selects how a window is decorated.
type Style int

const (
	StyleTitled Style = iota
	StyleBorderless
	StylePopup
)

// String returns the string representation of the style
func (s Style) String() string {
	switch s {
	case StyleTitled:
		return "titled"
	case StyleBorderless:
		return "borderless"
	case StylePopup:
		return "popup"
	default:
		return "unknown"
	}
}

// ParseStyle converts a config string to a Style, defaulting to titled.
func ParseStyle(s string) Style {
	switch s {
	case "borderless":
		return StyleBorderless
	case "popup":
		return StylePopup
	default:
		return StyleTitled
	}
}

// Window is a managed rectangle with its own canvas.
//
// Geometry X/Y are on-screen pixels; Width/Height always equal the canvas
// (content) size. The on-screen size is content size times Scale.
// A Window never points back at its Server; lifecycle changes that notify
// go through the Server.
type Window struct {
	id        uint32
	name      string
	title     string
	geometry  canvas.Rect
	style     Style
	mapped    bool
	destroyed bool
	canvas    *canvas.Canvas
	scale     int
}

func newWindow(id uint32, name, title string, geometry canvas.Rect, style Style, scale int) *Window {
	if scale < 1 {
		scale = 1
	}
	if geometry.Width < 0 {
		geometry.Width = 0
	}
	if geometry.Height < 0 {
		geometry.Height = 0
	}
	return &Window{
		id:       id,
		name:     name,
		title:    title,
		geometry: geometry,
		style:    style,
		canvas:   canvas.New(geometry.Width, geometry.Height),
		scale:    scale,
	}
}

func (w *Window) ID() uint32               { return w.id }
func (w *Window) Name() string             { return w.name }
func (w *Window) Title() string            { return w.title }
func (w *Window) Style() Style             { return w.style }
func (w *Window) Mapped() bool             { return w.mapped }
func (w *Window) Destroyed() bool          { return w.destroyed }
func (w *Window) Scale() int               { return w.scale }
func (w *Window) Canvas() *canvas.Canvas   { return w.canvas }
func (w *Window) Geometry() canvas.Rect    { return w.geometry }
func (w *Window) ContentSize() (int, int)  { return w.geometry.Width, w.geometry.Height }
func (w *Window) Position() (x, y int)     { return w.geometry.X, w.geometry.Y }
func (w *Window) OnscreenSize() (int, int) { return w.geometry.Width * w.scale, w.geometry.Height * w.scale }

// SetTitle changes the title shown by decorations.
func (w *Window) SetTitle(title string) {
	if w.destroyed {
		return
	}
	w.title = title
}

// Bounds returns the on-screen rectangle.
func (w *Window) Bounds() canvas.Rect {
	ow, oh := w.OnscreenSize()
	return canvas.Rect{X: w.geometry.X, Y: w.geometry.Y, Width: ow, Height: oh}
}

// ResizeCanvas resizes the content. It is a no-op when the size is unchanged.
func (w *Window) ResizeCanvas(width, height int) {
	if w.destroyed {
		return
	}
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if width == w.canvas.Width() && height == w.canvas.Height() {
		return
	}
	w.canvas.Resize(width, height)
	w.geometry.Width = width
	w.geometry.Height = height
}

// SetScale changes the integer pixel multiplier. When preserveOnscreen is
// set, the on-screen size is held and the content resolution is recomputed
// as round(onscreen / scale), minimum 1.
func (w *Window) SetScale(scale int, preserveOnscreen bool) {
	if w.destroyed {
		return
	}
	if scale < 1 {
		scale = 1
	}
	if !preserveOnscreen {
		w.scale = scale
		return
	}
	ow, oh := w.OnscreenSize()
	w.scale = scale
	w.ResizeCanvas(scaledDown(ow, scale), scaledDown(oh, scale))
}

// SetOnscreenSize derives the content size from an on-screen size.
func (w *Window) SetOnscreenSize(width, height int) {
	if w.destroyed {
		return
	}
	w.ResizeCanvas(scaledDown(width, w.scale), scaledDown(height, w.scale))
}

// SetContentSize resizes the canvas directly.
func (w *Window) SetContentSize(width, height int) {
	w.ResizeCanvas(width, height)
}

func scaledDown(onscreen, scale int) int {
	n := int(math.Round(float64(onscreen) / float64(scale)))
	if n < 1 {
		return 1
	}
	return n
}
