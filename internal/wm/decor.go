package wm

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/1broseidon/softx/internal/canvas"
	"github.com/1broseidon/softx/internal/display"
)

// Decoration colors, 0xAARRGGBB
const (
	ColorTitlebar        = 0xff34495e // Slate - unfocused titlebar
	ColorTitlebarFocused = 0xff3498db // Blue - focused titlebar
	ColorTitleText       = 0xffecf0f1 // Off-white - title text
	ColorCloseBox        = 0xffe74c3c // Red - close box
	ColorGrip            = 0xff95a5a6 // Grey - resize grip
)

const (
	titleInsetX = 4 // Left padding of the title text
	closeBoxGap = 2 // Space between close box and the top-right grip zone
	minCloseBox = 4 // Smallest close box edge
	glyphAscent = 11
	glyphHeight = 13
)

// Theme holds the decoration colors.
type Theme struct {
	Titlebar        uint32
	TitlebarFocused uint32
	TitleText       uint32
	CloseBox        uint32
	Grip            uint32
}

// DefaultTheme returns the built-in colors.
func DefaultTheme() Theme {
	return Theme{
		Titlebar:        ColorTitlebar,
		TitlebarFocused: ColorTitlebarFocused,
		TitleText:       ColorTitleText,
		CloseBox:        ColorCloseBox,
		Grip:            ColorGrip,
	}
}

// titleMask caches the rendered title of one frame.
type titleMask struct {
	text   string
	width  int
	height int
	mask   *image.Alpha
}

// closeBoxRect returns the close box in frame-local content pixels. It sits
// at the right of the titlebar, left of the top-right grip zone.
func (t *Twm) closeBoxRect(frameWidth int) canvas.Rect {
	tb := t.opts.TitlebarHeight
	size := tb / 2
	if size < minCloseBox {
		size = minCloseBox
	}
	x := frameWidth - t.opts.GripSize - size - closeBoxGap
	if x < 0 {
		x = 0
	}
	return canvas.Rect{X: x, Y: (tb - size) / 2, Width: size, Height: size}
}

// paint redraws decorations and mirrors client content into the frame.
func (t *Twm) paint(client, frame *display.Window) {
	fc := frame.Canvas()
	cc := client.Canvas()
	tb := t.opts.TitlebarHeight
	fw := fc.Width()

	bar := t.opts.Theme.Titlebar
	if focused := t.server.Focused(); focused == client || focused == frame {
		bar = t.opts.Theme.TitlebarFocused
	}
	fc.FillRect(0, 0, fw, tb, bar)

	closeBox := t.closeBoxRect(fw)
	t.paintTitle(frame, client.Title(), bar, closeBox.X-titleInsetX)
	fc.FillRect(closeBox.X, closeBox.Y, closeBox.Width, closeBox.Height, t.opts.Theme.CloseBox)

	rows := min(cc.Height(), fc.Height()-tb)
	for y := 0; y < rows; y++ {
		copy(fc.Row(tb+y), cc.Row(y))
	}
	fc.MarkDirtyRect(0, tb, fw, rows)
	cc.ClearDirty()

	t.paintGrip(fc)
}

// paintTitle blends the title into the titlebar strip, clipped to maxWidth.
func (t *Twm) paintTitle(frame *display.Window, title string, bar uint32, maxWidth int) {
	tb := t.opts.TitlebarHeight
	width := maxWidth - titleInsetX
	if title == "" || width <= 0 {
		return
	}

	tm := t.titles[frame.ID()]
	if tm == nil || tm.text != title || tm.width != width || tm.height != tb {
		tm = &titleMask{text: title, width: width, height: tb, mask: image.NewAlpha(image.Rect(0, 0, width, tb))}
		baseline := (tb-glyphHeight)/2 + glyphAscent
		if tb < glyphHeight {
			baseline = tb - 1
		}
		d := font.Drawer{
			Dst:  tm.mask,
			Src:  image.Opaque,
			Face: basicfont.Face7x13,
			Dot:  fixed.P(0, baseline),
		}
		d.DrawString(title)
		t.titles[frame.ID()] = tm
	}

	fc := frame.Canvas()
	a, r, g, b := canvas.Split(t.opts.Theme.TitleText)
	for y := 0; y < tb; y++ {
		for x := 0; x < width; x++ {
			cov := tm.mask.AlphaAt(x, y).A
			if cov == 0 {
				continue
			}
			src := canvas.ARGB(uint8(uint16(a)*uint16(cov)/255), r, g, b)
			fc.SetPixel(titleInsetX+x, y, canvas.Blend(bar, src))
		}
	}
}

// paintGrip draws a right triangle in the bottom-right corner.
func (t *Twm) paintGrip(fc *canvas.Canvas) {
	g := t.opts.GripSize
	x0 := fc.Width() - g
	y0 := fc.Height() - g
	for y := 0; y < g; y++ {
		for x := 0; x < g; x++ {
			if x+y >= g-1 {
				fc.SetPixel(x0+x, y0+y, t.opts.Theme.Grip)
			}
		}
	}
}
