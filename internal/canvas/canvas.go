// Package canvas holds the pixel buffers used by windows and the compositor.
//
// A Canvas stores ARGB8888 pixels with byte order A,R,G,B and tracks a single
// dirty bounding rectangle. A Surface stores packed 0xAARRGGBB values and is
// used for compositor cache entries and the final target.
package canvas

import (
	"image"
	"image/color"
)

const bytesPerPixel = 4

// Canvas is a window's own pixel buffer with dirty tracking.
type Canvas struct {
	width  int
	height int
	pix    []byte

	dirty    Rect
	hasDirty bool
}

// New allocates a transparent canvas. The whole area starts dirty.
func New(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

// Pix exposes the raw A,R,G,B bytes. Writers must call MarkDirtyRect themselves.
func (c *Canvas) Pix() []byte { return c.pix }

// Row returns the bytes of row y, or nil when y is out of range.
func (c *Canvas) Row(y int) []byte {
	if y < 0 || y >= c.height {
		return nil
	}
	stride := c.width * bytesPerPixel
	return c.pix[y*stride : (y+1)*stride]
}

// SetPixel writes one pixel and extends the dirty rect. Out of bounds writes are ignored.
func (c *Canvas) SetPixel(x, y int, argb uint32) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	i := (y*c.width + x) * bytesPerPixel
	c.pix[i] = byte(argb >> 24)
	c.pix[i+1] = byte(argb >> 16)
	c.pix[i+2] = byte(argb >> 8)
	c.pix[i+3] = byte(argb)
	c.MarkDirtyRect(x, y, 1, 1)
}

// Pixel returns the packed value at (x, y), or Transparent when out of bounds.
func (c *Canvas) Pixel(x, y int) uint32 {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return Transparent
	}
	i := (y*c.width + x) * bytesPerPixel
	return uint32(c.pix[i])<<24 | uint32(c.pix[i+1])<<16 | uint32(c.pix[i+2])<<8 | uint32(c.pix[i+3])
}

// Clear fills the whole buffer and marks everything dirty.
func (c *Canvas) Clear(argb uint32) {
	fillBytes(c.pix, argb)
	c.MarkAllDirty()
}

// FillRect fills the clipped rect and marks it dirty.
func (c *Canvas) FillRect(x, y, w, h int, argb uint32) {
	r := Rect{X: x, Y: y, Width: w, Height: h}.Intersect(c.bounds())
	if r.Empty() {
		return
	}
	stride := c.width * bytesPerPixel
	for row := r.Y; row < r.Bottom(); row++ {
		start := row*stride + r.X*bytesPerPixel
		fillBytes(c.pix[start:start+r.Width*bytesPerPixel], argb)
	}
	c.MarkDirtyRect(r.X, r.Y, r.Width, r.Height)
}

// Resize reallocates the buffer. Old content is not preserved.
func (c *Canvas) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	c.width = width
	c.height = height
	c.pix = make([]byte, width*height*bytesPerPixel)
	c.hasDirty = false
	c.dirty = Rect{}
	c.MarkAllDirty()
}

// MarkDirtyRect clips the rect to the canvas and unions it into the dirty rect.
// Rects with a non-positive width or height are ignored.
func (c *Canvas) MarkDirtyRect(x, y, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	r := Rect{X: x, Y: y, Width: w, Height: h}.Intersect(c.bounds())
	if r.Empty() {
		return
	}
	if !c.hasDirty {
		c.dirty = r
		c.hasDirty = true
		return
	}
	c.dirty = c.dirty.Union(r)
}

// MarkAllDirty marks the whole canvas dirty.
func (c *Canvas) MarkAllDirty() {
	c.MarkDirtyRect(0, 0, c.width, c.height)
}

// Dirty returns the accumulated dirty rect.
func (c *Canvas) Dirty() (Rect, bool) {
	return c.dirty, c.hasDirty
}

func (c *Canvas) IsDirty() bool { return c.hasDirty }

// ClearDirty resets dirty tracking. Only consumers of the canvas call this.
func (c *Canvas) ClearDirty() {
	c.dirty = Rect{}
	c.hasDirty = false
}

func (c *Canvas) bounds() Rect {
	return Rect{Width: c.width, Height: c.height}
}

// ColorModel implements image.Image.
func (c *Canvas) ColorModel() color.Model { return color.NRGBAModel }

// Bounds implements image.Image.
func (c *Canvas) Bounds() image.Rectangle { return image.Rect(0, 0, c.width, c.height) }

// At implements image.Image.
func (c *Canvas) At(x, y int) color.Color { return ToNRGBA(c.Pixel(x, y)) }

// Set implements draw.Image so font drawers can paint into the canvas.
func (c *Canvas) Set(x, y int, col color.Color) { c.SetPixel(x, y, FromColor(col)) }

func fillBytes(dst []byte, argb uint32) {
	if len(dst) < bytesPerPixel {
		return
	}
	dst[0] = byte(argb >> 24)
	dst[1] = byte(argb >> 16)
	dst[2] = byte(argb >> 8)
	dst[3] = byte(argb)
	for filled := bytesPerPixel; filled < len(dst); filled *= 2 {
		copy(dst[filled:], dst[:filled])
	}
}
