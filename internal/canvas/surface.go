package canvas

import (
	"image"
	"image/color"
)

// Surface is an offscreen or target buffer of packed 0xAARRGGBB pixels.
type Surface struct {
	Width  int
	Height int
	Pix    []uint32
}

// NewSurface allocates a transparent surface.
func NewSurface(width, height int) *Surface {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Surface{Width: width, Height: height, Pix: make([]uint32, width*height)}
}

// SameSize reports whether the surface matches the canvas dimensions.
func (s *Surface) SameSize(c *Canvas) bool {
	return s.Width == c.Width() && s.Height == c.Height()
}

// Clear fills every pixel.
func (s *Surface) Clear(argb uint32) {
	if len(s.Pix) == 0 {
		return
	}
	s.Pix[0] = argb
	for filled := 1; filled < len(s.Pix); filled *= 2 {
		copy(s.Pix[filled:], s.Pix[:filled])
	}
}

// PixelAt returns the pixel at (x, y), or Transparent when out of bounds.
func (s *Surface) PixelAt(x, y int) uint32 {
	if x < 0 || y < 0 || x >= s.Width || y >= s.Height {
		return Transparent
	}
	return s.Pix[y*s.Width+x]
}

// CopyFromCanvas copies the clipped rect from the canvas bytes and returns
// the number of pixels copied. Dimensions must match.
func (s *Surface) CopyFromCanvas(c *Canvas, r Rect) int {
	r = r.Intersect(Rect{Width: min(s.Width, c.Width()), Height: min(s.Height, c.Height())})
	if r.Empty() {
		return 0
	}
	src := c.Pix()
	for y := r.Y; y < r.Bottom(); y++ {
		si := (y*c.Width() + r.X) * bytesPerPixel
		di := y*s.Width + r.X
		for x := 0; x < r.Width; x++ {
			s.Pix[di+x] = uint32(src[si])<<24 | uint32(src[si+1])<<16 | uint32(src[si+2])<<8 | uint32(src[si+3])
			si += bytesPerPixel
		}
	}
	return r.Width * r.Height
}

// Blit overwrites s with src placed at (dx, dy), clipped to s. No blending.
func (s *Surface) Blit(src *Surface, dx, dy int) {
	dst := Rect{X: dx, Y: dy, Width: src.Width, Height: src.Height}.Intersect(Rect{Width: s.Width, Height: s.Height})
	if dst.Empty() {
		return
	}
	sx := dst.X - dx
	for y := dst.Y; y < dst.Bottom(); y++ {
		sy := y - dy
		copy(s.Pix[y*s.Width+dst.X:y*s.Width+dst.Right()], src.Pix[sy*src.Width+sx:sy*src.Width+sx+dst.Width])
	}
}

// BlitScaled draws src at (dx, dy) enlarged by an integer factor using nearest
// neighbour sampling, blending each sample over what is already in s.
func (s *Surface) BlitScaled(src *Surface, dx, dy, scale int) {
	if scale <= 1 {
		scale = 1
	}
	dst := Rect{X: dx, Y: dy, Width: src.Width * scale, Height: src.Height * scale}.Intersect(Rect{Width: s.Width, Height: s.Height})
	if dst.Empty() {
		return
	}
	for y := dst.Y; y < dst.Bottom(); y++ {
		srow := ((y - dy) / scale) * src.Width
		drow := y * s.Width
		for x := dst.X; x < dst.Right(); x++ {
			sp := src.Pix[srow+(x-dx)/scale]
			s.Pix[drow+x] = Blend(s.Pix[drow+x], sp)
		}
	}
}

// ColorModel implements image.Image.
func (s *Surface) ColorModel() color.Model { return color.NRGBAModel }

// Bounds implements image.Image.
func (s *Surface) Bounds() image.Rectangle { return image.Rect(0, 0, s.Width, s.Height) }

// At implements image.Image.
func (s *Surface) At(x, y int) color.Color { return ToNRGBA(s.PixelAt(x, y)) }

// FlattenInto composites the surface over an opaque background into dst,
// which is reallocated when its size differs.
func (s *Surface) FlattenInto(dst *Surface, background uint32) {
	if dst.Width != s.Width || dst.Height != s.Height {
		*dst = *NewSurface(s.Width, s.Height)
	}
	bg := background | 0xff000000
	for i, p := range s.Pix {
		dst.Pix[i] = Blend(bg, p)
	}
}

// RGBA writes the surface as straight R,G,B,A bytes into dst, growing it if needed.
func (s *Surface) RGBA(dst []byte) []byte {
	n := len(s.Pix) * bytesPerPixel
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	for i, p := range s.Pix {
		dst[i*4] = byte(p >> 16)
		dst[i*4+1] = byte(p >> 8)
		dst[i*4+2] = byte(p)
		dst[i*4+3] = byte(p >> 24)
	}
	return dst
}

// BGRX writes the surface in the X11 ZPixmap layout for 24/32 bit depths,
// padding each row to stride bytes.
func (s *Surface) BGRX(dst []byte, stride int) []byte {
	if stride < s.Width*bytesPerPixel {
		stride = s.Width * bytesPerPixel
	}
	n := stride * s.Height
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	for y := 0; y < s.Height; y++ {
		row := dst[y*stride:]
		for x := 0; x < s.Width; x++ {
			p := s.Pix[y*s.Width+x]
			row[x*4] = byte(p)
			row[x*4+1] = byte(p >> 8)
			row[x*4+2] = byte(p >> 16)
			row[x*4+3] = 0
		}
	}
	return dst
}
