package canvas

import "image/color"

const (
	Transparent uint32 = 0x00000000
	Black       uint32 = 0xff000000
	White       uint32 = 0xffffffff
)

// ARGB packs four channels into a 0xAARRGGBB value.
func ARGB(a, r, g, b uint8) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// Split unpacks a 0xAARRGGBB value.
func Split(c uint32) (a, r, g, b uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Blend composites src over dst. Both are straight (non-premultiplied) ARGB.
func Blend(dst, src uint32) uint32 {
	sa := src >> 24
	switch sa {
	case 0xff:
		return src
	case 0:
		return dst
	}
	inv := 255 - sa
	da := dst >> 24

	mix := func(shift uint) uint32 {
		s := (src >> shift) & 0xff
		d := (dst >> shift) & 0xff
		return ((s*sa + d*inv) / 255) & 0xff
	}

	a := sa + da*inv/255
	return a<<24 | mix(16)<<16 | mix(8)<<8 | mix(0)
}

// FromColor converts any color.Color to straight ARGB.
func FromColor(c color.Color) uint32 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return ARGB(n.A, n.R, n.G, n.B)
}

// ToNRGBA converts straight ARGB to color.NRGBA.
func ToNRGBA(c uint32) color.NRGBA {
	a, r, g, b := Split(c)
	return color.NRGBA{R: r, G: g, B: b, A: a}
}
