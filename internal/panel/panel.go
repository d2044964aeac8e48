// Package panel generates window content for configured panels.
//
// A Pattern paints into a window canvas. Static patterns only draw when the
// canvas is new or resized; animated ones repaint the parts that moved.
package panel

import (
	"fmt"
	"math"
	"time"

	"github.com/1broseidon/softx/internal/canvas"
)

// Pattern draws panel content.
type Pattern interface {
	// Draw repaints the whole canvas for the given elapsed time.
	Draw(c *canvas.Canvas, elapsed time.Duration)
	// Step advances an already drawn canvas to the new elapsed time.
	Step(c *canvas.Canvas, elapsed time.Duration)
}

const (
	defaultColor  = 0xff202020
	defaultAccent = 0xffe0e0e0

	checkerCell = 8
	barCount    = 6
	barGap      = 2
	bounceSpeed = 60 // content pixels per second
)

// New returns the pattern called name. Zero colors select defaults.
func New(name string, color, accent uint32) (Pattern, error) {
	if color == 0 {
		color = defaultColor
	}
	if accent == 0 {
		accent = defaultAccent
	}
	switch name {
	case "", "solid":
		return solid{color: color}, nil
	case "gradient":
		return gradient{from: color, to: accent}, nil
	case "checker":
		return checker{a: color, b: accent}, nil
	case "bounce":
		return &bounce{bg: color, fg: accent}, nil
	case "bars":
		return &bars{bg: color, fg: accent}, nil
	default:
		return nil, fmt.Errorf("unknown pattern %q", name)
	}
}

type solid struct{ color uint32 }

func (p solid) Draw(c *canvas.Canvas, _ time.Duration) { c.Clear(p.color) }
func (p solid) Step(*canvas.Canvas, time.Duration)     {}

// gradient blends from the base color at the top to the accent at the bottom.
type gradient struct{ from, to uint32 }

func (p gradient) Draw(c *canvas.Canvas, _ time.Duration) {
	h := c.Height()
	for y := 0; y < h; y++ {
		t := 0.0
		if h > 1 {
			t = float64(y) / float64(h-1)
		}
		c.FillRect(0, y, c.Width(), 1, lerp(p.from, p.to, t))
	}
}

func (p gradient) Step(*canvas.Canvas, time.Duration) {}

type checker struct{ a, b uint32 }

func (p checker) Draw(c *canvas.Canvas, _ time.Duration) {
	for y := 0; y < c.Height(); y += checkerCell {
		for x := 0; x < c.Width(); x += checkerCell {
			col := p.a
			if (x/checkerCell+y/checkerCell)%2 == 1 {
				col = p.b
			}
			c.FillRect(x, y, checkerCell, checkerCell, col)
		}
	}
}

func (p checker) Step(*canvas.Canvas, time.Duration) {}

// bounce moves a square around the canvas, repainting only the old and new
// square positions.
type bounce struct {
	bg, fg uint32
	last   canvas.Rect
}

func (p *bounce) square(c *canvas.Canvas, elapsed time.Duration) canvas.Rect {
	size := max(2, min(c.Width(), c.Height())/4)
	dist := int(elapsed.Seconds() * bounceSpeed)
	return canvas.Rect{
		X:      pingPong(dist, c.Width()-size),
		Y:      pingPong(dist*2/3, c.Height()-size),
		Width:  size,
		Height: size,
	}
}

func (p *bounce) Draw(c *canvas.Canvas, elapsed time.Duration) {
	c.Clear(p.bg)
	p.last = p.square(c, elapsed)
	c.FillRect(p.last.X, p.last.Y, p.last.Width, p.last.Height, p.fg)
}

func (p *bounce) Step(c *canvas.Canvas, elapsed time.Duration) {
	next := p.square(c, elapsed)
	if next == p.last {
		return
	}
	c.FillRect(p.last.X, p.last.Y, p.last.Width, p.last.Height, p.bg)
	c.FillRect(next.X, next.Y, next.Width, next.Height, p.fg)
	p.last = next
}

// bars draws a row of vertical level meters that rise and fall.
type bars struct {
	bg, fg  uint32
	heights [barCount]int
}

func (p *bars) levels(c *canvas.Canvas, elapsed time.Duration) [barCount]int {
	var out [barCount]int
	t := elapsed.Seconds()
	for i := range out {
		v := 0.5 + 0.5*math.Sin(t*2+float64(i)*0.9)
		out[i] = int(v * float64(c.Height()))
	}
	return out
}

func (p *bars) column(c *canvas.Canvas, i int) (x, w int) {
	w = max(1, (c.Width()-barGap*(barCount+1))/barCount)
	return barGap + i*(w+barGap), w
}

func (p *bars) Draw(c *canvas.Canvas, elapsed time.Duration) {
	c.Clear(p.bg)
	p.heights = p.levels(c, elapsed)
	for i, h := range p.heights {
		x, w := p.column(c, i)
		c.FillRect(x, c.Height()-h, w, h, p.fg)
	}
}

func (p *bars) Step(c *canvas.Canvas, elapsed time.Duration) {
	next := p.levels(c, elapsed)
	for i, h := range next {
		old := p.heights[i]
		if h == old {
			continue
		}
		x, w := p.column(c, i)
		if h > old {
			c.FillRect(x, c.Height()-h, w, h-old, p.fg)
		} else {
			c.FillRect(x, c.Height()-old, w, old-h, p.bg)
		}
	}
	p.heights = next
}

// pingPong folds a distance into [0, span] going back and forth.
func pingPong(dist, span int) int {
	if span <= 0 {
		return 0
	}
	period := span * 2
	d := dist % period
	if d > span {
		return period - d
	}
	return d
}

func lerp(from, to uint32, t float64) uint32 {
	fa, fr, fg, fb := canvas.Split(from)
	ta, tr, tg, tb := canvas.Split(to)
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
	}
	return canvas.ARGB(mix(fa, ta), mix(fr, tr), mix(fg, tg), mix(fb, tb))
}
