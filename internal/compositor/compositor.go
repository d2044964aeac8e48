// Package compositor merges the windows of a display server into one target surface.
package compositor

import (
	"github.com/1broseidon/softx/internal/canvas"
	"github.com/1broseidon/softx/internal/display"
)

// Stats describes the work done by one Compose call.
type Stats struct {
	Windows      int  // windows drawn
	CopiedPixels int  // pixels copied from canvases into cache surfaces
	Purged       int  // cache entries dropped for vanished windows
	FullRedraw   bool // server requested a full redraw since the last compose
}

// Changed reports whether the frame can differ from the previous one.
func (s Stats) Changed() bool {
	return s.CopiedPixels > 0 || s.Purged > 0 || s.FullRedraw
}

// Compositor keeps one offscreen copy per window so unchanged windows cost
// nothing beyond the final blit.
type Compositor struct {
	cache map[uint32]*canvas.Surface
}

func New() *Compositor {
	return &Compositor{cache: make(map[uint32]*canvas.Surface)}
}

// Compose redraws target from the server's windows, back to front.
func (c *Compositor) Compose(server *display.Server, target *canvas.Surface) Stats {
	var stats Stats
	stats.FullRedraw = server.TakeFullRedraw()

	target.Clear(canvas.Transparent)

	windows := server.Windows()
	live := make(map[uint32]struct{}, len(windows))

	for _, w := range windows {
		live[w.ID()] = struct{}{}
		if !w.Mapped() || w.Destroyed() {
			continue
		}

		cv := w.Canvas()
		surf, ok := c.cache[w.ID()]
		if !ok || !surf.SameSize(cv) {
			surf = canvas.NewSurface(cv.Width(), cv.Height())
			c.cache[w.ID()] = surf
			cv.MarkAllDirty()
		}

		if r, dirty := cv.Dirty(); dirty {
			stats.CopiedPixels += surf.CopyFromCanvas(cv, r)
			cv.ClearDirty()
		}

		x, y := w.Position()
		if w.Scale() == 1 {
			target.Blit(surf, x, y)
		} else {
			target.BlitScaled(surf, x, y, w.Scale())
		}
		stats.Windows++
	}

	for id := range c.cache {
		if _, ok := live[id]; !ok {
			delete(c.cache, id)
			stats.Purged++
		}
	}

	return stats
}

// Cached reports whether a cache surface exists for the window id.
func (c *Compositor) Cached(id uint32) bool {
	_, ok := c.cache[id]
	return ok
}

func (c *Compositor) CacheLen() int { return len(c.cache) }

// Reset drops every cache entry. The next Compose recopies all windows.
func (c *Compositor) Reset() {
	c.cache = make(map[uint32]*canvas.Surface)
}
