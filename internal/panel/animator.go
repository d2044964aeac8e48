package panel

import (
	"time"

	"github.com/1broseidon/softx/internal/display"
)

// Animator drives one pattern on one window.
type Animator struct {
	window  *display.Window
	pattern Pattern
	elapsed time.Duration
	width   int
	height  int
}

// NewAnimator draws the first frame into w.
func NewAnimator(w *display.Window, p Pattern) *Animator {
	a := &Animator{window: w, pattern: p}
	a.redraw()
	return a
}

func (a *Animator) Window() *display.Window { return a.window }

// Elapsed returns the animation time.
func (a *Animator) Elapsed() time.Duration { return a.elapsed }

// Step advances the animation by dt. A resized canvas lost its content and is
// drawn again in full.
func (a *Animator) Step(dt time.Duration) {
	if a.window.Destroyed() {
		return
	}
	if dt > 0 {
		a.elapsed += dt
	}
	cv := a.window.Canvas()
	if cv.Width() != a.width || cv.Height() != a.height {
		a.redraw()
		return
	}
	a.pattern.Step(cv, a.elapsed)
}

func (a *Animator) redraw() {
	cv := a.window.Canvas()
	a.width, a.height = cv.Width(), cv.Height()
	a.pattern.Draw(cv, a.elapsed)
}
