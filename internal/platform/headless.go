package platform

import (
	"sync"

	"github.com/1broseidon/softx/internal/canvas"
)

// Headless is a Backend without a display. The pointer replays a script and
// the last presented frame is kept for inspection.
type Headless struct {
	mu       sync.Mutex
	width    int
	height   int
	script   []Pointer
	pos      int
	last     *canvas.Surface
	presents int
	closed   bool
}

var _ Backend = (*Headless)(nil)

// NewHeadless returns a backend of the given size. Each Pointer call returns
// the next script entry; the last entry repeats.
func NewHeadless(width, height int, script ...Pointer) *Headless {
	return &Headless{width: width, height: height, script: script}
}

func (h *Headless) Size() (int, int) { return h.width, h.height }

func (h *Headless) Pointer() (Pointer, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return Pointer{}, ErrClosed
	}
	if len(h.script) == 0 {
		return Pointer{}, nil
	}
	p := h.script[min(h.pos, len(h.script)-1)]
	h.pos++
	return p, nil
}

func (h *Headless) Present(frame *canvas.Surface) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	if h.last == nil {
		h.last = &canvas.Surface{}
	}
	h.last.Width, h.last.Height = frame.Width, frame.Height
	h.last.Pix = append(h.last.Pix[:0], frame.Pix...)
	h.presents++
	return nil
}

// Last returns a copy of the last presented frame, or nil.
func (h *Headless) Last() *canvas.Surface {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.last == nil {
		return nil
	}
	out := canvas.NewSurface(h.last.Width, h.last.Height)
	copy(out.Pix, h.last.Pix)
	return out
}

// Presents returns how many frames were presented.
func (h *Headless) Presents() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.presents
}

func (h *Headless) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}
