// Package platform connects the host to something that shows frames and
// reports the pointer: an X11 window, an ebiten window, or nothing at all.
package platform

import (
	"errors"
	"time"

	"github.com/1broseidon/softx/internal/canvas"
)

// ErrClosed is returned by a backend whose window was closed by the user.
var ErrClosed = errors.New("platform: backend closed")

// Pointer is a pointer sample in target pixels.
type Pointer struct {
	X        int
	Y        int
	LeftDown bool
}

// Backend is a pull model output: the caller samples the pointer and
// presents frames at its own pace.
type Backend interface {
	Size() (width, height int)
	Pointer() (Pointer, error)
	// Present shows an opaque frame of Size() pixels.
	Present(frame *canvas.Surface) error
	Close() error
}

// Driver advances the session by one tick. Push model backends that own
// their loop call it.
type Driver interface {
	Advance(dt time.Duration, p Pointer) (frame *canvas.Surface, changed bool)
}
