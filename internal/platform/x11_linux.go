//go:build linux

package platform

import (
	"errors"
	"fmt"

	"github.com/1broseidon/softx/internal/canvas"
	"github.com/1broseidon/softx/internal/x11"
)

// X11Backend shows frames in a plain X11 window centered on the monitor
// under the pointer.
type X11Backend struct {
	conn   *x11.Connection
	output *x11.Output
}

var _ Backend = (*X11Backend)(nil)

// NewX11Backend connects to $DISPLAY and maps the output window.
func NewX11Backend(title string, width, height int) (*X11Backend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	x, y := conn.CenterOnPointerMonitor(width, height)
	out, err := conn.NewOutput(title, x, y, width, height)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return &X11Backend{conn: conn, output: out}, nil
}

func (b *X11Backend) Size() (int, int) { return b.output.Size() }

func (b *X11Backend) Pointer() (Pointer, error) {
	x, y, down, err := b.output.QueryPointer()
	if errors.Is(err, x11.ErrWindowClosed) {
		return Pointer{}, ErrClosed
	}
	if err != nil {
		return Pointer{}, err
	}
	return Pointer{X: x, Y: y, LeftDown: down}, nil
}

func (b *X11Backend) Present(frame *canvas.Surface) error {
	w, h := b.output.Size()
	if frame.Width != w || frame.Height != h {
		return fmt.Errorf("frame size %dx%d does not match output %dx%d", frame.Width, frame.Height, w, h)
	}
	err := b.output.Put(frame.BGRX(b.output.Buffer(), b.output.Stride()))
	if errors.Is(err, x11.ErrWindowClosed) {
		return ErrClosed
	}
	return err
}

func (b *X11Backend) Close() error {
	b.output.Close()
	b.conn.Close()
	return nil
}
