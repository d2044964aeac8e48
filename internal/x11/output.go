package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// ErrWindowClosed is returned once the window manager asked the output window to close.
var ErrWindowClosed = errors.New("x11: output window closed")

// putImageHeader is the fixed part of a PutImage request in bytes.
const putImageHeader = 24

// Output is a fixed size top-level window showing BGRX frames.
type Output struct {
	conn   *Connection
	win    *xwindow.Window
	gc     xproto.Gcontext
	depth  byte
	width  int
	height int
	stride int
	buf    []byte

	deleteAtom xproto.Atom
	closed     bool
}

// NewOutput creates and maps a window of the given size at (x, y).
func (c *Connection) NewOutput(title string, x, y, width, height int) (*Output, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid output size %dx%d", width, height)
	}
	screen := c.Screen()
	depth := screen.RootDepth

	var bitsPerPixel, scanlinePad int
	for _, format := range xproto.Setup(c.XUtil.Conn()).PixmapFormats {
		if format.Depth == depth {
			bitsPerPixel = int(format.BitsPerPixel)
			scanlinePad = int(format.ScanlinePad)
			break
		}
	}
	if bitsPerPixel != 32 {
		return nil, fmt.Errorf("unsupported pixmap format for depth %d: %d bits per pixel", depth, bitsPerPixel)
	}
	padBytes := max(1, scanlinePad/8)
	stride := ((width*4 + padBytes - 1) / padBytes) * padBytes

	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to create window ID: %w", err)
	}
	err = win.CreateChecked(c.Root, x, y, width, height,
		xproto.CwBackPixel|xproto.CwEventMask,
		0x000000,
		xproto.EventMaskExposure|xproto.EventMaskStructureNotify,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	if err := ewmh.WmNameSet(c.XUtil, win.Id, title); err != nil {
		icccm.WmNameSet(c.XUtil, win.Id, title)
	}
	icccm.WmClassSet(c.XUtil, win.Id, &icccm.WmClass{Instance: "softx", Class: "Softx"})
	icccm.WmNormalHintsSet(c.XUtil, win.Id, &icccm.NormalHints{
		Flags:     icccm.SizeHintPMinSize | icccm.SizeHintPMaxSize,
		MinWidth:  uint(width),
		MinHeight: uint(height),
		MaxWidth:  uint(width),
		MaxHeight: uint(height),
	})
	if err := icccm.WmProtocolsSet(c.XUtil, win.Id, []string{"WM_DELETE_WINDOW"}); err != nil {
		win.Destroy()
		return nil, fmt.Errorf("failed to set WM_PROTOCOLS: %w", err)
	}
	deleteAtom, err := xprop.Atm(c.XUtil, "WM_DELETE_WINDOW")
	if err != nil {
		win.Destroy()
		return nil, fmt.Errorf("failed to intern WM_DELETE_WINDOW: %w", err)
	}

	gc, err := xproto.NewGcontextId(c.XUtil.Conn())
	if err != nil {
		win.Destroy()
		return nil, fmt.Errorf("failed to create graphics context: %w", err)
	}
	if err := xproto.CreateGCChecked(c.XUtil.Conn(), gc, xproto.Drawable(win.Id), 0, nil).Check(); err != nil {
		win.Destroy()
		return nil, fmt.Errorf("failed to create GC: %w", err)
	}

	win.Map()
	c.XUtil.Sync()

	return &Output{
		conn:       c,
		win:        win,
		gc:         gc,
		depth:      depth,
		width:      width,
		height:     height,
		stride:     stride,
		deleteAtom: deleteAtom,
	}, nil
}

// Size returns the window size in pixels.
func (o *Output) Size() (int, int) { return o.width, o.height }

// Stride returns the padded row length expected by Put.
func (o *Output) Stride() int { return o.stride }

// Buffer returns a reusable frame buffer of stride*height bytes.
func (o *Output) Buffer() []byte {
	if n := o.stride * o.height; cap(o.buf) < n {
		o.buf = make([]byte, n)
	}
	return o.buf[:o.stride*o.height]
}

// Put uploads a full BGRX frame, split into as many PutImage requests as the
// server's maximum request length needs.
func (o *Output) Put(data []byte) error {
	if o.closed {
		return ErrWindowClosed
	}
	if len(data) < o.stride*o.height {
		return fmt.Errorf("frame too short: %d bytes, want %d", len(data), o.stride*o.height)
	}
	xc := o.conn.XUtil.Conn()
	maxBytes := int(xproto.Setup(xc).MaximumRequestLength)*4 - putImageHeader
	rows := max(1, maxBytes/o.stride)

	for y := 0; y < o.height; y += rows {
		n := min(rows, o.height-y)
		chunk := data[y*o.stride : (y+n)*o.stride]
		xproto.PutImage(xc, xproto.ImageFormatZPixmap, xproto.Drawable(o.win.Id), o.gc,
			uint16(o.width), uint16(n), 0, int16(y), 0, o.depth, chunk)
	}
	o.conn.XUtil.Sync()
	return nil
}

// QueryPointer returns the pointer position relative to the window and
// whether the left button is held. Pending events are drained first so a
// close request is noticed.
func (o *Output) QueryPointer() (x, y int, leftDown bool, err error) {
	if err := o.pollEvents(); err != nil {
		return 0, 0, false, err
	}
	reply, err := xproto.QueryPointer(o.conn.XUtil.Conn(), o.win.Id).Reply()
	if err != nil {
		return 0, 0, false, fmt.Errorf("failed to query pointer: %w", err)
	}
	return int(reply.WinX), int(reply.WinY), reply.Mask&xproto.KeyButMaskButton1 != 0, nil
}

func (o *Output) pollEvents() error {
	if o.closed {
		return ErrWindowClosed
	}
	xc := o.conn.XUtil.Conn()
	for {
		ev, xerr := xc.PollForEvent()
		if ev == nil && xerr == nil {
			return nil
		}
		if msg, ok := ev.(xproto.ClientMessageEvent); ok && msg.Format == 32 {
			if xproto.Atom(msg.Data.Data32[0]) == o.deleteAtom {
				o.closed = true
				return ErrWindowClosed
			}
		}
		if _, ok := ev.(xproto.DestroyNotifyEvent); ok {
			o.closed = true
			return ErrWindowClosed
		}
	}
}

// Close destroys the window.
func (o *Output) Close() {
	xproto.FreeGC(o.conn.XUtil.Conn(), o.gc)
	o.win.Destroy()
	o.closed = true
}
