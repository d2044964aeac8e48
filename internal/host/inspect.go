package host

import (
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/1broseidon/softx/internal/display"
	"github.com/1broseidon/softx/internal/wm"
)

// WindowInfo is a snapshot of one window for inspection.
type WindowInfo struct {
	ID      uint32 `json:"id"`
	Name    string `json:"name"`
	Title   string `json:"title"`
	Style   string `json:"style"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Scale   int    `json:"scale"`
	Mapped  bool   `json:"mapped"`
	Focused bool   `json:"focused"`
	Frame   bool   `json:"frame"`
	// FrameID is the frame wrapping this window, if any.
	FrameID uint32 `json:"frame_id,omitempty"`
	Z       int    `json:"z"`
}

// Windows returns every window back to front.
func (h *Host) Windows() []WindowInfo {
	windows := h.server.Windows()
	out := make([]WindowInfo, 0, len(windows))
	for z, w := range windows {
		out = append(out, h.info(w, z))
	}
	return out
}

// Info describes a single window. Z is -1 once the window is destroyed.
func (h *Host) Info(w *display.Window) WindowInfo {
	z := -1
	for i, cur := range h.server.Windows() {
		if cur == w {
			z = i
			break
		}
	}
	return h.info(w, z)
}

func (h *Host) info(w *display.Window, z int) WindowInfo {
	x, y := w.Position()
	cw, ch := w.ContentSize()
	info := WindowInfo{
		ID:      w.ID(),
		Name:    w.Name(),
		Title:   w.Title(),
		Style:   w.Style().String(),
		X:       x,
		Y:       y,
		Width:   cw,
		Height:  ch,
		Scale:   w.Scale(),
		Mapped:  w.Mapped(),
		Focused: w == h.server.Focused(),
		Frame:   wm.IsFrame(w),
		Z:       z,
	}
	if f, ok := h.twm.FrameOf(w); ok {
		info.FrameID = f.ID()
	}
	return info
}

// Lookup returns the live window with id, resolving a frame id to its client.
func (h *Host) Lookup(id uint32) (*display.Window, error) {
	w, ok := h.server.Window(id)
	if !ok {
		return nil, fmt.Errorf("window %d not found", id)
	}
	if client, ok := h.twm.ClientOf(w); ok {
		return client, nil
	}
	return w, nil
}

// WritePNG encodes the current output frame.
func (h *Host) WritePNG(w io.Writer) error {
	if h.ticks == 0 {
		h.target.FlattenInto(h.output, h.background)
	}
	return png.Encode(w, h.output)
}

// Screenshot writes the current output frame to path as PNG.
func (h *Host) Screenshot(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create screenshot directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create screenshot: %w", err)
	}
	if err := h.WritePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode screenshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write screenshot: %w", err)
	}
	h.log.Info("screenshot saved", "path", path)
	return nil
}
