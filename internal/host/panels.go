package host

import (
	"errors"
	"fmt"

	"github.com/1broseidon/softx/internal/canvas"
	"github.com/1broseidon/softx/internal/config"
	"github.com/1broseidon/softx/internal/display"
	"github.com/1broseidon/softx/internal/panel"
	"github.com/1broseidon/softx/internal/tiling"
)

// wrapsPanel reports whether p ends up inside a window manager frame.
func wrapsPanel(p config.Panel) bool {
	if p.Wrap != nil {
		return *p.Wrap
	}
	return display.ParseStyle(p.Style) == display.StyleTitled
}

// outerSize is the on-screen size of p including its titlebar.
func (h *Host) outerSize(p config.Panel) tiling.Size {
	scale := max(1, p.Scale)
	size := tiling.Size{Width: p.Width * scale, Height: p.Height * scale}
	if wrapsPanel(p) {
		size.Height += h.twm.Options().TitlebarHeight * scale
	}
	return size
}

// CreatePanel creates, maps and animates one panel window. (x, y) is the
// outer top-left corner, titlebar included.
func (h *Host) CreatePanel(p config.Panel, x, y int) (*display.Window, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return nil, fmt.Errorf("panel %q: invalid size %dx%d", p.Name, p.Width, p.Height)
	}
	pattern, err := panel.New(p.Pattern, p.Color.ARGB(), p.Accent.ARGB())
	if err != nil {
		return nil, fmt.Errorf("panel %q: %w", p.Name, err)
	}
	scale := max(1, p.Scale)
	if wrapsPanel(p) {
		y += h.twm.Options().TitlebarHeight * scale
	}

	title := p.Title
	if title == "" {
		title = p.Name
	}
	w := h.server.CreateWindow(p.Name, title, canvas.Rect{X: x, Y: y, Width: p.Width, Height: p.Height}, display.ParseStyle(p.Style), scale)
	h.animators[w.ID()] = panel.NewAnimator(w, pattern)
	h.server.MapWindow(w)

	// Titled windows were wrapped by the map notification.
	if p.Wrap != nil {
		if *p.Wrap {
			h.twm.Wrap(w)
		} else {
			h.twm.Unwrap(w)
		}
	}

	h.log.Debug("panel created", "id", w.ID(), "name", p.Name, "pattern", p.Pattern, "wrapped", h.twm.IsWrapped(w))
	return w, nil
}

// SpawnPanels creates every panel. Panels without coordinates are laid out
// by the placement settings over the whole target.
func (h *Host) SpawnPanels(panels []config.Panel, placement config.Placement) ([]*display.Window, error) {
	var autoIdx []int
	var sizes []tiling.Size
	for i, p := range panels {
		if !p.Placed() {
			autoIdx = append(autoIdx, i)
			sizes = append(sizes, h.outerSize(p))
		}
	}

	origins := make(map[int]canvas.Rect, len(autoIdx))
	if len(sizes) > 0 {
		area := canvas.Rect{Width: h.target.Width, Height: h.target.Height}
		rects, err := tiling.Place(area, &placement, sizes)
		if err != nil {
			h.log.Warn("panel placement failed, cascading instead", "error", err)
			rects = tiling.Cascade(area, sizes)
		}
		for k, i := range autoIdx {
			origins[i] = rects[k]
		}
	}

	var created []*display.Window
	var errs []error
	for i, p := range panels {
		x, y := 0, 0
		if p.Placed() {
			x, y = *p.X, *p.Y
		} else {
			x, y = origins[i].X, origins[i].Y
		}
		w, err := h.CreatePanel(p, x, y)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		created = append(created, w)
	}
	if len(created) > 0 {
		h.server.FocusWindow(created[len(created)-1])
	}
	return created, errors.Join(errs...)
}

// Animated reports whether a window has a panel animator.
func (h *Host) Animated(id uint32) bool {
	_, ok := h.animators[id]
	return ok
}

// CenteredOrigin returns the outer top-left that centers p on the target.
func (h *Host) CenteredOrigin(p config.Panel) (int, int) {
	size := h.outerSize(p)
	return (h.target.Width - size.Width) / 2, (h.target.Height - size.Height) / 2
}
