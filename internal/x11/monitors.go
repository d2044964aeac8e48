package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

func (m Monitor) contains(x, y int) bool {
	return x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Disabled CRTC.
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   name,
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		})
	}
	return monitors, nil
}

// PointerMonitor returns the monitor under the mouse cursor, falling back to
// the first monitor, then to the whole root window when RandR has nothing.
func (c *Connection) PointerMonitor() Monitor {
	screen := c.Screen()
	root := Monitor{Name: "root", Width: int(screen.WidthInPixels), Height: int(screen.HeightInPixels)}

	monitors, err := c.GetMonitors()
	if err != nil || len(monitors) == 0 {
		return root
	}
	if p, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply(); err == nil {
		for _, m := range monitors {
			if m.contains(int(p.RootX), int(p.RootY)) {
				return m
			}
		}
	}
	return monitors[0]
}

// CenterOnPointerMonitor returns the origin that centers a width x height
// window inside the usable part of the monitor under the pointer.
func (c *Connection) CenterOnPointerMonitor(width, height int) (x, y int) {
	m := c.usable(c.PointerMonitor())
	return Center(m, width, height)
}

// Center returns the origin centering a width x height box in m, pinned to
// its top-left corner when the box does not fit.
func Center(m Monitor, width, height int) (x, y int) {
	x = m.X + max(0, (m.Width-width)/2)
	y = m.Y + max(0, (m.Height-height)/2)
	return x, y
}

// usable clips m to the EWMH work area of the current desktop, which
// excludes panels and docks.
func (c *Connection) usable(m Monitor) Monitor {
	areas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(areas) == 0 {
		return m
	}
	idx := 0
	if desk, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(desk) < len(areas) {
		idx = int(desk)
	}
	wa := areas[idx]

	x1 := max(m.X, int(wa.X))
	y1 := max(m.Y, int(wa.Y))
	x2 := min(m.X+m.Width, int(wa.X)+int(wa.Width))
	y2 := min(m.Y+m.Height, int(wa.Y)+int(wa.Height))
	if x2 <= x1 || y2 <= y1 {
		return m
	}
	m.X, m.Y, m.Width, m.Height = x1, y1, x2-x1, y2-y1
	return m
}
