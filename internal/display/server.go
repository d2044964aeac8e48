// Package display implements the window registry: windows, their z-order,
// focus and lifecycle notifications.
//
// Everything here runs on the tick goroutine. There is no locking.
package display

import (
	"github.com/1broseidon/softx/internal/canvas"
)

// WindowManager is the policy layer driven once per tick by the host.
type WindowManager interface {
	Update()
	HandleMouse(x, y int, down, pressed, released bool)
}

// Server owns all windows. List order is z-order, last is topmost.
type Server struct {
	windows           []*Window
	byID              map[uint32]*Window
	nextID            uint32
	focused           *Window
	windowManager     WindowManager
	fullRedrawPending bool
	events            bus
}

// NewServer creates an empty server.
func NewServer() *Server {
	return &Server{
		byID:   make(map[uint32]*Window),
		nextID: 1,
	}
}

// Subscribe registers a lifecycle observer and returns a cancel func.
func (s *Server) Subscribe(fn func(Event)) func() {
	return s.events.subscribe(fn)
}

// SetWindowManager installs the active manager, replacing any previous one.
func (s *Server) SetWindowManager(wm WindowManager) {
	s.windowManager = wm
}

// WindowManager returns the active manager, or nil.
func (s *Server) WindowManager() WindowManager {
	return s.windowManager
}

// CreateWindow appends a new unmapped window on top of the stack.
func (s *Server) CreateWindow(name, title string, geometry canvas.Rect, style Style, scale int) *Window {
	w := newWindow(s.nextID, name, title, geometry, style, scale)
	s.nextID++
	s.windows = append(s.windows, w)
	s.byID[w.id] = w
	s.fullRedrawPending = true
	s.events.publish(Event{Kind: EventCreated, Window: w})
	return w
}

// Window looks up a live window by id.
func (s *Server) Window(id uint32) (*Window, bool) {
	w, ok := s.byID[id]
	return w, ok
}

// Windows returns the windows back to front. The slice is a copy.
func (s *Server) Windows() []*Window {
	out := make([]*Window, len(s.windows))
	copy(out, s.windows)
	return out
}

func (s *Server) Len() int { return len(s.windows) }

// Focused returns the focused window, or nil.
func (s *Server) Focused() *Window {
	return s.focused
}

// FullRedrawPending reports whether window set or geometry changed since the last TakeFullRedraw.
func (s *Server) FullRedrawPending() bool {
	return s.fullRedrawPending
}

// TakeFullRedraw returns and clears the full redraw flag.
func (s *Server) TakeFullRedraw() bool {
	pending := s.fullRedrawPending
	s.fullRedrawPending = false
	return pending
}

// MapWindow makes the window visible. Returns false if unknown or already mapped.
func (s *Server) MapWindow(w *Window) bool {
	if !s.owns(w) || w.mapped {
		return false
	}
	w.mapped = true
	s.fullRedrawPending = true
	s.events.publish(Event{Kind: EventMapped, Window: w})
	return true
}

// UnmapWindow hides the window. Returns false if unknown or not mapped.
func (s *Server) UnmapWindow(w *Window) bool {
	if !s.owns(w) || !w.mapped {
		return false
	}
	w.mapped = false
	s.fullRedrawPending = true
	s.events.publish(Event{Kind: EventUnmapped, Window: w})
	return true
}

// DestroyWindow removes the window and marks it destroyed.
func (s *Server) DestroyWindow(w *Window) bool {
	if w == nil {
		return false
	}
	return s.DestroyWindowByID(w.id)
}

// DestroyWindowByID removes the window with the given id.
func (s *Server) DestroyWindowByID(id uint32) bool {
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	w := s.windows[idx]
	s.windows = append(s.windows[:idx], s.windows[idx+1:]...)
	delete(s.byID, id)

	w.mapped = false
	w.destroyed = true
	if s.focused == w {
		s.focused = nil
	}
	s.fullRedrawPending = true
	s.events.publish(Event{Kind: EventDestroyed, Window: w})
	return true
}

// BringToFront moves the window to the top of the z-order.
func (s *Server) BringToFront(w *Window) bool {
	if w == nil {
		return false
	}
	idx := s.indexOf(w.id)
	if idx < 0 {
		return false
	}
	if idx == len(s.windows)-1 {
		return true
	}
	s.windows = append(s.windows[:idx], s.windows[idx+1:]...)
	s.windows = append(s.windows, w)
	s.fullRedrawPending = true
	return true
}

// MoveWindow changes the on-screen origin.
func (s *Server) MoveWindow(w *Window, x, y int) bool {
	if !s.owns(w) {
		return false
	}
	if w.geometry.X == x && w.geometry.Y == y {
		return true
	}
	w.geometry.X = x
	w.geometry.Y = y
	s.fullRedrawPending = true
	return true
}

// FocusWindow sets the single focused window.
func (s *Server) FocusWindow(w *Window) bool {
	if !s.owns(w) {
		return false
	}
	s.focused = w
	s.events.publish(Event{Kind: EventFocused, Window: w})
	return true
}

// SetWindowScale changes a window's scale by id.
func (s *Server) SetWindowScale(id uint32, scale int, preserveOnscreen bool) bool {
	w, ok := s.byID[id]
	if !ok {
		return false
	}
	w.SetScale(scale, preserveOnscreen)
	s.fullRedrawPending = true
	return true
}

// SetWindowOnscreenSize resizes a window by on-screen size.
func (s *Server) SetWindowOnscreenSize(id uint32, width, height int) bool {
	w, ok := s.byID[id]
	if !ok {
		return false
	}
	w.SetOnscreenSize(width, height)
	s.fullRedrawPending = true
	return true
}

// SetWindowContentSize resizes a window's canvas by id.
func (s *Server) SetWindowContentSize(id uint32, width, height int) bool {
	w, ok := s.byID[id]
	if !ok {
		return false
	}
	w.SetContentSize(width, height)
	s.fullRedrawPending = true
	return true
}

// WindowAt returns the topmost mapped window whose on-screen bounds contain the point.
func (s *Server) WindowAt(x, y int) (*Window, bool) {
	for i := len(s.windows) - 1; i >= 0; i-- {
		w := s.windows[i]
		if w.mapped && w.Bounds().Contains(x, y) {
			return w, true
		}
	}
	return nil, false
}

func (s *Server) owns(w *Window) bool {
	if w == nil || w.destroyed {
		return false
	}
	live, ok := s.byID[w.id]
	return ok && live == w
}

func (s *Server) indexOf(id uint32) int {
	for i, w := range s.windows {
		if w.id == id {
			return i
		}
	}
	return -1
}
