package wm

import (
	"github.com/1broseidon/softx/internal/display"
)

// Phase represents the current pointer interaction
type Phase int

const (
	// PhaseIdle means no button-held interaction is in progress
	PhaseIdle Phase = iota
	// PhaseDragging means a frame follows the pointer by its titlebar
	PhaseDragging
	// PhaseResizing means a corner grip is held
	PhaseResizing
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	case PhaseResizing:
		return "resizing"
	default:
		return "unknown"
	}
}

// Handle identifies the resize corner being dragged
type Handle int

const (
	HandleNone Handle = iota
	HandleBottomRight
	HandleBottomLeft
	HandleTopRight
	HandleTopLeft
)

// String returns the string representation of the handle
func (h Handle) String() string {
	switch h {
	case HandleNone:
		return "none"
	case HandleBottomRight:
		return "bottom-right"
	case HandleBottomLeft:
		return "bottom-left"
	case HandleTopRight:
		return "top-right"
	case HandleTopLeft:
		return "top-left"
	default:
		return "unknown"
	}
}

func (h Handle) left() bool { return h == HandleBottomLeft || h == HandleTopLeft }
func (h Handle) top() bool  { return h == HandleTopRight || h == HandleTopLeft }

// State holds the single drag or resize in progress. Only one of the two can
// be active, so both live in one struct keyed by Phase.
type State struct {
	Phase  Phase
	Handle Handle
	Client *display.Window
	Frame  *display.Window

	OffsetX int // drag: pointer minus frame origin at press
	OffsetY int

	StartMouseX int // resize snapshot taken at press
	StartMouseY int
	StartWidth  int // client content size
	StartHeight int
	StartFrameX int
	StartFrameY int
}

// NewState creates a new idle state
func NewState() *State {
	return &State{Phase: PhaseIdle}
}

// Reset returns the state to idle
func (s *State) Reset() {
	*s = State{Phase: PhaseIdle}
}

// Active reports whether a drag or resize is in progress.
func (s *State) Active() bool {
	return s.Phase != PhaseIdle
}

// Involves reports whether the window takes part in the active interaction.
func (s *State) Involves(w *display.Window) bool {
	return s.Active() && w != nil && (s.Client == w || s.Frame == w)
}
