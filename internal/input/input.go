// Package input maps raw viewer input (keys, clicks, the close control) to
// navigation actions.
package input

const (
	TypeKey   = "key"
	TypeClick = "click"
	TypeClose = "close"

	KeyArrowRight = "ArrowRight"
	KeyArrowLeft  = "ArrowLeft"
	KeyEscape     = "Escape"
)

type Action int

const (
	ActionNone Action = iota
	ActionNext
	ActionPrevious
	ActionClose
)

func (a Action) String() string {
	switch a {
	case ActionNext:
		return "next"
	case ActionPrevious:
		return "previous"
	case ActionClose:
		return "close"
	default:
		return "none"
	}
}

// Event is one input message from the client.
type Event struct {
	Type  string  `json:"type"`
	Key   string  `json:"key,omitempty"`
	X     float64 `json:"x,omitempty"`
	Width float64 `json:"width,omitempty"`
}

// Navigator is the part of the viewer input can drive.
type Navigator interface {
	AdvanceNext()
	AdvancePrevious()
	Close()
}

func Map(e Event) Action {
	switch e.Type {
	case TypeKey:
		return FromKey(e.Key)
	case TypeClick:
		return FromClick(e.X, e.Width)
	case TypeClose:
		return ActionClose
	}
	return ActionNone
}

// FromKey ignores every key except the three bound ones.
func FromKey(key string) Action {
	switch key {
	case KeyArrowRight:
		return ActionNext
	case KeyArrowLeft:
		return ActionPrevious
	case KeyEscape:
		return ActionClose
	}
	return ActionNone
}

// FromClick splits the content area of the given width in halves. A click
// outside the content area lands on the overlay and closes the viewer.
func FromClick(x, width float64) Action {
	if width <= 0 {
		return ActionNone
	}
	switch {
	case x < 0 || x > width:
		return ActionClose
	case x < width/2:
		return ActionPrevious
	default:
		return ActionNext
	}
}

// Apply runs a on n and reports whether anything was invoked.
func Apply(n Navigator, a Action) bool {
	switch a {
	case ActionNext:
		n.AdvanceNext()
	case ActionPrevious:
		n.AdvancePrevious()
	case ActionClose:
		n.Close()
	default:
		return false
	}
	return true
}
