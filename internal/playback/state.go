package playback

import "fmt"

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhasePlaying
	PhaseAdvancing
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhasePlaying:
		return "playing"
	case PhaseAdvancing:
		return "advancing"
	case PhaseClosed:
		return "closed"
	default:
		return "idle"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for _, candidate := range []Phase{PhaseIdle, PhaseLoading, PhasePlaying, PhaseAdvancing, PhaseClosed} {
		if candidate.String() == string(text) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// Position addresses one story of one user.
type Position struct {
	User  int
	Story int
}

// State is a snapshot of the session, safe to hand to other goroutines.
type State struct {
	Phase         Phase     `json:"phase"`
	UserIndex     int       `json:"userIndex"`
	UserID        string    `json:"userId,omitempty"`
	Username      string    `json:"username,omitempty"`
	AvatarURL     string    `json:"userAvatar,omitempty"`
	StoryIndex    int       `json:"storyIndex"`
	StoryID       string    `json:"storyId,omitempty"`
	StoryURL      string    `json:"storyUrl,omitempty"`
	StoryCount    int       `json:"storyCount"`
	Progress      float64   `json:"progress"`
	Loaded        bool      `json:"loaded"`
	Transitioning bool      `json:"transitioning"`
	Bars          []float64 `json:"bars,omitempty"`
}
