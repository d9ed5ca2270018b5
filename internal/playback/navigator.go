package playback

import "github.com/orgball2608/insta-stories-viewer/internal/domain"

type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Navigator decides where playback lands when it crosses to another user.
type Navigator struct {
	users    []domain.User
	progress ProgressReader
}

func NewNavigator(users []domain.User, progress ProgressReader) *Navigator {
	return &Navigator{users: users, progress: progress}
}

// Resume returns the position to play for target, or false when no such user
// exists. Both directions resume at the user's saved story rather than the first.
func (n *Navigator) Resume(target int, _ Direction) (Position, bool) {
	if target < 0 || target >= len(n.users) {
		return Position{}, false
	}
	return Position{User: target, Story: n.StartIndex(target)}, true
}

// StartIndex is the saved story index for the user, clamped to their stories.
func (n *Navigator) StartIndex(userIndex int) int {
	if n.progress == nil {
		return 0
	}
	u := n.users[userIndex]
	idx, ok := n.progress.StoryIndex(u.ID)
	if !ok || idx < 0 {
		return 0
	}
	if last := len(u.Stories) - 1; idx > last {
		return last
	}
	return idx
}
