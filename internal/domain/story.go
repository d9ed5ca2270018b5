package domain

import (
	"errors"
	"fmt"
	"time"
)

// DefaultStoryDuration applies when a story omits its duration.
const DefaultStoryDuration = 5000 * time.Millisecond

var ErrNoStories = errors.New("user has no stories")

// Story is a single timed media item. DurationMs is zero when the source omitted it.
type Story struct {
	ID         string `json:"id"`
	URL        string `json:"url"`
	DurationMs int64  `json:"duration,omitempty"`
}

// Duration returns the story's display time, falling back to def (or DefaultStoryDuration) when unset.
func (s Story) Duration(def time.Duration) time.Duration {
	if s.DurationMs > 0 {
		return time.Duration(s.DurationMs) * time.Millisecond
	}
	if def > 0 {
		return def
	}
	return DefaultStoryDuration
}

type User struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	AvatarURL string  `json:"userAvatar"`
	Stories   []Story `json:"stories"`
}

func (u User) Validate() error {
	if len(u.Stories) == 0 {
		return fmt.Errorf("user %s: %w", u.ID, ErrNoStories)
	}
	return nil
}

// Playable drops users that cannot be opened in the viewer and reports them.
func Playable(users []User) (playable []User, dropped []User) {
	playable = make([]User, 0, len(users))
	for _, u := range users {
		if err := u.Validate(); err != nil {
			dropped = append(dropped, u)
			continue
		}
		playable = append(playable, u)
	}
	return playable, dropped
}
