// Package playback drives a story viewing session: autoplay timing, story and user
// transitions, resume from the last seen story, and the progress/seen events the
// owner of the session persists.
package playback

import (
	"errors"
	"time"

	"github.com/orgball2608/insta-stories-viewer/internal/eventloop"
)

var (
	ErrNoUsers       = errors.New("no users to view")
	ErrInvalidUser   = errors.New("user index out of range")
	ErrAlreadyOpened = errors.New("viewer already opened")
)

//go:generate go run go.uber.org/mock/mockgen -source=playback.go -destination=mocks/mock.go

// Listener receives the events the viewer emits to its owner.
type Listener interface {
	OnProgressChange(userID string, storyIndex int)
	OnUserSeen(userID string)
	OnClose()
}

// ProgressReader exposes the owner's last-visited story index per user.
type ProgressReader interface {
	StoryIndex(userID string) (int, bool)
}

// Scheduler is the session's event loop. Every callback it runs executes serially.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) eventloop.Task
	Post(f func()) bool
	Go(f func())
}

var _ Scheduler = (*eventloop.Loop)(nil)
