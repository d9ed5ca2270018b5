package viewer

import (
	"sync"

	"github.com/orgball2608/insta-stories-viewer/internal/domain"
	"github.com/orgball2608/insta-stories-viewer/internal/playback"
)

// Store owns the progress map and the seen set for the life of the process.
// Sessions write through their listener; the list endpoint reads concurrently.
type Store struct {
	mu       sync.RWMutex
	progress map[string]int
	seen     map[string]struct{}
}

var _ playback.ProgressReader = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		progress: make(map[string]int),
		seen:     make(map[string]struct{}),
	}
}

func (s *Store) StoryIndex(userID string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.progress[userID]
	return idx, ok
}

// SetProgress records the last visited story. Last write wins.
func (s *Store) SetProgress(userID string, storyIndex int) {
	if storyIndex < 0 {
		return
	}
	s.mu.Lock()
	s.progress[userID] = storyIndex
	s.mu.Unlock()
}

func (s *Store) MarkSeen(userID string) {
	s.mu.Lock()
	s.seen[userID] = struct{}{}
	s.mu.Unlock()
}

func (s *Store) Seen(userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.seen[userID]
	return ok
}

// Row is one entry of the user list.
type Row struct {
	Index          int    `json:"index"`
	ID             string `json:"id"`
	Username       string `json:"username"`
	AvatarURL      string `json:"userAvatar"`
	StoryCount     int    `json:"storyCount"`
	Seen           bool   `json:"seen"`
	LastStoryIndex int    `json:"lastStoryIndex"`
}

func (s *Store) List(users []domain.User) []Row {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]Row, 0, len(users))
	for i, u := range users {
		_, seen := s.seen[u.ID]
		rows = append(rows, Row{
			Index:          i,
			ID:             u.ID,
			Username:       u.Username,
			AvatarURL:      u.AvatarURL,
			StoryCount:     len(u.Stories),
			Seen:           seen,
			LastStoryIndex: s.progress[u.ID],
		})
	}
	return rows
}
