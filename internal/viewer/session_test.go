package viewer

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/insta-stories-viewer/internal/domain"
	"github.com/orgball2608/insta-stories-viewer/internal/input"
	"github.com/orgball2608/insta-stories-viewer/internal/playback"
)

const waitTimeout = 2 * time.Second

func longUser(id string, stories int) domain.User {
	u := domain.User{ID: id, Username: id}
	for i := 0; i < stories; i++ {
		u.Stories = append(u.Stories, domain.Story{
			ID:         fmt.Sprintf("%s%d", id, i),
			URL:        fmt.Sprintf("https://cdn.test/%s/%d.jpg", id, i),
			DurationMs: 60_000,
		})
	}
	return u
}

func newTestSession(t *testing.T, store *Store, clock clockwork.Clock, users ...domain.User) *Session {
	t.Helper()
	s := NewSession(SessionOpts{
		ID:          "test",
		Users:       users,
		Store:       store,
		Clock:       clock,
		FrameBuffer: 1024,
		Settings:    Settings{Tick: 50 * time.Millisecond, Debounce: 300 * time.Millisecond},
	})
	t.Cleanup(s.Stop)
	return s
}

func mustState(t *testing.T, s *Session) playback.State {
	t.Helper()
	st, err := s.State()
	if err != nil {
		t.Fatalf("State() error = %v", err)
	}
	return st
}

func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(waitTimeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal(msg)
		}
		time.Sleep(time.Millisecond)
	}
}

// drain collects every frame until the session closes its channel and returns
// the non-state ones as short strings.
func drain(t *testing.T, s *Session) []string {
	t.Helper()
	var events []string
	timeout := time.After(waitTimeout)
	for {
		select {
		case f, ok := <-s.Frames():
			if !ok {
				return events
			}
			switch f.Type {
			case FrameProgress:
				events = append(events, fmt.Sprintf("progress:%s:%d", f.UserID, *f.StoryIndex))
			case FrameSeen:
				events = append(events, "seen:"+f.UserID)
			case FrameClosed:
				events = append(events, "closed")
			}
		case <-timeout:
			t.Fatalf("frames not closed; got %v", events)
		}
	}
}

func TestSessionNavigatesToClose(t *testing.T) {
	store := NewStore()
	clock := clockwork.NewFakeClock()
	s := newTestSession(t, store, clock, longUser("a", 2), longUser("b", 1))

	if err := s.Open(0); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	s.Handle(input.ActionNext)
	s.Handle(input.ActionNext)
	st := mustState(t, s)
	if st.StoryIndex != 1 || !st.Transitioning {
		t.Fatalf("after two rapid nexts: story %d transitioning %v; want 1 true", st.StoryIndex, st.Transitioning)
	}

	clock.Advance(300 * time.Millisecond)
	eventually(t, func() bool { return !mustState(t, s).Transitioning }, "debounce window never closed")

	s.Handle(input.ActionNext)
	st = mustState(t, s)
	if st.UserID != "b" || st.StoryIndex != 0 {
		t.Fatalf("expected user b story 0, got %s %d", st.UserID, st.StoryIndex)
	}

	s.Handle(input.ActionNext)

	want := []string{"progress:a:0", "progress:a:1", "seen:a", "progress:b:0", "seen:b", "closed"}
	got := drain(t, s)
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("events = %v, want %v", got, want)
	}

	if idx, _ := store.StoryIndex("a"); idx != 1 {
		t.Errorf("stored progress for a = %d, want 1", idx)
	}
	if !store.Seen("a") || !store.Seen("b") {
		t.Error("both users should be seen")
	}
	select {
	case <-s.Done():
	case <-time.After(waitTimeout):
		t.Fatal("session loop still running after close")
	}
}

func TestSessionResumesFromStore(t *testing.T) {
	store := NewStore()
	store.SetProgress("a", 2)
	s := newTestSession(t, store, clockwork.NewFakeClock(), longUser("a", 3))

	if err := s.Open(0); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if st := mustState(t, s); st.StoryIndex != 2 || st.StoryCount != 3 {
		t.Errorf("state = story %d of %d, want 2 of 3", st.StoryIndex, st.StoryCount)
	}
}

func TestSessionAutoplayCompletes(t *testing.T) {
	store := NewStore()
	clock := clockwork.NewFakeClock()
	u := domain.User{ID: "a", Stories: []domain.Story{{ID: "a0", URL: "https://cdn.test/a/0.jpg", DurationMs: 100}}}
	s := newTestSession(t, store, clock, u)

	if err := s.Open(0); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	eventually(t, func() bool { return mustState(t, s).Loaded }, "media never became ready")

	// Each tick re-arms from the loop, so step the clock until the story runs out.
	deadline := time.Now().Add(waitTimeout)
	for {
		select {
		case <-s.Done():
			if !store.Seen("a") {
				t.Error("a should be seen after its only story completed")
			}
			return
		default:
		}
		if time.Now().After(deadline) {
			t.Fatal("autoplay never closed the session")
		}
		clock.Advance(50 * time.Millisecond)
		time.Sleep(time.Millisecond)
	}
}

func TestSessionOpenRejectsBadIndex(t *testing.T) {
	s := newTestSession(t, NewStore(), clockwork.NewFakeClock(), longUser("a", 1))

	err := s.Open(3)
	if !errors.Is(err, playback.ErrInvalidUser) {
		t.Fatalf("Open(3) error = %v, want ErrInvalidUser", err)
	}
}

func TestSessionStop(t *testing.T) {
	store := NewStore()
	s := newTestSession(t, store, clockwork.NewFakeClock(), longUser("a", 2))
	if err := s.Open(0); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	s.Stop()
	s.Stop()

	select {
	case <-s.Done():
	case <-time.After(waitTimeout):
		t.Fatal("Stop() did not end the loop")
	}
	if s.Handle(input.ActionNext) {
		t.Error("Handle() after Stop should report false")
	}
	if _, err := s.State(); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("State() after Stop error = %v, want ErrSessionClosed", err)
	}
	if idx, ok := store.StoryIndex("a"); !ok || idx != 0 {
		t.Errorf("progress emitted before Stop should stay, got %d %v", idx, ok)
	}
}
