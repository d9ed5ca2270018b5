package domain

import (
	"errors"
	"testing"
	"time"
)

func TestStoryDuration(t *testing.T) {
	if got := (Story{}).Duration(0); got != DefaultStoryDuration {
		t.Errorf("Duration() = %s, want %s", got, DefaultStoryDuration)
	}
	if got := (Story{}).Duration(2 * time.Second); got != 2*time.Second {
		t.Errorf("Duration(def) = %s, want 2s", got)
	}
	if got := (Story{DurationMs: 1500}).Duration(0); got != 1500*time.Millisecond {
		t.Errorf("Duration() = %s, want 1.5s", got)
	}
}

func TestDecodeUsers(t *testing.T) {
	data := []byte(`[
		{"id": 1, "username": "alice", "userAvatar": "https://a/avatar.jpg",
		 "stories": [{"id": 10, "url": "https://a/1.jpg", "duration": 3000}, {"id": "s2", "url": "https://a/2.jpg"}]},
		{"id": "bob", "username": "bob", "userAvatar": "https://b/avatar.jpg", "stories": []}
	]`)

	users, err := DecodeUsers(data)
	if err != nil {
		t.Fatalf("DecodeUsers() error = %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("len(users) = %d, want 2", len(users))
	}

	alice := users[0]
	if alice.ID != "1" || alice.Username != "alice" || alice.AvatarURL != "https://a/avatar.jpg" {
		t.Errorf("alice = %+v", alice)
	}
	if alice.Stories[0].ID != "10" || alice.Stories[0].DurationMs != 3000 {
		t.Errorf("first story = %+v", alice.Stories[0])
	}
	if alice.Stories[1].DurationMs != 0 {
		t.Errorf("missing duration should stay unset, got %d", alice.Stories[1].DurationMs)
	}

	playable, dropped := Playable(users)
	if len(playable) != 1 || playable[0].ID != "1" {
		t.Errorf("playable = %+v", playable)
	}
	if len(dropped) != 1 || !errors.Is(dropped[0].Validate(), ErrNoStories) {
		t.Errorf("dropped = %+v", dropped)
	}
}

func TestDecodeUsersRejectsGarbage(t *testing.T) {
	if _, err := DecodeUsers([]byte(`{"not": "a list"}`)); err == nil {
		t.Fatal("DecodeUsers() expected error")
	}
}
