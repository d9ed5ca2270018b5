package eventloop

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func startLoop(t *testing.T, clock clockwork.Clock) *Loop {
	t.Helper()

	l := New(Opts{Clock: clock})
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Run() error = %v", err)
			}
		case <-time.After(time.Second):
			t.Error("loop did not stop")
		}
	})
	return l
}

func waitFor(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for loop callback")
		return ""
	}
}

func TestPostRunsInOrder(t *testing.T) {
	l := startLoop(t, clockwork.NewFakeClock())

	got := make(chan string, 3)
	for _, s := range []string{"a", "b", "c"} {
		s := s
		l.Post(func() { got <- s })
	}

	for _, want := range []string{"a", "b", "c"} {
		if v := waitFor(t, got); v != want {
			t.Fatalf("got %q, want %q", v, want)
		}
	}
}

func TestAfterFuncRunsOnLoop(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := startLoop(t, clock)

	got := make(chan string, 1)
	l.AfterFunc(50*time.Millisecond, func() { got <- "tick" })

	clock.Advance(49 * time.Millisecond)
	select {
	case <-got:
		t.Fatal("fired before its deadline")
	case <-time.After(20 * time.Millisecond):
	}

	clock.Advance(time.Millisecond)
	if v := waitFor(t, got); v != "tick" {
		t.Fatalf("got %q", v)
	}
}

func TestStoppedTaskNeverRuns(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := startLoop(t, clock)

	got := make(chan string, 2)
	task := l.AfterFunc(10*time.Millisecond, func() { got <- "stale" })
	task.Stop()
	clock.Advance(20 * time.Millisecond)
	l.Post(func() { got <- "marker" })

	if v := waitFor(t, got); v != "marker" {
		t.Fatalf("got %q, want marker", v)
	}
}

func TestPostAfterStop(t *testing.T) {
	l := New(Opts{Clock: clockwork.NewFakeClock()})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = l.Run(ctx)

	if l.Post(func() {}) {
		t.Fatal("Post() should report false after Run returned")
	}
	select {
	case <-l.Done():
	default:
		t.Fatal("Done() not closed")
	}
}

func TestGoUsesSpawn(t *testing.T) {
	spawned := make(chan struct{}, 1)
	l := New(Opts{
		Clock: clockwork.NewFakeClock(),
		Spawn: func(f func()) error {
			spawned <- struct{}{}
			go f()
			return nil
		},
	})

	ran := make(chan string, 1)
	l.Go(func() { ran <- "work" })

	select {
	case <-spawned:
	case <-time.After(time.Second):
		t.Fatal("spawn not used")
	}
	if v := waitFor(t, ran); v != "work" {
		t.Fatalf("got %q", v)
	}
}
