package playback

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/orgball2608/insta-stories-viewer/internal/domain"
	"github.com/orgball2608/insta-stories-viewer/internal/eventloop"
)

// manualScheduler is a single-threaded stand-in for the event loop: time only
// moves on Advance, and off-loop work runs when the queue is flushed.
type manualScheduler struct {
	now    time.Time
	seq    int
	timers []*manualTask
	queue  []func()
	work   []func()
}

type manualTask struct {
	due     time.Time
	seq     int
	f       func()
	stopped bool
}

func (t *manualTask) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{now: time.Unix(1_700_000_000, 0)}
}

func (s *manualScheduler) Now() time.Time { return s.now }

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) eventloop.Task {
	s.seq++
	t := &manualTask{due: s.now.Add(d), seq: s.seq, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *manualScheduler) Post(f func()) bool {
	s.queue = append(s.queue, f)
	return true
}

func (s *manualScheduler) Go(f func()) {
	s.work = append(s.work, f)
}

// Flush runs pending off-loop work and posted callbacks until nothing is left.
func (s *manualScheduler) Flush() {
	for len(s.work) > 0 || len(s.queue) > 0 {
		if len(s.work) > 0 {
			w := s.work[0]
			s.work = s.work[1:]
			w()
			continue
		}
		q := s.queue[0]
		s.queue = s.queue[1:]
		q()
	}
}

func (s *manualScheduler) Advance(d time.Duration) {
	target := s.now.Add(d)
	for {
		s.Flush()
		next := s.nextDue(target)
		if next == nil {
			break
		}
		s.now = next.due
		next.stopped = true
		next.f()
	}
	s.now = target
	s.Flush()
	s.prune()
}

func (s *manualScheduler) nextDue(target time.Time) *manualTask {
	var live []*manualTask
	for _, t := range s.timers {
		if !t.stopped && !t.due.After(target) {
			live = append(live, t)
		}
	}
	if len(live) == 0 {
		return nil
	}
	sort.Slice(live, func(i, j int) bool {
		if live[i].due.Equal(live[j].due) {
			return live[i].seq < live[j].seq
		}
		return live[i].due.Before(live[j].due)
	})
	return live[0]
}

func (s *manualScheduler) prune() {
	kept := s.timers[:0]
	for _, t := range s.timers {
		if !t.stopped {
			kept = append(kept, t)
		}
	}
	s.timers = kept
}

func (s *manualScheduler) pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// recorder plays the caller: it applies progress into its own map and seen set
// and keeps the raw event log.
type recorder struct {
	progress map[string]int
	seen     map[string]int
	events   []string
	closes   int
}

func newRecorder(initial map[string]int) *recorder {
	r := &recorder{progress: map[string]int{}, seen: map[string]int{}}
	for k, v := range initial {
		r.progress[k] = v
	}
	return r
}

func (r *recorder) OnProgressChange(userID string, storyIndex int) {
	r.progress[userID] = storyIndex
	r.events = append(r.events, fmt.Sprintf("progress:%s:%d", userID, storyIndex))
}

func (r *recorder) OnUserSeen(userID string) {
	r.seen[userID]++
	r.events = append(r.events, "seen:"+userID)
}

func (r *recorder) OnClose() {
	r.closes++
	r.events = append(r.events, "close")
}

func (r *recorder) StoryIndex(userID string) (int, bool) {
	idx, ok := r.progress[userID]
	return idx, ok
}

type fakeLoader struct {
	mu    sync.Mutex
	fail  map[string]error
	calls []string
}

func (l *fakeLoader) Load(ctx context.Context, url string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, url)
	if err := ctx.Err(); err != nil {
		return err
	}
	return l.fail[url]
}

type fakePrefetcher struct {
	urls []string
}

func (p *fakePrefetcher) Prefetch(url string) {
	p.urls = append(p.urls, url)
}

func makeUser(id string, durations ...int64) domain.User {
	u := domain.User{ID: id, Username: id, AvatarURL: "https://cdn.test/" + id + ".jpg"}
	for i, d := range durations {
		u.Stories = append(u.Stories, domain.Story{
			ID:         fmt.Sprintf("%s-%d", id, i),
			URL:        fmt.Sprintf("https://cdn.test/%s/%d.jpg", id, i),
			DurationMs: d,
		})
	}
	return u
}

type harness struct {
	sched    *manualScheduler
	rec      *recorder
	loader   *fakeLoader
	prefetch *fakePrefetcher
	states   []State
	m        *Machine
}

func newHarness(users []domain.User, saved map[string]int) *harness {
	h := &harness{
		sched:    newManualScheduler(),
		rec:      newRecorder(saved),
		loader:   &fakeLoader{fail: map[string]error{}},
		prefetch: &fakePrefetcher{},
	}
	h.m = New(Opts{
		Users:      users,
		Progress:   h.rec,
		Listener:   h.rec,
		Scheduler:  h.sched,
		Loader:     h.loader,
		Prefetcher: h.prefetch,
		OnChange:   func(s State) { h.states = append(h.states, s) },
	})
	return h
}
