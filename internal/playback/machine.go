package playback

import (
	"context"
	"fmt"
	"time"

	"github.com/orgball2608/insta-stories-viewer/internal/domain"
	"github.com/orgball2608/insta-stories-viewer/internal/eventloop"
	"github.com/orgball2608/insta-stories-viewer/internal/media"
	"github.com/orgball2608/insta-stories-viewer/pkg/errors"
	"github.com/orgball2608/insta-stories-viewer/pkg/logger"
)

const (
	DefaultTick     = 50 * time.Millisecond
	DefaultDebounce = 300 * time.Millisecond
)

type Opts struct {
	Users      []domain.User
	Progress   ProgressReader
	Listener   Listener
	Scheduler  Scheduler
	Loader     media.Loader
	Prefetcher media.Prefetcher
	Logger     logger.Logger

	Tick            time.Duration
	Debounce        time.Duration
	DefaultDuration time.Duration
	MediaTimeout    time.Duration

	// OnChange observes every state mutation.
	OnChange func(State)
}

// Machine is the playback state machine of one viewing session. It is not safe
// for concurrent use: every method must run on the Scheduler's loop.
type Machine struct {
	users      []domain.User
	nav        *Navigator
	listener   Listener
	sched      Scheduler
	loader     media.Loader
	prefetcher media.Prefetcher
	logger     logger.Logger
	onChange   func(State)

	tick            time.Duration
	debounceWindow  time.Duration
	defaultDuration time.Duration
	mediaTimeout    time.Duration

	opened        bool
	closed        bool
	userIdx       int
	storyIdx      int
	progress      float64
	loaded        bool
	transitioning bool
	// completed is set once the current story ran out (or its media failed)
	// but the advance has not happened yet.
	completed bool
	// failed marks a story skipped because its media never loaded; leaving
	// the user from it does not count as having seen them.
	failed bool

	// gen changes on every index change and on close; callbacks carrying an
	// older value belong to a story that is no longer current.
	gen         uint64
	debounceSeq uint64
	timer       *autoplayTimer
	debounce    eventloop.Task
	cancelLoad  context.CancelFunc
	seen        map[string]struct{}
}

func New(opts Opts) *Machine {
	m := &Machine{
		users:           opts.Users,
		nav:             NewNavigator(opts.Users, opts.Progress),
		listener:        opts.Listener,
		sched:           opts.Scheduler,
		loader:          opts.Loader,
		prefetcher:      opts.Prefetcher,
		logger:          opts.Logger,
		onChange:        opts.OnChange,
		tick:            opts.Tick,
		debounceWindow:  opts.Debounce,
		defaultDuration: opts.DefaultDuration,
		mediaTimeout:    opts.MediaTimeout,
		seen:            make(map[string]struct{}),
	}
	if m.tick <= 0 {
		m.tick = DefaultTick
	}
	if m.debounceWindow <= 0 {
		m.debounceWindow = DefaultDebounce
	}
	if m.defaultDuration <= 0 {
		m.defaultDuration = domain.DefaultStoryDuration
	}
	if m.logger == nil {
		m.logger = logger.NewNop()
	}
	if m.listener == nil {
		m.listener = nopListener{}
	}
	return m
}

// Open starts the session at userIndex, resuming at that user's saved story.
func (m *Machine) Open(userIndex int) error {
	if m.opened || m.closed {
		return ErrAlreadyOpened
	}
	if len(m.users) == 0 {
		return errors.WrapWithCode(ErrNoUsers, errors.CodeBadRequest, "open viewer")
	}
	if userIndex < 0 || userIndex >= len(m.users) {
		return errors.WrapWithCode(
			fmt.Errorf("%w: %d not in [0,%d)", ErrInvalidUser, userIndex, len(m.users)),
			errors.CodeBadRequest, "open viewer",
		)
	}
	if err := m.users[userIndex].Validate(); err != nil {
		return errors.WrapWithCode(err, errors.CodeBadRequest, "open viewer")
	}

	m.opened = true
	pos := Position{User: userIndex, Story: m.nav.StartIndex(userIndex)}
	m.logger.Debug("Viewer opened", "user_index", pos.User, "story_index", pos.Story)
	m.enter(pos)
	return nil
}

// AdvanceNext moves to the next story, or to the next user once the current
// user's stories are exhausted. Past the last user the viewer closes.
func (m *Machine) AdvanceNext() {
	if !m.active() || m.transitioning {
		return
	}

	user := m.users[m.userIdx]
	if m.storyIdx < len(user.Stories)-1 {
		m.openDebounce()
		m.enter(Position{User: m.userIdx, Story: m.storyIdx + 1})
		return
	}

	if !m.failed {
		m.markSeen(user.ID)
	}
	m.crossTo(m.userIdx+1, Forward)
}

// AdvancePrevious moves to the previous story, or back into the previous user
// at their saved story. Before the first user the viewer closes.
func (m *Machine) AdvancePrevious() {
	if !m.active() || m.transitioning {
		return
	}

	if m.storyIdx > 0 {
		m.openDebounce()
		m.enter(Position{User: m.userIdx, Story: m.storyIdx - 1})
		return
	}

	m.crossTo(m.userIdx-1, Backward)
}

// Close ends the session. Calling it again does nothing.
func (m *Machine) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.gen++
	m.stopStory()
	if m.debounce != nil {
		m.debounce.Stop()
		m.debounce = nil
	}
	m.transitioning = false

	m.logger.Debug("Viewer closed")
	m.listener.OnClose()
	m.notify()
}

func (m *Machine) Closed() bool {
	return m.closed
}

func (m *Machine) State() State {
	s := State{
		Phase:         m.phase(),
		UserIndex:     m.userIdx,
		StoryIndex:    m.storyIdx,
		Progress:      m.progress,
		Loaded:        m.loaded,
		Transitioning: m.transitioning,
	}
	if !m.opened || len(m.users) == 0 {
		return s
	}

	user := m.users[m.userIdx]
	story := user.Stories[m.storyIdx]
	s.UserID = user.ID
	s.Username = user.Username
	s.AvatarURL = user.AvatarURL
	s.StoryID = story.ID
	s.StoryURL = story.URL
	s.StoryCount = len(user.Stories)
	s.Bars = make([]float64, len(user.Stories))
	for i := range s.Bars {
		switch {
		case i < m.storyIdx:
			s.Bars[i] = 100
		case i == m.storyIdx:
			s.Bars[i] = m.progress
		}
	}
	return s
}

func (m *Machine) phase() Phase {
	switch {
	case m.closed:
		return PhaseClosed
	case !m.opened:
		return PhaseIdle
	case m.transitioning:
		return PhaseAdvancing
	case m.loaded:
		return PhasePlaying
	default:
		return PhaseLoading
	}
}

func (m *Machine) active() bool {
	return m.opened && !m.closed
}

func (m *Machine) crossTo(target int, dir Direction) {
	pos, ok := m.nav.Resume(target, dir)
	if !ok {
		m.logger.Debug("No user left, closing viewer", "direction", dir.String(), "target", target)
		m.Close()
		return
	}
	m.logger.Debug("Switching user", "direction", dir.String(), "user_index", pos.User, "story_index", pos.Story)
	m.enter(pos)
}

func (m *Machine) enter(pos Position) {
	m.gen++
	m.stopStory()

	m.userIdx = pos.User
	m.storyIdx = pos.Story
	m.progress = 0
	m.loaded = false
	m.completed = false
	m.failed = false

	user := m.users[m.userIdx]
	m.listener.OnProgressChange(user.ID, m.storyIdx)
	m.prefetchNext()
	m.load(m.gen)
	m.notify()
}

func (m *Machine) stopStory() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	if m.cancelLoad != nil {
		m.cancelLoad()
		m.cancelLoad = nil
	}
}

func (m *Machine) prefetchNext() {
	if m.prefetcher == nil {
		return
	}
	user := m.users[m.userIdx]
	if next := m.storyIdx + 1; next < len(user.Stories) {
		m.prefetcher.Prefetch(user.Stories[next].URL)
	}
}

func (m *Machine) load(gen uint64) {
	url := m.users[m.userIdx].Stories[m.storyIdx].URL
	if m.loader == nil {
		// Posting from the loop itself would block once the queue is full.
		m.sched.Go(func() { m.sched.Post(func() { m.onMediaReady(gen, nil) }) })
		return
	}

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if m.mediaTimeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), m.mediaTimeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	m.cancelLoad = cancel

	m.sched.Go(func() {
		err := m.loader.Load(ctx, url)
		cancel()
		m.sched.Post(func() { m.onMediaReady(gen, err) })
	})
}

func (m *Machine) onMediaReady(gen uint64, err error) {
	if m.closed || gen != m.gen {
		m.logger.Debug("Dropping stale media callback", "gen", gen, "current_gen", m.gen)
		return
	}
	if m.loaded || m.completed {
		return
	}
	m.cancelLoad = nil

	if err != nil {
		story := m.users[m.userIdx].Stories[m.storyIdx]
		m.logger.Warn("Failed to load story media, skipping", "story_id", story.ID, "url", story.URL, "error", err)
		m.failed = true
		m.finishStory()
		return
	}

	m.loaded = true
	duration := m.users[m.userIdx].Stories[m.storyIdx].Duration(m.defaultDuration)
	m.timer = newAutoplayTimer(m.sched, duration, m.tick,
		func(p float64) { m.onProgress(gen, p) },
		func() { m.onStoryDone(gen) },
	)
	m.timer.Start()
	m.notify()
}

func (m *Machine) onProgress(gen uint64, p float64) {
	if m.closed || gen != m.gen {
		return
	}
	if p > m.progress {
		m.progress = p
	}
	m.notify()
}

func (m *Machine) onStoryDone(gen uint64) {
	if m.closed || gen != m.gen {
		return
	}
	m.timer = nil
	m.finishStory()
}

// finishStory advances past the current story, or waits for the debounce
// window to close when one is open.
func (m *Machine) finishStory() {
	m.completed = true
	if m.transitioning {
		m.notify()
		return
	}
	m.AdvanceNext()
}

func (m *Machine) openDebounce() {
	if m.debounce != nil {
		m.debounce.Stop()
	}
	m.transitioning = true
	m.debounceSeq++
	seq := m.debounceSeq
	m.debounce = m.sched.AfterFunc(m.debounceWindow, func() { m.closeDebounce(seq) })
}

func (m *Machine) closeDebounce(seq uint64) {
	if m.closed || seq != m.debounceSeq {
		return
	}
	m.transitioning = false
	m.debounce = nil
	if m.completed {
		m.AdvanceNext()
		return
	}
	m.notify()
}

func (m *Machine) markSeen(userID string) {
	if _, ok := m.seen[userID]; ok {
		return
	}
	m.seen[userID] = struct{}{}
	m.listener.OnUserSeen(userID)
}

func (m *Machine) notify() {
	if m.onChange != nil {
		m.onChange(m.State())
	}
}

type nopListener struct{}

func (nopListener) OnProgressChange(string, int) {}
func (nopListener) OnUserSeen(string)            {}
func (nopListener) OnClose()                     {}
