package viewer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/insta-stories-viewer/internal/domain"
	"github.com/orgball2608/insta-stories-viewer/internal/eventloop"
	"github.com/orgball2608/insta-stories-viewer/internal/input"
	"github.com/orgball2608/insta-stories-viewer/internal/media"
	"github.com/orgball2608/insta-stories-viewer/internal/playback"
	"github.com/orgball2608/insta-stories-viewer/pkg/logger"
)

var ErrSessionClosed = errors.New("viewer session closed")

const (
	FrameState    = "state"
	FrameProgress = "progress"
	FrameSeen     = "seen"
	FrameClosed   = "closed"

	defaultFrameBuffer = 64
)

// Frame is one outbound message of a session.
type Frame struct {
	Type       string          `json:"type"`
	State      *playback.State `json:"state,omitempty"`
	UserID     string          `json:"userId,omitempty"`
	StoryIndex *int            `json:"storyIndex,omitempty"`
}

type SessionOpts struct {
	ID         string
	Users      []domain.User
	Store      *Store
	Loader     media.Loader
	Prefetcher media.Prefetcher
	Logger     logger.Logger
	Settings   Settings
	Clock      clockwork.Clock
	// FrameBuffer bounds undelivered frames. State frames are dropped when it
	// is full, the others wait for the consumer.
	FrameBuffer int
}

// Session is one viewing session: a playback machine on its own event loop.
// NewSession starts the loop; Stop releases it.
type Session struct {
	id      string
	loop    *eventloop.Loop
	machine *playback.Machine
	store   *Store
	logger  logger.Logger

	frames   chan Frame
	gone     chan struct{}
	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
	dropped  atomic.Int64
}

func NewSession(opts SessionOpts) *Session {
	buf := opts.FrameBuffer
	if buf <= 0 {
		buf = defaultFrameBuffer
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:     opts.ID,
		store:  opts.Store,
		logger: log,
		frames: make(chan Frame, buf),
		gone:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
		loop:   eventloop.New(eventloop.Opts{Clock: opts.Clock}),
	}
	s.machine = playback.New(playback.Opts{
		Users:           opts.Users,
		Progress:        opts.Store,
		Listener:        &sessionListener{session: s},
		Scheduler:       s.loop,
		Loader:          opts.Loader,
		Prefetcher:      opts.Prefetcher,
		Logger:          log,
		Tick:            opts.Settings.Tick,
		Debounce:        opts.Settings.Debounce,
		DefaultDuration: opts.Settings.DefaultDuration,
		MediaTimeout:    opts.Settings.MediaTimeout,
		OnChange:        s.onChange,
	})

	go s.run()
	return s
}

func (s *Session) run() {
	_ = s.loop.Run(s.ctx)
	close(s.frames)
}

func (s *Session) ID() string {
	return s.id
}

// Frames is closed once the session has ended.
func (s *Session) Frames() <-chan Frame {
	return s.frames
}

// Done is closed once the event loop has stopped.
func (s *Session) Done() <-chan struct{} {
	return s.loop.Done()
}

// Open opens the viewer at userIndex and waits for the result.
func (s *Session) Open(userIndex int) error {
	errc := make(chan error, 1)
	if !s.loop.Post(func() { errc <- s.machine.Open(userIndex) }) {
		return ErrSessionClosed
	}
	select {
	case err := <-errc:
		return err
	case <-s.loop.Done():
		return ErrSessionClosed
	}
}

// Handle queues a navigation action. It reports false once the session ended.
func (s *Session) Handle(a input.Action) bool {
	if a == input.ActionNone {
		return true
	}
	return s.loop.Post(func() { input.Apply(s.machine, a) })
}

// State returns a snapshot taken on the loop.
func (s *Session) State() (playback.State, error) {
	ch := make(chan playback.State, 1)
	if !s.loop.Post(func() { ch <- s.machine.State() }) {
		return playback.State{}, ErrSessionClosed
	}
	select {
	case st := <-ch:
		return st, nil
	case <-s.loop.Done():
		return playback.State{}, ErrSessionClosed
	}
}

// Stop closes the viewer if it is still open and stops the loop. Frames
// produced after Stop are discarded.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		close(s.gone)
		closed := make(chan struct{})
		if s.loop.Post(func() { s.machine.Close(); close(closed) }) {
			select {
			case <-closed:
			case <-s.loop.Done():
			}
		}
		s.cancel()
		<-s.loop.Done()
		if n := s.dropped.Load(); n > 0 {
			s.logger.Debug("Dropped state frames", "session", s.id, "count", n)
		}
	})
}

func (s *Session) onChange(st playback.State) {
	if st.Phase == playback.PhaseClosed {
		// The loop stops after the current callback; Frames closes behind the
		// closed frame.
		s.cancel()
		return
	}
	select {
	case s.frames <- Frame{Type: FrameState, State: &st}:
	default:
		s.dropped.Add(1)
	}
}

func (s *Session) emit(f Frame) {
	select {
	case s.frames <- f:
	case <-s.gone:
	case <-s.ctx.Done():
	}
}

// sessionListener applies playback events to the store before forwarding them
// to the client, so a later resume reads what was just reported.
type sessionListener struct {
	session *Session
}

func (l *sessionListener) OnProgressChange(userID string, storyIndex int) {
	l.session.store.SetProgress(userID, storyIndex)
	idx := storyIndex
	l.session.emit(Frame{Type: FrameProgress, UserID: userID, StoryIndex: &idx})
}

func (l *sessionListener) OnUserSeen(userID string) {
	l.session.store.MarkSeen(userID)
	l.session.emit(Frame{Type: FrameSeen, UserID: userID})
}

func (l *sessionListener) OnClose() {
	l.session.logger.Debug("Viewer session closed", "session", l.session.id)
	l.session.emit(Frame{Type: FrameClosed})
}
