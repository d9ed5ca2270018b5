// Package eventloop runs a viewing session's callbacks one at a time on a single goroutine.
package eventloop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

const defaultQueueSize = 64

// Task is a scheduled callback that can still be cancelled.
type Task interface {
	Stop() bool
}

type Opts struct {
	Clock     clockwork.Clock
	QueueSize int
	// Spawn runs off-loop work; nil means a plain goroutine.
	Spawn func(func()) error
}

type Loop struct {
	clock    clockwork.Clock
	queue    chan func()
	spawn    func(func()) error
	done     chan struct{}
	doneOnce sync.Once
}

func New(opts Opts) *Loop {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	size := opts.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}
	return &Loop{
		clock: clock,
		queue: make(chan func(), size),
		spawn: opts.Spawn,
		done:  make(chan struct{}),
	}
}

func (l *Loop) Now() time.Time {
	return l.clock.Now()
}

// Post queues f to run on the loop. It reports false once the loop has stopped.
func (l *Loop) Post(f func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.queue <- f:
		return true
	case <-l.done:
		return false
	}
}

type task struct {
	timer   clockwork.Timer
	stopped atomic.Bool
}

func (t *task) Stop() bool {
	t.stopped.Store(true)
	return t.timer.Stop()
}

// AfterFunc runs f on the loop after d. A stopped task never runs, even if its
// timer had already fired and the callback is waiting in the queue.
func (l *Loop) AfterFunc(d time.Duration, f func()) Task {
	t := &task{}
	t.timer = l.clock.AfterFunc(d, func() {
		l.Post(func() {
			if t.stopped.Load() {
				return
			}
			f()
		})
	})
	return t
}

// Go runs f off the loop. f must hand results back through Post.
func (l *Loop) Go(f func()) {
	if l.spawn != nil {
		if err := l.spawn(f); err == nil {
			return
		}
	}
	go f()
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) Run(ctx context.Context) error {
	defer l.doneOnce.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f := <-l.queue:
			f()
		}
	}
}
