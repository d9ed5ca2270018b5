package playback

import (
	"math"
	"time"

	"github.com/orgball2608/insta-stories-viewer/internal/eventloop"
)

// autoplayTimer turns elapsed time since start into a 0-100 progress value on a
// fixed cadence. It lives for exactly one story.
type autoplayTimer struct {
	sched    Scheduler
	duration time.Duration
	tick     time.Duration

	start    time.Time
	progress float64
	task     eventloop.Task
	stopped  bool

	onProgress func(float64)
	onDone     func()
}

func newAutoplayTimer(sched Scheduler, duration, tick time.Duration, onProgress func(float64), onDone func()) *autoplayTimer {
	return &autoplayTimer{
		sched:      sched,
		duration:   duration,
		tick:       tick,
		onProgress: onProgress,
		onDone:     onDone,
	}
}

func (t *autoplayTimer) Start() {
	t.start = t.sched.Now()
	t.task = t.sched.AfterFunc(t.tick, t.fire)
}

func (t *autoplayTimer) Stop() {
	if t.stopped {
		return
	}
	t.stopped = true
	if t.task != nil {
		t.task.Stop()
		t.task = nil
	}
}

func (t *autoplayTimer) fire() {
	if t.stopped {
		return
	}

	elapsed := t.sched.Now().Sub(t.start)
	p := 100.0
	if t.duration > 0 {
		p = math.Min(float64(elapsed)/float64(t.duration)*100, 100)
	}
	if p < t.progress {
		p = t.progress
	}
	t.progress = p
	t.onProgress(p)

	if t.stopped {
		return
	}
	if p >= 100 {
		t.stopped = true
		t.task = nil
		t.onDone()
		return
	}
	t.task = t.sched.AfterFunc(t.tick, t.fire)
}
