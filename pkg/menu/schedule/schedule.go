// Package schedule runs menu work on a single main thread in discrete ticks.
package schedule

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"go.uber.org/atomic"
)

// Ticks counts main-thread ticks. The default loop runs 20 per second.
type Ticks int64

// DefaultInterval is the wall time of one tick.
const DefaultInterval = 50 * time.Millisecond

// Task is a handle to scheduled work.
type Task interface {
	Cancel()
	Cancelled() bool
}

// Scheduler runs functions on the main thread.
type Scheduler interface {
	// Post runs fn at the start of the next tick. It is safe from any goroutine.
	Post(fn func())
	// RunLater runs fn once after delay ticks. A delay of 0 means the next tick.
	RunLater(delay Ticks, fn func()) Task
	// RunTimer runs fn after delay ticks and then every period ticks.
	RunTimer(delay, period Ticks, fn func()) Task
}

type task struct {
	due    Ticks
	period Ticks
	seq    uint64
	fn     func()

	cancelled *atomic.Bool
}

func (t *task) Cancel() { t.cancelled.Store(true) }

func (t *task) Cancelled() bool { return t.cancelled.Load() }

// Loop is the main-thread Scheduler. Tick runs one tick; Run drives Tick
// from a ticker until the context ends.
type Loop struct {
	logger   *log.Logger
	interval time.Duration

	mu    sync.Mutex
	now   Ticks
	seq   uint64
	inbox []func()
	tasks []*task
}

// NewLoop creates a loop. A non-positive interval uses DefaultInterval.
func NewLoop(logger *log.Logger, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Loop{logger: logger, interval: interval}
}

// Now returns the number of ticks run so far.
func (l *Loop) Now() Ticks {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.now
}

// Pending returns the number of tasks not yet finished or cancelled.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, t := range l.tasks {
		if !t.Cancelled() {
			n++
		}
	}
	return n
}

func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.inbox = append(l.inbox, fn)
	l.mu.Unlock()
}

func (l *Loop) RunLater(delay Ticks, fn func()) Task {
	return l.schedule(delay, 0, fn)
}

func (l *Loop) RunTimer(delay, period Ticks, fn func()) Task {
	return l.schedule(delay, max(period, 1), fn)
}

func (l *Loop) schedule(delay, period Ticks, fn func()) Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	t := &task{
		due:       l.now + max(delay, 1),
		period:    period,
		seq:       l.seq,
		fn:        fn,
		cancelled: atomic.NewBool(false),
	}
	l.tasks = append(l.tasks, t)
	return t
}

// Tick advances the clock by one tick: posted functions run first, then the
// tasks that are due, ordered by due tick and then by scheduling order.
func (l *Loop) Tick() {
	l.mu.Lock()
	l.now++
	now := l.now
	inbox := l.inbox
	l.inbox = nil
	l.mu.Unlock()

	for _, fn := range inbox {
		l.run(fn)
	}

	l.mu.Lock()
	var due []*task
	kept := l.tasks[:0]
	for _, t := range l.tasks {
		switch {
		case t.Cancelled():
		case t.due <= now:
			due = append(due, t)
		default:
			kept = append(kept, t)
		}
	}
	clear(l.tasks[len(kept):])
	l.tasks = kept
	l.mu.Unlock()

	slices.SortFunc(due, func(a, b *task) int {
		if a.due != b.due {
			return int(a.due - b.due)
		}
		return int(a.seq) - int(b.seq)
	})

	for _, t := range due {
		if t.Cancelled() {
			continue
		}
		l.run(t.fn)
		if t.period > 0 && !t.Cancelled() {
			l.mu.Lock()
			t.due = now + t.period
			l.tasks = append(l.tasks, t)
			l.mu.Unlock()
		} else {
			t.Cancel()
		}
	}
}

func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("scheduled task panicked", "panic", fmt.Sprint(r))
		}
	}()
	fn()
}

// Run ticks until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	l.logger.Debug("main loop started", "interval", l.interval)
	for {
		select {
		case <-ctx.Done():
			l.logger.Debug("main loop stopped", "ticks", l.Now())
			return nil
		case <-ticker.C:
			l.Tick()
		}
	}
}
