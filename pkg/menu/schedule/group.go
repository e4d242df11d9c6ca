package schedule

import (
	"errors"
	"sync"
)

// ErrGroupClosed is returned when scheduling on a cancelled group.
var ErrGroupClosed = errors.New("task group closed")

// Group owns the tasks of one session. Each task checks alive before
// running and cancels itself once its owner is gone.
type Group struct {
	s     Scheduler
	alive func() bool

	mu     sync.Mutex
	tasks  []Task
	closed bool
}

// NewGroup creates a group. A nil alive treats the owner as always alive.
func NewGroup(s Scheduler, alive func() bool) *Group {
	return &Group{s: s, alive: alive}
}

// Later runs fn once after delay ticks.
func (g *Group) Later(delay Ticks, fn func()) (Task, error) {
	return g.add(fn, true, func(run func()) Task { return g.s.RunLater(delay, run) })
}

// Every runs fn after delay ticks and then every period ticks.
func (g *Group) Every(delay, period Ticks, fn func()) (Task, error) {
	return g.add(fn, false, func(run func()) Task { return g.s.RunTimer(delay, period, run) })
}

func (g *Group) add(fn func(), once bool, start func(run func()) Task) (Task, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil, ErrGroupClosed
	}
	var t Task
	t = start(func() {
		if !g.live() {
			t.Cancel()
			return
		}
		fn()
		if once {
			t.Cancel()
		}
	})
	g.tasks = append(g.tasks, t)
	return t, nil
}

func (g *Group) live() bool {
	g.mu.Lock()
	closed := g.closed
	g.mu.Unlock()
	return !closed && (g.alive == nil || g.alive())
}

// CancelAll cancels every task and refuses new ones.
func (g *Group) CancelAll() {
	g.mu.Lock()
	tasks := g.tasks
	g.tasks = nil
	g.closed = true
	g.mu.Unlock()
	for _, t := range tasks {
		t.Cancel()
	}
}

// Len returns the number of tasks still pending.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	live := g.tasks[:0]
	for _, t := range g.tasks {
		if !t.Cancelled() {
			live = append(live, t)
		}
	}
	clear(g.tasks[len(live):])
	g.tasks = live
	return len(live)
}
