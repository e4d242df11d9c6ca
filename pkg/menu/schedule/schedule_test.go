package schedule

import (
	"context"
	"errors"
	"io"
	"slices"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func newLoop() *Loop { return NewLoop(log.New(io.Discard), 0) }

func TestZeroDelayRunsNextTick(t *testing.T) {
	l := newLoop()
	ran := 0
	l.RunLater(0, func() { ran++ })
	if ran != 0 {
		t.Fatal("task ran before any tick")
	}
	l.Tick()
	if ran != 1 {
		t.Errorf("ran = %d after one tick, want 1", ran)
	}
	l.Tick()
	if ran != 1 {
		t.Errorf("one-shot task ran %d times, want 1", ran)
	}
	if l.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", l.Pending())
	}
}

func TestTimerPeriod(t *testing.T) {
	l := newLoop()
	var at []Ticks
	l.RunTimer(2, 3, func() { at = append(at, l.Now()) })
	for range 10 {
		l.Tick()
	}
	if want := []Ticks{2, 5, 8}; !slices.Equal(at, want) {
		t.Errorf("timer ran at %v, want %v", at, want)
	}
}

func TestOrderAndPostFirst(t *testing.T) {
	l := newLoop()
	var got []string
	l.RunLater(1, func() { got = append(got, "a") })
	l.RunLater(1, func() { got = append(got, "b") })
	l.Post(func() { got = append(got, "post") })
	l.Tick()
	if want := []string{"post", "a", "b"}; !slices.Equal(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestCancel(t *testing.T) {
	l := newLoop()
	ran := false
	task := l.RunTimer(1, 1, func() { ran = true })
	task.Cancel()
	l.Tick()
	if ran {
		t.Error("cancelled task ran")
	}
	if !task.Cancelled() {
		t.Error("Cancelled() = false after Cancel")
	}
}

func TestPanicDoesNotStopLoop(t *testing.T) {
	l := newLoop()
	ran := false
	l.RunLater(0, func() { panic("boom") })
	l.RunLater(0, func() { ran = true })
	l.Tick()
	if !ran {
		t.Error("task after a panicking task did not run")
	}
}

func TestSelfCancellingTimer(t *testing.T) {
	l := newLoop()
	n := 0
	var task Task
	task = l.RunTimer(0, 1, func() {
		n++
		if n == 3 {
			task.Cancel()
		}
	})
	for range 6 {
		l.Tick()
	}
	if n != 3 {
		t.Errorf("timer ran %d times, want 3", n)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	l := NewLoop(log.New(io.Discard), time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	ticked := make(chan struct{}, 1)
	l.Post(func() { ticked <- struct{}{} })
	go func() { done <- l.Run(ctx) }()

	select {
	case <-ticked:
	case <-time.After(2 * time.Second):
		t.Fatal("loop never ticked")
	}
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestGroupLiveness(t *testing.T) {
	l := newLoop()
	alive := true
	g := NewGroup(l, func() bool { return alive })

	n := 0
	task, err := g.Every(0, 1, func() { n++ })
	if err != nil {
		t.Fatalf("Every: %v", err)
	}
	l.Tick()
	l.Tick()
	alive = false
	l.Tick()
	l.Tick()
	if n != 2 {
		t.Errorf("ran %d times, want 2", n)
	}
	if !task.Cancelled() {
		t.Error("task did not cancel itself once its owner died")
	}
}

func TestGroupCancelAll(t *testing.T) {
	l := newLoop()
	g := NewGroup(l, nil)
	ran := 0
	for range 3 {
		if _, err := g.Later(1, func() { ran++ }); err != nil {
			t.Fatal(err)
		}
	}
	if g.Len() != 3 {
		t.Errorf("Len() = %d, want 3", g.Len())
	}
	g.CancelAll()
	l.Tick()
	if ran != 0 {
		t.Errorf("%d tasks ran after CancelAll", ran)
	}
	if g.Len() != 0 {
		t.Errorf("Len() = %d after CancelAll, want 0", g.Len())
	}
	if _, err := g.Later(0, func() {}); !errors.Is(err, ErrGroupClosed) {
		t.Errorf("Later after CancelAll = %v, want ErrGroupClosed", err)
	}
}

func TestGroupLaterFinishes(t *testing.T) {
	l := newLoop()
	g := NewGroup(l, nil)
	if _, err := g.Later(0, func() {}); err != nil {
		t.Fatal(err)
	}
	l.Tick()
	if g.Len() != 0 {
		t.Errorf("Len() = %d after the task ran, want 0", g.Len())
	}
}
