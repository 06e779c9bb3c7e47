package transition

import (
	"sort"
	"sync"
	"time"
)

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from running. It returns false if the
	// callback already ran or the timer was already stopped.
	Stop() bool
}

// Timers schedules callbacks. RealTimers is used in production, FakeTimers in tests.
type Timers interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealTimers schedules callbacks with time.AfterFunc.
type RealTimers struct{}

func (RealTimers) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// FakeTimers fires callbacks only when Advance moves its clock past their deadline.
type FakeTimers struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	owner *FakeTimers
	at    time.Duration
	seq   int
	f     func()
	done  bool
}

func NewFakeTimers() *FakeTimers {
	return &FakeTimers{}
}

func (ft *FakeTimers) AfterFunc(d time.Duration, f func()) Timer {
	ft.mu.Lock()
	defer ft.mu.Unlock()

	ft.seq++
	t := &fakeTimer{owner: ft, at: ft.now + d, seq: ft.seq, f: f}
	ft.timers = append(ft.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()

	if t.done {
		return false
	}
	t.done = true
	return true
}

// Pending returns the number of timers that have neither fired nor been stopped.
func (ft *FakeTimers) Pending() int {
	ft.mu.Lock()
	defer ft.mu.Unlock()

	n := 0
	for _, t := range ft.timers {
		if !t.done {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d and runs every callback that falls
// due, in deadline order, on the calling goroutine.
func (ft *FakeTimers) Advance(d time.Duration) {
	ft.mu.Lock()
	target := ft.now + d
	ft.mu.Unlock()

	for {
		ft.mu.Lock()
		next := ft.nextDueLocked(target)
		if next == nil {
			ft.now = target
			ft.compactLocked()
			ft.mu.Unlock()
			return
		}
		next.done = true
		ft.now = next.at
		ft.mu.Unlock()

		next.f()
	}
}

func (ft *FakeTimers) nextDueLocked(target time.Duration) *fakeTimer {
	var due []*fakeTimer
	for _, t := range ft.timers {
		if !t.done && t.at <= target {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at == due[j].at {
			return due[i].seq < due[j].seq
		}
		return due[i].at < due[j].at
	})
	return due[0]
}

func (ft *FakeTimers) compactLocked() {
	live := ft.timers[:0]
	for _, t := range ft.timers {
		if !t.done {
			live = append(live, t)
		}
	}
	ft.timers = live
}
