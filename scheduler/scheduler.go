package scheduler

import (
	"context"
	"sync"
	"time"
)

// DelayFunc returns the wait before the next run. A non-positive result
// falls back to the scheduler interval.
type DelayFunc func() time.Duration

// Scheduler runs a background task repeatedly. The wait between runs is the
// fixed interval unless a DelayFunc overrides it (poll backoff).
type Scheduler struct {
	interval time.Duration
	task     func(context.Context)
	delay    DelayFunc
	wg       sync.WaitGroup
	mu       sync.Mutex
	running  bool
	cancel   context.CancelFunc
}

// New creates a new Scheduler instance
func New(interval time.Duration, task func(context.Context)) *Scheduler {
	return &Scheduler{
		interval: interval,
		task:     task,
	}
}

// WithDelay sets the function consulted after every run for the next wait.
// Must be called before Start.
func (s *Scheduler) WithDelay(delay DelayFunc) *Scheduler {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = delay
	return s
}

// Start begins executing the task. The first run happens right away when
// firstRunImmediately is set, otherwise after one interval.
func (s *Scheduler) Start(ctx context.Context, firstRunImmediately bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.running = true

	s.wg.Add(1)
	go s.loop(ctx, firstRunImmediately)
}

func (s *Scheduler) loop(ctx context.Context, firstRunImmediately bool) {
	defer s.wg.Done()

	if firstRunImmediately {
		s.task(ctx)
		if ctx.Err() != nil {
			return
		}
	}

	timer := time.NewTimer(s.nextDelay(firstRunImmediately))
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			s.task(ctx)
			timer.Reset(s.nextDelay(true))
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) nextDelay(afterRun bool) time.Duration {
	if !afterRun || s.delay == nil {
		return s.interval
	}
	if d := s.delay(); d > 0 {
		return d
	}
	return s.interval
}

// Stop terminates the periodic task execution
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.running = false
}

// IsRunning returns true if the task is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
