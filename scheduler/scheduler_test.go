package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_RunsPeriodically(t *testing.T) {
	var counter int32

	s := New(50*time.Millisecond, func(ctx context.Context) {
		atomic.AddInt32(&counter, 1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx, true)
	assert.True(t, s.IsRunning())

	time.Sleep(180 * time.Millisecond)
	s.Stop()
	assert.False(t, s.IsRunning())

	assert.GreaterOrEqual(t, atomic.LoadInt32(&counter), int32(3))

	stopped := atomic.LoadInt32(&counter)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, stopped, atomic.LoadInt32(&counter))
}

func TestScheduler_StopBeforeStart(t *testing.T) {
	s := New(100*time.Millisecond, func(ctx context.Context) {})
	s.Stop()
	assert.False(t, s.IsRunning())
}

func TestScheduler_DoubleStart(t *testing.T) {
	var counter int32
	s := New(time.Hour, func(ctx context.Context) {
		atomic.AddInt32(&counter, 1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx, true)
	s.Start(ctx, true)

	time.Sleep(50 * time.Millisecond)
	s.Stop()

	assert.Equal(t, int32(1), atomic.LoadInt32(&counter))
}

func TestScheduler_ImmediateExecution(t *testing.T) {
	tests := []struct {
		name      string
		immediate bool
		expected  int32
	}{
		{"with immediate execution", true, 1},
		{"without immediate execution", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var counter int32
			s := New(time.Hour, func(ctx context.Context) {
				atomic.AddInt32(&counter, 1)
			})

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			s.Start(ctx, tt.immediate)
			time.Sleep(30 * time.Millisecond)
			s.Stop()

			assert.Equal(t, tt.expected, atomic.LoadInt32(&counter))
		})
	}
}

func TestScheduler_DelayFuncOverridesInterval(t *testing.T) {
	var runs int32
	var delays int32

	// The interval alone would never fire a second run within the test.
	s := New(time.Hour, func(ctx context.Context) {
		atomic.AddInt32(&runs, 1)
	}).WithDelay(func() time.Duration {
		atomic.AddInt32(&delays, 1)
		return 20 * time.Millisecond
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx, true)
	time.Sleep(150 * time.Millisecond)
	s.Stop()

	assert.GreaterOrEqual(t, atomic.LoadInt32(&runs), int32(3))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&delays), atomic.LoadInt32(&runs)-1)
}

func TestScheduler_NonPositiveDelayFallsBackToInterval(t *testing.T) {
	var runs int32
	s := New(30*time.Millisecond, func(ctx context.Context) {
		atomic.AddInt32(&runs, 1)
	}).WithDelay(func() time.Duration { return 0 })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx, true)
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	assert.GreaterOrEqual(t, atomic.LoadInt32(&runs), int32(2))
}

func TestScheduler_ContextCancellation(t *testing.T) {
	var counter int32
	s := New(20*time.Millisecond, func(ctx context.Context) {
		atomic.AddInt32(&counter, 1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx, true)
	time.Sleep(50 * time.Millisecond)

	cancel()
	time.Sleep(30 * time.Millisecond)
	final := atomic.LoadInt32(&counter)
	time.Sleep(80 * time.Millisecond)

	assert.Equal(t, final, atomic.LoadInt32(&counter))
	s.Stop()
	assert.False(t, s.IsRunning())
}
