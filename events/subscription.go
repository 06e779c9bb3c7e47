package events

import (
	"context"
	"sync"
)

// Subscription receives values emitted by a Manager. The channel holds at
// most one pending value; a slow reader sees the newest one.
type Subscription[T any] struct {
	ch     chan T
	mgr    *Manager[T]
	cancel context.CancelFunc
	once   sync.Once
}

// Chan returns a read-only channel for self-handling events.
func (s *Subscription[T]) Chan() <-chan T { return s.ch }

// Cancel unsubscribes and closes the channel. Safe for repeated calls.
func (s *Subscription[T]) Cancel() {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		s.mgr.unsubscribe(s.ch)
	})
}

// Watch starts a goroutine that calls cb on each value.
// If replay is true and the manager has emitted before, cb first receives the last value.
// When parentCtx finishes, the subscription is automatically cancelled.
func (s *Subscription[T]) Watch(parentCtx context.Context, cb func(T), replay bool) *Subscription[T] {
	ctx, cancel := context.WithCancel(parentCtx)
	s.cancel = cancel

	if replay {
		if v, ok := s.mgr.Last(); ok {
			cb(v)
		}
	}

	go func() {
		defer s.Cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-s.ch:
				if !ok {
					return
				}
				cb(v)
			}
		}
	}()

	return s
}

// Manager fans values out to subscribers without blocking the emitter.
type Manager[T any] struct {
	mu          sync.RWMutex
	subscribers map[chan T]struct{}
	last        T
	hasLast     bool
}

func NewManager[T any]() *Manager[T] {
	return &Manager[T]{
		subscribers: make(map[chan T]struct{}),
	}
}

func (m *Manager[T]) Subscribe() *Subscription[T] {
	ch := make(chan T, 1)

	m.mu.Lock()
	m.subscribers[ch] = struct{}{}
	m.mu.Unlock()

	return &Subscription[T]{ch: ch, mgr: m}
}

func (m *Manager[T]) unsubscribe(ch chan T) {
	m.mu.Lock()
	if _, ok := m.subscribers[ch]; ok {
		delete(m.subscribers, ch)
		close(ch)
	}
	m.mu.Unlock()
}

// Len returns the number of active subscribers.
func (m *Manager[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscribers)
}

// Last returns the most recently emitted value.
func (m *Manager[T]) Last() (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last, m.hasLast
}

// Emit delivers v to every subscriber. A pending undelivered value is
// replaced by v.
func (m *Manager[T]) Emit(ctx context.Context, v T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.last = v
	m.hasLast = true

	for sub := range m.subscribers {
		if ctx.Err() != nil {
			return
		}
		select {
		case sub <- v:
			continue
		default:
		}
		// drop the stale value, then retry once
		select {
		case <-sub:
		default:
		}
		select {
		case sub <- v:
		default:
		}
	}
}
