package transition

import (
	"maps"
	"sync"
	"time"

	"github.com/status-im/market-dashboard/market"
)

const DefaultHighlightDuration = 2 * time.Second

// Highlighter holds the delta map of the latest poll tick that had price
// changes, and clears it once the window passes without a newer one.
type Highlighter struct {
	mu       sync.Mutex
	duration time.Duration
	timers   Timers
	onChange func(map[string]market.Delta)
	active   map[string]market.Delta
	timer    Timer
	gen      uint64
	closed   bool
}

// NewHighlighter creates a highlighter. onChange may be nil; it receives a copy.
func NewHighlighter(duration time.Duration, timers Timers, onChange func(map[string]market.Delta)) *Highlighter {
	if duration <= 0 {
		duration = DefaultHighlightDuration
	}
	if timers == nil {
		timers = RealTimers{}
	}
	return &Highlighter{
		duration: duration,
		timers:   timers,
		onChange: onChange,
		active:   map[string]market.Delta{},
	}
}

// Apply replaces the active highlights with deltas and restarts the clear
// timer. An empty map leaves the current highlights and timer untouched.
func (h *Highlighter) Apply(deltas map[string]market.Delta) {
	if len(deltas) == 0 {
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	if h.timer != nil {
		h.timer.Stop()
	}
	h.active = maps.Clone(deltas)
	h.gen++
	gen := h.gen
	h.timer = h.timers.AfterFunc(h.duration, func() { h.clear(gen) })
	current := maps.Clone(h.active)
	h.mu.Unlock()

	h.notify(current)
}

func (h *Highlighter) clear(gen uint64) {
	h.mu.Lock()
	if h.closed || gen != h.gen {
		h.mu.Unlock()
		return
	}
	h.active = map[string]market.Delta{}
	h.timer = nil
	h.mu.Unlock()

	h.notify(map[string]market.Delta{})
}

func (h *Highlighter) notify(m map[string]market.Delta) {
	if h.onChange != nil {
		h.onChange(m)
	}
}

// Current returns a copy of the active highlights.
func (h *Highlighter) Current() map[string]market.Delta {
	h.mu.Lock()
	defer h.mu.Unlock()
	return maps.Clone(h.active)
}

// Get returns the highlight for one coin, DeltaNone when there is none.
func (h *Highlighter) Get(id string) market.Delta {
	h.mu.Lock()
	defer h.mu.Unlock()

	if d, ok := h.active[id]; ok {
		return d
	}
	return market.DeltaNone
}

// Close cancels the clear timer. Later Apply calls are ignored.
func (h *Highlighter) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
}
