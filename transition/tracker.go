// Package transition tracks short-lived price movement state: the per-coin
// up/down trend that fades after a quiet period, and the batch highlight
// applied after each listing poll.
package transition

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type Trend string

const (
	TrendNone Trend = "none"
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
)

const (
	DefaultDuration = time.Second
	DefaultDecimals = int32(2)
)

// Options configure a Tracker. A zero Duration or nil Timers falls back to
// the defaults; a negative Decimals means DefaultDecimals.
type Options struct {
	Duration time.Duration
	Decimals int32
	Timers   Timers
	// OnChange is called after every trend or price change, outside the tracker lock.
	OnChange func(State)
}

func (o Options) withDefaults() Options {
	if o.Duration <= 0 {
		o.Duration = DefaultDuration
	}
	if o.Decimals < 0 {
		o.Decimals = DefaultDecimals
	}
	if o.Timers == nil {
		o.Timers = RealTimers{}
	}
	return o
}

// State is what a renderer needs from a Tracker.
type State struct {
	Price        float64 `json:"price"`
	DisplayValue string  `json:"display_value"`
	Trend        Trend   `json:"trend"`
}

// Tracker follows the price of one coin. A differing price sets the trend
// and (re)starts a single expiry timer; when it fires the trend returns to none.
type Tracker struct {
	mu     sync.Mutex
	opts   Options
	price  float64
	trend  Trend
	timer  Timer
	gen    uint64
	closed bool
}

func NewTracker(initial float64, opts Options) *Tracker {
	return &Tracker{
		opts:  opts.withDefaults(),
		price: initial,
		trend: TrendNone,
	}
}

// Observe records a new price. Equal prices are ignored entirely.
func (t *Tracker) Observe(price float64) {
	t.mu.Lock()
	if t.closed || price == t.price {
		t.mu.Unlock()
		return
	}

	if price > t.price {
		t.trend = TrendUp
	} else {
		t.trend = TrendDown
	}
	t.price = price

	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.timer = t.opts.Timers.AfterFunc(t.opts.Duration, func() { t.expire(gen) })

	state := t.stateLocked()
	t.mu.Unlock()

	t.notify(state)
}

func (t *Tracker) expire(gen uint64) {
	t.mu.Lock()
	if t.closed || gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.trend = TrendNone
	t.timer = nil
	state := t.stateLocked()
	t.mu.Unlock()

	t.notify(state)
}

func (t *Tracker) notify(s State) {
	if t.opts.OnChange != nil {
		t.opts.OnChange(s)
	}
}

func (t *Tracker) stateLocked() State {
	return State{
		Price:        t.price,
		DisplayValue: decimal.NewFromFloat(t.price).StringFixed(t.opts.Decimals),
		Trend:        t.trend,
	}
}

// DisplayValue is the latest price with a fixed number of decimals.
func (t *Tracker) DisplayValue() string {
	return t.Snapshot().DisplayValue
}

func (t *Tracker) Trend() Trend {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.trend
}

func (t *Tracker) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stateLocked()
}

// Close cancels the pending expiry. Later observations are ignored.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closed = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
