package transition

import (
	"sync"

	"github.com/status-im/market-dashboard/market"
)

// TrackerSet keeps one Tracker per listed coin.
type TrackerSet struct {
	mu       sync.Mutex
	opts     Options
	onChange func(id string, s State)
	trackers map[string]*Tracker
}

// NewTrackerSet creates an empty set. onChange may be nil.
func NewTrackerSet(opts Options, onChange func(id string, s State)) *TrackerSet {
	return &TrackerSet{
		opts:     opts,
		onChange: onChange,
		trackers: make(map[string]*Tracker),
	}
}

// Update feeds the listing into the set. Coins seen for the first time get
// a tracker starting at their price; trackers of coins no longer listed are
// closed. A coin without a known price is not observed.
func (s *TrackerSet) Update(coins []market.Coin) {
	s.mu.Lock()

	seen := make(map[string]struct{}, len(coins))
	var observe []func()
	for _, c := range coins {
		seen[c.ID] = struct{}{}
		if c.CurrentPrice == nil {
			continue
		}
		price := *c.CurrentPrice
		tr, ok := s.trackers[c.ID]
		if !ok {
			s.trackers[c.ID] = s.newTrackerLocked(c.ID, price)
			continue
		}
		observe = append(observe, func() { tr.Observe(price) })
	}

	for id, tr := range s.trackers {
		if _, ok := seen[id]; !ok {
			tr.Close()
			delete(s.trackers, id)
		}
	}
	s.mu.Unlock()

	// outside the set lock so onChange may read the set
	for _, f := range observe {
		f()
	}
}

func (s *TrackerSet) newTrackerLocked(id string, price float64) *Tracker {
	opts := s.opts
	if s.onChange != nil {
		opts.OnChange = func(st State) { s.onChange(id, st) }
	}
	return NewTracker(price, opts)
}

func (s *TrackerSet) Get(id string) (State, bool) {
	s.mu.Lock()
	tr, ok := s.trackers[id]
	s.mu.Unlock()

	if !ok {
		return State{}, false
	}
	return tr.Snapshot(), true
}

func (s *TrackerSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.trackers)
}

// Close closes every tracker and empties the set.
func (s *TrackerSet) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, tr := range s.trackers {
		tr.Close()
		delete(s.trackers, id)
	}
}
