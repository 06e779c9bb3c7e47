package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	cmc "github.com/status-im/market-dashboard/coingecko_market_chart"
)

type ChartStatus string

const (
	ChartIdle    ChartStatus = "idle"
	ChartLoading ChartStatus = "loading"
	ChartReady   ChartStatus = "ready"
	ChartEmpty   ChartStatus = "empty"
	ChartFailed  ChartStatus = "failed"
)

var errNoChartSource = errors.New("no chart source configured")

// ChartSource loads a price chart. Implemented by coingecko_market_chart.Service.
type ChartSource interface {
	Chart(ctx context.Context, key cmc.ChartKey) (cmc.Chart, error)
}

// ChartState is the detail panel chart as last resolved.
type ChartState struct {
	Key       *cmc.ChartKey    `json:"key,omitempty"`
	Status    ChartStatus      `json:"status"`
	Points    []cmc.PricePoint `json:"points"`
	Error     string           `json:"error,omitempty"`
	FetchedAt time.Time        `json:"fetched_at,omitempty"`
}

// ChartPanel fetches the chart of the selected coin and time frame. Each
// selection supersedes the previous one: a result arriving for an older
// selection is dropped.
type ChartPanel struct {
	mu       sync.Mutex
	source   ChartSource
	onChange func()
	state    ChartState
	seq      uint64
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	closed   bool
}

func NewChartPanel(source ChartSource, onChange func()) *ChartPanel {
	return &ChartPanel{
		source:   source,
		onChange: onChange,
		state:    ChartState{Status: ChartIdle, Points: []cmc.PricePoint{}},
	}
}

// Select starts loading key in the background. The fetch outlives ctx
// cancellation (a finished HTTP request) but not a newer Select or Close.
func (p *ChartPanel) Select(ctx context.Context, key cmc.ChartKey) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	if p.cancel != nil {
		p.cancel()
	}
	p.seq++
	seq := p.seq
	fetchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	p.cancel = cancel
	k := key
	p.state = ChartState{Key: &k, Status: ChartLoading, Points: []cmc.PricePoint{}}
	p.wg.Add(1)
	p.mu.Unlock()

	p.changed()

	go func() {
		defer p.wg.Done()
		if p.source == nil {
			p.finish(seq, key, cmc.Chart{}, errNoChartSource)
			return
		}
		chart, err := p.source.Chart(fetchCtx, key)
		p.finish(seq, key, chart, err)
	}()
}

func (p *ChartPanel) finish(seq uint64, key cmc.ChartKey, chart cmc.Chart, err error) {
	p.mu.Lock()
	if p.closed || seq != p.seq {
		p.mu.Unlock()
		log.Debugf("Dashboard: Dropping stale chart for %s/%s", key.CoinID, key.TimeFrame)
		return
	}

	k := key
	next := ChartState{Key: &k, Points: []cmc.PricePoint{}, FetchedAt: chart.FetchedAt}
	switch {
	case err == nil:
		next.Status = ChartReady
		next.Points = chart.Points
	case errors.Is(err, cmc.ErrEmptyChart):
		next.Status = ChartEmpty
	default:
		log.Warnf("Dashboard: Chart for %s/%s failed: %v", key.CoinID, key.TimeFrame, err)
		next.Status = ChartFailed
		next.Error = "Failed to load chart data"
	}
	p.state = next
	p.mu.Unlock()

	p.changed()
}

func (p *ChartPanel) changed() {
	if p.onChange != nil {
		p.onChange()
	}
}

// State returns a copy of the current chart state.
func (p *ChartPanel) State() ChartState {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.state
	s.Points = append([]cmc.PricePoint(nil), p.state.Points...)
	if s.Points == nil {
		s.Points = []cmc.PricePoint{}
	}
	return s
}

// Close cancels an in-flight fetch and waits for it to return.
func (p *ChartPanel) Close() {
	p.mu.Lock()
	p.closed = true
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Unlock()

	p.wg.Wait()
}
