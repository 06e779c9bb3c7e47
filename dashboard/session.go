// Package dashboard holds the state of one dashboard session: the latest
// listing, the user's query, filters and sort, the short-lived price
// transition and highlight state, the watchlist and the detail chart.
package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	cmc "github.com/status-im/market-dashboard/coingecko_market_chart"
	"github.com/status-im/market-dashboard/coingecko_markets"
	"github.com/status-im/market-dashboard/config"
	"github.com/status-im/market-dashboard/market"
	"github.com/status-im/market-dashboard/notify"
	"github.com/status-im/market-dashboard/transition"
	"github.com/status-im/market-dashboard/watchlist"
)

var log = logrus.WithField("component", "dashboard")

var ErrUnknownCoin = errors.New("coin not in the current listing")

// View is the derived table plus the state it was derived from.
type View struct {
	Rows      []Row                `json:"rows"`
	Query     string               `json:"query"`
	Filters   market.FilterOptions `json:"filters"`
	Sort      market.SortSpec      `json:"sort"`
	Total     int                  `json:"total"`
	Loading   bool                 `json:"loading"`
	Empty     bool                 `json:"empty"`
	Error     string               `json:"error,omitempty"`
	UpdatedAt time.Time            `json:"updated_at"`
}

type Options struct {
	Config    config.DashboardConfig
	Timers    transition.Timers
	Watchlist *watchlist.Store
	Charts    ChartSource
}

// Session serializes every mutation behind one mutex. Timer callbacks from
// the trackers and the highlighter only signal Changes and never take it.
type Session struct {
	mu        sync.Mutex
	coins     []market.Coin
	loaded    bool
	fetchedAt time.Time
	query     string
	filters   market.FilterOptions
	sort      market.SortSpec
	fetchErr  string

	trackers      *transition.TrackerSet
	highlighter   *transition.Highlighter
	watchlist     *watchlist.Store
	chart         *ChartPanel
	notifications *NotificationLog

	changes chan struct{}
}

func NewSession(opts Options) *Session {
	cfg := opts.Config
	filters := market.DefaultFilterOptions()
	filters.PriceRange = market.PriceRange{Min: cfg.DefaultPriceRange.Min, Max: cfg.DefaultPriceRange.Max}

	store := opts.Watchlist
	if store == nil {
		store = watchlist.NewStore(watchlist.NewMemoryStorage(), watchlist.DefaultKey)
	}

	s := &Session{
		coins:         []market.Coin{},
		filters:       filters,
		sort:          market.DefaultSortSpec(),
		watchlist:     store,
		notifications: NewNotificationLog(cfg.NotificationsLimit),
		changes:       make(chan struct{}, 1),
	}

	s.trackers = transition.NewTrackerSet(transition.Options{
		Duration: cfg.TransitionDuration,
		Decimals: cfg.TransitionDecimals,
		Timers:   opts.Timers,
	}, func(string, transition.State) { s.changed() })
	s.highlighter = transition.NewHighlighter(cfg.HighlightDuration, opts.Timers, func(map[string]market.Delta) { s.changed() })
	s.chart = NewChartPanel(opts.Charts, s.changed)

	return s
}

// Changes signals that the view may have changed. Signals coalesce.
func (s *Session) Changes() <-chan struct{} {
	return s.changes
}

func (s *Session) changed() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// ApplySnapshot replaces the listing, highlights the coins whose price moved
// since the previous poll and feeds every price to its tracker.
func (s *Session) ApplySnapshot(snapshot coingecko_markets.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := snapshot.Previous
	if prev == nil && s.loaded {
		prev = s.coins
	}

	s.coins = snapshot.Coins
	if s.coins == nil {
		s.coins = []market.Coin{}
	}
	s.loaded = true
	s.fetchedAt = snapshot.FetchedAt
	s.fetchErr = ""

	s.highlighter.Apply(market.DetectDeltas(prev, s.coins))
	s.trackers.Update(s.coins)
	s.changed()
}

// Notify implements notify.Notifier. Destructive notifications also mark the
// view as failed until the next successful snapshot.
func (s *Session) Notify(_ context.Context, n notify.Notification) error {
	s.PushNotification(n)
	return nil
}

func (s *Session) PushNotification(n notify.Notification) {
	s.mu.Lock()
	if n.Severity == notify.SeverityDestructive {
		s.fetchErr = n.Description
	}
	s.mu.Unlock()

	s.notifications.Push(n)
	s.changed()
}

func (s *Session) Notifications() []notify.Notification {
	return s.notifications.List()
}

func (s *Session) SetQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
	s.changed()
}

// SetFilters replaces the filter options as a whole.
func (s *Session) SetFilters(filters market.FilterOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = filters
	s.changed()
}

// ToggleSort applies the header click rule and returns the new spec.
func (s *Session) ToggleSort(key market.SortKey) market.SortSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = s.sort.Toggle(key)
	s.changed()
	return s.sort
}

// SetSort replaces the sort spec without the toggle rule.
func (s *Session) SetSort(spec market.SortSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = spec
	s.changed()
}

func (s *Session) SortSpec() market.SortSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sort
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	coins := market.ComputeView(s.coins, s.query, s.filters, s.sort)
	v := View{
		Rows:      s.rowsLocked(coins),
		Query:     s.query,
		Filters:   s.filters,
		Sort:      s.sort,
		Total:     len(s.coins),
		Loading:   !s.loaded,
		Error:     s.fetchErr,
		UpdatedAt: s.fetchedAt,
	}
	v.Empty = s.loaded && len(v.Rows) == 0
	return v
}

func (s *Session) rowsLocked(coins []market.Coin) []Row {
	rows := make([]Row, 0, len(coins))
	for _, c := range coins {
		rows = append(rows, s.rowLocked(c))
	}
	return rows
}

func (s *Session) rowLocked(c market.Coin) Row {
	state, ok := s.trackers.Get(c.ID)
	if !ok {
		state = transition.State{Price: market.Value(c.CurrentPrice), Trend: transition.TrendNone}
	}
	return Row{
		Coin:        c,
		Display:     newDisplay(c),
		Transition:  state,
		Highlight:   s.highlighter.Get(c.ID),
		Watchlisted: s.watchlist.Contains(c.ID),
	}
}

// Coin returns the row of one listed coin.
func (s *Session) Coin(id string) (Row, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := market.FindCoin(s.coins, id)
	if !ok {
		return Row{}, false
	}
	return s.rowLocked(c), true
}

// Coins returns the unfiltered listing.
func (s *Session) Coins() []market.Coin {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]market.Coin(nil), s.coins...)
}

// ToggleWatchlist flips id in the watchlist and returns the new membership.
func (s *Session) ToggleWatchlist(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	watched, err := s.watchlist.Toggle(ctx, id)
	s.changed()
	return watched, err
}

func (s *Session) Watchlist() []string {
	return s.watchlist.List()
}

// WatchedCoins returns the rows of watched coins in listing order.
func (s *Session) WatchedCoins() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rowsLocked(market.WatchedCoins(s.coins, s.watchlist.List()))
}

// SelectChart opens the detail chart for a coin. The chart loads in the background.
func (s *Session) SelectChart(ctx context.Context, coinID string, tf cmc.TimeFrame) error {
	if !tf.Valid() {
		return cmc.ErrUnknownTimeFrame
	}

	s.mu.Lock()
	_, ok := market.FindCoin(s.coins, coinID)
	s.mu.Unlock()
	if !ok {
		return ErrUnknownCoin
	}

	s.chart.Select(ctx, cmc.ChartKey{CoinID: coinID, TimeFrame: tf})
	return nil
}

func (s *Session) ChartPanel() ChartState {
	return s.chart.State()
}

// Close cancels every pending timer and the in-flight chart fetch.
func (s *Session) Close() {
	s.chart.Close()
	s.highlighter.Close()
	s.trackers.Close()
}
