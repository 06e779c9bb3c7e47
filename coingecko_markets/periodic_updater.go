package coingecko_markets

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/status-im/market-dashboard/config"
	"github.com/status-im/market-dashboard/metrics"
	"github.com/status-im/market-dashboard/notify"
	"github.com/status-im/market-dashboard/scheduler"
)

const (
	fetchFailedTitle       = "Error"
	fetchFailedDescription = "Failed to fetch cryptocurrency data. Please try again later."
)

// ErrNoSnapshot is returned before the first successful poll
var ErrNoSnapshot = errors.New("no market data fetched yet")

// FetchFailedNotification is raised on every failed listing poll
func FetchFailedNotification(at time.Time) notify.Notification {
	return notify.Notification{
		Title:       fetchFailedTitle,
		Description: fetchFailedDescription,
		Severity:    notify.SeverityDestructive,
		Time:        at,
	}
}

// PeriodicUpdater polls the listing on a fixed interval. A failed poll
// keeps the last snapshot and stretches the next wait with exponential
// backoff until a poll succeeds again.
type PeriodicUpdater struct {
	config        *config.CoingeckoMarketsFetcher
	apiClient     APIClient
	notifier      notify.Notifier
	metricsWriter *metrics.MetricsWriter
	scheduler     *scheduler.Scheduler
	now           func() time.Time

	// pollMu keeps scheduled and on-demand polls from overlapping, so
	// snapshots are published in fetch order.
	pollMu sync.Mutex

	mu                  sync.RWMutex
	snapshot            Snapshot
	hasSnapshot         bool
	lastErr             error
	consecutiveFailures int
	backoff             *backoff.ExponentialBackOff
	nextDelay           time.Duration

	onUpdate func(ctx context.Context, snapshot Snapshot)
}

// NewPeriodicUpdater creates a new listing poller
func NewPeriodicUpdater(cfg *config.CoingeckoMarketsFetcher, apiClient APIClient, notifier notify.Notifier) *PeriodicUpdater {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.Backoff.InitialInterval
	b.MaxInterval = cfg.Backoff.MaxInterval
	b.Multiplier = cfg.Backoff.Multiplier
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()

	if notifier == nil {
		notifier = notify.LogNotifier{}
	}

	return &PeriodicUpdater{
		config:        cfg,
		apiClient:     apiClient,
		notifier:      notifier,
		metricsWriter: metrics.NewMetricsWriter(metrics.ServiceMarkets),
		backoff:       b,
		now:           time.Now,
	}
}

// SetOnUpdateCallback sets a callback invoked after each successful poll
func (u *PeriodicUpdater) SetOnUpdateCallback(onUpdate func(ctx context.Context, snapshot Snapshot)) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.onUpdate = onUpdate
}

// Start polls once right away and then keeps polling until Stop or ctx is done
func (u *PeriodicUpdater) Start(ctx context.Context) error {
	u.scheduler = scheduler.New(u.config.UpdateInterval, u.Poll).WithDelay(u.delay)
	u.scheduler.Start(ctx, true)
	return nil
}

// Stop halts polling and waits for an in-flight poll to return
func (u *PeriodicUpdater) Stop() {
	if u.scheduler != nil {
		u.scheduler.Stop()
	}
}

func (u *PeriodicUpdater) delay() time.Duration {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.nextDelay
}

// Poll performs one listing fetch. On success the snapshot is replaced
// wholesale, on failure the previous one is kept and a notification is raised.
// Concurrent calls run one after the other.
func (u *PeriodicUpdater) Poll(ctx context.Context) {
	u.pollMu.Lock()
	defer u.pollMu.Unlock()
	defer u.metricsWriter.TrackDataFetchCycle()()

	raw, err := u.apiClient.FetchMarkets(ctx, ParamsFromConfig(u.config))
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		u.handleFailure(ctx, err)
		return
	}

	coins := ToCoins(raw)

	u.mu.Lock()
	snapshot := Snapshot{
		Coins:     coins,
		Previous:  u.snapshot.Coins,
		FetchedAt: u.now(),
	}
	u.snapshot = snapshot
	u.hasSnapshot = true
	u.lastErr = nil
	u.consecutiveFailures = 0
	u.backoff.Reset()
	u.nextDelay = 0
	onUpdate := u.onUpdate
	u.mu.Unlock()

	u.metricsWriter.RecordConsecutiveFailures(0)
	log.Debugf("CoinGecko: Fetched %d coins", len(coins))

	if onUpdate != nil {
		onUpdate(ctx, snapshot)
	}
}

func (u *PeriodicUpdater) handleFailure(ctx context.Context, err error) {
	u.mu.Lock()
	u.lastErr = err
	u.consecutiveFailures++
	failures := u.consecutiveFailures
	u.nextDelay = u.backoff.NextBackOff()
	next := u.nextDelay
	u.mu.Unlock()

	u.metricsWriter.RecordConsecutiveFailures(failures)
	log.Errorf("CoinGecko: Listing fetch failed (%d in a row), next attempt in %s: %v", failures, next, err)

	if nerr := u.notifier.Notify(ctx, FetchFailedNotification(u.now())); nerr != nil {
		log.Warnf("CoinGecko: Failed to deliver fetch failure notification: %v", nerr)
	}
}

// Snapshot returns the latest successful listing
func (u *PeriodicUpdater) Snapshot() (Snapshot, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if !u.hasSnapshot {
		return Snapshot{}, ErrNoSnapshot
	}
	return u.snapshot, nil
}

// LastError returns the error of the latest poll, nil after a success
func (u *PeriodicUpdater) LastError() error {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.lastErr
}

// ConsecutiveFailures returns how many polls in a row have failed
func (u *PeriodicUpdater) ConsecutiveFailures() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.consecutiveFailures
}
