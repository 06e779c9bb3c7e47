package coingecko_markets

import (
	"context"

	"github.com/status-im/market-dashboard/config"
	"github.com/status-im/market-dashboard/events"
	"github.com/status-im/market-dashboard/notify"
)

// Service keeps the latest market listing fresh and fans it out to subscribers
type Service struct {
	config    *config.Config
	apiClient APIClient
	updater   *PeriodicUpdater
	updates   *events.Manager[Snapshot]
}

// NewService creates a listing service backed by the CoinGecko API
func NewService(cfg *config.Config, notifier notify.Notifier) *Service {
	return NewServiceWithClient(cfg, NewCoinGeckoClient(cfg), notifier)
}

// NewServiceWithClient creates a listing service with a custom API client
func NewServiceWithClient(cfg *config.Config, apiClient APIClient, notifier notify.Notifier) *Service {
	s := &Service{
		config:    cfg,
		apiClient: apiClient,
		updater:   NewPeriodicUpdater(&cfg.CoingeckoMarkets, apiClient, notifier),
		updates:   events.NewManager[Snapshot](),
	}
	s.updater.SetOnUpdateCallback(s.onUpdated)
	return s
}

func (s *Service) onUpdated(ctx context.Context, snapshot Snapshot) {
	s.updates.Emit(ctx, snapshot)
}

// Start implements core.Interface
func (s *Service) Start(ctx context.Context) error {
	log.Infof("CoinGecko: Starting listing poll every %s", s.config.CoingeckoMarkets.UpdateInterval)
	return s.updater.Start(ctx)
}

// Stop implements core.Interface
func (s *Service) Stop() {
	s.updater.Stop()
}

// Latest returns the newest successful snapshot
func (s *Service) Latest() (Snapshot, error) {
	return s.updater.Snapshot()
}

// Subscribe returns a subscription receiving every new snapshot
func (s *Service) Subscribe() *events.Subscription[Snapshot] {
	return s.updates.Subscribe()
}

// Refresh polls immediately, outside the regular schedule
func (s *Service) Refresh(ctx context.Context) {
	s.updater.Poll(ctx)
}

// Healthy reports whether at least one poll has succeeded
func (s *Service) Healthy() bool {
	return s.apiClient.Healthy()
}

// LastError returns the error of the latest poll, nil after a success
func (s *Service) LastError() error {
	return s.updater.LastError()
}

// ConsecutiveFailures returns how many polls in a row have failed
func (s *Service) ConsecutiveFailures() int {
	return s.updater.ConsecutiveFailures()
}
