package coingecko_market_chart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/status-im/market-dashboard/cache"
	"github.com/status-im/market-dashboard/config"
	"github.com/status-im/market-dashboard/metrics"
)

const (
	// Cache key prefix for market chart data
	MARKET_CHART_CACHE_PREFIX = "market_chart"

	fetchTimeout = 30 * time.Second
)

// Service provides price chart data with caching. Concurrent requests for
// the same coin and day count share one upstream fetch.
type Service struct {
	cache         cache.Cache
	config        *config.Config
	metricsWriter *metrics.MetricsWriter
	apiClient     APIClient
	group         singleflight.Group
	now           func() time.Time
}

// NewService creates a new market chart service with the given cache and config
func NewService(cache cache.Cache, config *config.Config) *Service {
	return NewServiceWithClient(cache, config, NewCoinGeckoClient(config))
}

func NewServiceWithClient(cache cache.Cache, config *config.Config, apiClient APIClient) *Service {
	return &Service{
		cache:         cache,
		config:        config,
		metricsWriter: metrics.NewMetricsWriter(metrics.ServiceMarketChart),
		apiClient:     apiClient,
		now:           time.Now,
	}
}

// Start implements core.Interface
func (s *Service) Start(ctx context.Context) error {
	if s.cache == nil {
		return fmt.Errorf("cache dependency not provided")
	}
	return nil
}

// Stop implements core.Interface
func (s *Service) Stop() {}

// Healthy checks if at least one chart fetch has succeeded
func (s *Service) Healthy() bool {
	if s.apiClient != nil {
		return s.apiClient.Healthy()
	}
	return false
}

// Chart returns the downsampled price series for key. A successful fetch
// that leaves no points returns the chart together with ErrEmptyChart.
func (s *Service) Chart(ctx context.Context, key ChartKey) (Chart, error) {
	if key.CoinID == "" {
		return Chart{}, fmt.Errorf("coin ID is required")
	}
	if !key.TimeFrame.Valid() {
		return Chart{}, fmt.Errorf("%w: %q", ErrUnknownTimeFrame, key.TimeFrame)
	}

	days := key.TimeFrame.Days()
	data, err := s.load(ctx, key.CoinID, days)
	if err != nil {
		return Chart{}, err
	}

	var resp MarketChartResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return Chart{}, fmt.Errorf("failed to parse market chart for %s: %w", key.CoinID, err)
	}

	now := s.now()
	chart := Chart{
		Key:       key,
		Points:    Downsample(resp.PricePoints(), key.TimeFrame, now),
		FetchedAt: now,
	}
	if len(chart.Points) == 0 {
		return chart, ErrEmptyChart
	}
	return chart, nil
}

func (s *Service) load(ctx context.Context, coinID string, days int) ([]byte, error) {
	cacheKey := s.createCacheKey(coinID, days)

	if data, ok := s.cache.Get(cacheKey); ok {
		s.metricsWriter.RecordCacheLookup(true)
		return data, nil
	}
	s.metricsWriter.RecordCacheLookup(false)

	// The shared fetch outlives any one caller: a caller that gives up must
	// not fail the others waiting on the same key.
	ch := s.group.DoChan(cacheKey, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		return s.cache.GetOrLoad(cacheKey, func(string) ([]byte, error) {
			return s.fetch(fetchCtx, coinID, days)
		}, s.config.CoingeckoMarketChart.TTLForDays(days))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("failed to fetch market chart data: %w", res.Err)
		}
		if res.Shared {
			log.Debugf("CoinGecko-MarketChart: Shared in-flight fetch for %s", cacheKey)
		}
		return res.Val.([]byte), nil
	}
}

// fetch validates the payload before it is cached
func (s *Service) fetch(ctx context.Context, coinID string, days int) ([]byte, error) {
	data, err := s.apiClient.FetchMarketChart(ctx, coinID, days)
	if err != nil {
		return nil, err
	}
	var decoded MarketChartResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("invalid market chart payload: %w", err)
	}
	return data, nil
}

// createCacheKey creates a cache key based on request parameters
func (s *Service) createCacheKey(coinID string, days int) string {
	return fmt.Sprintf("%s:%s:%s:days:%d", MARKET_CHART_CACHE_PREFIX, coinID, s.config.CoingeckoMarketChart.Currency, days)
}
