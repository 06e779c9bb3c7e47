package coingecko_market_chart

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	cg "github.com/status-im/market-dashboard/coingecko_common"
	"github.com/status-im/market-dashboard/config"
	"github.com/status-im/market-dashboard/metrics"
)

var log = logrus.WithField("component", "coingecko_market_chart")

// APIClient fetches raw market_chart payloads
type APIClient interface {
	FetchMarketChart(ctx context.Context, coinID string, days int) ([]byte, error)
	Healthy() bool
}

type CoinGeckoClient struct {
	config          *config.Config
	keyManager      cg.IAPIKeyManager
	httpClient      *cg.HTTPClientWithRetries
	successfulFetch atomic.Bool
}

func NewCoinGeckoClient(cfg *config.Config) *CoinGeckoClient {
	retryOpts := cg.DefaultRetryOptions()
	retryOpts.LogPrefix = "CoinGecko-MarketChart"

	metricsWriter := metrics.NewMetricsWriter(metrics.ServiceMarketChart)

	return &CoinGeckoClient{
		config:     cfg,
		keyManager: cg.NewAPIKeyManager(cfg.APITokens),
		httpClient: cg.NewHTTPClientWithRetries(retryOpts, metricsWriter, cg.GetRateLimiterManagerInstance()),
	}
}

func (c *CoinGeckoClient) Healthy() bool {
	return c.successfulFetch.Load()
}

func (c *CoinGeckoClient) FetchMarketChart(ctx context.Context, coinID string, days int) ([]byte, error) {
	if strings.TrimSpace(coinID) == "" {
		return nil, fmt.Errorf("coin ID is required")
	}

	executor := func(apiKey cg.APIKey) ([]byte, bool, error) {
		baseURL := cg.GetApiBaseUrl(c.config, apiKey.Type)

		request, err := NewMarketChartRequestBuilder(baseURL, coinID).
			WithDays(days).
			WithCurrency(c.config.CoingeckoMarketChart.Currency).
			WithApiKey(apiKey).
			Build(ctx)
		if err != nil {
			log.Errorf("CoinGecko-MarketChart: Error building request with key type %s: %v", apiKey.Type, err)
			return nil, false, err
		}

		_, body, _, err := c.httpClient.ExecuteRequest(request)
		if err != nil {
			return nil, false, err
		}
		return body, true, nil
	}

	availableKeys := c.keyManager.GetAvailableKeys()
	if c.config.CoingeckoMarketChart.TryFreeApiFirst {
		availableKeys = cg.PrependFreeKey(availableKeys)
	}

	body, err := cg.TryWithKeys(availableKeys, "CoinGecko-MarketChart", executor, cg.CreateFailCallback(c.keyManager))
	if err != nil {
		return nil, err
	}

	log.Debugf("CoinGecko-MarketChart: Fetched market chart for coin %s, days=%d", coinID, days)
	c.successfulFetch.Store(true)
	return body, nil
}
