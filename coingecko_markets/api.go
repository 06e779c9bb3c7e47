package coingecko_markets

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	cg "github.com/status-im/market-dashboard/coingecko_common"
	"github.com/status-im/market-dashboard/config"
	"github.com/status-im/market-dashboard/metrics"
)

var log = logrus.WithField("component", "coingecko_markets")

//go:generate mockgen -destination=mocks/api_client.go . APIClient

// APIClient defines interface for API operations
type APIClient interface {
	// FetchMarkets fetches one page of the market listing
	FetchMarkets(ctx context.Context, params MarketsParams) ([]RawCoin, error)
	// Healthy reports whether at least one fetch has succeeded
	Healthy() bool
}

// CoinGeckoClient implements APIClient for CoinGecko
type CoinGeckoClient struct {
	config          *config.Config
	keyManager      cg.IAPIKeyManager
	httpClient      *cg.HTTPClientWithRetries
	successfulFetch atomic.Bool
}

// NewCoinGeckoClient creates a new CoinGecko API client
func NewCoinGeckoClient(cfg *config.Config) *CoinGeckoClient {
	retryOpts := cg.DefaultRetryOptions()
	retryOpts.LogPrefix = "CoinGecko-Markets"

	metricsWriter := metrics.NewMetricsWriter(metrics.ServiceMarkets)

	limiter := cg.GetRateLimiterManagerInstance()
	limiter.SetConfig(cfg.APIKeys)

	return &CoinGeckoClient{
		config:     cfg,
		keyManager: cg.NewAPIKeyManager(cfg.APITokens),
		httpClient: cg.NewHTTPClientWithRetries(retryOpts, metricsWriter, limiter),
	}
}

// Healthy checks if the API has had at least one successful fetch
func (c *CoinGeckoClient) Healthy() bool {
	return c.successfulFetch.Load()
}

// FetchMarkets fetches the listing, falling back through the available API keys
func (c *CoinGeckoClient) FetchMarkets(ctx context.Context, params MarketsParams) ([]RawCoin, error) {
	executor := func(apiKey cg.APIKey) ([]byte, bool, error) {
		baseURL := cg.GetApiBaseUrl(c.config, apiKey.Type)

		request, err := NewMarketRequestBuilder(baseURL).
			WithParams(params).
			WithApiKey(apiKey).
			Build(ctx)
		if err != nil {
			return nil, false, err
		}

		_, body, duration, err := c.httpClient.ExecuteRequest(request)
		if err != nil {
			return nil, false, err
		}

		log.Debugf("CoinGecko: Listing request with key type %s took %.2fs", apiKey.Type, duration.Seconds())
		return body, true, nil
	}

	body, err := cg.TryWithKeys(c.keyManager.GetAvailableKeys(), "CoinGecko-Markets", executor, cg.CreateFailCallback(c.keyManager))
	if err != nil {
		return nil, err
	}

	var coins []RawCoin
	if err := json.Unmarshal(body, &coins); err != nil {
		return nil, fmt.Errorf("failed to parse markets response: %w", err)
	}

	c.successfulFetch.Store(true)
	return coins, nil
}
