package config

import (
	"fmt"
	"time"
)

// CoingeckoMarketChartFetcher defines configuration for the price chart fetcher
type CoingeckoMarketChartFetcher struct {
	Currency string `yaml:"currency"`

	// OneDayTTL is the cache TTL for days=1 requests (1h and 24h frames)
	OneDayTTL time.Duration `yaml:"ttl_1d"`

	// SevenDaysTTL is the cache TTL for days=7 requests
	SevenDaysTTL time.Duration `yaml:"ttl_7d"`

	// TryFreeApiFirst determines whether to try the public API (no key) first
	TryFreeApiFirst bool `yaml:"try_free_api_first"`
}

// GetDefaultMarketChartConfig returns default configuration for market chart service
func GetDefaultMarketChartConfig() CoingeckoMarketChartFetcher {
	return CoingeckoMarketChartFetcher{
		Currency:     "usd",
		OneDayTTL:    1 * time.Minute,
		SevenDaysTTL: 5 * time.Minute,
	}
}

// TTLForDays picks the cache TTL for a chart request of the given day count
func (c *CoingeckoMarketChartFetcher) TTLForDays(days int) time.Duration {
	if days <= 1 {
		return c.OneDayTTL
	}
	return c.SevenDaysTTL
}

func (c *CoingeckoMarketChartFetcher) Validate() error {
	if c.Currency == "" {
		return fmt.Errorf("coingecko_market_chart: currency cannot be empty")
	}
	if c.OneDayTTL < 0 || c.SevenDaysTTL < 0 {
		return fmt.Errorf("coingecko_market_chart: ttl cannot be negative")
	}
	return nil
}
