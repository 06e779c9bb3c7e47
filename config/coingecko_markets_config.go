package config

import (
	"fmt"
	"time"
)

const maxMarketsPerPage = 250

// BackoffConfig bounds the delay between failed listing polls
type BackoffConfig struct {
	InitialInterval time.Duration `yaml:"initial_interval"`
	MaxInterval     time.Duration `yaml:"max_interval"`
	Multiplier      float64       `yaml:"multiplier"`
}

// CoingeckoMarketsFetcher configures the listing poll
type CoingeckoMarketsFetcher struct {
	UpdateInterval        time.Duration `yaml:"update_interval"`
	Limit                 int           `yaml:"limit"`
	Currency              string        `yaml:"currency"`
	Sparkline             bool          `yaml:"sparkline"`
	PriceChangePercentage []string      `yaml:"price_change_percentage"`
	Backoff               BackoffConfig `yaml:"backoff"`
}

// GetDefaultMarketsConfig returns the listing poll defaults: top 100 by market cap every 5 seconds
func GetDefaultMarketsConfig() CoingeckoMarketsFetcher {
	return CoingeckoMarketsFetcher{
		UpdateInterval:        5 * time.Second,
		Limit:                 100,
		Currency:              "usd",
		Sparkline:             true,
		PriceChangePercentage: []string{"24h"},
		Backoff: BackoffConfig{
			InitialInterval: 5 * time.Second,
			MaxInterval:     2 * time.Minute,
			Multiplier:      2,
		},
	}
}

// Validate validates the CoingeckoMarketsFetcher configuration
func (c *CoingeckoMarketsFetcher) Validate() error {
	if c.UpdateInterval <= 0 {
		return fmt.Errorf("coingecko_markets: update_interval must be greater than 0")
	}
	if c.Limit <= 0 || c.Limit > maxMarketsPerPage {
		return fmt.Errorf("coingecko_markets: limit must be in [1, %d], got %d", maxMarketsPerPage, c.Limit)
	}
	if c.Currency == "" {
		return fmt.Errorf("coingecko_markets: currency cannot be empty")
	}
	if c.Backoff.InitialInterval <= 0 || c.Backoff.MaxInterval < c.Backoff.InitialInterval {
		return fmt.Errorf("coingecko_markets: backoff intervals must satisfy 0 < initial_interval <= max_interval")
	}
	if c.Backoff.Multiplier < 1 {
		return fmt.Errorf("coingecko_markets: backoff multiplier must be >= 1, got %v", c.Backoff.Multiplier)
	}
	return nil
}
