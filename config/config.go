package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/status-im/market-dashboard/cache"
)

var log = logrus.WithField("component", "config")

type Config struct {
	LogLevel             string                      `yaml:"log_level"`
	Server               ServerConfig                `yaml:"server"`
	CoingeckoMarkets     CoingeckoMarketsFetcher     `yaml:"coingecko_markets"`
	CoingeckoMarketChart CoingeckoMarketChartFetcher `yaml:"coingecko_market_chart"`
	Dashboard            DashboardConfig             `yaml:"dashboard"`
	Watchlist            WatchlistConfig             `yaml:"watchlist"`
	Notify               NotifyConfig                `yaml:"notify"`
	Cache                cache.Config                `yaml:"cache"`
	APIKeys              APIKeyConfig                `yaml:"api_keys"`
	TokensFile           string                      `yaml:"tokens_file"`
	APITokens            *APITokens                  `yaml:"-"`

	OverrideCoingeckoPublicURL string `yaml:"override_coingecko_public_url"`
	OverrideCoingeckoProURL    string `yaml:"override_coingecko_pro_url"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port string `yaml:"port"`
}

// APITokens holds CoinGecko keys loaded from the tokens file or environment
type APITokens struct {
	Tokens     []string `json:"api_tokens"`
	DemoTokens []string `json:"demo_api_tokens,omitempty"`
}

// Default returns a configuration usable without a config file
func Default() *Config {
	return &Config{
		LogLevel:             "info",
		Server:               ServerConfig{Port: "8080"},
		CoingeckoMarkets:     GetDefaultMarketsConfig(),
		CoingeckoMarketChart: GetDefaultMarketChartConfig(),
		Dashboard:            GetDefaultDashboardConfig(),
		Watchlist:            GetDefaultWatchlistConfig(),
		Cache:                cache.DefaultCacheConfig(),
		APITokens:            &APITokens{Tokens: []string{}},
	}
}

// LoadConfig reads the YAML file at path on top of Default() and applies
// environment overrides. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		log.Warnf("Config file %s not found, using defaults", path)
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if cfg.TokensFile != "" {
		apiTokens, err := LoadAPITokens(cfg.TokensFile)
		if err != nil {
			log.Warnf("Error loading API tokens from %s: %v. Using public API without authentication.",
				cfg.TokensFile, err)
		} else {
			cfg.APITokens = apiTokens
		}
	}

	cfg.ApplyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides settings from environment variables
func (c *Config) ApplyEnv(getenv func(string) string) {
	if port := getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	if c.APITokens == nil {
		c.APITokens = &APITokens{Tokens: []string{}}
	}
	if key := getenv("COINGECKO_API_KEY"); key != "" {
		c.APITokens.Tokens = append(c.APITokens.Tokens, key)
	}
	if key := getenv("COINGECKO_DEMO_API_KEY"); key != "" {
		c.APITokens.DemoTokens = append(c.APITokens.DemoTokens, key)
	}
	if url := getenv("SLACK_WEBHOOK_URL"); url != "" {
		c.Notify.Slack.WebhookURL = url
	}
}

// Validate checks every section and reports all problems at once
func (c *Config) Validate() error {
	var err error
	if c.Server.Port == "" {
		err = multierr.Append(err, fmt.Errorf("server: port cannot be empty"))
	}
	err = multierr.Append(err, c.CoingeckoMarkets.Validate())
	err = multierr.Append(err, c.CoingeckoMarketChart.Validate())
	err = multierr.Append(err, c.Dashboard.Validate())
	err = multierr.Append(err, c.Watchlist.Validate())
	return err
}

func LoadAPITokens(filename string) (*APITokens, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return &APITokens{Tokens: []string{}}, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var tokens APITokens
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, err
	}
	return &tokens, nil
}
