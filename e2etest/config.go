package e2etest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/status-im/market-dashboard/config"
)

// createTestConfig writes a config file and a tokens file into a temporary
// directory and returns the config path
func createTestConfig(mockURL, port string) (string, error) {
	tempDir, err := os.MkdirTemp("", "market-dashboard-test")
	if err != nil {
		return "", err
	}

	configContent := `
log_level: debug

server:
  port: "%s"

coingecko_markets:
  update_interval: 1s       # shorter interval for tests
  limit: 50
  currency: "usd"
  sparkline: true
  backoff:
    initial_interval: 200ms
    max_interval: 1s
    multiplier: 2

coingecko_market_chart:
  currency: "usd"
  ttl_1d: 1m
  ttl_7d: 5m

dashboard:
  transition_duration: 100ms
  transition_decimals: 2
  highlight_duration: 200ms
  default_price_range:
    min: 0
    max: 1000000
  notifications_limit: 5

watchlist:
  backend: file
  dir: "%s"
  key: watchlist

tokens_file: "%s"

# URLs for API (mock)
override_coingecko_public_url: "%s"
override_coingecko_pro_url: "%s"
`

	tokensFilePath := filepath.Join(tempDir, "tokens.json")
	tokensContent := `
{
  "api_tokens": ["test-api-key"],
  "demo_api_tokens": ["test-demo-key"]
}
`
	if err := os.WriteFile(tokensFilePath, []byte(tokensContent), 0o644); err != nil {
		os.RemoveAll(tempDir)
		return "", err
	}

	configContent = fmt.Sprintf(configContent, port, filepath.Join(tempDir, "watchlist"), tokensFilePath, mockURL, mockURL)

	configPath := filepath.Join(tempDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		os.RemoveAll(tempDir)
		return "", err
	}
	return configPath, nil
}

// loadTestConfig creates and loads test configuration
func loadTestConfig(mockURL, port string) (*config.Config, string, error) {
	configPath, err := createTestConfig(mockURL, port)
	if err != nil {
		return nil, "", err
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		os.RemoveAll(filepath.Dir(configPath))
		return nil, "", err
	}
	return cfg, configPath, nil
}

// cleanupTestConfig removes the temporary directory with configuration
func cleanupTestConfig(configPath string) {
	os.RemoveAll(filepath.Dir(configPath))
}
