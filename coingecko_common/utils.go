package coingecko_common

import (
	"github.com/sirupsen/logrus"

	"github.com/status-im/market-dashboard/config"
)

var log = logrus.WithField("component", "coingecko")

// GetApiBaseUrl returns the API base URL for a key type, honouring config overrides
func GetApiBaseUrl(cfg *config.Config, keyType KeyType) string {
	if keyType == ProKey {
		if cfg.OverrideCoingeckoProURL != "" {
			log.Debugf("CoinGecko: Using overridden Pro API URL: %s", cfg.OverrideCoingeckoProURL)
			return cfg.OverrideCoingeckoProURL
		}
		return COINGECKO_PRO_URL
	}
	if cfg.OverrideCoingeckoPublicURL != "" {
		log.Debugf("CoinGecko: Using overridden public API URL: %s", cfg.OverrideCoingeckoPublicURL)
		return cfg.OverrideCoingeckoPublicURL
	}
	return COINGECKO_PUBLIC_URL
}

// PrependFreeKey moves the NoKey entry to the front of keys
func PrependFreeKey(keys []APIKey) []APIKey {
	for i, key := range keys {
		if key.Type == NoKey {
			out := make([]APIKey, 0, len(keys))
			out = append(out, key)
			out = append(out, keys[:i]...)
			return append(out, keys[i+1:]...)
		}
	}
	return keys
}
