package coingecko_common

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/status-im/market-dashboard/config"
)

func testAPIKeyConfig() config.APIKeyConfig {
	return config.APIKeyConfig{
		Pro:   config.RateLimit{RateLimitPerMinute: 300, Burst: 10},
		Demo:  config.RateLimit{RateLimitPerMinute: 60, Burst: 2},
		NoKey: config.RateLimit{RateLimitPerMinute: 30, Burst: 1},
	}
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestRateLimiterManager_GetLimiterForURL(t *testing.T) {
	m := NewRateLimiterManager(testAPIKeyConfig())

	tests := []struct {
		name          string
		url           string
		expectLimiter bool
		expectedBurst int
		expectedLimit rate.Limit
	}{
		{"pro key", "https://pro-api.coingecko.com/api/v3/coins/markets?x_cg_pro_api_key=pro", true, 10, 5},
		{"demo key", "https://api.coingecko.com/api/v3/coins/markets?x_cg_demo_api_key=demo", true, 2, 1},
		{"public host without key", "https://api.coingecko.com/api/v3/coins/markets", true, 1, 0.5},
		{"pro preferred over demo", "https://api.coingecko.com/x?x_cg_pro_api_key=p&x_cg_demo_api_key=d", true, 10, 5},
		{"unrelated host", "https://example.com/api/data", false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lim := m.GetLimiterForURL(mustParse(t, tt.url))
			if !tt.expectLimiter {
				assert.Nil(t, lim)
				return
			}
			require.NotNil(t, lim)
			assert.Equal(t, tt.expectedBurst, lim.Burst())
			assert.InDelta(t, float64(tt.expectedLimit), float64(lim.Limit()), 1e-9)
		})
	}
}

func TestRateLimiterManager_SameKeySharesLimiter(t *testing.T) {
	m := NewRateLimiterManager(testAPIKeyConfig())

	a := m.GetLimiterForURL(mustParse(t, "https://api.coingecko.com/a?x_cg_demo_api_key=k1"))
	b := m.GetLimiterForURL(mustParse(t, "https://api.coingecko.com/b?x_cg_demo_api_key=k1"))
	c := m.GetLimiterForURL(mustParse(t, "https://api.coingecko.com/b?x_cg_demo_api_key=k2"))

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}

func TestRateLimiterManager_Defaults(t *testing.T) {
	m := NewRateLimiterManager(config.APIKeyConfig{})

	lim := m.GetLimiterForURL(mustParse(t, "https://pro-api.coingecko.com/x?x_cg_pro_api_key=p"))
	require.NotNil(t, lim)
	assert.InDelta(t, float64(defaultProRPM)/60.0, float64(lim.Limit()), 1e-9)
	assert.Equal(t, 9, lim.Burst())

	lim = m.GetLimiterForURL(mustParse(t, "https://api.coingecko.com/x"))
	assert.Equal(t, 1, lim.Burst())
}

func TestRateLimiterManager_SetConfigRebuildsChangedTypes(t *testing.T) {
	m := NewRateLimiterManager(testAPIKeyConfig())

	pro := m.GetLimiterForURL(mustParse(t, "https://pro-api.coingecko.com/x?x_cg_pro_api_key=p"))
	demo := m.GetLimiterForURL(mustParse(t, "https://api.coingecko.com/x?x_cg_demo_api_key=d"))

	cfg := testAPIKeyConfig()
	cfg.Pro.Burst = 20
	m.SetConfig(cfg)

	pro2 := m.GetLimiterForURL(mustParse(t, "https://pro-api.coingecko.com/x?x_cg_pro_api_key=p"))
	demo2 := m.GetLimiterForURL(mustParse(t, "https://api.coingecko.com/x?x_cg_demo_api_key=d"))

	assert.NotSame(t, pro, pro2)
	assert.Equal(t, 20, pro2.Burst())
	assert.Same(t, demo, demo2)
}

func TestRateLimiterManager_NilSafe(t *testing.T) {
	var m *RateLimiterManager
	assert.Nil(t, m.GetLimiterForURL(mustParse(t, "https://api.coingecko.com/x")))
	assert.Nil(t, NewRateLimiterManager(config.APIKeyConfig{}).GetLimiterForURL(nil))
}
