package coingecko_common

import (
	"math"
	"net/url"
	"sync"

	"github.com/status-im/market-dashboard/config"
	"golang.org/x/time/rate"
)

// IRateLimiterManager provides a way to get a rate limiter for a request URL
//
//go:generate mockgen -destination=mocks/rate_limiter_manager.go . IRateLimiterManager
type IRateLimiterManager interface {
	GetLimiterForURL(u *url.URL) *rate.Limiter
	SetConfig(cfg config.APIKeyConfig)
}

// Defaults in requests per minute, used when config is not provided
const (
	defaultProRPM   = 500
	defaultDemoRPM  = 30
	defaultNoKeyRPM = 30
)

type limiterKey struct {
	keyType KeyType
	key     string
}

// RateLimiterManager manages per-key rate limiters using APIKeyConfig
type RateLimiterManager struct {
	mu       sync.RWMutex
	limiters map[limiterKey]*rate.Limiter
	config   config.APIKeyConfig
}

var (
	managerOnce   sync.Once
	globalManager *RateLimiterManager
)

// NewRateLimiterManager creates a manager with the given limits
func NewRateLimiterManager(cfg config.APIKeyConfig) *RateLimiterManager {
	return &RateLimiterManager{
		limiters: make(map[limiterKey]*rate.Limiter),
		config:   cfg,
	}
}

// GetRateLimiterManagerInstance returns the process-wide manager shared by all CoinGecko clients
func GetRateLimiterManagerInstance() *RateLimiterManager {
	managerOnce.Do(func() {
		globalManager = NewRateLimiterManager(config.APIKeyConfig{})
	})
	return globalManager
}

// SetConfig applies a new APIKeyConfig and rebuilds limiters whose settings changed
func (m *RateLimiterManager) SetConfig(newCfg config.APIKeyConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()

	oldCfg := m.config
	m.config = newCfg

	for k := range m.limiters {
		if rateLimitFor(oldCfg, k.keyType) != rateLimitFor(newCfg, k.keyType) {
			m.limiters[k] = m.newLimiterLocked(k.keyType)
		}
	}
}

// GetLimiterForURL inspects the URL to determine key and type and returns appropriate limiter
func (m *RateLimiterManager) GetLimiterForURL(u *url.URL) *rate.Limiter {
	if m == nil || u == nil {
		return nil
	}

	query := u.Query()
	if v := query.Get(ProKeyParam); v != "" {
		return m.getLimiter(limiterKey{ProKey, v})
	}
	if v := query.Get(DemoKeyParam); v != "" {
		return m.getLimiter(limiterKey{DemoKey, v})
	}

	// Public limiter only for known CoinGecko hosts
	host := u.Hostname()
	if host == "api.coingecko.com" || host == "pro-api.coingecko.com" {
		return m.getLimiter(limiterKey{NoKey, ""})
	}
	return nil
}

func (m *RateLimiterManager) getLimiter(k limiterKey) *rate.Limiter {
	m.mu.RLock()
	lim, ok := m.limiters[k]
	m.mu.RUnlock()
	if ok {
		return lim
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if lim, ok := m.limiters[k]; ok {
		return lim
	}
	lim = m.newLimiterLocked(k.keyType)
	m.limiters[k] = lim
	return lim
}

func (m *RateLimiterManager) newLimiterLocked(keyType KeyType) *rate.Limiter {
	rl := rateLimitFor(m.config, keyType)
	limit := rate.Limit(float64(rl.RateLimitPerMinute) / 60.0)
	return rate.NewLimiter(limit, rl.Burst)
}

func rateLimitFor(cfg config.APIKeyConfig, keyType KeyType) config.RateLimit {
	var rl config.RateLimit
	rpm := defaultNoKeyRPM
	switch keyType {
	case ProKey:
		rl, rpm = cfg.Pro, defaultProRPM
	case DemoKey:
		rl, rpm = cfg.Demo, defaultDemoRPM
	default:
		rl = cfg.NoKey
	}
	rl = rl.OrDefault(rpm, 0)
	if rl.Burst <= 0 {
		rl.Burst = defaultBurstForLimit(rate.Limit(float64(rl.RateLimitPerMinute) / 60.0))
	}
	return rl
}

func defaultBurstForLimit(limit rate.Limit) int {
	if limit <= 1.0 {
		return 1
	}
	return int(math.Ceil(float64(limit)))
}
