package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/status-im/market-dashboard/metrics"
)

// Service implements Cache on top of go-cache and reports hits and misses
type Service struct {
	goCache       *GoCache
	config        Config
	metricsWriter *metrics.MetricsWriter
}

// NewService creates a new cache service with the given configuration
func NewService(config Config) *Service {
	return &Service{
		goCache:       NewGoCache(config.GoCache.DefaultExpiration, config.GoCache.CleanupInterval),
		config:        config,
		metricsWriter: metrics.NewMetricsWriter(metrics.ServiceCache),
	}
}

// Start implements core.Interface
func (s *Service) Start(ctx context.Context) error {
	if s.goCache == nil {
		return fmt.Errorf("cache service not properly initialized")
	}
	return nil
}

// Stop implements core.Interface
func (s *Service) Stop() {
	s.goCache.Clear()
}

func (s *Service) Get(key string) ([]byte, bool) {
	if !s.config.GoCache.Enabled {
		s.metricsWriter.RecordCacheLookup(false)
		return nil, false
	}
	data, ok := s.goCache.Get(key)
	s.metricsWriter.RecordCacheLookup(ok)
	return data, ok
}

func (s *Service) Set(key string, value []byte, ttl time.Duration) {
	if !s.config.GoCache.Enabled {
		return
	}
	s.goCache.Set(key, value, ttl)
	s.metricsWriter.RecordCacheSize(s.goCache.ItemCount())
}

func (s *Service) GetOrLoad(key string, loader LoaderFunc, ttl time.Duration) ([]byte, error) {
	if data, ok := s.Get(key); ok {
		return data, nil
	}

	data, err := loader(key)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}

	s.Set(key, data, ttl)
	return data, nil
}
