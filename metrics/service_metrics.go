package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "metrics")

// MetricsPrefix is the prefix used for all metrics
const MetricsPrefix = "market_dashboard_"

// Service constants
const (
	ServiceMarkets     = "markets"
	ServiceMarketChart = "market-chart"
	ServiceCache       = "cache"
	ServiceWatchlist   = "watchlist"
	ServiceWebsocket   = "websocket"
)

var (
	// Global Coingecko request counter (all services)
	// Cardinality: ~5 (success, error, rate_limited, timeout, etc.)
	CoingeckoRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "coingecko_requests_total",
			Help: "Total number of HTTP requests to Coingecko API across all services",
		},
		[]string{"status"},
	)

	// Cardinality: ~10 (2 services × 5 statuses)
	ServiceCoingeckoRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "service_coingecko_requests_total",
			Help: "Total number of HTTP requests to Coingecko API per service",
		},
		[]string{"service", "status"},
	)

	DataFetchCycleDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: MetricsPrefix + "data_fetch_cycle_duration_seconds",
			Help: "Time taken to complete a full data fetch cycle",
		},
		[]string{"service"},
	)

	ServiceCacheSizeGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricsPrefix + "service_cache_size",
			Help: "Number of items held by a service (coins in the listing, entries in the chart cache)",
		},
		[]string{"service"},
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "cache_lookups_total",
			Help: "Cache lookups by result",
		},
		[]string{"service", "result"},
	)

	ServiceRetryCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "service_retry_attempts_total",
			Help: "Total number of retry attempts per service",
		},
		[]string{"service"},
	)

	ConsecutiveFailuresGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricsPrefix + "consecutive_failures",
			Help: "Number of failed fetch cycles since the last success",
		},
		[]string{"service"},
	)

	WatchlistSizeGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricsPrefix + "watchlist_size",
			Help: "Number of coins in the watchlist",
		},
	)

	WebsocketClientsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricsPrefix + "websocket_clients",
			Help: "Number of connected websocket clients",
		},
	)
)

// MetricsWriter provides a unified interface for recording service metrics
type MetricsWriter struct {
	serviceName string
}

// NewMetricsWriter creates a new MetricsWriter for the specified service
func NewMetricsWriter(serviceName string) *MetricsWriter {
	return &MetricsWriter{
		serviceName: serviceName,
	}
}

// GetServiceName returns the service name
func (mw *MetricsWriter) GetServiceName() string {
	return mw.serviceName
}

// RecordServiceCoingeckoRequest records a service-specific Coingecko API request
func (mw *MetricsWriter) RecordServiceCoingeckoRequest(status string) {
	CoingeckoRequestsTotal.WithLabelValues(status).Inc()
	ServiceCoingeckoRequestsTotal.WithLabelValues(mw.serviceName, status).Inc()
	log.Debugf("Metrics: %s Coingecko request recorded with status %s", mw.serviceName, status)
}

// RecordDataFetchCycle records the duration of a data fetch cycle
func (mw *MetricsWriter) RecordDataFetchCycle(duration time.Duration) {
	DataFetchCycleDuration.WithLabelValues(mw.serviceName).Observe(duration.Seconds())
	log.Debugf("Metrics: %s data fetch cycle took %.2fs", mw.serviceName, duration.Seconds())
}

// TrackDataFetchCycle starts timing a cycle; call the returned func when it ends
func (mw *MetricsWriter) TrackDataFetchCycle() func() {
	start := time.Now()
	return func() {
		mw.RecordDataFetchCycle(time.Since(start))
	}
}

// RecordCacheSize records the number of items in service cache
func (mw *MetricsWriter) RecordCacheSize(size int) {
	ServiceCacheSizeGauge.WithLabelValues(mw.serviceName).Set(float64(size))
}

// RecordCacheLookup counts a cache hit or miss
func (mw *MetricsWriter) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsTotal.WithLabelValues(mw.serviceName, result).Inc()
}

// RecordConsecutiveFailures exposes the current failure streak
func (mw *MetricsWriter) RecordConsecutiveFailures(n int) {
	ConsecutiveFailuresGauge.WithLabelValues(mw.serviceName).Set(float64(n))
}

// RecordRetryAttempt records a retry attempt
func (mw *MetricsWriter) RecordRetryAttempt() {
	ServiceRetryCounter.WithLabelValues(mw.serviceName).Inc()
	log.Debugf("Metrics: %s recorded a retry attempt", mw.serviceName)
}

// RecordWatchlistSize records the number of watched coins
func RecordWatchlistSize(size int) {
	WatchlistSizeGauge.Set(float64(size))
}

// RecordWebsocketClients records the number of connected websocket clients
func RecordWebsocketClients(n int) {
	WebsocketClientsGauge.Set(float64(n))
}

// OnRequest records an HTTP request with its status (coingecko_common.IHttpStatusHandler)
func (mw *MetricsWriter) OnRequest(status string) {
	mw.RecordServiceCoingeckoRequest(status)
}

// OnRetry records an HTTP retry attempt (coingecko_common.IHttpStatusHandler)
func (mw *MetricsWriter) OnRetry() {
	mw.RecordRetryAttempt()
}
