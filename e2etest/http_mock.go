package e2etest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "e2e-mock")

// MockServer stands in for the CoinGecko API
type MockServer struct {
	server *httptest.Server

	mu          sync.RWMutex
	marketsData string
	failing     bool

	MarketsRequests atomic.Int32
	ChartRequests   atomic.Int32
}

// NewMockServer creates and starts a mock CoinGecko server
func NewMockServer() *MockServer {
	ms := &MockServer{marketsData: defaultMarketsData()}

	router := mux.NewRouter()
	router.HandleFunc("/api/v3/coins/markets", ms.handleMarkets).Methods(http.MethodGet)
	router.HandleFunc("/api/v3/coins/{id}/market_chart", ms.handleMarketChart).Methods(http.MethodGet)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Warnf("MockServer: Path not found: %s", r.URL.Path)
		http.NotFound(w, r)
	})

	ms.server = httptest.NewServer(router)
	return ms
}

func (ms *MockServer) Close() {
	ms.server.Close()
}

// GetURL returns the base URL of the mock server
func (ms *MockServer) GetURL() string {
	return ms.server.URL
}

// SetMarketsData replaces the listing served from now on
func (ms *MockServer) SetMarketsData(data string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.marketsData = data
}

// SetFailing makes the listing endpoint answer 400, which is not retried
func (ms *MockServer) SetFailing(failing bool) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.failing = failing
}

func (ms *MockServer) handleMarkets(w http.ResponseWriter, r *http.Request) {
	ms.MarketsRequests.Add(1)

	ms.mu.RLock()
	data, failing := ms.marketsData, ms.failing
	ms.mu.RUnlock()

	if failing {
		http.Error(w, `{"error":"invalid request"}`, http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, data)
}

// handleMarketChart serves an hourly series ending now; "delisted" has no prices
func (ms *MockServer) handleMarketChart(w http.ResponseWriter, r *http.Request) {
	ms.ChartRequests.Add(1)

	id := mux.Vars(r)["id"]
	switch id {
	case "bitcoin", "ethereum":
	case "delisted":
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"prices":[]}`)
		return
	default:
		http.Error(w, `{"error":"coin not found"}`, http.StatusNotFound)
		return
	}

	days := 1
	if r.URL.Query().Get("days") == "7" {
		days = 7
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(generateMarketChartData(time.Now(), days)); err != nil {
		log.Errorf("MockServer: failed to encode chart: %v", err)
	}
}

// generateMarketChartData returns 12 points per hour over the given days
func generateMarketChartData(now time.Time, days int) map[string][][2]float64 {
	n := days * 24 * 12
	prices := make([][2]float64, 0, n)
	start := now.Add(-time.Duration(days) * 24 * time.Hour)
	for i := 0; i < n; i++ {
		ts := start.Add(time.Duration(i+1) * 5 * time.Minute)
		prices = append(prices, [2]float64{float64(ts.UnixMilli()), 50000 + float64(i%100)})
	}
	return map[string][][2]float64{"prices": prices}
}

func defaultMarketsData() string {
	return `[
	{
		"id": "bitcoin",
		"symbol": "btc",
		"name": "Bitcoin",
		"image": "https://assets.coingecko.com/coins/images/1/large/bitcoin.png",
		"current_price": 50000,
		"market_cap": 950000000000,
		"market_cap_rank": 1,
		"total_volume": 30000000000,
		"price_change_percentage_24h": 2,
		"circulating_supply": 19000000,
		"max_supply": 21000000,
		"last_updated": "2023-04-20T12:34:56.789Z",
		"sparkline_in_7d": {"price": [48000, 49000, 49500, 50000]}
	},
	{
		"id": "ethereum",
		"symbol": "eth",
		"name": "Ethereum",
		"image": "https://assets.coingecko.com/coins/images/279/large/ethereum.png",
		"current_price": 3000,
		"market_cap": 360000000000,
		"market_cap_rank": 2,
		"total_volume": 15000000000,
		"price_change_percentage_24h": -3.33,
		"circulating_supply": 120000000,
		"max_supply": null,
		"last_updated": "2023-04-20T12:34:56.789Z",
		"sparkline_in_7d": {"price": [3100, 3050, 3000]}
	},
	{
		"id": "delisted",
		"symbol": "dlst",
		"name": "Delisted Token",
		"image": "",
		"current_price": 0.004,
		"market_cap": 1200000,
		"market_cap_rank": 350,
		"total_volume": null,
		"price_change_percentage_24h": null,
		"circulating_supply": null,
		"max_supply": null,
		"last_updated": "2023-04-20T12:34:56.789Z"
	}
]`
}
