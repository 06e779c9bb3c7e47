package coingecko_market_chart

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/status-im/market-dashboard/config"
)

func TestCoinGeckoClient_FetchMarketChart(t *testing.T) {
	var gotPath, gotDays, gotCurrency string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotDays = r.URL.Query().Get("days")
		gotCurrency = r.URL.Query().Get("vs_currency")
		_, _ = w.Write([]byte(`{"prices":[[1709290800000,64000.5]]}`))
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.OverrideCoingeckoPublicURL = server.URL
	client := NewCoinGeckoClient(cfg)

	body, err := client.FetchMarketChart(context.Background(), "bitcoin", 7)
	require.NoError(t, err)

	assert.Equal(t, "/api/v3/coins/bitcoin/market_chart", gotPath)
	assert.Equal(t, "7", gotDays)
	assert.Equal(t, "usd", gotCurrency)
	assert.Contains(t, string(body), "64000.5")
	assert.True(t, client.Healthy())
}

func TestCoinGeckoClient_FetchMarketChartErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.OverrideCoingeckoPublicURL = server.URL
	client := NewCoinGeckoClient(cfg)

	_, err := client.FetchMarketChart(context.Background(), "nope", 1)
	assert.Error(t, err)

	_, err = client.FetchMarketChart(context.Background(), " ", 1)
	assert.Error(t, err)
	assert.False(t, client.Healthy())
}
