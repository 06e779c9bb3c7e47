package e2etest

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/status-im/market-dashboard/dashboard"
	"github.com/status-im/market-dashboard/market"
)

type coinsResponse struct {
	Coins []market.Coin   `json:"coins"`
	Sort  market.SortSpec `json:"sort"`
	Total int             `json:"total"`
}

func ids(coins []market.Coin) []string {
	out := make([]string, 0, len(coins))
	for _, c := range coins {
		out = append(out, c.ID)
	}
	return out
}

// TestCoinsEndpoint tests the /api/v1/coins listing
func TestCoinsEndpoint(t *testing.T) {
	env := SetupTest(t)
	waitForListing(t, env)

	resp := getJSON[coinsResponse](t, env.ServerBaseURL+"/api/v1/coins", http.StatusOK)
	require.Equal(t, []string{"bitcoin", "ethereum", "delisted"}, ids(resp.Coins))
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, market.DefaultSortSpec(), resp.Sort)

	btc := resp.Coins[0]
	assert.Equal(t, "BTC", btc.Symbol)
	assert.Equal(t, market.Float(50000), btc.CurrentPrice)
	assert.Equal(t, []float64{48000, 49000, 49500, 50000}, btc.Sparkline)
	require.NotNil(t, btc.CirculatingSupply)

	delisted := resp.Coins[2]
	assert.Nil(t, delisted.Volume24h, "null volume stays unknown")
	assert.Nil(t, delisted.CirculatingSupply)
	assert.Empty(t, delisted.Sparkline)
}

func TestCoinsEndpoint_SearchFilterSort(t *testing.T) {
	env := SetupTest(t)
	waitForListing(t, env)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"search by symbol", "?q=ETH", []string{"ethereum"}},
		{"search by name", "?q=token", []string{"delisted"}},
		{"no match", "?q=zzz", []string{}},
		{"losers", "?performance=losers", []string{"ethereum"}},
		{"gainers", "?performance=gainers", []string{"bitcoin"}},
		{"large caps", "?market_cap=large", []string{"bitcoin", "ethereum"}},
		{"small caps", "?market_cap=small", []string{"delisted"}},
		{"price range", "?min_price=1000&max_price=10000", []string{"ethereum"}},
		{"price desc", "?sort=price&direction=desc", []string{"bitcoin", "ethereum", "delisted"}},
		{"price asc", "?sort=price&direction=asc", []string{"delisted", "ethereum", "bitcoin"}},
		{"name desc", "?sort=name&direction=desc", []string{"ethereum", "delisted", "bitcoin"}},
		{"supply asc keeps missing last", "?sort=supply&direction=asc", []string{"bitcoin", "ethereum", "delisted"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := getJSON[coinsResponse](t, env.ServerBaseURL+"/api/v1/coins"+tt.query, http.StatusOK)
			assert.Equal(t, tt.want, ids(resp.Coins))
		})
	}

	resp := request(t, http.MethodGet, env.ServerBaseURL+"/api/v1/coins?sort=colour", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCoinEndpoint(t *testing.T) {
	env := SetupTest(t)
	waitForListing(t, env)

	row := getJSON[dashboard.Row](t, env.ServerBaseURL+"/api/v1/coins/ethereum", http.StatusOK)
	assert.Equal(t, "Ethereum", row.Coin.Name)
	assert.Equal(t, "$3,000.00", row.Display.Price)
	assert.Equal(t, "-3.33%", row.Display.Change)
	assert.Equal(t, "Unlimited", row.Display.MaxSupply)
	assert.Equal(t, "Apr 20, 2023 12:34:56", row.Display.LastUpdated)

	resp := request(t, http.MethodGet, env.ServerBaseURL+"/api/v1/coins/unknown", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSparklineEndpoint(t *testing.T) {
	env := SetupTest(t)
	waitForListing(t, env)

	resp := request(t, http.MethodGet, env.ServerBaseURL+"/api/v1/coins/bitcoin/sparkline.png", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	resp = request(t, http.MethodGet, env.ServerBaseURL+"/api/v1/coins/delisted/sparkline.png", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListingFollowsPolls(t *testing.T) {
	env := SetupTest(t)
	waitForListing(t, env)

	env.MockServer.SetMarketsData(`[
		{"id": "bitcoin", "symbol": "btc", "name": "Bitcoin", "current_price": 51000, "market_cap_rank": 1,
		 "market_cap": 960000000000, "price_change_percentage_24h": 2.5}
	]`)

	require.Eventually(t, func() bool {
		row, ok := env.App.Session.Coin("bitcoin")
		return ok && market.Value(row.Coin.CurrentPrice) == 51000
	}, 10*time.Second, 100*time.Millisecond)

	_, ok := env.App.Session.Coin("ethereum")
	assert.False(t, ok, "a poll replaces the listing wholesale")
}
