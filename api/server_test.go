package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cmc "github.com/status-im/market-dashboard/coingecko_market_chart"
	"github.com/status-im/market-dashboard/coingecko_markets"
	"github.com/status-im/market-dashboard/config"
	"github.com/status-im/market-dashboard/dashboard"
	"github.com/status-im/market-dashboard/events"
	"github.com/status-im/market-dashboard/market"
	"github.com/status-im/market-dashboard/transition"
	"github.com/status-im/market-dashboard/watchlist"
)

type fakeMarkets struct {
	healthy bool
	err     error
}

func (f fakeMarkets) Latest() (coingecko_markets.Snapshot, error) {
	return coingecko_markets.Snapshot{}, coingecko_markets.ErrNoSnapshot
}

func (f fakeMarkets) Subscribe() *events.Subscription[coingecko_markets.Snapshot] {
	return events.NewManager[coingecko_markets.Snapshot]().Subscribe()
}

func (f fakeMarkets) Refresh(context.Context) {}
func (f fakeMarkets) Healthy() bool           { return f.healthy }
func (f fakeMarkets) LastError() error        { return f.err }

type fakeCharts struct {
	charts map[string]cmc.Chart
	errs   map[string]error
}

func (f fakeCharts) Chart(_ context.Context, key cmc.ChartKey) (cmc.Chart, error) {
	if err := f.errs[key.CoinID]; err != nil {
		return cmc.Chart{Key: key, Points: []cmc.PricePoint{}}, err
	}
	c := f.charts[key.CoinID]
	c.Key = key
	return c, nil
}

func (f fakeCharts) Healthy() bool { return true }

func apiTestCoins() []market.Coin {
	return []market.Coin{
		{ID: "bitcoin", Rank: market.Int(1), Name: "Bitcoin", Symbol: "BTC", CurrentPrice: market.Float(64000), PriceChangePercentage24h: market.Float(1.5),
			MarketCap: market.Float(1.2e12), Volume24h: market.Float(3e10), Sparkline: []float64{63000, 63500, 64000}},
		{ID: "ethereum", Rank: market.Int(2), Name: "Ethereum", Symbol: "ETH", CurrentPrice: market.Float(3200), PriceChangePercentage24h: market.Float(-2),
			MarketCap: market.Float(3.8e11), Volume24h: market.Float(1.5e10), Sparkline: []float64{}},
		{ID: "pepe", Rank: market.Int(30), Name: "Pepe", Symbol: "PEPE", CurrentPrice: market.Float(0.000008), PriceChangePercentage24h: market.Float(12),
			MarketCap: market.Float(3.4e9), Volume24h: market.Float(9e8)},
	}
}

type testEnv struct {
	server  *Server
	session *dashboard.Session
	http    *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	points := make([]cmc.PricePoint, 24)
	for i := range points {
		points[i] = cmc.PricePoint{Timestamp: start.Add(time.Duration(i) * time.Hour), Price: 60000 + float64(i)}
	}
	charts := fakeCharts{
		charts: map[string]cmc.Chart{"bitcoin": {Points: points, FetchedAt: start}},
		errs: map[string]error{
			"ethereum": cmc.ErrEmptyChart,
			"pepe":     errors.New("upstream 503"),
		},
	}

	session := dashboard.NewSession(dashboard.Options{
		Config:    config.GetDefaultDashboardConfig(),
		Timers:    transition.NewFakeTimers(),
		Watchlist: watchlist.NewStore(watchlist.NewMemoryStorage(), watchlist.DefaultKey),
		Charts:    charts,
	})
	t.Cleanup(session.Close)
	session.ApplySnapshot(coingecko_markets.Snapshot{Coins: apiTestCoins(), FetchedAt: start})

	hub := NewHub(session)
	server := New("0", fakeMarkets{healthy: true}, charts, session, hub)
	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)

	return &testEnv{server: server, session: session, http: ts}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, e.http.URL+path, reader)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestServer_Coins(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/v1/coins?sort=price&direction=desc", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("ETag"))

	body := decode[coinsResponse](t, resp)
	require.Len(t, body.Coins, 3)
	assert.Equal(t, "bitcoin", body.Coins[0].ID)
	assert.Equal(t, 3, body.Total)

	resp = env.do(t, http.MethodGet, "/api/v1/coins?q=PE&performance=gainers", "")
	body = decode[coinsResponse](t, resp)
	require.Len(t, body.Coins, 1)
	assert.Equal(t, "pepe", body.Coins[0].ID)

	resp = env.do(t, http.MethodGet, "/api/v1/coins?market_cap=giant", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// the stateless listing leaves the session alone
	assert.Equal(t, market.DefaultSortSpec(), env.session.SortSpec())
}

func TestServer_Coin(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/v1/coins/bitcoin", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	row := decode[dashboard.Row](t, resp)
	assert.Equal(t, "$64,000.00", row.Display.Price)
	assert.Equal(t, "+1.50%", row.Display.Change)

	resp = env.do(t, http.MethodGet, "/api/v1/coins/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_Sparkline(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/v1/coins/bitcoin/sparkline.png", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	resp = env.do(t, http.MethodGet, "/api/v1/coins/ethereum/sparkline.png", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_Chart(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/v1/coins/bitcoin/chart?timeframe=24h", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	chart := decode[cmc.Chart](t, resp)
	assert.Len(t, chart.Points, 24)
	assert.Equal(t, cmc.TimeFrameDay, chart.Key.TimeFrame)

	resp = env.do(t, http.MethodGet, "/api/v1/coins/ethereum/chart?timeframe=7d", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[cmc.Chart](t, resp).Points)

	resp = env.do(t, http.MethodGet, "/api/v1/coins/pepe/chart?timeframe=1h", "")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, chartFailedMessage, decode[errorResponse](t, resp).Error)

	resp = env.do(t, http.MethodGet, "/api/v1/coins/bitcoin/chart?timeframe=1y", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/v1/coins/bitcoin/chart.png?timeframe=7d", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	resp = env.do(t, http.MethodGet, "/api/v1/coins/ethereum/chart.png", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_SessionView(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPut, "/api/v1/view/query", `{"query":"bit"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view := decode[dashboard.View](t, resp)
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "bit", view.Query)

	resp = env.do(t, http.MethodPut, "/api/v1/view/query", `{"query":""}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/v1/view/sort/name", "")
	view = decode[dashboard.View](t, resp)
	assert.Equal(t, market.SortSpec{Key: market.SortByName, Direction: market.Desc}, view.Sort)
	assert.Equal(t, "pepe", view.Rows[0].Coin.ID)

	resp = env.do(t, http.MethodPost, "/api/v1/view/sort/color", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPut, "/api/v1/view/filters", `{"market_cap":"large","performance":"all","price_range":{"min":0,"max":1000000}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view = decode[dashboard.View](t, resp)
	assert.Len(t, view.Rows, 2)
	assert.Equal(t, market.TokenTypeAll, view.Filters.TokenType)

	resp = env.do(t, http.MethodPut, "/api/v1/view/filters", `{"market_cap":"giant"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPut, "/api/v1/view/filters", `{"colour":"red"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/v1/view", "")
	view = decode[dashboard.View](t, resp)
	assert.Equal(t, market.MarketCapLarge, view.Filters.MarketCap)
	assert.False(t, view.Loading)
}

func TestServer_Watchlist(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/v1/watchlist/ethereum/toggle", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, toggleResponse{ID: "ethereum", Watchlisted: true}, decode[toggleResponse](t, resp))

	resp = env.do(t, http.MethodGet, "/api/v1/watchlist", "")
	wl := decode[watchlistResponse](t, resp)
	assert.Equal(t, []string{"ethereum"}, wl.IDs)
	require.Len(t, wl.Coins, 1)
	assert.True(t, wl.Coins[0].Watchlisted)

	resp = env.do(t, http.MethodPost, "/api/v1/watchlist/ethereum/toggle", "")
	assert.False(t, decode[toggleResponse](t, resp).Watchlisted)
}

func TestServer_Detail(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/v1/detail", "")
	assert.Equal(t, dashboard.ChartIdle, decode[detailResponse](t, resp).Chart.Status)

	resp = env.do(t, http.MethodPut, "/api/v1/detail", `{"coin_id":"bitcoin","timeframe":"7d"}`)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	detail := decode[detailResponse](t, resp)
	require.NotNil(t, detail.Coin)
	assert.Equal(t, "bitcoin", detail.Coin.Coin.ID)

	require.Eventually(t, func() bool {
		return env.session.ChartPanel().Status == dashboard.ChartReady
	}, time.Second, 5*time.Millisecond)

	resp = env.do(t, http.MethodGet, "/api/v1/detail", "")
	detail = decode[detailResponse](t, resp)
	assert.Len(t, detail.Chart.Points, 24)

	resp = env.do(t, http.MethodPut, "/api/v1/detail", `{"coin_id":"nope","timeframe":"7d"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, http.MethodPut, "/api/v1/detail", `{"coin_id":"bitcoin","timeframe":"5y"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_NotificationsAndHealth(t *testing.T) {
	env := newTestEnv(t)

	n := coingecko_markets.FetchFailedNotification(time.Now().UTC())
	require.NoError(t, env.session.Notify(context.Background(), n))

	resp := env.do(t, http.MethodGet, "/api/v1/notifications", "")
	list := decode[[]map[string]interface{}](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, "Error", list[0]["title"])
	assert.Equal(t, "destructive", list[0]["severity"])

	resp = env.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	health := decode[map[string]interface{}](t, resp)
	assert.Equal(t, "ok", health["status"])
	services := health["services"].(map[string]interface{})
	assert.Equal(t, "up", services["coingecko_markets"])

	resp = env.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
