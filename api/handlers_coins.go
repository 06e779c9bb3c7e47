package api

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	cmc "github.com/status-im/market-dashboard/coingecko_market_chart"
	"github.com/status-im/market-dashboard/market"
	"github.com/status-im/market-dashboard/render"
)

const chartFailedMessage = "Failed to load chart data. Please try again later."

type coinsResponse struct {
	Coins   []market.Coin        `json:"coins"`
	Query   string               `json:"query"`
	Filters market.FilterOptions `json:"filters"`
	Sort    market.SortSpec      `json:"sort"`
	Total   int                  `json:"total"`
}

// handleCoins derives a view from the latest listing without touching
// session state
func (s *Server) handleCoins(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		s.sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	spec, err := parseSort(r)
	if err != nil {
		s.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	query := r.URL.Query().Get("q")
	all := s.session.Coins()

	s.sendJSONResponse(w, coinsResponse{
		Coins:   market.ComputeView(all, query, filters, spec),
		Query:   query,
		Filters: filters,
		Sort:    spec,
		Total:   len(all),
	})
}

func (s *Server) handleCoin(w http.ResponseWriter, r *http.Request) {
	row, ok := s.session.Coin(mux.Vars(r)["id"])
	if !ok {
		s.sendError(w, http.StatusNotFound, "coin not found")
		return
	}
	s.sendJSONResponse(w, row)
}

func (s *Server) handleSparkline(w http.ResponseWriter, r *http.Request) {
	row, ok := s.session.Coin(mux.Vars(r)["id"])
	if !ok {
		s.sendError(w, http.StatusNotFound, "coin not found")
		return
	}

	var buf bytes.Buffer
	err := render.Sparkline(&buf, row.Coin.Sparkline, market.Value(row.Coin.PriceChangePercentage24h), render.SparklineOptions{})
	if errors.Is(err, render.ErrEmptySeries) {
		s.sendError(w, http.StatusNotFound, "no sparkline data")
		return
	}
	if err != nil {
		log.Errorf("Sparkline for %s failed: %v", row.Coin.ID, err)
		s.sendError(w, http.StatusInternalServerError, "failed to render sparkline")
		return
	}
	s.sendPNG(w, buf.Bytes())
}

// loadChart resolves the chart for the route's coin and timeframe. It
// writes the error response itself and reports whether to continue.
func (s *Server) loadChart(w http.ResponseWriter, r *http.Request) (cmc.Chart, bool) {
	tf, err := cmc.ParseTimeFrame(getParamLowercase(r, "timeframe"))
	if err != nil {
		s.sendError(w, http.StatusBadRequest, err.Error())
		return cmc.Chart{}, false
	}

	key := cmc.ChartKey{CoinID: mux.Vars(r)["id"], TimeFrame: tf}
	chart, err := s.marketChartService.Chart(r.Context(), key)
	switch {
	case err == nil, errors.Is(err, cmc.ErrEmptyChart):
		if chart.Points == nil {
			chart.Points = []cmc.PricePoint{}
		}
		chart.Key = key
		return chart, true
	default:
		log.Warnf("Chart %s/%s failed: %v", key.CoinID, key.TimeFrame, err)
		s.sendError(w, http.StatusBadGateway, chartFailedMessage)
		return cmc.Chart{}, false
	}
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	chart, ok := s.loadChart(w, r)
	if !ok {
		return
	}
	s.sendJSONResponse(w, chart)
}

func (s *Server) handleChartPNG(w http.ResponseWriter, r *http.Request) {
	chart, ok := s.loadChart(w, r)
	if !ok {
		return
	}
	if len(chart.Points) == 0 {
		s.sendError(w, http.StatusNotFound, "No chart data available")
		return
	}

	var buf bytes.Buffer
	if err := render.PriceChart(&buf, chart.Points, chart.Key.TimeFrame, render.ChartOptions{}); err != nil {
		log.Errorf("Price chart for %s failed: %v", chart.Key.CoinID, err)
		s.sendError(w, http.StatusInternalServerError, "failed to render chart")
		return
	}
	s.sendPNG(w, buf.Bytes())
}
