package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	cmc "github.com/status-im/market-dashboard/coingecko_market_chart"
	"github.com/status-im/market-dashboard/dashboard"
	"github.com/status-im/market-dashboard/market"
)

type queryRequest struct {
	Query string `json:"query"`
}

type watchlistResponse struct {
	IDs   []string        `json:"ids"`
	Coins []dashboard.Row `json:"coins"`
}

type toggleResponse struct {
	ID          string `json:"id"`
	Watchlisted bool   `json:"watchlisted"`
}

type detailRequest struct {
	CoinID    string `json:"coin_id"`
	TimeFrame string `json:"timeframe"`
}

type detailResponse struct {
	Coin  *dashboard.Row       `json:"coin,omitempty"`
	Chart dashboard.ChartState `json:"chart"`
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	s.sendJSONResponse(w, s.session.View())
}

func (s *Server) handleSetQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.session.SetQuery(req.Query)
	s.sendJSONResponse(w, s.session.View())
}

// handleSetFilters replaces the filter options as a whole. Omitted fields
// take their default value.
func (s *Server) handleSetFilters(w http.ResponseWriter, r *http.Request) {
	filters := market.DefaultFilterOptions()
	if err := decodeJSONBody(w, r, &filters); err != nil {
		s.sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := filters.Validate(); err != nil {
		s.sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.session.SetFilters(filters)
	s.sendJSONResponse(w, s.session.View())
}

func (s *Server) handleToggleSort(w http.ResponseWriter, r *http.Request) {
	key, err := market.ParseSortKey(mux.Vars(r)["key"])
	if err != nil {
		s.sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.session.ToggleSort(key)
	s.sendJSONResponse(w, s.session.View())
}

func (s *Server) handleWatchlist(w http.ResponseWriter, r *http.Request) {
	s.sendJSONResponse(w, watchlistResponse{
		IDs:   s.session.Watchlist(),
		Coins: s.session.WatchedCoins(),
	})
}

func (s *Server) handleToggleWatchlist(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	watched, err := s.session.ToggleWatchlist(r.Context(), id)
	if err != nil {
		log.Errorf("Watchlist toggle for %s failed: %v", id, err)
		s.sendError(w, http.StatusInternalServerError, "failed to save watchlist")
		return
	}
	s.sendJSONResponse(w, toggleResponse{ID: id, Watchlisted: watched})
}

func (s *Server) detail() detailResponse {
	resp := detailResponse{Chart: s.session.ChartPanel()}
	if key := resp.Chart.Key; key != nil {
		if row, ok := s.session.Coin(key.CoinID); ok {
			resp.Coin = &row
		}
	}
	return resp
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	s.sendJSONResponse(w, s.detail())
}

// handleSelectDetail opens the detail panel; the chart loads in the
// background and is pushed over /ws when ready
func (s *Server) handleSelectDetail(w http.ResponseWriter, r *http.Request) {
	var req detailRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	tf, err := cmc.ParseTimeFrame(req.TimeFrame)
	if err != nil {
		s.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = s.session.SelectChart(r.Context(), req.CoinID, tf)
	switch {
	case errors.Is(err, dashboard.ErrUnknownCoin):
		s.sendError(w, http.StatusNotFound, "coin not found")
		return
	case err != nil:
		s.sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.sendJSONStatus(w, http.StatusAccepted, s.detail())
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	s.sendJSONResponse(w, s.session.Notifications())
}
