package api

import (
	"net/http"
)

// handleHealth responds with 200 OK to indicate the service is running
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	services := map[string]string{
		"coingecko_markets":      "unknown",
		"coingecko_market_chart": "unknown",
	}

	if s.marketsService != nil && s.marketsService.Healthy() {
		services["coingecko_markets"] = "up"
	}
	if s.marketChartService != nil && s.marketChartService.Healthy() {
		services["coingecko_market_chart"] = "up"
	}

	status := map[string]interface{}{
		"status":   "ok",
		"services": services,
	}
	if s.marketsService != nil {
		if err := s.marketsService.LastError(); err != nil {
			status["last_error"] = err.Error()
		}
	}
	if s.hub != nil {
		status["websocket_clients"] = s.hub.Len()
	}

	s.sendJSONResponse(w, status)
}
