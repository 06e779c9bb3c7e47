package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/status-im/market-dashboard/dashboard"
	"github.com/status-im/market-dashboard/interfaces"
)

var log = logrus.WithField("component", "api")

type Server struct {
	port               string
	marketsService     interfaces.IMarketsService
	marketChartService interfaces.IMarketChartService
	session            *dashboard.Session
	hub                *Hub
	server             *http.Server
}

func New(port string, marketsService interfaces.IMarketsService, marketChartService interfaces.IMarketChartService, session *dashboard.Session, hub *Hub) *Server {
	return &Server{
		port:               port,
		marketsService:     marketsService,
		marketChartService: marketChartService,
		session:            session,
		hub:                hub,
	}
}

// Router builds the HTTP routes
func (s *Server) Router() http.Handler {
	router := mux.NewRouter()

	v1 := router.PathPrefix("/api/v1").Subrouter()

	// Listing
	v1.HandleFunc("/coins", s.handleCoins).Methods(http.MethodGet)
	v1.HandleFunc("/coins/{id}", s.handleCoin).Methods(http.MethodGet)
	v1.HandleFunc("/coins/{id}/sparkline.png", s.handleSparkline).Methods(http.MethodGet)
	v1.HandleFunc("/coins/{id}/chart", s.handleChart).Methods(http.MethodGet)
	v1.HandleFunc("/coins/{id}/chart.png", s.handleChartPNG).Methods(http.MethodGet)

	// Session view
	v1.HandleFunc("/view", s.handleView).Methods(http.MethodGet)
	v1.HandleFunc("/view/query", s.handleSetQuery).Methods(http.MethodPut)
	v1.HandleFunc("/view/filters", s.handleSetFilters).Methods(http.MethodPut)
	v1.HandleFunc("/view/sort/{key}", s.handleToggleSort).Methods(http.MethodPost)

	v1.HandleFunc("/watchlist", s.handleWatchlist).Methods(http.MethodGet)
	v1.HandleFunc("/watchlist/{id}/toggle", s.handleToggleWatchlist).Methods(http.MethodPost)

	v1.HandleFunc("/detail", s.handleDetail).Methods(http.MethodGet)
	v1.HandleFunc("/detail", s.handleSelectDetail).Methods(http.MethodPut)

	v1.HandleFunc("/notifications", s.handleNotifications).Methods(http.MethodGet)

	if s.hub != nil {
		router.HandleFunc("/ws", s.hub.ServeWS)
	}
	router.HandleFunc("/health", s.handleHealth)
	router.Handle("/metrics", promhttp.Handler())

	return router
}

func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Infof("Server starting at http://localhost:%s", s.port)
	log.Info("Prometheus metrics available at /metrics endpoint")

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("Server error: %v", err)
		}
	}()

	return nil
}
