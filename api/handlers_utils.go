package api

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/status-im/market-dashboard/market"
)

// maxBodyBytes bounds request bodies of the PUT endpoints
const maxBodyBytes = 1 << 16

type errorResponse struct {
	Error string `json:"error"`
}

// sendJSONResponse is a common wrapper for JSON responses that sets Content-Type,
// Content-Length and ETag headers
func (s *Server) sendJSONResponse(w http.ResponseWriter, data interface{}) {
	s.sendJSONStatus(w, http.StatusOK, data)
}

func (s *Server) sendJSONStatus(w http.ResponseWriter, status int, data interface{}) {
	// Marshal the data to calculate content length and ETag
	responseBytes, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "Error encoding response", http.StatusInternalServerError)
		return
	}

	// Calculate ETag (MD5 hash of the response)
	hash := md5.Sum(responseBytes)
	etag := hex.EncodeToString(hash[:])

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(responseBytes)))
	w.Header().Set("ETag", "\""+etag+"\"")
	w.WriteHeader(status)

	if _, err := w.Write(responseBytes); err != nil {
		log.Warnf("Error writing response: %v", err)
	}
}

func (s *Server) sendError(w http.ResponseWriter, status int, message string) {
	s.sendJSONStatus(w, status, errorResponse{Error: message})
}

func (s *Server) sendPNG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := w.Write(data); err != nil {
		log.Warnf("Error writing image: %v", err)
	}
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server
func (s *Server) Stop() {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			log.Errorf("Error shutting down server: %v", err)
		}
	}
}

func getParamLowercase(r *http.Request, key string) string {
	if r == nil {
		return ""
	}
	value := r.URL.Query().Get(key)
	if value != "" {
		return strings.ToLower(value)
	}
	return ""
}

func getParamFloat(r *http.Request, key string, fallback float64) (float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return v, nil
}

// parseFilters reads market_cap, token_type, performance, min_price and
// max_price on top of the defaults
func parseFilters(r *http.Request) (market.FilterOptions, error) {
	f := market.DefaultFilterOptions()

	if v := getParamLowercase(r, "market_cap"); v != "" {
		tier, err := market.ParseMarketCapTier(v)
		if err != nil {
			return f, err
		}
		f.MarketCap = tier
	}
	if v := getParamLowercase(r, "performance"); v != "" {
		perf, err := market.ParsePerformance(v)
		if err != nil {
			return f, err
		}
		f.Performance = perf
	}
	if v := getParamLowercase(r, "token_type"); v != "" {
		f.TokenType = market.TokenType(v)
	}

	var err error
	if f.PriceRange.Min, err = getParamFloat(r, "min_price", f.PriceRange.Min); err != nil {
		return f, err
	}
	if f.PriceRange.Max, err = getParamFloat(r, "max_price", f.PriceRange.Max); err != nil {
		return f, err
	}
	return f, f.Validate()
}

// parseSort reads sort and direction. Sort keys are case sensitive.
func parseSort(r *http.Request) (market.SortSpec, error) {
	spec := market.DefaultSortSpec()

	if v := r.URL.Query().Get("sort"); v != "" {
		key, err := market.ParseSortKey(v)
		if err != nil {
			return spec, err
		}
		spec.Key = key
	}
	if v := getParamLowercase(r, "direction"); v != "" {
		dir, err := market.ParseDirection(v)
		if err != nil {
			return spec, err
		}
		spec.Direction = dir
	}
	return spec, nil
}
