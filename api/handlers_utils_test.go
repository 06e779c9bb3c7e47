package api

import (
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/status-im/market-dashboard/market"
)

func requestWithQuery(query string) *http.Request {
	return &http.Request{URL: &url.URL{RawQuery: query}}
}

func TestGetParamLowercase(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		key      string
		expected string
	}{
		{"converts uppercase parameter to lowercase", "timeframe=24H", "timeframe", "24h"},
		{"returns empty string for missing parameter", "", "missing", ""},
		{"returns empty string for empty parameter value", "empty=", "empty", ""},
		{"handles already lowercase parameter", "performance=gainers", "performance", "gainers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, getParamLowercase(requestWithQuery(tt.query), tt.key))
		})
	}

	assert.Empty(t, getParamLowercase(nil, "any"))
}

func TestParseFilters(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    market.FilterOptions
		wantErr bool
	}{
		{
			name:  "defaults",
			query: "",
			want:  market.DefaultFilterOptions(),
		},
		{
			name:  "all params",
			query: "market_cap=Large&performance=losers&token_type=defi&min_price=1.5&max_price=100",
			want: market.FilterOptions{
				MarketCap:   market.MarketCapLarge,
				TokenType:   "defi",
				Performance: market.PerformanceLosers,
				PriceRange:  market.PriceRange{Min: 1.5, Max: 100},
			},
		},
		{name: "unknown tier", query: "market_cap=huge", wantErr: true},
		{name: "unknown performance", query: "performance=flat", wantErr: true},
		{name: "bad number", query: "min_price=cheap", wantErr: true},
		{name: "inverted range", query: "min_price=10&max_price=1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFilters(requestWithQuery(tt.query))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSort(t *testing.T) {
	spec, err := parseSort(requestWithQuery(""))
	require.NoError(t, err)
	assert.Equal(t, market.DefaultSortSpec(), spec)

	spec, err = parseSort(requestWithQuery("sort=marketCap&direction=DESC"))
	require.NoError(t, err)
	assert.Equal(t, market.SortSpec{Key: market.SortByMarketCap, Direction: market.Desc}, spec)

	_, err = parseSort(requestWithQuery("sort=color"))
	assert.ErrorIs(t, err, market.ErrUnknownSortKey)

	_, err = parseSort(requestWithQuery("direction=up"))
	assert.ErrorIs(t, err, market.ErrUnknownDirection)
}

func TestSendJSONResponse(t *testing.T) {
	tests := []struct {
		name         string
		data         interface{}
		expectedJSON string
	}{
		{"simple object", map[string]string{"message": "hello"}, `{"message":"hello"}`},
		{"simple array", []string{"a", "b", "c"}, `["a","b","c"]`},
		{"empty object", map[string]interface{}{}, `{}`},
	}

	s := &Server{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.sendJSONResponse(rec, tt.data)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.expectedJSON, rec.Body.String())

			hash := md5.Sum(rec.Body.Bytes())
			assert.Equal(t, `"`+hex.EncodeToString(hash[:])+`"`, rec.Header().Get("ETag"))
		})
	}

	t.Run("unencodable", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.sendJSONResponse(rec, map[string]interface{}{"ch": make(chan int)})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
