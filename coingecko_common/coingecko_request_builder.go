package coingecko_common

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	// Base URL for public API
	COINGECKO_PUBLIC_URL = "https://api.coingecko.com"
	// Base URL for Pro API
	COINGECKO_PRO_URL = "https://pro-api.coingecko.com"

	userAgent = "market-dashboard/1.0"
)

// Query parameters carrying the API key. RateLimiterManager reads them back
// from the request URL to pick a limiter.
const (
	ProKeyParam  = "x_cg_pro_api_key"
	DemoKeyParam = "x_cg_demo_api_key"
)

// CoingeckoRequestBuilder assembles GET requests against a single CoinGecko
// endpoint. Empty and zero values never reach the query string.
type CoingeckoRequestBuilder struct {
	endpoint string
	query    url.Values
	key      APIKey
}

// NewCoingeckoRequestBuilder creates a builder for apiPath under baseURL
func NewCoingeckoRequestBuilder(baseURL, apiPath string) *CoingeckoRequestBuilder {
	return &CoingeckoRequestBuilder{
		endpoint: strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(apiPath, "/"),
		query:    url.Values{},
	}
}

// With sets a query parameter. An empty value removes it.
func (rb *CoingeckoRequestBuilder) With(key, value string) *CoingeckoRequestBuilder {
	if value == "" {
		rb.query.Del(key)
		return rb
	}
	rb.query.Set(key, value)
	return rb
}

// WithCurrency sets vs_currency, lower-cased
func (rb *CoingeckoRequestBuilder) WithCurrency(currency string) *CoingeckoRequestBuilder {
	if currency == "" {
		return rb
	}
	return rb.With("vs_currency", strings.ToLower(currency))
}

// WithPositive sets an integer parameter when value is positive
func (rb *CoingeckoRequestBuilder) WithPositive(key string, value int) *CoingeckoRequestBuilder {
	if value <= 0 {
		return rb
	}
	return rb.With(key, strconv.Itoa(value))
}

// WithFlag sets key=true when enabled and drops it otherwise
func (rb *CoingeckoRequestBuilder) WithFlag(key string, enabled bool) *CoingeckoRequestBuilder {
	if !enabled {
		return rb.With(key, "")
	}
	return rb.With(key, "true")
}

// WithList joins values with commas, skipping blanks
func (rb *CoingeckoRequestBuilder) WithList(key string, values []string) *CoingeckoRequestBuilder {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			kept = append(kept, v)
		}
	}
	return rb.With(key, strings.Join(kept, ","))
}

// WithApiKey authenticates the request. NoKey and empty keys send nothing.
func (rb *CoingeckoRequestBuilder) WithApiKey(key APIKey) *CoingeckoRequestBuilder {
	rb.key = key
	return rb
}

// BuildURL renders the endpoint with its query, key included
func (rb *CoingeckoRequestBuilder) BuildURL() string {
	query := url.Values{}
	for k, v := range rb.query {
		query[k] = v
	}
	if rb.key.Key != "" {
		switch rb.key.Type {
		case ProKey:
			query.Set(ProKeyParam, rb.key.Key)
		case DemoKey:
			query.Set(DemoKeyParam, rb.key.Key)
		}
	}

	if encoded := query.Encode(); encoded != "" {
		return rb.endpoint + "?" + encoded
	}
	return rb.endpoint
}

// Build creates a GET request bound to ctx
func (rb *CoingeckoRequestBuilder) Build(ctx context.Context) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rb.BuildURL(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	return req, nil
}
