package coingecko_markets

import (
	cg "github.com/status-im/market-dashboard/coingecko_common"
)

const (
	// Complete path for markets API endpoint
	MARKETS_API_PATH = "/api/v3/coins/markets"

	DefaultOrder = "market_cap_desc"
)

// MarketsRequestBuilder implements the Builder pattern for CoinGecko markets API requests
type MarketsRequestBuilder struct {
	*cg.CoingeckoRequestBuilder
}

// NewMarketRequestBuilder creates a new request builder for markets endpoint
func NewMarketRequestBuilder(baseURL string) *MarketsRequestBuilder {
	rb := &MarketsRequestBuilder{
		CoingeckoRequestBuilder: cg.NewCoingeckoRequestBuilder(baseURL, MARKETS_API_PATH),
	}

	rb.WithCurrency("usd")
	rb.WithOrder(DefaultOrder)

	return rb
}

// WithParams applies every non-empty listing parameter
func (rb *MarketsRequestBuilder) WithParams(p MarketsParams) *MarketsRequestBuilder {
	rb.WithCurrency(p.Currency)
	rb.WithOrder(p.Order)
	rb.WithPositive("per_page", p.PerPage)
	rb.WithPositive("page", p.Page)
	rb.WithSparkline(p.Sparkline)
	rb.WithPriceChangePercentage(p.PriceChangePercentage)
	return rb
}

// WithOrder adds ordering parameter
func (rb *MarketsRequestBuilder) WithOrder(order string) *MarketsRequestBuilder {
	if order != "" {
		rb.With("order", order)
	}
	return rb
}

// WithSparkline requests the 7 day sparkline
func (rb *MarketsRequestBuilder) WithSparkline(enabled bool) *MarketsRequestBuilder {
	rb.WithFlag("sparkline", enabled)
	return rb
}

// WithPriceChangePercentage asks for extra change windows such as 1h or 7d
func (rb *MarketsRequestBuilder) WithPriceChangePercentage(windows []string) *MarketsRequestBuilder {
	rb.WithList("price_change_percentage", windows)
	return rb
}
