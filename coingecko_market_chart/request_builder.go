package coingecko_market_chart

import (
	"fmt"
	"net/url"

	cg "github.com/status-im/market-dashboard/coingecko_common"
)

const (
	MARKET_CHART_API_PATH_TEMPLATE = "/api/v3/coins/%s/market_chart"
)

type MarketChartRequestBuilder struct {
	*cg.CoingeckoRequestBuilder
	coinID string
}

func NewMarketChartRequestBuilder(baseURL, coinID string) *MarketChartRequestBuilder {
	apiPath := fmt.Sprintf(MARKET_CHART_API_PATH_TEMPLATE, url.PathEscape(coinID))

	rb := &MarketChartRequestBuilder{
		CoingeckoRequestBuilder: cg.NewCoingeckoRequestBuilder(baseURL, apiPath),
		coinID:                  coinID,
	}

	rb.WithCurrency("usd")
	rb.WithDays(1)

	return rb
}

func (rb *MarketChartRequestBuilder) WithDays(days int) *MarketChartRequestBuilder {
	rb.WithPositive("days", days)
	return rb
}
