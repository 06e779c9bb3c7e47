package interfaces

import (
	"context"

	cmc "github.com/status-im/market-dashboard/coingecko_market_chart"
)

// IMarketChartService defines the interface for price chart loading
type IMarketChartService interface {
	// Chart returns the downsampled series for a coin and time frame. An
	// upstream series without points yields cmc.ErrEmptyChart.
	Chart(ctx context.Context, key cmc.ChartKey) (cmc.Chart, error)

	Healthy() bool
}
