package coingecko_market_chart

import (
	"errors"
	"slices"
	"time"
)

// ErrEmptyChart means the fetch succeeded but no point survived downsampling
var ErrEmptyChart = errors.New("no chart data available")

// PricePoint is one sample of the chart series
type PricePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
}

// MarketChartData is a [timestamp_ms, value] pair as sent by CoinGecko
type MarketChartData [2]float64

// MarketChartResponse is the subset of the market_chart payload we use
type MarketChartResponse struct {
	Prices []MarketChartData `json:"prices"`
}

// PricePoints converts the raw pairs into time-ascending points
func (r MarketChartResponse) PricePoints() []PricePoint {
	points := make([]PricePoint, 0, len(r.Prices))
	for _, p := range r.Prices {
		points = append(points, PricePoint{
			Timestamp: time.UnixMilli(int64(p[0])).UTC(),
			Price:     p[1],
		})
	}
	slices.SortStableFunc(points, func(a, b PricePoint) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return points
}

// ChartKey identifies a chart request. Two requests for the same key are
// interchangeable.
type ChartKey struct {
	CoinID    string    `json:"coin_id"`
	TimeFrame TimeFrame `json:"timeframe"`
}

// Chart is a downsampled price series ready for rendering
type Chart struct {
	Key       ChartKey     `json:"key"`
	Points    []PricePoint `json:"points"`
	FetchedAt time.Time    `json:"fetched_at"`
}
