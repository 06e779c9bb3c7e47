package render

import (
	"fmt"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	cmc "github.com/status-im/market-dashboard/coingecko_market_chart"
	"github.com/status-im/market-dashboard/formatter"
)

const (
	PriceChartWidth  = 600
	PriceChartHeight = 300
)

var PriceChartColor = drawing.ColorFromHex("3366FF")

type ChartOptions struct {
	Width  int
	Height int
}

// PriceChart writes an area chart of points to w as PNG. The x axis shows
// clock time for the 1h and 24h frames and dates for 7d; the y axis uses
// currency formatting.
func PriceChart(w io.Writer, points []cmc.PricePoint, tf cmc.TimeFrame, opts ChartOptions) error {
	if len(points) == 0 {
		return ErrEmptySeries
	}
	if opts.Width <= 0 {
		opts.Width = PriceChartWidth
	}
	if opts.Height <= 0 {
		opts.Height = PriceChartHeight
	}

	xs := make([]float64, 0, len(points))
	ys := make([]float64, 0, len(points))
	lo, hi := points[0].Price, points[0].Price
	for _, p := range points {
		xs = append(xs, float64(p.Timestamp.Unix()))
		ys = append(ys, p.Price)
		lo = min(lo, p.Price)
		hi = max(hi, p.Price)
	}
	if len(points) == 1 {
		xs = append(xs, xs[0]+60)
		ys = append(ys, ys[0])
	}
	if hi == lo {
		lo, hi = lo-1, hi+1
	}

	graph := chart.Chart{
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 10, Left: 10, Right: 10, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Range:          &chart.ContinuousRange{Min: xs[0], Max: xs[len(xs)-1]},
			ValueFormatter: timeTickFormatter(tf),
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return formatter.FormatCurrency(f, false)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "price",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: PriceChartColor,
					StrokeWidth: 2,
					FillColor:   PriceChartColor.WithAlpha(0x4D),
				},
			},
		},
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render price chart: %w", err)
	}
	return nil
}

func timeTickFormatter(tf cmc.TimeFrame) chart.ValueFormatter {
	return func(v interface{}) string {
		f, ok := v.(float64)
		if !ok {
			return ""
		}
		t := time.Unix(int64(f), 0).UTC()
		if tf == cmc.TimeFrameWeek {
			return t.Format("Jan 2")
		}
		return formatter.FormatTime(t)
	}
}
