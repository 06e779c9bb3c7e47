// Package render draws sparklines and price charts as PNG images.
package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	SparklineWidth  = 100
	SparklineHeight = 40

	// the line spans the middle 80% of the height
	sparklineFill   = 0.8
	sparklineMargin = 0.1
)

var (
	PositiveColor = drawing.ColorFromHex("4ADE80")
	NegativeColor = drawing.ColorFromHex("F43F5E")

	ErrEmptySeries = errors.New("empty series")
)

type SparklineOptions struct {
	Width  int
	Height int
}

func (o SparklineOptions) withDefaults() SparklineOptions {
	if o.Width <= 0 {
		o.Width = SparklineWidth
	}
	if o.Height <= 0 {
		o.Height = SparklineHeight
	}
	return o
}

// SparklineColor is green for a non-negative change and red otherwise.
func SparklineColor(change float64) drawing.Color {
	if change >= 0 {
		return PositiveColor
	}
	return NegativeColor
}

// SparklineRange returns the y axis bounds that place min at 10% and max
// at 90% of the height. A flat series gets a unit range.
func SparklineRange(series []float64) (lo, hi float64) {
	lo, hi = series[0], series[0]
	for _, v := range series[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	margin := span / sparklineFill * sparklineMargin
	return lo - margin, hi + margin
}

// Sparkline writes a line and filled area of series to w as PNG.
func Sparkline(w io.Writer, series []float64, change float64, opts SparklineOptions) error {
	if len(series) == 0 {
		return ErrEmptySeries
	}
	opts = opts.withDefaults()

	xs := make([]float64, len(series))
	for i := range xs {
		xs[i] = float64(i)
	}
	ys := series
	if len(series) == 1 {
		xs = []float64{0, 1}
		ys = []float64{series[0], series[0]}
	}

	lo, hi := SparklineRange(ys)
	color := SparklineColor(change)

	graph := chart.Chart{
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 1, Left: 1, Right: 1, Bottom: 1},
		},
		XAxis: chart.XAxis{
			Style: chart.Style{Hidden: true},
			Range: &chart.ContinuousRange{Min: xs[0], Max: xs[len(xs)-1]},
		},
		YAxis: chart.YAxis{
			Style: chart.Style{Hidden: true},
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: color,
					StrokeWidth: 1.5,
					FillColor:   color.WithAlpha(0x33),
				},
			},
		},
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render sparkline: %w", err)
	}
	return nil
}
