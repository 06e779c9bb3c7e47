package coingecko_market_chart

import "time"

// Downsample applies the per-frame point policy to a time-ascending series:
//   - 1h keeps the points of the last 60 minutes before now
//   - 24h keeps every Nth point, N = len/24; shorter series are kept whole
//   - 7d keeps everything
func Downsample(points []PricePoint, tf TimeFrame, now time.Time) []PricePoint {
	out := make([]PricePoint, 0, len(points))

	switch tf {
	case TimeFrameHour:
		cutoff := now.Add(-hourWindow)
		for _, p := range points {
			if !p.Timestamp.Before(cutoff) {
				out = append(out, p)
			}
		}
	case TimeFrameDay:
		step := len(points) / dayBuckets
		if step < 1 {
			step = 1
		}
		for i, p := range points {
			if i%step == 0 {
				out = append(out, p)
			}
		}
	default:
		out = append(out, points...)
	}

	return out
}
