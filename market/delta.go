package market

// Delta is the direction of a coin's price move between two poll ticks.
type Delta string

const (
	DeltaNone Delta = "none"
	DeltaUp   Delta = "up"
	DeltaDown Delta = "down"
)

// DetectDeltas compares the current price of every coin present in both
// snapshots. Unchanged and newly listed coins get no entry, nor does a coin
// whose price is unknown on either tick.
func DetectDeltas(prev, next []Coin) map[string]Delta {
	deltas := make(map[string]Delta)
	if len(prev) == 0 {
		return deltas
	}

	prevPrices := make(map[string]*float64, len(prev))
	for _, c := range prev {
		prevPrices[c.ID] = c.CurrentPrice
	}

	for _, c := range next {
		old, ok := prevPrices[c.ID]
		if !ok || old == nil || c.CurrentPrice == nil {
			continue
		}
		switch {
		case *c.CurrentPrice > *old:
			deltas[c.ID] = DeltaUp
		case *c.CurrentPrice < *old:
			deltas[c.ID] = DeltaDown
		}
	}
	return deltas
}
