// Package market holds the coin domain model and the derived view engine:
// filtering, sorting and per-tick price delta detection over a listing snapshot.
package market

import "time"

// Coin is one asset snapshot from the listing. Numeric fields are nil when
// the source does not report them; a nil MaxSupply means uncapped.
type Coin struct {
	ID                       string    `json:"id"`
	Rank                     *int      `json:"rank"`
	Name                     string    `json:"name"`
	Symbol                   string    `json:"symbol"`
	Logo                     string    `json:"logo"`
	CurrentPrice             *float64  `json:"current_price"`
	PriceChangePercentage24h *float64  `json:"price_change_percentage_24h"`
	MarketCap                *float64  `json:"market_cap"`
	Volume24h                *float64  `json:"volume_24h"`
	CirculatingSupply        *float64  `json:"circulating_supply"`
	MaxSupply                *float64  `json:"max_supply"`
	Sparkline                []float64 `json:"sparkline"`
	LastUpdated              time.Time `json:"last_updated"`
}

func Float(v float64) *float64 {
	return &v
}

func Int(v int) *int {
	return &v
}

// Value reads an optional number. Filters and comparators treat an unknown
// value as 0.
func Value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func IntValue(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// FindCoin returns the coin with the given id.
func FindCoin(coins []Coin, id string) (Coin, bool) {
	for _, c := range coins {
		if c.ID == id {
			return c, true
		}
	}
	return Coin{}, false
}

// WatchedCoins returns the coins whose id is in ids, in listing order.
// Watched ids missing from the listing are skipped.
func WatchedCoins(coins []Coin, ids []string) []Coin {
	if len(ids) == 0 {
		return []Coin{}
	}

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	out := make([]Coin, 0, len(ids))
	for _, c := range coins {
		if _, ok := set[c.ID]; ok {
			out = append(out, c)
		}
	}
	return out
}
