package coingecko_markets

import (
	"slices"
	"strings"
	"time"

	"github.com/status-im/market-dashboard/config"
	"github.com/status-im/market-dashboard/market"
)

// RawCoin is one element of the /coins/markets response. Numeric fields
// are pointers because CoinGecko sends null for unknown values.
type RawCoin struct {
	ID                       string        `json:"id"`
	Symbol                   string        `json:"symbol"`
	Name                     string        `json:"name"`
	Image                    string        `json:"image"`
	CurrentPrice             *float64      `json:"current_price"`
	MarketCap                *float64      `json:"market_cap"`
	MarketCapRank            *int          `json:"market_cap_rank"`
	TotalVolume              *float64      `json:"total_volume"`
	PriceChangePercentage24h *float64      `json:"price_change_percentage_24h"`
	CirculatingSupply        *float64      `json:"circulating_supply"`
	MaxSupply                *float64      `json:"max_supply"`
	LastUpdated              string        `json:"last_updated"`
	SparklineIn7d            *RawSparkline `json:"sparkline_in_7d"`
}

type RawSparkline struct {
	Price []float64 `json:"price"`
}

// ToCoin maps the payload into the domain shape. The symbol is uppercased
// and null numbers stay nil.
func (r RawCoin) ToCoin() market.Coin {
	c := market.Coin{
		ID:                       r.ID,
		Rank:                     copyInt(r.MarketCapRank),
		Name:                     r.Name,
		Symbol:                   strings.ToUpper(r.Symbol),
		Logo:                     r.Image,
		CurrentPrice:             copyFloat(r.CurrentPrice),
		PriceChangePercentage24h: copyFloat(r.PriceChangePercentage24h),
		MarketCap:                copyFloat(r.MarketCap),
		Volume24h:                copyFloat(r.TotalVolume),
		CirculatingSupply:        copyFloat(r.CirculatingSupply),
		MaxSupply:                copyFloat(r.MaxSupply),
		Sparkline:                []float64{},
	}

	if r.SparklineIn7d != nil && len(r.SparklineIn7d.Price) > 0 {
		c.Sparkline = slices.Clone(r.SparklineIn7d.Price)
	}

	if r.LastUpdated != "" {
		if ts, err := time.Parse(time.RFC3339, r.LastUpdated); err == nil {
			c.LastUpdated = ts.UTC()
		}
	}

	return c
}

// ToCoins maps a listing, dropping entries without an id and repeated ids.
func ToCoins(raw []RawCoin) []market.Coin {
	coins := make([]market.Coin, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		if r.ID == "" {
			continue
		}
		if _, dup := seen[r.ID]; dup {
			log.Warnf("CoinGecko: duplicate coin %q in listing, keeping the first", r.ID)
			continue
		}
		seen[r.ID] = struct{}{}
		coins = append(coins, r.ToCoin())
	}
	return coins
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// MarketsParams are the query parameters of one listing request.
type MarketsParams struct {
	Currency              string
	Order                 string
	PerPage               int
	Page                  int
	Sparkline             bool
	PriceChangePercentage []string
}

// ParamsFromConfig builds the listing request: top coins by market cap,
// first page, with sparkline and 24h change.
func ParamsFromConfig(cfg *config.CoingeckoMarketsFetcher) MarketsParams {
	return MarketsParams{
		Currency:              cfg.Currency,
		Order:                 DefaultOrder,
		PerPage:               cfg.Limit,
		Page:                  1,
		Sparkline:             cfg.Sparkline,
		PriceChangePercentage: cfg.PriceChangePercentage,
	}
}

// Snapshot is the result of the latest successful poll.
type Snapshot struct {
	Coins []market.Coin `json:"coins"`
	// Previous is the listing this one replaced, kept for delta detection.
	Previous  []market.Coin `json:"-"`
	FetchedAt time.Time     `json:"fetched_at"`
}
