package dashboard

import (
	"github.com/status-im/market-dashboard/formatter"
	"github.com/status-im/market-dashboard/market"
	"github.com/status-im/market-dashboard/transition"
)

// Display holds the preformatted strings of one row.
type Display struct {
	Price       string `json:"price"`
	Change      string `json:"change"`
	MarketCap   string `json:"market_cap"`
	Volume      string `json:"volume"`
	Supply      string `json:"supply"`
	MaxSupply   string `json:"max_supply"`
	LastUpdated string `json:"last_updated"`
}

// Row is one coin as the table shows it.
type Row struct {
	Coin        market.Coin      `json:"coin"`
	Display     Display          `json:"display"`
	Transition  transition.State `json:"transition"`
	Highlight   market.Delta     `json:"highlight"`
	Watchlisted bool             `json:"watchlisted"`
}

func newDisplay(c market.Coin) Display {
	d := Display{
		Price:     formatter.FormatCurrencyPtr(c.CurrentPrice, false),
		Change:    formatter.FormatPercentagePtr(c.PriceChangePercentage24h),
		MarketCap: formatter.FormatCurrencyPtr(c.MarketCap, true),
		Volume:    formatter.FormatCurrencyPtr(c.Volume24h, true),
		Supply:    formatter.FormatSupply(c.CirculatingSupply, c.Symbol),
		MaxSupply: formatter.FormatMaxSupply(c.MaxSupply, c.Symbol),
	}
	if !c.LastUpdated.IsZero() {
		d.LastUpdated = formatter.FormatDateTime(c.LastUpdated)
	}
	return d
}
