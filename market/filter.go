package market

import (
	"errors"
	"fmt"
	"strings"
)

// Market cap tier thresholds in USD
const (
	LargeCapThreshold  = 1e10
	MediumCapThreshold = 1e9
)

// MarketCapTier selects coins by market capitalization.
type MarketCapTier string

const (
	MarketCapAll    MarketCapTier = "all"
	MarketCapLarge  MarketCapTier = "large"
	MarketCapMedium MarketCapTier = "medium"
	MarketCapSmall  MarketCapTier = "small"
)

// Performance selects coins by the sign of their 24h change.
type Performance string

const (
	PerformanceAll     Performance = "all"
	PerformanceGainers Performance = "gainers"
	PerformanceLosers  Performance = "losers"
)

// TokenType is carried in filter state but does not filter anything yet.
type TokenType string

const TokenTypeAll TokenType = "all"

// PriceRange bounds are inclusive.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether min <= price <= max.
func (r PriceRange) Contains(price float64) bool {
	return r.Min <= price && price <= r.Max
}

// FilterOptions is replaced as a whole; there are no partial updates.
type FilterOptions struct {
	MarketCap   MarketCapTier `json:"market_cap"`
	TokenType   TokenType     `json:"token_type"`
	Performance Performance   `json:"performance"`
	PriceRange  PriceRange    `json:"price_range"`
}

// DefaultFilterOptions matches everything priced up to one million USD.
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{
		MarketCap:   MarketCapAll,
		TokenType:   TokenTypeAll,
		Performance: PerformanceAll,
		PriceRange:  PriceRange{Min: 0, Max: 1_000_000},
	}
}

var ErrUnknownFilter = errors.New("unknown filter value")

// Validate rejects unknown tiers or performance values and inverted ranges.
func (f FilterOptions) Validate() error {
	if t, err := ParseMarketCapTier(string(f.MarketCap)); err != nil || t != f.MarketCap {
		return fmt.Errorf("%w: market cap %q", ErrUnknownFilter, f.MarketCap)
	}
	if p, err := ParsePerformance(string(f.Performance)); err != nil || p != f.Performance {
		return fmt.Errorf("%w: performance %q", ErrUnknownFilter, f.Performance)
	}
	if f.PriceRange.Max < f.PriceRange.Min {
		return fmt.Errorf("%w: price range max %v below min %v", ErrUnknownFilter, f.PriceRange.Max, f.PriceRange.Min)
	}
	return nil
}

func ParseMarketCapTier(s string) (MarketCapTier, error) {
	switch t := MarketCapTier(strings.ToLower(s)); t {
	case MarketCapAll, MarketCapLarge, MarketCapMedium, MarketCapSmall:
		return t, nil
	}
	return "", fmt.Errorf("%w: market cap %q", ErrUnknownFilter, s)
}

func ParsePerformance(s string) (Performance, error) {
	switch p := Performance(strings.ToLower(s)); p {
	case PerformanceAll, PerformanceGainers, PerformanceLosers:
		return p, nil
	}
	return "", fmt.Errorf("%w: performance %q", ErrUnknownFilter, s)
}

// MatchesQuery reports whether query is a case-insensitive substring of
// the coin name or symbol. The empty query matches every coin.
func MatchesQuery(c Coin, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(c.Name), q) ||
		strings.Contains(strings.ToLower(c.Symbol), q)
}

// Matches reports whether the coin falls in the tier. Unknown tiers match everything.
func (t MarketCapTier) Matches(marketCap float64) bool {
	switch t {
	case MarketCapLarge:
		return marketCap >= LargeCapThreshold
	case MarketCapMedium:
		return marketCap >= MediumCapThreshold && marketCap < LargeCapThreshold
	case MarketCapSmall:
		return marketCap < MediumCapThreshold
	default:
		return true
	}
}

// Matches reports whether a 24h change satisfies the performance filter.
func (p Performance) Matches(change float64) bool {
	switch p {
	case PerformanceGainers:
		return change > 0
	case PerformanceLosers:
		return change < 0
	default:
		return true
	}
}

// MatchesFilters applies the market cap, performance and price range
// predicates. An unknown number is tested as 0.
func MatchesFilters(c Coin, f FilterOptions) bool {
	return f.MarketCap.Matches(Value(c.MarketCap)) &&
		f.Performance.Matches(Value(c.PriceChangePercentage24h)) &&
		f.PriceRange.Contains(Value(c.CurrentPrice))
}

// Filter returns the coins matching both query and filters, in input order.
func Filter(coins []Coin, query string, f FilterOptions) []Coin {
	out := make([]Coin, 0, len(coins))
	for _, c := range coins {
		if MatchesQuery(c, query) && MatchesFilters(c, f) {
			out = append(out, c)
		}
	}
	return out
}
