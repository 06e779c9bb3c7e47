package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchesQuery(t *testing.T) {
	btc := Coin{Name: "Bitcoin", Symbol: "BTC"}

	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"bit", true},
		{"COIN", true},
		{"btc", true},
		{"Tc", true},
		{"eth", false},
		{" bit", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesQuery(btc, tt.query))
		})
	}
}

func TestMarketCapTier_Matches(t *testing.T) {
	tests := []struct {
		tier MarketCapTier
		cap  float64
		want bool
	}{
		{MarketCapAll, 0, true},
		{MarketCapLarge, 1e10, true},
		{MarketCapLarge, 1e10 - 1, false},
		{MarketCapMedium, 1e9, true},
		{MarketCapMedium, 1e10, false},
		{MarketCapMedium, 1e9 - 1, false},
		{MarketCapSmall, 1e9 - 1, true},
		{MarketCapSmall, 1e9, false},
	}

	for _, tt := range tests {
		assert.Equalf(t, tt.want, tt.tier.Matches(tt.cap), "%s %v", tt.tier, tt.cap)
	}
}

func TestFilter_LargeCapIsExact(t *testing.T) {
	f := DefaultFilterOptions()
	f.MarketCap = MarketCapLarge
	f.PriceRange.Max = 1e12

	got := Filter(testCoins(), "", f)

	for _, c := range got {
		assert.GreaterOrEqual(t, *c.MarketCap, LargeCapThreshold)
	}
	for _, c := range testCoins() {
		if *c.MarketCap >= LargeCapThreshold {
			assert.Contains(t, ids(got), c.ID)
		}
	}
}

func TestFilter_Performance(t *testing.T) {
	f := DefaultFilterOptions()

	f.Performance = PerformanceGainers
	assert.Equal(t, []string{"bitcoin", "pepe"}, ids(Filter(testCoins(), "", f)))

	f.Performance = PerformanceLosers
	assert.Equal(t, []string{"ethereum", "tiny"}, ids(Filter(testCoins(), "", f)))
}

func TestFilter_PriceRangeIsInclusive(t *testing.T) {
	f := DefaultFilterOptions()
	f.PriceRange = PriceRange{Min: 18, Max: 3500}

	assert.Equal(t, []string{"ethereum", "chainlink"}, ids(Filter(testCoins(), "", f)))
}

func TestFilter_DefaultRangeExcludesPricesAboveOneMillion(t *testing.T) {
	got := Filter(testCoins(), "", DefaultFilterOptions())
	assert.NotContains(t, ids(got), "ancient")
	assert.Len(t, got, 5)
}

func TestFilter_UnknownNumbersMatchAsZero(t *testing.T) {
	unknown := []Coin{{ID: "unknown", Name: "Unknown", Symbol: "UNK"}}

	f := DefaultFilterOptions()
	assert.Equal(t, []string{"unknown"}, ids(Filter(unknown, "", f)))

	f.MarketCap = MarketCapSmall
	assert.Equal(t, []string{"unknown"}, ids(Filter(unknown, "", f)))

	f = DefaultFilterOptions()
	f.Performance = PerformanceGainers
	assert.Empty(t, Filter(unknown, "", f))

	f = DefaultFilterOptions()
	f.PriceRange = PriceRange{Min: 1, Max: 10}
	assert.Empty(t, Filter(unknown, "", f))
}

func TestFilter_EmptyResultIsNotNil(t *testing.T) {
	got := Filter(testCoins(), "no such coin", DefaultFilterOptions())
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseFilters(t *testing.T) {
	tier, err := ParseMarketCapTier("Large")
	require.NoError(t, err)
	assert.Equal(t, MarketCapLarge, tier)

	_, err = ParseMarketCapTier("huge")
	assert.ErrorIs(t, err, ErrUnknownFilter)

	perf, err := ParsePerformance("losers")
	require.NoError(t, err)
	assert.Equal(t, PerformanceLosers, perf)

	_, err = ParsePerformance("flat")
	assert.ErrorIs(t, err, ErrUnknownFilter)
}

func TestFilterOptions_Validate(t *testing.T) {
	assert.NoError(t, DefaultFilterOptions().Validate())

	f := DefaultFilterOptions()
	f.MarketCap = "LARGE"
	assert.ErrorIs(t, f.Validate(), ErrUnknownFilter)

	f = DefaultFilterOptions()
	f.Performance = ""
	assert.ErrorIs(t, f.Validate(), ErrUnknownFilter)

	f = DefaultFilterOptions()
	f.PriceRange = PriceRange{Min: 10, Max: 5}
	assert.ErrorIs(t, f.Validate(), ErrUnknownFilter)
}
