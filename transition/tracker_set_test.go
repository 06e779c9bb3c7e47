package transition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/status-im/market-dashboard/market"
)

func TestTrackerSet_Update(t *testing.T) {
	timers := NewFakeTimers()
	changed := map[string]State{}
	set := NewTrackerSet(Options{Duration: time.Second, Decimals: 2, Timers: timers}, func(id string, s State) {
		changed[id] = s
	})
	defer set.Close()

	set.Update([]market.Coin{{ID: "btc", CurrentPrice: market.Float(100)}, {ID: "eth", CurrentPrice: market.Float(10)}})
	assert.Equal(t, 2, set.Len())
	assert.Empty(t, changed, "first appearance has no trend")

	set.Update([]market.Coin{{ID: "btc", CurrentPrice: market.Float(101)}, {ID: "eth", CurrentPrice: market.Float(10)}})

	btc, ok := set.Get("btc")
	assert.True(t, ok)
	assert.Equal(t, TrendUp, btc.Trend)
	assert.Equal(t, "101.00", btc.DisplayValue)

	eth, _ := set.Get("eth")
	assert.Equal(t, TrendNone, eth.Trend)
	assert.Contains(t, changed, "btc")
	assert.NotContains(t, changed, "eth")
}

func TestTrackerSet_RemovesVanishedCoins(t *testing.T) {
	timers := NewFakeTimers()
	set := NewTrackerSet(Options{Duration: time.Second, Decimals: 2, Timers: timers}, nil)

	set.Update([]market.Coin{{ID: "btc", CurrentPrice: market.Float(100)}, {ID: "eth", CurrentPrice: market.Float(10)}})
	set.Update([]market.Coin{{ID: "btc", CurrentPrice: market.Float(100)}, {ID: "eth", CurrentPrice: market.Float(11)}})
	assert.Equal(t, 1, timers.Pending())

	set.Update([]market.Coin{{ID: "btc", CurrentPrice: market.Float(100)}})
	assert.Equal(t, 1, set.Len())
	assert.Equal(t, 0, timers.Pending())

	_, ok := set.Get("eth")
	assert.False(t, ok)
}

func TestTrackerSet_UnknownPriceIsNotObserved(t *testing.T) {
	timers := NewFakeTimers()
	set := NewTrackerSet(Options{Duration: time.Second, Decimals: 2, Timers: timers}, nil)
	defer set.Close()

	set.Update([]market.Coin{{ID: "btc"}})
	assert.Equal(t, 0, set.Len())

	set.Update([]market.Coin{{ID: "btc", CurrentPrice: market.Float(100)}})
	set.Update([]market.Coin{{ID: "btc"}})

	btc, ok := set.Get("btc")
	assert.True(t, ok, "a coin still listed keeps its tracker")
	assert.Equal(t, TrendNone, btc.Trend)
	assert.Equal(t, "100.00", btc.DisplayValue)
	assert.Equal(t, 0, timers.Pending())
}

func TestTrackerSet_Close(t *testing.T) {
	timers := NewFakeTimers()
	set := NewTrackerSet(Options{Duration: time.Second, Decimals: 2, Timers: timers}, nil)

	set.Update([]market.Coin{{ID: "btc", CurrentPrice: market.Float(100)}})
	set.Update([]market.Coin{{ID: "btc", CurrentPrice: market.Float(90)}})
	set.Close()

	assert.Equal(t, 0, set.Len())
	assert.Equal(t, 0, timers.Pending())
}
