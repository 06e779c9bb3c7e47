package market

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortByRank        SortKey = "rank"
	SortByName        SortKey = "name"
	SortByPrice       SortKey = "price"
	SortByPriceChange SortKey = "priceChange"
	SortByMarketCap   SortKey = "marketCap"
	SortByVolume      SortKey = "volume"
	SortBySupply      SortKey = "supply"
)

var sortKeys = []SortKey{
	SortByRank, SortByName, SortByPrice, SortByPriceChange,
	SortByMarketCap, SortByVolume, SortBySupply,
}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

var (
	ErrUnknownSortKey   = errors.New("unknown sort key")
	ErrUnknownDirection = errors.New("unknown sort direction")
)

// SortSpec is the active sort column and direction.
type SortSpec struct {
	Key       SortKey   `json:"key"`
	Direction Direction `json:"direction"`
}

// DefaultSortSpec is rank ascending.
func DefaultSortSpec() SortSpec {
	return SortSpec{Key: SortByRank, Direction: Asc}
}

// Toggle returns the spec after selecting key: the active key flips its
// direction, any other key becomes active in descending order.
func (s SortSpec) Toggle(key SortKey) SortSpec {
	if s.Key == key {
		if s.Direction == Asc {
			return SortSpec{Key: key, Direction: Desc}
		}
		return SortSpec{Key: key, Direction: Asc}
	}
	return SortSpec{Key: key, Direction: Desc}
}

func ParseSortKey(s string) (SortKey, error) {
	for _, k := range sortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
}

func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case Asc, Desc:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// comparator orders coins by one key. The collator is not safe for
// concurrent use, so each sort builds its own.
type comparator struct {
	key  SortKey
	coll *collate.Collator
}

func newComparator(key SortKey) *comparator {
	c := &comparator{key: key}
	if key == SortByName {
		c.coll = collate.New(language.English)
	}
	return c
}

// compare returns the ascending order of a and b. Unknown numbers compare
// as 0; supply is handled by the caller.
func (c *comparator) compare(a, b Coin) int {
	switch c.key {
	case SortByName:
		return c.coll.CompareString(a.Name, b.Name)
	case SortByPrice:
		return cmp.Compare(Value(a.CurrentPrice), Value(b.CurrentPrice))
	case SortByPriceChange:
		return cmp.Compare(Value(a.PriceChangePercentage24h), Value(b.PriceChangePercentage24h))
	case SortByMarketCap:
		return cmp.Compare(Value(a.MarketCap), Value(b.MarketCap))
	case SortByVolume:
		return cmp.Compare(Value(a.Volume24h), Value(b.Volume24h))
	case SortBySupply:
		return cmp.Compare(*a.CirculatingSupply, *b.CirculatingSupply)
	default:
		return cmp.Compare(IntValue(a.Rank), IntValue(b.Rank))
	}
}

// directed applies the direction. Coins without circulating supply go
// last in both directions when sorting by supply.
func (c *comparator) directed(a, b Coin, dir Direction) int {
	if c.key == SortBySupply {
		switch {
		case a.CirculatingSupply == nil && b.CirculatingSupply == nil:
			return 0
		case a.CirculatingSupply == nil:
			return 1
		case b.CirculatingSupply == nil:
			return -1
		}
	}

	r := c.compare(a, b)
	if dir == Desc {
		return -r
	}
	return r
}

// Compare orders a before b (negative), after b (positive) or equal (zero)
// under spec.
func Compare(a, b Coin, spec SortSpec) int {
	return newComparator(spec.Key).directed(a, b, spec.Direction)
}

// Sort returns a stably sorted copy of coins.
func Sort(coins []Coin, spec SortSpec) []Coin {
	out := slices.Clone(coins)
	if out == nil {
		out = []Coin{}
	}

	c := newComparator(spec.Key)
	slices.SortStableFunc(out, func(a, b Coin) int {
		return c.directed(a, b, spec.Direction)
	})
	return out
}
