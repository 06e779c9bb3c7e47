package market

import "time"

func testCoins() []Coin {
	updated := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return []Coin{
		{ID: "bitcoin", Rank: Int(1), Name: "Bitcoin", Symbol: "BTC", CurrentPrice: Float(65000), PriceChangePercentage24h: Float(2.5),
			MarketCap: Float(1.2e12), Volume24h: Float(3e10), CirculatingSupply: Float(19.6e6), MaxSupply: Float(21e6), LastUpdated: updated},
		{ID: "ethereum", Rank: Int(2), Name: "Ethereum", Symbol: "ETH", CurrentPrice: Float(3500), PriceChangePercentage24h: Float(-1.2),
			MarketCap: Float(4.2e11), Volume24h: Float(1.5e10), CirculatingSupply: Float(120e6), LastUpdated: updated},
		{ID: "chainlink", Rank: Int(15), Name: "Chainlink", Symbol: "LINK", CurrentPrice: Float(18), PriceChangePercentage24h: Float(0),
			MarketCap: Float(5e9), Volume24h: Float(4e8), CirculatingSupply: Float(587e6), MaxSupply: Float(1e9), LastUpdated: updated},
		{ID: "pepe", Rank: Int(40), Name: "Pepe", Symbol: "PEPE", CurrentPrice: Float(0.0000071), PriceChangePercentage24h: Float(12.3),
			MarketCap: Float(3e9), Volume24h: Float(9e8), LastUpdated: updated},
		{ID: "tiny", Rank: Int(95), Name: "Tiny Coin", Symbol: "TINY", CurrentPrice: Float(0.42), PriceChangePercentage24h: Float(-7),
			MarketCap: Float(8e8), Volume24h: Float(1e7), CirculatingSupply: Float(2e9), LastUpdated: updated},
		{ID: "ancient", Rank: Int(99), Name: "ancient relic", Symbol: "ANC", CurrentPrice: Float(2_000_000), PriceChangePercentage24h: Float(0.1),
			MarketCap: Float(9.9e9), Volume24h: Float(5e5), LastUpdated: updated},
	}
}

func ids(coins []Coin) []string {
	out := make([]string, len(coins))
	for i, c := range coins {
		out[i] = c.ID
	}
	return out
}
