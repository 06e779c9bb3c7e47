package interfaces

import (
	"context"

	"github.com/status-im/market-dashboard/coingecko_markets"
	"github.com/status-im/market-dashboard/events"
)

// IMarketsService defines the interface for the CoinGecko listing poller
type IMarketsService interface {
	// Latest returns the newest successful snapshot
	Latest() (coingecko_markets.Snapshot, error)

	// Subscribe subscribes to listing snapshots
	Subscribe() *events.Subscription[coingecko_markets.Snapshot]

	// Refresh polls immediately, outside the regular schedule
	Refresh(ctx context.Context)

	Healthy() bool

	// LastError is the error of the latest poll, nil after a success
	LastError() error
}
