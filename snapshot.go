package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/status-im/market-dashboard/coingecko_markets"
	"github.com/status-im/market-dashboard/config"
	"github.com/status-im/market-dashboard/dashboard"
	"github.com/status-im/market-dashboard/market"
	"github.com/status-im/market-dashboard/notify"
	"github.com/status-im/market-dashboard/terminal"
	"github.com/status-im/market-dashboard/transition"
	"github.com/status-im/market-dashboard/watchlist"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Fetch the listing once and print it as a table",
	RunE:  runSnapshot,
}

func init() {
	flags := snapshotCmd.Flags()
	flags.String("query", "", "name or symbol search")
	flags.String("market-cap", string(market.MarketCapAll), "market cap tier: all, large, medium, small")
	flags.String("performance", string(market.PerformanceAll), "24h performance: all, gainers, losers")
	flags.Float64("min-price", -1, "minimum price, defaults to the configured range")
	flags.Float64("max-price", -1, "maximum price, defaults to the configured range")
	flags.String("sort", string(market.SortByRank), "sort key")
	flags.String("direction", string(market.Asc), "sort direction: asc or desc")
	flags.Int("limit", 0, "print at most this many rows")
	flags.Bool("watchlist", false, "only print watchlisted coins")
	flags.Duration("timeout", 30*time.Second, "fetch timeout")
}

func snapshotView(cmd *cobra.Command) (string, market.FilterOptions, market.SortSpec, error) {
	flags := cmd.Flags()
	query, _ := flags.GetString("query")
	tierFlag, _ := flags.GetString("market-cap")
	perfFlag, _ := flags.GetString("performance")
	minPrice, _ := flags.GetFloat64("min-price")
	maxPrice, _ := flags.GetFloat64("max-price")
	sortFlag, _ := flags.GetString("sort")
	dirFlag, _ := flags.GetString("direction")

	filters := market.DefaultFilterOptions()
	filters.PriceRange = market.PriceRange{Min: cfg.Dashboard.DefaultPriceRange.Min, Max: cfg.Dashboard.DefaultPriceRange.Max}
	if minPrice >= 0 {
		filters.PriceRange.Min = minPrice
	}
	if maxPrice >= 0 {
		filters.PriceRange.Max = maxPrice
	}

	var err error
	if filters.MarketCap, err = market.ParseMarketCapTier(tierFlag); err != nil {
		return "", filters, market.SortSpec{}, err
	}
	if filters.Performance, err = market.ParsePerformance(perfFlag); err != nil {
		return "", filters, market.SortSpec{}, err
	}
	if err := filters.Validate(); err != nil {
		return "", filters, market.SortSpec{}, err
	}

	var spec market.SortSpec
	if spec.Key, err = market.ParseSortKey(sortFlag); err != nil {
		return "", filters, spec, err
	}
	if spec.Direction, err = market.ParseDirection(dirFlag); err != nil {
		return "", filters, spec, err
	}
	return query, filters, spec, nil
}

// openWatchlist falls back to an in-memory list when the backend is unavailable
func openWatchlist(ctx context.Context, cfg config.WatchlistConfig) (*watchlist.Store, func()) {
	storage, err := watchlist.NewStorage(cfg)
	if err != nil {
		log.Warnf("Watchlist: %v, using an in-memory list", err)
		storage = watchlist.NewMemoryStorage()
	}
	store := watchlist.NewStore(storage, cfg.Key)
	if err := store.Load(ctx); err != nil {
		log.Warnf("Watchlist: %v", err)
	}
	return store, func() {
		if err := storage.Close(); err != nil {
			log.Warnf("Watchlist: failed to close storage: %v", err)
		}
	}
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	query, filters, spec, err := snapshotView(cmd)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")
	onlyWatched, _ := cmd.Flags().GetBool("watchlist")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	markets := coingecko_markets.NewService(cfg, notify.LogNotifier{})
	markets.Refresh(ctx)
	snap, err := markets.Latest()
	if err != nil {
		if lastErr := markets.LastError(); lastErr != nil {
			err = lastErr
		}
		return fmt.Errorf("failed to fetch cryptocurrency data: %w", err)
	}

	store, closeStore := openWatchlist(ctx, cfg.Watchlist)
	defer closeStore()

	session := dashboard.NewSession(dashboard.Options{
		Config:    cfg.Dashboard,
		Timers:    transition.RealTimers{},
		Watchlist: store,
	})
	defer session.Close()

	session.ApplySnapshot(snap)
	session.SetQuery(query)
	session.SetFilters(filters)
	session.SetSort(spec)

	view := session.View()
	rows := view.Rows
	if onlyWatched {
		rows = rows[:0:0]
		for _, row := range view.Rows {
			if row.Watchlisted {
				rows = append(rows, row)
			}
		}
	}

	terminal.RenderTable(os.Stdout, rows, terminal.TableOptions{
		Color: !color.NoColor,
		Limit: limit,
		Total: view.Total,
	})
	return nil
}
