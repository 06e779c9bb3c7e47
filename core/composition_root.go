package core

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/status-im/market-dashboard/api"
	"github.com/status-im/market-dashboard/cache"
	"github.com/status-im/market-dashboard/coingecko_market_chart"
	"github.com/status-im/market-dashboard/coingecko_markets"
	"github.com/status-im/market-dashboard/config"
	"github.com/status-im/market-dashboard/dashboard"
	"github.com/status-im/market-dashboard/events"
	"github.com/status-im/market-dashboard/interfaces"
	"github.com/status-im/market-dashboard/notify"
	"github.com/status-im/market-dashboard/transition"
	"github.com/status-im/market-dashboard/watchlist"
)

var log = logrus.WithField("component", "core")

// App is the wired dashboard. Registry owns the start/stop order of everything else.
type App struct {
	*Registry

	Session *dashboard.Session
	Markets *coingecko_markets.Service
	Charts  *coingecko_market_chart.Service
	Hub     *api.Hub
	Server  *api.Server
}

// Setup creates and registers all services
func Setup(ctx context.Context, cfg *config.Config) (*App, error) {
	storage, err := watchlist.NewStorage(cfg.Watchlist)
	if err != nil {
		return nil, fmt.Errorf("failed to open watchlist storage: %w", err)
	}
	return SetupWithClients(ctx, cfg, storage,
		coingecko_markets.NewCoinGeckoClient(cfg), coingecko_market_chart.NewCoinGeckoClient(cfg))
}

// SetupWithClients wires the dashboard around the given storage and CoinGecko clients
func SetupWithClients(
	ctx context.Context,
	cfg *config.Config,
	storage watchlist.Storage,
	marketsClient coingecko_markets.APIClient,
	chartClient coingecko_market_chart.APIClient,
) (*App, error) {
	registry := NewRegistry()

	// Registered first so the storage closes last
	registry.Register("watchlist storage", &closer{name: "watchlist storage", close: storage.Close})

	// Create Cache service
	cacheService := cache.NewService(cfg.Cache)
	registry.Register("chart cache", cacheService)

	// Create CoinGecko Market Chart service with cache dependency
	chartService := coingecko_market_chart.NewServiceWithClient(cacheService, cfg, chartClient)
	registry.Register("market chart", chartService)

	store := watchlist.NewStore(storage, cfg.Watchlist.Key)
	if err := store.Load(ctx); err != nil {
		log.Warnf("Watchlist: %v", err)
	}

	session := dashboard.NewSession(dashboard.Options{
		Config:    cfg.Dashboard,
		Timers:    transition.RealTimers{},
		Watchlist: store,
		Charts:    chartService,
	})
	hub := api.NewHub(session)

	notifiers := notify.Multi{notify.LogNotifier{}, session, hub}
	if cfg.Notify.Slack.WebhookURL != "" {
		notifiers = append(notifiers, notify.NewSlackNotifier(cfg.Notify.Slack.WebhookURL, cfg.Notify.Slack.Channel))
	}

	marketsService := coingecko_markets.NewServiceWithClient(cfg, marketsClient, notifiers)

	// The session subscribes before the first poll and the hub listens to
	// the session, so both start ahead of the markets service
	registry.Register("session feed", &sessionFeed{session: session, markets: marketsService})
	registry.Register("websocket hub", hub)
	registry.Register("markets poll", marketsService)

	server := api.New(cfg.Server.Port, marketsService, chartService, session, hub)
	registry.Register("http server", server)

	return &App{
		Registry: registry,
		Session:  session,
		Markets:  marketsService,
		Charts:   chartService,
		Hub:      hub,
		Server:   server,
	}, nil
}

// sessionFeed applies every listing snapshot to the session
type sessionFeed struct {
	session *dashboard.Session
	markets interfaces.IMarketsService
	sub     *events.Subscription[coingecko_markets.Snapshot]
}

func (f *sessionFeed) Start(ctx context.Context) error {
	f.sub = f.markets.Subscribe().Watch(ctx, f.session.ApplySnapshot, true)
	return nil
}

func (f *sessionFeed) Stop() {
	if f.sub != nil {
		f.sub.Cancel()
	}
	f.session.Close()
}

// closer adapts a Close func to Interface
type closer struct {
	name  string
	close func() error
}

func (c *closer) Start(context.Context) error { return nil }

func (c *closer) Stop() {
	if err := c.close(); err != nil {
		log.Warnf("Failed to close %s: %v", c.name, err)
	}
}
