package config

import "fmt"

const (
	WatchlistBackendFile   = "file"
	WatchlistBackendSQLite = "sqlite"
	WatchlistBackendRedis  = "redis"
)

// WatchlistConfig selects the durable storage for the watchlist
type WatchlistConfig struct {
	Backend    string `yaml:"backend"`
	Dir        string `yaml:"dir"`
	SQLitePath string `yaml:"sqlite_path"`
	RedisAddr  string `yaml:"redis_addr"`
	Key        string `yaml:"key"`
}

func GetDefaultWatchlistConfig() WatchlistConfig {
	return WatchlistConfig{
		Backend:    WatchlistBackendFile,
		Dir:        ".",
		SQLitePath: "dashboard.db",
		RedisAddr:  "localhost:6379",
		Key:        "watchlist",
	}
}

func (c *WatchlistConfig) Validate() error {
	if c.Key == "" {
		return fmt.Errorf("watchlist: key cannot be empty")
	}
	switch c.Backend {
	case WatchlistBackendFile:
		if c.Dir == "" {
			return fmt.Errorf("watchlist: dir is required for the file backend")
		}
	case WatchlistBackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("watchlist: sqlite_path is required for the sqlite backend")
		}
	case WatchlistBackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("watchlist: redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("watchlist: unknown backend %q", c.Backend)
	}
	return nil
}
