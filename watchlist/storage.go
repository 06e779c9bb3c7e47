package watchlist

import (
	"context"
	"errors"
	"fmt"

	"github.com/status-im/market-dashboard/config"
)

// ErrNotFound is returned by Storage.Get when the key was never written.
var ErrNotFound = errors.New("key not found")

// Storage is a durable key-value store holding whole serialized values.
// Put replaces the previous value atomically.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// NewStorage opens the backend selected in cfg.
func NewStorage(cfg config.WatchlistConfig) (Storage, error) {
	switch cfg.Backend {
	case config.WatchlistBackendFile:
		return NewFileStorage(cfg.Dir)
	case config.WatchlistBackendSQLite:
		return NewSQLiteStorage(cfg.SQLitePath)
	case config.WatchlistBackendRedis:
		return NewRedisStorage(cfg.RedisAddr), nil
	default:
		return nil, fmt.Errorf("unknown watchlist backend %q", cfg.Backend)
	}
}
