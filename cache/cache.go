package cache

import "time"

// LoaderFunc produces the value for a key that is missing from the cache
type LoaderFunc func(key string) ([]byte, error)

// Cache is a byte cache keyed by string
type Cache interface {
	// Get returns the cached value and whether it was present and not expired
	Get(key string) ([]byte, bool)

	// Set stores value under key; a ttl of 0 uses the cache default expiration
	Set(key string, value []byte, ttl time.Duration)

	// GetOrLoad returns the cached value or calls loader, caching its result for ttl.
	// Loader errors are returned as-is and nothing is cached.
	GetOrLoad(key string, loader LoaderFunc, ttl time.Duration) ([]byte, error)
}
