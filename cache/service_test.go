package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_GetOrLoad(t *testing.T) {
	svc := NewService(DefaultCacheConfig())
	require.NoError(t, svc.Start(context.Background()))
	defer svc.Stop()

	calls := 0
	loader := func(key string) ([]byte, error) {
		calls++
		return []byte("value-for-" + key), nil
	}

	data, err := svc.GetOrLoad("bitcoin", loader, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "value-for-bitcoin", string(data))

	data, err = svc.GetOrLoad("bitcoin", loader, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "value-for-bitcoin", string(data))
	assert.Equal(t, 1, calls, "second lookup must be served from cache")
}

func TestService_LoaderErrorIsNotCached(t *testing.T) {
	svc := NewService(DefaultCacheConfig())

	_, err := svc.GetOrLoad("eth", func(string) ([]byte, error) {
		return nil, errors.New("boom")
	}, time.Minute)
	require.Error(t, err)

	_, ok := svc.Get("eth")
	assert.False(t, ok)
}

func TestService_Disabled(t *testing.T) {
	cfg := DefaultCacheConfig()
	cfg.GoCache.Enabled = false
	svc := NewService(cfg)

	svc.Set("k", []byte("v"), time.Minute)
	_, ok := svc.Get("k")
	assert.False(t, ok)
}

func TestGoCache_Expiration(t *testing.T) {
	gc := NewGoCache(time.Minute, time.Minute)
	gc.Set("short", []byte("x"), 20*time.Millisecond)
	gc.Set("default", []byte("y"), 0)

	_, ok := gc.Get("short")
	assert.True(t, ok)

	time.Sleep(40 * time.Millisecond)

	_, ok = gc.Get("short")
	assert.False(t, ok)
	_, ok = gc.Get("default")
	assert.True(t, ok)
	assert.Equal(t, 2, gc.ItemCount(), "expired items remain counted until cleanup")

	gc.Clear()
	assert.Equal(t, 0, gc.ItemCount())
}
