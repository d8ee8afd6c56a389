package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/Additional-Code/orderdesk/internal/config"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(2, time.Minute)

	_, err := s.Get(ctx, "orders:1")
	require.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, s.Set(ctx, "orders:1", []byte("a"), 0))
	require.NoError(t, s.Set(ctx, "orders:2", []byte("b"), 0))
	require.NoError(t, s.Set(ctx, "orders:3", []byte("c"), 0))

	_, err = s.Get(ctx, "orders:1")
	require.ErrorIs(t, err, ErrCacheMiss, "oldest entry is evicted")

	v, err := s.Get(ctx, "orders:3")
	require.NoError(t, err)
	assert.Equal(t, []byte("c"), v)

	require.NoError(t, s.Delete(ctx, "orders:3"))
	_, err = s.Get(ctx, "orders:3")
	require.ErrorIs(t, err, ErrCacheMiss)

	require.Error(t, s.Set(ctx, "", []byte("x"), 0))
}

func TestNewStoreDrivers(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	logger := zap.NewNop()

	s, err := NewStore(lc, config.Config{Cache: config.Cache{Driver: "noop"}}, logger)
	require.NoError(t, err)
	_, err = s.Get(context.Background(), "k")
	require.ErrorIs(t, err, ErrCacheMiss)

	s, err = NewStore(lc, config.Config{Cache: config.Cache{Driver: "memory", MemorySize: 4, DefaultTTL: time.Minute}}, logger)
	require.NoError(t, err)
	require.NoError(t, s.Set(context.Background(), "k", []byte("v"), 0))

	_, err = NewStore(lc, config.Config{Cache: config.Cache{Driver: "memcached"}}, logger)
	require.Error(t, err)
}
