package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "key", []byte("snapshot"), time.Minute))
	value, ok, err := c.Get(ctx, "key")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("snapshot"), value)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	clock := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	c.SetClock(func() time.Time { return clock })

	require.NoError(t, c.Set(ctx, "key", []byte("snapshot"), 2*time.Minute))

	clock = clock.Add(time.Minute)
	_, ok, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.True(t, ok, "inside the freshness window")

	clock = clock.Add(2 * time.Minute)
	_, ok, err = c.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, ok, "expired entries behave like misses")
}

func TestMemoryCache_NonPositiveTTLStoresNothing(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key", []byte("snapshot"), 0))
	_, ok, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCache_Delete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key", []byte("snapshot"), time.Minute))
	require.NoError(t, c.Delete(ctx, "key"))

	_, ok, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Delete(ctx, "key"), "deleting a missing key is not an error")
}
