// SPDX-License-Identifier: MIT

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)
	defer c.Close()

	c.Set(ctx, "key1", []byte(`[1]`), 5*time.Minute)

	val, ok := c.Get(ctx, "key1")
	require.True(t, ok, "expected to find key1")
	assert.Equal(t, []byte(`[1]`), val)

	_, ok = c.Get(ctx, "nonexistent")
	assert.False(t, ok)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Sets)
	assert.Equal(t, 1, stats.CurrentSize)
}

func TestMemoryCache_Expiration(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)
	defer c.Close()

	c.Set(ctx, "shortlived", []byte("v"), 50*time.Millisecond)
	_, ok := c.Get(ctx, "shortlived")
	require.True(t, ok)

	time.Sleep(100 * time.Millisecond)

	_, ok = c.Get(ctx, "shortlived")
	assert.False(t, ok, "expected key to be expired")
}

func TestMemoryCache_Delete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)
	defer c.Close()

	c.Set(ctx, "key1", []byte("v"), time.Minute)
	c.Delete(ctx, "key1")

	_, ok := c.Get(ctx, "key1")
	assert.False(t, ok)
}

func TestMemoryCache_Janitor(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(10 * time.Millisecond)
	defer c.Close()

	c.Set(ctx, "a", []byte("v"), time.Millisecond)
	c.Set(ctx, "b", []byte("v"), time.Hour)

	require.Eventually(t, func() bool {
		return c.Stats().CurrentSize == 1
	}, time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, c.Stats().Evictions, int64(1))
}

func TestMemoryCache_CloseIsIdempotent(t *testing.T) {
	c := NewMemoryCache(time.Millisecond)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}

func TestNoOpCache(t *testing.T) {
	ctx := context.Background()
	c := NewNoOpCache()
	c.Set(ctx, "k", []byte("v"), time.Minute)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, Stats{}, c.Stats())
}
