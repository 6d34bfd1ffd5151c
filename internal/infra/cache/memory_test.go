package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)

	_, ok, err := c.Get(ctx, "rdmc:detail:X-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "rdmc:detail:X-1", []byte(`{"title":"t"}`)))
	value, ok, err := c.Get(ctx, "rdmc:detail:X-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"title":"t"}`, string(value))

	require.NoError(t, c.Delete(ctx, "rdmc:detail:X-1"))
	_, ok, err = c.Get(ctx, "rdmc:detail:X-1")
	require.NoError(t, err)
	assert.False(t, ok)

	// deleting an absent key is not an error
	assert.NoError(t, c.Delete(ctx, "rdmc:detail:missing"))
}

func TestMemoryCacheExpires(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(20 * time.Millisecond)

	require.NoError(t, c.Set(ctx, "k", []byte("v")))
	time.Sleep(50 * time.Millisecond)

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheAddKeepsExistingEntry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)

	require.NoError(t, c.Add(ctx, "k", []byte("first")))
	require.NoError(t, c.Set(ctx, "k", []byte("newer")))
	require.NoError(t, c.Add(ctx, "k", []byte("stale")))

	value, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "newer", string(value))
}
