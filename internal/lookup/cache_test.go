package lookup_test

import (
	"context"
	"specimenpro/internal/lookup"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCacheRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cache, err := lookup.NewRedisCache(mr.Addr(), 10*time.Minute, nil)
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()
	_, hit, err := cache.Get(ctx, "https://host/event/e/s")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.Set(ctx, "https://host/event/e/s", []byte{0x89, 'P', 'N', 'G'}))
	data, hit, err := cache.Get(ctx, "https://host/event/e/s")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data)

	mr.FastForward(11 * time.Minute)
	_, hit, err = cache.Get(ctx, "https://host/event/e/s")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = lookup.NewRedisCache(addr, time.Minute, nil)
	assert.Error(t, err)
}
