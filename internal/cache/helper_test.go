package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb, err := NewClient(mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestCacheAside(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *payload) func() error {
		return func() error {
			calls++
			*dest = payload{Name: "amal", Count: calls}
			return nil
		}
	}

	var first payload
	require.NoError(t, CacheAside(ctx, rdb, "k", &first, time.Minute, fetch(&first)))
	assert.Equal(t, payload{Name: "amal", Count: 1}, first)
	assert.True(t, mr.Exists("k"))

	var second payload
	require.NoError(t, CacheAside(ctx, rdb, "k", &second, time.Minute, fetch(&second)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)

	Invalidate(ctx, rdb, "k")
	var third payload
	require.NoError(t, CacheAside(ctx, rdb, "k", &third, time.Minute, fetch(&third)))
	assert.Equal(t, 2, calls)
}

func TestCacheAside_NilClientAndFetchError(t *testing.T) {
	ctx := context.Background()

	var dest payload
	require.NoError(t, CacheAside(ctx, nil, "k", &dest, time.Minute, func() error {
		dest.Name = "direct"
		return nil
	}))
	assert.Equal(t, "direct", dest.Name)

	boom := errors.New("boom")
	err := CacheAside(ctx, nil, "k", &dest, time.Minute, func() error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestCacheAside_CorruptEntryRefetches(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	require.NoError(t, mr.Set("k", "{not json"))

	var dest payload
	require.NoError(t, CacheAside(context.Background(), rdb, "k", &dest, time.Minute, func() error {
		dest = payload{Name: "fresh"}
		return nil
	}))
	assert.Equal(t, "fresh", dest.Name)
}

func TestInvalidateUser(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	require.NoError(t, mr.Set(UserProfileKey(9), "{}"))

	InvalidateUser(context.Background(), rdb, 9)
	assert.False(t, mr.Exists("user:9:profile"))

	// nil client is a no-op
	InvalidateUser(context.Background(), nil, 9)
}
