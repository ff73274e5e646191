package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBlacklist(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	ctx := context.Background()
	bl := NewTokenBlacklist(rdb)

	revoked, err := bl.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, bl.Revoke(ctx, "abc", time.Hour))
	revoked, err = bl.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Equal(t, time.Hour, mr.TTL("blacklist:abc"))

	mr.FastForward(2 * time.Hour)
	revoked, err = bl.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenBlacklist_EdgeCases(t *testing.T) {
	ctx := context.Background()
	bl := NewTokenBlacklist(nil)

	assert.NoError(t, bl.Revoke(ctx, "abc", 0), "expired tokens need no entry")
	assert.ErrorIs(t, bl.Revoke(ctx, "abc", time.Minute), ErrNoStore)

	revoked, err := bl.IsRevoked(ctx, "abc")
	assert.NoError(t, err)
	assert.False(t, revoked)
}
