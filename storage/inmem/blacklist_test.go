package inmem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBlacklist(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	bl := NewTokenBlacklist()
	bl.nowFunc = func() time.Time { return now }

	require.NoError(t, bl.Revoke(ctx, "abc", time.Minute))
	require.NoError(t, bl.Revoke(ctx, "expired", 0))

	revoked, err := bl.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, _ = bl.IsRevoked(ctx, "expired")
	assert.False(t, revoked)

	revoked, _ = bl.IsRevoked(ctx, "unknown")
	assert.False(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, _ = bl.IsRevoked(ctx, "abc")
	assert.False(t, revoked)
}
