package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBlocklist(t *testing.T) {
	b := NewMemoryBlocklist()
	ctx := context.Background()

	revoked, err := b.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, b.Revoke(ctx, "jti-1", time.Minute))

	revoked, err = b.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// Other tokens stay valid
	revoked, err = b.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryBlocklistExpiredTokenIsNoop(t *testing.T) {
	b := NewMemoryBlocklist()
	ctx := context.Background()

	// A token past its expiry needs no blocking
	require.NoError(t, b.Revoke(ctx, "jti-old", -time.Second))

	revoked, err := b.IsRevoked(ctx, "jti-old")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryBlocklistPrunesExpiredEntries(t *testing.T) {
	b := NewMemoryBlocklist()
	ctx := context.Background()

	require.NoError(t, b.Revoke(ctx, "jti-short", time.Nanosecond))
	time.Sleep(5 * time.Millisecond)

	revoked, err := b.IsRevoked(ctx, "jti-short")
	require.NoError(t, err)
	assert.False(t, revoked)
}
