package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lead-intake-go/pkg/logger"
)

func newRedisStore(t *testing.T) (*RedisRevocationStore, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := NewRedisClient(server.Addr(), "", 0)
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisRevocationStore(client, logger.Nop()), server
}

func TestRedisRevocationStore(t *testing.T) {
	ctx := context.Background()
	store, server := newRedisStore(t)

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Minute))

	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.True(t, server.Exists(revokedTokenKeyPrefix+"jti-1"))

	server.FastForward(2 * time.Minute)
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisRevocationStoreSkipsExpiredTokens(t *testing.T) {
	ctx := context.Background()
	store, server := newRedisStore(t)

	require.NoError(t, store.Revoke(ctx, "jti-2", 0))
	assert.False(t, server.Exists(revokedTokenKeyPrefix+"jti-2"))
}

func TestRedisRevocationStoreFailsOpenWhenUnreachable(t *testing.T) {
	ctx := context.Background()
	store, server := newRedisStore(t)
	server.Close()

	revoked, err := store.IsRevoked(ctx, "jti-3")
	require.NoError(t, err)
	assert.False(t, revoked)

	assert.Error(t, store.Revoke(ctx, "jti-3", time.Minute))
}
