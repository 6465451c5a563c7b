package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwalker85/agentfoundry/pkg/adapters/redis"
	"github.com/nwalker85/agentfoundry/pkg/ports"
)

func newTestClient(t *testing.T) *backend.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "Failed to start miniredis")
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisStore_Contract(t *testing.T) {
	store := redis.NewFromClient(newTestClient(t))
	ports.RunArtifactStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "ephemeral", []byte("data")))

	data, err := store.Load(ctx, "ephemeral")
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), data)

	// Fast forward time in miniredis past the TTL.
	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "ephemeral")
	assert.ErrorIs(t, err, ports.ErrArtifactNotFound)
}

func TestRedisStore_KeyPrefix(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redis.NewFromClient(client, redis.WithPrefix("custom:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "wf", []byte("x")))
	assert.True(t, mr.Exists("custom:wf"))
	assert.False(t, mr.Exists("foundry:artifact:wf"))
}
