package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/ooor/pkg/adapters/redis"
	"github.com/aretw0/ooor/pkg/domain"
	"github.com/aretw0/ooor/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisCache_Contract(t *testing.T) {
	_, client := newClient(t)

	cache := redis.NewFromClient(client)
	ports.RunSessionCacheContract(t, cache)
}

func TestRedisCache_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	cache := redis.NewFromClient(client, redis.WithTTL(time.Second))
	ctx := context.Background()

	err := cache.Write(ctx, "session-ttl", domain.WebSession{"session_id": "abc"})
	require.NoError(t, err)

	keys, err := cache.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, keys, "session-ttl")

	mr.FastForward(2 * time.Second)

	_, err = cache.Read(ctx, "session-ttl")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRedisCache_Prefix(t *testing.T) {
	mr, client := newClient(t)

	cache := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	err := cache.Write(ctx, "my-session", domain.WebSession{"locale": "en_US"})
	require.NoError(t, err)

	assert.True(t, mr.Exists("custom:app:my-session"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	keys, err := cache.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"my-session"}, keys)
}

func TestRedisCache_DefaultPrefix(t *testing.T) {
	mr, client := newClient(t)

	cache := redis.NewFromClient(client)
	require.NoError(t, cache.Write(context.Background(), "k", domain.WebSession{}))

	assert.True(t, mr.Exists(redis.DefaultPrefix+"k"))
}

func TestRedisCache_Unavailable(t *testing.T) {
	mr, client := newClient(t)
	cache := redis.NewFromClient(client)
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := cache.Read(ctx, "anything")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSessionNotFound, "a dead backend is not a cache miss")

	err = cache.Write(ctx, "anything", domain.WebSession{})
	assert.Error(t, err)
}
