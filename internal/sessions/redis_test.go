package sessions

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRedisStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7.0-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	}
	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer redisC.Terminate(ctx)

	host, err := redisC.Host(ctx)
	require.NoError(t, err)
	port, err := redisC.MappedPort(ctx, "6379")
	require.NoError(t, err)

	rdb, err := NewRedisClient(ctx, &redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	require.NoError(t, err)
	defer rdb.Close()

	store := NewRedisStore(rdb, time.Second)

	t.Run("Create, Get and Delete", func(t *testing.T) {
		sid, err := store.Create(ctx, 7)
		require.NoError(t, err)
		assert.NotEmpty(t, sid)

		userID, err := store.Get(ctx, sid)
		require.NoError(t, err)
		assert.Equal(t, int64(7), userID)

		ttl, err := rdb.TTL(ctx, "session:"+sid).Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))

		require.NoError(t, store.Delete(ctx, sid))
		_, err = store.Get(ctx, sid)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("Unknown session", func(t *testing.T) {
		_, err := store.Get(ctx, "does-not-exist")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("Session expires", func(t *testing.T) {
		sid, err := store.Create(ctx, 8)
		require.NoError(t, err)

		time.Sleep(1500 * time.Millisecond)

		_, err = store.Get(ctx, sid)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("Corrupt value", func(t *testing.T) {
		require.NoError(t, rdb.Set(ctx, "session:bad", "not-a-number", time.Minute).Err())
		_, err := store.Get(ctx, "bad")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisClient(ctx, &redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	assert.Error(t, err)
}
