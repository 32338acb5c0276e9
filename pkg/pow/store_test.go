package pow_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/proofengine/pkg/pow"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	store := pow.NewMemoryStore(pow.WithCleanupInterval(0), pow.WithClock(clock.Now))
	defer store.Close()

	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.Save(ctx, "a", time.Minute))
	require.NoError(t, store.Save(ctx, "b", time.Minute))
	require.NoError(t, store.Save(ctx, "c", 3*time.Minute))
	assert.Equal(t, 3, store.Len())

	ok, err := store.Consume(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Consume(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok, "a challenge can be redeemed once")

	clock.Advance(2 * time.Minute)

	ok, err = store.Consume(ctx, "b")
	require.NoError(t, err)
	assert.False(t, ok, "expired challenge must not be accepted")

	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 0, store.Purge())

	clock.Advance(2 * time.Minute)
	assert.Equal(t, 1, store.Purge())
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStoreBackgroundCleanup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := pow.NewMemoryStore(pow.WithCleanupInterval(10 * time.Millisecond))
	defer store.Close()

	require.NoError(t, store.Save(ctx, "short", time.Millisecond))
	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 10*time.Millisecond)

	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("POW_TEST_REDIS_URL")
	if url == "" {
		t.Skip("POW_TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	client, err := pow.ConnectRedis(ctx, pow.RedisConfig{
		ConnectionURL:  url,
		RetryAttempts:  1,
		ConnectTimeout: 5 * time.Second,
	})
	require.NoError(t, err)

	store := pow.NewRedisStore(client, pow.WithKeyPrefix("pow:test:"+t.Name()+":"))
	defer store.Close()

	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.Save(ctx, "challenge", time.Minute))

	ok, err := store.Consume(ctx, "challenge")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Consume(ctx, "challenge")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConnectRedisInvalidURL(t *testing.T) {
	t.Parallel()

	_, err := pow.ConnectRedis(context.Background(), pow.RedisConfig{ConnectionURL: "not-a-url://"})
	assert.ErrorIs(t, err, pow.ErrFailedToParseRedisURL)
}
