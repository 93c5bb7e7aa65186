package echoapi

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/trezcool/educore/core"
	logsvc "github.com/trezcool/educore/services/logger"
	"github.com/trezcool/educore/testutil"
)

func newStoreLogger() (core.Logger, *observer.ObservedLogs) {
	obsCore, logs := observer.New(zap.DebugLevel)
	return logsvc.NewRollbarLogger(zap.New(obsCore).Sugar(), testutil.NewConfig()), logs
}

func TestRedisRateLimiterStore_Key(t *testing.T) {
	logger, _ := newStoreLogger()
	store := newRedisRateLimiterStore(nil, core.RateLimitConfig{Max: 1, Window: time.Minute}, logger)

	now := time.Date(2025, 3, 1, 10, 0, 5, 0, time.UTC)
	store.now = func() time.Time { return now }
	first := store.key("10.0.0.1")

	now = now.Add(50 * time.Second)
	assert.Equal(t, first, store.key("10.0.0.1"), "same window")
	assert.NotEqual(t, first, store.key("10.0.0.2"))

	now = now.Add(10 * time.Second)
	assert.NotEqual(t, first, store.key("10.0.0.1"), "next window")
}

func TestRedisRateLimiterStore_FailsOpen(t *testing.T) {
	logger, logs := newStoreLogger()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { _ = client.Close() })

	store := newRedisRateLimiterStore(client, core.RateLimitConfig{Max: 1, Window: time.Minute}, logger)
	for i := 0; i < 3; i++ {
		allowed, err := store.Allow("10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	assert.Equal(t, 3, logs.FilterMessage("rate limiter store unavailable").Len())
}

// Needs a live Redis at REDIS_ADDR.
func TestRedisRateLimiterStore_Allow(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())

	logger, _ := newStoreLogger()
	store := newRedisRateLimiterStore(client, core.RateLimitConfig{Max: 2, Window: time.Minute}, logger)
	ip := "test-" + uuid.NewString()
	t.Cleanup(func() { client.Del(context.Background(), store.key(ip)) })

	for i, want := range []bool{true, true, false} {
		allowed, err := store.Allow(ip)
		require.NoError(t, err)
		assert.Equal(t, want, allowed, "request %d", i+1)
	}
	ttl, err := client.TTL(context.Background(), store.key(ip)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
