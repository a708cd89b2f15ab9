package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/yieldbook/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBucketResult(t *testing.T) {
	t.Run("allowed", func(t *testing.T) {
		res, err := parseBucketResult([]interface{}{int64(1), "4.5", int64(1_700_000_000_000)}, 2, 5)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 4, res.Remaining)
		assert.Equal(t, 5, res.Limit)
		assert.Zero(t, res.RetryAfter)
	})

	t.Run("denied waits for the next token", func(t *testing.T) {
		res, err := parseBucketResult([]interface{}{int64(0), "0.5", int64(1_700_000_000_000)}, 2, 5)
		require.NoError(t, err)
		assert.False(t, res.Allowed)
		assert.Equal(t, 250*time.Millisecond, res.RetryAfter)
		assert.Equal(t, time.UnixMilli(1_700_000_000_000).Add(250*time.Millisecond), res.ResetTime)
	})

	t.Run("short response", func(t *testing.T) {
		_, err := parseBucketResult([]interface{}{int64(1)}, 2, 5)
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})
}

func TestDefaultBucketTTL(t *testing.T) {
	assert.Equal(t, 20*time.Second, defaultBucketTTL(1, 10))
	assert.Equal(t, time.Second, defaultBucketTTL(100, 1))
	assert.Equal(t, time.Second, defaultBucketTTL(0, 10))
}

func TestNilTokenBucket(t *testing.T) {
	var bucket *TokenBucket
	_, err := bucket.Allow(context.Background(), "k", 1, 1)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Nil(t, NewTokenBucket(nil))
}

func TestEarningsReadLimiterDisabled(t *testing.T) {
	limiter, err := NewEarningsReadLimiter(nil, config.Config{})
	require.NoError(t, err)
	assert.Nil(t, limiter)
	assert.False(t, limiter.Enabled())

	res, err := limiter.Allow(context.Background(), "42")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestEarningsReadLimiterValidatesConfig(t *testing.T) {
	_, err := NewEarningsReadLimiter(nil, config.Config{RateLimit: config.RateLimitConfig{Enabled: true}})
	assert.Error(t, err)

	_, err = NewEarningsReadLimiter(nil, config.Config{RateLimit: config.RateLimitConfig{
		Enabled:   true,
		RedisAddr: "localhost:6379",
	}})
	assert.Error(t, err)
}
