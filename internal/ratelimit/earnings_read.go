package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/yieldbook/internal/config"
	"go.uber.org/fx"
)

const keyEarningsReadUser = "earnings:read:user:%s"

// EarningsReadLimiter throttles earnings reads per user. A nil limiter
// allows everything.
type EarningsReadLimiter struct {
	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewEarningsReadLimiter(lc fx.Lifecycle, cfg config.Config) (*EarningsReadLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.EarningsReadRate <= 0 || limitCfg.EarningsReadBurst <= 0 {
		return nil, errors.New("earnings read rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})
	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return client.Close()
			},
		})
	}

	return newEarningsReadLimiter(NewTokenBucket(client), limitCfg.EarningsReadRate, limitCfg.EarningsReadBurst), nil
}

func newEarningsReadLimiter(bucket *TokenBucket, rate float64, burst int) *EarningsReadLimiter {
	return &EarningsReadLimiter{bucket: bucket, rate: rate, burst: burst}
}

func (l *EarningsReadLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

func (l *EarningsReadLimiter) Allow(ctx context.Context, userID string) (*RateLimitResult, error) {
	if !l.Enabled() {
		return &RateLimitResult{Allowed: true}, nil
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return &RateLimitResult{}, ErrEmptyKey
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyEarningsReadUser, userID), l.rate, l.burst)
}
