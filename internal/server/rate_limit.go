package server

import (
	"context"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/yieldbook/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/yieldbook/internal/observability/metrics"
	"github.com/smallbiznis/yieldbook/internal/ratelimit"
	"github.com/smallbiznis/yieldbook/internal/usercontext"
	"go.uber.org/zap"
)

const rateLimitReasonUserRate = "user-rate"

// EarningsReadRateLimit throttles reads per user. Redis failures fail open.
func (s *Server) EarningsReadRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.readLimiter.Enabled() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		userID, ok := usercontext.UserIDFromContext(ctx)
		if !ok {
			c.Next()
			return
		}

		endpoint := normalizeRateLimitEndpoint(c)
		res, err := s.readLimiter.Allow(ctx, userID.String())
		if err != nil {
			logger.FromContext(ctx).Warn("earnings read rate limit check failed", zap.Error(err))
			c.Next()
			return
		}
		if !res.Allowed {
			denyEarningsRead(c, endpoint, res, s.obsMetrics)
			return
		}

		setRateLimitHeaders(c, res)
		recordRateLimitAllowed(ctx, endpoint, s.obsMetrics)
		c.Next()
	}
}

func denyEarningsRead(c *gin.Context, endpoint string, res *ratelimit.RateLimitResult, metrics *obsmetrics.Metrics) {
	ctx := c.Request.Context()
	logger.FromContext(ctx).Info("earnings read rate limit exceeded",
		zap.String("reason", rateLimitReasonUserRate),
		zap.String("endpoint", endpoint),
	)
	recordRateLimitDenied(ctx, endpoint, rateLimitReasonUserRate, metrics)

	retryAfter := int(res.RetryAfter.Seconds() + 0.999)
	if retryAfter < 1 {
		retryAfter = 1
	}
	setRateLimitHeaders(c, res)
	c.Header("Retry-After", strconv.Itoa(retryAfter))
	c.Header("X-Rate-Limited-Reason", rateLimitReasonUserRate)
	AbortWithError(c, ErrRateLimited)
}

func setRateLimitHeaders(c *gin.Context, res *ratelimit.RateLimitResult) {
	if res == nil || res.Limit <= 0 {
		return
	}
	c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(max(res.Remaining, 0)))
}

func recordRateLimitAllowed(ctx context.Context, endpoint string, metrics *obsmetrics.Metrics) {
	if metrics == nil {
		return
	}
	metrics.RecordRateLimitAllowed(ctx, endpoint)
}

func recordRateLimitDenied(ctx context.Context, endpoint, reason string, metrics *obsmetrics.Metrics) {
	if metrics == nil {
		return
	}
	metrics.RecordRateLimitDenied(ctx, endpoint, reason)
}

func normalizeRateLimitEndpoint(c *gin.Context) string {
	if c == nil {
		return "unknown"
	}
	endpoint := strings.TrimSpace(c.FullPath())
	if endpoint == "" {
		endpoint = strings.TrimSpace(c.Request.URL.Path)
	}
	if endpoint == "" {
		endpoint = "unknown"
	}
	return endpoint
}
