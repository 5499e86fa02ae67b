package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/AyanAlikhan11/connext-Alumni/pkg/response"
)

// RateLimiter implements sliding-window rate limiting per client IP, backed
// by redis. When no redis client is configured the middleware is a no-op.
type RateLimiter struct {
	client   *redis.Client
	requests int
	window   time.Duration
	logger   zerolog.Logger
}

// NewRateLimiter creates a rate limiter. client may be nil to disable limiting.
func NewRateLimiter(client *redis.Client, requests int, window time.Duration, logger zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		client:   client,
		requests: requests,
		window:   window,
		logger:   logger,
	}
}

// Middleware returns the rate limiting middleware.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.client == nil {
			c.Next()
			return
		}

		key := "ratelimit:ip:" + c.ClientIP()
		allowed, remaining, resetAt := rl.checkAndIncrement(c, key)

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if !allowed {
			rl.logger.Warn().Str("client_ip", c.ClientIP()).Msg("rate limit exceeded")
			response.TooManyRequests(c, "too many requests, slow down")
			c.Abort()
			return
		}

		c.Next()
	}
}

// checkAndIncrement records the request in a sliding window and reports
// whether it is allowed, how many requests remain, and when the window resets.
func (rl *RateLimiter) checkAndIncrement(c *gin.Context, key string) (bool, int, time.Time) {
	ctx := c.Request.Context()
	now := time.Now()
	windowStart := now.Add(-rl.window)

	pipe := rl.client.Pipeline()

	// Drop entries that slid out of the window, count what's left, then
	// record this request with a unique member.
	pipe.ZRemRangeByScore(ctx, key, "-inf", fmt.Sprintf("%d", windowStart.UnixMilli()))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixMilli()),
		Member: fmt.Sprintf("%d", now.UnixNano()),
	})
	pipe.Expire(ctx, key, rl.window*2)

	if _, err := pipe.Exec(ctx); err != nil {
		// Fail open: a broken limiter must not take the API down.
		rl.logger.Error().Err(err).Msg("rate limiter redis pipeline failed")
		return true, rl.requests, now.Add(rl.window)
	}

	count := int(countCmd.Val())
	remaining := rl.requests - count - 1
	if remaining < 0 {
		remaining = 0
	}

	return count < rl.requests, remaining, now.Add(rl.window)
}
