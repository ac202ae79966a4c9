package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"usergraph/internal/adapter/telemetry"
)

// RateLimiter throttles per client IP over a fixed window. One limit covers
// the whole surface; the GraphQL endpoint is a single route anyway.
type RateLimiter struct {
	cache    *gocache.Cache
	requests int
	window   time.Duration
	logger   *zap.Logger
	metrics  *telemetry.AppMetrics
	mutex    sync.Mutex
}

type rateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

func NewRateLimiter(requests int, window time.Duration, logger *zap.Logger, metrics *telemetry.AppMetrics) *RateLimiter {
	return &RateLimiter{
		cache:    gocache.New(window, 2*window),
		requests: requests,
		window:   window,
		logger:   logger,
		metrics:  metrics,
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		key := fmt.Sprintf("rate_limit:%s", c.ClientIP())

		allowed, remaining, resetTime := rl.check(key)

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(path)
			}

			rl.logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.String("path", path),
				zap.Int("limit", rl.requests),
				zap.Duration("window", rl.window))

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"message":     fmt.Sprintf("Too many requests. Limit: %d per %v", rl.requests, rl.window),
				"retry_after": int(time.Until(resetTime).Seconds()),
			})
			c.Abort()
			return
		}

		if rl.metrics != nil {
			rl.metrics.RecordRateLimitAllowed(path)
		}

		c.Next()
	}
}

func (rl *RateLimiter) check(key string) (bool, int, time.Time) {
	now := time.Now()

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if raw, found := rl.cache.Get(key); found {
		entry := raw.(rateLimitEntry)

		if now.After(entry.ResetTime) {
			resetTime := now.Add(rl.window)
			rl.cache.Set(key, rateLimitEntry{Count: 1, ResetTime: resetTime}, rl.window)
			return true, rl.requests - 1, resetTime
		}

		if entry.Count >= rl.requests {
			return false, 0, entry.ResetTime
		}

		entry.Count++
		rl.cache.Set(key, entry, gocache.DefaultExpiration)

		return true, rl.requests - entry.Count, entry.ResetTime
	}

	resetTime := now.Add(rl.window)
	rl.cache.Set(key, rateLimitEntry{Count: 1, ResetTime: resetTime}, rl.window)

	return true, rl.requests - 1, resetTime
}
