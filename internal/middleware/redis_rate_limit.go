package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yschu/twitter/backend/internal/cache"
	"github.com/yschu/twitter/backend/internal/errors"
	"github.com/yschu/twitter/backend/internal/logger"
	"github.com/yschu/twitter/backend/internal/metrics"
	"github.com/yschu/twitter/backend/internal/util"
)

// RedisRateLimitMiddleware enforces a per-IP request budget in Redis so
// the limit holds across instances. When Redis is not configured it
// falls back to the in-memory limiter.
func RedisRateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	fallback := RateLimitMiddleware(config)

	return func(c *gin.Context) {
		redisClient := cache.GetRedisClient()
		if redisClient == nil {
			fallback(c)
			return
		}

		clientIP := c.ClientIP()
		key := fmt.Sprintf("rate_limit:%s:%s", c.FullPath(), clientIP)
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		count, err := redisClient.IncrBy(ctx, key, 1)
		if err != nil {
			// Degrade to the in-memory limiter rather than failing open
			logger.Log.Warn("Redis rate limit check failed, using local limiter",
				logger.WithIP(clientIP),
				zap.Error(err),
			)
			fallback(c)
			return
		}

		if count == 1 {
			if err := redisClient.Expire(ctx, key, config.Window); err != nil {
				logger.Log.Warn("failed to set rate limit expiration",
					logger.WithIP(clientIP),
					zap.Error(err),
				)
			}
		}

		if count > int64(config.Limit) {
			logger.Log.Warn("rate limit exceeded",
				logger.WithIP(clientIP),
				zap.Int("limit", config.Limit),
				zap.Int64("requests", count),
			)
			metrics.Get().RateLimitExceededTotal.WithLabelValues(c.FullPath()).Inc()
			util.RespondWithAPIError(c, errors.RateLimited(""))
			c.Abort()
			return
		}

		c.Next()
	}
}
