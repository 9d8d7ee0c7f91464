package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yschu/twitter/backend/internal/errors"
	"github.com/yschu/twitter/backend/internal/metrics"
	"github.com/yschu/twitter/backend/internal/util"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Window duration
	Window time.Duration
}

// DefaultRateLimitConfig returns sensible defaults for general endpoints
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:  100,
		Window: time.Minute,
	}
}

// AuthRateLimitConfig returns stricter limits for login and registration
func AuthRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:  10,
		Window: time.Minute,
	}
}

// UploadRateLimitConfig returns limits for profile image uploads
func UploadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:  20,
		Window: time.Minute,
	}
}

// TokenBucket is a refillable per-client request budget
type TokenBucket struct {
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	mu         sync.Mutex
}

// NewTokenBucket creates a new token bucket
func NewTokenBucket(maxTokens, refillRate float64) *TokenBucket {
	return &TokenBucket{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// Allow consumes one token if available
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tb.tokens = min(tb.maxTokens, tb.tokens+elapsed*tb.refillRate)
	tb.lastRefill = now

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

// rateLimiter tracks per-client buckets and evicts idle entries
type rateLimiter struct {
	buckets map[string]*TokenBucket
	config  RateLimitConfig
	mu      sync.Mutex
}

func newRateLimiter(config RateLimitConfig) *rateLimiter {
	rl := &rateLimiter{
		buckets: make(map[string]*TokenBucket),
		config:  config,
	}
	go rl.cleanup()
	return rl
}

func (rl *rateLimiter) bucket(clientIP string) *TokenBucket {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	tb, ok := rl.buckets[clientIP]
	if !ok {
		refillRate := float64(rl.config.Limit) / rl.config.Window.Seconds()
		tb = NewTokenBucket(float64(rl.config.Limit), refillRate)
		rl.buckets[clientIP] = tb
	}
	return tb
}

// cleanup periodically drops buckets that would be full after refill,
// they carry no state
func (rl *rateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.evictIdle(time.Now())
	}
}

func (rl *rateLimiter) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, tb := range rl.buckets {
		tb.mu.Lock()
		// Tokens only refill inside Allow, so project the refill here
		refilled := min(tb.maxTokens, tb.tokens+now.Sub(tb.lastRefill).Seconds()*tb.refillRate)
		tb.mu.Unlock()
		if refilled >= tb.maxTokens {
			delete(rl.buckets, ip)
		}
	}
}

// RateLimitMiddleware enforces a per-IP request budget in memory.
// Used standalone in single-instance deployments and as the fallback
// when Redis is unavailable.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	rl := newRateLimiter(config)

	return func(c *gin.Context) {
		if !rl.bucket(c.ClientIP()).Allow() {
			metrics.Get().RateLimitExceededTotal.WithLabelValues(c.FullPath()).Inc()
			util.RespondWithAPIError(c, errors.RateLimited(""))
			c.Abort()
			return
		}
		c.Next()
	}
}
