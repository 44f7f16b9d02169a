package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter implements a simple token bucket rate limiter
type RateLimiter struct {
	mu           sync.Mutex
	tokens       map[string]int
	lastRefill   map[string]time.Time
	maxTokens    int
	refillRate   int           // tokens per refill
	refillPeriod time.Duration // how often to refill
}

// NewRateLimiter creates a new rate limiter
// maxTokens: maximum tokens per client
// refillRate: how many tokens to add per refill period
// refillPeriod: how often to refill tokens
func NewRateLimiter(maxTokens, refillRate int, refillPeriod time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:       make(map[string]int),
		lastRefill:   make(map[string]time.Time),
		maxTokens:    maxTokens,
		refillRate:   refillRate,
		refillPeriod: refillPeriod,
	}
}

// Allow checks if a request should be allowed for the given key
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()

	// Initialize if first time
	if _, exists := rl.tokens[key]; !exists {
		rl.tokens[key] = rl.maxTokens
		rl.lastRefill[key] = now
	}

	// Refill tokens
	elapsed := now.Sub(rl.lastRefill[key])
	refills := int(elapsed / rl.refillPeriod)
	if refills > 0 {
		rl.tokens[key] += refills * rl.refillRate
		if rl.tokens[key] > rl.maxTokens {
			rl.tokens[key] = rl.maxTokens
		}
		rl.lastRefill[key] = now
	}

	// Check if we have tokens
	if rl.tokens[key] > 0 {
		rl.tokens[key]--
		return true
	}

	return false
}

// Remaining returns the remaining tokens for a key
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.tokens[key]
}

// NewPerMinuteRateLimiter allows n requests per client per minute.
func NewPerMinuteRateLimiter(n int) *RateLimiter {
	return NewRateLimiter(n, n, time.Minute)
}

// RateLimitMiddleware creates a rate limiting middleware keyed by client IP
func RateLimitMiddleware(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		if !rl.Allow(key) {
			c.Header("X-RateLimit-Remaining", strconv.Itoa(rl.Remaining(key)))
			c.Header("X-RateLimit-Limit", strconv.Itoa(rl.maxTokens))
			RespondErrorWithRetry(c, http.StatusTooManyRequests, ErrCodeRateLimited,
				"Too many requests, please try again later",
				int(rl.refillPeriod.Milliseconds()))
			c.Abort()
			return
		}

		// Set rate limit headers
		c.Header("X-RateLimit-Remaining", strconv.Itoa(rl.Remaining(key)))
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.maxTokens))

		c.Next()
	}
}
