package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/policy-rating-engine/internal/domain"
)

// RateLimiter tracks one token bucket per client IP. Idle clients are
// dropped by a background sweep so the map does not grow without bound.
type RateLimiter struct {
	logger    *logrus.Logger
	limit     rate.Limit
	burst     int
	clientTTL time.Duration

	mu      sync.Mutex
	clients map[string]*clientLimiter
	done    chan struct{}
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a rate limiter from the configuration and starts
// its cleanup goroutine. Stop must be called to release it.
func NewRateLimiter(cfg domain.RateLimitConfig, logger *logrus.Logger) *RateLimiter {
	ttl := cfg.ClientTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	rl := &RateLimiter{
		logger:    logger,
		limit:     rate.Limit(cfg.RequestsPerSecond),
		burst:     cfg.Burst,
		clientTTL: ttl,
		clients:   make(map[string]*clientLimiter),
		done:      make(chan struct{}),
	}

	go rl.sweep()

	return rl
}

// Allow reports whether a request from the client should proceed.
func (rl *RateLimiter) Allow(clientID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	client, ok := rl.clients[clientID]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[clientID] = client
	}
	client.lastSeen = time.Now()

	return client.limiter.Allow()
}

// ClientCount returns the number of tracked clients.
func (rl *RateLimiter) ClientCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// Stop terminates the cleanup goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.done)
}

// Middleware rejects over-limit requests with 429 and a Retry-After hint.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			rl.logger.WithFields(logrus.Fields{
				"client_ip":      c.ClientIP(),
				"correlation_id": c.GetString("correlation_id"),
			}).Warn("Request denied: rate limit exceeded")

			retryAfter := 1
			if rl.limit > 0 {
				retryAfter = int(1/float64(rl.limit)) + 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":          "rate limit exceeded",
				"code":           domain.ErrCodeRateLimit,
				"correlation_id": c.GetString("correlation_id"),
			})
			return
		}

		c.Next()
	}
}

// sweep periodically drops clients that have been idle past the TTL.
func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(rl.clientTTL)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.mu.Lock()
			cutoff := time.Now().Add(-rl.clientTTL)
			removed := 0
			for clientID, client := range rl.clients {
				if client.lastSeen.Before(cutoff) {
					delete(rl.clients, clientID)
					removed++
				}
			}
			rl.mu.Unlock()

			if removed > 0 {
				rl.logger.WithField("removed", removed).Debug("Swept idle rate limiter clients")
			}
		}
	}
}
