package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"noterelay/internal/config"
	"noterelay/pkg/metrics"
)

type Limiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
	mu       sync.Mutex
}

// Store keeps one token bucket per client IP.
type Store struct {
	cfg      config.RateLimitConfig
	limiters map[string]*Limiter
	mu       sync.RWMutex
}

func NewStore(cfg config.RateLimitConfig) *Store {
	return &Store{
		cfg:      cfg,
		limiters: make(map[string]*Limiter),
	}
}

// RunCleanup evicts limiters idle for longer than MaxAge until ctx is done.
func (s *Store) RunCleanup(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.evictIdle(now)
		}
	}
}

func (s *Store) evictIdle(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ip, limiter := range s.limiters {
		limiter.mu.Lock()
		lastSeen := limiter.lastSeen
		limiter.mu.Unlock()
		if now.Sub(lastSeen) > s.cfg.MaxAge {
			delete(s.limiters, ip)
		}
	}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.limiters)
}

func (s *Store) get(clientIP string) *Limiter {
	s.mu.RLock()
	limiter, exists := s.limiters[clientIP]
	s.mu.RUnlock()

	if !exists {
		s.mu.Lock()
		limiter, exists = s.limiters[clientIP]
		if !exists {
			limiter = &Limiter{
				limiter:  rate.NewLimiter(rate.Limit(s.cfg.RPS), s.cfg.Burst),
				lastSeen: time.Now(),
			}
			s.limiters[clientIP] = limiter
		}
		s.mu.Unlock()
	}

	limiter.mu.Lock()
	limiter.lastSeen = time.Now()
	limiter.mu.Unlock()

	return limiter
}

func (s *Store) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		if clientIP == "" {
			clientIP = c.RemoteIP()
		}

		limiter := s.get(clientIP)
		c.Header("X-RateLimit-Limit", formatRate(s.cfg.RPS))

		if !limiter.limiter.Allow() {
			metrics.RateLimitRequestsTotal.WithLabelValues("limited").Inc()
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", "1")
			c.String(http.StatusTooManyRequests, "rate limit exceeded")
			c.Abort()
			return
		}

		metrics.RateLimitRequestsTotal.WithLabelValues("allowed").Inc()

		remaining := int(limiter.limiter.Tokens())
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		c.Next()
	}
}

func formatRate(rps float64) string {
	return strconv.FormatFloat(rps, 'f', -1, 64)
}
