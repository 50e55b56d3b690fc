package middleware

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campustix/campustix/internal/http/response"
	"github.com/campustix/campustix/pkg/logger"
)

// RateLimiter enforces a fixed-window per-IP request limit backed by Redis.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRateLimiter(client *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window}
}

// Limit wraps a handler chain with the limiter under the given key prefix,
// so different route groups keep separate counters.
func (rl *RateLimiter) Limit(prefix string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			key := fmt.Sprintf("ratelimit:%s:%s", prefix, ip)

			count, err := rl.client.Incr(r.Context(), key).Result()
			if err != nil {
				// Redis being down should not take auth down with it.
				logger.ErrorContext(r.Context(), "rate limiter unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				rl.client.Expire(r.Context(), key, rl.window)
			}
			if count > int64(rl.limit) {
				response.RateLimit(w, "too many requests, try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
