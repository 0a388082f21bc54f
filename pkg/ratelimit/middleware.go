package ratelimit

import (
	"fmt"
	"math"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/exp/slog"
)

// Config holds per-client HTTP rate limiting configuration
type Config struct {
	Burst     int
	PerSecond float64
	BucketTTL time.Duration
}

// Middleware limits requests per client IP
type Middleware struct {
	limiter *RateLimiter
}

// NewMiddleware creates a per-IP rate limiting middleware
func NewMiddleware(cfg Config) *Middleware {
	return &Middleware{
		limiter: NewRateLimiter(cfg.Burst, cfg.PerSecond, cfg.BucketTTL),
	}
}

// Handler returns the HTTP middleware handler
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !m.limiter.Allow(ip) {
			retry := m.limiter.RetryAfter(ip)
			slog.Warn("Rate limit exceeded", "ip", ip, "path", r.URL.Path)
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(math.Ceil(retry.Seconds()))))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Close releases the limiter's background goroutine
func (m *Middleware) Close() {
	m.limiter.Close()
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first, _, _ := strings.Cut(xff, ","); strings.TrimSpace(first) != "" {
			return strings.TrimSpace(first)
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
