package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per key
type RateLimiter struct {
	mu       sync.Mutex
	entries  map[string]*entry
	burst    int
	perSec   rate.Limit
	ttl      time.Duration
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a keyed limiter.
// burst: maximum number of requests allowed in a burst per key
// perSecond: sustained requests per second per key
// ttl: time to keep inactive keys in memory (0 = forever)
func NewRateLimiter(burst int, perSecond float64, ttl time.Duration) *RateLimiter {
	rl := &RateLimiter{
		entries: make(map[string]*entry),
		burst:   burst,
		perSec:  rate.Limit(perSecond),
		ttl:     ttl,
		now:     time.Now,
		stop:    make(chan struct{}),
	}

	if ttl > 0 {
		go rl.cleanup()
	}
	return rl
}

// Allow reports whether one more request for key fits in its bucket
func (rl *RateLimiter) Allow(key string) bool {
	now := rl.now()

	rl.mu.Lock()
	e, ok := rl.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(rl.perSec, rl.burst)}
		rl.entries[key] = e
	}
	e.lastSeen = now
	rl.mu.Unlock()

	return e.limiter.AllowN(now, 1)
}

// RetryAfter returns how long key has to wait for its next token
func (rl *RateLimiter) RetryAfter(key string) time.Duration {
	rl.mu.Lock()
	e, ok := rl.entries[key]
	rl.mu.Unlock()
	if !ok {
		return 0
	}

	now := rl.now()
	r := e.limiter.ReserveN(now, 1)
	defer r.CancelAt(now)
	if !r.OK() {
		return 0
	}
	return r.DelayFrom(now)
}

// Reset forgets the bucket for key
func (rl *RateLimiter) Reset(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.entries, key)
}

// Len returns the number of tracked keys
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.entries)
}

// Close stops the cleanup goroutine
func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.evict()
		}
	}
}

// evict removes keys idle for longer than ttl
func (rl *RateLimiter) evict() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, e := range rl.entries {
		if now.Sub(e.lastSeen) > rl.ttl {
			delete(rl.entries, key)
		}
	}
}
