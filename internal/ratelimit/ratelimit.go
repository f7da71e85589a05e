// Package ratelimit provides a keyed rate limiter using the token
// bucket algorithm. Booking endpoints use it to throttle per-client
// request rates.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// staleAfter is how long an idle key's limiter is retained. Booking
// keys are client addresses, so the map would grow without bound
// otherwise.
const staleAfter = 10 * time.Minute

// KeyedRateLimiter manages per-key rate limiting. Each unique key gets
// its own independent token bucket.
type KeyedRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	limit    rate.Limit
	burst    int

	done     chan struct{}
	stopOnce sync.Once
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewPerMinute creates a keyed rate limiter allowing perMinute
// requests per key with the given burst.
func NewPerMinute(perMinute int, burst int) *KeyedRateLimiter {
	krl := &KeyedRateLimiter{
		limiters: make(map[string]*entry),
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
		done:     make(chan struct{}),
	}

	go krl.cleanup()

	return krl
}

// Allow checks if a request for the given key should be allowed.
// Returns immediately without blocking.
func (krl *KeyedRateLimiter) Allow(key string) bool {
	krl.mu.Lock()
	defer krl.mu.Unlock()

	e, ok := krl.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(krl.limit, krl.burst)}
		krl.limiters[key] = e
	}
	e.lastSeen = time.Now()

	return e.limiter.Allow()
}

// Stop shuts down the cleanup goroutine.
func (krl *KeyedRateLimiter) Stop() {
	krl.stopOnce.Do(func() {
		close(krl.done)
	})
}

// cleanup periodically evicts limiters that have been idle long enough
// that their buckets are full again anyway.
func (krl *KeyedRateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-krl.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-staleAfter)
			krl.mu.Lock()
			for key, e := range krl.limiters {
				if e.lastSeen.Before(cutoff) {
					delete(krl.limiters, key)
				}
			}
			krl.mu.Unlock()
		}
	}
}
