package server

import (
	"sync"
	"time"
)

const (
	defaultRateLimit  = 30
	defaultRateWindow = time.Minute
)

// rateLimiter is a fixed-window counter keyed by client. The public bill
// endpoint sits behind it because the access code is the only credential
// there and codes must not be enumerable by brute force.
type rateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	windows map[string]rateWindow
}

type rateWindow struct {
	start time.Time
	count int
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	if limit <= 0 {
		limit = defaultRateLimit
	}
	if window <= 0 {
		window = defaultRateWindow
	}
	return &rateLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		windows: make(map[string]rateWindow),
	}
}

// Allow reports whether the key may make another request in the current
// window. Keys that have been idle for a full window are evicted on the
// way through, so the map stays bounded by active clients.
func (r *rateLimiter) Allow(key string) bool {
	if key == "" {
		return false
	}

	now := r.now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictStale(now)

	w, ok := r.windows[key]
	if !ok || now.Sub(w.start) > r.window {
		w = rateWindow{start: now}
	}
	if w.count >= r.limit {
		return false
	}
	w.count++
	r.windows[key] = w
	return true
}

func (r *rateLimiter) evictStale(now time.Time) {
	for key, w := range r.windows {
		if now.Sub(w.start) > r.window {
			delete(r.windows, key)
		}
	}
}
