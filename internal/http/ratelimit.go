package http

import (
	"sync"
	"sync/atomic"
	"time"
)

// rateLimiter throttles per client IP with a fixed-window counter: the
// first request stamps the window, later requests count against it, and a
// request arriving after the window has lapsed starts a fresh one.
type rateLimiter struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	windows map[string]*requestWindow

	done     chan struct{}
	stopOnce sync.Once
}

type requestWindow struct {
	started time.Time
	count   int
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		limit:   limit,
		window:  window,
		windows: make(map[string]*requestWindow),
		done:    make(chan struct{}),
	}
	go rl.sweep()
	return rl
}

// allow counts one request against ip's current window and reports whether
// it stayed within the limit.
func (rl *rateLimiter) allow(ip string, metrics *securityMetrics) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[ip]
	if !ok || now.Sub(w.started) > rl.window {
		rl.windows[ip] = &requestWindow{started: now, count: 1}
		return true
	}

	w.count++
	if w.count > rl.limit {
		if metrics != nil {
			atomic.AddInt64(&metrics.rateLimitHits, 1)
		}
		return false
	}
	return true
}

// sweep periodically drops windows that lapsed long enough ago that they
// can never deny a request again, keeping the map bounded by active IPs.
func (rl *rateLimiter) sweep() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-2 * rl.window)
			rl.mu.Lock()
			for ip, w := range rl.windows {
				if w.started.Before(cutoff) {
					delete(rl.windows, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.stopOnce.Do(func() {
		close(rl.done)
	})
}
