package http

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestRateLimiterWindow(t *testing.T) {
	rl := newRateLimiter(3, 25*time.Millisecond)
	defer rl.stop()
	metrics := &securityMetrics{}

	for i := 0; i < 3; i++ {
		if !rl.allow("10.0.0.1", metrics) {
			t.Fatalf("request %d denied under the limit", i+1)
		}
	}
	if rl.allow("10.0.0.1", metrics) {
		t.Fatal("request over the limit allowed")
	}
	if hits := atomic.LoadInt64(&metrics.rateLimitHits); hits != 1 {
		t.Fatalf("rateLimitHits = %d, want 1", hits)
	}

	// Limits are per IP.
	if !rl.allow("10.0.0.2", metrics) {
		t.Fatal("unrelated IP denied")
	}

	// A lapsed window resets the budget.
	time.Sleep(40 * time.Millisecond)
	if !rl.allow("10.0.0.1", metrics) {
		t.Fatal("request denied after the window lapsed")
	}
}

func TestRateLimiterNilMetrics(t *testing.T) {
	rl := newRateLimiter(1, time.Minute)
	defer rl.stop()

	rl.allow("10.0.0.9", nil)
	if rl.allow("10.0.0.9", nil) {
		t.Fatal("second request allowed with limit 1")
	}
}
