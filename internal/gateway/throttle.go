package gateway

import (
	"context"
	"sync"
	"time"
)

// Throttle is a token-bucket limiter shared by every session on one
// account. The orchestrator only staggers startup; sustained request
// pacing against the exchange's account-wide budget happens here.
type Throttle struct {
	capacity   int
	tokens     int
	refillRate int // tokens per second
	lastRefill time.Time
	mu         sync.Mutex
}

// NewThrottle creates a throttle with the given burst capacity and
// per-second refill rate.
func NewThrottle(capacity, refillRate int) *Throttle {
	return &Throttle{
		capacity:   capacity,
		tokens:     capacity,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// Wait blocks until a request token is available or ctx is cancelled.
func (t *Throttle) Wait(ctx context.Context) error {
	for {
		if t.take() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(t.waitTime()):
		}
	}
}

func (t *Throttle) take() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.refill()
	if t.tokens > 0 {
		t.tokens--
		return true
	}
	return false
}

func (t *Throttle) refill() {
	now := time.Now()
	elapsed := now.Sub(t.lastRefill)
	if elapsed < time.Second {
		return
	}

	added := int(elapsed.Seconds()) * t.refillRate
	if added > 0 {
		t.tokens += added
		if t.tokens > t.capacity {
			t.tokens = t.capacity
		}
		t.lastRefill = now
	}
}

func (t *Throttle) waitTime() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.refill()
	if t.tokens > 0 {
		return 0
	}
	// One token plus a small buffer for timing precision.
	return time.Second/time.Duration(t.refillRate) + 50*time.Millisecond
}
