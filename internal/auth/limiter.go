package auth

import (
	"sync"
	"time"
)

type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// Limiter is a per-key token bucket refilled at limitPerMin tokens per minute
type Limiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	capacity   float64
	refillRate float64 // tokens per second
	now        func() time.Time
}

// NewLimiter creates a limiter. A non-positive limit disables limiting.
func NewLimiter(limitPerMin int, now func() time.Time) *Limiter {
	if now == nil {
		now = time.Now
	}
	return &Limiter{
		buckets:    make(map[string]*bucket),
		capacity:   float64(limitPerMin),
		refillRate: float64(limitPerMin) / 60.0,
		now:        now,
	}
}

// Allow consumes one token for key and reports whether the request may proceed
func (l *Limiter) Allow(key string) bool {
	if l == nil || l.capacity <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		l.evictFull(now)
		b = &bucket{tokens: l.capacity, lastRefill: now}
		l.buckets[key] = b
	}

	b.tokens += now.Sub(b.lastRefill).Seconds() * l.refillRate
	if b.tokens > l.capacity {
		b.tokens = l.capacity
	}
	b.lastRefill = now

	if b.tokens < 1.0 {
		return false
	}
	b.tokens -= 1.0
	return true
}

// Len returns the number of tracked keys
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// evictFull drops buckets that have refilled to capacity; a full bucket
// behaves exactly like a missing one
func (l *Limiter) evictFull(now time.Time) {
	for key, b := range l.buckets {
		if b.tokens+now.Sub(b.lastRefill).Seconds()*l.refillRate >= l.capacity {
			delete(l.buckets, key)
		}
	}
}
