package ratelimit

import (
	"sync"
	"time"
)

// memoryLimiter is a single-process token bucket used when Redis is not
// configured.
type memoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*memoryBucket
	rate    float64
	burst   int
}

type memoryBucket struct {
	tokens float64
	ts     time.Time
}

func newMemoryLimiter(rate float64, burst int) *memoryLimiter {
	return &memoryLimiter{
		buckets: make(map[string]*memoryBucket),
		rate:    rate,
		burst:   burst,
	}
}

func (m *memoryLimiter) Allow(key string) *Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	bucket, ok := m.buckets[key]
	if !ok {
		bucket = &memoryBucket{tokens: float64(m.burst), ts: now}
		m.buckets[key] = bucket
	} else {
		delta := now.Sub(bucket.ts).Seconds()
		if delta < 0 {
			delta = 0
		}
		bucket.tokens = min(float64(m.burst), bucket.tokens+delta*m.rate)
		bucket.ts = now
	}

	allowed := bucket.tokens >= 1
	if allowed {
		bucket.tokens--
	}

	retryAfter := time.Duration(0)
	if !allowed {
		if needed := 1.0 - bucket.tokens; needed > 0 {
			retryAfter = time.Duration(needed / m.rate * float64(time.Second))
		}
	}

	return &Result{
		Allowed:    allowed,
		Limit:      m.burst,
		Remaining:  int(bucket.tokens),
		RetryAfter: retryAfter,
	}
}
