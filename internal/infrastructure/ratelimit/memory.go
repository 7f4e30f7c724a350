package ratelimit

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter is the default process-local limiter: one counter bucket per
// key, window reset performed lazily on the first check after the window
// elapses. Buckets for idle keys stay in memory until Cleanup runs.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket

	now func() time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow performs the read-check-increment atomically under the limiter lock.
func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	b, exists := l.buckets[key]
	if !exists || !now.Before(b.resetAt) {
		b = &bucket{count: 0, resetAt: now.Add(window)}
		l.buckets[key] = b
	}

	if b.count >= limit {
		return Decision{Allowed: false, Remaining: 0, ResetAt: b.resetAt}, nil
	}

	b.count++
	return Decision{Allowed: true, Remaining: limit - b.count, ResetAt: b.resetAt}, nil
}

// Cleanup drops buckets whose window has long passed. Run it periodically;
// correctness does not depend on it.
func (l *MemoryLimiter) Cleanup(idleFor time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, b := range l.buckets {
		if now.Sub(b.resetAt) > idleFor {
			delete(l.buckets, key)
		}
	}
}

// StartCleanup sweeps idle buckets until ctx is cancelled.
func (l *MemoryLimiter) StartCleanup(ctx context.Context, every, idleFor time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Cleanup(idleFor)
		}
	}
}
