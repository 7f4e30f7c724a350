package ratelimit

import (
	"context"
	"time"
)

// Decision reports the outcome of one rate limit check.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter counts requests per key over a rolling fixed window. The
// check-and-increment must be atomic per key: two concurrent calls for the
// same key may never both observe the same count.
//
// The gate only depends on this interface, so the in-process implementation
// can be swapped for a shared store without touching gate code.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error)
}
