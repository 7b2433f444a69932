// Package ratelimit provides attempt limiting for the login flow.
//
// The Limiter interface is backed by a shared store (Redis) in real
// deployments; the in-memory implementation exists for tests and single
// process development only, since a per-process counter cannot protect a
// horizontally scaled service.
package ratelimit

import (
	"context"
	"time"
)

// Result is the outcome of a limit check.
type Result struct {
	Allowed bool
	// RetryAfter is how long the caller should wait before trying again.
	// Only meaningful when Allowed is false.
	RetryAfter time.Duration
}

// Limiter counts attempts per key within a fixed window. An error means the
// backing store could not be reached; callers must treat that as a denial.
type Limiter interface {
	Check(ctx context.Context, key string) (Result, error)
}
