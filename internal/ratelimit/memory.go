package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count    int
	resetsAt time.Time
}

// MemoryLimiter is a fixed-window limiter held in process memory.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
	now     func() time.Time
}

// NewMemoryLimiter creates an in-memory limiter allowing limit attempts per period.
func NewMemoryLimiter(limit int, period time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Check(_ context.Context, key string) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.After(w.resetsAt) {
		l.windows[key] = &window{count: 1, resetsAt: now.Add(l.period)}
		return Result{Allowed: true}, nil
	}

	w.count++
	if w.count > l.limit {
		return Result{RetryAfter: w.resetsAt.Sub(now)}, nil
	}
	return Result{Allowed: true}, nil
}

// Sweep drops expired windows. Callers run it periodically from a goroutine.
func (l *MemoryLimiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, w := range l.windows {
		if now.After(w.resetsAt) {
			delete(l.windows, key)
		}
	}
}
