package chat

import (
	"sync"
	"time"
)

// RateLimiter admits or rejects requests per user over a trailing time
// window. Entries older than the window are pruned on every check; the
// prune-then-append sequence runs under one critical section.
type RateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	byUser map[int64][]time.Time
}

// NewRateLimiter creates a limiter admitting at most max requests per user
// within the trailing window.
func NewRateLimiter(window time.Duration, max int) *RateLimiter {
	return &RateLimiter{
		window: window,
		max:    max,
		byUser: make(map[int64][]time.Time),
	}
}

// TryAdmit reports whether a request at the given instant is admitted.
// On admission the instant is recorded; on rejection no state changes, so
// a rejected request leaves no trace.
func (l *RateLimiter) TryAdmit(userID int64, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := now.Add(-l.window)
	recent := l.byUser[userID][:0]
	for _, t := range l.byUser[userID] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.max {
		l.byUser[userID] = recent
		return false
	}

	l.byUser[userID] = append(recent, now)
	return true
}
