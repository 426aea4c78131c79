package service

import (
	"sync"
	"time"

	"easypay/internal/core/ports"
)

// slidingWindowLimiter implements ports.RateLimiter with an in-process,
// per-identity sliding window over the last minute and the last hour. It
// is process-local: under horizontal scale-out each instance enforces its
// own share of the configured limits.
type slidingWindowLimiter struct {
	mu sync.Mutex

	perMinute int
	perHour   int

	clock   ports.Clock
	windows map[string][]time.Time
}

// NewRateLimiter creates a sliding-window limiter allowing up to perMinute
// requests in any trailing 60s window and perHour requests in any trailing
// 3600s window per identity.
func NewRateLimiter(perMinute, perHour int, clock ports.Clock) ports.RateLimiter {
	return &slidingWindowLimiter{
		perMinute: perMinute,
		perHour:   perHour,
		clock:     clock,
		windows:   make(map[string][]time.Time),
	}
}

// Allow admits or rejects a request for identity, pruning entries older
// than the hour window on every call so idle identities don't leak memory.
func (l *slidingWindowLimiter) Allow(identity string) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	minuteAgo := now.Add(-time.Minute)
	hourAgo := now.Add(-time.Hour)

	window := l.windows[identity]
	window = pruneOlderThan(window, hourAgo)

	minuteCount := countAfter(window, minuteAgo)
	if minuteCount >= l.perMinute {
		l.windows[identity] = window
		return false, 60
	}

	hourCount := len(window)
	if hourCount >= l.perHour {
		l.windows[identity] = window
		return false, int(window[0].Add(time.Hour).Sub(now).Seconds()) + 1
	}

	window = append(window, now)
	l.windows[identity] = window
	return true, 0
}

func pruneOlderThan(window []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(window) && !window[i].After(cutoff) {
		i++
	}
	return window[i:]
}

func countAfter(window []time.Time, cutoff time.Time) int {
	count := 0
	for _, t := range window {
		if t.After(cutoff) {
			count++
		}
	}
	return count
}
