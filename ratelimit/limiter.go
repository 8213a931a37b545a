// Package ratelimit provides the shared per-client admission gate in front
// of the pipeline coordinator.
package ratelimit

import (
	"sync"
	"time"
)

// Default admission settings.
const (
	DefaultCeiling = 100
	DefaultWindow  = 60 * time.Second
)

// Limiter is a sliding-log rate limiter: per client it keeps the admission
// timestamps inside the trailing window and admits while their count is
// below the ceiling. Memory is bounded by admitted traffic volume rather
// than wall-clock buckets. Safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	ceiling int
	window  time.Duration
	hits    map[string][]time.Time

	// lastSweep throttles eviction of idle clients to once per window.
	lastSweep time.Time

	// now is swappable for tests.
	now func() time.Time
}

// Option customizes a Limiter.
type Option func(*Limiter)

// WithClock overrides the limiter's time source.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New creates a limiter admitting up to ceiling requests per client within
// the trailing window. Non-positive arguments fall back to the defaults.
func New(ceiling int, window time.Duration, opts ...Option) *Limiter {
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}
	if window <= 0 {
		window = DefaultWindow
	}
	l := &Limiter{
		ceiling: ceiling,
		window:  window,
		hits:    make(map[string][]time.Time),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow reports whether a request from clientID is admitted, recording the
// admission timestamp when it is. A rejected request leaves no trace, so
// rejections never extend a client's lockout.
func (l *Limiter) Allow(clientID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)
	l.sweep(now, cutoff)

	recent := l.hits[clientID][:0]
	for _, ts := range l.hits[clientID] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= l.ceiling {
		l.hits[clientID] = recent
		return false
	}

	l.hits[clientID] = append(recent, now)
	return true
}

// sweep drops clients whose whole log has aged out of the window, so entries
// for clients that stopped sending do not accumulate on a long-running
// server. Runs at most once per window; callers hold the mutex.
func (l *Limiter) sweep(now, cutoff time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	l.lastSweep = now
	for id, log := range l.hits {
		if len(log) == 0 || !log[len(log)-1].After(cutoff) {
			delete(l.hits, id)
		}
	}
}
