// Package ratelimit provides fixed-window request rate limiting keyed by
// opaque identifier strings. It includes HTTP middleware that sets standard
// rate limit response headers and a per-endpoint rule table.
//
// The registry is process-local. Behind a load balancer each instance
// enforces its own quota, so the effective global quota is the configured
// quota times the instance count. Cross-instance enforcement would require
// an external counter store and is a known limitation of this design.
package ratelimit

import (
	"sync"
	"time"
)

// Result is the outcome of an admission check, consumed by callers to
// populate response headers and 429 bodies. Rejection is a value, not an
// error.
type Result struct {
	Allowed   bool          // Whether the request may proceed
	Remaining int           // Requests left in the current window
	ResetIn   time.Duration // Time until the window resets
}

// record tracks accepted requests for one identifier within its current window.
type record struct {
	count       int
	windowStart time.Time
}

// Registry is an in-memory fixed-window rate limit registry. Each identifier
// gets its own counter. A background goroutine periodically evicts records
// older than the configured maximum window, and a size cap evicts the single
// oldest record when a new identifier would grow the registry past the cap.
// Both bounds are needed: the sweep bounds steady-state memory, the cap
// bounds worst-case memory under a flood of distinct identifiers between
// sweeps.
type Registry struct {
	maxEntries    int
	sweepInterval time.Duration
	maxWindow     time.Duration
	now           func() time.Time

	mu      sync.Mutex
	records map[string]*record
	done    chan struct{}
	closed  bool
}

// Option configures optional Registry behavior.
type Option func(*Registry)

// WithClock replaces the registry's time source. Used by tests to simulate
// window expiry without sleeping.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// NewRegistry creates a rate limit registry with the given size cap, sweep
// interval, and maximum window ceiling. It starts a background goroutine for
// eviction; callers must Close the registry on shutdown.
func NewRegistry(maxEntries int, sweepInterval, maxWindow time.Duration, opts ...Option) *Registry {
	if maxEntries <= 0 {
		panic("ratelimit: maxEntries must be positive")
	}
	if sweepInterval <= 0 || maxWindow <= 0 {
		panic("ratelimit: sweepInterval and maxWindow must be positive")
	}

	r := &Registry{
		maxEntries:    maxEntries,
		sweepInterval: sweepInterval,
		maxWindow:     maxWindow,
		now:           time.Now,
		records:       make(map[string]*record),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	go r.sweepLoop()
	return r
}

// Check decides whether a request identified by identifier may proceed,
// given a maximum request count within a fixed window. It mutates the
// shared registry and performs no I/O.
//
// Non-positive maxRequests or window is programmer error and panics.
func (r *Registry) Check(identifier string, maxRequests int, window time.Duration) Result {
	if maxRequests <= 0 {
		panic("ratelimit: maxRequests must be positive")
	}
	if window <= 0 {
		panic("ratelimit: window must be positive")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	rec, exists := r.records[identifier]

	// Absent record or elapsed window: start a fresh window.
	if !exists || now.Sub(rec.windowStart) > window {
		if !exists && len(r.records) >= r.maxEntries {
			r.evictOldestLocked()
		}
		r.records[identifier] = &record{count: 1, windowStart: now}
		return Result{Allowed: true, Remaining: maxRequests - 1, ResetIn: window}
	}

	if rec.count >= maxRequests {
		return Result{Allowed: false, Remaining: 0, ResetIn: window - now.Sub(rec.windowStart)}
	}

	rec.count++
	return Result{
		Allowed:   true,
		Remaining: maxRequests - rec.count,
		ResetIn:   window - now.Sub(rec.windowStart),
	}
}

// Len returns the current number of tracked identifiers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Close stops the background sweep goroutine.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.closed {
		r.closed = true
		close(r.done)
	}
}

// sweepLoop periodically evicts records older than the maximum window.
func (r *Registry) sweepLoop() {
	ticker := time.NewTicker(r.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

// sweep removes every record whose window started longer ago than the
// maximum window ceiling. One bounded pass under the lock.
func (r *Registry) sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.maxWindow)
	for key, rec := range r.records {
		if rec.windowStart.Before(cutoff) {
			delete(r.records, key)
		}
	}
}

// evictOldestLocked removes the single record with the oldest window start.
// Caller must hold r.mu.
func (r *Registry) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	first := true
	for key, rec := range r.records {
		if first || rec.windowStart.Before(oldest) {
			oldestKey = key
			oldest = rec.windowStart
			first = false
		}
	}
	if oldestKey != "" {
		delete(r.records, oldestKey)
	}
}
