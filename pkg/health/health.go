// Package health runs periodic self-checks for a long-lived session.
//
// Each registered check runs in its own background goroutine at a configurable
// interval. Checks use failure/success thresholds to avoid flapping: a check
// must fail consecutively failureThreshold times before being marked
// unhealthy, and succeed successThreshold times before being marked healthy
// again.
package health

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// CheckFunc is a health check function. It should return nil if the checked
// component is healthy, or an error describing the problem.
type CheckFunc func(ctx context.Context) error

// checkConfig holds the configuration and runtime state for a single check.
//
// Concurrency model: run() is called from exactly one goroutine (the ticker).
// The counters (consecutiveFails, consecutiveOK) are only accessed by run(),
// so they need no synchronization. The healthy flag and lastErr are read by
// status callers from arbitrary goroutines, so they use atomic operations.
type checkConfig struct {
	name             string
	timeout          time.Duration
	check            CheckFunc
	failureThreshold int
	successThreshold int

	// healthy is read by status callers (atomic load) and written by run() (atomic store).
	healthy atomic.Bool

	// lastErr stores the most recent error from run(). Read by status callers
	// via atomic load; written by run() via atomic store.
	lastErr atomic.Pointer[error]

	// counters are only accessed from the single run() goroutine.
	consecutiveFails int
	consecutiveOK    int
}

// isHealthy returns the current health status of this check.
func (c *checkConfig) isHealthy() bool {
	return c.healthy.Load()
}

// getLastError returns the most recent error from this check, or nil.
func (c *checkConfig) getLastError() error {
	if p := c.lastErr.Load(); p != nil {
		return *p
	}
	return nil
}

// run executes the check once and updates thresholds accordingly.
// Must be called from a single goroutine.
func (c *checkConfig) run(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.check(checkCtx)
	c.lastErr.Store(&err)

	if err != nil {
		c.consecutiveOK = 0
		c.consecutiveFails++
		if c.consecutiveFails >= c.failureThreshold {
			c.healthy.Store(false)
		}
	} else {
		c.consecutiveFails = 0
		c.consecutiveOK++
		if c.consecutiveOK >= c.successThreshold {
			c.healthy.Store(true)
		}
	}
}

// Health manages the self-checks of a session.
type Health struct {
	ready atomic.Bool

	// mu protects the check slice and cancel. Only held during registration
	// (before Start) and in Start/Stop. Status callers snapshot the slice
	// under RLock then release immediately.
	mu     sync.RWMutex
	checks []*checkConfig
	cancel context.CancelFunc
}

// New creates a new Health instance. The session starts in a not-ready state;
// call SetReady(true) once initialization has finished.
func New() *Health {
	return &Health{}
}

// AddCheck registers a check. Examples: goroutine count, store directory
// writability.
func (h *Health) AddCheck(name string, timeout time.Duration, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c := &checkConfig{
		name:             name,
		timeout:          timeout,
		check:            check,
		failureThreshold: 3,
		successThreshold: 1,
	}
	c.healthy.Store(true) // assume healthy until proven otherwise
	h.checks = append(h.checks, c)
}

// Start begins running all registered checks in background goroutines at the
// given interval. Each check runs in its own goroutine. Start should be called
// once after all checks are registered.
func (h *Health) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	h.mu.Lock()
	h.cancel = cancel
	checks := make([]*checkConfig, len(h.checks))
	copy(checks, h.checks)
	h.mu.Unlock()

	for _, c := range checks {
		go runCheck(ctx, c, interval)
	}
}

// runCheck periodically executes a single check until the context is cancelled.
func runCheck(ctx context.Context, c *checkConfig, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run immediately on start.
	c.run(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.run(ctx)
		}
	}
}

// SetReady manually sets the readiness state. This is typically called with
// true after initialization completes, and with false during graceful
// shutdown.
func (h *Health) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports whether the session may accept interactions. It returns
// true only if the session has been manually marked ready AND all checks are
// currently passing.
func (h *Health) IsReady() bool {
	if !h.ready.Load() {
		return false
	}

	h.mu.RLock()
	checks := h.checks
	h.mu.RUnlock()

	for _, c := range checks {
		if !c.isHealthy() {
			return false
		}
	}
	return true
}

// Failures returns a map of check name to error message for every check that
// is currently unhealthy. Uses the stored last error from run() rather than
// re-executing the check function. An empty map means all checks pass.
func (h *Health) Failures() map[string]string {
	h.mu.RLock()
	checks := make([]*checkConfig, len(h.checks))
	copy(checks, h.checks)
	h.mu.RUnlock()

	failures := make(map[string]string)
	for _, c := range checks {
		if !c.isHealthy() {
			if err := c.getLastError(); err != nil {
				failures[c.name] = err.Error()
			} else {
				failures[c.name] = "check is unhealthy"
			}
		}
	}
	return failures
}

// Stop cancels all background check goroutines. It is safe to call Stop
// multiple times.
func (h *Health) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
}
