package handlers

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH CHECKS
// The portal probes Postgres and Redis; a failed probe flips readiness so a
// load balancer stops routing to this instance while it still answers /live.
// ══════════════════════════════════════════════════════════════════════════════

// HealthChecker aggregates the service's health probes.
type HealthChecker interface {
	Check(ctx context.Context) HealthStatus
}

// HealthCheckFunc probes one dependency, returning an error on failure.
type HealthCheckFunc func(ctx context.Context) error

// HealthStatus is the aggregated result reported on /health.
type HealthStatus struct {
	Healthy   bool                   `json:"healthy"`
	Ready     bool                   `json:"ready"`
	Message   string                 `json:"message,omitempty"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
	Uptime    string                 `json:"uptime,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version,omitempty"`
}

// CheckResult is the outcome of a single probe.
type CheckResult struct {
	Healthy  bool   `json:"healthy"`
	Message  string `json:"message,omitempty"`
	Duration string `json:"duration,omitempty"`
}

// CompositeHealthChecker runs named probes with a shared per-probe timeout.
type CompositeHealthChecker struct {
	mu        sync.RWMutex
	checks    map[string]HealthCheckFunc
	startTime time.Time
	version   string
	timeout   time.Duration
}

// NewCompositeHealthChecker creates an empty checker.
func NewCompositeHealthChecker(version string) *CompositeHealthChecker {
	return &CompositeHealthChecker{
		checks:    make(map[string]HealthCheckFunc),
		startTime: time.Now(),
		version:   version,
		timeout:   5 * time.Second,
	}
}

// SetTimeout overrides the per-probe timeout.
func (c *CompositeHealthChecker) SetTimeout(timeout time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if timeout > 0 {
		c.timeout = timeout
	}
}

// AddCheck registers a named probe. Re-adding a name replaces the probe.
func (c *CompositeHealthChecker) AddCheck(name string, check HealthCheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// Check runs every probe and aggregates the results. A single failing
// probe marks the whole service unhealthy and not ready.
func (c *CompositeHealthChecker) Check(ctx context.Context) HealthStatus {
	c.mu.RLock()
	timeout := c.timeout
	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	checks := make([]HealthCheckFunc, len(names))
	for i, name := range names {
		checks[i] = c.checks[name]
	}
	c.mu.RUnlock()

	status := HealthStatus{
		Healthy:   true,
		Ready:     true,
		Checks:    make(map[string]CheckResult, len(names)),
		Uptime:    time.Since(c.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC(),
		Version:   c.version,
	}

	if len(names) == 0 {
		status.Message = "no probes registered"
		return status
	}

	var failed []string
	for i, name := range names {
		probeCtx, cancel := context.WithTimeout(ctx, timeout)
		start := time.Now()
		err := checks[i](probeCtx)
		cancel()

		result := CheckResult{
			Healthy:  err == nil,
			Message:  "OK",
			Duration: time.Since(start).Round(time.Millisecond).String(),
		}
		if err != nil {
			result.Message = err.Error()
			status.Healthy = false
			status.Ready = false
			failed = append(failed, name)
		}
		status.Checks[name] = result
	}

	if status.Healthy {
		status.Message = "all probes passed"
	} else {
		status.Message = "probes failed: " + strings.Join(failed, ", ")
	}

	return status
}

// ─────────────────────────────────────────────────────────────────────────────
// Probe constructors
// ─────────────────────────────────────────────────────────────────────────────

// DatabaseChecker is the slice of the Postgres connection the probe needs.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// NewDatabaseCheck probes database connectivity.
func NewDatabaseCheck(db DatabaseChecker) HealthCheckFunc {
	return func(ctx context.Context) error {
		return db.Ping(ctx)
	}
}

// CacheChecker is the slice of the Redis client the probe needs.
type CacheChecker interface {
	Ping(ctx context.Context) error
}

// NewCacheCheck probes session store connectivity.
func NewCacheCheck(cache CacheChecker) HealthCheckFunc {
	return func(ctx context.Context) error {
		return cache.Ping(ctx)
	}
}
