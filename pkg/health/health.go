// Package health provides liveness and readiness endpoints for the headless
// simulation driver.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"runtime"
	"slices"
	"sync"
	"time"
)

// Probe and check states
const (
	StatusAlive     = "alive"
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// DefaultCheckTimeout bounds one readiness probe
const DefaultCheckTimeout = 5 * time.Second

// HealthCheck defines the interface for individual health checks.
type HealthCheck interface {
	// Name returns the unique name of this health check
	Name() string
	// Check performs the health check and returns an error if unhealthy
	Check(ctx context.Context) error
}

// Progress is where the simulation stands. Probes report it so a stalled
// driver can be told apart from a slow one.
type Progress struct {
	Session  string    `json:"session,omitempty"`
	Tick     uint64    `json:"tick"`
	LastTick time.Time `json:"lastTick"`
}

// HealthStatus is the body of a readiness probe
type HealthStatus struct {
	Status   string                     `json:"status"`
	Progress *Progress                  `json:"progress,omitempty"`
	Checks   map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth represents the health status of an individual component.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type liveness struct {
	Status   string    `json:"status"`
	Progress *Progress `json:"progress,omitempty"`
}

// HealthChecker runs the registered checks and serves the probes
type HealthChecker struct {
	mu       sync.RWMutex
	checks   map[string]HealthCheck
	progress func() Progress
	timeout  time.Duration
}

// NewHealthChecker creates a new health checker instance.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		checks:  make(map[string]HealthCheck),
		timeout: DefaultCheckTimeout,
	}
}

// AddCheck registers a check, replacing any with the same name
func (hc *HealthChecker) AddCheck(check HealthCheck) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[check.Name()] = check
}

// RemoveCheck removes a health check by name.
func (hc *HealthChecker) RemoveCheck(name string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	delete(hc.checks, name)
}

// SetProgress sets the source of the progress reported by both probes.
// fn is called from HTTP handler goroutines.
func (hc *HealthChecker) SetProgress(fn func() Progress) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.progress = fn
}

// SetTimeout bounds each readiness probe. Non-positive values restore the
// default.
func (hc *HealthChecker) SetTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultCheckTimeout
	}
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.timeout = d
}

// CheckHealth runs every check in name order. The result is healthy only
// when all of them pass.
func (hc *HealthChecker) CheckHealth(ctx context.Context) HealthStatus {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	status := HealthStatus{
		Status:   StatusHealthy,
		Progress: hc.currentProgress(),
		Checks:   make(map[string]ComponentHealth, len(hc.checks)),
	}

	for _, name := range slices.Sorted(maps.Keys(hc.checks)) {
		if err := hc.checks[name].Check(ctx); err != nil {
			status.Status = StatusUnhealthy
			status.Checks[name] = ComponentHealth{Status: StatusUnhealthy, Message: err.Error()}
			continue
		}
		status.Checks[name] = ComponentHealth{Status: StatusHealthy}
	}

	return status
}

// currentProgress must be called with mu held
func (hc *HealthChecker) currentProgress() *Progress {
	if hc.progress == nil {
		return nil
	}
	p := hc.progress()
	return &p
}

// Handler returns a mux serving /health and /ready
func (hc *HealthChecker) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", hc.LivenessHandler)
	mux.HandleFunc("/ready", hc.ReadinessHandler)
	return mux
}

// LivenessHandler always answers 200 while the process can serve HTTP
func (hc *HealthChecker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	hc.mu.RLock()
	body := liveness{Status: StatusAlive, Progress: hc.currentProgress()}
	hc.mu.RUnlock()

	writeJSON(w, http.StatusOK, body)
}

// ReadinessHandler runs every check and answers 503 when any fails
func (hc *HealthChecker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	hc.mu.RLock()
	timeout := hc.timeout
	hc.mu.RUnlock()

	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	health := hc.CheckHealth(ctx)

	code := http.StatusOK
	if health.Status != StatusHealthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, health)
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

// SimulationHealthCheck reports whether the tick loop is still advancing
type SimulationHealthCheck struct {
	lastTick func() time.Time
	maxStall time.Duration
	now      func() time.Time
}

// NewSimulationHealthCheck creates a check that fails when no tick has
// completed within maxStall. lastTick returns the zero time before the
// first tick.
func NewSimulationHealthCheck(lastTick func() time.Time, maxStall time.Duration) *SimulationHealthCheck {
	return &SimulationHealthCheck{
		lastTick: lastTick,
		maxStall: maxStall,
		now:      time.Now,
	}
}

// Name returns the name of this health check.
func (s *SimulationHealthCheck) Name() string {
	return "simulation"
}

// Check verifies that a tick completed recently.
func (s *SimulationHealthCheck) Check(ctx context.Context) error {
	last := s.lastTick()
	if last.IsZero() {
		return fmt.Errorf("simulation has not ticked yet")
	}
	if stalled := s.now().Sub(last); stalled > s.maxStall {
		return fmt.Errorf("no tick for %s (limit %s)", stalled.Round(time.Millisecond), s.maxStall)
	}
	return nil
}

// MemoryHealthCheck fails when the heap grows past a limit
type MemoryHealthCheck struct {
	maxMB  int64
	heapMB func() int64
}

// NewMemoryHealthCheck creates a check comparing heapMB() with maxMB
func NewMemoryHealthCheck(maxMB int64, heapMB func() int64) *MemoryHealthCheck {
	return &MemoryHealthCheck{maxMB: maxMB, heapMB: heapMB}
}

// Name returns the name of this health check.
func (m *MemoryHealthCheck) Name() string {
	return "memory"
}

// Check verifies that memory usage is within acceptable limits.
func (m *MemoryHealthCheck) Check(ctx context.Context) error {
	if current := m.heapMB(); current > m.maxMB {
		return fmt.Errorf("heap %dMB exceeds limit %dMB", current, m.maxMB)
	}
	return nil
}

// HeapMB returns the live heap in megabytes
func HeapMB() int64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return int64(m.Alloc / 1024 / 1024)
}
