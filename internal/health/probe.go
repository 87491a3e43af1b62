package health

import (
	"context"
	"sync"
	"time"
)

// CheckResult is one dependency's verdict in a readiness probe.
type CheckResult struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// Checker probes a single dependency.
type Checker interface {
	Check(ctx context.Context) CheckResult
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc func(ctx context.Context) CheckResult

func (f CheckerFunc) Check(ctx context.Context) CheckResult { return f(ctx) }

// ProbeRunner runs dependency checks and caches the combined verdict
// for an interval, so a hammered readiness endpoint does not hammer
// the dependencies behind it.
type ProbeRunner struct {
	interval time.Duration
	timeout  time.Duration
	checkers []Checker

	mu          sync.Mutex
	lastRun     time.Time
	lastReady   bool
	lastResults []CheckResult
}

func NewProbeRunner(interval, timeout time.Duration, checkers ...Checker) *ProbeRunner {
	return &ProbeRunner{interval: interval, timeout: timeout, checkers: checkers}
}

// Ready reports whether every dependency is healthy, re-probing only
// when the cached verdict is older than the interval.
func (p *ProbeRunner) Ready(ctx context.Context) (bool, []CheckResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.lastRun.IsZero() && time.Since(p.lastRun) < p.interval {
		return p.lastReady, p.lastResults
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	ready := true
	results := make([]CheckResult, 0, len(p.checkers))
	for _, c := range p.checkers {
		result := c.Check(ctx)
		if !result.Healthy {
			ready = false
		}
		results = append(results, result)
	}

	p.lastRun = time.Now()
	p.lastReady = ready
	p.lastResults = results
	return ready, results
}
