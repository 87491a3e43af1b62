package health

import (
	"context"
	"testing"
	"time"
)

func countingChecker(calls *int, healthy bool) Checker {
	return CheckerFunc(func(ctx context.Context) CheckResult {
		*calls++
		return CheckResult{Name: "dep", Healthy: healthy}
	})
}

func TestReadyAllHealthy(t *testing.T) {
	var calls int
	p := NewProbeRunner(time.Minute, time.Second, countingChecker(&calls, true))

	ready, results := p.Ready(context.Background())
	if !ready {
		t.Fatal("expected ready")
	}
	if len(results) != 1 || !results[0].Healthy {
		t.Fatalf("unexpected results %+v", results)
	}
}

func TestReadyOneUnhealthyFailsProbe(t *testing.T) {
	var healthyCalls, unhealthyCalls int
	p := NewProbeRunner(time.Minute, time.Second,
		countingChecker(&healthyCalls, true),
		countingChecker(&unhealthyCalls, false),
	)

	ready, results := p.Ready(context.Background())
	if ready {
		t.Fatal("expected not ready")
	}
	if len(results) != 2 {
		t.Fatalf("expected both checks reported, got %+v", results)
	}
}

func TestReadyCachesWithinInterval(t *testing.T) {
	var calls int
	p := NewProbeRunner(time.Minute, time.Second, countingChecker(&calls, true))

	p.Ready(context.Background())
	p.Ready(context.Background())
	if calls != 1 {
		t.Fatalf("expected cached verdict within interval, got %d probe runs", calls)
	}
}

func TestReadyReprobesAfterInterval(t *testing.T) {
	var calls int
	p := NewProbeRunner(time.Millisecond, time.Second, countingChecker(&calls, true))

	p.Ready(context.Background())
	time.Sleep(5 * time.Millisecond)
	p.Ready(context.Background())
	if calls != 2 {
		t.Fatalf("expected a fresh probe after the interval, got %d probe runs", calls)
	}
}
