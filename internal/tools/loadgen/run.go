package loadgen

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Config drives one synthetic traffic run against a live instance.
type Config struct {
	BaseURL     string
	Profile     string
	Duration    time.Duration
	RPS         int
	Concurrency int
	Seed        int64
}

// Result summarizes a completed run.
type Result struct {
	TotalRequests int64
	Failures      int64
	StatusClasses map[string]int64
	Elapsed       time.Duration
}

type request struct {
	method string
	path   string
	body   string
}

// Run fires requests at the configured rate until the duration
// elapses. Failures are transport errors and 5xx responses; 4xx is
// expected traffic (wrong passwords, duplicate sign-ups) and counts as
// success.
func Run(ctx context.Context, cfg Config) (Result, error) {
	if cfg.BaseURL == "" {
		return Result{}, fmt.Errorf("base url is required")
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 10
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.Duration <= 0 {
		cfg.Duration = 10 * time.Second
	}
	profile := normalizeProfile(cfg.Profile)

	var mu sync.Mutex
	rng := rand.New(rand.NewSource(cfg.Seed))
	nextRequest := func() request {
		mu.Lock()
		defer mu.Unlock()
		return pickRequest(rng, profile)
	}

	var total, failures int64
	classes := make(map[string]int64)
	var classMu sync.Mutex

	client := &http.Client{Timeout: 10 * time.Second}
	runCtx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	work := make(chan request)
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		defer close(work)
		ticker := time.NewTicker(time.Second / time.Duration(cfg.RPS))
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				select {
				case work <- nextRequest():
				case <-gctx.Done():
					return nil
				}
			}
		}
	})

	for i := 0; i < cfg.Concurrency; i++ {
		g.Go(func() error {
			for req := range work {
				status, err := fire(gctx, client, cfg.BaseURL, req)
				atomic.AddInt64(&total, 1)
				if err != nil || status >= 500 {
					atomic.AddInt64(&failures, 1)
				}
				class := "error"
				if err == nil {
					class = classifyStatusClass(status)
				}
				classMu.Lock()
				classes[class]++
				classMu.Unlock()
			}
			return nil
		})
	}

	start := time.Now()
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return Result{
		TotalRequests: atomic.LoadInt64(&total),
		Failures:      atomic.LoadInt64(&failures),
		StatusClasses: classes,
		Elapsed:       time.Since(start),
	}, nil
}

func fire(ctx context.Context, client *http.Client, baseURL string, r request) (int, error) {
	var body *bytes.Reader
	if r.body != "" {
		body = bytes.NewReader([]byte(r.body))
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, strings.TrimRight(baseURL, "/")+r.path, body)
	if err != nil {
		return 0, err
	}
	if r.body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	_ = resp.Body.Close()
	return resp.StatusCode, nil
}

func pickRequest(rng *rand.Rand, profile string) request {
	switch profile {
	case "health":
		if rng.Intn(2) == 0 {
			return request{method: http.MethodGet, path: "/health/live"}
		}
		return request{method: http.MethodGet, path: "/health/ready"}
	case "auth":
		return authRequest(rng)
	default: // mixed
		if rng.Intn(4) == 0 {
			return request{method: http.MethodGet, path: "/health/live"}
		}
		return authRequest(rng)
	}
}

func authRequest(rng *rand.Rand) request {
	email := fmt.Sprintf("loadgen-%d@example.com", rng.Intn(500))
	switch rng.Intn(3) {
	case 0:
		return request{
			method: http.MethodPost,
			path:   "/api/v1/auth/signup",
			body:   fmt.Sprintf(`{"email":%q,"password":"loadgen-pass-1"}`, email),
		}
	case 1:
		return request{
			method: http.MethodPost,
			path:   "/api/v1/auth/login",
			body:   fmt.Sprintf(`{"email":%q,"password":"loadgen-pass-1"}`, email),
		}
	default:
		return request{
			method: http.MethodPost,
			path:   "/api/v1/auth/validate",
			body:   fmt.Sprintf(`{"user_id":%d,"token":"loadgen-token"}`, rng.Intn(500)+1),
		}
	}
}

func classifyStatusClass(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	default:
		return "other"
	}
}

func normalizeProfile(profile string) string {
	p := strings.ToLower(strings.TrimSpace(profile))
	switch p {
	case "auth", "health", "mixed":
		return p
	case "":
		return "mixed"
	default:
		return "mixed"
	}
}
