package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agbru/matcalc/internal/multiply"
)

func TestRateLimiterAllow(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(2, time.Hour)
	defer rl.Stop()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	for i, want := range []bool{true, true, false, false} {
		if got := rl.Allow("10.0.0.1"); got != want {
			t.Errorf("request %d: Allow = %v, want %v", i, got, want)
		}
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("a second client shares the first client's budget")
	}

	clock = clock.Add(time.Minute)
	if !rl.Allow("10.0.0.1") {
		t.Error("budget not restored after one window")
	}

	clock = clock.Add(3 * time.Minute)
	rl.sweep()
	rl.mu.Lock()
	n := len(rl.clients)
	rl.mu.Unlock()
	if n != 0 {
		t.Errorf("%d idle clients survived the sweep", n)
	}

	rl.Stop()
}

func TestNewRateLimiterClampsRate(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(0, 0)
	defer rl.Stop()
	if rl.rate != 1 {
		t.Errorf("rate = %d, want 1", rl.rate)
	}
}

func TestClientIP(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded list", map[string]string{"X-Forwarded-For": " 203.0.113.5 , 10.0.0.1"}, "192.0.2.1:1234", "203.0.113.5"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.7"}, "192.0.2.1:1234", "198.51.100.7"},
		{"remote ipv4", nil, "192.0.2.1:1234", "192.0.2.1"},
		{"remote ipv6", nil, "[::1]:8080", "::1"},
		{"no port", nil, "192.0.2.9", "192.0.2.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(2, time.Hour)
	defer rl.Stop()
	h := newTestServer(&mockService{}, WithRateLimiter(rl)).Handler()

	for i, want := range []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests} {
		rec := get(t, h, "/health")
		if rec.Code != want {
			t.Fatalf("request %d: status = %d, want %d", i, rec.Code, want)
		}
		if want == http.StatusTooManyRequests && rec.Header().Get("Retry-After") != "60" {
			t.Errorf("Retry-After = %q", rec.Header().Get("Retry-After"))
		}
	}
}

func TestRateLimitFromConfig(t *testing.T) {
	t.Parallel()
	if srv := newTestServer(&mockService{}); srv.rateLimiter != nil {
		t.Error("rate limit 0 must disable the limiter")
	}

	cfg := testConfig()
	cfg.RateLimit = 5
	srv := NewServer(multiply.NewDefaultFactory(), cfg, WithService(&mockService{}))
	if srv.rateLimiter == nil {
		t.Fatal("rate limit 5 built no limiter")
	}
	defer srv.rateLimiter.Stop()
	if srv.rateLimiter.rate != 5 {
		t.Errorf("rate = %d, want 5", srv.rateLimiter.rate)
	}
}
