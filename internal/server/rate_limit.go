package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var rateLimited = promauto.NewCounter(prometheus.CounterOpts{
	Name: "matcalc_rate_limited_total",
	Help: "Requests rejected by the per-client rate limiter",
})

// RateLimiter admits at most a fixed number of requests per client and per
// one-minute window. Clients are identified by IP.
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientWindow
	rate     int
	window   time.Duration
	now      func() time.Time
	stopOnce sync.Once
	stop     chan struct{}
}

type clientWindow struct {
	remaining int
	start     time.Time
}

// NewRateLimiter creates a limiter admitting perMinute requests per client.
// A background goroutine forgets idle clients every cleanup interval until
// Stop is called.
//
// Parameters:
//   - perMinute: Requests admitted per client and minute. Must be positive.
//   - cleanup: Interval between sweeps of idle clients, <= 0 for 5 minutes.
//
// Returns:
//   - *RateLimiter: The running limiter.
func NewRateLimiter(perMinute int, cleanup time.Duration) *RateLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	if cleanup <= 0 {
		cleanup = 5 * time.Minute
	}
	rl := &RateLimiter{
		clients: make(map[string]*clientWindow),
		rate:    perMinute,
		window:  time.Minute,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go rl.cleanupLoop(cleanup)
	return rl
}

// Allow reports whether one more request from client fits in its window.
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.clients[client]
	if !ok || now.Sub(w.start) >= rl.window {
		rl.clients[client] = &clientWindow{remaining: rl.rate - 1, start: now}
		return true
	}
	if w.remaining > 0 {
		w.remaining--
		return true
	}
	return false
}

// sweep forgets clients idle for two windows.
func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	for ip, w := range rl.clients {
		if now.Sub(w.start) > 2*rl.window {
			delete(rl.clients, ip)
		}
	}
}

func (rl *RateLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.stop:
			return
		}
	}
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// rateLimitMiddleware rejects requests over the client's budget with 429.
func (s *Server) rateLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.Allow(clientIP(r)) {
			rateLimited.Inc()
			w.Header().Set("Retry-After", "60")
			s.writeErrorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}
		next(w, r)
	}
}

// clientIP returns the first X-Forwarded-For address, then X-Real-IP, then
// the host part of RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.Trim(r.RemoteAddr, "[]")
	}
	return host
}
