package server

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// staleAfter is how long a client may stay idle before its bucket is dropped.
const staleAfter = 10 * time.Minute

type client struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands each client IP its own token bucket. Preview requests
// decode and re-encode a full raster, so they are the one endpoint worth
// throttling.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	rate    rate.Limit
	burst   int
	done    chan struct{}
}

// NewRateLimiter creates a rate limiter that allows r requests per second
// with the given burst size, and starts a sweeper that drops idle clients.
func NewRateLimiter(r rate.Limit, burst int) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*client),
		rate:    r,
		burst:   burst,
		done:    make(chan struct{}),
	}
	go rl.sweep()
	return rl
}

// allow records a hit for the client and reports whether it is within limits.
func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	c, ok := rl.clients[ip]
	if !ok {
		c = &client{bucket: rate.NewLimiter(rl.rate, rl.burst)}
		rl.clients[ip] = c
	}
	c.lastSeen = time.Now()
	return c.bucket.Allow()
}

func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(staleAfter)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			for ip, c := range rl.clients {
				if time.Since(c.lastSeen) > staleAfter {
					delete(rl.clients, ip)
				}
			}
			rl.mu.Unlock()
		case <-rl.done:
			return
		}
	}
}

// Stop terminates the sweeper goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.done)
}

// Middleware rate-limits by client IP, one bucket per address.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !rl.allow(ip) {
			renderJSONError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}
