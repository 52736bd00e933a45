package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/csrf"
)

// Login attempts draw from a much smaller bucket than the rest of the
// app, so a burst of form traffic cannot brute-force credentials.
const (
	loginAttempts = 5
	loginWindow   = time.Minute
)

// Buckets idle longer than this are dropped during the periodic sweep.
const staleAfter = 5 * time.Minute

// sweepEvery bounds how many allows may pass between stale sweeps.
const sweepEvery = 256

type clientLimit struct {
	rate   int
	window time.Duration
}

type bucket struct {
	tokens     int
	refillMark time.Time // last time tokens were credited
	seen       time.Time // last request, for the stale sweep
}

// RateLimiter applies per-client token buckets, with a separate
// tighter bucket for credential endpoints.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	app     clientLimit
	login   clientLimit
	allows  int // since the last stale sweep
}

// NewRateLimiter creates a limiter allowing `rate` requests per
// `interval` per client for general traffic.
func NewRateLimiter(rate int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*bucket),
		app:     clientLimit{rate: rate, window: interval},
		login:   clientLimit{rate: loginAttempts, window: loginWindow},
	}
}

// AllowRequest draws a token from the bucket matching the request.
// POST /login counts against the login bucket; everything else against
// the general one.
// POST: Returns true if within the limit, false if exceeded
func (rl *RateLimiter) AllowRequest(r *http.Request) bool {
	limit := rl.app
	key := clientIP(r)
	if r.Method == "POST" && r.URL.Path == "/login" {
		limit = rl.login
		key = "login " + key
	}
	return rl.allow(key, limit)
}

func (rl *RateLimiter) allow(key string, limit clientLimit) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.allows++
	if rl.allows >= sweepEvery {
		rl.allows = 0
		for k, b := range rl.buckets {
			if time.Since(b.seen) > staleAfter {
				delete(rl.buckets, k)
			}
		}
	}

	now := time.Now()
	b, ok := rl.buckets[key]
	if !ok {
		rl.buckets[key] = &bucket{tokens: limit.rate - 1, refillMark: now, seen: now}
		return true
	}
	b.seen = now

	if credit := int(now.Sub(b.refillMark)/limit.window) * limit.rate; credit > 0 {
		b.tokens += credit
		if b.tokens > limit.rate {
			b.tokens = limit.rate
		}
		b.refillMark = now
	}

	if b.tokens <= 0 {
		slog.Warn("rate_limit_exceeded", "client", key)
		return false
	}
	b.tokens--
	return true
}

// clientIP strips the port from the remote address so one client does
// not get a fresh bucket per connection.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit returns middleware that rejects over-limit requests.
func RateLimit(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.AllowRequest(r) {
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeaders adds OWASP recommended headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; script-src 'self'; img-src 'self'; connect-src 'self'")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// CSRF returns a handler that protects against CSRF attacks.
// It assumes an encryption key is passed (32 bytes).
// JSON API requests (Content-Type: application/json) are exempted from CSRF.
func CSRF(authKey []byte) func(http.Handler) http.Handler {
	csrfProtect := csrf.Protect(
		authKey,
		csrf.Secure(false), // Allow HTTP for local development
		csrf.Path("/"),
		csrf.TrustedOrigins([]string{"localhost:8080", "127.0.0.1:8080"}),
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Exempt JSON API requests from CSRF protection
			if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
				next.ServeHTTP(w, r)
				return
			}
			// Apply CSRF protection for form submissions
			csrfProtect(next).ServeHTTP(w, r)
		})
	}
}

// Chain applies middlewares in order (outer to inner).
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for _, m := range middlewares {
		h = m(h)
	}
	return h
}
