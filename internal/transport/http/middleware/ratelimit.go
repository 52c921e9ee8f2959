package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	sweepEvery = 5 * time.Minute
	idleAfter  = 10 * time.Minute
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per trigger caller. Authenticated
// callers are keyed by JWT subject so a trigger service behind several
// addresses shares one budget; anonymous callers are keyed by client IP.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	r       rate.Limit
	burst   int
}

func NewRateLimiter(r rate.Limit, burst int) *RateLimiter {
	rl := &RateLimiter{buckets: make(map[string]*bucket), r: r, burst: burst}
	go rl.sweep()
	return rl
}

func (rl *RateLimiter) allow(key string) bool {
	now := time.Now()
	rl.mu.Lock()
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rl.r, rl.burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	rl.mu.Unlock()
	return b.limiter.AllowN(now, 1)
}

func (rl *RateLimiter) sweep() {
	t := time.NewTicker(sweepEvery)
	defer t.Stop()
	for now := range t.C {
		rl.mu.Lock()
		for k, b := range rl.buckets {
			if now.Sub(b.lastSeen) > idleAfter {
				delete(rl.buckets, k)
			}
		}
		rl.mu.Unlock()
	}
}

// Limit rejects the request with 429 once the caller's bucket is empty.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(callerKey(r)) {
			deny(w, errRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func callerKey(r *http.Request) string {
	if c, ok := ClaimsFromContext(r.Context()); ok && c.Subject != "" {
		return "sub:" + c.Subject
	}
	return "ip:" + realIP(r)
}

// realIP prefers the first X-Forwarded-For hop, then X-Real-Ip, then the
// connection address.
func realIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xr := r.Header.Get("X-Real-Ip"); xr != "" {
		return strings.TrimSpace(xr)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
