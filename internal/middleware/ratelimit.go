package middleware

import (
	"net/http"
	"sync"
	"time"
)

// RateLimiter is a fixed-window in-memory limiter keyed by client address.
// State lives per process; horizontal scaling would move this into Redis.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	span    time.Duration
}

type window struct {
	count    int
	lastSeen time.Time
}

func NewRateLimiter(limit int, span time.Duration) *RateLimiter {
	rl := &RateLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		span:    span,
	}

	go func() {
		for {
			time.Sleep(span)
			rl.mu.Lock()
			for ip, w := range rl.windows {
				if time.Since(w.lastSeen) > span {
					delete(rl.windows, ip)
				}
			}
			rl.mu.Unlock()
		}
	}()

	return rl
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[key]
	if !ok || time.Since(w.lastSeen) > rl.span {
		rl.windows[key] = &window{count: 1, lastSeen: time.Now()}
		return true
	}

	w.count++
	w.lastSeen = time.Now()
	return w.count <= rl.limit
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(r.RemoteAddr) {
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.", r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
