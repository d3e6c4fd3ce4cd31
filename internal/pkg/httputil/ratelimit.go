package httputil

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitMiddleware limits requests per client IP. Intended for the login
// endpoint to slow down credential guessing; other routes are not limited.
func RateLimitMiddleware(perMinute int, burst int) func(http.Handler) http.Handler {
	limiters := &ipLimiters{
		entries: make(map[string]*ipLimiterEntry),
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   burst,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !limiters.get(ip).Allow() {
				Message(w, http.StatusTooManyRequests, "too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type ipLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type ipLimiters struct {
	mu      sync.Mutex
	entries map[string]*ipLimiterEntry
	limit   rate.Limit
	burst   int
}

// staleAfter controls when idle per-IP limiters are evicted.
const staleAfter = 10 * time.Minute

func (l *ipLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()

	entry, ok := l.entries[ip]
	if !ok {
		entry = &ipLimiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[ip] = entry
	}
	entry.lastSeen = now

	// Opportunistic eviction keeps the map from growing unbounded.
	if len(l.entries) > 1024 {
		for k, e := range l.entries {
			if now.Sub(e.lastSeen) > staleAfter {
				delete(l.entries, k)
			}
		}
	}

	return entry.limiter
}
