package httpapi

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/chama-works/investments-api/internal/platform/config"
)

const (
	limiterSweepSize = 10_000
	limiterIdleTTL   = 10 * time.Minute
)

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a token bucket per authenticated subject (or remote address when the
// request carries none).
type RateLimiter struct {
	limit     rate.Limit
	burst     int
	onLimited func()
	now       func() time.Time

	mu       sync.Mutex
	limiters map[string]*limiterEntry
}

// NewRateLimiter returns nil when cfg.RPS <= 0; a nil *RateLimiter passes every request through.
func NewRateLimiter(cfg config.RateLimitConfig, onLimited func()) *RateLimiter {
	if cfg.RPS <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	if onLimited == nil {
		onLimited = func() {}
	}
	return &RateLimiter{
		limit:     rate.Limit(cfg.RPS),
		burst:     burst,
		onLimited: onLimited,
		now:       time.Now,
		limiters:  make(map[string]*limiterEntry),
	}
}

func (l *RateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.limiters) >= limiterSweepSize {
		for k, e := range l.limiters {
			if now.Sub(e.lastSeen) > limiterIdleTTL {
				delete(l.limiters, k)
			}
		}
	}
	e, ok := l.limiters[key]
	if !ok {
		e = &limiterEntry{lim: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = e
	}
	e.lastSeen = now
	return e.lim.AllowN(now, 1)
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	if l == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, ok := SubjectFromContext(r.Context())
		if !ok {
			key = clientAddr(r)
		}
		if !l.allow(key) {
			l.onLimited()
			w.Header().Set("Retry-After", "1")
			writeError(w, r, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
