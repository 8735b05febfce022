package limiter

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"relaybot/internal/pkg/errs"
	"relaybot/internal/pkg/logx"
	"relaybot/internal/pkg/resp"
)

// IPThrottle is a per-client-IP token bucket for expensive ops endpoints.
type IPThrottle struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter

	limit rate.Limit
	burst int
}

// NewIPThrottle allows each IP limit events per second with the given burst.
func NewIPThrottle(limit rate.Limit, burst int) *IPThrottle {
	return &IPThrottle{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

// Allow consumes one token for ip.
func (t *IPThrottle) Allow(ip string) bool {
	t.mu.Lock()
	l, ok := t.limiters[ip]
	if !ok {
		l = rate.NewLimiter(t.limit, t.burst)
		t.limiters[ip] = l
	}
	t.mu.Unlock()

	return l.Allow()
}

// Cleanup drops limiters whose bucket has refilled and returns how many were removed.
func (t *IPThrottle) Cleanup(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for ip, l := range t.limiters {
		if l.TokensAt(now) >= float64(l.Burst()) {
			delete(t.limiters, ip)
			removed++
		}
	}
	return removed
}

// Run calls Cleanup every interval until ctx is cancelled.
func (t *IPThrottle) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if removed := t.Cleanup(now); removed > 0 {
				logx.Debug("Ops throttle cleanup.", "removed", removed)
			}
		}
	}
}

// Middleware rejects requests over the per-IP limit with ErrTooManyRequests.
func (t *IPThrottle) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil || ip == "" {
			ip = r.RemoteAddr
		}

		if !t.Allow(ip) {
			resp.RespondError(w, r, errs.NewError(errs.ErrTooManyRequests))
			return
		}

		next.ServeHTTP(w, r)
	})
}
