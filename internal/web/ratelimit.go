package web

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Sustained-Sync-API/cs4850/internal/config"
)

// ipLimiter throttles clients to a fixed request budget per minute,
// tracked by remote address. The RealIP middleware runs earlier in the
// chain, so RemoteAddr already reflects the originating client.
type ipLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientBudget
	limit   int
	window  time.Duration
}

type clientBudget struct {
	remaining int
	resetAt   time.Time
}

func newRateLimiter(cfg config.RateLimitConfig) *ipLimiter {
	l := &ipLimiter{
		clients: make(map[string]*clientBudget),
		limit:   cfg.RequestsPerMinute,
		window:  time.Minute,
	}
	go l.evictStale()
	return l
}

// evictStale drops budgets whose window has long expired, keeping the
// client map bounded.
func (l *ipLimiter) evictStale() {
	for {
		time.Sleep(time.Minute)
		l.mu.Lock()
		now := time.Now()
		for addr, b := range l.clients {
			if now.After(b.resetAt.Add(l.window)) {
				delete(l.clients, addr)
			}
		}
		l.mu.Unlock()
	}
}

// take consumes one request from the client's budget, starting a fresh
// window if the previous one has ended.
func (l *ipLimiter) take(addr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.clients[addr]
	if !ok || now.After(b.resetAt) {
		l.clients[addr] = &clientBudget{
			remaining: l.limit - 1,
			resetAt:   now.Add(l.window),
		}
		return true
	}

	if b.remaining <= 0 {
		return false
	}
	b.remaining--
	return true
}

func (l *ipLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.take(r.RemoteAddr) {
			w.Header().Set("Retry-After", strconv.Itoa(int(l.window.Seconds())))
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}
