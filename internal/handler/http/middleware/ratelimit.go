package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/anyemp/global-dashboard-go/internal/handler/http/response"
	"golang.org/x/time/rate"
)

// DefaultLimiterIdleTTL is how long a client's bucket survives without requests
const DefaultLimiterIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands out one token bucket per client IP. Buckets idle for
// longer than idleTTL are swept on a later lookup, so the map only holds
// recently active clients.
type IPRateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	r         rate.Limit
	b         int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return newIPRateLimiter(r, b, time.Now)
}

func newIPRateLimiter(r rate.Limit, b int, now func() time.Time) *IPRateLimiter {
	ttl := DefaultLimiterIdleTTL
	// an evicted bucket comes back full, so never evict before it could refill
	if r > 0 && r != rate.Inf {
		if refill := time.Duration(float64(b) / float64(r) * float64(time.Second)); refill > ttl {
			ttl = refill
		}
	}
	return &IPRateLimiter{
		visitors:  make(map[string]*visitor),
		r:         r,
		b:         b,
		idleTTL:   ttl,
		lastSweep: now(),
		now:       now,
	}
}

func (i *IPRateLimiter) GetLimiter(key string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	if now.Sub(i.lastSweep) >= i.idleTTL {
		i.sweep(now)
	}

	v, exists := i.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(i.r, i.b)}
		i.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter
}

// Len reports how many clients currently hold a bucket
func (i *IPRateLimiter) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.visitors)
}

// sweep must be called with mu held
func (i *IPRateLimiter) sweep(now time.Time) {
	for key, v := range i.visitors {
		if now.Sub(v.lastSeen) > i.idleTTL {
			delete(i.visitors, key)
		}
	}
	i.lastSweep = now
}

// RateLimitByIP rejects a client that exceeds r requests per second with
// bursts of b
func RateLimitByIP(r rate.Limit, b int) func(http.Handler) http.Handler {
	limiter := NewIPRateLimiter(r, b)
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, req *http.Request) {
			if !limiter.GetLimiter(clientIP(req)).Allow() {
				response.TooManyRequests(w, "Too many requests from this IP")
				return
			}
			next.ServeHTTP(w, req)
		}
		return http.HandlerFunc(hfn)
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
