package server

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	peerIdle     = 10 * time.Minute
	maxPeerCount = 10000
)

// peerLimiter holds one token bucket per TCP peer address.
type peerLimiter struct {
	mu    sync.Mutex
	peers map[string]*peerBucket
	limit rate.Limit
	burst int
	now   func() time.Time
}

type peerBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newPeerLimiter(rps float64, burst int) *peerLimiter {
	if burst < 1 {
		burst = 1
	}
	return &peerLimiter{
		peers: make(map[string]*peerBucket),
		limit: rate.Limit(rps),
		burst: burst,
		now:   time.Now,
	}
}

// reserve takes a token for peer. When none is available it returns the
// wait until the next one, and false.
func (l *peerLimiter) reserve(peer string) (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.peers[peer]
	if !ok {
		if len(l.peers) >= maxPeerCount {
			l.evictIdle(now)
		}
		b = &peerBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.peers[peer] = b
	}
	b.lastSeen = now

	res := b.limiter.ReserveN(now, 1)
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return delay, false
	}
	return 0, true
}

// evictIdle drops buckets unused for peerIdle. Callers hold l.mu.
func (l *peerLimiter) evictIdle(now time.Time) {
	cutoff := now.Add(-peerIdle)
	for peer, b := range l.peers {
		if b.lastSeen.Before(cutoff) {
			delete(l.peers, peer)
		}
	}
}

// RateLimitMiddleware bounds the request rate of each TCP peer so that one
// client cannot flood the PTZ actuator. The bucket is keyed on the
// connection's address; X-Forwarded-For is not trusted. Rejected requests
// get a 429 problem response with Retry-After.
func RateLimitMiddleware(rps float64, burst int) Middleware {
	l := newPeerLimiter(rps, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if wait, ok := l.reserve(peerAddr(r)); !ok {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(wait)))
				RateLimited(w, "request rate limit exceeded for this client", r.URL.Path)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func retryAfterSeconds(wait time.Duration) int {
	if wait > 24*time.Hour {
		return 86400
	}
	return int(math.Ceil(wait.Seconds()))
}
