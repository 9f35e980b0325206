package server

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitMiddleware_IgnoresForwardedFor(t *testing.T) {
	handler := RateLimitMiddleware(0.01, 1)(okHandler())

	limited := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest("POST", "/onvif/ptz_service", http.NoBody)
		req.RemoteAddr = "10.0.0.9:5555"
		req.Header.Set("X-Forwarded-For", "1.2.3."+strconv.Itoa(i))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	if limited != 19 {
		t.Errorf("limited %d of 20 requests from one peer, want 19", limited)
	}
}

func TestRateLimitMiddleware_PeersHaveOwnBuckets(t *testing.T) {
	handler := RateLimitMiddleware(0.001, 1)(okHandler())

	tests := []struct {
		remote string
		want   int
	}{
		{"10.0.0.1:1000", http.StatusOK},
		{"10.0.0.2:1000", http.StatusOK},
		{"10.0.0.1:2000", http.StatusTooManyRequests},
		// IPv4-mapped form of the same peer.
		{"[::ffff:10.0.0.2]:3000", http.StatusTooManyRequests},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("POST", "/onvif/ptz_service", http.NoBody)
		req.RemoteAddr = tt.remote
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.remote, w.Code, tt.want)
		}
	}
}

func TestRateLimitMiddleware_RetryAfter(t *testing.T) {
	handler := RateLimitMiddleware(0.5, 1)(okHandler())

	var w *httptest.ResponseRecorder
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/onvif/device_service", http.NoBody)
		req.RemoteAddr = "192.0.2.10:40000"
		w = httptest.NewRecorder()
		handler.ServeHTTP(w, req)
	}

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "2" {
		t.Errorf("Retry-After = %q, want 2", got)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestPeerLimiter_Refills(t *testing.T) {
	now := time.Unix(1700000000, 0)
	l := newPeerLimiter(1, 1)
	l.now = func() time.Time { return now }

	if _, ok := l.reserve("10.0.0.3"); !ok {
		t.Fatal("first request rejected")
	}
	wait, ok := l.reserve("10.0.0.3")
	if ok {
		t.Fatal("second request allowed without refill")
	}
	if wait <= 0 || wait > time.Second {
		t.Errorf("wait = %v, want (0, 1s]", wait)
	}

	now = now.Add(time.Second)
	if _, ok := l.reserve("10.0.0.3"); !ok {
		t.Error("request rejected after refill")
	}
}

func TestPeerLimiter_EvictsIdlePeers(t *testing.T) {
	now := time.Unix(1700000000, 0)
	l := newPeerLimiter(1, 1)
	l.now = func() time.Time { return now }

	l.reserve("10.0.0.4")
	now = now.Add(peerIdle + time.Second)
	l.reserve("10.0.0.5")
	l.evictIdle(now)

	if _, ok := l.peers["10.0.0.4"]; ok {
		t.Error("idle peer kept")
	}
	if _, ok := l.peers["10.0.0.5"]; !ok {
		t.Error("active peer evicted")
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	tests := []struct {
		wait time.Duration
		want int
	}{
		{1500 * time.Millisecond, 2},
		{time.Second, 1},
		{1 << 62, 86400},
	}
	for _, tt := range tests {
		if got := retryAfterSeconds(tt.wait); got != tt.want {
			t.Errorf("retryAfterSeconds(%v) = %d, want %d", tt.wait, got, tt.want)
		}
	}
}
