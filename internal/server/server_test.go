package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

// stubSOAP records the path it was called with.
type stubSOAP struct {
	paths []string
}

func (s *stubSOAP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.paths = append(s.paths, r.URL.Path)
	w.Header().Set("Content-Type", "application/soap+xml")
	w.WriteHeader(http.StatusOK)
}

func testConfig() Config {
	return Config{
		Host:         "127.0.0.1",
		Port:         0,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		RateLimit:    RateLimitConfig{RPS: 100, Burst: 200},
	}
}

func newTestServer(ready ReadinessChecker) (*Server, *stubSOAP) {
	logger, _ := zap.NewDevelopment()
	soap := &stubSOAP{}
	return New(testConfig(), soap, logger, ready), soap
}

func TestHandleHealthz(t *testing.T) {
	srv, _ := newTestServer(nil)

	req := httptest.NewRequest("GET", "/healthz", http.NoBody)
	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if body["status"] != "alive" {
		t.Errorf("status = %q, want %q", body["status"], "alive")
	}
}

func TestHandleReadyz_Healthy(t *testing.T) {
	ready := ReadinessChecker(func(_ context.Context) error {
		return nil
	})
	srv, _ := newTestServer(ready)

	req := httptest.NewRequest("GET", "/readyz", http.NoBody)
	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestHandleReadyz_Unhealthy(t *testing.T) {
	ready := ReadinessChecker(func(_ context.Context) error {
		return errors.New("device context not built")
	})
	srv, _ := newTestServer(ready)

	req := httptest.NewRequest("GET", "/readyz", http.NoBody)
	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}

	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if body["status"] != "not ready" {
		t.Errorf("status = %q, want %q", body["status"], "not ready")
	}
	if !strings.Contains(body["error"], "device context not built") {
		t.Errorf("error = %q", body["error"])
	}
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer(nil)

	req := httptest.NewRequest("GET", "/api/v1/health", http.NoBody)
	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" || body.Service != "onvifsrvd" {
		t.Errorf("body = %+v", body)
	}
	if body.Version["version"] == "" {
		t.Error("expected version in response")
	}
}

func TestHandleMetrics(t *testing.T) {
	srv, _ := newTestServer(nil)

	req := httptest.NewRequest("GET", "/metrics", http.NoBody)
	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "go_goroutines") {
		t.Error("expected prometheus Go runtime metrics in /metrics output")
	}
}

func TestSOAPRouting(t *testing.T) {
	srv, soap := newTestServer(nil)

	for _, path := range []string{"/onvif/device_service", "/onvif/media_service", "/onvif/ptz_service", "/onvif/other"} {
		req := httptest.NewRequest("POST", path, strings.NewReader("<x/>"))
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("POST %s: status = %d, want 200", path, w.Code)
		}
	}
	if len(soap.paths) != 4 {
		t.Errorf("SOAP handler calls = %v, want 4", soap.paths)
	}
}

func TestSOAPRouting_RejectsOtherMethods(t *testing.T) {
	srv, soap := newTestServer(nil)

	req := httptest.NewRequest("GET", "/onvif/device_service", http.NoBody)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", w.Code)
	}
	if allow := w.Header().Get("Allow"); allow != "POST" {
		t.Errorf("Allow = %q, want POST", allow)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if len(soap.paths) != 0 {
		t.Error("SOAP handler called for GET")
	}
}

func TestUnknownPath(t *testing.T) {
	srv, _ := newTestServer(nil)

	req := httptest.NewRequest("GET", "/nope", http.NoBody)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	var p Problem
	if err := json.NewDecoder(w.Body).Decode(&p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Type != ProblemTypeNotFound || p.Instance != "/nope" {
		t.Errorf("problem = %+v", p)
	}
}

func TestMiddlewareChain_Integration(t *testing.T) {
	srv, _ := newTestServer(nil)

	req := httptest.NewRequest("GET", "/healthz", http.NoBody)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if v := w.Header().Get(VersionHeader); v == "" {
		t.Errorf("expected %s header from middleware", VersionHeader)
	}
	if v := w.Header().Get("X-Request-ID"); v == "" {
		t.Error("expected X-Request-ID header from middleware")
	}
	if v := w.Header().Get("X-Content-Type-Options"); v != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want %q", v, "nosniff")
	}
	if v := w.Header().Get("Cache-Control"); v != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", v)
	}
}

func TestRateLimit_AppliesToSOAP(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = RateLimitConfig{RPS: 0.001, Burst: 1}
	srv := New(cfg, &stubSOAP{}, zap.NewNop(), nil)

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/onvif/ptz_service", strings.NewReader("<x/>"))
		req.RemoteAddr = "10.0.0.7:5000"
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("status codes = %v, want [200 429]", codes)
	}
}

func TestRateLimit_ForwardedForDoesNotResetBucket(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = RateLimitConfig{RPS: 0.001, Burst: 2}
	soap := &stubSOAP{}
	srv := New(cfg, soap, zap.NewNop(), nil)

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest("POST", "/onvif/ptz_service", strings.NewReader("<x/>"))
		req.RemoteAddr = "10.0.0.9:5555"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		srv.Handler().ServeHTTP(httptest.NewRecorder(), req)
	}
	if len(soap.paths) != 2 {
		t.Errorf("SOAP handler reached %d times, want the burst of 2", len(soap.paths))
	}
}

func TestRateLimit_OperationalRoutesExempt(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = RateLimitConfig{RPS: 0.001, Burst: 1}
	srv := New(cfg, &stubSOAP{}, zap.NewNop(), nil)

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("GET", "/healthz", http.NoBody)
		req.RemoteAddr = "10.0.0.7:5000"
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, w.Code)
		}
	}
}

func TestServeAndShutdown(t *testing.T) {
	srv, _ := newTestServer(nil)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := <-errc; err != nil {
		t.Errorf("Serve returned %v after Shutdown", err)
	}
}
