package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const mediaNS = "http://www.onvif.org/ver10/media/wsdl"

func soapRequest(op string) *http.Request {
	req := httptest.NewRequest("POST", "/onvif/media_service", strings.NewReader("<Envelope/>"))
	req.Header.Set("Content-Type", `application/soap+xml; charset=utf-8; action="`+mediaNS+"/"+op+`"`)
	req.RemoteAddr = "10.0.0.9:5555"
	return req
}

func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"assigned when absent", "", false},
		{"caller id kept", "nvr-7f3a", true},
		{"overlong id replaced", strings.Repeat("x", maxRequestIDLen+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := RequestIDMiddleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				seen = RequestID(r.Context())
			}))

			req := httptest.NewRequest("POST", "/onvif/device_service", http.NoBody)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if got := w.Header().Get(RequestIDHeader); got != seen {
				t.Errorf("response id = %q, context id = %q", got, seen)
			}
			if tt.keep {
				if seen != tt.incoming {
					t.Errorf("id = %q, want %q", seen, tt.incoming)
				}
				return
			}
			if _, err := uuid.Parse(seen); err != nil {
				t.Errorf("id %q is not a UUID: %v", seen, err)
			}
		})
	}
}

func TestPeerAddr(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"192.0.2.7:5000", "192.0.2.7"},
		{"[::ffff:10.0.0.9]:80", "10.0.0.9"},
		{"[2001:db8::1]:3702", "2001:db8::1"},
		{"camera.local:80", "camera.local"},
		{"garbage", "garbage"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest("POST", "/onvif/ptz_service", http.NoBody)
		req.RemoteAddr = tt.remote
		req.Header.Set("X-Forwarded-For", "203.0.113.50, 70.41.3.18")
		if got := peerAddr(req); got != tt.want {
			t.Errorf("peerAddr(%q) = %q, want %q", tt.remote, got, tt.want)
		}
	}
}

func TestSOAPAction(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		soapAction  string
		want        string
	}{
		{
			name:        "soap 1.2 action parameter",
			contentType: `application/soap+xml; charset=utf-8; action="http://www.onvif.org/ver20/ptz/wsdl/Stop"`,
			want:        "http://www.onvif.org/ver20/ptz/wsdl/Stop",
		},
		{
			name:        "soap 1.1 header",
			contentType: "text/xml; charset=utf-8",
			soapAction:  `"http://www.onvif.org/ver10/device/wsdl/GetScopes"`,
			want:        "http://www.onvif.org/ver10/device/wsdl/GetScopes",
		},
		{
			name:        "none announced",
			contentType: "application/soap+xml",
		},
		{
			name:        "unparsable content type",
			contentType: "application/soap+xml; ;;",
			soapAction:  "urn:Op",
			want:        "urn:Op",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/onvif/device_service", http.NoBody)
			req.Header.Set("Content-Type", tt.contentType)
			if tt.soapAction != "" {
				req.Header.Set("SOAPAction", tt.soapAction)
			}
			if got := soapAction(req); got != tt.want {
				t.Errorf("soapAction = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionOperation(t *testing.T) {
	service, op := actionOperation("http://www.onvif.org/ver10/device/wsdl/GetDeviceInformation")
	if service != "http://www.onvif.org/ver10/device/wsdl" || op != "GetDeviceInformation" {
		t.Errorf("actionOperation = (%q, %q)", service, op)
	}
	if service, op := actionOperation(""); service != "" || op != "" {
		t.Errorf("empty action = (%q, %q), want empty", service, op)
	}
}

func TestAccessLogMiddleware_LogsSOAPOperation(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	handler := AccessLogMiddleware(zap.New(core), nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "<ok/>")
	}))

	handler.ServeHTTP(httptest.NewRecorder(), soapRequest("GetProfiles"))

	entries := logs.FilterMessage("http request").All()
	if len(entries) != 1 {
		t.Fatalf("logged %d requests, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	want := map[string]any{
		"path":           "/onvif/media_service",
		"status":         int64(http.StatusOK),
		"bytes":          int64(len("<ok/>")),
		"client":         "10.0.0.9",
		"soap_service":   mediaNS,
		"soap_operation": "GetProfiles",
	}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("%s = %v, want %v", k, fields[k], v)
		}
	}
}

func TestAccessLogMiddleware_QuietPaths(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	handler := AccessLogMiddleware(zap.New(core), operationalPaths)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for _, path := range []string{"/healthz", "/metrics", "/onvif/device_service"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, http.NoBody))
	}

	entries := logs.FilterMessage("http request").All()
	if len(entries) != 1 {
		t.Fatalf("logged %d requests, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/onvif/device_service" {
		t.Errorf("logged path = %v", fields["path"])
	}
	if _, ok := fields["soap_operation"]; ok {
		t.Error("soap_operation logged for a request without an action")
	}
}

func TestRouteLabel(t *testing.T) {
	req := httptest.NewRequest("POST", "/onvif/anything", http.NoBody)
	if got := routeLabel(req); got != "unmatched" {
		t.Errorf("routeLabel before routing = %q, want unmatched", got)
	}

	mux := http.NewServeMux()
	mux.Handle(SOAPPattern, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	mux.ServeHTTP(httptest.NewRecorder(), req)
	if got := routeLabel(req); got != SOAPPattern {
		t.Errorf("routeLabel = %q, want %q", got, SOAPPattern)
	}
}

func TestResponseHeadersMiddleware(t *testing.T) {
	handler := ResponseHeadersMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, soapRequest("GetStreamUri"))

	for header, want := range map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"Content-Security-Policy": "default-src 'none'",
		"Cache-Control":           "no-store",
	} {
		if got := w.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
	if w.Header().Get(VersionHeader) == "" {
		t.Errorf("%s not set", VersionHeader)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	handler := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("actuator table corrupted")
	}), RequestIDMiddleware, RecoveryMiddleware(zap.New(core)))

	req := soapRequest("GetSnapshotUri")
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q", ct)
	}
	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("logged %d errors, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["soap_operation"] != "GetSnapshotUri" {
		t.Errorf("soap_operation = %v", fields["soap_operation"])
	}
	if fields["request_id"] != "req-42" {
		t.Errorf("request_id = %v, want req-42", fields["request_id"])
	}
}

func TestStatusWriter(t *testing.T) {
	sw := &statusWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}

	sw.WriteHeader(http.StatusBadRequest)
	sw.WriteHeader(http.StatusOK)
	_, _ = sw.Write([]byte("<Fault/>"))
	_, _ = sw.Write([]byte("\n"))

	if sw.status != http.StatusBadRequest {
		t.Errorf("status = %d, want first WriteHeader to win", sw.status)
	}
	if sw.bytes != int64(len("<Fault/>\n")) {
		t.Errorf("bytes = %d", sw.bytes)
	}
}

func TestChain(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), tag("outer"), tag("inner"))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", http.NoBody))

	if got := strings.Join(order, ","); got != "outer,inner,handler" {
		t.Errorf("order = %s", got)
	}
}
