package server

import (
	"context"
	"mime"
	"net"
	"net/http"
	"net/netip"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/HerbHall/onvifsrvd/internal/version"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "onvifsrvd",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status.",
	}, []string{"route", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "onvifsrvd",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		// PTZ requests wait on the actuator, so the tail reaches seconds.
		Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 3},
	}, []string{"route"})
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain wraps handler so that mw[0] runs first.
func Chain(handler http.Handler, mw ...Middleware) http.Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}
	return handler
}

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// Longer incoming IDs are replaced rather than echoed into logs.
const maxRequestIDLen = 64

type requestIDKey struct{}

// RequestID returns the ID assigned by RequestIDMiddleware, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestIDMiddleware keeps a caller's X-Request-ID or assigns a UUID.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// peerAddr returns the IP of the TCP peer, with IPv4-mapped IPv6 addresses
// unmapped. X-Forwarded-For is not consulted.
func peerAddr(r *http.Request) string {
	if ap, err := netip.ParseAddrPort(r.RemoteAddr); err == nil {
		return ap.Addr().Unmap().String()
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// soapAction returns the action URI announced by a SOAP client: the action
// parameter of a SOAP 1.2 Content-Type, else the SOAP 1.1 SOAPAction header.
func soapAction(r *http.Request) string {
	if _, params, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil {
		if a := params["action"]; a != "" {
			return a
		}
	}
	return strings.Trim(r.Header.Get("SOAPAction"), `"`)
}

// actionOperation splits an action URI such as
// http://www.onvif.org/ver10/device/wsdl/GetDeviceInformation into its
// service path and operation name.
func actionOperation(action string) (service, operation string) {
	if action == "" {
		return "", ""
	}
	return path.Dir(action), path.Base(action)
}

// AccessLogMiddleware records request metrics and logs each completed
// request. Paths in quiet are measured but not logged, so health checks do
// not drown the SOAP traffic.
func AccessLogMiddleware(logger *zap.Logger, quiet []string) Middleware {
	skip := make(map[string]bool, len(quiet))
	for _, p := range quiet {
		skip[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			elapsed := time.Since(start)

			route := routeLabel(r)
			requestsTotal.WithLabelValues(route, strconv.Itoa(sw.status)).Inc()
			requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())

			if skip[r.URL.Path] {
				return
			}
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", sw.status),
				zap.Int64("bytes", sw.bytes),
				zap.Duration("duration", elapsed),
				zap.String("client", peerAddr(r)),
				zap.String("request_id", RequestID(r.Context())),
			}
			if service, op := actionOperation(soapAction(r)); op != "" {
				fields = append(fields,
					zap.String("soap_service", service),
					zap.String("soap_operation", op))
			}
			logger.Info("http request", fields...)
		})
	}
}

// routeLabel is the ServeMux pattern that handled r. Using it as the metric
// label keeps arbitrary /onvif/ paths from creating new series.
func routeLabel(r *http.Request) string {
	if r.Pattern != "" {
		return r.Pattern
	}
	return "unmatched"
}

// VersionHeader is set on every response.
const VersionHeader = "X-Onvifsrvd-Version"

// ResponseHeadersMiddleware sets the headers shared by SOAP and operational
// responses. None of them are cacheable or meant for a browser.
func ResponseHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Content-Security-Policy", "default-src 'none'")
		h.Set("Cache-Control", "no-store")
		h.Set(VersionHeader, version.Short())
		next.ServeHTTP(w, r)
	})
}

// RecoveryMiddleware turns a handler panic into a 500 problem response.
func RecoveryMiddleware(logger *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				_, op := actionOperation(soapAction(r))
				logger.Error("panic serving request",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path),
					zap.String("soap_operation", op),
					zap.String("request_id", RequestID(r.Context())),
					zap.Stack("stack"),
				)
				InternalError(w, "an unexpected error occurred", r.URL.Path)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// statusWriter records the status code and body size of a response.
type statusWriter struct {
	http.ResponseWriter
	status      int
	bytes       int64
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	n, err := w.ResponseWriter.Write(b)
	w.bytes += int64(n)
	return n, err
}
