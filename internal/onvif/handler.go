package onvif

import (
	"bytes"
	"errors"
	"net"
	"net/http"
	"net/netip"
	"strconv"

	"github.com/HerbHall/onvifsrvd/internal/soap"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// MaxRequestBytes bounds a SOAP request body.
const MaxRequestBytes = 1 << 20

var soapRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "onvif_soap_requests_total",
		Help: "SOAP operations handled, by service, operation and result.",
	},
	[]string{"service", "operation", "result"},
)

func init() {
	prometheus.MustRegister(soapRequestsTotal)
}

// ServeHTTP decodes a SOAP request, dispatches it and writes the response
// envelope. The client address used for XAddr resolution is the TCP peer.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := soap.Decode(http.MaxBytesReader(w, r.Body, MaxRequestBytes))
	if err != nil {
		d.logger.Debug("rejecting malformed SOAP request",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		soapRequestsTotal.WithLabelValues("unknown", "unknown", "malformed").Inc()
		d.writeFault(w, soap.Malformed(err))
		return
	}

	call := Call{Client: peerAddr(r.RemoteAddr), Request: req}
	group, resp, err := d.Dispatch(r.Context(), call)

	service, operation := "unknown", "unsupported"
	if group >= 0 {
		service = group.String()
	}

	var fault *soap.Fault
	if errors.As(err, &fault) {
		if !fault.Has("ter:ActionNotSupported") {
			operation = req.Operation
		}
		soapRequestsTotal.WithLabelValues(service, operation, "fault").Inc()
		d.logger.Debug("soap fault",
			zap.String("service", service),
			zap.String("operation", req.Operation),
			zap.String("fault", fault.Error()),
		)
		d.writeFault(w, fault)
		return
	}

	soapRequestsTotal.WithLabelValues(service, req.Operation, "ok").Inc()
	d.logger.Debug("soap operation",
		zap.String("service", service),
		zap.String("operation", req.Operation),
		zap.String("client", call.Client.String()),
		zap.String("username", req.Username),
	)
	d.write(w, http.StatusOK, func(buf *bytes.Buffer) error { return soap.Encode(buf, resp) })
}

func (d *Dispatcher) writeFault(w http.ResponseWriter, f *soap.Fault) {
	d.write(w, f.HTTPStatus(), func(buf *bytes.Buffer) error { return soap.EncodeFault(buf, f) })
}

// write encodes into a buffer first so an encoding failure can still
// produce a clean 500.
func (d *Dispatcher) write(w http.ResponseWriter, status int, encode func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := encode(&buf); err != nil {
		d.logger.Error("failed to encode SOAP response", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", soap.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// peerAddr parses the address part of RemoteAddr. An unparsable address
// yields the zero Addr, which resolves to the default interface.
func peerAddr(remote string) netip.Addr {
	if ap, err := netip.ParseAddrPort(remote); err == nil {
		return ap.Addr().Unmap()
	}
	host, _, err := net.SplitHostPort(remote)
	if err != nil {
		host = remote
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}
	}
	return addr.Unmap()
}
