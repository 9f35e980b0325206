package onvif

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/netip"

	"github.com/HerbHall/onvifsrvd/internal/soap"
	"go.uber.org/zap"
)

// Call is one operation invocation.
type Call struct {
	Client  netip.Addr
	Request *soap.Request
}

// Operation is the local name of the called operation.
func (c Call) Operation() string { return c.Request.Operation }

// Service answers the operations of one group.
type Service interface {
	Group() Group
	Handle(ctx context.Context, call Call) (any, error)
}

type handlerFunc func(ctx context.Context, call Call) (any, error)

// operations is a service's operation table.
type operations map[string]handlerFunc

func (ops operations) handle(ctx context.Context, g Group, call Call) (any, error) {
	h, ok := ops[call.Operation()]
	if !ok {
		return nil, soap.ActionNotSupported(g.Namespace(), call.Operation())
	}
	return h(ctx, call)
}

// emptyResponse is the body of operations that only acknowledge.
type emptyResponse struct {
	XMLName xml.Name
}

func ack(g Group, op string) emptyResponse {
	return emptyResponse{XMLName: xml.Name{Space: g.Namespace(), Local: op + "Response"}}
}

func empty(g Group, op string) handlerFunc {
	resp := ack(g, op)
	return func(context.Context, Call) (any, error) {
		return resp, nil
	}
}

// Dispatcher selects the service for a call by the namespace of its
// operation element.
type Dispatcher struct {
	services map[string]Service
	logger   *zap.Logger
}

// NewDispatcher registers services. Each group may be registered once.
func NewDispatcher(logger *zap.Logger, services ...Service) (*Dispatcher, error) {
	d := &Dispatcher{
		services: make(map[string]Service, len(services)),
		logger:   logger,
	}
	for _, s := range services {
		ns := s.Group().Namespace()
		if ns == "" {
			return nil, fmt.Errorf("service with unknown group %d", s.Group())
		}
		if _, dup := d.services[ns]; dup {
			return nil, fmt.Errorf("duplicate %s service", s.Group())
		}
		d.services[ns] = s
	}
	return d, nil
}

// Dispatch runs call on the matching service. Errors are always *soap.Fault.
func (d *Dispatcher) Dispatch(ctx context.Context, call Call) (Group, any, error) {
	svc, ok := d.services[call.Request.Namespace]
	if !ok {
		return -1, nil, soap.ActionNotSupported(call.Request.Namespace, call.Operation())
	}
	resp, err := svc.Handle(ctx, call)
	if err != nil {
		var fault *soap.Fault
		if !errors.As(err, &fault) {
			d.logger.Error("operation failed",
				zap.String("service", svc.Group().String()),
				zap.String("operation", call.Operation()),
				zap.Error(err),
			)
			fault = soap.Internal(err)
		}
		return svc.Group(), nil, fault
	}
	return svc.Group(), resp, nil
}
