package netif

import (
	"fmt"
	"net/netip"
)

// Registry is the ordered, read-only set of interfaces the device serves on.
// Declaration order is the tie-break when subnets overlap.
type Registry struct {
	ifaces []Interface
}

// NewRegistry returns a registry over a copy of ifaces.
func NewRegistry(ifaces ...Interface) *Registry {
	cp := make([]Interface, len(ifaces))
	copy(cp, ifaces)
	return &Registry{ifaces: cp}
}

// Len returns the number of configured interfaces.
func (r *Registry) Len() int {
	return len(r.ifaces)
}

// All returns a copy of the interfaces in declaration order.
func (r *Registry) All() []Interface {
	cp := make([]Interface, len(r.ifaces))
	copy(cp, r.ifaces)
	return cp
}

// Default returns the first declared interface.
func (r *Registry) Default() (Interface, bool) {
	if len(r.ifaces) == 0 {
		return Interface{}, false
	}
	return r.ifaces[0], true
}

// Match returns the first interface whose subnet contains client.
func (r *Registry) Match(client netip.Addr) (Interface, bool) {
	for _, iface := range r.ifaces {
		if iface.Contains(client) {
			return iface, true
		}
	}
	return Interface{}, false
}

// Resolve returns the local address to advertise to client. A client that is
// on none of the configured subnets gets the first interface's address; an
// address is always returned for a non-empty registry.
func (r *Registry) Resolve(client netip.Addr) netip.Addr {
	if iface, ok := r.Match(client); ok {
		return iface.Addr
	}
	iface, _ := r.Default()
	return iface.Addr
}

// ServiceURL renders http://<resolved>:<port><path> for client.
func (r *Registry) ServiceURL(client netip.Addr, port int, path string) string {
	return fmt.Sprintf("http://%s:%d%s", r.Resolve(client), port, path)
}
