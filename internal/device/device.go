// Package device holds the validated, read-only description of the camera
// that every ONVIF handler answers from.
package device

import (
	"errors"
	"fmt"
	"net/netip"

	"github.com/HerbHall/onvifsrvd/internal/netif"
	"github.com/HerbHall/onvifsrvd/internal/profile"
	"github.com/HerbHall/onvifsrvd/internal/ptz"
	"github.com/google/uuid"
)

// Service paths. Any path under /onvif/ is served; these are the ones
// advertised in XAddrs.
const (
	DeviceServicePath = "/onvif/device_service"
	MediaServicePath  = "/onvif/media_service"
	PTZServicePath    = "/onvif/ptz_service"
)

// Startup validation errors.
var (
	ErrNoInterfaces = errors.New("at least one network interface is required")
	ErrNoScopes     = errors.New("at least one scope is required")
	ErrNoProfiles   = errors.New("at least one media profile is required")
)

// Info is the identity reported by GetDeviceInformation.
type Info struct {
	Manufacturer    string
	Model           string
	FirmwareVersion string
	SerialNumber    string
	HardwareID      string
}

// DefaultInfo returns the identity used when none is configured.
func DefaultInfo() Info {
	return Info{
		Manufacturer:    "Manufacturer",
		Model:           "Model",
		FirmwareVersion: "FirmwareVersion",
		SerialNumber:    "SerialNumber",
		HardwareID:      "HardwareID",
	}
}

// Builder accumulates configuration before validation.
type Builder struct {
	Port     int
	User     string
	Password string
	Info     Info
	PTZ      ptz.CommandSet

	scopes   []string
	ifaces   []netif.Interface
	profiles *profile.Store
}

// NewBuilder returns a builder with the daemon defaults.
func NewBuilder() *Builder {
	return &Builder{
		Port:     1000,
		User:     "admin",
		Password: "admin",
		Info:     DefaultInfo(),
		profiles: profile.NewStore(),
	}
}

func (b *Builder) AddScope(scope string) {
	b.scopes = append(b.scopes, scope)
}

func (b *Builder) AddInterface(iface netif.Interface) {
	b.ifaces = append(b.ifaces, iface)
}

// AddProfile validates and stores p; see profile.Store.Add.
func (b *Builder) AddProfile(p profile.Profile) error {
	if err := b.profiles.Add(p); err != nil {
		return fmt.Errorf("add profile: %w", err)
	}
	return nil
}

// Build validates the accumulated configuration and freezes it.
func (b *Builder) Build() (*Context, error) {
	switch {
	case len(b.ifaces) == 0:
		return nil, ErrNoInterfaces
	case len(b.scopes) == 0:
		return nil, ErrNoScopes
	case b.profiles.Len() == 0:
		return nil, ErrNoProfiles
	}
	if b.Port <= 0 || b.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", b.Port)
	}

	profiles := profile.NewStore()
	for _, p := range b.profiles.All() {
		// Already validated by AddProfile.
		_ = profiles.Add(p)
	}
	return &Context{
		port:       b.Port,
		user:       b.User,
		password:   b.Password,
		info:       b.Info,
		scopes:     append([]string(nil), b.scopes...),
		interfaces: netif.NewRegistry(b.ifaces...),
		profiles:   profiles,
		ptz:        b.PTZ,
	}, nil
}

// Context is the immutable device description shared by all requests.
type Context struct {
	port       int
	user       string
	password   string
	info       Info
	scopes     []string
	interfaces *netif.Registry
	profiles   *profile.Store
	ptz        ptz.CommandSet
}

func (c *Context) Port() int        { return c.port }
func (c *Context) User() string     { return c.user }
func (c *Context) Password() string { return c.password }
func (c *Context) Info() Info       { return c.info }

// PTZ returns the actuator command set.
func (c *Context) PTZ() ptz.CommandSet { return c.ptz }

// Scopes returns a copy of the configured scope URIs.
func (c *Context) Scopes() []string {
	return append([]string(nil), c.scopes...)
}

// Interfaces returns the read-only interface registry.
func (c *Context) Interfaces() *netif.Registry { return c.interfaces }

// Profile looks up a media profile by token.
func (c *Context) Profile(name string) (profile.Profile, bool) {
	return c.profiles.Get(name)
}

// Profiles returns all media profiles in configuration order.
func (c *Context) Profiles() []profile.Profile {
	return c.profiles.All()
}

// HasSnapshot reports whether any profile has a snapshot template.
func (c *Context) HasSnapshot() bool {
	return c.profiles.HasSnapshot()
}

// ResolveAddress returns the local address to advertise to client.
func (c *Context) ResolveAddress(client netip.Addr) netip.Addr {
	return c.interfaces.Resolve(client)
}

// XAddr returns the absolute URL of the service at path as seen by client.
func (c *Context) XAddr(client netip.Addr, path string) string {
	return c.interfaces.ServiceURL(client, c.port, path)
}

// StreamURI renders the stream URL of the named profile for client.
func (c *Context) StreamURI(name string, client netip.Addr) (string, bool) {
	p, ok := c.profiles.Get(name)
	if !ok || p.URL == "" {
		return "", false
	}
	return profile.RenderStreamURI(p, c.ResolveAddress(client).String()), true
}

// SnapshotURI renders the snapshot URL of the named profile for client.
func (c *Context) SnapshotURI(name string, client netip.Addr) (string, bool) {
	p, ok := c.profiles.Get(name)
	if !ok || p.SnapURL == "" {
		return "", false
	}
	return profile.RenderSnapshotURI(p, c.ResolveAddress(client).String()), true
}

// EndpointReference is a stable urn:uuid derived from the device identity.
func (c *Context) EndpointReference() string {
	name := c.info.Manufacturer + "/" + c.info.Model + "/" + c.info.SerialNumber + "/" + c.info.HardwareID
	return "urn:uuid:" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}
