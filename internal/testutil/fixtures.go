// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"testing"

	"github.com/google/uuid"

	"github.com/HerbHall/onvifsrvd/internal/device"
	"github.com/HerbHall/onvifsrvd/internal/netif"
	"github.com/HerbHall/onvifsrvd/internal/profile"
	"github.com/HerbHall/onvifsrvd/internal/ptz"
)

// Default fixture values.
const (
	LANInterface = "192.168.1.10/24"
	WANInterface = "10.0.0.5/8"
	Scope        = "onvif://www.onvif.org/name/TestCamera"
)

// NewProfile returns a valid H264 profile with both URL templates set.
func NewProfile(opts ...func(*profile.Profile)) profile.Profile {
	p := profile.Profile{
		Name:     "main",
		Width:    1920,
		Height:   1080,
		URL:      "rtsp://%s:554/main",
		SnapURL:  "http://%s/snap.jpg",
		Encoding: profile.EncodingH264,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// WithProfileName sets the profile name.
func WithProfileName(name string) func(*profile.Profile) {
	return func(p *profile.Profile) { p.Name = name }
}

// WithURLs sets the stream and snapshot templates.
func WithURLs(stream, snap string) func(*profile.Profile) {
	return func(p *profile.Profile) { p.URL, p.SnapURL = stream, snap }
}

// DeviceFixture describes the context NewDevice builds.
type DeviceFixture struct {
	Interfaces []string
	Scopes     []string
	Profiles   []profile.Profile
	PTZ        ptz.CommandSet
	Port       int
	Info       device.Info
}

// NewDevice builds a context with two interfaces (LAN first), one scope,
// one profile and PTZ disabled unless options say otherwise. The default
// serial number is random so endpoint references differ between fixtures.
func NewDevice(t testing.TB, opts ...func(*DeviceFixture)) *device.Context {
	t.Helper()
	info := device.DefaultInfo()
	info.SerialNumber = uuid.NewString()
	f := DeviceFixture{
		Interfaces: []string{LANInterface, WANInterface},
		Scopes:     []string{Scope},
		Profiles:   []profile.Profile{NewProfile()},
		Port:       8080,
		Info:       info,
	}
	for _, opt := range opts {
		opt(&f)
	}

	b := device.NewBuilder()
	b.Port = f.Port
	b.Info = f.Info
	b.PTZ = f.PTZ
	for _, spec := range f.Interfaces {
		b.AddInterface(MustInterface(t, spec))
	}
	for _, s := range f.Scopes {
		b.AddScope(s)
	}
	for _, p := range f.Profiles {
		if err := b.AddProfile(p); err != nil {
			t.Fatalf("AddProfile: %v", err)
		}
	}
	ctx, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return ctx
}

// MustInterface parses spec or fails the test.
func MustInterface(t testing.TB, spec string) netif.Interface {
	t.Helper()
	iface, err := netif.Parse(spec)
	if err != nil {
		t.Fatalf("netif.Parse(%q): %v", spec, err)
	}
	return iface
}

// WithInterfaces replaces the default interfaces.
func WithInterfaces(specs ...string) func(*DeviceFixture) {
	return func(f *DeviceFixture) { f.Interfaces = specs }
}

// WithProfiles replaces the default profile.
func WithProfiles(profiles ...profile.Profile) func(*DeviceFixture) {
	return func(f *DeviceFixture) { f.Profiles = profiles }
}

// WithPTZ sets the PTZ command set.
func WithPTZ(cs ptz.CommandSet) func(*DeviceFixture) {
	return func(f *DeviceFixture) { f.PTZ = cs }
}

// WithPort sets the advertised port.
func WithPort(port int) func(*DeviceFixture) {
	return func(f *DeviceFixture) { f.Port = port }
}

// WithInfo sets the device identity.
func WithInfo(info device.Info) func(*DeviceFixture) {
	return func(f *DeviceFixture) { f.Info = info }
}
