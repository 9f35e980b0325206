package device_test

import (
	"errors"
	"net/netip"
	"strings"
	"testing"

	"github.com/HerbHall/onvifsrvd/internal/device"
	"github.com/HerbHall/onvifsrvd/internal/ptz"
	"github.com/HerbHall/onvifsrvd/internal/schema"
	"github.com/HerbHall/onvifsrvd/internal/testutil"
)

var (
	lanClient = netip.MustParseAddr("192.168.1.50")
	wanClient = netip.MustParseAddr("10.1.2.3")
	farClient = netip.MustParseAddr("172.16.0.1")
)

func TestBuild_RequiresInterfacesScopesProfiles(t *testing.T) {
	tests := []struct {
		name  string
		setup func(b *device.Builder)
		want  error
	}{
		{
			name:  "empty",
			setup: func(*device.Builder) {},
			want:  device.ErrNoInterfaces,
		},
		{
			name: "no scopes",
			setup: func(b *device.Builder) {
				b.AddInterface(testutil.MustInterface(t, testutil.LANInterface))
			},
			want: device.ErrNoScopes,
		},
		{
			name: "no profiles",
			setup: func(b *device.Builder) {
				b.AddInterface(testutil.MustInterface(t, testutil.LANInterface))
				b.AddScope(testutil.Scope)
			},
			want: device.ErrNoProfiles,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := device.NewBuilder()
			tt.setup(b)
			_, err := b.Build()
			if !errors.Is(err, tt.want) {
				t.Errorf("Build() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuild_Defaults(t *testing.T) {
	b := device.NewBuilder()
	b.AddInterface(testutil.MustInterface(t, testutil.LANInterface))
	b.AddScope(testutil.Scope)
	if err := b.AddProfile(testutil.NewProfile()); err != nil {
		t.Fatalf("AddProfile: %v", err)
	}
	ctx, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if ctx.Port() != 1000 {
		t.Errorf("Port() = %d, want 1000", ctx.Port())
	}
	if ctx.User() != "admin" || ctx.Password() != "admin" {
		t.Errorf("credentials = %q/%q, want admin/admin", ctx.User(), ctx.Password())
	}
	if got := ctx.DeviceInformation().HardwareId; got != "HardwareID" {
		t.Errorf("HardwareId = %q, want HardwareID", got)
	}
}

func TestBuild_ContextIsDetachedFromBuilder(t *testing.T) {
	b := device.NewBuilder()
	b.AddInterface(testutil.MustInterface(t, testutil.LANInterface))
	b.AddScope(testutil.Scope)
	if err := b.AddProfile(testutil.NewProfile()); err != nil {
		t.Fatalf("AddProfile: %v", err)
	}
	ctx, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	b.AddScope("onvif://www.onvif.org/late")
	_ = b.AddProfile(testutil.NewProfile(testutil.WithProfileName("late")))

	if n := len(ctx.Scopes()); n != 1 {
		t.Errorf("len(Scopes()) = %d after builder mutation, want 1", n)
	}
	if _, ok := ctx.Profile("late"); ok {
		t.Error("profile added after Build is visible in context")
	}

	scopes := ctx.Scopes()
	scopes[0] = "mutated"
	if ctx.Scopes()[0] != testutil.Scope {
		t.Error("Scopes() exposes internal slice")
	}
}

func TestStreamURI_ResolvesPerClient(t *testing.T) {
	ctx := testutil.NewDevice(t)
	tests := []struct {
		client netip.Addr
		want   string
	}{
		{lanClient, "rtsp://192.168.1.10:554/main"},
		{wanClient, "rtsp://10.0.0.5:554/main"},
		{farClient, "rtsp://192.168.1.10:554/main"},
	}
	for _, tt := range tests {
		got, ok := ctx.StreamURI("main", tt.client)
		if !ok || got != tt.want {
			t.Errorf("StreamURI(main, %s) = %q, %v; want %q", tt.client, got, ok, tt.want)
		}
	}

	if _, ok := ctx.StreamURI("missing", lanClient); ok {
		t.Error("StreamURI for unknown profile reported ok")
	}
}

func TestSnapshotURI(t *testing.T) {
	ctx := testutil.NewDevice(t, testutil.WithProfiles(
		testutil.NewProfile(),
		testutil.NewProfile(testutil.WithProfileName("nosnap"), testutil.WithURLs("rtsp://%s/sub", "")),
	))
	got, ok := ctx.SnapshotURI("main", wanClient)
	if !ok || got != "http://10.0.0.5/snap.jpg" {
		t.Errorf("SnapshotURI = %q, %v", got, ok)
	}
	if _, ok := ctx.SnapshotURI("nosnap", wanClient); ok {
		t.Error("SnapshotURI for profile without template reported ok")
	}
}

func TestXAddr(t *testing.T) {
	ctx := testutil.NewDevice(t, testutil.WithPort(1000))
	want := "http://10.0.0.5:1000/onvif/device_service"
	if got := ctx.XAddr(wanClient, device.DeviceServicePath); got != want {
		t.Errorf("XAddr = %q, want %q", got, want)
	}
}

func TestCapabilities_PTZAdvertisedOnlyWhenEnabled(t *testing.T) {
	off := testutil.NewDevice(t)
	if off.Capabilities(lanClient).PTZ != nil {
		t.Error("PTZ capability advertised while disabled")
	}
	if n := len(off.Services(lanClient, false)); n != 2 {
		t.Errorf("len(Services) = %d with PTZ disabled, want 2", n)
	}
	if off.MediaProfiles()[0].PTZConfiguration != nil {
		t.Error("profile carries PTZ configuration while disabled")
	}

	on := testutil.NewDevice(t, testutil.WithPTZ(ptz.CommandSet{Enabled: true}))
	caps := on.Capabilities(lanClient)
	if caps.PTZ == nil || caps.PTZ.XAddr != "http://192.168.1.10:8080/onvif/ptz_service" {
		t.Errorf("PTZ capability = %+v", caps.PTZ)
	}
	services := on.Services(lanClient, true)
	if len(services) != 3 || services[2].Namespace != schema.NSPTZ {
		t.Fatalf("Services = %+v", services)
	}
	if services[2].Capabilities == nil {
		t.Error("service capabilities not embedded with includeCaps")
	}
	if on.MediaProfiles()[0].PTZConfiguration == nil {
		t.Error("profile has no PTZ configuration while enabled")
	}
}

func TestMediaServiceCapabilities_SnapshotFlag(t *testing.T) {
	with := testutil.NewDevice(t)
	if !with.MediaServiceCapabilities().SnapshotUri {
		t.Error("SnapshotUri = false with a snapshot template configured")
	}
	without := testutil.NewDevice(t, testutil.WithProfiles(
		testutil.NewProfile(testutil.WithURLs("rtsp://%s/main", "")),
	))
	if without.MediaServiceCapabilities().SnapshotUri {
		t.Error("SnapshotUri = true without snapshot templates")
	}
}

func TestEndpointReference_Stable(t *testing.T) {
	info := device.DefaultInfo()
	a := testutil.NewDevice(t, testutil.WithInfo(info))
	b := testutil.NewDevice(t, testutil.WithInfo(info))
	if a.EndpointReference() != b.EndpointReference() {
		t.Error("EndpointReference differs for identical identity")
	}
	if !strings.HasPrefix(a.EndpointReference(), "urn:uuid:") {
		t.Errorf("EndpointReference = %q, want urn:uuid: prefix", a.EndpointReference())
	}
	c := testutil.NewDevice(t)
	if c.EndpointReference() == a.EndpointReference() {
		t.Error("EndpointReference ignores serial number")
	}
}

func TestNetworkInterfaces(t *testing.T) {
	ctx := testutil.NewDevice(t)
	nics := ctx.NetworkInterfaces()
	if len(nics) != 2 {
		t.Fatalf("len(NetworkInterfaces) = %d, want 2", len(nics))
	}
	manual := nics[1].IPv4.Config.Manual[0]
	if manual.Address != "10.0.0.5" || manual.PrefixLength != 8 {
		t.Errorf("nic[1] = %+v, want 10.0.0.5/8", manual)
	}
}

func TestMediaProfiles_OrderAndEncoder(t *testing.T) {
	ctx := testutil.NewDevice(t, testutil.WithProfiles(
		testutil.NewProfile(testutil.WithProfileName("b")),
		testutil.NewProfile(testutil.WithProfileName("a")),
	))
	profiles := ctx.MediaProfiles()
	if len(profiles) != 2 || profiles[0].Token != "b" || profiles[1].Token != "a" {
		t.Fatalf("MediaProfiles order = %+v", profiles)
	}
	vec := profiles[0].VideoEncoderConfiguration
	if vec.Encoding != "H264" || vec.Resolution.Width != 1920 {
		t.Errorf("encoder = %+v", vec)
	}
	if n := len(ctx.VideoEncoderConfigurations()); n != 2 {
		t.Errorf("len(VideoEncoderConfigurations) = %d, want 2", n)
	}
}
