package device

import (
	"net/netip"
	"strconv"

	"github.com/HerbHall/onvifsrvd/internal/netif"
	"github.com/HerbHall/onvifsrvd/internal/schema"
)

// MaximumNumberOfProfiles is advertised by the Media service.
const MaximumNumberOfProfiles = 8

// DeviceInformation returns the GetDeviceInformation payload.
func (c *Context) DeviceInformation() schema.DeviceInformation {
	return schema.DeviceInformation{
		Manufacturer:    c.info.Manufacturer,
		Model:           c.info.Model,
		FirmwareVersion: c.info.FirmwareVersion,
		SerialNumber:    c.info.SerialNumber,
		HardwareId:      c.info.HardwareID,
	}
}

func (c *Context) DeviceServiceCapabilities() schema.DeviceServiceCapabilities {
	return schema.DeviceServiceCapabilities{
		Security: schema.SecurityCapabilities{UsernameToken: true},
		System:   schema.SystemCapabilities{DiscoveryResolve: true},
	}
}

func (c *Context) MediaServiceCapabilities() schema.MediaServiceCapabilities {
	return schema.MediaServiceCapabilities{
		SnapshotUri:         c.HasSnapshot(),
		ProfileCapabilities: schema.ProfileCapabilities{MaximumNumberOfProfiles: MaximumNumberOfProfiles},
		StreamingCapabilities: schema.StreamingCapabilities{
			RTP_RTSP_TCP: true,
		},
	}
}

func (c *Context) PTZServiceCapabilities() schema.PTZServiceCapabilities {
	return schema.PTZServiceCapabilities{}
}

// Capabilities returns the legacy GetCapabilities payload with XAddrs
// resolved for client. PTZ is omitted when disabled.
func (c *Context) Capabilities(client netip.Addr) schema.Capabilities {
	caps := schema.Capabilities{
		Device: &schema.DeviceCapabilities{XAddr: c.XAddr(client, DeviceServicePath)},
		Media: &schema.MediaCapabilities{
			XAddr:                 c.XAddr(client, MediaServicePath),
			StreamingCapabilities: schema.RealTimeStreamingCapabilities{RTP_RTSP_TCP: true},
		},
	}
	if c.ptz.Enabled {
		caps.PTZ = &schema.PTZCapabilities{XAddr: c.XAddr(client, PTZServicePath)}
	}
	return caps
}

// Services returns the GetServices payload. Service capabilities are
// embedded only when includeCaps is set.
func (c *Context) Services(client netip.Addr, includeCaps bool) []schema.Service {
	type entry struct {
		ns, path string
		caps     any
	}
	entries := []entry{
		{schema.NSDevice, DeviceServicePath, c.DeviceServiceCapabilities()},
		{schema.NSMedia, MediaServicePath, c.MediaServiceCapabilities()},
	}
	if c.ptz.Enabled {
		entries = append(entries, entry{schema.NSPTZ, PTZServicePath, c.PTZServiceCapabilities()})
	}

	services := make([]schema.Service, 0, len(entries))
	for _, e := range entries {
		s := schema.Service{
			Namespace: e.ns,
			XAddr:     c.XAddr(client, e.path),
			Version:   schema.OnvifVersion{Major: 2, Minor: 5},
		}
		if includeCaps {
			s.Capabilities = &schema.AnyCapabilities{Value: e.caps}
		}
		services = append(services, s)
	}
	return services
}

// ScopeList returns the scopes as fixed ONVIF scope entries.
func (c *Context) ScopeList() []schema.Scope {
	scopes := make([]schema.Scope, 0, len(c.scopes))
	for _, s := range c.scopes {
		scopes = append(scopes, schema.Scope{ScopeDef: "Fixed", ScopeItem: s})
	}
	return scopes
}

// NetworkInterfaces describes the configured interfaces.
func (c *Context) NetworkInterfaces() []schema.NetworkInterface {
	all := c.interfaces.All()
	out := make([]schema.NetworkInterface, 0, len(all))
	for i, iface := range all {
		out = append(out, networkInterface(i, iface))
	}
	return out
}

func networkInterface(i int, iface netif.Interface) schema.NetworkInterface {
	token := iface.Name
	if token == "" {
		token = "eth" + strconv.Itoa(i)
	}
	return schema.NetworkInterface{
		Token:   token,
		Enabled: true,
		Info:    &schema.NetworkInterfaceInfo{Name: token},
		IPv4: &schema.IPv4NetworkInterface{
			Enabled: true,
			Config: schema.IPv4Configuration{
				Manual: []schema.PrefixedIPv4Address{
					{Address: iface.Addr.String(), PrefixLength: iface.PrefixLen()},
				},
			},
		},
	}
}

// Users lists the single configured account.
func (c *Context) Users() []schema.User {
	return []schema.User{{Username: c.user, UserLevel: "Administrator"}}
}
