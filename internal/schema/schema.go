// Package schema defines the ONVIF XML types the daemon puts on the wire.
//
// Element names carry their namespace URI in the struct tag, so encoding/xml
// emits namespace-qualified elements without a prefix table. Types that are
// embedded under different element names have no XMLName field; the parent
// field tag names them.
package schema

import "encoding/xml"

// Namespace URIs.
const (
	NSEnvelope = "http://www.w3.org/2003/05/soap-envelope"
	NSSchema   = "http://www.onvif.org/ver10/schema"
	NSDevice   = "http://www.onvif.org/ver10/device/wsdl"
	NSMedia    = "http://www.onvif.org/ver10/media/wsdl"
	NSPTZ      = "http://www.onvif.org/ver20/ptz/wsdl"
	NSError    = "http://www.onvif.org/ver10/error"
)

// PTZ space URIs.
const (
	RelativePanTiltTranslationSpace = "http://www.onvif.org/ver10/tptz/PanTiltSpaces/TranslationGenericSpace"
	RelativeZoomTranslationSpace    = "http://www.onvif.org/ver10/tptz/ZoomSpaces/TranslationGenericSpace"
	ContinuousPanTiltVelocitySpace  = "http://www.onvif.org/ver10/tptz/PanTiltSpaces/VelocityGenericSpace"
	ContinuousZoomVelocitySpace     = "http://www.onvif.org/ver10/tptz/ZoomSpaces/VelocityGenericSpace"
	PanTiltSpeedSpace               = "http://www.onvif.org/ver10/tptz/PanTiltSpaces/GenericSpeedSpace"
	ZoomSpeedSpace                  = "http://www.onvif.org/ver10/tptz/ZoomSpaces/ZoomGenericSpeedSpace"
)

// --- Device ---

type DeviceInformation struct {
	Manufacturer    string `xml:"http://www.onvif.org/ver10/device/wsdl Manufacturer"`
	Model           string `xml:"http://www.onvif.org/ver10/device/wsdl Model"`
	FirmwareVersion string `xml:"http://www.onvif.org/ver10/device/wsdl FirmwareVersion"`
	SerialNumber    string `xml:"http://www.onvif.org/ver10/device/wsdl SerialNumber"`
	HardwareId      string `xml:"http://www.onvif.org/ver10/device/wsdl HardwareId"`
}

type Scope struct {
	ScopeDef  string `xml:"http://www.onvif.org/ver10/schema ScopeDef"`
	ScopeItem string `xml:"http://www.onvif.org/ver10/schema ScopeItem"`
}

type User struct {
	Username  string `xml:"http://www.onvif.org/ver10/schema Username"`
	UserLevel string `xml:"http://www.onvif.org/ver10/schema UserLevel"`
}

type HostnameInformation struct {
	FromDHCP bool   `xml:"http://www.onvif.org/ver10/schema FromDHCP"`
	Name     string `xml:"http://www.onvif.org/ver10/schema Name,omitempty"`
}

type Time struct {
	Hour   int `xml:"http://www.onvif.org/ver10/schema Hour"`
	Minute int `xml:"http://www.onvif.org/ver10/schema Minute"`
	Second int `xml:"http://www.onvif.org/ver10/schema Second"`
}

type Date struct {
	Year  int `xml:"http://www.onvif.org/ver10/schema Year"`
	Month int `xml:"http://www.onvif.org/ver10/schema Month"`
	Day   int `xml:"http://www.onvif.org/ver10/schema Day"`
}

type DateTime struct {
	Time Time `xml:"http://www.onvif.org/ver10/schema Time"`
	Date Date `xml:"http://www.onvif.org/ver10/schema Date"`
}

type TimeZone struct {
	TZ string `xml:"http://www.onvif.org/ver10/schema TZ"`
}

type SystemDateTime struct {
	DateTimeType    string    `xml:"http://www.onvif.org/ver10/schema DateTimeType"`
	DaylightSavings bool      `xml:"http://www.onvif.org/ver10/schema DaylightSavings"`
	TimeZone        *TimeZone `xml:"http://www.onvif.org/ver10/schema TimeZone,omitempty"`
	UTCDateTime     DateTime  `xml:"http://www.onvif.org/ver10/schema UTCDateTime"`
}

type PrefixedIPv4Address struct {
	Address      string `xml:"http://www.onvif.org/ver10/schema Address"`
	PrefixLength int    `xml:"http://www.onvif.org/ver10/schema PrefixLength"`
}

type IPv4Configuration struct {
	Manual []PrefixedIPv4Address `xml:"http://www.onvif.org/ver10/schema Manual"`
	DHCP   bool                  `xml:"http://www.onvif.org/ver10/schema DHCP"`
}

type IPv4NetworkInterface struct {
	Enabled bool              `xml:"http://www.onvif.org/ver10/schema Enabled"`
	Config  IPv4Configuration `xml:"http://www.onvif.org/ver10/schema Config"`
}

type NetworkInterfaceInfo struct {
	Name string `xml:"http://www.onvif.org/ver10/schema Name,omitempty"`
}

type NetworkInterface struct {
	Token   string                `xml:"token,attr"`
	Enabled bool                  `xml:"http://www.onvif.org/ver10/schema Enabled"`
	Info    *NetworkInterfaceInfo `xml:"http://www.onvif.org/ver10/schema Info,omitempty"`
	IPv4    *IPv4NetworkInterface `xml:"http://www.onvif.org/ver10/schema IPv4,omitempty"`
}

// --- Legacy GetCapabilities ---

type DeviceCapabilities struct {
	XAddr string `xml:"http://www.onvif.org/ver10/schema XAddr"`
}

type RealTimeStreamingCapabilities struct {
	RTPMulticast bool `xml:"http://www.onvif.org/ver10/schema RTPMulticast"`
	RTP_TCP      bool `xml:"http://www.onvif.org/ver10/schema RTP_TCP"`
	RTP_RTSP_TCP bool `xml:"http://www.onvif.org/ver10/schema RTP_RTSP_TCP"`
}

type MediaCapabilities struct {
	XAddr                 string                        `xml:"http://www.onvif.org/ver10/schema XAddr"`
	StreamingCapabilities RealTimeStreamingCapabilities `xml:"http://www.onvif.org/ver10/schema StreamingCapabilities"`
}

type PTZCapabilities struct {
	XAddr string `xml:"http://www.onvif.org/ver10/schema XAddr"`
}

type Capabilities struct {
	Device *DeviceCapabilities `xml:"http://www.onvif.org/ver10/schema Device,omitempty"`
	Media  *MediaCapabilities  `xml:"http://www.onvif.org/ver10/schema Media,omitempty"`
	PTZ    *PTZCapabilities    `xml:"http://www.onvif.org/ver10/schema PTZ,omitempty"`
}

// --- Service capabilities (GetServiceCapabilities / GetServices) ---

type NetworkCapabilities struct {
	IPFilter          bool `xml:"IPFilter,attr"`
	ZeroConfiguration bool `xml:"ZeroConfiguration,attr"`
	IPVersion6        bool `xml:"IPVersion6,attr"`
	DynDNS            bool `xml:"DynDNS,attr"`
}

type SecurityCapabilities struct {
	TLS10         bool `xml:"TLS1.0,attr"`
	TLS11         bool `xml:"TLS1.1,attr"`
	TLS12         bool `xml:"TLS1.2,attr"`
	UsernameToken bool `xml:"UsernameToken,attr"`
	HttpDigest    bool `xml:"HttpDigest,attr"`
}

type SystemCapabilities struct {
	DiscoveryResolve bool `xml:"DiscoveryResolve,attr"`
	DiscoveryBye     bool `xml:"DiscoveryBye,attr"`
	RemoteDiscovery  bool `xml:"RemoteDiscovery,attr"`
	SystemBackup     bool `xml:"SystemBackup,attr"`
	SystemLogging    bool `xml:"SystemLogging,attr"`
	FirmwareUpgrade  bool `xml:"FirmwareUpgrade,attr"`
}

type DeviceServiceCapabilities struct {
	XMLName  xml.Name             `xml:"http://www.onvif.org/ver10/device/wsdl Capabilities"`
	Network  NetworkCapabilities  `xml:"http://www.onvif.org/ver10/device/wsdl Network"`
	Security SecurityCapabilities `xml:"http://www.onvif.org/ver10/device/wsdl Security"`
	System   SystemCapabilities   `xml:"http://www.onvif.org/ver10/device/wsdl System"`
}

type ProfileCapabilities struct {
	MaximumNumberOfProfiles int `xml:"MaximumNumberOfProfiles,attr"`
}

type StreamingCapabilities struct {
	RTPMulticast bool `xml:"RTPMulticast,attr"`
	RTP_TCP      bool `xml:"RTP_TCP,attr"`
	RTP_RTSP_TCP bool `xml:"RTP_RTSP_TCP,attr"`
}

type MediaServiceCapabilities struct {
	XMLName               xml.Name              `xml:"http://www.onvif.org/ver10/media/wsdl Capabilities"`
	SnapshotUri           bool                  `xml:"SnapshotUri,attr"`
	ProfileCapabilities   ProfileCapabilities   `xml:"http://www.onvif.org/ver10/media/wsdl ProfileCapabilities"`
	StreamingCapabilities StreamingCapabilities `xml:"http://www.onvif.org/ver10/media/wsdl StreamingCapabilities"`
}

type PTZServiceCapabilities struct {
	XMLName                     xml.Name `xml:"http://www.onvif.org/ver20/ptz/wsdl Capabilities"`
	EFlip                       bool     `xml:"EFlip,attr"`
	Reverse                     bool     `xml:"Reverse,attr"`
	GetCompatibleConfigurations bool     `xml:"GetCompatibleConfigurations,attr"`
	MoveStatus                  bool     `xml:"MoveStatus,attr"`
	StatusPosition              bool     `xml:"StatusPosition,attr"`
}

// AnyCapabilities wraps one of the service capability types inside a
// tds:Service entry.
type AnyCapabilities struct {
	Value any
}

type OnvifVersion struct {
	Major int `xml:"http://www.onvif.org/ver10/schema Major"`
	Minor int `xml:"http://www.onvif.org/ver10/schema Minor"`
}

type Service struct {
	Namespace    string           `xml:"http://www.onvif.org/ver10/device/wsdl Namespace"`
	XAddr        string           `xml:"http://www.onvif.org/ver10/device/wsdl XAddr"`
	Capabilities *AnyCapabilities `xml:"http://www.onvif.org/ver10/device/wsdl Capabilities,omitempty"`
	Version      OnvifVersion     `xml:"http://www.onvif.org/ver10/device/wsdl Version"`
}
