package onvif

import (
	"context"
	"encoding/xml"
	"os"
	"time"

	"github.com/HerbHall/onvifsrvd/internal/device"
	"github.com/HerbHall/onvifsrvd/internal/schema"
	"go.uber.org/zap"
)

// WsdlURL is returned by GetWsdlUrl.
const WsdlURL = "http://www.onvif.org/ver10/device/wsdl/devicemgmt.wsdl"

type getDeviceInformationResponse struct {
	XMLName xml.Name `xml:"http://www.onvif.org/ver10/device/wsdl GetDeviceInformationResponse"`
	schema.DeviceInformation
}

type getServicesResponse struct {
	XMLName xml.Name         `xml:"http://www.onvif.org/ver10/device/wsdl GetServicesResponse"`
	Service []schema.Service `xml:"http://www.onvif.org/ver10/device/wsdl Service"`
}

type getDeviceServiceCapabilitiesResponse struct {
	XMLName      xml.Name `xml:"http://www.onvif.org/ver10/device/wsdl GetServiceCapabilitiesResponse"`
	Capabilities schema.DeviceServiceCapabilities
}

type getCapabilitiesResponse struct {
	XMLName      xml.Name            `xml:"http://www.onvif.org/ver10/device/wsdl GetCapabilitiesResponse"`
	Capabilities schema.Capabilities `xml:"http://www.onvif.org/ver10/device/wsdl Capabilities"`
}

type getScopesResponse struct {
	XMLName xml.Name       `xml:"http://www.onvif.org/ver10/device/wsdl GetScopesResponse"`
	Scopes  []schema.Scope `xml:"http://www.onvif.org/ver10/device/wsdl Scopes"`
}

type getSystemDateAndTimeResponse struct {
	XMLName           xml.Name              `xml:"http://www.onvif.org/ver10/device/wsdl GetSystemDateAndTimeResponse"`
	SystemDateAndTime schema.SystemDateTime `xml:"http://www.onvif.org/ver10/device/wsdl SystemDateAndTime"`
}

type getHostnameResponse struct {
	XMLName             xml.Name                   `xml:"http://www.onvif.org/ver10/device/wsdl GetHostnameResponse"`
	HostnameInformation schema.HostnameInformation `xml:"http://www.onvif.org/ver10/device/wsdl HostnameInformation"`
}

type getNetworkInterfacesResponse struct {
	XMLName           xml.Name                  `xml:"http://www.onvif.org/ver10/device/wsdl GetNetworkInterfacesResponse"`
	NetworkInterfaces []schema.NetworkInterface `xml:"http://www.onvif.org/ver10/device/wsdl NetworkInterfaces"`
}

type getUsersResponse struct {
	XMLName xml.Name      `xml:"http://www.onvif.org/ver10/device/wsdl GetUsersResponse"`
	User    []schema.User `xml:"http://www.onvif.org/ver10/device/wsdl User"`
}

type getWsdlUrlResponse struct {
	XMLName xml.Name `xml:"http://www.onvif.org/ver10/device/wsdl GetWsdlUrlResponse"`
	WsdlUrl string   `xml:"http://www.onvif.org/ver10/device/wsdl WsdlUrl"`
}

type getEndpointReferenceResponse struct {
	XMLName xml.Name `xml:"http://www.onvif.org/ver10/device/wsdl GetEndpointReferenceResponse"`
	GUID    string   `xml:"http://www.onvif.org/ver10/device/wsdl GUID"`
}

// DeviceService implements the Device management operations.
type DeviceService struct {
	dc       *device.Context
	logger   *zap.Logger
	now      func() time.Time
	hostname func() (string, error)
	ops      operations
}

// NewDeviceService creates the Device service over dc.
func NewDeviceService(dc *device.Context, logger *zap.Logger) *DeviceService {
	s := &DeviceService{
		dc:       dc,
		logger:   logger,
		now:      time.Now,
		hostname: os.Hostname,
	}
	s.ops = operations{
		"GetDeviceInformation":   s.getDeviceInformation,
		"GetServices":            s.getServices,
		"GetServiceCapabilities": s.getServiceCapabilities,
		"GetCapabilities":        s.getCapabilities,
		"GetScopes":              s.getScopes,
		"GetSystemDateAndTime":   s.getSystemDateAndTime,
		"GetHostname":            s.getHostname,
		"GetNetworkInterfaces":   s.getNetworkInterfaces,
		"GetUsers":               s.getUsers,
		"GetWsdlUrl":             s.getWsdlURL,
		"GetEndpointReference":   s.getEndpointReference,
	}
	return s
}

func (s *DeviceService) Group() Group { return GroupDevice }

func (s *DeviceService) Handle(ctx context.Context, call Call) (any, error) {
	return s.ops.handle(ctx, GroupDevice, call)
}

func (s *DeviceService) getDeviceInformation(context.Context, Call) (any, error) {
	return getDeviceInformationResponse{DeviceInformation: s.dc.DeviceInformation()}, nil
}

func (s *DeviceService) getServices(_ context.Context, call Call) (any, error) {
	include := call.Request.Bool("IncludeCapability")
	return getServicesResponse{Service: s.dc.Services(call.Client, include)}, nil
}

func (s *DeviceService) getServiceCapabilities(context.Context, Call) (any, error) {
	return getDeviceServiceCapabilitiesResponse{Capabilities: s.dc.DeviceServiceCapabilities()}, nil
}

func (s *DeviceService) getCapabilities(_ context.Context, call Call) (any, error) {
	return getCapabilitiesResponse{Capabilities: s.dc.Capabilities(call.Client)}, nil
}

func (s *DeviceService) getScopes(context.Context, Call) (any, error) {
	return getScopesResponse{Scopes: s.dc.ScopeList()}, nil
}

func (s *DeviceService) getSystemDateAndTime(context.Context, Call) (any, error) {
	now := s.now().UTC()
	return getSystemDateAndTimeResponse{
		SystemDateAndTime: schema.SystemDateTime{
			DateTimeType: "Manual",
			TimeZone:     &schema.TimeZone{TZ: "UTC"},
			UTCDateTime: schema.DateTime{
				Time: schema.Time{Hour: now.Hour(), Minute: now.Minute(), Second: now.Second()},
				Date: schema.Date{Year: now.Year(), Month: int(now.Month()), Day: now.Day()},
			},
		},
	}, nil
}

func (s *DeviceService) getHostname(context.Context, Call) (any, error) {
	name, err := s.hostname()
	if err != nil {
		s.logger.Debug("hostname unavailable", zap.Error(err))
		name = ""
	}
	return getHostnameResponse{HostnameInformation: schema.HostnameInformation{Name: name}}, nil
}

func (s *DeviceService) getNetworkInterfaces(context.Context, Call) (any, error) {
	return getNetworkInterfacesResponse{NetworkInterfaces: s.dc.NetworkInterfaces()}, nil
}

func (s *DeviceService) getUsers(context.Context, Call) (any, error) {
	return getUsersResponse{User: s.dc.Users()}, nil
}

func (s *DeviceService) getWsdlURL(context.Context, Call) (any, error) {
	return getWsdlUrlResponse{WsdlUrl: WsdlURL}, nil
}

func (s *DeviceService) getEndpointReference(context.Context, Call) (any, error) {
	return getEndpointReferenceResponse{GUID: s.dc.EndpointReference()}, nil
}
