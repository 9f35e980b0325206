// Package onvif routes decoded SOAP calls to the Device, Media and PTZ
// services and implements their operations over a device.Context.
package onvif

import (
	"github.com/HerbHall/onvifsrvd/internal/device"
	"github.com/HerbHall/onvifsrvd/internal/schema"
)

// Group is a service group. The set is closed.
type Group int

const (
	GroupDevice Group = iota
	GroupMedia
	GroupPTZ
)

// Groups lists every group.
var Groups = []Group{GroupDevice, GroupMedia, GroupPTZ}

func (g Group) String() string {
	switch g {
	case GroupDevice:
		return "device"
	case GroupMedia:
		return "media"
	case GroupPTZ:
		return "ptz"
	}
	return "unknown"
}

// Namespace is the WSDL namespace of the group's operation elements.
func (g Group) Namespace() string {
	switch g {
	case GroupDevice:
		return schema.NSDevice
	case GroupMedia:
		return schema.NSMedia
	case GroupPTZ:
		return schema.NSPTZ
	}
	return ""
}

// Path is the service path advertised for the group.
func (g Group) Path() string {
	switch g {
	case GroupDevice:
		return device.DeviceServicePath
	case GroupMedia:
		return device.MediaServicePath
	case GroupPTZ:
		return device.PTZServicePath
	}
	return ""
}
