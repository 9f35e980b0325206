package onvif

import (
	"context"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"

	"github.com/beevik/etree"

	"github.com/HerbHall/onvifsrvd/internal/device"
	"github.com/HerbHall/onvifsrvd/internal/ptz"
	"github.com/HerbHall/onvifsrvd/internal/schema"
	"github.com/HerbHall/onvifsrvd/internal/soap"
	"go.uber.org/zap"
)

type getPTZServiceCapabilitiesResponse struct {
	XMLName      xml.Name `xml:"http://www.onvif.org/ver20/ptz/wsdl GetServiceCapabilitiesResponse"`
	Capabilities schema.PTZServiceCapabilities
}

type getConfigurationsResponse struct {
	XMLName          xml.Name                  `xml:"http://www.onvif.org/ver20/ptz/wsdl GetConfigurationsResponse"`
	PTZConfiguration []schema.PTZConfiguration `xml:"http://www.onvif.org/ver20/ptz/wsdl PTZConfiguration"`
}

type getConfigurationResponse struct {
	XMLName          xml.Name                 `xml:"http://www.onvif.org/ver20/ptz/wsdl GetConfigurationResponse"`
	PTZConfiguration *schema.PTZConfiguration `xml:"http://www.onvif.org/ver20/ptz/wsdl PTZConfiguration,omitempty"`
}

type getConfigurationOptionsResponse struct {
	XMLName                 xml.Name                       `xml:"http://www.onvif.org/ver20/ptz/wsdl GetConfigurationOptionsResponse"`
	PTZConfigurationOptions schema.PTZConfigurationOptions `xml:"http://www.onvif.org/ver20/ptz/wsdl PTZConfigurationOptions"`
}

type getNodesResponse struct {
	XMLName xml.Name         `xml:"http://www.onvif.org/ver20/ptz/wsdl GetNodesResponse"`
	PTZNode []schema.PTZNode `xml:"http://www.onvif.org/ver20/ptz/wsdl PTZNode"`
}

type getNodeResponse struct {
	XMLName xml.Name       `xml:"http://www.onvif.org/ver20/ptz/wsdl GetNodeResponse"`
	PTZNode schema.PTZNode `xml:"http://www.onvif.org/ver20/ptz/wsdl PTZNode"`
}

type getPresetsResponse struct {
	XMLName xml.Name           `xml:"http://www.onvif.org/ver20/ptz/wsdl GetPresetsResponse"`
	Preset  []schema.PTZPreset `xml:"http://www.onvif.org/ver20/ptz/wsdl Preset"`
}

// acknowledged lists PTZ operations that are accepted and answered with an
// empty response without acting.
var acknowledged = []string{
	"SetPreset",
	"RemovePreset",
	"GetStatus",
	"SetHomePosition",
	"AbsoluteMove",
	"SetConfiguration",
	"SendAuxiliaryCommand",
	"GetPresetTours",
	"GetPresetTour",
	"GetPresetTourOptions",
	"CreatePresetTour",
	"ModifyPresetTour",
	"OperatePresetTour",
	"RemovePresetTour",
	"GetCompatibleConfigurations",
	"GeoMove",
	"MoveAndStartTracking",
}

// PTZService implements the PTZ operations. Motion operations are forwarded
// to the actuator; structurally incomplete requests are logged and
// acknowledged without a call.
type PTZService struct {
	dc     *device.Context
	router *ptz.Router
	logger *zap.Logger
	ops    operations
}

// NewPTZService creates the PTZ service.
func NewPTZService(dc *device.Context, router *ptz.Router, logger *zap.Logger) *PTZService {
	s := &PTZService{dc: dc, router: router, logger: logger}
	s.ops = operations{
		"GetServiceCapabilities":  s.getServiceCapabilities,
		"GetConfigurations":       s.getConfigurations,
		"GetConfiguration":        s.getConfiguration,
		"GetConfigurationOptions": s.getConfigurationOptions,
		"GetNodes":                s.getNodes,
		"GetNode":                 s.getNode,
		"GetPresets":              s.getPresets,
		"GotoPreset":              s.gotoPreset,
		"GotoHomePosition":        s.gotoHomePosition,
		"ContinuousMove":          s.continuousMove,
		"RelativeMove":            s.relativeMove,
		"Stop":                    s.stop,
	}
	for _, op := range acknowledged {
		s.ops[op] = empty(GroupPTZ, op)
	}
	return s
}

func (s *PTZService) Group() Group { return GroupPTZ }

func (s *PTZService) Handle(ctx context.Context, call Call) (any, error) {
	return s.ops.handle(ctx, GroupPTZ, call)
}

func (s *PTZService) getServiceCapabilities(context.Context, Call) (any, error) {
	return getPTZServiceCapabilitiesResponse{Capabilities: s.dc.PTZServiceCapabilities()}, nil
}

func (s *PTZService) getConfigurations(context.Context, Call) (any, error) {
	return getConfigurationsResponse{PTZConfiguration: s.dc.PTZConfigurations()}, nil
}

func (s *PTZService) getConfiguration(context.Context, Call) (any, error) {
	resp := getConfigurationResponse{}
	if cfgs := s.dc.PTZConfigurations(); len(cfgs) > 0 {
		resp.PTZConfiguration = &cfgs[0]
	}
	return resp, nil
}

func (s *PTZService) getConfigurationOptions(context.Context, Call) (any, error) {
	return getConfigurationOptionsResponse{PTZConfigurationOptions: ptz.ConfigurationOptions()}, nil
}

func (s *PTZService) getNodes(context.Context, Call) (any, error) {
	return getNodesResponse{PTZNode: []schema.PTZNode{ptz.Node()}}, nil
}

func (s *PTZService) getNode(context.Context, Call) (any, error) {
	return getNodeResponse{PTZNode: ptz.Node()}, nil
}

func (s *PTZService) getPresets(context.Context, Call) (any, error) {
	return getPresetsResponse{Preset: ptz.Presets()}, nil
}

func (s *PTZService) gotoPreset(ctx context.Context, call Call) (any, error) {
	if !s.hasProfileToken(call) {
		return ack(GroupPTZ, "GotoPreset"), nil
	}
	token, ok := call.Request.Text("PresetToken")
	if !ok {
		s.ignore(call, "no PresetToken")
		return ack(GroupPTZ, "GotoPreset"), nil
	}
	s.router.GotoPreset(ctx, token)
	return ack(GroupPTZ, "GotoPreset"), nil
}

func (s *PTZService) gotoHomePosition(ctx context.Context, call Call) (any, error) {
	if s.hasProfileToken(call) {
		s.router.GotoHome(ctx)
	}
	return ack(GroupPTZ, "GotoHomePosition"), nil
}

func (s *PTZService) continuousMove(ctx context.Context, call Call) (any, error) {
	m, ok, err := s.move(call, "Velocity")
	if err != nil {
		return nil, err
	}
	if ok {
		s.router.ContinuousMove(ctx, m)
	}
	return ack(GroupPTZ, "ContinuousMove"), nil
}

func (s *PTZService) relativeMove(ctx context.Context, call Call) (any, error) {
	m, ok, err := s.move(call, "Translation")
	if err != nil {
		return nil, err
	}
	if ok {
		s.router.RelativeMove(ctx, m)
	}
	return ack(GroupPTZ, "RelativeMove"), nil
}

func (s *PTZService) stop(ctx context.Context, call Call) (any, error) {
	s.router.Stop(ctx)
	return ack(GroupPTZ, "Stop"), nil
}

func (s *PTZService) hasProfileToken(call Call) bool {
	if _, ok := call.Request.Text("ProfileToken"); ok {
		return true
	}
	s.ignore(call, "no ProfileToken")
	return false
}

// move reads the pan/tilt and zoom vectors under container. An axis missing
// any of its coordinates counts as absent. It reports false when the
// container or both axes are absent; a coordinate that is present but not a
// finite number is a Sender fault.
func (s *PTZService) move(call Call, container string) (ptz.Move, bool, error) {
	if call.Request.Find(container) == nil {
		s.ignore(call, "no "+container)
		return ptz.Move{}, false, nil
	}

	var panTilt *ptz.Vector2D
	if el := call.Request.Find(container + "/PanTilt"); el != nil {
		x, hasX, err := floatAttr(el, "x")
		if err != nil {
			return ptz.Move{}, false, invalidArg(err)
		}
		y, hasY, err := floatAttr(el, "y")
		if err != nil {
			return ptz.Move{}, false, invalidArg(err)
		}
		if hasX && hasY {
			panTilt = &ptz.Vector2D{X: x, Y: y}
		} else {
			s.dropAxis(call, "PanTilt")
		}
	}

	var zoom *ptz.Vector1D
	if el := call.Request.Find(container + "/Zoom"); el != nil {
		x, hasX, err := floatAttr(el, "x")
		if err != nil {
			return ptz.Move{}, false, invalidArg(err)
		}
		if hasX {
			zoom = &ptz.Vector1D{X: x}
		} else {
			s.dropAxis(call, "Zoom")
		}
	}

	m, ok := ptz.NewMove(panTilt, zoom)
	if !ok {
		s.ignore(call, "no PanTilt or Zoom in "+container)
	}
	return m, ok, nil
}

func (s *PTZService) ignore(call Call, reason string) {
	s.logger.Debug("ptz request ignored",
		zap.String("operation", call.Operation()),
		zap.String("reason", reason),
	)
}

func (s *PTZService) dropAxis(call Call, axis string) {
	s.logger.Debug("ptz axis ignored",
		zap.String("operation", call.Operation()),
		zap.String("axis", axis),
		zap.String("reason", "missing coordinate"),
	)
}

// floatAttr parses an optional numeric attribute. A missing attribute
// reports false; NaN and infinities are rejected.
func floatAttr(el *etree.Element, name string) (float64, bool, error) {
	attr := el.SelectAttr(name)
	if attr == nil {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(attr.Value, 64)
	if err != nil {
		return 0, true, fmt.Errorf("%s@%s: %w", el.Tag, name, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, true, fmt.Errorf("%s@%s: %q is not a finite number", el.Tag, name, attr.Value)
	}
	return v, true, nil
}

func invalidArg(err error) *soap.Fault {
	return &soap.Fault{
		Code:     soap.CodeSender,
		Subcodes: []string{"ter:InvalidArgVal"},
		Reason:   err.Error(),
	}
}
