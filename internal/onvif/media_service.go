package onvif

import (
	"context"
	"encoding/xml"

	"github.com/HerbHall/onvifsrvd/internal/device"
	"github.com/HerbHall/onvifsrvd/internal/schema"
	"github.com/HerbHall/onvifsrvd/internal/soap"
	"go.uber.org/zap"
)

type getMediaServiceCapabilitiesResponse struct {
	XMLName      xml.Name `xml:"http://www.onvif.org/ver10/media/wsdl GetServiceCapabilitiesResponse"`
	Capabilities schema.MediaServiceCapabilities
}

type getProfilesResponse struct {
	XMLName  xml.Name         `xml:"http://www.onvif.org/ver10/media/wsdl GetProfilesResponse"`
	Profiles []schema.Profile `xml:"http://www.onvif.org/ver10/media/wsdl Profiles"`
}

type getProfileResponse struct {
	XMLName xml.Name       `xml:"http://www.onvif.org/ver10/media/wsdl GetProfileResponse"`
	Profile schema.Profile `xml:"http://www.onvif.org/ver10/media/wsdl Profile"`
}

type getVideoSourcesResponse struct {
	XMLName      xml.Name             `xml:"http://www.onvif.org/ver10/media/wsdl GetVideoSourcesResponse"`
	VideoSources []schema.VideoSource `xml:"http://www.onvif.org/ver10/media/wsdl VideoSources"`
}

type getVideoSourceConfigurationsResponse struct {
	XMLName        xml.Name                          `xml:"http://www.onvif.org/ver10/media/wsdl GetVideoSourceConfigurationsResponse"`
	Configurations []schema.VideoSourceConfiguration `xml:"http://www.onvif.org/ver10/media/wsdl Configurations"`
}

type getVideoEncoderConfigurationsResponse struct {
	XMLName        xml.Name                           `xml:"http://www.onvif.org/ver10/media/wsdl GetVideoEncoderConfigurationsResponse"`
	Configurations []schema.VideoEncoderConfiguration `xml:"http://www.onvif.org/ver10/media/wsdl Configurations"`
}

type mediaURIResponse struct {
	XMLName  xml.Name
	MediaUri schema.MediaUri `xml:"http://www.onvif.org/ver10/media/wsdl MediaUri"`
}

// MediaService implements the Media operations.
type MediaService struct {
	dc     *device.Context
	logger *zap.Logger
	ops    operations
}

// NewMediaService creates the Media service over dc.
func NewMediaService(dc *device.Context, logger *zap.Logger) *MediaService {
	s := &MediaService{dc: dc, logger: logger}
	s.ops = operations{
		"GetServiceCapabilities":        s.getServiceCapabilities,
		"GetProfiles":                   s.getProfiles,
		"GetProfile":                    s.getProfile,
		"GetVideoSources":               s.getVideoSources,
		"GetVideoSourceConfigurations":  s.getVideoSourceConfigurations,
		"GetVideoEncoderConfigurations": s.getVideoEncoderConfigurations,
		"GetStreamUri":                  s.getStreamURI,
		"GetSnapshotUri":                s.getSnapshotURI,
	}
	return s
}

func (s *MediaService) Group() Group { return GroupMedia }

func (s *MediaService) Handle(ctx context.Context, call Call) (any, error) {
	return s.ops.handle(ctx, GroupMedia, call)
}

func (s *MediaService) getServiceCapabilities(context.Context, Call) (any, error) {
	return getMediaServiceCapabilitiesResponse{Capabilities: s.dc.MediaServiceCapabilities()}, nil
}

func (s *MediaService) getProfiles(context.Context, Call) (any, error) {
	return getProfilesResponse{Profiles: s.dc.MediaProfiles()}, nil
}

func (s *MediaService) getProfile(_ context.Context, call Call) (any, error) {
	token, _ := call.Request.Text("ProfileToken")
	p, ok := s.dc.MediaProfile(token)
	if !ok {
		return nil, soap.NoProfile(token)
	}
	return getProfileResponse{Profile: p}, nil
}

func (s *MediaService) getVideoSources(context.Context, Call) (any, error) {
	return getVideoSourcesResponse{VideoSources: s.dc.VideoSources()}, nil
}

func (s *MediaService) getVideoSourceConfigurations(context.Context, Call) (any, error) {
	return getVideoSourceConfigurationsResponse{Configurations: s.dc.VideoSourceConfigurations()}, nil
}

func (s *MediaService) getVideoEncoderConfigurations(context.Context, Call) (any, error) {
	return getVideoEncoderConfigurationsResponse{Configurations: s.dc.VideoEncoderConfigurations()}, nil
}

// getStreamURI answers with the stream URL rendered for the client's
// subnet. A token without a stream template is a NoProfile fault.
func (s *MediaService) getStreamURI(_ context.Context, call Call) (any, error) {
	token, _ := call.Request.Text("ProfileToken")
	uri, ok := s.dc.StreamURI(token, call.Client)
	if !ok {
		return nil, soap.NoProfile(token)
	}
	s.logger.Debug("stream uri resolved",
		zap.String("profile", token),
		zap.String("client", call.Client.String()),
		zap.String("uri", uri),
	)
	return mediaURI("GetStreamUriResponse", uri), nil
}

func (s *MediaService) getSnapshotURI(_ context.Context, call Call) (any, error) {
	token, _ := call.Request.Text("ProfileToken")
	uri, ok := s.dc.SnapshotURI(token, call.Client)
	if !ok {
		return nil, soap.NoProfile(token)
	}
	return mediaURI("GetSnapshotUriResponse", uri), nil
}

func mediaURI(element, uri string) mediaURIResponse {
	return mediaURIResponse{
		XMLName: xml.Name{Space: schema.NSMedia, Local: element},
		MediaUri: schema.MediaUri{
			Uri:     uri,
			Timeout: "PT0S",
		},
	}
}
