package device

import (
	"github.com/HerbHall/onvifsrvd/internal/profile"
	"github.com/HerbHall/onvifsrvd/internal/ptz"
	"github.com/HerbHall/onvifsrvd/internal/schema"
)

// Media configuration tokens. All profiles share one video source.
const (
	VideoSourceToken              = "VideoSourceToken"
	VideoSourceConfigurationToken = "VideoSourceConfigToken"
	videoEncoderTokenPrefix       = "VideoEncoderToken_"
)

const defaultFramerate = 25

// VideoSources returns the single video source, sized to the largest profile.
func (c *Context) VideoSources() []schema.VideoSource {
	w, h := c.maxResolution()
	return []schema.VideoSource{{
		Token:      VideoSourceToken,
		Framerate:  defaultFramerate,
		Resolution: schema.VideoResolution{Width: w, Height: h},
	}}
}

func (c *Context) VideoSourceConfigurations() []schema.VideoSourceConfiguration {
	return []schema.VideoSourceConfiguration{c.videoSourceConfiguration()}
}

func (c *Context) VideoEncoderConfigurations() []schema.VideoEncoderConfiguration {
	all := c.profiles.All()
	out := make([]schema.VideoEncoderConfiguration, 0, len(all))
	for _, p := range all {
		out = append(out, videoEncoderConfiguration(p))
	}
	return out
}

// MediaProfiles returns every profile as the Media service reports it.
func (c *Context) MediaProfiles() []schema.Profile {
	all := c.profiles.All()
	out := make([]schema.Profile, 0, len(all))
	for _, p := range all {
		out = append(out, c.mediaProfile(p))
	}
	return out
}

// MediaProfile returns one profile by token.
func (c *Context) MediaProfile(name string) (schema.Profile, bool) {
	p, ok := c.profiles.Get(name)
	if !ok {
		return schema.Profile{}, false
	}
	return c.mediaProfile(p), true
}

// PTZConfigurations lists the PTZ configuration when PTZ is enabled.
func (c *Context) PTZConfigurations() []schema.PTZConfiguration {
	if !c.ptz.Enabled {
		return nil
	}
	return []schema.PTZConfiguration{ptz.Configuration(c.profiles.Len())}
}

func (c *Context) mediaProfile(p profile.Profile) schema.Profile {
	vsc := c.videoSourceConfiguration()
	vec := videoEncoderConfiguration(p)
	mp := schema.Profile{
		Token:                     p.Name,
		Fixed:                     true,
		Name:                      p.Name,
		VideoSourceConfiguration:  &vsc,
		VideoEncoderConfiguration: &vec,
	}
	if c.ptz.Enabled {
		cfg := ptz.Configuration(c.profiles.Len())
		mp.PTZConfiguration = &cfg
	}
	return mp
}

func (c *Context) videoSourceConfiguration() schema.VideoSourceConfiguration {
	w, h := c.maxResolution()
	return schema.VideoSourceConfiguration{
		Token:       VideoSourceConfigurationToken,
		Name:        VideoSourceConfigurationToken,
		UseCount:    c.profiles.Len(),
		SourceToken: VideoSourceToken,
		Bounds:      schema.IntRectangle{Width: w, Height: h},
	}
}

func videoEncoderConfiguration(p profile.Profile) schema.VideoEncoderConfiguration {
	token := videoEncoderTokenPrefix + p.Name
	return schema.VideoEncoderConfiguration{
		Token:      token,
		Name:       token,
		UseCount:   1,
		Encoding:   string(p.Encoding),
		Resolution: schema.VideoResolution{Width: p.Width, Height: p.Height},
		Quality:    1,
		RateControl: &schema.VideoRateControl{
			FrameRateLimit:   defaultFramerate,
			EncodingInterval: 1,
		},
		SessionTimeout: "PT60S",
	}
}

func (c *Context) maxResolution() (int, int) {
	var w, h int
	for _, p := range c.profiles.All() {
		if p.Width*p.Height > w*h {
			w, h = p.Width, p.Height
		}
	}
	return w, h
}
