package ptz

import (
	"strconv"

	"github.com/HerbHall/onvifsrvd/internal/schema"
)

// Fixed node and configuration identity.
const (
	NodeToken          = "PTZNodeToken"
	NodeName           = "PTZ"
	ConfigurationToken = "PTZConfigToken"
	ConfigurationName  = "PTZConfig"
	PresetCount        = 8
	DefaultPTZTimeout  = "PT1S"
)

func spaces() schema.PTZSpaces {
	unit := schema.FloatRange{Min: -1, Max: 1}
	speed := schema.FloatRange{Min: 0, Max: 1}
	return schema.PTZSpaces{
		RelativePanTiltTranslationSpace: []schema.Space2DDescription{
			{URI: schema.RelativePanTiltTranslationSpace, XRange: unit, YRange: unit},
		},
		RelativeZoomTranslationSpace: []schema.Space1DDescription{
			{URI: schema.RelativeZoomTranslationSpace, XRange: unit},
		},
		ContinuousPanTiltVelocitySpace: []schema.Space2DDescription{
			{URI: schema.ContinuousPanTiltVelocitySpace, XRange: unit, YRange: unit},
		},
		ContinuousZoomVelocitySpace: []schema.Space1DDescription{
			{URI: schema.ContinuousZoomVelocitySpace, XRange: unit},
		},
		PanTiltSpeedSpace: []schema.Space1DDescription{
			{URI: schema.PanTiltSpeedSpace, XRange: speed},
		},
		ZoomSpeedSpace: []schema.Space1DDescription{
			{URI: schema.ZoomSpeedSpace, XRange: speed},
		},
	}
}

// Node describes the single PTZ node.
func Node() schema.PTZNode {
	return schema.PTZNode{
		Token:                  NodeToken,
		FixedHomePosition:      true,
		Name:                   NodeName,
		SupportedPTZSpaces:     spaces(),
		MaximumNumberOfPresets: PresetCount,
		HomeSupported:          true,
	}
}

// Presets lists the fixed presets "0".."7", all at the home position.
func Presets() []schema.PTZPreset {
	presets := make([]schema.PTZPreset, 0, PresetCount)
	for i := range PresetCount {
		token := strconv.Itoa(i)
		presets = append(presets, schema.PTZPreset{
			Token: token,
			Name:  token,
			PTZPosition: &schema.PTZVector{
				PanTilt: &schema.Vector2D{X: 0, Y: 0},
				Zoom:    &schema.Vector1D{X: 1},
			},
		})
	}
	return presets
}

// Configuration is the PTZ configuration attached to every media profile.
func Configuration(useCount int) schema.PTZConfiguration {
	return schema.PTZConfiguration{
		Token:                                  ConfigurationToken,
		Name:                                   ConfigurationName,
		UseCount:                               useCount,
		NodeToken:                              NodeToken,
		DefaultRelativePanTiltTranslationSpace: schema.RelativePanTiltTranslationSpace,
		DefaultRelativeZoomTranslationSpace:    schema.RelativeZoomTranslationSpace,
		DefaultContinuousPanTiltVelocitySpace:  schema.ContinuousPanTiltVelocitySpace,
		DefaultContinuousZoomVelocitySpace:     schema.ContinuousZoomVelocitySpace,
		DefaultPTZSpeed: &schema.PTZVector{
			PanTilt: &schema.Vector2D{X: 1, Y: 1, Space: schema.PanTiltSpeedSpace},
			Zoom:    &schema.Vector1D{X: 1, Space: schema.ZoomSpeedSpace},
		},
		DefaultPTZTimeout: DefaultPTZTimeout,
	}
}

// ConfigurationOptions lists the spaces the configuration accepts.
func ConfigurationOptions() schema.PTZConfigurationOptions {
	return schema.PTZConfigurationOptions{
		Spaces:     spaces(),
		PTZTimeout: schema.DurationRange{Min: "PT1S", Max: "PT10S"},
	}
}
