package schema

type FloatRange struct {
	Min float64 `xml:"http://www.onvif.org/ver10/schema Min"`
	Max float64 `xml:"http://www.onvif.org/ver10/schema Max"`
}

type DurationRange struct {
	Min string `xml:"http://www.onvif.org/ver10/schema Min"`
	Max string `xml:"http://www.onvif.org/ver10/schema Max"`
}

type Space2DDescription struct {
	URI    string     `xml:"http://www.onvif.org/ver10/schema URI"`
	XRange FloatRange `xml:"http://www.onvif.org/ver10/schema XRange"`
	YRange FloatRange `xml:"http://www.onvif.org/ver10/schema YRange"`
}

type Space1DDescription struct {
	URI    string     `xml:"http://www.onvif.org/ver10/schema URI"`
	XRange FloatRange `xml:"http://www.onvif.org/ver10/schema XRange"`
}

type PTZSpaces struct {
	RelativePanTiltTranslationSpace []Space2DDescription `xml:"http://www.onvif.org/ver10/schema RelativePanTiltTranslationSpace"`
	RelativeZoomTranslationSpace    []Space1DDescription `xml:"http://www.onvif.org/ver10/schema RelativeZoomTranslationSpace"`
	ContinuousPanTiltVelocitySpace  []Space2DDescription `xml:"http://www.onvif.org/ver10/schema ContinuousPanTiltVelocitySpace"`
	ContinuousZoomVelocitySpace     []Space1DDescription `xml:"http://www.onvif.org/ver10/schema ContinuousZoomVelocitySpace"`
	PanTiltSpeedSpace               []Space1DDescription `xml:"http://www.onvif.org/ver10/schema PanTiltSpeedSpace"`
	ZoomSpeedSpace                  []Space1DDescription `xml:"http://www.onvif.org/ver10/schema ZoomSpeedSpace"`
}

type PTZNode struct {
	Token                  string    `xml:"token,attr"`
	FixedHomePosition      bool      `xml:"FixedHomePosition,attr"`
	Name                   string    `xml:"http://www.onvif.org/ver10/schema Name"`
	SupportedPTZSpaces     PTZSpaces `xml:"http://www.onvif.org/ver10/schema SupportedPTZSpaces"`
	MaximumNumberOfPresets int       `xml:"http://www.onvif.org/ver10/schema MaximumNumberOfPresets"`
	HomeSupported          bool      `xml:"http://www.onvif.org/ver10/schema HomeSupported"`
}

type Vector2D struct {
	X     float64 `xml:"x,attr"`
	Y     float64 `xml:"y,attr"`
	Space string  `xml:"space,attr,omitempty"`
}

type Vector1D struct {
	X     float64 `xml:"x,attr"`
	Space string  `xml:"space,attr,omitempty"`
}

type PTZVector struct {
	PanTilt *Vector2D `xml:"http://www.onvif.org/ver10/schema PanTilt,omitempty"`
	Zoom    *Vector1D `xml:"http://www.onvif.org/ver10/schema Zoom,omitempty"`
}

type PTZPreset struct {
	Token       string     `xml:"token,attr"`
	Name        string     `xml:"http://www.onvif.org/ver10/schema Name"`
	PTZPosition *PTZVector `xml:"http://www.onvif.org/ver10/schema PTZPosition,omitempty"`
}

type PTZConfiguration struct {
	Token                                  string     `xml:"token,attr"`
	Name                                   string     `xml:"http://www.onvif.org/ver10/schema Name"`
	UseCount                               int        `xml:"http://www.onvif.org/ver10/schema UseCount"`
	NodeToken                              string     `xml:"http://www.onvif.org/ver10/schema NodeToken"`
	DefaultRelativePanTiltTranslationSpace string     `xml:"http://www.onvif.org/ver10/schema DefaultRelativePanTiltTranslationSpace,omitempty"`
	DefaultRelativeZoomTranslationSpace    string     `xml:"http://www.onvif.org/ver10/schema DefaultRelativeZoomTranslationSpace,omitempty"`
	DefaultContinuousPanTiltVelocitySpace  string     `xml:"http://www.onvif.org/ver10/schema DefaultContinuousPanTiltVelocitySpace,omitempty"`
	DefaultContinuousZoomVelocitySpace     string     `xml:"http://www.onvif.org/ver10/schema DefaultContinuousZoomVelocitySpace,omitempty"`
	DefaultPTZSpeed                        *PTZVector `xml:"http://www.onvif.org/ver10/schema DefaultPTZSpeed,omitempty"`
	DefaultPTZTimeout                      string     `xml:"http://www.onvif.org/ver10/schema DefaultPTZTimeout,omitempty"`
}

type PTZConfigurationOptions struct {
	Spaces     PTZSpaces     `xml:"http://www.onvif.org/ver10/schema Spaces"`
	PTZTimeout DurationRange `xml:"http://www.onvif.org/ver10/schema PTZTimeout"`
}
