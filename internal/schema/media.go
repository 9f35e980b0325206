package schema

type VideoResolution struct {
	Width  int `xml:"http://www.onvif.org/ver10/schema Width"`
	Height int `xml:"http://www.onvif.org/ver10/schema Height"`
}

type IntRectangle struct {
	X      int `xml:"x,attr"`
	Y      int `xml:"y,attr"`
	Width  int `xml:"width,attr"`
	Height int `xml:"height,attr"`
}

type VideoSource struct {
	Token      string          `xml:"token,attr"`
	Framerate  float64         `xml:"http://www.onvif.org/ver10/schema Framerate"`
	Resolution VideoResolution `xml:"http://www.onvif.org/ver10/schema Resolution"`
}

type VideoSourceConfiguration struct {
	Token       string       `xml:"token,attr"`
	Name        string       `xml:"http://www.onvif.org/ver10/schema Name"`
	UseCount    int          `xml:"http://www.onvif.org/ver10/schema UseCount"`
	SourceToken string       `xml:"http://www.onvif.org/ver10/schema SourceToken"`
	Bounds      IntRectangle `xml:"http://www.onvif.org/ver10/schema Bounds"`
}

type VideoRateControl struct {
	FrameRateLimit   int `xml:"http://www.onvif.org/ver10/schema FrameRateLimit"`
	EncodingInterval int `xml:"http://www.onvif.org/ver10/schema EncodingInterval"`
	BitrateLimit     int `xml:"http://www.onvif.org/ver10/schema BitrateLimit"`
}

type VideoEncoderConfiguration struct {
	Token          string            `xml:"token,attr"`
	Name           string            `xml:"http://www.onvif.org/ver10/schema Name"`
	UseCount       int               `xml:"http://www.onvif.org/ver10/schema UseCount"`
	Encoding       string            `xml:"http://www.onvif.org/ver10/schema Encoding"`
	Resolution     VideoResolution   `xml:"http://www.onvif.org/ver10/schema Resolution"`
	Quality        float64           `xml:"http://www.onvif.org/ver10/schema Quality"`
	RateControl    *VideoRateControl `xml:"http://www.onvif.org/ver10/schema RateControl,omitempty"`
	SessionTimeout string            `xml:"http://www.onvif.org/ver10/schema SessionTimeout"`
}

type Profile struct {
	Token                     string                     `xml:"token,attr"`
	Fixed                     bool                       `xml:"fixed,attr"`
	Name                      string                     `xml:"http://www.onvif.org/ver10/schema Name"`
	VideoSourceConfiguration  *VideoSourceConfiguration  `xml:"http://www.onvif.org/ver10/schema VideoSourceConfiguration,omitempty"`
	VideoEncoderConfiguration *VideoEncoderConfiguration `xml:"http://www.onvif.org/ver10/schema VideoEncoderConfiguration,omitempty"`
	PTZConfiguration          *PTZConfiguration          `xml:"http://www.onvif.org/ver10/schema PTZConfiguration,omitempty"`
}

type MediaUri struct {
	Uri                 string `xml:"http://www.onvif.org/ver10/schema Uri"`
	InvalidAfterConnect bool   `xml:"http://www.onvif.org/ver10/schema InvalidAfterConnect"`
	InvalidAfterReboot  bool   `xml:"http://www.onvif.org/ver10/schema InvalidAfterReboot"`
	Timeout             string `xml:"http://www.onvif.org/ver10/schema Timeout"`
}
