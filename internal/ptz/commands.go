// Package ptz forwards PTZ operations to an external actuator as HTTP GET
// requests and describes the fixed PTZ node advertised to clients.
package ptz

import (
	"strconv"
	"strings"
	"time"
)

// PresetPlaceholder is replaced by the preset token in the goto-preset template.
const PresetPlaceholder = "%t"

// RelativeMoveSettle is how long a relative move runs before it is stopped.
// A relative move is emulated as a continuous move followed by a stop.
const RelativeMoveSettle = 300 * time.Millisecond

// CommandSet holds the actuator URL templates. An empty template disables
// the corresponding operation.
type CommandSet struct {
	Enabled        bool   `mapstructure:"enabled"`
	MoveContinuous string `mapstructure:"move_continuous"`
	MoveStop       string `mapstructure:"move_stop"`
	GotoPreset     string `mapstructure:"goto_preset"`
	GotoHome       string `mapstructure:"goto_home"`
}

// Vector2D is a pan/tilt pair taken from a request.
type Vector2D struct {
	X, Y float64
}

// Vector1D is a zoom value taken from a request.
type Vector1D struct {
	X float64
}

// Move is a velocity command in the form the actuator expects.
type Move struct {
	Pan, Tilt, Zoom float64
	PanTiltOnly     bool
	ZoomOnly        bool
}

// NewMove builds a Move from the axes present in a request. It reports false
// when neither axis is present.
func NewMove(panTilt *Vector2D, zoom *Vector1D) (Move, bool) {
	switch {
	case panTilt != nil && zoom != nil:
		return Move{Pan: panTilt.X, Tilt: panTilt.Y, Zoom: zoom.X}, true
	case panTilt != nil:
		return Move{Pan: panTilt.X, Tilt: panTilt.Y, PanTiltOnly: true}, true
	case zoom != nil:
		return Move{Zoom: zoom.X, ZoomOnly: true}, true
	default:
		return Move{}, false
	}
}

// BothAxes reports whether the move carries pan/tilt and zoom together.
func (m Move) BothAxes() bool {
	return !m.PanTiltOnly && !m.ZoomOnly
}

// StopURL returns the stop URL, or false when unset.
func (c CommandSet) StopURL() (string, bool) {
	return c.MoveStop, c.MoveStop != ""
}

// GotoHomeURL returns the home URL, or false when unset.
func (c CommandSet) GotoHomeURL() (string, bool) {
	return c.GotoHome, c.GotoHome != ""
}

// GotoPresetURL substitutes token for the first preset placeholder.
func (c CommandSet) GotoPresetURL(token string) (string, bool) {
	if c.GotoPreset == "" {
		return "", false
	}
	return strings.Replace(c.GotoPreset, PresetPlaceholder, token, 1), true
}

// ContinuousURL appends the move parameters to the continuous-move template.
func (c CommandSet) ContinuousURL(m Move) (string, bool) {
	if c.MoveContinuous == "" {
		return "", false
	}
	var b strings.Builder
	b.WriteString(c.MoveContinuous)
	b.WriteString("?x=")
	b.WriteString(formatFloat(m.Pan))
	b.WriteString("&y=")
	b.WriteString(formatFloat(m.Tilt))
	b.WriteString("&z=")
	b.WriteString(formatFloat(m.Zoom))
	b.WriteString("&onlySendPanTilt=")
	b.WriteString(strconv.FormatBool(m.PanTiltOnly))
	b.WriteString("&onlySendZoom=")
	b.WriteString(strconv.FormatBool(m.ZoomOnly))
	return b.String(), true
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
