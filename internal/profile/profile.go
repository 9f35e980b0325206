// Package profile holds the media stream profiles advertised by the Media
// service and renders their stream and snapshot URL templates.
package profile

import (
	"fmt"
	"strconv"
	"strings"
)

// Encoding is the video encoding of a profile.
type Encoding string

const (
	EncodingJPEG  Encoding = "JPEG"
	EncodingMPEG4 Encoding = "MPEG4"
	EncodingH264  Encoding = "H264"
)

// ParseEncoding accepts JPEG, MPEG4 or H264 in any case.
func ParseEncoding(s string) (Encoding, error) {
	switch Encoding(strings.ToUpper(strings.TrimSpace(s))) {
	case EncodingJPEG:
		return EncodingJPEG, nil
	case EncodingMPEG4:
		return EncodingMPEG4, nil
	case EncodingH264:
		return EncodingH264, nil
	}
	return "", fmt.Errorf("unsupported encoding %q (want JPEG, MPEG4 or H264)", s)
}

// AddressPlaceholder is replaced by the resolved interface address.
const AddressPlaceholder = "%s"

// Profile is a named media configuration.
type Profile struct {
	Name     string   `mapstructure:"name"`
	Width    int      `mapstructure:"width"`
	Height   int      `mapstructure:"height"`
	URL      string   `mapstructure:"url"`
	SnapURL  string   `mapstructure:"snapurl"`
	Encoding Encoding `mapstructure:"type"`
}

// ValidationError reports the first field that keeps a profile from being
// complete.
type ValidationError struct {
	Profile string
	Field   string
	Reason  string
}

func (e *ValidationError) Error() string {
	name := e.Profile
	if name == "" {
		name = "<unnamed>"
	}
	return fmt.Sprintf("profile %s: %s %s", name, e.Field, e.Reason)
}

// Validate returns a *ValidationError unless name, dimensions, at least one
// URL and the encoding are all set.
func (p Profile) Validate() error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return &ValidationError{Field: "name", Reason: "is not set"}
	case p.Width <= 0:
		return &ValidationError{Profile: p.Name, Field: "width", Reason: "is not set"}
	case p.Height <= 0:
		return &ValidationError{Profile: p.Name, Field: "height", Reason: "is not set"}
	case p.URL == "" && p.SnapURL == "":
		return &ValidationError{Profile: p.Name, Field: "url", Reason: "is not set (need url or snapurl)"}
	case p.Encoding == "":
		return &ValidationError{Profile: p.Name, Field: "type", Reason: "is not set"}
	}
	if _, err := ParseEncoding(string(p.Encoding)); err != nil {
		return &ValidationError{Profile: p.Name, Field: "type", Reason: err.Error()}
	}
	return nil
}

// RenderStreamURI substitutes every %s in the stream template with addr.
func RenderStreamURI(p Profile, addr string) string {
	return render(p.URL, addr)
}

// RenderSnapshotURI substitutes every %s in the snapshot template with addr.
func RenderSnapshotURI(p Profile, addr string) string {
	return render(p.SnapURL, addr)
}

func render(tmpl, addr string) string {
	if !strings.Contains(tmpl, AddressPlaceholder) {
		return tmpl
	}
	return strings.ReplaceAll(tmpl, AddressPlaceholder, addr)
}

// Builder accumulates a profile from textual option values, one field at a
// time, the way the command line and the legacy config file supply them.
type Builder struct {
	p Profile
}

func (b *Builder) SetName(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return &ValidationError{Field: "name", Reason: "is empty"}
	}
	b.p.Name = v
	return nil
}

func (b *Builder) SetWidth(v string) error {
	n, err := parseDimension(v)
	if err != nil {
		return &ValidationError{Profile: b.p.Name, Field: "width", Reason: err.Error()}
	}
	b.p.Width = n
	return nil
}

func (b *Builder) SetHeight(v string) error {
	n, err := parseDimension(v)
	if err != nil {
		return &ValidationError{Profile: b.p.Name, Field: "height", Reason: err.Error()}
	}
	b.p.Height = n
	return nil
}

func (b *Builder) SetURL(v string) error {
	if strings.TrimSpace(v) == "" {
		return &ValidationError{Profile: b.p.Name, Field: "url", Reason: "is empty"}
	}
	b.p.URL = strings.TrimSpace(v)
	return nil
}

func (b *Builder) SetSnapURL(v string) error {
	if strings.TrimSpace(v) == "" {
		return &ValidationError{Profile: b.p.Name, Field: "snapurl", Reason: "is empty"}
	}
	b.p.SnapURL = strings.TrimSpace(v)
	return nil
}

func (b *Builder) SetType(v string) error {
	enc, err := ParseEncoding(v)
	if err != nil {
		return &ValidationError{Profile: b.p.Name, Field: "type", Reason: err.Error()}
	}
	b.p.Encoding = enc
	return nil
}

// Profile returns the accumulated profile, or a *ValidationError if it is
// still incomplete.
func (b *Builder) Profile() (Profile, error) {
	if err := b.p.Validate(); err != nil {
		return Profile{}, err
	}
	return b.p, nil
}

// Reset clears the builder so the next profile can be accumulated.
func (b *Builder) Reset() {
	b.p = Profile{}
}

func parseDimension(v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", v)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%d must be positive", n)
	}
	return n, nil
}
