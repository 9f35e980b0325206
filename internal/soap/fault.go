package soap

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Fault codes.
const (
	CodeSender   = "env:Sender"
	CodeReceiver = "env:Receiver"
)

// Fault is a SOAP fault. It doubles as the error handlers return when the
// request cannot be answered. Subcodes nest outermost first.
type Fault struct {
	Code     string
	Subcodes []string
	Reason   string
}

func (f *Fault) Error() string {
	if len(f.Subcodes) > 0 {
		return fmt.Sprintf("%s/%s: %s", f.Code, strings.Join(f.Subcodes, "/"), f.Reason)
	}
	return fmt.Sprintf("%s: %s", f.Code, f.Reason)
}

// Has reports whether the fault carries subcode.
func (f *Fault) Has(subcode string) bool {
	for _, s := range f.Subcodes {
		if s == subcode {
			return true
		}
	}
	return false
}

// HTTPStatus maps the fault to the SOAP 1.2 HTTP binding status.
func (f *Fault) HTTPStatus() int {
	if f.Code == CodeSender {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// ActionNotSupported is returned for operations no service implements.
func ActionNotSupported(namespace, operation string) *Fault {
	return &Fault{
		Code:     CodeSender,
		Subcodes: []string{"ter:ActionNotSupported"},
		Reason:   fmt.Sprintf("operation %s in namespace %q is not supported", operation, namespace),
	}
}

// NoProfile is returned when a profile token names no usable profile.
func NoProfile(token string) *Fault {
	return &Fault{
		Code:     CodeSender,
		Subcodes: []string{"ter:InvalidArgVal", "ter:NoProfile"},
		Reason:   fmt.Sprintf("no profile %q", token),
	}
}

// Malformed wraps a decode error in a Sender fault.
func Malformed(err error) *Fault {
	return &Fault{Code: CodeSender, Subcodes: []string{"ter:WellFormed"}, Reason: err.Error()}
}

// Internal wraps an unexpected handler error in a Receiver fault.
func Internal(err error) *Fault {
	return &Fault{Code: CodeReceiver, Reason: err.Error()}
}

type faultBody struct {
	XMLName xml.Name    `xml:"http://www.w3.org/2003/05/soap-envelope Fault"`
	Code    faultCode   `xml:"http://www.w3.org/2003/05/soap-envelope Code"`
	Reason  faultReason `xml:"http://www.w3.org/2003/05/soap-envelope Reason"`
}

type faultCode struct {
	Value   string     `xml:"http://www.w3.org/2003/05/soap-envelope Value"`
	Subcode *faultCode `xml:"http://www.w3.org/2003/05/soap-envelope Subcode,omitempty"`
}

type faultReason struct {
	Text faultText `xml:"http://www.w3.org/2003/05/soap-envelope Text"`
}

type faultText struct {
	Lang  string `xml:"http://www.w3.org/XML/1998/namespace lang,attr"`
	Value string `xml:",chardata"`
}

// EncodeFault writes f as a SOAP fault envelope.
func EncodeFault(w io.Writer, f *Fault) error {
	fb := faultBody{
		Code:   faultCode{Value: f.Code},
		Reason: faultReason{Text: faultText{Lang: "en", Value: f.Reason}},
	}
	parent := &fb.Code
	for _, s := range f.Subcodes {
		parent.Subcode = &faultCode{Value: s}
		parent = parent.Subcode
	}
	return Encode(w, fb)
}
