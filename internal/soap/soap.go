// Package soap decodes SOAP 1.2 request envelopes and encodes responses and
// faults for the ONVIF services.
package soap

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"

	"github.com/HerbHall/onvifsrvd/internal/schema"
)

// ContentType is the SOAP 1.2 media type.
const ContentType = "application/soap+xml; charset=utf-8"

// ErrMalformed is returned for bodies that are not a SOAP envelope with an
// operation element.
var ErrMalformed = errors.New("malformed SOAP envelope")

// Request is a decoded operation call.
type Request struct {
	// Operation is the local name of the first element in the body.
	Operation string
	// Namespace is the operation element's namespace URI.
	Namespace string
	// Username comes from a WS-Security UsernameToken header, if any.
	Username string

	op *etree.Element
}

// Decode parses a SOAP envelope from r.
func Decode(r io.Reader) (*Request, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	env := doc.Root()
	if env == nil || env.Tag != "Envelope" {
		return nil, fmt.Errorf("%w: root is not Envelope", ErrMalformed)
	}
	body := env.SelectElement("Body")
	if body == nil {
		return nil, fmt.Errorf("%w: no Body", ErrMalformed)
	}
	children := body.ChildElements()
	if len(children) == 0 {
		return nil, fmt.Errorf("%w: empty Body", ErrMalformed)
	}

	op := children[0]
	req := &Request{
		Operation: op.Tag,
		Namespace: op.NamespaceURI(),
		op:        op,
	}
	if header := env.SelectElement("Header"); header != nil {
		if u := header.FindElement("Security/UsernameToken/Username"); u != nil {
			req.Username = strings.TrimSpace(u.Text())
		}
	}
	return req, nil
}

// Find returns the element at path relative to the operation element, or
// nil. Path steps match any namespace.
func (r *Request) Find(path string) *etree.Element {
	if r.op == nil {
		return nil
	}
	return r.op.FindElement(path)
}

// Text returns the trimmed text at path and whether it was present and
// non-empty.
func (r *Request) Text(path string) (string, bool) {
	el := r.Find(path)
	if el == nil {
		return "", false
	}
	s := strings.TrimSpace(el.Text())
	return s, s != ""
}

// Bool returns the boolean text at path; absent or unparsable is false.
func (r *Request) Bool(path string) bool {
	s, _ := r.Text(path)
	return s == "true" || s == "1"
}

type envelope struct {
	XMLName xml.Name `xml:"http://www.w3.org/2003/05/soap-envelope Envelope"`
	Env     string   `xml:"xmlns:env,attr"`
	Ter     string   `xml:"xmlns:ter,attr"`
	Body    body     `xml:"http://www.w3.org/2003/05/soap-envelope Body"`
}

type body struct {
	Content any
}

// Encode writes content wrapped in a SOAP envelope. content must be a struct
// whose XMLName carries the response element name.
func Encode(w io.Writer, content any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	env := envelope{
		Env:  schema.NSEnvelope,
		Ter:  schema.NSError,
		Body: body{Content: content},
	}
	enc := xml.NewEncoder(w)
	if err := enc.Encode(env); err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	return enc.Close()
}
