// Package xmltree builds a generic element tree on top of encoding/xml.
// The decoding engine consumes this tree; it never reads XML tokens itself.
package xmltree

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

// Element is one XML element: named attributes, ordered child elements and
// the concatenated character data of the element itself.
type Element struct {
	Name     string
	Attr     map[string]string
	Children []*Element
	Text     string
}

// Lookup returns the value of the named attribute and whether it is present.
func (e *Element) Lookup(name string) (string, bool) {
	v, ok := e.Attr[name]
	return v, ok
}

// Find returns the first child element with the given name, or nil.
func (e *Element) Find(name string) *Element {
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// All returns every child element with the given name, in document order.
func (e *Element) All(name string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Parse reads a complete XML document and returns its root element.
func Parse(data []byte) (*Element, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return parseElement(dec, start)
		}
	}
}

func parseElement(dec *xml.Decoder, start xml.StartElement) (*Element, error) {
	el := &Element{Name: start.Name.Local}
	if len(start.Attr) > 0 {
		el.Attr = make(map[string]string, len(start.Attr))
		for _, a := range start.Attr {
			el.Attr[a.Name.Local] = a.Value
		}
	}
	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := parseElement(dec, t)
			if err != nil {
				return nil, err
			}
			el.Children = append(el.Children, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			el.Text = strings.TrimSpace(text.String())
			return el, nil
		}
	}
}
