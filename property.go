package tmx

import (
	"fmt"
	"strconv"

	"github.com/reoring/tmx/internal/xmltree"
)

// PropertyValue is the typed value of a custom property. Exactly one
// concrete kind applies; consumers switch exhaustively.
type PropertyValue interface {
	propertyValue()
}

// StringValue is a plain string property (the default kind).
type StringValue string

// IntValue is an integer property.
type IntValue int64

// FloatValue is a floating-point property.
type FloatValue float64

// BoolValue is a boolean property.
type BoolValue bool

// ColorValue is a color property.
type ColorValue Color

// FileValue is a file property: a path stored verbatim, relative to the
// owning document.
type FileValue string

func (StringValue) propertyValue() {}
func (IntValue) propertyValue()    {}
func (FloatValue) propertyValue()  {}
func (BoolValue) propertyValue()   {}
func (ColorValue) propertyValue()  {}
func (FileValue) propertyValue()   {}

// Properties maps property names to typed values. A later property with the
// same name overwrites an earlier one.
type Properties map[string]PropertyValue

// String returns the named string property, or the fallback when absent or
// of a different kind.
func (p Properties) String(name, fallback string) string {
	if v, ok := p[name].(StringValue); ok {
		return string(v)
	}
	return fallback
}

// Int returns the named integer property, or the fallback.
func (p Properties) Int(name string, fallback int64) int64 {
	if v, ok := p[name].(IntValue); ok {
		return int64(v)
	}
	return fallback
}

// Float returns the named float property, or the fallback.
func (p Properties) Float(name string, fallback float64) float64 {
	if v, ok := p[name].(FloatValue); ok {
		return float64(v)
	}
	return fallback
}

// Bool returns the named boolean property, or the fallback.
func (p Properties) Bool(name string, fallback bool) bool {
	if v, ok := p[name].(BoolValue); ok {
		return bool(v)
	}
	return fallback
}

// decodePropertyValue coerces a raw value to the declared property type.
// An absent or unrecognized type decodes as a string, which keeps the
// decoder forward-compatible with property kinds newer than this package.
func decodePropertyValue(path, name, typ, raw string) (PropertyValue, error) {
	switch typ {
	case "", "string":
		return StringValue(raw), nil
	case "int":
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, propertyIssue(path, name, typ, raw)
		}
		return IntValue(v), nil
	case "float":
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, propertyIssue(path, name, typ, raw)
		}
		return FloatValue(v), nil
	case "bool":
		switch raw {
		case "true":
			return BoolValue(true), nil
		case "false":
			return BoolValue(false), nil
		}
		return nil, propertyIssue(path, name, typ, raw)
	case "color":
		c, err := ParseColor(raw)
		if err != nil {
			return nil, propertyIssue(path, name, typ, raw)
		}
		return ColorValue(c), nil
	case "file":
		return FileValue(raw), nil
	default:
		return StringValue(raw), nil
	}
}

func propertyIssue(path, name, typ, raw string) Issues {
	return singleIssue(path, CodeInvalidProperty,
		fmt.Sprintf("property %q: %q is not a valid %s", name, raw, typ))
}

// decodeProperties reads a <properties> container into a last-wins map.
// The value may come from the value attribute or from inline text content.
func decodeProperties(el *xmltree.Element, path string) (Properties, error) {
	if el == nil {
		return nil, nil
	}
	props := make(Properties)
	for _, p := range el.All("property") {
		name := p.Attr["name"]
		typ := p.Attr["type"]
		raw, ok := p.Lookup("value")
		if !ok {
			raw = p.Text
		}
		v, err := decodePropertyValue(path, name, typ, raw)
		if err != nil {
			return nil, err
		}
		props[name] = v
	}
	if len(props) == 0 {
		return nil, nil
	}
	return props, nil
}
