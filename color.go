package tmx

import (
	"fmt"
	"strconv"
)

// Color is an ARGB color as it appears in map documents. The document
// grammar is "#RRGGBB" or "#AARRGGBB"; a missing alpha means opaque. A bare
// "RRGGBB" without the leading '#' is also accepted.
type Color struct {
	A, R, G, B uint8
}

// ParseColor parses the document color grammar.
func ParseColor(s string) (Color, error) {
	raw := s
	if len(raw) > 0 && raw[0] == '#' {
		raw = raw[1:]
	}
	switch len(raw) {
	case 6:
		v, err := strconv.ParseUint(raw, 16, 32)
		if err != nil {
			return Color{}, fmt.Errorf("invalid color %q", s)
		}
		return Color{A: 0xff, R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
	case 8:
		v, err := strconv.ParseUint(raw, 16, 32)
		if err != nil {
			return Color{}, fmt.Errorf("invalid color %q", s)
		}
		return Color{A: uint8(v >> 24), R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
	default:
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
}

// String renders the color back in "#AARRGGBB" form.
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.A, c.R, c.G, c.B)
}
