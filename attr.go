package tmx

import (
	"fmt"
	"strconv"

	"github.com/reoring/tmx/internal/xmltree"
)

// attrs reads typed, possibly-defaulted attributes off one element. The
// first failure is latched and later reads become no-ops, so builders read
// every attribute and check Err() once. Attributes the builder never asks
// for are ignored by construction.
type attrs struct {
	el   *xmltree.Element
	path string
	err  error
}

func newAttrs(el *xmltree.Element, path string) *attrs {
	return &attrs{el: el, path: path}
}

func (a *attrs) Err() error { return a.err }

func (a *attrs) fail(code, format string, args ...any) {
	if a.err == nil {
		a.err = singleIssue(a.path, code, fmt.Sprintf(format, args...))
	}
}

func (a *attrs) invalid(name, raw, want string) {
	a.fail(CodeInvalidAttribute, "attribute %q: %q is not a valid %s", name, raw, want)
}

// String returns the named attribute or def when absent.
func (a *attrs) String(name, def string) string {
	if raw, ok := a.el.Lookup(name); ok {
		return raw
	}
	return def
}

// RequireString returns the named attribute, failing when absent.
func (a *attrs) RequireString(name string) string {
	raw, ok := a.el.Lookup(name)
	if !ok {
		a.fail(CodeMissingAttribute, "missing required attribute %q on <%s>", name, a.el.Name)
	}
	return raw
}

// Int returns the named attribute as an int or def when absent.
func (a *attrs) Int(name string, def int) int {
	raw, ok := a.el.Lookup(name)
	if !ok || a.err != nil {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		a.invalid(name, raw, "integer")
		return def
	}
	return v
}

// RequireInt returns the named attribute as an int, failing when absent.
func (a *attrs) RequireInt(name string) int {
	raw, ok := a.el.Lookup(name)
	if !ok {
		a.fail(CodeMissingAttribute, "missing required attribute %q on <%s>", name, a.el.Name)
		return 0
	}
	if a.err != nil {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		a.invalid(name, raw, "integer")
		return 0
	}
	return v
}

// Uint returns the named attribute as a uint32 or def when absent.
func (a *attrs) Uint(name string, def uint32) uint32 {
	raw, ok := a.el.Lookup(name)
	if !ok || a.err != nil {
		return def
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		a.invalid(name, raw, "unsigned integer")
		return def
	}
	return uint32(v)
}

// Float returns the named attribute as a float64 or def when absent.
func (a *attrs) Float(name string, def float64) float64 {
	raw, ok := a.el.Lookup(name)
	if !ok || a.err != nil {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		a.invalid(name, raw, "number")
		return def
	}
	return v
}

// Bool01 reads the "0"/"1" boolean grammar, returning def when absent. Any
// other token is an error.
func (a *attrs) Bool01(name string, def bool) bool {
	raw, ok := a.el.Lookup(name)
	if !ok || a.err != nil {
		return def
	}
	switch raw {
	case "0":
		return false
	case "1":
		return true
	}
	a.invalid(name, raw, "boolean (0 or 1)")
	return def
}

// Color reads a color attribute; ok is false when the attribute is absent.
func (a *attrs) Color(name string) (c Color, ok bool) {
	raw, present := a.el.Lookup(name)
	if !present || a.err != nil {
		return Color{}, false
	}
	c, err := ParseColor(raw)
	if err != nil {
		a.invalid(name, raw, "color")
		return Color{}, false
	}
	return c, true
}

// Enum returns the named attribute when it belongs to the allowed set, or
// def when absent.
func (a *attrs) Enum(name, def string, allowed ...string) string {
	raw, ok := a.el.Lookup(name)
	if !ok || a.err != nil {
		return def
	}
	for _, v := range allowed {
		if raw == v {
			return raw
		}
	}
	a.invalid(name, raw, "enum value")
	return def
}

// Opacity reads the opacity attribute, defaulting to 1 and rejecting values
// outside [0, 1].
func (a *attrs) Opacity() float64 {
	v := a.Float("opacity", 1)
	if a.err == nil && (v < 0 || v > 1) {
		a.invalid("opacity", strconv.FormatFloat(v, 'g', -1, 64), "opacity in [0,1]")
		return 1
	}
	return v
}
