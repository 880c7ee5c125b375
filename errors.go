package tmx

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeXMLSyntax          = "xml_syntax"
	CodeJSONSyntax         = "json_syntax"
	CodeMissingAttribute   = "missing_attribute"
	CodeInvalidAttribute   = "invalid_attribute"
	CodeInvalidProperty    = "invalid_property"
	CodeInvalidEncoding    = "invalid_encoding"
	CodeInvalidCompression = "invalid_compression"
	CodeUnsupportedCodec   = "unsupported_codec"
	CodeDataLengthMismatch = "data_length_mismatch"
	CodeInvalidPointList   = "invalid_point_list"
	CodeUnresolvedGID      = "unresolved_gid"
	CodeTilesetLoad        = "tileset_load"
	CodeIO                 = "io"
)

// Issue represents a single decode failure.
type Issue struct {
	Path    string // Element path (for example: /map/layer[1]/data).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
}

// Issues is a collection of decode errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_encoding at /map/layer[0]/data
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes the cause of a single-issue error to errors.Is/As chains.
func (iss Issues) Unwrap() error {
	if len(iss) == 1 {
		return iss[0].Cause
	}
	return nil
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// HasCode reports whether err carries at least one issue with the given code.
func HasCode(err error, code string) bool {
	iss, ok := AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

func singleIssue(path, code, msg string) Issues {
	return Issues{{Path: path, Code: code, Message: msg}}
}

func wrapIssue(path, code, msg string, cause error) Issues {
	return Issues{{Path: path, Code: code, Message: msg, Cause: cause}}
}
