package tmx

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/reoring/tmx/codec"
	"github.com/reoring/tmx/internal/xmltree"
)

// decodeGIDs converts a <data> payload into one gid per map cell, row-major.
// expected is the owning layer's width*height; pass a negative value to skip
// the length check.
func decodeGIDs(el *xmltree.Element, path string, expected int) ([]GlobalID, error) {
	encoding, hasEncoding := el.Lookup("encoding")
	var gids []GlobalID
	switch {
	case !hasEncoding:
		// Explicit per-cell <tile> children.
		for _, t := range el.All("tile") {
			raw, ok := t.Lookup("gid")
			if !ok {
				gids = append(gids, 0)
				continue
			}
			v, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				return nil, singleIssue(path, CodeInvalidEncoding,
					fmt.Sprintf("tile gid %q is not an unsigned integer", raw))
			}
			gids = append(gids, GlobalID(v))
		}
	case encoding == "csv":
		var err error
		gids, err = decodeCSV(el.Text, path)
		if err != nil {
			return nil, err
		}
	case encoding == "base64":
		raw, err := decodePacked(el, path)
		if err != nil {
			return nil, err
		}
		gids, err = unpackGIDs(raw, path)
		if err != nil {
			return nil, err
		}
	default:
		return nil, singleIssue(path, CodeUnsupportedCodec,
			fmt.Sprintf("unsupported encoding %q", encoding))
	}
	if expected >= 0 && len(gids) != expected {
		return nil, singleIssue(path, CodeDataLengthMismatch,
			fmt.Sprintf("expected %d cells, decoded %d", expected, len(gids)))
	}
	return gids, nil
}

func decodeCSV(text, path string) ([]GlobalID, error) {
	tokens := strings.Split(text, ",")
	gids := make([]GlobalID, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		v, err := strconv.ParseUint(tok, 10, 32)
		if err != nil {
			return nil, singleIssue(path, CodeInvalidEncoding,
				fmt.Sprintf("csv token %q is not an unsigned integer", tok))
		}
		gids = append(gids, GlobalID(v))
	}
	return gids, nil
}

// decodePacked base64-decodes the element text and, when a compression
// token is declared, runs the result through the matching codec.
func decodePacked(el *xmltree.Element, path string) ([]byte, error) {
	compression, _ := el.Lookup("compression")
	return unpackBase64(el.Text, compression, path)
}

func unpackBase64(text, compression, path string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(text))
	if err != nil {
		return nil, wrapIssue(path, CodeInvalidEncoding, "malformed base64 payload", err)
	}
	if compression == "" {
		return raw, nil
	}
	dec, ok := codec.Lookup(compression)
	if !ok {
		return nil, singleIssue(path, CodeUnsupportedCodec,
			fmt.Sprintf("unsupported compression %q", compression))
	}
	out, err := dec.Decompress(raw)
	if err != nil {
		return nil, wrapIssue(path, CodeInvalidCompression,
			fmt.Sprintf("%s payload did not decompress", compression), err)
	}
	return out, nil
}

// unpackGIDs splits packed little-endian 32-bit cells into gids.
func unpackGIDs(raw []byte, path string) ([]GlobalID, error) {
	if len(raw)%4 != 0 {
		return nil, singleIssue(path, CodeInvalidEncoding,
			fmt.Sprintf("packed data is %d bytes, not a multiple of 4", len(raw)))
	}
	gids := make([]GlobalID, len(raw)/4)
	for i := range gids {
		gids[i] = GlobalID(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return gids, nil
}

// decodeImageData decodes an inline <data> block carrying raw image bytes.
// The bytes are returned as-is; pixel decoding is out of scope.
func decodeImageData(el *xmltree.Element, path string) ([]byte, error) {
	if enc, ok := el.Lookup("encoding"); ok && enc != "base64" {
		return nil, singleIssue(path, CodeUnsupportedCodec,
			fmt.Sprintf("unsupported encoding %q", enc))
	}
	return decodePacked(el, path)
}
