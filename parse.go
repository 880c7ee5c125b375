package tmx

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/reoring/tmx/internal/xmltree"
)

// DecodeOpt tunes decoding. A zero value is usable; a nil FS simply makes
// external references fail with a tileset_load issue.
type DecodeOpt struct {
	// FS resolves external tileset and image references.
	FS FileResolver
}

// mergeOpts folds trailing options left to right; later options win.
func mergeOpts(opts []DecodeOpt) DecodeOpt {
	var merged DecodeOpt
	for _, o := range opts {
		if o.FS != nil {
			merged.FS = o.FS
		}
	}
	return merged
}

// Load reads and decodes a map document from the host filesystem. External
// references resolve relative to the document's directory unless an option
// supplies another resolver.
func Load(path string, opts ...DecodeOpt) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapIssue("/", CodeIO,
			fmt.Sprintf("map %q could not be read", path), err)
	}
	opt := mergeOpts(opts)
	if opt.FS == nil {
		opt.FS = DirFS(filepath.Dir(path))
	}
	return parseMapDoc(data, opt)
}

// Parse decodes a map document held in memory.
func Parse(data []byte, opts ...DecodeOpt) (*Map, error) {
	return parseMapDoc(data, mergeOpts(opts))
}

// LoadTileset reads and decodes a standalone tileset document from the
// host filesystem. The result has FirstGID 0.
func LoadTileset(path string, opts ...DecodeOpt) (*Tileset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapIssue("/", CodeIO,
			fmt.Sprintf("tileset %q could not be read", path), err)
	}
	opt := mergeOpts(opts)
	if opt.FS == nil {
		opt.FS = DirFS(filepath.Dir(path))
	}
	return parseTilesetDoc(data, opt)
}

// ParseTileset decodes a standalone tileset document held in memory.
func ParseTileset(data []byte, opts ...DecodeOpt) (*Tileset, error) {
	return parseTilesetDoc(data, mergeOpts(opts))
}

func parseMapDoc(data []byte, opt DecodeOpt) (*Map, error) {
	root, err := xmltree.Parse(data)
	if err != nil {
		return nil, wrapIssue("/", CodeXMLSyntax, "document is not well-formed XML", err)
	}
	if root.Name != "map" {
		return nil, singleIssue("/", CodeXMLSyntax,
			fmt.Sprintf("root element is <%s>, want <map>", root.Name))
	}
	return decodeMap(root, opt)
}

func parseTilesetDoc(data []byte, opt DecodeOpt) (*Tileset, error) {
	root, err := xmltree.Parse(data)
	if err != nil {
		return nil, wrapIssue("/", CodeXMLSyntax, "document is not well-formed XML", err)
	}
	if root.Name != "tileset" {
		return nil, singleIssue("/", CodeXMLSyntax,
			fmt.Sprintf("root element is <%s>, want <tileset>", root.Name))
	}
	return decodeTileset(root, "/tileset", opt)
}
