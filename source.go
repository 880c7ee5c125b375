package tmx

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileResolver resolves document-relative references such as external
// tileset sources and image paths. Decoding functions receive one through
// DecodeOpt; Load installs a DirFS rooted at the document's directory by
// default.
type FileResolver interface {
	ReadFile(path string) ([]byte, error)
}

// DirFS resolves references against a base directory on the host
// filesystem. Absolute paths are read as-is.
func DirFS(dir string) FileResolver {
	return dirFS{dir: dir}
}

type dirFS struct {
	dir string
}

func (d dirFS) ReadFile(path string) ([]byte, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(d.dir, filepath.FromSlash(path))
	}
	return os.ReadFile(path)
}

// MapFS resolves references from an in-memory map keyed by the exact
// reference string. It is intended for tests and embedded assets.
type MapFS map[string][]byte

func (m MapFS) ReadFile(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, fmt.Errorf("file %q not found", path)
	}
	return data, nil
}
