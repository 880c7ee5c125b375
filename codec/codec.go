// Package codec holds the compression codecs used by tile-grid and image
// data blocks. Codecs are looked up by the document's compression token, so
// the decoding engine does not hard-wire a compression library choice.
package codec

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"sync"
)

// Decompressor turns a compressed byte stream back into plain bytes.
type Decompressor interface {
	Name() string
	Decompress(data []byte) ([]byte, error)
}

var (
	mu       sync.RWMutex
	registry = map[string]Decompressor{
		"zlib": zlibCodec{},
		"gzip": gzipCodec{},
	}
)

// Register adds or replaces a codec under its name; nil values are ignored.
func Register(d Decompressor) {
	if d == nil {
		return
	}
	mu.Lock()
	registry[d.Name()] = d
	mu.Unlock()
}

// Lookup returns the codec registered for the given compression token.
func Lookup(name string) (Decompressor, bool) {
	mu.RLock()
	d, ok := registry[name]
	mu.RUnlock()
	return d, ok
}

type zlibCodec struct{}

func (zlibCodec) Name() string { return "zlib" }

func (zlibCodec) Decompress(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
	}
	return out, nil
}

type gzipCodec struct{}

func (gzipCodec) Name() string { return "gzip" }

func (gzipCodec) Decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	return out, nil
}
