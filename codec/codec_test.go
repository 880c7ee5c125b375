package codec_test

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"testing"

	"github.com/reoring/tmx/codec"
)

func TestZlibRoundTrip(t *testing.T) {
	plain := []byte("the quick brown fox")
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(plain); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	dec, ok := codec.Lookup("zlib")
	if !ok {
		t.Fatal("zlib codec not registered")
	}
	out, err := dec.Decompress(buf.Bytes())
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, plain) {
		t.Fatalf("got %q, want %q", out, plain)
	}
}

func TestGzipRoundTrip(t *testing.T) {
	plain := []byte("the quick brown fox")
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(plain); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	dec, ok := codec.Lookup("gzip")
	if !ok {
		t.Fatal("gzip codec not registered")
	}
	out, err := dec.Decompress(buf.Bytes())
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, plain) {
		t.Fatalf("got %q, want %q", out, plain)
	}
}

func TestDecompressRejectsGarbage(t *testing.T) {
	for _, name := range []string{"zlib", "gzip"} {
		dec, _ := codec.Lookup(name)
		if _, err := dec.Decompress([]byte("garbage")); err == nil {
			t.Fatalf("%s accepted garbage", name)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, ok := codec.Lookup("zstd"); ok {
		t.Fatal("unexpected codec for zstd")
	}
}

type upperCodec struct{}

func (upperCodec) Name() string { return "upper" }

func (upperCodec) Decompress(data []byte) ([]byte, error) {
	return bytes.ToUpper(data), nil
}

func TestRegister(t *testing.T) {
	codec.Register(upperCodec{})
	dec, ok := codec.Lookup("upper")
	if !ok {
		t.Fatal("registered codec not found")
	}
	out, err := dec.Decompress([]byte("abc"))
	if err != nil || string(out) != "ABC" {
		t.Fatalf("Decompress = %q, %v", out, err)
	}
	codec.Register(nil)
}
