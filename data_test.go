package tmx_test

import (
	"fmt"
	"reflect"
	"testing"

	tmx "github.com/reoring/tmx"
)

// 2x2 grid [1, 2, 3, 1|flipped-horizontally] packed little-endian and
// base64-encoded, plain and compressed.
const (
	packedPlain = "AQAAAAIAAAADAAAAAQAAgA=="
	packedZlib  = "eJxjZGBgYAJiZiBmZGBoAAAA1ACI"
	packedGzip  = "H4sIAAAAAAAC/2NkYGBgAmJmIGZkYGgAAP2nY3UQAAAA"
)

func gridMap(data string) string {
	return fmt.Sprintf(`<map width="2" height="2" tilewidth="8" tileheight="8">
	 <tileset firstgid="1" name="t" tilewidth="8" tileheight="8" tilecount="8"/>
	 <layer name="l" width="2" height="2">%s</layer>
	</map>`, data)
}

func gridGIDs(t *testing.T, data string) []tmx.GlobalID {
	t.Helper()
	m := mustParse(t, gridMap(data))
	return m.Layers[0].(*tmx.TileLayer).GIDs
}

// Every encoding of the same grid decodes to the same gids.
func TestDataEncodingsAgree(t *testing.T) {
	want := []tmx.GlobalID{1, 2, 3, 1 | tmx.FlippedHorizontally}
	cases := map[string]string{
		"tiles": `<data><tile gid="1"/><tile gid="2"/><tile gid="3"/><tile gid="2147483649"/></data>`,
		"csv":   `<data encoding="csv">1,2,3,2147483649</data>`,
		"plain": `<data encoding="base64">` + packedPlain + `</data>`,
		"zlib":  `<data encoding="base64" compression="zlib">` + packedZlib + `</data>`,
		"gzip":  `<data encoding="base64" compression="gzip">` + packedGzip + `</data>`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			got := gridGIDs(t, data)
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("gids = %v, want %v", got, want)
			}
		})
	}
}

func TestDataFlipFlags(t *testing.T) {
	gids := gridGIDs(t, `<data encoding="csv">1,2,3,2147483649</data>`)
	last := gids[3]
	if last.BareID() != 1 {
		t.Fatalf("bare id = %d, want 1", last.BareID())
	}
	f := last.Flips()
	if !f.Horizontal || f.Vertical || f.Diagonal {
		t.Fatalf("flips = %+v", f)
	}
}

func TestDataLengthMismatch(t *testing.T) {
	cases := map[string]string{
		"csv short":    `<data encoding="csv">1,2,3</data>`,
		"csv long":     `<data encoding="csv">1,2,3,4,5</data>`,
		"packed short": `<data encoding="base64">AQAAAAIAAAADAAAA</data>`,
		"tiles short":  `<data><tile gid="1"/></data>`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := tmx.Parse([]byte(gridMap(data)))
			wantCode(t, err, tmx.CodeDataLengthMismatch)
		})
	}
}

func TestDataErrors(t *testing.T) {
	cases := []struct {
		name string
		data string
		code string
	}{
		{"unknown encoding", `<data encoding="hex">0102</data>`, tmx.CodeUnsupportedCodec},
		{"unknown compression", `<data encoding="base64" compression="zstd">` + packedPlain + `</data>`, tmx.CodeUnsupportedCodec},
		{"bad base64", `<data encoding="base64">!!not base64!!</data>`, tmx.CodeInvalidEncoding},
		{"bad csv token", `<data encoding="csv">1,two,3,4</data>`, tmx.CodeInvalidEncoding},
		{"negative csv", `<data encoding="csv">1,-2,3,4</data>`, tmx.CodeInvalidEncoding},
		{"corrupt zlib", `<data encoding="base64" compression="zlib">bm90IHpsaWIgZGF0YQ==</data>`, tmx.CodeInvalidCompression},
		{"ragged bytes", `<data encoding="base64">AQAAAAIAAAADAAAAAQ==</data>`, tmx.CodeInvalidEncoding},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tmx.Parse([]byte(gridMap(tc.data)))
			wantCode(t, err, tc.code)
		})
	}
}

// Whitespace around csv tokens and the payload is tolerated.
func TestDataWhitespaceTolerant(t *testing.T) {
	data := "<data encoding=\"csv\">\n  1, 2,\n  3, 2147483649\n </data>"
	got := gridGIDs(t, data)
	want := []tmx.GlobalID{1, 2, 3, 1 | tmx.FlippedHorizontally}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("gids = %v, want %v", got, want)
	}
}
