package tmx_test

import (
	"reflect"
	"testing"

	tmx "github.com/reoring/tmx"
)

const jsonMapDoc = `{
 "version": "1.0",
 "orientation": "orthogonal",
 "renderorder": "right-down",
 "width": 2, "height": 2, "tilewidth": 16, "tileheight": 16,
 "backgroundcolor": "#ff00ff",
 "properties": [
  {"name": "author", "type": "string", "value": "dev"},
  {"name": "difficulty", "type": "int", "value": 3}
 ],
 "tilesets": [
  {"firstgid": 1, "name": "ground", "tilewidth": 16, "tileheight": 16,
   "tilecount": 4, "columns": 2, "image": "ground.png",
   "imagewidth": 32, "imageheight": 32}
 ],
 "layers": [
  {"type": "tilelayer", "name": "floor", "width": 2, "height": 2,
   "data": [1, 2, 3, 4]},
  {"type": "objectgroup", "name": "things", "objects": [
   {"id": 1, "x": 4, "y": 8, "width": 6, "height": 6}
  ]}
 ]
}`

func TestParseJSON(t *testing.T) {
	m, err := tmx.ParseJSON([]byte(jsonMapDoc))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if m.Version != "1.0" || m.Width != 2 || m.TileWidth != 16 {
		t.Fatalf("header = %+v", m)
	}
	if m.BackgroundColor == nil || m.BackgroundColor.String() != "#ffff00ff" {
		t.Fatalf("backgroundcolor = %v", m.BackgroundColor)
	}
	if got := m.Properties.Int("difficulty", 0); got != 3 {
		t.Fatalf("difficulty = %d", got)
	}
	floor := m.Layers[0].(*tmx.TileLayer)
	want := []tmx.GlobalID{1, 2, 3, 4}
	if !reflect.DeepEqual(floor.GIDs, want) {
		t.Fatalf("gids = %v", floor.GIDs)
	}
	g := m.Layers[1].(*tmx.ObjectGroup)
	if len(g.Objects) != 1 || g.Objects[0].Shape != (tmx.Rectangle{Width: 6, Height: 6}) {
		t.Fatalf("objects = %+v", g.Objects)
	}
	if ref, err := m.Resolve(3); err != nil || ref.Tileset.Name != "ground" || ref.LocalID != 2 {
		t.Fatalf("Resolve(3) = %+v, %v", ref, err)
	}
}

// The XML and JSON exports of the same map decode to the same layers and
// tilesets.
func TestParseJSONMatchesXML(t *testing.T) {
	fromXML := mustParse(t, simpleMap)
	fromJSON, err := tmx.ParseJSON([]byte(jsonMapDoc))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	x := fromXML.Layers[0].(*tmx.TileLayer)
	j := fromJSON.Layers[0].(*tmx.TileLayer)
	if !reflect.DeepEqual(x.GIDs, j.GIDs) {
		t.Fatalf("gids differ: %v vs %v", x.GIDs, j.GIDs)
	}
	if fromXML.Tilesets[0].Name != fromJSON.Tilesets[0].Name {
		t.Fatal("tileset names differ")
	}
}

func TestParseJSONPackedData(t *testing.T) {
	doc := `{
	 "width": 2, "height": 2, "tilewidth": 8, "tileheight": 8,
	 "tilesets": [{"firstgid": 1, "name": "t", "tilecount": 2147483647}],
	 "layers": [{"type": "tilelayer", "name": "l", "width": 2, "height": 2,
	  "encoding": "base64", "compression": "zlib",
	  "data": "` + packedZlib + `"}]
	}`
	m, err := tmx.ParseJSON([]byte(doc))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	got := m.Layers[0].(*tmx.TileLayer).GIDs
	want := []tmx.GlobalID{1, 2, 3, 1 | tmx.FlippedHorizontally}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("gids = %v, want %v", got, want)
	}
}

func TestParseJSONExternalTileset(t *testing.T) {
	doc := `{
	 "width": 1, "height": 1, "tilewidth": 16, "tileheight": 16,
	 "tilesets": [{"firstgid": 5, "source": "rocks.tsx"}],
	 "layers": []
	}`
	fs := tmx.MapFS{"rocks.tsx": []byte(externalTileset)}
	m, err := tmx.ParseJSON([]byte(doc), tmx.DecodeOpt{FS: fs})
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if m.Tilesets[0].Name != "rocks" || m.Tilesets[0].FirstGID != 5 {
		t.Fatalf("tileset = %+v", m.Tilesets[0])
	}
}

func TestParseJSONExternalJSONTileset(t *testing.T) {
	tsDoc := `{"name": "rocks", "tilewidth": 16, "tileheight": 16,
	 "tilecount": 8, "columns": 4}`
	doc := `{
	 "width": 1, "height": 1, "tilewidth": 16, "tileheight": 16,
	 "tilesets": [{"firstgid": 5, "source": "rocks.json"}],
	 "layers": []
	}`
	fs := tmx.MapFS{"rocks.json": []byte(tsDoc)}
	m, err := tmx.ParseJSON([]byte(doc), tmx.DecodeOpt{FS: fs})
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if m.Tilesets[0].Name != "rocks" || m.Tilesets[0].TileCount != 8 {
		t.Fatalf("tileset = %+v", m.Tilesets[0])
	}
}

func TestParseJSONErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		code string
	}{
		{"malformed", `{"width": `, tmx.CodeJSONSyntax},
		{"zero dimensions", `{"width": 0, "height": 2, "tilewidth": 8, "tileheight": 8}`,
			tmx.CodeInvalidAttribute},
		{"short data", `{"width": 2, "height": 2, "tilewidth": 8, "tileheight": 8,
		  "layers": [{"type": "tilelayer", "name": "l", "width": 2, "height": 2,
		   "data": [1]}]}`, tmx.CodeDataLengthMismatch},
		{"unknown layer type", `{"width": 1, "height": 1, "tilewidth": 8, "tileheight": 8,
		  "layers": [{"type": "grouplayer", "name": "g"}]}`, tmx.CodeInvalidAttribute},
		{"unresolved gid", `{"width": 1, "height": 1, "tilewidth": 8, "tileheight": 8,
		  "layers": [{"type": "tilelayer", "name": "l", "width": 1, "height": 1,
		   "data": [99]}]}`, tmx.CodeUnresolvedGID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tmx.ParseJSON([]byte(tc.doc))
			wantCode(t, err, tc.code)
		})
	}
}

func TestParseJSONObjectShapes(t *testing.T) {
	doc := `{
	 "width": 1, "height": 1, "tilewidth": 8, "tileheight": 8,
	 "layers": [{"type": "objectgroup", "name": "g", "objects": [
	  {"id": 1, "x": 0, "y": 0, "ellipse": true, "width": 8, "height": 4},
	  {"id": 2, "x": 0, "y": 0, "polygon": [
	   {"x": 0, "y": 0}, {"x": 16, "y": 0}, {"x": 8, "y": 12}]}
	 ]}]
	}`
	m, err := tmx.ParseJSON([]byte(doc))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	g := m.Layers[0].(*tmx.ObjectGroup)
	if g.Objects[0].Shape != (tmx.Ellipse{Width: 8, Height: 4}) {
		t.Fatalf("shape[0] = %#v", g.Objects[0].Shape)
	}
	poly, ok := g.Objects[1].Shape.(tmx.Polygon)
	if !ok || len(poly.Points) != 3 {
		t.Fatalf("shape[1] = %#v", g.Objects[1].Shape)
	}
}
