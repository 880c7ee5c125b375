package tmx_test

import (
	"os"
	"path/filepath"
	"testing"

	tmx "github.com/reoring/tmx"
)

// Load resolves external tilesets relative to the map's directory.
func TestLoadResolvesRelativeTileset(t *testing.T) {
	dir := t.TempDir()
	mapDoc := `<map width="1" height="1" tilewidth="16" tileheight="16">
	 <tileset firstgid="1" source="assets/rocks.tsx"/>
	 <layer name="l" width="1" height="1"><data encoding="csv">3</data></layer>
	</map>`
	if err := os.MkdirAll(filepath.Join(dir, "assets"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "level.tmx"), []byte(mapDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "assets", "rocks.tsx"), []byte(externalTileset), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := tmx.Load(filepath.Join(dir, "level.tmx"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Tilesets[0].Name != "rocks" {
		t.Fatalf("tileset = %+v", m.Tilesets[0])
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := tmx.Load(filepath.Join(t.TempDir(), "missing.tmx"))
	wantCode(t, err, tmx.CodeIO)
}

func TestLoadTileset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rocks.tsx")
	if err := os.WriteFile(path, []byte(externalTileset), 0o644); err != nil {
		t.Fatal(err)
	}
	ts, err := tmx.LoadTileset(path)
	if err != nil {
		t.Fatalf("LoadTileset: %v", err)
	}
	if ts.Name != "rocks" || ts.TileCount != 8 {
		t.Fatalf("tileset = %+v", ts)
	}
}

// An explicit resolver option overrides the directory default.
func TestLoadWithExplicitResolver(t *testing.T) {
	dir := t.TempDir()
	mapDoc := `<map width="1" height="1" tilewidth="16" tileheight="16">
	 <tileset firstgid="1" source="rocks.tsx"/>
	</map>`
	path := filepath.Join(dir, "level.tmx")
	if err := os.WriteFile(path, []byte(mapDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	fs := tmx.MapFS{"rocks.tsx": []byte(externalTileset)}
	m, err := tmx.Load(path, tmx.DecodeOpt{FS: fs})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Tilesets[0].Name != "rocks" {
		t.Fatalf("tileset = %+v", m.Tilesets[0])
	}
}

func TestMapFSMissing(t *testing.T) {
	if _, err := (tmx.MapFS{}).ReadFile("nope.tsx"); err == nil {
		t.Fatal("ReadFile succeeded for missing entry")
	}
}
