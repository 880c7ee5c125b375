package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	tmx "github.com/reoring/tmx"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "map":
		mapCmd(os.Args[2:])
	case "tileset":
		tilesetCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "tmxdump\n\nUsage:\n  tmxdump map [-format text|json|yaml] file.tmx\n  tmxdump tileset [-format text|json|yaml] file.tsx\n\nJSON exports (.json) are detected by extension.")
}

func mapCmd(args []string) {
	fs := flag.NewFlagSet("map", flag.ExitOnError)
	format := fs.String("format", "text", "output format: text, json or yaml")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}
	path := fs.Arg(0)

	var m *tmx.Map
	var err error
	if strings.EqualFold(filepath.Ext(path), ".json") {
		var data []byte
		data, err = os.ReadFile(path)
		if err == nil {
			m, err = tmx.ParseJSON(data, tmx.DecodeOpt{FS: tmx.DirFS(filepath.Dir(path))})
		}
	} else {
		m, err = tmx.Load(path)
	}
	if err != nil {
		reportIssues(err)
	}
	emit(*format, mapSummary(m))
}

func tilesetCmd(args []string) {
	fs := flag.NewFlagSet("tileset", flag.ExitOnError)
	format := fs.String("format", "text", "output format: text, json or yaml")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}
	path := fs.Arg(0)

	var ts *tmx.Tileset
	var err error
	if strings.EqualFold(filepath.Ext(path), ".json") {
		var data []byte
		data, err = os.ReadFile(path)
		if err == nil {
			ts, err = tmx.ParseTilesetJSON(data)
		}
	} else {
		ts, err = tmx.LoadTileset(path)
	}
	if err != nil {
		reportIssues(err)
	}
	emit(*format, tilesetSummary(ts))
}

// reportIssues prints each decode issue on its own line and exits.
func reportIssues(err error) {
	if issues, ok := tmx.AsIssues(err); ok {
		for _, is := range issues {
			fmt.Fprintf(os.Stderr, "%s: %s: %s\n", is.Path, is.Code, is.Message)
		}
		os.Exit(1)
	}
	fatalf("%v", err)
}

func emit(format string, v any) {
	switch format {
	case "text":
		emitText(v, "")
	case "json":
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			fatalf("encode: %v", err)
		}
		fmt.Println(string(out))
	case "yaml":
		out, err := yaml.Marshal(v)
		if err != nil {
			fatalf("encode: %v", err)
		}
		fmt.Print(string(out))
	default:
		fatalf("unknown format %q", format)
	}
}

// summary shapes are plain maps and slices so every encoder renders them
// the same way.

func mapSummary(m *tmx.Map) map[string]any {
	s := map[string]any{
		"version":     m.Version,
		"orientation": string(m.Orientation),
		"renderorder": string(m.RenderOrder),
		"size":        fmt.Sprintf("%dx%d", m.Width, m.Height),
		"tilesize":    fmt.Sprintf("%dx%d", m.TileWidth, m.TileHeight),
	}
	if m.BackgroundColor != nil {
		s["backgroundcolor"] = m.BackgroundColor.String()
	}
	var tilesets []map[string]any
	for _, ts := range m.Tilesets {
		tilesets = append(tilesets, map[string]any{
			"firstgid":  uint32(ts.FirstGID),
			"name":      ts.Name,
			"tilecount": ts.TileCount,
			"source":    ts.Source,
		})
	}
	s["tilesets"] = tilesets
	var layers []map[string]any
	for _, l := range m.Layers {
		layers = append(layers, layerSummary(l))
	}
	s["layers"] = layers
	if len(m.Properties) > 0 {
		s["properties"] = propertySummary(m.Properties)
	}
	return s
}

func layerSummary(l tmx.Layer) map[string]any {
	switch l := l.(type) {
	case *tmx.TileLayer:
		used := 0
		for _, gid := range l.GIDs {
			if gid != 0 {
				used++
			}
		}
		return map[string]any{
			"kind":  "tilelayer",
			"name":  l.Name,
			"size":  fmt.Sprintf("%dx%d", l.Width, l.Height),
			"tiles": used,
		}
	case *tmx.ObjectGroup:
		return map[string]any{
			"kind":    "objectgroup",
			"name":    l.Name,
			"objects": len(l.Objects),
		}
	case *tmx.ImageLayer:
		src := ""
		if l.Image != nil {
			src = l.Image.Source
		}
		return map[string]any{
			"kind":  "imagelayer",
			"name":  l.Name,
			"image": src,
		}
	}
	return map[string]any{"kind": "unknown"}
}

func tilesetSummary(ts *tmx.Tileset) map[string]any {
	s := map[string]any{
		"name":      ts.Name,
		"tilesize":  fmt.Sprintf("%dx%d", ts.TileWidth, ts.TileHeight),
		"tilecount": ts.TileCount,
		"columns":   ts.Columns,
		"tiles":     len(ts.Tiles),
		"terrains":  len(ts.Terrains),
	}
	if ts.Image != nil {
		s["image"] = ts.Image.Source
	}
	if len(ts.Properties) > 0 {
		s["properties"] = propertySummary(ts.Properties)
	}
	return s
}

func propertySummary(props tmx.Properties) map[string]any {
	out := make(map[string]any, len(props))
	for name, v := range props {
		switch v := v.(type) {
		case tmx.StringValue:
			out[name] = string(v)
		case tmx.IntValue:
			out[name] = int64(v)
		case tmx.FloatValue:
			out[name] = float64(v)
		case tmx.BoolValue:
			out[name] = bool(v)
		case tmx.ColorValue:
			out[name] = tmx.Color(v).String()
		case tmx.FileValue:
			out[name] = string(v)
		}
	}
	return out
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "tmxdump: "+format+"\n", args...)
	os.Exit(1)
}

// emitText renders the summary as indented key: value lines.
func emitText(v any, indent string) {
	switch v := v.(type) {
	case map[string]any:
		for _, k := range sortedKeys(v) {
			val := v[k]
			switch val.(type) {
			case map[string]any, []map[string]any:
				fmt.Printf("%s%s:\n", indent, k)
				emitText(val, indent+"  ")
			default:
				fmt.Printf("%s%s: %v\n", indent, k, val)
			}
		}
	case []map[string]any:
		for _, item := range v {
			fmt.Printf("%s-\n", indent)
			emitText(item, indent+"  ")
		}
	default:
		fmt.Printf("%s%v\n", indent, v)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
