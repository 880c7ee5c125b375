package tmx

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/reoring/tmx/internal/xmltree"
)

// Tileset is a named set of tiles registered into a map at FirstGID. A
// standalone tileset decoded from a .tsx document has FirstGID 0 until it
// is merged at a reference site.
type Tileset struct {
	FirstGID GlobalID
	Source   string // reference path when loaded externally, "" when inline
	Name     string

	TileWidth, TileHeight int
	Spacing, Margin       int
	TileCount             uint32 // 0 when the document does not declare it
	Columns               int

	TileOffset *TileOffset
	Image      *Image
	Terrains   []Terrain

	// Tiles holds the explicit, sparse tile definitions. Use Tile for
	// lookups that should see implicit defaults.
	Tiles map[uint32]*TileDefinition

	Properties Properties
}

// Tile returns the definition for a local tile id, substituting an implicit
// default for ids inside the declared range that have no explicit
// definition. It returns nil when the id falls outside a known range.
func (ts *Tileset) Tile(id uint32) *TileDefinition {
	if def, ok := ts.Tiles[id]; ok {
		return def
	}
	if ts.TileCount > 0 && id >= ts.TileCount {
		return nil
	}
	return &TileDefinition{ID: id, Probability: 1}
}

// TileOffset is a pixel shift applied when drawing tiles of the set.
type TileOffset struct {
	X, Y int
}

// Terrain is one terrain kind declared by a tileset.
type Terrain struct {
	Name       string
	Tile       uint32 // local id of the tile representing the terrain
	Properties Properties
}

// TerrainIndex indexes into the owning tileset's Terrains; TerrainNone
// marks a corner with no terrain.
type TerrainIndex int32

// TerrainNone is the "no terrain" corner marker.
const TerrainNone TerrainIndex = -1

// TerrainCorners lists the terrain of each tile corner in the order
// top-left, top-right, bottom-left, bottom-right.
type TerrainCorners [4]TerrainIndex

// TileDefinition is the explicit metadata of one tile in a tileset.
type TileDefinition struct {
	ID          uint32
	Terrain     *TerrainCorners
	Probability float64 // relative weight for random selection, default 1
	Properties  Properties
	Image       *Image       // per-tile image for image-collection tilesets
	ObjectGroup *ObjectGroup // collision/hit shapes
	Animation   []Frame
}

// Frame is one step of a tile animation.
type Frame struct {
	TileID   uint32
	Duration int // milliseconds
}

// Image records where a referenced image lives and what the document
// declares about it. Pixel data is never decoded; an inline data block is
// carried as raw bytes.
type Image struct {
	Format string
	Source string
	Trans  *Color // transparent color, optional
	Width  int
	Height int
	Data   []byte
}

// decodeTilesetRef decodes a <tileset> child of a map: either an inline
// tileset or an external reference carrying only firstgid and source.
func decodeTilesetRef(el *xmltree.Element, path string, opt DecodeOpt) (*Tileset, error) {
	a := newAttrs(el, path)
	firstGID := a.Uint("firstgid", 0)
	source := a.String("source", "")
	if err := a.Err(); err != nil {
		return nil, err
	}
	if source == "" {
		ts, err := decodeTileset(el, path, opt)
		if err != nil {
			return nil, err
		}
		ts.FirstGID = GlobalID(firstGID)
		return ts, nil
	}
	if opt.FS == nil {
		return nil, singleIssue(path, CodeTilesetLoad,
			fmt.Sprintf("external tileset %q: no file resolver configured", source))
	}
	data, err := opt.FS.ReadFile(source)
	if err != nil {
		return nil, wrapIssue(path, CodeTilesetLoad,
			fmt.Sprintf("external tileset %q could not be read", source), err)
	}
	var ts *Tileset
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		ts, err = ParseTilesetJSON(data)
	} else {
		ts, err = parseTilesetDoc(data, opt)
	}
	if err != nil {
		return nil, wrapIssue(path, CodeTilesetLoad,
			fmt.Sprintf("external tileset %q could not be decoded", source), err)
	}
	// The external document carries no firstgid; the reference site does.
	ts.FirstGID = GlobalID(firstGID)
	ts.Source = source
	return ts, nil
}

func decodeTileset(el *xmltree.Element, path string, opt DecodeOpt) (*Tileset, error) {
	a := newAttrs(el, path)
	ts := &Tileset{
		Name:       a.String("name", ""),
		TileWidth:  a.Int("tilewidth", 0),
		TileHeight: a.Int("tileheight", 0),
		Spacing:    a.Int("spacing", 0),
		Margin:     a.Int("margin", 0),
		TileCount:  a.Uint("tilecount", 0),
		Columns:    a.Int("columns", 0),
	}
	hasColumns := false
	if _, ok := el.Lookup("columns"); ok {
		hasColumns = true
	}
	if err := a.Err(); err != nil {
		return nil, err
	}

	if off := el.Find("tileoffset"); off != nil {
		oa := newAttrs(off, path+"/tileoffset")
		ts.TileOffset = &TileOffset{X: oa.Int("x", 0), Y: oa.Int("y", 0)}
		if err := oa.Err(); err != nil {
			return nil, err
		}
	}
	props, err := decodeProperties(el.Find("properties"), path+"/properties")
	if err != nil {
		return nil, err
	}
	ts.Properties = props
	if img := el.Find("image"); img != nil {
		image, err := decodeImage(img, path+"/image")
		if err != nil {
			return nil, err
		}
		ts.Image = image
	}
	if tt := el.Find("terraintypes"); tt != nil {
		for i, t := range tt.All("terrain") {
			terr, err := decodeTerrain(t, fmt.Sprintf("%s/terrain[%d]", path, i))
			if err != nil {
				return nil, err
			}
			ts.Terrains = append(ts.Terrains, terr)
		}
	}
	ts.Tiles = make(map[uint32]*TileDefinition)
	for i, t := range el.All("tile") {
		def, err := decodeTileDefinition(t, fmt.Sprintf("%s/tile[%d]", path, i))
		if err != nil {
			return nil, err
		}
		ts.Tiles[def.ID] = def
	}

	// The explicit columns attribute wins; the value derived from the image
	// geometry fills in only when the attribute is absent.
	if !hasColumns && ts.Image != nil && ts.TileWidth > 0 {
		stride := ts.TileWidth + ts.Spacing
		usable := ts.Image.Width - 2*ts.Margin + ts.Spacing
		if usable > 0 && stride > 0 {
			ts.Columns = usable / stride
		}
	}
	return ts, nil
}

func decodeTerrain(el *xmltree.Element, path string) (Terrain, error) {
	a := newAttrs(el, path)
	t := Terrain{
		Name: a.String("name", ""),
		Tile: a.Uint("tile", 0),
	}
	if err := a.Err(); err != nil {
		return Terrain{}, err
	}
	props, err := decodeProperties(el.Find("properties"), path+"/properties")
	if err != nil {
		return Terrain{}, err
	}
	t.Properties = props
	return t, nil
}

func decodeTileDefinition(el *xmltree.Element, path string) (*TileDefinition, error) {
	a := newAttrs(el, path)
	def := &TileDefinition{
		ID:          a.Uint("id", 0),
		Probability: a.Float("probability", 1),
	}
	if err := a.Err(); err != nil {
		return nil, err
	}
	if def.Probability < 0 || def.Probability > 1 {
		return nil, singleIssue(path, CodeInvalidAttribute,
			fmt.Sprintf("probability %g is outside [0,1]", def.Probability))
	}
	if raw, ok := el.Lookup("terrain"); ok {
		corners, err := decodeTerrainCorners(raw, path)
		if err != nil {
			return nil, err
		}
		def.Terrain = corners
	}
	props, err := decodeProperties(el.Find("properties"), path+"/properties")
	if err != nil {
		return nil, err
	}
	def.Properties = props
	if img := el.Find("image"); img != nil {
		image, err := decodeImage(img, path+"/image")
		if err != nil {
			return nil, err
		}
		def.Image = image
	}
	if og := el.Find("objectgroup"); og != nil {
		group, err := decodeObjectGroup(og, path+"/objectgroup")
		if err != nil {
			return nil, err
		}
		def.ObjectGroup = group
	}
	if anim := el.Find("animation"); anim != nil {
		for i, f := range anim.All("frame") {
			fa := newAttrs(f, fmt.Sprintf("%s/frame[%d]", path, i))
			frame := Frame{
				TileID:   fa.Uint("tileid", 0),
				Duration: fa.Int("duration", 0),
			}
			if err := fa.Err(); err != nil {
				return nil, err
			}
			def.Animation = append(def.Animation, frame)
		}
	}
	return def, nil
}

// decodeTerrainCorners parses the "tl,tr,bl,br" corner list; empty slots
// mean "no terrain".
func decodeTerrainCorners(raw, path string) (*TerrainCorners, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return nil, singleIssue(path, CodeInvalidAttribute,
			fmt.Sprintf("attribute %q: %q does not list 4 corners", "terrain", raw))
	}
	var corners TerrainCorners
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			corners[i] = TerrainNone
			continue
		}
		v, err := strconv.ParseUint(p, 10, 31)
		if err != nil {
			return nil, singleIssue(path, CodeInvalidAttribute,
				fmt.Sprintf("attribute %q: corner %q is not a terrain index", "terrain", p))
		}
		corners[i] = TerrainIndex(v)
	}
	return &corners, nil
}

func decodeImage(el *xmltree.Element, path string) (*Image, error) {
	a := newAttrs(el, path)
	img := &Image{
		Format: a.String("format", ""),
		Source: a.String("source", ""),
		Width:  a.Int("width", 0),
		Height: a.Int("height", 0),
	}
	if c, ok := a.Color("trans"); ok {
		img.Trans = &c
	}
	if err := a.Err(); err != nil {
		return nil, err
	}
	if data := el.Find("data"); data != nil {
		raw, err := decodeImageData(data, path+"/data")
		if err != nil {
			return nil, err
		}
		img.Data = raw
	}
	return img, nil
}
