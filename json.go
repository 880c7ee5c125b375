package tmx

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// ParseJSON decodes a map exported in the JSON variant of the format into
// the same model Parse produces. External tileset references resolve
// through the option resolver and may point at XML or JSON documents.
func ParseJSON(data []byte, opts ...DecodeOpt) (*Map, error) {
	opt := mergeOpts(opts)
	var wire jsonMap
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, wrapIssue("/", CodeJSONSyntax, "document is not well-formed JSON", err)
	}
	return wire.build(opt)
}

// ParseTilesetJSON decodes a standalone tileset exported in the JSON
// variant. The result has FirstGID 0.
func ParseTilesetJSON(data []byte, opts ...DecodeOpt) (*Tileset, error) {
	var wire jsonTileset
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, wrapIssue("/", CodeJSONSyntax, "document is not well-formed JSON", err)
	}
	return wire.build("/tileset")
}

// Wire structs mirror the JSON export schema one to one; build methods
// translate them into the decoded model.

type jsonMap struct {
	Version         json.RawMessage `json:"version"` // number in old exports, string in new
	Orientation     string          `json:"orientation"`
	RenderOrder     string          `json:"renderorder"`
	Width           int             `json:"width"`
	Height          int             `json:"height"`
	TileWidth       int             `json:"tilewidth"`
	TileHeight      int             `json:"tileheight"`
	HexSideLength   int             `json:"hexsidelength"`
	StaggerAxis     string          `json:"staggeraxis"`
	StaggerIndex    string          `json:"staggerindex"`
	BackgroundColor string          `json:"backgroundcolor"`
	NextObjectID    uint32          `json:"nextobjectid"`
	Properties      []jsonProperty  `json:"properties"`
	Tilesets        []jsonTileset   `json:"tilesets"`
	Layers          []jsonLayer     `json:"layers"`
}

type jsonTileset struct {
	FirstGID    uint32          `json:"firstgid"`
	Source      string          `json:"source"`
	Name        string          `json:"name"`
	TileWidth   int             `json:"tilewidth"`
	TileHeight  int             `json:"tileheight"`
	Spacing     int             `json:"spacing"`
	Margin      int             `json:"margin"`
	TileCount   uint32          `json:"tilecount"`
	Columns     *int            `json:"columns"`
	Image       string          `json:"image"`
	ImageWidth  int             `json:"imagewidth"`
	ImageHeight int             `json:"imageheight"`
	TileOffset  *jsonTileOffset `json:"tileoffset"`
	Properties  []jsonProperty  `json:"properties"`
	Terrains    []jsonTerrain   `json:"terrains"`
	Tiles       []jsonTileDef   `json:"tiles"`
}

type jsonTileOffset struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type jsonTerrain struct {
	Name       string         `json:"name"`
	Tile       uint32         `json:"tile"`
	Properties []jsonProperty `json:"properties"`
}

type jsonTileDef struct {
	ID          uint32           `json:"id"`
	Terrain     []int32          `json:"terrain"`
	Probability *float64         `json:"probability"`
	Properties  []jsonProperty   `json:"properties"`
	Image       string           `json:"image"`
	ImageWidth  int              `json:"imagewidth"`
	ImageHeight int              `json:"imageheight"`
	ObjectGroup *jsonLayer       `json:"objectgroup"`
	Animation   []jsonFrame      `json:"animation"`
}

type jsonFrame struct {
	TileID   uint32 `json:"tileid"`
	Duration int    `json:"duration"`
}

type jsonLayer struct {
	Type        string          `json:"type"`
	Name        string          `json:"name"`
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	X           int             `json:"x"`
	Y           int             `json:"y"`
	OffsetX     float64         `json:"offsetx"`
	OffsetY     float64         `json:"offsety"`
	Opacity     *float64        `json:"opacity"`
	Visible     *bool           `json:"visible"`
	Color       string          `json:"color"`
	DrawOrder   string          `json:"draworder"`
	Image       string          `json:"image"`
	Encoding    string          `json:"encoding"`
	Compression string          `json:"compression"`
	Data        json.RawMessage `json:"data"`
	Objects     []jsonObject    `json:"objects"`
	Properties  []jsonProperty  `json:"properties"`
}

type jsonObject struct {
	ID         uint32         `json:"id"`
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	X          float64        `json:"x"`
	Y          float64        `json:"y"`
	Width      float64        `json:"width"`
	Height     float64        `json:"height"`
	Rotation   float64        `json:"rotation"`
	Visible    *bool          `json:"visible"`
	GID        *uint32        `json:"gid"`
	Ellipse    bool           `json:"ellipse"`
	Polygon    []jsonPoint    `json:"polygon"`
	Polyline   []jsonPoint    `json:"polyline"`
	Properties []jsonProperty `json:"properties"`
}

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type jsonProperty struct {
	Name  string          `json:"name"`
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

func (w *jsonMap) build(opt DecodeOpt) (*Map, error) {
	const path = "/map"
	m := &Map{
		Version:      jsonVersion(w.Version),
		Orientation:  Orientation(defaultString(w.Orientation, string(Orthogonal))),
		RenderOrder:  RenderOrder(defaultString(w.RenderOrder, string(RightDown))),
		Width:        w.Width,
		Height:       w.Height,
		TileWidth:    w.TileWidth,
		TileHeight:   w.TileHeight,
		NextObjectID: w.NextObjectID,
	}
	if m.Width <= 0 || m.Height <= 0 {
		return nil, singleIssue(path, CodeInvalidAttribute,
			fmt.Sprintf("map dimensions must be positive, got %dx%d", m.Width, m.Height))
	}
	if m.Orientation == Staggered || m.Orientation == Hexagonal {
		m.HexSideLength = w.HexSideLength
		m.StaggerAxis = StaggerAxis(w.StaggerAxis)
		m.StaggerIndex = StaggerIndex(w.StaggerIndex)
	}
	if w.BackgroundColor != "" {
		c, err := ParseColor(w.BackgroundColor)
		if err != nil {
			return nil, singleIssue(path, CodeInvalidAttribute,
				fmt.Sprintf("attribute %q: %q is not a valid color", "backgroundcolor", w.BackgroundColor))
		}
		m.BackgroundColor = &c
	}
	props, err := buildJSONProperties(w.Properties, path+"/properties")
	if err != nil {
		return nil, err
	}
	m.Properties = props

	for i, wts := range w.Tilesets {
		tsPath := fmt.Sprintf("%s/tileset[%d]", path, i)
		ts, err := wts.resolve(tsPath, opt)
		if err != nil {
			return nil, err
		}
		m.Tilesets = append(m.Tilesets, ts)
	}
	for i, wl := range w.Layers {
		layerPath := fmt.Sprintf("%s/%s[%d]", path, wl.Type, i)
		layer, err := wl.build(layerPath, m.Width, m.Height)
		if err != nil {
			return nil, err
		}
		m.Layers = append(m.Layers, layer)
	}

	index, err := newGIDIndex(m.Tilesets)
	if err != nil {
		return nil, err
	}
	m.index = index
	if err := m.checkGIDs(); err != nil {
		return nil, err
	}
	return m, nil
}

// resolve turns a tileset entry into a model tileset, following an external
// source through the file resolver when one is declared.
func (w *jsonTileset) resolve(path string, opt DecodeOpt) (*Tileset, error) {
	if w.Source == "" {
		ts, err := w.build(path)
		if err != nil {
			return nil, err
		}
		ts.FirstGID = GlobalID(w.FirstGID)
		return ts, nil
	}
	if opt.FS == nil {
		return nil, singleIssue(path, CodeTilesetLoad,
			fmt.Sprintf("external tileset %q: no file resolver configured", w.Source))
	}
	data, err := opt.FS.ReadFile(w.Source)
	if err != nil {
		return nil, wrapIssue(path, CodeTilesetLoad,
			fmt.Sprintf("external tileset %q could not be read", w.Source), err)
	}
	var ts *Tileset
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		ts, err = ParseTilesetJSON(data)
	} else {
		ts, err = parseTilesetDoc(data, opt)
	}
	if err != nil {
		return nil, wrapIssue(path, CodeTilesetLoad,
			fmt.Sprintf("external tileset %q could not be decoded", w.Source), err)
	}
	ts.FirstGID = GlobalID(w.FirstGID)
	ts.Source = w.Source
	return ts, nil
}

func (w *jsonTileset) build(path string) (*Tileset, error) {
	ts := &Tileset{
		Name:       w.Name,
		TileWidth:  w.TileWidth,
		TileHeight: w.TileHeight,
		Spacing:    w.Spacing,
		Margin:     w.Margin,
		TileCount:  w.TileCount,
		Tiles:      make(map[uint32]*TileDefinition),
	}
	if w.Image != "" {
		ts.Image = &Image{Source: w.Image, Width: w.ImageWidth, Height: w.ImageHeight}
	}
	if w.TileOffset != nil {
		ts.TileOffset = &TileOffset{X: w.TileOffset.X, Y: w.TileOffset.Y}
	}
	if w.Columns != nil {
		ts.Columns = *w.Columns
	} else if ts.Image != nil && ts.TileWidth > 0 {
		stride := ts.TileWidth + ts.Spacing
		usable := ts.Image.Width - 2*ts.Margin + ts.Spacing
		if usable > 0 && stride > 0 {
			ts.Columns = usable / stride
		}
	}
	props, err := buildJSONProperties(w.Properties, path+"/properties")
	if err != nil {
		return nil, err
	}
	ts.Properties = props
	for _, wt := range w.Terrains {
		tp, err := buildJSONProperties(wt.Properties, path+"/properties")
		if err != nil {
			return nil, err
		}
		ts.Terrains = append(ts.Terrains, Terrain{Name: wt.Name, Tile: wt.Tile, Properties: tp})
	}
	for _, wd := range w.Tiles {
		def, err := wd.build(fmt.Sprintf("%s/tile[%d]", path, wd.ID))
		if err != nil {
			return nil, err
		}
		ts.Tiles[def.ID] = def
	}
	return ts, nil
}

func (w *jsonTileDef) build(path string) (*TileDefinition, error) {
	def := &TileDefinition{ID: w.ID, Probability: 1}
	if w.Probability != nil {
		def.Probability = *w.Probability
		if def.Probability < 0 || def.Probability > 1 {
			return nil, singleIssue(path, CodeInvalidAttribute,
				fmt.Sprintf("probability %g is outside [0,1]", def.Probability))
		}
	}
	if w.Terrain != nil {
		if len(w.Terrain) != 4 {
			return nil, singleIssue(path, CodeInvalidAttribute,
				fmt.Sprintf("attribute %q: %d corners listed, want 4", "terrain", len(w.Terrain)))
		}
		var corners TerrainCorners
		for i, t := range w.Terrain {
			corners[i] = TerrainIndex(t)
		}
		def.Terrain = &corners
	}
	props, err := buildJSONProperties(w.Properties, path+"/properties")
	if err != nil {
		return nil, err
	}
	def.Properties = props
	if w.Image != "" {
		def.Image = &Image{Source: w.Image, Width: w.ImageWidth, Height: w.ImageHeight}
	}
	if w.ObjectGroup != nil {
		layer, err := w.ObjectGroup.build(path+"/objectgroup", 0, 0)
		if err != nil {
			return nil, err
		}
		group, ok := layer.(*ObjectGroup)
		if !ok {
			return nil, singleIssue(path, CodeInvalidAttribute,
				fmt.Sprintf("tile objectgroup has layer type %q", w.ObjectGroup.Type))
		}
		def.ObjectGroup = group
	}
	for _, f := range w.Animation {
		def.Animation = append(def.Animation, Frame{TileID: f.TileID, Duration: f.Duration})
	}
	return def, nil
}

func (w *jsonLayer) build(path string, mapW, mapH int) (Layer, error) {
	info := LayerInfo{
		Name:    w.Name,
		OffsetX: w.OffsetX,
		OffsetY: w.OffsetY,
		Opacity: 1,
		Visible: true,
	}
	if w.Opacity != nil {
		info.Opacity = *w.Opacity
		if info.Opacity < 0 || info.Opacity > 1 {
			return nil, singleIssue(path, CodeInvalidAttribute,
				fmt.Sprintf("opacity %g is outside [0,1]", info.Opacity))
		}
	}
	if w.Visible != nil {
		info.Visible = *w.Visible
	}
	props, err := buildJSONProperties(w.Properties, path+"/properties")
	if err != nil {
		return nil, err
	}
	info.Properties = props

	switch w.Type {
	case "tilelayer":
		l := &TileLayer{LayerInfo: info, Width: w.Width, Height: w.Height}
		if l.Width == 0 {
			l.Width = mapW
		}
		if l.Height == 0 {
			l.Height = mapH
		}
		gids, err := w.buildData(path+"/data", l.Width*l.Height)
		if err != nil {
			return nil, err
		}
		l.GIDs = gids
		return l, nil
	case "objectgroup":
		g := &ObjectGroup{LayerInfo: info, DrawOrder: TopDown}
		if w.DrawOrder == string(IndexOrder) {
			g.DrawOrder = IndexOrder
		}
		if w.Color != "" {
			c, err := ParseColor(w.Color)
			if err != nil {
				return nil, singleIssue(path, CodeInvalidAttribute,
					fmt.Sprintf("attribute %q: %q is not a valid color", "color", w.Color))
			}
			g.Color = &c
		}
		for i, wo := range w.Objects {
			obj, err := wo.build(objectPath(path, i))
			if err != nil {
				return nil, err
			}
			g.Objects = append(g.Objects, obj)
		}
		return g, nil
	case "imagelayer":
		l := &ImageLayer{LayerInfo: info, X: w.X, Y: w.Y}
		if w.Image != "" {
			l.Image = &Image{Source: w.Image}
		}
		return l, nil
	}
	return nil, singleIssue(path, CodeInvalidAttribute,
		fmt.Sprintf("unknown layer type %q", w.Type))
}

// buildData accepts either a plain array of gids or a base64 string with
// optional compression, matching the two export encodings.
func (w *jsonLayer) buildData(path string, expected int) ([]GlobalID, error) {
	trimmed := bytes.TrimSpace(w.Data)
	var gids []GlobalID
	switch {
	case len(trimmed) == 0:
		gids = make([]GlobalID, expected)
	case trimmed[0] == '[':
		var cells []uint32
		if err := json.Unmarshal(trimmed, &cells); err != nil {
			return nil, wrapIssue(path, CodeInvalidEncoding, "data array is malformed", err)
		}
		gids = make([]GlobalID, len(cells))
		for i, c := range cells {
			gids[i] = GlobalID(c)
		}
	case trimmed[0] == '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return nil, wrapIssue(path, CodeInvalidEncoding, "data string is malformed", err)
		}
		if w.Encoding != "" && w.Encoding != "base64" {
			return nil, singleIssue(path, CodeUnsupportedCodec,
				fmt.Sprintf("unsupported encoding %q", w.Encoding))
		}
		raw, err := unpackBase64(text, w.Compression, path)
		if err != nil {
			return nil, err
		}
		gids, err = unpackGIDs(raw, path)
		if err != nil {
			return nil, err
		}
	default:
		return nil, singleIssue(path, CodeInvalidEncoding, "data is neither an array nor a string")
	}
	if len(gids) != expected {
		return nil, singleIssue(path, CodeDataLengthMismatch,
			fmt.Sprintf("expected %d cells, decoded %d", expected, len(gids)))
	}
	return gids, nil
}

func (w *jsonObject) build(path string) (Object, error) {
	obj := Object{
		ID:       w.ID,
		Name:     w.Name,
		Type:     w.Type,
		X:        w.X,
		Y:        w.Y,
		Rotation: w.Rotation,
		Visible:  true,
	}
	if w.Visible != nil {
		obj.Visible = *w.Visible
	}
	props, err := buildJSONProperties(w.Properties, path+"/properties")
	if err != nil {
		return Object{}, err
	}
	obj.Properties = props

	switch {
	case w.GID != nil:
		obj.Shape = TileStamp{GID: GlobalID(*w.GID), Width: w.Width, Height: w.Height}
	case w.Ellipse:
		obj.Shape = Ellipse{Width: w.Width, Height: w.Height}
	case w.Polygon != nil:
		pts, err := buildJSONPoints(w.Polygon, path+"/polygon")
		if err != nil {
			return Object{}, err
		}
		obj.Shape = Polygon{Points: pts}
	case w.Polyline != nil:
		pts, err := buildJSONPoints(w.Polyline, path+"/polyline")
		if err != nil {
			return Object{}, err
		}
		obj.Shape = Polyline{Points: pts}
	default:
		obj.Shape = Rectangle{Width: w.Width, Height: w.Height}
	}
	return obj, nil
}

func buildJSONPoints(wire []jsonPoint, path string) ([]Point, error) {
	if len(wire) == 0 {
		return nil, singleIssue(path, CodeInvalidPointList, "point list is empty")
	}
	pts := make([]Point, len(wire))
	for i, p := range wire {
		pts[i] = Point{X: p.X, Y: p.Y}
	}
	return pts, nil
}

// buildJSONProperties converts the property array into the last-wins map.
// Values arrive as native JSON values already matching the declared type.
func buildJSONProperties(wire []jsonProperty, path string) (Properties, error) {
	if len(wire) == 0 {
		return nil, nil
	}
	props := make(Properties)
	for _, p := range wire {
		v, err := buildJSONPropertyValue(path, p)
		if err != nil {
			return nil, err
		}
		props[p.Name] = v
	}
	return props, nil
}

func buildJSONPropertyValue(path string, p jsonProperty) (PropertyValue, error) {
	switch p.Type {
	case "int":
		var v int64
		if err := json.Unmarshal(p.Value, &v); err != nil {
			return nil, propertyIssue(path, p.Name, p.Type, string(p.Value))
		}
		return IntValue(v), nil
	case "float":
		var v float64
		if err := json.Unmarshal(p.Value, &v); err != nil {
			return nil, propertyIssue(path, p.Name, p.Type, string(p.Value))
		}
		return FloatValue(v), nil
	case "bool":
		var v bool
		if err := json.Unmarshal(p.Value, &v); err != nil {
			return nil, propertyIssue(path, p.Name, p.Type, string(p.Value))
		}
		return BoolValue(v), nil
	case "color":
		var raw string
		if err := json.Unmarshal(p.Value, &raw); err != nil {
			return nil, propertyIssue(path, p.Name, p.Type, string(p.Value))
		}
		c, err := ParseColor(raw)
		if err != nil {
			return nil, propertyIssue(path, p.Name, p.Type, raw)
		}
		return ColorValue(c), nil
	case "file":
		var v string
		if err := json.Unmarshal(p.Value, &v); err != nil {
			return nil, propertyIssue(path, p.Name, p.Type, string(p.Value))
		}
		return FileValue(v), nil
	default:
		// Strings and unrecognized kinds both decode as strings.
		var v string
		if err := json.Unmarshal(p.Value, &v); err != nil {
			return StringValue(string(p.Value)), nil
		}
		return StringValue(v), nil
	}
}

// jsonVersion accepts the version field as either a number or a string.
func jsonVersion(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	return string(trimmed)
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
