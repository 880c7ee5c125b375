package tmx

import (
	"fmt"

	"github.com/reoring/tmx/internal/xmltree"
)

// Orientation is the map grid orientation.
type Orientation string

const (
	Orthogonal Orientation = "orthogonal"
	Isometric  Orientation = "isometric"
	Staggered  Orientation = "staggered"
	Hexagonal  Orientation = "hexagonal"
)

// RenderOrder is the order in which tiles of a tile layer are drawn.
type RenderOrder string

const (
	RightDown RenderOrder = "right-down"
	RightUp   RenderOrder = "right-up"
	LeftDown  RenderOrder = "left-down"
	LeftUp    RenderOrder = "left-up"
)

// StaggerAxis names the staggered axis of staggered and hexagonal maps.
type StaggerAxis string

const (
	StaggerX StaggerAxis = "x"
	StaggerY StaggerAxis = "y"
)

// StaggerIndex names which rows or columns are shifted on staggered maps.
type StaggerIndex string

const (
	StaggerEven StaggerIndex = "even"
	StaggerOdd  StaggerIndex = "odd"
)

// Map is a fully decoded map document. It is immutable after decoding and
// safe for concurrent readers.
type Map struct {
	Version     string
	Orientation Orientation
	RenderOrder RenderOrder

	// Grid dimensions in tiles and tile dimensions in pixels.
	Width, Height         int
	TileWidth, TileHeight int

	// Hexagonal/staggered parameters; zero values when the orientation
	// does not use them.
	HexSideLength int
	StaggerAxis   StaggerAxis
	StaggerIndex  StaggerIndex

	BackgroundColor *Color
	NextObjectID    uint32

	Tilesets   []*Tileset
	Layers     []Layer // document order, bottom layer first
	Properties Properties

	index *gidIndex
}

// Resolve maps a gid to its owning tileset and local tile id, splitting off
// the flip flags. Gid 0 resolves to TileRef{Nil: true}.
func (m *Map) Resolve(gid GlobalID) (TileRef, error) {
	return m.index.resolve(gid)
}

func decodeMap(root *xmltree.Element, opt DecodeOpt) (*Map, error) {
	const path = "/map"
	a := newAttrs(root, path)
	m := &Map{
		Version:     a.String("version", ""),
		Orientation: Orientation(a.Enum("orientation", string(Orthogonal),
			string(Orthogonal), string(Isometric), string(Staggered), string(Hexagonal))),
		RenderOrder: RenderOrder(a.Enum("renderorder", string(RightDown),
			string(RightDown), string(RightUp), string(LeftDown), string(LeftUp))),
		Width:      a.RequireInt("width"),
		Height:     a.RequireInt("height"),
		TileWidth:  a.RequireInt("tilewidth"),
		TileHeight: a.RequireInt("tileheight"),
	}
	m.NextObjectID = a.Uint("nextobjectid", 0)
	if c, ok := a.Color("backgroundcolor"); ok {
		m.BackgroundColor = &c
	}
	// Stagger parameters only apply to staggered and hexagonal grids; on
	// other orientations they are ignored, not rejected.
	if m.Orientation == Staggered || m.Orientation == Hexagonal {
		m.HexSideLength = a.Int("hexsidelength", 0)
		m.StaggerAxis = StaggerAxis(a.Enum("staggeraxis", "", string(StaggerX), string(StaggerY)))
		m.StaggerIndex = StaggerIndex(a.Enum("staggerindex", "", string(StaggerEven), string(StaggerOdd)))
	}
	if err := a.Err(); err != nil {
		return nil, err
	}
	if m.Width <= 0 || m.Height <= 0 {
		return nil, singleIssue(path, CodeInvalidAttribute,
			fmt.Sprintf("map dimensions must be positive, got %dx%d", m.Width, m.Height))
	}

	counts := map[string]int{}
	childPath := func(name string) string {
		p := fmt.Sprintf("%s/%s[%d]", path, name, counts[name])
		counts[name]++
		return p
	}
	for _, child := range root.Children {
		switch child.Name {
		case "properties":
			props, err := decodeProperties(child, path+"/properties")
			if err != nil {
				return nil, err
			}
			m.Properties = props
		case "tileset":
			ts, err := decodeTilesetRef(child, childPath("tileset"), opt)
			if err != nil {
				return nil, err
			}
			m.Tilesets = append(m.Tilesets, ts)
		case "layer":
			l, err := decodeTileLayer(child, childPath("layer"), m.Width, m.Height)
			if err != nil {
				return nil, err
			}
			m.Layers = append(m.Layers, l)
		case "objectgroup":
			g, err := decodeObjectGroup(child, childPath("objectgroup"))
			if err != nil {
				return nil, err
			}
			m.Layers = append(m.Layers, g)
		case "imagelayer":
			l, err := decodeImageLayer(child, childPath("imagelayer"))
			if err != nil {
				return nil, err
			}
			m.Layers = append(m.Layers, l)
		}
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

// checkGIDs verifies every nonzero gid in the document resolves against the
// final tileset list, so consumers never hit an unresolvable reference.
func (m *Map) checkGIDs() error {
	for _, layer := range m.Layers {
		switch l := layer.(type) {
		case *TileLayer:
			for _, gid := range l.GIDs {
				if _, err := m.Resolve(gid); err != nil {
					return err
				}
			}
		case *ObjectGroup:
			for _, obj := range l.Objects {
				if stamp, ok := obj.Shape.(TileStamp); ok {
					if _, err := m.Resolve(stamp.GID); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}
