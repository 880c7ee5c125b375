package tmx

import (
	"github.com/reoring/tmx/internal/xmltree"
)

// Layer is one drawable plane of a map. The concrete kinds are *TileLayer,
// *ObjectGroup and *ImageLayer; consumers switch exhaustively.
type Layer interface {
	layer()
}

// LayerInfo carries the fields shared by every layer kind.
type LayerInfo struct {
	Name       string
	OffsetX    float64
	OffsetY    float64
	Opacity    float64 // in [0, 1]; absent decodes as 1
	Visible    bool    // absent decodes as true
	Properties Properties
}

// TileLayer is a grid of tile references, one gid per cell, row-major.
type TileLayer struct {
	LayerInfo
	Width, Height int
	GIDs          []GlobalID // 0 = empty cell
}

// ObjectGroup is a free-form collection of placed objects. It appears both
// as a map layer and nested in a tile definition as its collision shapes.
type ObjectGroup struct {
	LayerInfo
	Color     *Color // outline tint, optional
	DrawOrder DrawOrder
	Objects   []Object
}

// ImageLayer is a layer consisting of a single image.
type ImageLayer struct {
	LayerInfo
	// X and Y position the image; only meaningful for non-orthogonal
	// orientations.
	X, Y  int
	Image *Image
}

func (*TileLayer) layer()   {}
func (*ObjectGroup) layer() {}
func (*ImageLayer) layer()  {}

// DrawOrder controls the order objects of a group are drawn in.
type DrawOrder string

const (
	TopDown    DrawOrder = "topdown"
	IndexOrder DrawOrder = "index"
)

// decodeLayerInfo reads the attributes shared by every layer kind.
func decodeLayerInfo(a *attrs) LayerInfo {
	return LayerInfo{
		Name:    a.String("name", ""),
		OffsetX: a.Float("offsetx", 0),
		OffsetY: a.Float("offsety", 0),
		Opacity: a.Opacity(),
		Visible: a.Bool01("visible", true),
	}
}

func decodeTileLayer(el *xmltree.Element, path string, mapW, mapH int) (*TileLayer, error) {
	a := newAttrs(el, path)
	l := &TileLayer{
		LayerInfo: decodeLayerInfo(a),
		Width:     a.Int("width", mapW),
		Height:    a.Int("height", mapH),
	}
	if err := a.Err(); err != nil {
		return nil, err
	}
	props, err := decodeProperties(el.Find("properties"), path+"/properties")
	if err != nil {
		return nil, err
	}
	l.Properties = props
	if data := el.Find("data"); data != nil {
		gids, err := decodeGIDs(data, path+"/data", l.Width*l.Height)
		if err != nil {
			return nil, err
		}
		l.GIDs = gids
	} else {
		// No payload means an empty grid, not a malformed layer.
		l.GIDs = make([]GlobalID, l.Width*l.Height)
	}
	return l, nil
}

func decodeObjectGroup(el *xmltree.Element, path string) (*ObjectGroup, error) {
	a := newAttrs(el, path)
	g := &ObjectGroup{
		LayerInfo: decodeLayerInfo(a),
		DrawOrder: DrawOrder(a.Enum("draworder", string(TopDown),
			string(TopDown), string(IndexOrder))),
	}
	if c, ok := a.Color("color"); ok {
		g.Color = &c
	}
	if err := a.Err(); err != nil {
		return nil, err
	}
	props, err := decodeProperties(el.Find("properties"), path+"/properties")
	if err != nil {
		return nil, err
	}
	g.Properties = props
	for i, child := range el.All("object") {
		obj, err := decodeObject(child, objectPath(path, i))
		if err != nil {
			return nil, err
		}
		g.Objects = append(g.Objects, obj)
	}
	return g, nil
}

func decodeImageLayer(el *xmltree.Element, path string) (*ImageLayer, error) {
	a := newAttrs(el, path)
	l := &ImageLayer{
		LayerInfo: decodeLayerInfo(a),
		X:         a.Int("x", 0),
		Y:         a.Int("y", 0),
	}
	if err := a.Err(); err != nil {
		return nil, err
	}
	props, err := decodeProperties(el.Find("properties"), path+"/properties")
	if err != nil {
		return nil, err
	}
	l.Properties = props
	if img := el.Find("image"); img != nil {
		image, err := decodeImage(img, path+"/image")
		if err != nil {
			return nil, err
		}
		l.Image = image
	}
	return l, nil
}
