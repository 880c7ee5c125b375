package tmx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/reoring/tmx/internal/xmltree"
)

// Shape is the geometric variant of an Object. The concrete kinds are
// Rectangle, Ellipse, Polygon, Polyline and TileStamp.
type Shape interface {
	shape()
}

// Rectangle is an axis-aligned box, the default shape of an object.
type Rectangle struct {
	Width, Height float64
}

// Ellipse fits inside the rectangle spanned by Width and Height.
type Ellipse struct {
	Width, Height float64
}

// Polygon is a closed shape; points are relative to the object position.
type Polygon struct {
	Points []Point
}

// Polyline is an open chain of points relative to the object position.
type Polyline struct {
	Points []Point
}

// TileStamp is a tile placed as a free object. Its gid resolves through
// Map.Resolve like any grid cell.
type TileStamp struct {
	GID           GlobalID
	Width, Height float64
}

func (Rectangle) shape() {}
func (Ellipse) shape()   {}
func (Polygon) shape()   {}
func (Polyline) shape()  {}
func (TileStamp) shape() {}

// Point is a coordinate pair in pixel space.
type Point struct {
	X, Y float64
}

// Object is a freeform placed shape or tile stamp within an object group.
type Object struct {
	ID         uint32
	Name       string
	Type       string
	X, Y       float64
	Rotation   float64 // degrees, clockwise
	Visible    bool
	Properties Properties
	Shape      Shape
}

func objectPath(groupPath string, i int) string {
	return fmt.Sprintf("%s/object[%d]", groupPath, i)
}

func decodeObject(el *xmltree.Element, path string) (Object, error) {
	a := newAttrs(el, path)
	obj := Object{
		ID:       a.Uint("id", 0),
		Name:     a.String("name", ""),
		Type:     a.String("type", ""),
		X:        a.Float("x", 0),
		Y:        a.Float("y", 0),
		Rotation: a.Float("rotation", 0),
		Visible:  a.Bool01("visible", true),
	}
	width := a.Float("width", 0)
	height := a.Float("height", 0)
	_, hasGID := el.Lookup("gid")
	gid := a.Uint("gid", 0)
	if err := a.Err(); err != nil {
		return Object{}, err
	}

	props, err := decodeProperties(el.Find("properties"), path+"/properties")
	if err != nil {
		return Object{}, err
	}
	obj.Properties = props

	// A gid marks a tile stamp and wins over any nested shape child: the
	// format treats stamped tiles as distinct from vector shapes.
	switch {
	case hasGID:
		obj.Shape = TileStamp{GID: GlobalID(gid), Width: width, Height: height}
	case el.Find("ellipse") != nil:
		obj.Shape = Ellipse{Width: width, Height: height}
	case el.Find("polygon") != nil:
		pts, err := decodePoints(el.Find("polygon"), path+"/polygon")
		if err != nil {
			return Object{}, err
		}
		obj.Shape = Polygon{Points: pts}
	case el.Find("polyline") != nil:
		pts, err := decodePoints(el.Find("polyline"), path+"/polyline")
		if err != nil {
			return Object{}, err
		}
		obj.Shape = Polyline{Points: pts}
	default:
		obj.Shape = Rectangle{Width: width, Height: height}
	}
	return obj, nil
}

// decodePoints parses the whitespace-separated "x,y" pair list of a polygon
// or polyline. Coordinates stay relative to the owning object.
func decodePoints(el *xmltree.Element, path string) ([]Point, error) {
	raw := el.Attr["points"]
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return nil, singleIssue(path, CodeInvalidPointList, "point list is empty")
	}
	pts := make([]Point, 0, len(fields))
	for _, pair := range fields {
		xy := strings.Split(pair, ",")
		if len(xy) != 2 {
			return nil, pointListIssue(path, raw, pair)
		}
		x, errX := strconv.ParseFloat(xy[0], 64)
		y, errY := strconv.ParseFloat(xy[1], 64)
		if errX != nil || errY != nil {
			return nil, pointListIssue(path, raw, pair)
		}
		pts = append(pts, Point{X: x, Y: y})
	}
	return pts, nil
}

func pointListIssue(path, raw, pair string) Issues {
	return singleIssue(path, CodeInvalidPointList,
		fmt.Sprintf("malformed pair %q in point list %q", pair, raw))
}
