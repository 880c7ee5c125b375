package tmx

import (
	"fmt"
	"sort"
)

// Flip-flag bitmasks packed into the top bits of a GlobalID.
const (
	FlippedHorizontally GlobalID = 0x80000000
	FlippedVertically   GlobalID = 0x40000000
	FlippedDiagonally   GlobalID = 0x20000000

	flipMask = FlippedHorizontally | FlippedVertically | FlippedDiagonally
)

// GlobalID is a per-map global tile identifier. Zero means "no tile";
// nonzero values are offset by a tileset's FirstGID and may carry flip
// flags in the top 3 bits.
type GlobalID uint32

// BareID returns the identifier with the flip flags stripped.
func (g GlobalID) BareID() uint32 { return uint32(g &^ flipMask) }

// Flips returns the draw-time transform flags packed into the id.
func (g GlobalID) Flips() Flips {
	return Flips{
		Horizontal: g&FlippedHorizontally != 0,
		Vertical:   g&FlippedVertically != 0,
		Diagonal:   g&FlippedDiagonally != 0,
	}
}

// Flips is the per-tile transform flag set.
type Flips struct {
	Horizontal bool
	Vertical   bool
	Diagonal   bool
}

// TileRef is a resolved GlobalID: the owning tileset, the tileset-local
// tile id, and the flip flags. Nil is set for gid 0.
type TileRef struct {
	Nil     bool
	Tileset *Tileset
	LocalID uint32
	Flips   Flips
}

// Definition returns the explicit tile definition for the reference, or nil
// when the tile has none (implicit tiles carry only defaults).
func (r TileRef) Definition() *TileDefinition {
	if r.Nil || r.Tileset == nil {
		return nil
	}
	return r.Tileset.Tiles[r.LocalID]
}

// gidIndex resolves gids against an ordered tileset list. Tilesets are
// kept sorted by firstgid so lookup is a binary search.
type gidIndex struct {
	tilesets []*Tileset
}

func newGIDIndex(tilesets []*Tileset) (*gidIndex, error) {
	sorted := make([]*Tileset, len(tilesets))
	copy(sorted, tilesets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].FirstGID < sorted[j].FirstGID
	})
	for i := 1; i < len(sorted); i++ {
		prev := sorted[i-1]
		if prev.TileCount > 0 && uint32(sorted[i].FirstGID) < uint32(prev.FirstGID)+prev.TileCount {
			return nil, singleIssue("/map", CodeUnresolvedGID,
				fmt.Sprintf("tileset %q overlaps the gid range of %q", sorted[i].Name, prev.Name))
		}
	}
	return &gidIndex{tilesets: sorted}, nil
}

func (ix *gidIndex) resolve(gid GlobalID) (TileRef, error) {
	bare := gid.BareID()
	if bare == 0 {
		return TileRef{Nil: true}, nil
	}
	// Greatest firstgid <= bare.
	i := sort.Search(len(ix.tilesets), func(i int) bool {
		return uint32(ix.tilesets[i].FirstGID) > bare
	})
	if i == 0 {
		return TileRef{}, unresolvedGID(gid)
	}
	ts := ix.tilesets[i-1]
	local := bare - uint32(ts.FirstGID)
	if ts.TileCount > 0 && local >= ts.TileCount {
		return TileRef{}, unresolvedGID(gid)
	}
	return TileRef{Tileset: ts, LocalID: local, Flips: gid.Flips()}, nil
}

func unresolvedGID(gid GlobalID) Issues {
	return singleIssue("/map", CodeUnresolvedGID,
		fmt.Sprintf("gid %d does not fall in any tileset range", gid.BareID()))
}
