package quad

import "github.com/zyedidia/generic/mapset"

// Extractor finds filled rectangles inside connected regions.
type Extractor struct {
	minArea   int
	minSide   int
	detection Detection
}

// NewExtractor creates an extractor using the size limits and detection mode of cfg.
func NewExtractor(cfg Config) *Extractor {
	return &Extractor{
		minArea:   cfg.MinimumRectangleArea,
		minSide:   cfg.MinSide(),
		detection: cfg.Detection,
	}
}

// extent is a candidate rectangle size.
type extent struct {
	w, h int
}

// extents lists the candidate sizes that fit in a bw×bh box, tallest first,
// then widest first. Sizes below the minimum area are skipped.
func (e *Extractor) extents(bw, bh int) []extent {
	var out []extent
	for h := bh; h >= e.minSide; h-- {
		for w := bw; w >= e.minSide; w-- {
			if w*h >= e.minArea {
				out = append(out, extent{w: w, h: h})
			}
		}
	}
	return out
}

// Extract greedily claims valid rectangles inside region. Candidates are tried
// tallest first, then widest first and, for one size, bottom row first then
// left column first.
// Every accepted rectangle is added to used, so results are pairwise disjoint
// and never reuse cells already in used. Returned quads have age 0.
//
// In entity-aware mode a rectangle is rejected unless every piece owning one
// of its cells has all of its cells on the grid inside the rectangle.
func (e *Extractor) Extract(g Grid, region Region, used mapset.Set[Coord]) []*Quad {
	if len(region) < e.minArea {
		return nil
	}

	members := mapset.New[Coord]()
	for _, c := range region {
		members.Put(c)
	}

	var pieces map[int]int
	if e.detection == DetectEntities {
		pieces = pieceSizes(g)
	}

	b := region.Bounds()
	var quads []*Quad
	for _, ext := range e.extents(b.Width(), b.Height()) {
		for sy := b.MinY; sy+ext.h-1 <= b.MaxY; sy++ {
			for sx := b.MinX; sx+ext.w-1 <= b.MaxX; sx++ {
				r := RectAt(sx, sy, ext.w, ext.h)
				if !e.valid(g, r, members, used, pieces) {
					continue
				}
				for _, c := range r.Cells() {
					used.Put(c)
				}
				quads = append(quads, newRectQuad(r))
			}
		}
	}

	return quads
}

// valid checks that every cell of r is a free region member and, when pieces
// is set, that no piece is split by r.
func (e *Extractor) valid(g Grid, r Rect, members, used mapset.Set[Coord], pieces map[int]int) bool {
	inside := make(map[int]int)
	for y := r.MinY; y <= r.MaxY; y++ {
		for x := r.MinX; x <= r.MaxX; x++ {
			c := Coord{X: x, Y: y}
			if !members.Has(c) || used.Has(c) {
				return false
			}
			if pieces != nil {
				inside[g.OwnerID(x, y)]++
			}
		}
	}

	for owner, n := range inside {
		if owner == NoOwner || pieces[owner] != n {
			return false
		}
	}
	return true
}

// pieceSizes counts the occupied cells of every owner on the grid.
func pieceSizes(g Grid) map[int]int {
	sizes := make(map[int]int)
	for x := range g.Width() {
		for y := range g.Height() {
			if g.IsOccupied(x, y) {
				sizes[g.OwnerID(x, y)]++
			}
		}
	}
	return sizes
}
