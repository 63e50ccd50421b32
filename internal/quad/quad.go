// Package quad implements quad detection, tracking, merging and decay for the
// block puzzle: occupied cells that form filled rectangles are tracked as quads,
// age one step per turn and are cleared for score once they reach the pulse
// interval.
package quad

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"
)

// Coord is a cell position on the board. Origin is bottom-left.
type Coord struct {
	X, Y int
}

// Rect is an inclusive cell rectangle [MinX..MaxX]×[MinY..MaxY].
type Rect struct {
	MinX, MinY, MaxX, MaxY int
}

// RectAt returns the w×h rectangle whose bottom-left cell is (x, y).
func RectAt(x, y, w, h int) Rect {
	return Rect{MinX: x, MinY: y, MaxX: x + w - 1, MaxY: y + h - 1}
}

// Width returns the number of columns covered.
func (r Rect) Width() int { return r.MaxX - r.MinX + 1 }

// Height returns the number of rows covered.
func (r Rect) Height() int { return r.MaxY - r.MinY + 1 }

// Area returns Width*Height.
func (r Rect) Area() int { return r.Width() * r.Height() }

// Contains reports whether c lies inside r.
func (r Rect) Contains(c Coord) bool {
	return c.X >= r.MinX && c.X <= r.MaxX && c.Y >= r.MinY && c.Y <= r.MaxY
}

// Intersects reports whether r and o share at least one cell.
func (r Rect) Intersects(o Rect) bool {
	return r.MinX <= o.MaxX && o.MinX <= r.MaxX && r.MinY <= o.MaxY && o.MinY <= r.MaxY
}

// Touches reports whether r and o are edge-adjacent with aligned extent:
// they sit side by side sharing a full side, so together they span a rectangle.
func (r Rect) Touches(o Rect) bool {
	sameRows := r.MinY == o.MinY && r.MaxY == o.MaxY
	sameCols := r.MinX == o.MinX && r.MaxX == o.MaxX
	switch {
	case sameRows && (r.MaxX+1 == o.MinX || o.MaxX+1 == r.MinX):
		return true
	case sameCols && (r.MaxY+1 == o.MinY || o.MaxY+1 == r.MinY):
		return true
	}
	return false
}

// Union returns the smallest rectangle covering both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		MinX: min(r.MinX, o.MinX),
		MinY: min(r.MinY, o.MinY),
		MaxX: max(r.MaxX, o.MaxX),
		MaxY: max(r.MaxY, o.MaxY),
	}
}

// Center returns the cell nearest to the middle of r.
func (r Rect) Center() Coord {
	return Coord{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2}
}

// Cells lists every cell of r, row by row from the bottom.
func (r Rect) Cells() []Coord {
	cells := make([]Coord, 0, r.Area())
	for y := r.MinY; y <= r.MaxY; y++ {
		for x := r.MinX; x <= r.MaxX; x++ {
			cells = append(cells, Coord{X: x, Y: y})
		}
	}
	return cells
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d@(%d,%d)", r.Width(), r.Height(), r.MinX, r.MinY)
}

// boundsOf computes the bounding rectangle of a non-empty cell list.
func boundsOf(cells []Coord) Rect {
	b := Rect{MinX: cells[0].X, MinY: cells[0].Y, MaxX: cells[0].X, MaxY: cells[0].Y}
	for _, c := range cells[1:] {
		b.MinX = min(b.MinX, c.X)
		b.MinY = min(b.MinY, c.Y)
		b.MaxX = max(b.MaxX, c.X)
		b.MaxY = max(b.MaxY, c.Y)
	}
	return b
}

// Quad is a filled rectangle of occupied cells claimed by the tracker.
// Geometry never changes after creation; only the tracker advances Age.
type Quad struct {
	bounds    Rect
	cells     mapset.Set[Coord]
	age       int
	createdAt int
}

// NewQuad builds a quad from its cells. The cells must be unique and fill
// their bounding rectangle exactly.
func NewQuad(cells []Coord) (*Quad, error) {
	if len(cells) == 0 {
		return nil, fmt.Errorf("new quad: no cells: %w", ErrNotRectangle)
	}

	b := boundsOf(cells)
	set := mapset.New[Coord]()
	for _, c := range cells {
		set.Put(c)
	}
	if set.Size() != len(cells) || set.Size() != b.Area() {
		return nil, fmt.Errorf("new quad %s: %d unique of %d cells: %w",
			b, set.Size(), len(cells), ErrNotRectangle)
	}

	return &Quad{bounds: b, cells: set}, nil
}

// newRectQuad builds a quad covering r. r is filled by construction.
func newRectQuad(r Rect) *Quad {
	set := mapset.New[Coord]()
	for _, c := range r.Cells() {
		set.Put(c)
	}
	return &Quad{bounds: r, cells: set}
}

// Bounds returns the quad rectangle.
func (q *Quad) Bounds() Rect { return q.bounds }

// Width returns the number of columns.
func (q *Quad) Width() int { return q.bounds.Width() }

// Height returns the number of rows.
func (q *Quad) Height() int { return q.bounds.Height() }

// Size returns the number of cells (Width*Height).
func (q *Quad) Size() int { return q.cells.Size() }

// Age returns the number of turns survived since creation or last merge.
func (q *Quad) Age() int { return q.age }

// CreatedAtTurn returns the turn counter value when the quad was created or merged.
func (q *Quad) CreatedAtTurn() int { return q.createdAt }

// Cells lists the claimed cells, row by row from the bottom.
func (q *Quad) Cells() []Coord { return q.bounds.Cells() }

// Contains reports whether the quad claims c.
func (q *Quad) Contains(c Coord) bool { return q.cells.Has(c) }

// Overlaps reports whether q and o claim at least one common cell.
func (q *Quad) Overlaps(o *Quad) bool {
	if !q.bounds.Intersects(o.bounds) {
		return false
	}
	shared := false
	o.cells.Each(func(c Coord) {
		if !shared && q.cells.Has(c) {
			shared = true
		}
	})
	return shared
}

// AdjacentTo reports whether q and o sit side by side with aligned extent.
func (q *Quad) AdjacentTo(o *Quad) bool { return q.bounds.Touches(o.bounds) }

// SubsetOf reports whether every cell of q is claimed by o.
func (q *Quad) SubsetOf(o *Quad) bool {
	if q.Size() > o.Size() {
		return false
	}
	inside := true
	q.cells.Each(func(c Coord) {
		if inside && !o.cells.Has(c) {
			inside = false
		}
	})
	return inside
}

// MergeWith returns the quad covering q and o when their union is exactly
// the rectangle spanned by both. The result carries the greater age; ok is
// false when the union would leave holes.
func (q *Quad) MergeWith(o *Quad, turn int) (*Quad, bool) {
	span := q.bounds.Union(o.bounds)

	union := mapset.New[Coord]()
	q.cells.Each(union.Put)
	o.cells.Each(union.Put)
	if union.Size() != span.Area() {
		return nil, false
	}

	return &Quad{
		bounds:    span,
		cells:     union,
		age:       max(q.age, o.age),
		createdAt: turn,
	}, true
}

func (q *Quad) String() string {
	return fmt.Sprintf("quad %s age=%d", q.bounds, q.age)
}
