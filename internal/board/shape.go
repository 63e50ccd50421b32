package board

import (
	"slices"

	"github.com/udisondev/quadpulse/internal/quad"
)

// Shape is a piece template: cell offsets relative to the placement origin.
// Pieces are placed as-is, there is no rotation.
type Shape struct {
	Name    string
	Offsets []quad.Coord
}

// At returns the cells the shape covers when its origin is at (x, y).
func (s Shape) At(x, y int) []quad.Coord {
	cells := make([]quad.Coord, len(s.Offsets))
	for i, o := range s.Offsets {
		cells[i] = quad.Coord{X: x + o.X, Y: y + o.Y}
	}
	return cells
}

// Size returns the number of cells in the shape.
func (s Shape) Size() int { return len(s.Offsets) }

var catalog = []Shape{
	{Name: "1x1", Offsets: []quad.Coord{{X: 0, Y: 0}}},
	{Name: "I", Offsets: []quad.Coord{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}},
	{Name: "L", Offsets: []quad.Coord{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}},
	{Name: "T", Offsets: []quad.Coord{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 1, Y: 1}}},
	{Name: "O", Offsets: []quad.Coord{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}},
	{Name: "S", Offsets: []quad.Coord{{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}},
	{Name: "Z", Offsets: []quad.Coord{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 1}}},
}

// Shapes returns the piece catalog in a stable order.
func Shapes() []Shape {
	return slices.Clone(catalog)
}

// ShapeByName looks a shape up in the catalog.
func ShapeByName(name string) (Shape, bool) {
	i := slices.IndexFunc(catalog, func(s Shape) bool { return s.Name == name })
	if i < 0 {
		return Shape{}, false
	}
	return catalog[i], true
}
