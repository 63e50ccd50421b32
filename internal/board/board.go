// Package board is the in-memory grid the quad tracker reads: a fixed
// width×height array of cells, each empty or owned by one placed piece.
package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zyedidia/generic/mapset"

	"github.com/udisondev/quadpulse/internal/quad"
)

var (
	ErrCellOccupied = errors.New("cell occupied")
	ErrInvalidSize  = errors.New("invalid board size")
	ErrInvalidPiece = errors.New("invalid piece")
)

// Board stores one owner id per cell, quad.NoOwner for empty cells.
// Coordinates start at the bottom-left corner.
//
// Not safe for concurrent use.
type Board struct {
	width, height int
	owners        []int
	occupied      int
}

// New creates an empty board.
func New(width, height int) (*Board, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%dx%d: %w", width, height, ErrInvalidSize)
	}

	b := &Board{
		width:  width,
		height: height,
		owners: make([]int, width*height),
	}
	b.Clear()
	return b, nil
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Height() int { return b.height }

// IsValid reports whether (x, y) lies on the board.
func (b *Board) IsValid(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// IsOccupied reports whether (x, y) holds a piece cell. Off-board cells are
// never occupied.
func (b *Board) IsOccupied(x, y int) bool {
	return b.OwnerID(x, y) != quad.NoOwner
}

// OwnerID returns the piece id at (x, y) or quad.NoOwner.
func (b *Board) OwnerID(x, y int) int {
	if !b.IsValid(x, y) {
		return quad.NoOwner
	}
	return b.owners[b.index(x, y)]
}

// OccupiedCount returns the number of occupied cells.
func (b *Board) OccupiedCount() int { return b.occupied }

// Place occupies cells with piece id. Either every cell is placed or, on
// error, the board is left unchanged.
func (b *Board) Place(id int, cells []quad.Coord) error {
	if id < 0 {
		return fmt.Errorf("place piece %d: %w", id, ErrInvalidPiece)
	}
	if len(cells) == 0 {
		return fmt.Errorf("place piece %d: no cells: %w", id, ErrInvalidPiece)
	}
	if err := b.check(cells); err != nil {
		return fmt.Errorf("place piece %d: %w", id, err)
	}

	for _, c := range cells {
		b.owners[b.index(c.X, c.Y)] = id
	}
	b.occupied += len(cells)
	return nil
}

// Fits reports whether cells could be placed.
func (b *Board) Fits(cells []quad.Coord) bool {
	return len(cells) > 0 && b.check(cells) == nil
}

// CanPlaceAnywhere reports whether at least one of shapes fits at some origin.
func (b *Board) CanPlaceAnywhere(shapes []Shape) bool {
	for _, s := range shapes {
		for y := range b.height {
			for x := range b.width {
				if b.Fits(s.At(x, y)) {
					return true
				}
			}
		}
	}
	return false
}

// FreeCells empties cells. It implements quad.ClearSink. All cells are
// validated before any is freed; freeing an empty cell is a no-op.
func (b *Board) FreeCells(cells []quad.Coord) error {
	for _, c := range cells {
		if !b.IsValid(c.X, c.Y) {
			return fmt.Errorf("free cell %v: %w", c, quad.ErrInvalidCoordinate)
		}
	}

	for _, c := range cells {
		i := b.index(c.X, c.Y)
		if b.owners[i] != quad.NoOwner {
			b.owners[i] = quad.NoOwner
			b.occupied--
		}
	}
	return nil
}

// Clear empties the whole board.
func (b *Board) Clear() {
	for i := range b.owners {
		b.owners[i] = quad.NoOwner
	}
	b.occupied = 0
}

// Rows returns owner ids row by row, bottom row first.
func (b *Board) Rows() [][]int {
	rows := make([][]int, b.height)
	for y := range b.height {
		rows[y] = append([]int(nil), b.owners[y*b.width:(y+1)*b.width]...)
	}
	return rows
}

// String renders the board top row first, '#' for occupied and '.' for empty cells.
func (b *Board) String() string {
	var sb strings.Builder
	for y := b.height - 1; y >= 0; y-- {
		for x := range b.width {
			if b.IsOccupied(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		if y > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (b *Board) check(cells []quad.Coord) error {
	seen := mapset.New[quad.Coord]()
	for _, c := range cells {
		if !b.IsValid(c.X, c.Y) {
			return fmt.Errorf("cell %v: %w", c, quad.ErrInvalidCoordinate)
		}
		if seen.Has(c) || b.owners[b.index(c.X, c.Y)] != quad.NoOwner {
			return fmt.Errorf("cell %v: %w", c, ErrCellOccupied)
		}
		seen.Put(c)
	}
	return nil
}

func (b *Board) index(x, y int) int { return y*b.width + x }
