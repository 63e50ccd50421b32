package testutil

import (
	"strings"
	"testing"
)

// Empty is the layout rune for an unoccupied cell.
const Empty = '.'

// Layout is a board described as text for tests. Rows are given top row
// first, so the last row is y=0. Every non-'.' rune is a piece label; cells
// with the same label belong to the same piece.
type Layout struct {
	Width, Height int

	owners []int
	ids    map[rune]int
	order  []rune
}

// ParseLayout parses rows into a Layout. Piece ids are assigned from 1 in
// order of first appearance, reading from the bottom row up, left to right.
// All rows must have the same width.
func ParseLayout(t testing.TB, rows ...string) *Layout {
	t.Helper()

	if len(rows) == 0 {
		t.Fatalf("layout has no rows")
	}

	width := len([]rune(strings.TrimSpace(rows[0])))
	l := &Layout{
		Width:  width,
		Height: len(rows),
		owners: make([]int, width*len(rows)),
		ids:    make(map[rune]int),
	}

	for i := len(rows) - 1; i >= 0; i-- {
		y := len(rows) - 1 - i
		row := []rune(strings.TrimSpace(rows[i]))
		if len(row) != width {
			t.Fatalf("layout row %d has width %d, want %d", i, len(row), width)
		}
		for x, r := range row {
			l.owners[y*width+x] = l.id(r)
		}
	}

	return l
}

func (l *Layout) id(r rune) int {
	if r == Empty {
		return -1
	}
	if id, ok := l.ids[r]; ok {
		return id
	}
	id := len(l.ids) + 1
	l.ids[r] = id
	l.order = append(l.order, r)
	return id
}

// Owner returns the piece id at (x, y), or -1 for empty cells.
func (l *Layout) Owner(x, y int) int {
	return l.owners[y*l.Width+x]
}

// ID returns the piece id assigned to label, or -1 when the label is absent.
func (l *Layout) ID(label rune) int {
	if id, ok := l.ids[label]; ok {
		return id
	}
	return -1
}

// Labels returns the piece labels in id order.
func (l *Layout) Labels() []rune {
	return append([]rune(nil), l.order...)
}

// Cells returns the (x, y) cells of the piece with the given label, bottom
// row first.
func (l *Layout) Cells(label rune) [][2]int {
	id := l.ID(label)
	var cells [][2]int
	for y := range l.Height {
		for x := range l.Width {
			if id != -1 && l.Owner(x, y) == id {
				cells = append(cells, [2]int{x, y})
			}
		}
	}
	return cells
}
