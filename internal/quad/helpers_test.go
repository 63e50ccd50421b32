package quad

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/quadpulse/internal/testutil"
)

// fakeGrid is an in-memory Grid and ClearSink for tracker tests.
type fakeGrid struct {
	w, h   int
	owners []int
	nextID int
	freed  [][]Coord
}

func newFakeGrid(w, h int) *fakeGrid {
	g := &fakeGrid{w: w, h: h, owners: make([]int, w*h), nextID: 1}
	for i := range g.owners {
		g.owners[i] = NoOwner
	}
	return g
}

func gridFromLayout(t *testing.T, rows ...string) *fakeGrid {
	t.Helper()
	l := testutil.ParseLayout(t, rows...)
	g := newFakeGrid(l.Width, l.Height)
	for y := range l.Height {
		for x := range l.Width {
			g.owners[y*g.w+x] = l.Owner(x, y)
			g.nextID = max(g.nextID, l.Owner(x, y)+1)
		}
	}
	return g
}

func (g *fakeGrid) Width() int  { return g.w }
func (g *fakeGrid) Height() int { return g.h }

func (g *fakeGrid) IsValid(x, y int) bool {
	return x >= 0 && x < g.w && y >= 0 && y < g.h
}

func (g *fakeGrid) IsOccupied(x, y int) bool { return g.owners[y*g.w+x] != NoOwner }

func (g *fakeGrid) OwnerID(x, y int) int { return g.owners[y*g.w+x] }

func (g *fakeGrid) FreeCells(cells []Coord) error {
	for _, c := range cells {
		if !g.IsValid(c.X, c.Y) {
			return fmt.Errorf("free %v: %w", c, ErrInvalidCoordinate)
		}
	}
	for _, c := range cells {
		g.owners[c.Y*g.w+c.X] = NoOwner
	}
	g.freed = append(g.freed, cells)
	return nil
}

// placeRect occupies r with a new piece and returns its id.
func (g *fakeGrid) placeRect(t *testing.T, r Rect) int {
	t.Helper()
	return g.placeCells(t, r.Cells()...)
}

// placeCells occupies cells with a new piece and returns its id.
func (g *fakeGrid) placeCells(t *testing.T, cells ...Coord) int {
	t.Helper()
	id := g.nextID
	g.nextID++
	for _, c := range cells {
		require.True(t, g.IsValid(c.X, c.Y), "cell %v outside grid", c)
		require.False(t, g.IsOccupied(c.X, c.Y), "cell %v already occupied", c)
		g.owners[c.Y*g.w+c.X] = id
	}
	return id
}

func (g *fakeGrid) occupied() int {
	n := 0
	for _, o := range g.owners {
		if o != NoOwner {
			n++
		}
	}
	return n
}

// presets are the three detection variants every tracker property must hold for.
var presets = map[string]Config{
	"cells2x2": {
		PulseInterval:        4,
		MinimumRectangleArea: 4,
		Detection:            DetectCells,
		Scoring:              PolicyTiered,
		Bonus:                DefaultBonusRule(),
	},
	"cells3x3": {
		PulseInterval:        4,
		MinimumRectangleArea: 9,
		Detection:            DetectCells,
		Scoring:              PolicyTiered,
		Bonus:                DefaultBonusRule(),
	},
	"entities3x3": DefaultConfig(),
}

func newTestTracker(t *testing.T, cfg Config, g *fakeGrid) *Tracker {
	t.Helper()
	tr, err := NewTracker(cfg, g, g)
	require.NoError(t, err)
	return tr
}

func advance(t *testing.T, tr *Tracker) TurnResult {
	t.Helper()
	res, err := tr.AdvanceTurn()
	require.NoError(t, err)
	require.False(t, res.Skipped)
	require.NoError(t, tr.CheckInvariants())
	return res
}
