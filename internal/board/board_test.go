package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/quadpulse/internal/quad"
)

func newBoard(t *testing.T, w, h int) *Board {
	t.Helper()
	b, err := New(w, h)
	require.NoError(t, err)
	return b
}

func TestNew(t *testing.T) {
	b := newBoard(t, 12, 9)
	assert.Equal(t, 12, b.Width())
	assert.Equal(t, 9, b.Height())
	assert.Zero(t, b.OccupiedCount())
	assert.Equal(t, quad.NoOwner, b.OwnerID(0, 0))

	for _, size := range [][2]int{{0, 5}, {5, 0}, {-1, 3}} {
		_, err := New(size[0], size[1])
		assert.ErrorIs(t, err, ErrInvalidSize)
	}
}

func TestBoardPlace(t *testing.T) {
	tests := []struct {
		name    string
		cells   []quad.Coord
		wantErr error
	}{
		{"free cells", []quad.Coord{{X: 2, Y: 0}, {X: 3, Y: 0}}, nil},
		{"off board", []quad.Coord{{X: 3, Y: 0}, {X: 4, Y: 0}}, quad.ErrInvalidCoordinate},
		{"negative", []quad.Coord{{X: -1, Y: 0}}, quad.ErrInvalidCoordinate},
		{"occupied", []quad.Coord{{X: 1, Y: 1}, {X: 2, Y: 1}}, ErrCellOccupied},
		{"duplicate cell", []quad.Coord{{X: 3, Y: 3}, {X: 3, Y: 3}}, ErrCellOccupied},
		{"no cells", nil, ErrInvalidPiece},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBoard(t, 4, 4)
			require.NoError(t, b.Place(1, []quad.Coord{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}))

			err := b.Place(2, tt.cells)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, 4, b.OccupiedCount(), "failed placement leaves the board unchanged")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 6, b.OccupiedCount())
			for _, c := range tt.cells {
				assert.Equal(t, 2, b.OwnerID(c.X, c.Y))
			}
		})
	}
}

func TestBoardPlaceNegativeID(t *testing.T) {
	b := newBoard(t, 3, 3)
	assert.ErrorIs(t, b.Place(quad.NoOwner, []quad.Coord{{X: 0, Y: 0}}), ErrInvalidPiece)
}

func TestBoardFreeCells(t *testing.T) {
	b := newBoard(t, 4, 4)
	require.NoError(t, b.Place(1, []quad.Coord{{X: 0, Y: 0}, {X: 1, Y: 0}}))

	require.NoError(t, b.FreeCells([]quad.Coord{{X: 0, Y: 0}, {X: 2, Y: 2}}))
	assert.False(t, b.IsOccupied(0, 0))
	assert.True(t, b.IsOccupied(1, 0))
	assert.Equal(t, 1, b.OccupiedCount())

	err := b.FreeCells([]quad.Coord{{X: 1, Y: 0}, {X: 9, Y: 9}})
	require.ErrorIs(t, err, quad.ErrInvalidCoordinate)
	assert.True(t, b.IsOccupied(1, 0), "nothing freed on invalid input")
}

func TestBoardOffBoardReads(t *testing.T) {
	b := newBoard(t, 2, 2)
	assert.False(t, b.IsValid(2, 0))
	assert.False(t, b.IsOccupied(-1, 0))
	assert.Equal(t, quad.NoOwner, b.OwnerID(0, 5))
}

func TestBoardCanPlaceAnywhere(t *testing.T) {
	b := newBoard(t, 3, 2)
	o, _ := ShapeByName("O")
	single, _ := ShapeByName("1x1")

	assert.True(t, b.CanPlaceAnywhere([]Shape{o}))

	require.NoError(t, b.Place(1, []quad.Coord{{X: 1, Y: 0}, {X: 1, Y: 1}}))
	assert.False(t, b.CanPlaceAnywhere([]Shape{o}), "middle column blocks every 2x2")
	assert.True(t, b.CanPlaceAnywhere([]Shape{o, single}))

	require.NoError(t, b.Place(2, []quad.Coord{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 2, Y: 0}, {X: 2, Y: 1}}))
	assert.False(t, b.CanPlaceAnywhere(Shapes()))
}

func TestBoardClearAndRows(t *testing.T) {
	b := newBoard(t, 3, 2)
	require.NoError(t, b.Place(7, []quad.Coord{{X: 0, Y: 0}, {X: 2, Y: 1}}))

	assert.Equal(t, [][]int{{7, -1, -1}, {-1, -1, 7}}, b.Rows())
	assert.Equal(t, "..#\n#..", b.String())

	b.Clear()
	assert.Zero(t, b.OccupiedCount())
	assert.Equal(t, "...\n...", b.String())
}

func TestBoardDrivesTracker(t *testing.T) {
	b := newBoard(t, 12, 9)
	var ids PieceIDs

	// O, two singles and an I fill a 3x3 block with whole pieces.
	o, _ := ShapeByName("O")
	single, _ := ShapeByName("1x1")
	i, _ := ShapeByName("I")
	require.NoError(t, b.Place(ids.Next(), o.At(0, 0)))
	require.NoError(t, b.Place(ids.Next(), single.At(2, 0)))
	require.NoError(t, b.Place(ids.Next(), single.At(2, 1)))
	require.NoError(t, b.Place(ids.Next(), i.At(0, 2)))

	tr, err := quad.NewTracker(quad.DefaultConfig(), b, b)
	require.NoError(t, err)

	res, err := tr.AdvanceTurn()
	require.NoError(t, err)
	require.Len(t, res.Active, 1)
	assert.Equal(t, quad.RectAt(0, 0, 3, 3), res.Active[0].Bounds)

	for range 4 {
		res, err = tr.AdvanceTurn()
		require.NoError(t, err)
	}
	assert.Equal(t, 300, res.ScoreDelta)
	assert.Zero(t, b.OccupiedCount())
	assert.Equal(t, 4, ids.Last())
}
