package quad

import "errors"

// NoOwner is the owner id reported for empty cells.
const NoOwner = -1

var (
	ErrInvalidCoordinate  = errors.New("coordinate outside grid")
	ErrNotRectangle       = errors.New("cells do not form a filled rectangle")
	ErrInvariantViolation = errors.New("tracker invariant violated")
	ErrInvalidConfig      = errors.New("invalid quad config")
)

// Grid is the read view of board occupancy consumed by detection.
// Coordinates passed to IsOccupied and OwnerID are always checked with
// IsValid first.
type Grid interface {
	Width() int
	Height() int
	IsValid(x, y int) bool
	IsOccupied(x, y int) bool
	// OwnerID returns the id of the piece occupying the cell, or NoOwner.
	OwnerID(x, y int) int
}

// ClearSink frees the cells of expired quads. It is called synchronously
// while a turn is processed.
type ClearSink interface {
	FreeCells(cells []Coord) error
}

// ClearSinkFunc adapts a function to ClearSink.
type ClearSinkFunc func(cells []Coord) error

// FreeCells calls f(cells).
func (f ClearSinkFunc) FreeCells(cells []Coord) error { return f(cells) }
