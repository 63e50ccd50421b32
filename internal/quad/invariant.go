package quad

import "fmt"

// CheckInvariants verifies that every tracked quad fills its bounds exactly,
// that no two tracked quads share a cell and, in entity-aware mode, that no
// piece is split by a tracked quad.
func (t *Tracker) CheckInvariants() error {
	owners := make(map[Coord]Rect)

	for _, q := range t.quads {
		if q.cells.Size() != q.bounds.Area() {
			return fmt.Errorf("%s holds %d cells, want %d: %w",
				q.bounds, q.cells.Size(), q.bounds.Area(), ErrInvariantViolation)
		}

		var err error
		q.cells.Each(func(c Coord) {
			if err != nil {
				return
			}
			if !q.bounds.Contains(c) {
				err = fmt.Errorf("%s holds outside cell %v: %w", q.bounds, c, ErrInvariantViolation)
				return
			}
			if other, ok := owners[c]; ok {
				err = fmt.Errorf("%s and %s share cell %v: %w", other, q.bounds, c, ErrInvariantViolation)
				return
			}
			owners[c] = q.bounds
		})
		if err != nil {
			return err
		}
	}

	if t.cfg.Detection == DetectEntities {
		return t.checkPieces()
	}
	return nil
}

// checkPieces verifies that each piece touching a tracked quad lies entirely inside it.
func (t *Tracker) checkPieces() error {
	sizes := pieceSizes(t.grid)

	for _, q := range t.quads {
		inside := make(map[int]int)
		for _, c := range q.Cells() {
			if !t.grid.IsValid(c.X, c.Y) {
				return fmt.Errorf("%s holds cell %v: %w", q.bounds, c, ErrInvalidCoordinate)
			}
			if t.grid.IsOccupied(c.X, c.Y) {
				inside[t.grid.OwnerID(c.X, c.Y)]++
			}
		}
		for owner, n := range inside {
			if sizes[owner] != n {
				return fmt.Errorf("%s splits piece %d (%d of %d cells): %w",
					q.bounds, owner, n, sizes[owner], ErrInvariantViolation)
			}
		}
	}
	return nil
}

// mustHoldInvariants panics when the tracked set is corrupt. A violation is a
// programming error, never an expected runtime condition.
func (t *Tracker) mustHoldInvariants() {
	if err := t.CheckInvariants(); err != nil {
		panic(err)
	}
}
