package board

import "sync/atomic"

// PieceIDs hands out piece ids. Ids start at 1 and only grow, so a piece
// placed after a clear never reuses the id of a cleared one.
type PieceIDs struct {
	next atomic.Int64
}

// Next returns the next unique piece id.
// Thread-safe via atomic increment.
func (g *PieceIDs) Next() int {
	return int(g.next.Add(1))
}

// Last returns the most recently issued id, 0 if none.
func (g *PieceIDs) Last() int {
	return int(g.next.Load())
}
