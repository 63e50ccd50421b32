package quad

import "github.com/zyedidia/generic/mapset"

// Region is a 4-connected set of occupied cells, in discovery order.
type Region []Coord

// directions are the flood-fill neighbours: up, down, right, left.
var directions = [4]Coord{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}

// FindRegions partitions the occupied cells of g that are not in excluded
// into 4-connected regions. Seeds are scanned column by column (x outer,
// y inner), so the same grid always yields the same regions in the same order.
func FindRegions(g Grid, excluded mapset.Set[Coord]) []Region {
	visited := mapset.New[Coord]()
	var regions []Region

	for x := range g.Width() {
		for y := range g.Height() {
			start := Coord{X: x, Y: y}
			if visited.Has(start) || !claimable(g, excluded, start) {
				continue
			}
			regions = append(regions, floodFill(g, excluded, visited, start))
		}
	}

	return regions
}

// claimable reports whether c is an occupied cell outside excluded.
func claimable(g Grid, excluded mapset.Set[Coord], c Coord) bool {
	if !g.IsValid(c.X, c.Y) || !g.IsOccupied(c.X, c.Y) {
		return false
	}
	return !excluded.Has(c)
}

// floodFill collects the region containing start with a breadth-first walk.
func floodFill(g Grid, excluded, visited mapset.Set[Coord], start Coord) Region {
	region := Region{}
	queue := []Coord{start}
	visited.Put(start)

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		region = append(region, cur)

		for _, d := range directions {
			next := Coord{X: cur.X + d.X, Y: cur.Y + d.Y}
			if visited.Has(next) || !claimable(g, excluded, next) {
				continue
			}
			visited.Put(next)
			queue = append(queue, next)
		}
	}

	return region
}

// Bounds returns the bounding rectangle of a non-empty region.
func (r Region) Bounds() Rect { return boundsOf(r) }
