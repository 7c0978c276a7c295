package physics

import (
	"math"
	"sort"
)

// cellKey addresses one spatial hash cell.
type cellKey struct {
	X, Y int32
}

// averageExtent derives the broad-phase cell size from the mean collider
// extent. A degenerate world falls back to a unit cell.
func averageExtent(bodies []Body) float64 {
	if len(bodies) == 0 {
		return 1
	}
	sum := 0.0
	for i := range bodies {
		sum += bodies[i].Shape.Extent()
	}
	avg := sum / float64(len(bodies))
	if avg <= 0 || math.IsNaN(avg) || math.IsInf(avg, 0) {
		return 1
	}
	return avg
}

// cellsFor invokes fn for every cell covered by the body's bounding box, in
// row-major order. Boundary-straddling bodies cover multiple cells, which is
// how neighbors across cell edges still get paired.
func cellsFor(b *Body, cell float64, fn func(cellKey)) {
	box := b.Shape.aabb(b.Pos)
	x0 := int32(math.Floor(box.X / cell))
	x1 := int32(math.Floor(box.Right() / cell))
	y0 := int32(math.Floor(box.Y / cell))
	y1 := int32(math.Floor(box.Bottom() / cell))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			fn(cellKey{X: x, Y: y})
		}
	}
}

// broadPhasePairs returns candidate collision pairs (a < b) using spatial
// hashing. The grid map is only ever indexed by key, never iterated, and the
// result is sorted, so pair order is fully deterministic regardless of map
// layout.
func broadPhasePairs(bodies []Body) [][2]int32 {
	if len(bodies) < 2 {
		return nil
	}
	cell := averageExtent(bodies)

	grid := make(map[cellKey][]int32, len(bodies))
	seen := make(map[uint64]struct{})
	var pairs [][2]int32

	for i := range bodies {
		bi := int32(i)
		cellsFor(&bodies[i], cell, func(k cellKey) {
			for _, bj := range grid[k] {
				key := uint64(bj)<<32 | uint64(bi)
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				if bodies[bj].Shape.aabb(bodies[bj].Pos).Intersects(bodies[bi].Shape.aabb(bodies[bi].Pos)) {
					pairs = append(pairs, [2]int32{bj, bi})
				}
			}
			grid[k] = append(grid[k], bi)
		})
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	return pairs
}
