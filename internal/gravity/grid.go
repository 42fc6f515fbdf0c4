package gravity

import "math"

// cellKey is the floor-divided integer coordinate of a grid cell. The z
// component stays 0 in two dimensions.
type cellKey struct {
	x, y, z int32
}

// HashGrid is the collision broad-phase: a uniform hash grid rebuilt every
// tick. A body is inserted into every cell its bounding box (position ±
// radius) overlaps, so exact overlap tests only need to look at cell-sharing
// pairs.
type HashGrid struct {
	dim      int
	cellSize float64
	cells    map[cellKey][]int32

	seenPairs map[uint64]struct{}
	seenIDs   map[int32]struct{}
}

func NewHashGrid(dim int) *HashGrid {
	return &HashGrid{
		dim:       dim,
		cells:     make(map[cellKey][]int32),
		seenPairs: make(map[uint64]struct{}),
		seenIDs:   make(map[int32]struct{}),
	}
}

// Reset drops all cell contents and sets the cell size for the coming tick.
// Cell size must be positive; the step sizes it as 4x the largest body radius.
func (g *HashGrid) Reset(cellSize float64) {
	g.cellSize = cellSize
	clear(g.cells)
}

// cellCoord uses floor, not truncation, so cells are symmetric around zero.
func (g *HashGrid) cellCoord(v float64) int32 {
	return int32(math.Floor(v / g.cellSize))
}

func (g *HashGrid) cellRange(pos []float64, radius float64) (lo, hi [3]int32) {
	for d := 0; d < g.dim; d++ {
		lo[d] = g.cellCoord(pos[d] - radius)
		hi[d] = g.cellCoord(pos[d] + radius)
	}
	return
}

// Insert adds body index i to every cell covered by pos ± radius. A zero
// radius still lands in the single cell containing the point.
func (g *HashGrid) Insert(i int, pos []float64, radius float64) {
	lo, hi := g.cellRange(pos, radius)
	for x := lo[0]; x <= hi[0]; x++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for z := lo[2]; z <= hi[2]; z++ {
				k := cellKey{x, y, z}
				g.cells[k] = append(g.cells[k], int32(i))
			}
		}
	}
}

// QueryRadius returns the deduplicated union of body indices in every cell
// overlapping the query box. Conservative: callers confirm true overlap.
func (g *HashGrid) QueryRadius(pos []float64, radius float64, out []int) []int {
	clear(g.seenIDs)
	lo, hi := g.cellRange(pos, radius)
	for x := lo[0]; x <= hi[0]; x++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for z := lo[2]; z <= hi[2]; z++ {
				for _, id := range g.cells[cellKey{x, y, z}] {
					if _, dup := g.seenIDs[id]; dup {
						continue
					}
					g.seenIDs[id] = struct{}{}
					out = append(out, int(id))
				}
			}
		}
	}
	return out
}

// Pairs visits every unordered pair of distinct bodies that share at least
// one cell, exactly once, in canonical (low, high) order.
func (g *HashGrid) Pairs(visit func(a, b int)) {
	clear(g.seenPairs)
	for _, ids := range g.cells {
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				a, b := ids[i], ids[j]
				if a == b {
					continue
				}
				if a > b {
					a, b = b, a
				}
				key := uint64(a)<<32 | uint64(b)
				if _, dup := g.seenPairs[key]; dup {
					continue
				}
				g.seenPairs[key] = struct{}{}
				visit(int(a), int(b))
			}
		}
	}
}
