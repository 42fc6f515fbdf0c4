package gravity

import "math"

// maxTreeDepth bounds recursion during tree construction. Coincident or
// near-coincident bodies would otherwise split forever; past this depth they
// are folded into a single aggregate leaf.
const maxTreeDepth = 48

type treeNode struct {
	// region: axis-aligned cube/square, center ± half
	cx, cy, cz float64
	half       float64

	// aggregate of the subtree
	mass             float64
	comX, comY, comZ float64

	body       int32 // body index if single-body leaf, -1 otherwise
	firstChild int32 // arena index of the first of 2^dim children, -1 for leaves
}

// Tree is a Barnes-Hut decomposition over an arena of nodes addressed by
// index. It is rebuilt from scratch every tick; the arena is reused to keep
// steady-state allocation at zero.
type Tree struct {
	dim   int
	nodes []treeNode
}

func NewTree(dim int) *Tree {
	return &Tree{dim: dim}
}

// Build partitions the live bodies into the tree. pos has stride dim; mass is
// indexed by body slot. Aggregate mass and centroid are maintained on the way
// down, so after the last insertion every node carries its subtree totals.
func (t *Tree) Build(live []int, pos, mass []float64) {
	t.nodes = t.nodes[:0]
	if len(live) == 0 {
		return
	}

	lo := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, i := range live {
		for d := 0; d < t.dim; d++ {
			v := pos[i*t.dim+d]
			if v < lo[d] {
				lo[d] = v
			}
			if v > hi[d] {
				hi[d] = v
			}
		}
	}
	for d := t.dim; d < 3; d++ {
		lo[d], hi[d] = 0, 0
	}

	half := 0.0
	for d := 0; d < t.dim; d++ {
		if w := (hi[d] - lo[d]) / 2; w > half {
			half = w
		}
	}
	// Inflate so boundary points stay strictly inside; keeps a single body or
	// a degenerate axis from producing a zero-size root.
	half = half*1.00001 + 1e-9

	t.nodes = append(t.nodes, treeNode{
		cx:         (lo[0] + hi[0]) / 2,
		cy:         (lo[1] + hi[1]) / 2,
		cz:         (lo[2] + hi[2]) / 2,
		half:       half,
		body:       -1,
		firstChild: -1,
	})

	for _, i := range live {
		t.insert(i, pos, mass)
	}
}

func (t *Tree) bodyPos(i int, pos []float64) (x, y, z float64) {
	x = pos[i*t.dim]
	y = pos[i*t.dim+1]
	if t.dim == 3 {
		z = pos[i*t.dim+2]
	}
	return
}

func (t *Tree) octant(n *treeNode, x, y, z float64) int32 {
	var oct int32
	if x >= n.cx {
		oct |= 1
	}
	if y >= n.cy {
		oct |= 2
	}
	if t.dim == 3 && z >= n.cz {
		oct |= 4
	}
	return oct
}

// split turns the leaf at index n into an internal node with 2^dim empty
// children and returns the arena index of the first child.
func (t *Tree) split(n int32) int32 {
	first := int32(len(t.nodes))
	parent := t.nodes[n] // copy: the append below may move the arena
	childHalf := parent.half / 2
	for oct := int32(0); oct < 1<<t.dim; oct++ {
		child := treeNode{
			cx:         parent.cx - childHalf,
			cy:         parent.cy - childHalf,
			cz:         parent.cz,
			half:       childHalf,
			body:       -1,
			firstChild: -1,
		}
		if oct&1 != 0 {
			child.cx = parent.cx + childHalf
		}
		if oct&2 != 0 {
			child.cy = parent.cy + childHalf
		}
		if t.dim == 3 {
			child.cz = parent.cz - childHalf
			if oct&4 != 0 {
				child.cz = parent.cz + childHalf
			}
		}
		t.nodes = append(t.nodes, child)
	}
	t.nodes[n].firstChild = first
	return first
}

func (t *Tree) insert(bi int, pos, mass []float64) {
	x, y, z := t.bodyPos(bi, pos)
	m := mass[bi]
	n := int32(0)
	depth := 0

	for {
		node := &t.nodes[n]

		if node.firstChild < 0 {
			if node.body < 0 && node.mass == 0 {
				// empty leaf
				node.body = int32(bi)
				node.mass = m
				node.comX, node.comY, node.comZ = x, y, z
				return
			}
			if node.body < 0 || depth >= maxTreeDepth {
				// aggregate leaf at the depth cutoff: fold the body in
				total := node.mass + m
				node.comX += (x - node.comX) * m / total
				node.comY += (y - node.comY) * m / total
				node.comZ += (z - node.comZ) * m / total
				node.mass = total
				node.body = -1
				return
			}

			// occupied leaf: push the resident body one level down
			resident := node.body
			first := t.split(n)
			node = &t.nodes[n] // re-take: split may have grown the arena
			rx, ry, rz := node.comX, node.comY, node.comZ
			child := &t.nodes[first+t.octant(node, rx, ry, rz)]
			child.body = resident
			child.mass = node.mass
			child.comX, child.comY, child.comZ = rx, ry, rz
			node.body = -1
		}

		// internal node: fold the new body into the aggregates and descend
		total := node.mass + m
		node.comX += (x - node.comX) * m / total
		node.comY += (y - node.comY) * m / total
		node.comZ += (z - node.comZ) * m / total
		node.mass = total

		n = node.firstChild + t.octant(node, x, y, z)
		depth++
	}
}

// ForceOn accumulates the gravitational acceleration on body bi into acc
// (length dim). Subtrees whose region size over centroid distance falls below
// theta are treated as point masses; theta -> 0 degenerates to the exact
// direct sum.
func (t *Tree) ForceOn(bi int, pos []float64, g, theta float64, acc []float64) {
	for d := range acc {
		acc[d] = 0
	}
	if len(t.nodes) == 0 {
		return
	}
	x, y, z := t.bodyPos(bi, pos)
	t.force(0, int32(bi), x, y, z, g, theta, acc)
}

func (t *Tree) force(n, bi int32, x, y, z, g, theta float64, acc []float64) {
	node := &t.nodes[n]
	if node.mass == 0 || node.body == bi {
		return
	}

	dx := node.comX - x
	dy := node.comY - y
	dz := node.comZ - z
	r2 := dx*dx + dy*dy + dz*dz

	if node.firstChild >= 0 {
		r := math.Sqrt(r2)
		if r == 0 || 2*node.half/r >= theta {
			// too close to aggregate: open the node
			for c := int32(0); c < 1<<t.dim; c++ {
				t.force(node.firstChild+c, bi, x, y, z, g, theta, acc)
			}
			return
		}
	}

	if r2 == 0 {
		return // coincident with the aggregate; no singular division
	}

	r := math.Sqrt(r2)
	f := g * node.mass / (r2 * r)
	acc[0] += f * dx
	acc[1] += f * dy
	if t.dim == 3 {
		acc[2] += f * dz
	}
}
