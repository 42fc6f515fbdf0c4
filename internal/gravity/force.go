package gravity

import (
	"math"

	"github.com/kossner/accrete/internal/body"
)

// Solver produces one gravitational acceleration vector per live body.
// Implementations write into acc (stride = batch dim) for every index in
// live and leave other slots untouched. acc is caller-owned scratch.
type Solver interface {
	Accelerations(acc []float64, live []int, b *body.Batch, c Constants)
}

// Direct is the exact O(n^2) solver. Every unordered pair is evaluated once
// and applied with opposite signs to both bodies.
type Direct struct{}

func (Direct) Accelerations(acc []float64, live []int, b *body.Batch, c Constants) {
	dim := b.Dim
	for _, i := range live {
		for d := 0; d < dim; d++ {
			acc[i*dim+d] = 0
		}
	}

	var dr [3]float64
	for ii, i := range live {
		for _, j := range live[ii+1:] {
			r2 := 0.0
			for d := 0; d < dim; d++ {
				dr[d] = b.Pos[j*dim+d] - b.Pos[i*dim+d]
				r2 += dr[d] * dr[d]
			}
			if r2 == 0 {
				continue // coincident pair, no singular division
			}
			r3Inv := 1 / (r2 * math.Sqrt(r2))

			fi := c.G * b.Mass[j] * r3Inv
			fj := c.G * b.Mass[i] * r3Inv
			for d := 0; d < dim; d++ {
				acc[i*dim+d] += fi * dr[d]
				acc[j*dim+d] -= fj * dr[d]
			}
		}
	}
}

// BarnesHut approximates far-field gravity through a spatial tree, O(n log n)
// per tick. Accuracy is steered by c.Theta.
type BarnesHut struct {
	tree *Tree
	vec  []float64
}

func NewBarnesHut(dim int) *BarnesHut {
	return &BarnesHut{tree: NewTree(dim), vec: make([]float64, dim)}
}

func (s *BarnesHut) Accelerations(acc []float64, live []int, b *body.Batch, c Constants) {
	s.tree.Build(live, b.Pos, b.Mass)
	dim := b.Dim
	for _, i := range live {
		s.tree.ForceOn(i, b.Pos, c.G, c.Theta, s.vec)
		copy(acc[i*dim:i*dim+dim], s.vec)
	}
}
