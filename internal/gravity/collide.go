package gravity

import (
	"math"

	"github.com/kossner/accrete/internal/body"
)

// Resolver merges overlapping bodies. It owns per-tick scratch (the
// merged-this-tick mask) so resolving allocates nothing in steady state.
type Resolver struct {
	merged  []bool
	removed []body.ID
}

func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve walks the grid's candidate pairs, performs exact overlap tests and
// merges every colliding pair into its heavier member. Losers are tombstoned
// immediately so they cannot take part in a later pair of the same tick, and
// removed from the batch once all pairs have been seen. Returns the ids
// retired this tick; the slice is reused on the next call.
func (r *Resolver) Resolve(b *body.Batch, grid *HashGrid, c Constants) []body.ID {
	n := b.Slots()
	if cap(r.merged) < n {
		r.merged = make([]bool, n)
	}
	r.merged = r.merged[:n]
	for i := range r.merged {
		r.merged[i] = false
	}
	r.removed = r.removed[:0]

	dim := b.Dim
	grid.Pairs(func(i, j int) {
		if r.merged[i] || r.merged[j] {
			return // one of them died earlier this tick
		}

		r2 := 0.0
		for d := 0; d < dim; d++ {
			dr := b.Pos[j*dim+d] - b.Pos[i*dim+d]
			r2 += dr * dr
		}
		sum := b.Radius[i] + b.Radius[j]
		if r2 >= sum*sum {
			return
		}

		win, lose := i, j
		if b.Mass[j] > b.Mass[i] {
			win, lose = j, i
		}
		r.merge(b, win, lose, c)
		r.merged[lose] = true
		r.removed = append(r.removed, b.IDOf(lose))
	})

	for _, id := range r.removed {
		b.Remove(id)
	}
	return r.removed
}

func (r *Resolver) merge(b *body.Batch, win, lose int, c Constants) {
	dim := b.Dim
	mw, ml := b.Mass[win], b.Mass[lose]
	total := mw + ml

	keBefore := 0.0
	for d := 0; d < dim; d++ {
		vw, vl := b.Vel[win*dim+d], b.Vel[lose*dim+d]
		keBefore += 0.5 * (mw*vw*vw + ml*vl*vl)
	}

	// momentum-weighted velocity, center-of-mass position
	keAfter := 0.0
	for d := 0; d < dim; d++ {
		v := (mw*b.Vel[win*dim+d] + ml*b.Vel[lose*dim+d]) / total
		b.Vel[win*dim+d] = v
		keAfter += 0.5 * total * v * v
		b.Pos[win*dim+d] = (mw*b.Pos[win*dim+d] + ml*b.Pos[lose*dim+d]) / total
	}

	// inelastic energy loss heats the merged body
	heat := (keBefore - keAfter) * c.ImpactHeatMultiplier / (total * c.HeatCapacity)
	temp := (mw*b.Temp[win]+ml*b.Temp[lose])/total + heat
	b.Temp[win] = math.Min(temp, c.MaxImpactTemperature)

	b.Mass[win] = total
	b.Radius[win] = c.RadiusForMass(total)
}
