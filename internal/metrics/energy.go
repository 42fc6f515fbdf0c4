package metrics

import (
	"math"

	"github.com/kossner/accrete/internal/body"
	"github.com/kossner/accrete/internal/gravity"
)

// Kinetic returns the total kinetic energy of the live population.
func Kinetic(b *body.Batch) float64 {
	ke := 0.0
	dim := b.Dim
	for _, i := range b.Live(nil) {
		v2 := 0.0
		for d := 0; d < dim; d++ {
			v := b.Vel[i*dim+d]
			v2 += v * v
		}
		ke += 0.5 * b.Mass[i] * v2
	}
	return ke
}

// Potential returns the total gravitational potential energy, summed over
// unordered pairs. Coincident pairs contribute nothing.
func Potential(b *body.Batch, g float64) float64 {
	pe := 0.0
	dim := b.Dim
	live := b.Live(nil)
	for ii, i := range live {
		for _, j := range live[ii+1:] {
			r2 := 0.0
			for d := 0; d < dim; d++ {
				dr := b.Pos[j*dim+d] - b.Pos[i*dim+d]
				r2 += dr * dr
			}
			if r2 == 0 {
				continue
			}
			pe -= g * b.Mass[i] * b.Mass[j] / math.Sqrt(r2)
		}
	}
	return pe
}

// TotalEnergy is kinetic plus pairwise potential energy.
func TotalEnergy(b *body.Batch, c gravity.Constants) float64 {
	return Kinetic(b) + Potential(b, c.G)
}

// Energy tracks the most recent total energy of the batch.
type Energy struct {
	consts gravity.Constants
	last   float64
}

func NewEnergy(c gravity.Constants) *Energy {
	return &Energy{consts: c}
}

func (e *Energy) Name() string { return "energy" }

func (e *Energy) Observe(b *body.Batch, t float64) {
	e.last = TotalEnergy(b, e.consts)
}

func (e *Energy) Value() float64 { return e.last }
func (e *Energy) Reset()         { e.last = 0 }
