package metrics

import (
	"math"

	"github.com/kossner/accrete/internal/body"
)

// Momentum tracks the magnitude of the total linear momentum.
type Momentum struct {
	last float64
}

func NewMomentum() *Momentum { return &Momentum{} }

func (m *Momentum) Name() string { return "momentum" }

func (m *Momentum) Observe(b *body.Batch, t float64) {
	var p [3]float64
	dim := b.Dim
	for _, i := range b.Live(nil) {
		for d := 0; d < dim; d++ {
			p[d] += b.Mass[i] * b.Vel[i*dim+d]
		}
	}
	m.last = math.Sqrt(p[0]*p[0] + p[1]*p[1] + p[2]*p[2])
}

func (m *Momentum) Value() float64 { return m.last }
func (m *Momentum) Reset()         { m.last = 0 }

// AngularMomentum tracks total angular momentum about the origin: the scalar
// L in two dimensions, the z component in three.
type AngularMomentum struct {
	last float64
}

func NewAngularMomentum() *AngularMomentum { return &AngularMomentum{} }

func (a *AngularMomentum) Name() string { return "angular_momentum" }

func (a *AngularMomentum) Observe(b *body.Batch, t float64) {
	l := 0.0
	dim := b.Dim
	for _, i := range b.Live(nil) {
		x, y := b.Pos[i*dim], b.Pos[i*dim+1]
		vx, vy := b.Vel[i*dim], b.Vel[i*dim+1]
		l += b.Mass[i] * (x*vy - y*vx)
	}
	a.last = l
}

func (a *AngularMomentum) Value() float64 { return a.last }
func (a *AngularMomentum) Reset()         { a.last = 0 }

// PeakTemperature tracks the hottest body seen over the whole run.
type PeakTemperature struct {
	peak float64
}

func NewPeakTemperature() *PeakTemperature { return &PeakTemperature{} }

func (p *PeakTemperature) Name() string { return "peak_temperature" }

func (p *PeakTemperature) Observe(b *body.Batch, t float64) {
	for _, i := range b.Live(nil) {
		if b.Temp[i] > p.peak {
			p.peak = b.Temp[i]
		}
	}
}

func (p *PeakTemperature) Value() float64 { return p.peak }
func (p *PeakTemperature) Reset()         { p.peak = 0 }

// Count tracks the surviving body count.
type Count struct {
	last int
}

func NewCount() *Count { return &Count{} }

func (c *Count) Name() string { return "bodies" }

func (c *Count) Observe(b *body.Batch, t float64) { c.last = b.Len() }

func (c *Count) Value() float64 { return float64(c.last) }
func (c *Count) Reset()         { c.last = 0 }
