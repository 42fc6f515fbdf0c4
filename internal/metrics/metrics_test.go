package metrics

import (
	"math"
	"testing"

	"github.com/kossner/accrete/internal/body"
	"github.com/kossner/accrete/internal/gravity"
)

func twoBody() (*body.Batch, gravity.Constants) {
	c := gravity.DefaultConstants()
	b := body.NewBatch(2)
	b.Add(body.State{Pos: []float64{0, 0}, Vel: []float64{2, 0}, Mass: 10, Radius: 1, Temp: 100})
	b.Add(body.State{Pos: []float64{5, 0}, Vel: []float64{0, -1}, Mass: 20, Radius: 1, Temp: 400})
	return b, c
}

func TestTotalEnergyClosedForm(t *testing.T) {
	b, c := twoBody()

	ke := 0.5*10*4 + 0.5*20*1
	pe := -c.G * 10 * 20 / 5

	got := TotalEnergy(b, c)
	want := ke + pe
	if math.Abs(got-want) > math.Abs(want)*1e-12 {
		t.Errorf("energy: %g != %g", got, want)
	}
}

func TestPotentialSkipsCoincident(t *testing.T) {
	c := gravity.DefaultConstants()
	b := body.NewBatch(2)
	b.Add(body.State{Pos: []float64{1, 1}, Vel: []float64{0, 0}, Mass: 5, Radius: 1, Temp: 3})
	b.Add(body.State{Pos: []float64{1, 1}, Vel: []float64{0, 0}, Mass: 5, Radius: 1, Temp: 3})

	if pe := Potential(b, c.G); pe != 0 {
		t.Errorf("coincident pair should contribute zero, got %g", pe)
	}
}

func TestMomentumMagnitude(t *testing.T) {
	b, _ := twoBody()

	m := NewMomentum()
	m.Observe(b, 0)

	// p = (10*2, 20*-1) = (20, -20)
	want := math.Sqrt(20*20 + 20*20)
	if math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("momentum: %g != %g", m.Value(), want)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("reset did not clear value")
	}
}

func TestAngularMomentum(t *testing.T) {
	b, _ := twoBody()

	a := NewAngularMomentum()
	a.Observe(b, 0)

	// body 1 at origin contributes nothing; body 2: m*(x*vy - y*vx) = 20*(5*-1 - 0)
	if want := -100.0; math.Abs(a.Value()-want) > 1e-12 {
		t.Errorf("angular momentum: %g != %g", a.Value(), want)
	}
}

func TestPeakTemperaturePersists(t *testing.T) {
	b, _ := twoBody()

	p := NewPeakTemperature()
	p.Observe(b, 0)

	live := b.Live(nil)
	for _, i := range live {
		b.Temp[i] = 50 // everything cools
	}
	p.Observe(b, 1)

	if p.Value() != 400 {
		t.Errorf("peak should persist at 400, got %g", p.Value())
	}
}

func TestCountFollowsRemovals(t *testing.T) {
	b, _ := twoBody()

	c := NewCount()
	c.Observe(b, 0)
	if c.Value() != 2 {
		t.Errorf("expected 2, got %g", c.Value())
	}

	b.RemoveIndex(0)
	c.Observe(b, 1)
	if c.Value() != 1 {
		t.Errorf("expected 1 after removal, got %g", c.Value())
	}
}
