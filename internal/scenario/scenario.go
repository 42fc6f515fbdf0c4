// Package scenario builds initial body populations for the simulation.
package scenario

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/aquilax/go-perlin"
	"github.com/kossner/accrete/internal/body"
	"github.com/kossner/accrete/internal/gravity"
)

// Params configures a generator. Bodies is advisory: fixed scenarios such as
// two-body ignore it.
type Params struct {
	Bodies int
	Dim    int
	Seed   int64
	Consts gravity.Constants
}

type Generator func(p Params) *body.Batch

var registry = map[string]Generator{
	"two-body":         TwoBody,
	"ring":             Ring,
	"disk":             Disk,
	"cluster":          Cluster,
	"collision-course": CollisionCourse,
}

// Get resolves a scenario by name.
func Get(name string) (Generator, error) {
	g, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q (available: %v)", name, Names())
	}
	return g, nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func add(b *body.Batch, c gravity.Constants, pos, vel []float64, mass, temp float64) body.ID {
	return b.Add(body.State{
		Pos:    pos,
		Vel:    vel,
		Mass:   mass,
		Radius: c.RadiusForMass(mass),
		Temp:   temp,
	})
}

func zeros(dim int) []float64 { return make([]float64, dim) }

// TwoBody places two equal masses at rest 10 km apart on the x axis.
func TwoBody(p Params) *body.Batch {
	b := body.NewBatch(p.Dim)
	m := 1e14
	pos := zeros(p.Dim)
	add(b, p.Consts, pos, zeros(p.Dim), m, 300)
	pos2 := zeros(p.Dim)
	pos2[0] = 10000
	add(b, p.Consts, pos2, zeros(p.Dim), m, 300)
	return b
}

// Ring puts n small bodies on a circular orbit around a central mass.
func Ring(p Params) *body.Batch {
	b := body.NewBatch(p.Dim)
	c := p.Consts

	central := 1e20
	add(b, c, zeros(p.Dim), zeros(p.Dim), central, 1000)

	n := p.Bodies
	if n < 2 {
		n = 2
	}
	radius := 1e6
	speed := math.Sqrt(c.G * central / radius)
	for i := 0; i < n; i++ {
		angle := float64(i) * 2 * math.Pi / float64(n)
		pos := zeros(p.Dim)
		vel := zeros(p.Dim)
		pos[0] = radius * math.Cos(angle)
		pos[1] = radius * math.Sin(angle)
		vel[0] = -speed * math.Sin(angle)
		vel[1] = speed * math.Cos(angle)
		add(b, c, pos, vel, 1e12, 300)
	}
	return b
}

// Disk seeds a rotating accretion disk. Body masses are modulated with Perlin
// noise so the disk starts out clumpy and merges early.
func Disk(p Params) *body.Batch {
	b := body.NewBatch(p.Dim)
	c := p.Consts
	rng := rand.New(rand.NewSource(p.Seed))
	noise := perlin.NewPerlin(2, 2, 3, p.Seed)

	central := 1e20
	add(b, c, zeros(p.Dim), zeros(p.Dim), central, 2000)

	n := p.Bodies
	if n < 2 {
		n = 2
	}
	rMin, rMax := 5e5, 3e6
	for i := 0; i < n; i++ {
		r := rMin + rng.Float64()*(rMax-rMin)
		angle := rng.Float64() * 2 * math.Pi
		x := r * math.Cos(angle)
		y := r * math.Sin(angle)

		// noise in [-1,1] shifts the local mass scale by up to 10x
		m := 1e12 * math.Pow(10, noise.Noise2D(x/rMax, y/rMax))

		pos := zeros(p.Dim)
		vel := zeros(p.Dim)
		pos[0], pos[1] = x, y
		if p.Dim == 3 {
			pos[2] = (rng.Float64() - 0.5) * rMin * 0.1
		}
		speed := math.Sqrt(c.G * central / r)
		vel[0] = -speed * math.Sin(angle)
		vel[1] = speed * math.Cos(angle)
		add(b, c, pos, vel, m, 200+rng.Float64()*400)
	}
	return b
}

// Cluster drops a Gaussian blob of bodies with small random velocities. It
// collapses under its own gravity and merges aggressively.
func Cluster(p Params) *body.Batch {
	b := body.NewBatch(p.Dim)
	c := p.Consts
	rng := rand.New(rand.NewSource(p.Seed))

	n := p.Bodies
	if n < 2 {
		n = 2
	}
	sigma := 1e5
	for i := 0; i < n; i++ {
		pos := zeros(p.Dim)
		vel := zeros(p.Dim)
		for d := 0; d < p.Dim; d++ {
			pos[d] = rng.NormFloat64() * sigma
			vel[d] = rng.NormFloat64() * 0.1
		}
		add(b, c, pos, vel, 1e13*(0.5+rng.Float64()), 400)
	}
	return b
}

// CollisionCourse aims two heavy bodies at each other so the first ticks
// exercise merging and impact heating.
func CollisionCourse(p Params) *body.Batch {
	b := body.NewBatch(p.Dim)
	c := p.Consts

	m := 1e14
	r := c.RadiusForMass(m)

	pos1 := zeros(p.Dim)
	vel1 := zeros(p.Dim)
	pos1[0] = -3 * r
	vel1[0] = 50

	pos2 := zeros(p.Dim)
	vel2 := zeros(p.Dim)
	pos2[0] = 3 * r
	vel2[0] = -50

	add(b, c, pos1, vel1, m, 300)
	add(b, c, pos2, vel2, m, 300)
	return b
}
