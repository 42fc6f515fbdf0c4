package gravity

import "github.com/kossner/accrete/internal/body"

// Step advances a body batch by fixed timesteps. One Step owns its scratch
// buffers (acceleration array, live-index list, grid, resolver); it must not
// be shared across concurrently running ticks.
type Step struct {
	Consts Constants

	solver   Solver
	grid     *HashGrid
	resolver *Resolver

	acc  []float64
	live []int
}

func NewStep(c Constants, solver Solver, dim int) *Step {
	return &Step{
		Consts:   c,
		solver:   solver,
		grid:     NewHashGrid(dim),
		resolver: NewResolver(),
	}
}

// Tick runs one full simulation step: broad-phase rebuild, collision merging,
// velocity-Verlet integration with two force evaluations, then radiative
// cooling. It returns the ids merged away this tick; callers must retire them
// from any external mapping. The returned slice is reused on the next call.
//
// dt must be positive; that is a precondition, not a checked error.
func (s *Step) Tick(b *body.Batch, dt float64) []body.ID {
	s.live = b.Live(s.live[:0])
	if len(s.live) == 0 {
		return nil
	}
	dim := b.Dim

	// broad-phase, sized to the current population
	maxR := 0.0
	for _, i := range s.live {
		if b.Radius[i] > maxR {
			maxR = b.Radius[i]
		}
	}
	cellSize := 4 * maxR
	if cellSize <= 0 {
		cellSize = 1 // point bodies cannot collide but still need valid cells
	}
	s.grid.Reset(cellSize)
	for _, i := range s.live {
		s.grid.Insert(i, b.Pos[i*dim:i*dim+dim], b.Radius[i])
	}

	removed := s.resolver.Resolve(b, s.grid, s.Consts)
	if len(removed) > 0 {
		s.live = b.Live(s.live[:0])
		if len(s.live) == 0 {
			return removed
		}
	}

	if need := b.Slots() * dim; cap(s.acc) < need {
		s.acc = make([]float64, need)
	}
	s.acc = s.acc[:b.Slots()*dim]

	// velocity Verlet: half kick, drift, re-evaluate, half kick
	s.solver.Accelerations(s.acc, s.live, b, s.Consts)
	half := dt / 2
	for _, i := range s.live {
		for d := 0; d < dim; d++ {
			b.Vel[i*dim+d] += s.acc[i*dim+d] * half
			b.Pos[i*dim+d] += b.Vel[i*dim+d] * dt
		}
	}

	s.solver.Accelerations(s.acc, s.live, b, s.Consts)
	for _, i := range s.live {
		for d := 0; d < dim; d++ {
			b.Vel[i*dim+d] += s.acc[i*dim+d] * half
		}
	}

	Cool(b.Temp, b.Radius, b.Mass, s.live, s.Consts, dt)
	return removed
}
