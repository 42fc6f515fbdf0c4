package sim

import (
	"fmt"

	"github.com/kossner/accrete/internal/body"
)

// Metric accumulates a scalar diagnostic over a run.
type Metric interface {
	Name() string
	Observe(b *body.Batch, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every completed tick.
type Observer interface {
	OnTick(b *body.Batch, t float64, removed []body.ID)
}

// Config controls one run. Dt and Duration must be positive.
type Config struct {
	Dt          float64
	Duration    float64
	SampleEvery int // ticks between snapshots; 0 disables sampling
}

// Sample is a copy of the live population at one instant.
type Sample struct {
	T      float64
	IDs    []body.ID
	Pos    []float64 // stride dim, live bodies only, same order as IDs
	Vel    []float64
	Mass   []float64
	Radius []float64
	Temp   []float64
}

// Result collects everything a finished run produced.
type Result struct {
	Times       []float64
	Samples     []Sample
	Metrics     map[string]float64
	EnergyDrift float64
	Removed     []body.ID
	StepsTaken  int
}

type RunError struct {
	Step    int
	Time    float64
	Message string
}

func (e RunError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
