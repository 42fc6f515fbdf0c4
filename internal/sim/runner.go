package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/kossner/accrete/internal/body"
	"github.com/kossner/accrete/internal/gravity"
	"github.com/kossner/accrete/internal/metrics"
)

// Runner drives a gravity.Step over a fixed-dt schedule. Ticks are atomic:
// cancellation is only observed between them, never inside one.
type Runner struct {
	step      *gravity.Step
	metrics   []Metric
	observers []Observer
}

func New(step *gravity.Step) *Runner {
	return &Runner{step: step}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func validate(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

// Run advances the batch until Duration elapses or ctx is cancelled. The
// partial Result is returned alongside the context error on cancellation.
func (r *Runner) Run(ctx context.Context, b *body.Batch, cfg Config) (*Result, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		Times:   make([]float64, 0, steps),
		Metrics: make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	consts := r.step.Consts
	initialEnergy := metrics.TotalEnergy(b, consts)

	t := 0.0
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			r.finish(result, b, initialEnergy)
			return result, ctx.Err()
		default:
		}

		removed := r.step.Tick(b, cfg.Dt)
		t += cfg.Dt
		result.StepsTaken++
		result.Times = append(result.Times, t)
		result.Removed = append(result.Removed, removed...)

		if err := checkFinite(b, i, t); err != nil {
			r.finish(result, b, initialEnergy)
			return result, err
		}

		for _, m := range r.metrics {
			m.Observe(b, t)
		}
		for _, o := range r.observers {
			o.OnTick(b, t, removed)
		}
		if cfg.SampleEvery > 0 && i%cfg.SampleEvery == 0 {
			result.Samples = append(result.Samples, Snapshot(b, t))
		}
	}

	r.finish(result, b, initialEnergy)
	return result, nil
}

// checkFinite aborts a run whose state has diverged, usually from a timestep
// too large for the closest encounter.
func checkFinite(b *body.Batch, step int, t float64) error {
	dim := b.Dim
	for _, i := range b.Live(nil) {
		for d := 0; d < dim; d++ {
			v := b.Pos[i*dim+d]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return RunError{Step: step, Time: t, Message: fmt.Sprintf("non-finite position on body %d", b.IDOf(i))}
			}
		}
	}
	return nil
}

func (r *Runner) finish(result *Result, b *body.Batch, initialEnergy float64) {
	final := metrics.TotalEnergy(b, r.step.Consts)
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(final-initialEnergy) / math.Abs(initialEnergy)
	}
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// RunWithCallback steps the batch, handing control to the callback after
// every tick; returning false stops the run. Used by the live view.
func (r *Runner) RunWithCallback(ctx context.Context, b *body.Batch, cfg Config, callback func(b *body.Batch, t float64) bool) error {
	if err := validate(cfg); err != nil {
		return err
	}

	t := 0.0
	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		r.step.Tick(b, cfg.Dt)
		t += cfg.Dt
		if !callback(b, t) {
			return nil
		}
	}
	return nil
}

// Snapshot copies the live population out of the batch.
func Snapshot(b *body.Batch, t float64) Sample {
	live := b.Live(nil)
	dim := b.Dim
	s := Sample{
		T:      t,
		IDs:    make([]body.ID, 0, len(live)),
		Pos:    make([]float64, 0, len(live)*dim),
		Vel:    make([]float64, 0, len(live)*dim),
		Mass:   make([]float64, 0, len(live)),
		Radius: make([]float64, 0, len(live)),
		Temp:   make([]float64, 0, len(live)),
	}
	for _, i := range live {
		s.IDs = append(s.IDs, b.IDOf(i))
		s.Pos = append(s.Pos, b.Pos[i*dim:i*dim+dim]...)
		s.Vel = append(s.Vel, b.Vel[i*dim:i*dim+dim]...)
		s.Mass = append(s.Mass, b.Mass[i])
		s.Radius = append(s.Radius, b.Radius[i])
		s.Temp = append(s.Temp, b.Temp[i])
	}
	return s
}
