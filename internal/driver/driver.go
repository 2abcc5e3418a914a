// Package driver owns the stepping loop around the fluid core: warm-up
// steps, headless runs and the fixed-timestep accumulator used by the
// interactive front ends. The core itself keeps no clock.
package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/sphlab/droplet/internal/fluid"
)

// Observer is notified after every simulation step.
type Observer interface {
	Observe(w *fluid.World, t float64)
}

type Config struct {
	Dt          float64
	Duration    float64
	WarmupSteps int
	WarmupDt    float64
}

type Result struct {
	StepsTaken int
	SimTime    float64
	WallTime   time.Duration
}

// Runner advances one world with one solver for a fixed duration.
type Runner struct {
	world     *fluid.World
	solver    *fluid.Solver
	observers []Observer
}

func New(w *fluid.World, s *fluid.Solver) *Runner {
	return &Runner{world: w, solver: s}
}

func (r *Runner) AddObserver(o Observer) {
	r.observers = append(r.observers, o)
}

// Run performs the configured warm-up followed by fixed-dt stepping until
// the duration is reached, the context is canceled, or the solver reports a
// failure. Warm-up steps settle the initial lattice and are not observed or
// counted towards simulated time.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	start := time.Now()
	result := &Result{}

	for i := 0; i < cfg.WarmupSteps; i++ {
		if err := r.solver.Step(r.world, cfg.WarmupDt); err != nil {
			return result, fmt.Errorf("warm-up step %d: %w", i, err)
		}
	}

	// The epsilon keeps durations that are exact multiples of dt from
	// truncating a step to rounding.
	steps := int(cfg.Duration/cfg.Dt + 1e-9)
	t := 0.0
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if err := r.solver.Step(r.world, cfg.Dt); err != nil {
			return result, fmt.Errorf("step %d (t=%.4f): %w", i, t, err)
		}
		t += cfg.Dt
		result.StepsTaken++
		result.SimTime = t

		for _, o := range r.observers {
			o.Observe(r.world, t)
		}
	}

	result.WallTime = time.Since(start)
	return result, nil
}

func validate(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %g", cfg.Duration)
	}
	if cfg.WarmupSteps > 0 && cfg.WarmupDt <= 0 {
		return fmt.Errorf("warmup_dt must be positive, got %g", cfg.WarmupDt)
	}
	return nil
}
