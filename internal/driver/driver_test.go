package driver

import (
	"context"
	"math"
	"testing"

	"github.com/sphlab/droplet/internal/fluid"
	"github.com/sphlab/droplet/internal/metrics"
)

func smallScene() (*fluid.World, *fluid.Solver) {
	w := fluid.NewWorld(1.2, 400.0, 100.0, 30.0, 0.1)
	w.AddFluidRect(fluid.Rect{X: 0.1, Y: 0.1, W: 0.3, H: 0.3}, 0)
	w.AddBoundaryLine(fluid.Vec2{X: 0, Y: 0}, fluid.Vec2{X: 0.5, Y: 0})
	s := fluid.NewSolver(w)
	s.SetWorkers(1)
	return w, s
}

func TestRunnerStepCount(t *testing.T) {
	w, s := smallScene()
	r := New(w, s)

	res, err := r.Run(context.Background(), Config{
		Dt:          1.0 / 1200.0,
		Duration:    0.01,
		WarmupSteps: 5,
		WarmupDt:    1e-10,
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if res.StepsTaken != 12 {
		t.Errorf("StepsTaken = %d, want 12", res.StepsTaken)
	}
	if math.Abs(res.SimTime-0.01) > 1e-9 {
		t.Errorf("SimTime = %g", res.SimTime)
	}
}

func TestRunnerObservers(t *testing.T) {
	w, s := smallScene()
	r := New(w, s)

	hist := metrics.NewHistory(metrics.NewKineticEnergy())
	r.AddObserver(hist)

	res, err := r.Run(context.Background(), Config{Dt: 1e-4, Duration: 1e-3})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(hist.Values()) != res.StepsTaken {
		t.Errorf("observed %d samples, want %d", len(hist.Values()), res.StepsTaken)
	}
}

func TestRunnerCancellation(t *testing.T) {
	w, s := smallScene()
	r := New(w, s)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := r.Run(ctx, Config{Dt: 1e-4, Duration: 1.0})
	if err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if res.StepsTaken != 0 {
		t.Errorf("StepsTaken = %d after immediate cancel", res.StepsTaken)
	}
}

func TestRunnerValidation(t *testing.T) {
	w, s := smallScene()
	r := New(w, s)

	cases := []Config{
		{Dt: 0, Duration: 1},
		{Dt: 1e-3, Duration: 0},
		{Dt: 1e-3, Duration: 1, WarmupSteps: 10, WarmupDt: 0},
	}
	for i, cfg := range cases {
		if _, err := r.Run(context.Background(), cfg); err == nil {
			t.Errorf("case %d: config %+v accepted", i, cfg)
		}
	}
}

func TestAccumulatorCarriesRemainder(t *testing.T) {
	a := NewAccumulator(0.01, 100)

	steps, dt := a.Advance(0.015)
	if steps != 1 || dt != 0.01 {
		t.Fatalf("first frame: steps=%d dt=%g", steps, dt)
	}
	// 0.005 carried over, so the next 0.015 yields two steps.
	steps, _ = a.Advance(0.015)
	if steps != 2 {
		t.Errorf("second frame: steps=%d, want 2", steps)
	}
}

func TestAccumulatorCapsSlowFrames(t *testing.T) {
	a := NewAccumulator(0.001, 4)

	steps, _ := a.Advance(10.0)
	if steps != 4 {
		t.Fatalf("steps=%d, want cap of 4", steps)
	}
	// Excess time is dropped, not carried.
	steps, _ = a.Advance(0)
	if steps != 0 {
		t.Errorf("steps=%d after drop, want 0", steps)
	}
}

func TestAccumulatorWarmup(t *testing.T) {
	a := NewAccumulator(0.01, 3)
	a.SetWarmup(7, 1e-10)

	total := 0
	for a.Warming() {
		steps, dt := a.Advance(1.0)
		if dt != 1e-10 {
			t.Fatalf("warm-up dt = %g", dt)
		}
		total += steps
	}
	if total != 7 {
		t.Errorf("warm-up steps = %d, want 7", total)
	}

	// Elapsed time during warm-up was discarded.
	steps, dt := a.Advance(0.02)
	if steps != 2 || dt != 0.01 {
		t.Errorf("post warm-up: steps=%d dt=%g", steps, dt)
	}
}
