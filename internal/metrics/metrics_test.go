package metrics

import (
	"math"
	"testing"

	"github.com/sphlab/droplet/internal/fluid"
)

func testWorld() *fluid.World {
	w := fluid.NewWorld(1.2, 100.0, 100.0, 30.0, 0.1)
	w.AddFluidRect(fluid.Rect{W: 0.3, H: 0.3}, 0)
	return w
}

func TestKineticEnergy(t *testing.T) {
	w := testWorld()
	m := NewKineticEnergy()

	m.Observe(w, 0)
	if m.Value() != 0 {
		t.Errorf("fluid at rest should have zero kinetic energy, got %g", m.Value())
	}

	for i := range w.Velocities() {
		w.Velocities()[i] = fluid.Vec2{X: 2}
	}
	m.Observe(w, 0.1)

	want := 0.5 * w.ParticleMass() * 4.0 * float64(w.Count())
	if math.Abs(m.Value()-want) > 1e-9 {
		t.Errorf("kinetic energy = %g, want %g", m.Value(), want)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("reset did not clear value")
	}
}

func TestNetMomentum(t *testing.T) {
	w := testWorld()
	m := NewNetMomentum()

	// Opposite velocities on two particles cancel.
	w.Velocities()[0] = fluid.Vec2{X: 1, Y: -2}
	w.Velocities()[1] = fluid.Vec2{X: -1, Y: 2}
	m.Observe(w, 0)
	if m.Value() > 1e-12 {
		t.Errorf("net momentum = %g, want 0", m.Value())
	}

	w.Velocities()[1] = fluid.Vec2{}
	m.Observe(w, 0)
	want := w.ParticleMass() * math.Sqrt(5)
	if math.Abs(m.Value()-want) > 1e-9 {
		t.Errorf("net momentum = %g, want %g", m.Value(), want)
	}
}

func TestDensityRatio(t *testing.T) {
	w := testWorld()
	w.Densities()[0] = 150.0
	m := NewDensityRatio()
	m.Observe(w, 0)
	if math.Abs(m.Value()-1.5) > 1e-12 {
		t.Errorf("density ratio = %g, want 1.5", m.Value())
	}
}

func TestHistory(t *testing.T) {
	w := testWorld()
	h := NewHistory(NewKineticEnergy())

	for i := 0; i < 5; i++ {
		h.Observe(w, float64(i)*0.1)
	}
	if len(h.Values()) != 5 || len(h.Times()) != 5 {
		t.Fatalf("recorded %d values, %d times; want 5 each", len(h.Values()), len(h.Times()))
	}
	if h.Times()[4] != 0.4 {
		t.Errorf("last time = %g, want 0.4", h.Times()[4])
	}

	h.Reset()
	if len(h.Values()) != 0 {
		t.Error("reset did not clear history")
	}
}
