// Package metrics provides observer-style diagnostics over a fluid world.
// Metrics are observed once per driver step and report a scalar value.
package metrics

import (
	"math"

	"github.com/sphlab/droplet/internal/fluid"
)

type Metric interface {
	Name() string
	Observe(w *fluid.World, t float64)
	Value() float64
	Reset()
}

// KineticEnergy reports ½ m Σ|v|² of the latest observation.
type KineticEnergy struct {
	latest float64
}

func NewKineticEnergy() *KineticEnergy { return &KineticEnergy{} }

func (k *KineticEnergy) Name() string { return "kinetic_energy" }

func (k *KineticEnergy) Observe(w *fluid.World, _ float64) {
	mass := w.ParticleMass()
	sum := 0.0
	for _, v := range w.Velocities() {
		sum += v.NormSq()
	}
	k.latest = 0.5 * mass * sum
}

func (k *KineticEnergy) Value() float64 { return k.latest }

func (k *KineticEnergy) Reset() { k.latest = 0 }

// NetMomentum reports |Σ m v| of the latest observation. With gravity and
// boundaries disabled this stays at zero up to rounding; under gravity it
// tracks the bulk motion of the fluid.
type NetMomentum struct {
	latest float64
}

func NewNetMomentum() *NetMomentum { return &NetMomentum{} }

func (m *NetMomentum) Name() string { return "net_momentum" }

func (m *NetMomentum) Observe(w *fluid.World, _ float64) {
	var sum fluid.Vec2
	for _, v := range w.Velocities() {
		sum = sum.Add(v)
	}
	m.latest = sum.Scale(w.ParticleMass()).Norm()
}

func (m *NetMomentum) Value() float64 { return m.latest }

func (m *NetMomentum) Reset() { m.latest = 0 }

// DensityRatio reports the maximum local density over the rest density seen
// in the latest observation; values far above 1 flag excessive compression.
type DensityRatio struct {
	latest float64
}

func NewDensityRatio() *DensityRatio { return &DensityRatio{} }

func (d *DensityRatio) Name() string { return "density_ratio" }

func (d *DensityRatio) Observe(w *fluid.World, _ float64) {
	maxRho := 0.0
	for _, rho := range w.Densities() {
		maxRho = math.Max(maxRho, rho)
	}
	d.latest = maxRho / w.FluidDensity()
}

func (d *DensityRatio) Value() float64 { return d.latest }

func (d *DensityRatio) Reset() { d.latest = 0 }
