package fluid

import "math"

// Smoothing kernels for 2D SPH, following "Particle-Based Fluid Simulation
// for Interactive Applications" (Müller et al. 2003) with coefficients
// renormalized so each kernel integrates to one over the 2D disk of radius h
// (the classic constants in that paper are for 3D).
//
// Each kernel is parameterized by the smoothing length once at construction
// and is immutable afterwards; all call sites share the same value.

// Poly6 is the density estimation kernel. Smooth with its peak at distance
// zero, so it is safe to evaluate for a particle's self-contribution.
type Poly6 struct {
	hSq        float64
	normalizer float64
}

func NewPoly6(smoothingLength float64) Poly6 {
	h2 := smoothingLength * smoothingLength
	h8 := h2 * h2 * h2 * h2
	return Poly6{
		hSq:        h2,
		normalizer: 4.0 / (math.Pi * h8),
	}
}

// Evaluate returns the kernel weight for a pair at squared distance rSq.
// The scalar distance argument is unused by this kernel but kept so all
// kernels share the same call shape.
func (k Poly6) Evaluate(rSq, _ float64) float64 {
	if rSq >= k.hSq {
		return 0
	}
	d := k.hSq - rSq
	return k.normalizer * d * d * d
}

// Spiky is the pressure kernel. Its gradient stays steep towards distance
// zero, which keeps particles from clustering. Only the gradient is ever
// used; the kernel value itself must not be evaluated at distance zero.
type Spiky struct {
	h              float64
	hSq            float64
	normalizer     float64
	gradNormalizer float64
}

func NewSpiky(smoothingLength float64) Spiky {
	h := smoothingLength
	h5 := h * h * h * h * h
	return Spiky{
		h:              h,
		hSq:            h * h,
		normalizer:     10.0 / (math.Pi * h5),
		gradNormalizer: -30.0 / (math.Pi * h5),
	}
}

func (k Spiky) Evaluate(rSq, r float64) float64 {
	if rSq >= k.hSq {
		return 0
	}
	d := k.h - r
	return k.normalizer * d * d * d
}

// Gradient returns the kernel gradient with respect to the first particle of
// the pair. riToRj is ri - rj, rSq its squared length and r its length.
// r must be greater than zero.
func (k Spiky) Gradient(riToRj Vec2, rSq, r float64) Vec2 {
	if rSq >= k.hSq {
		return Vec2{}
	}
	d := k.h - r
	return riToRj.Scale(k.gradNormalizer * d * d / r)
}

// Viscosity is the kernel whose laplacian diffuses relative velocity. The
// laplacian uses Müller's simplified positive linear form; its overall scale
// folds into the dynamic viscosity coefficient (see DESIGN.md).
type Viscosity struct {
	h             float64
	hSq           float64
	lapNormalizer float64
}

func NewViscosity(smoothingLength float64) Viscosity {
	h := smoothingLength
	h6 := h * h * h * h * h * h
	return Viscosity{
		h:             h,
		hSq:           h * h,
		lapNormalizer: 45.0 / (math.Pi * h6),
	}
}

// Laplacian returns the scalar laplacian weight for a pair at distance r.
// Non-negative inside the support, zero outside.
func (k Viscosity) Laplacian(rSq, r float64) float64 {
	if rSq >= k.hSq {
		return 0
	}
	return k.lapNormalizer * (k.h - r)
}
