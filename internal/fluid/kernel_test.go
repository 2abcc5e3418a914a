package fluid

import (
	"math"
	"testing"
)

// integrateOverDisk evaluates ∫ W(r) dA over the 2D disk of radius h in
// polar coordinates with a midpoint rule.
func integrateOverDisk(h float64, w func(rSq, r float64) float64) float64 {
	const steps = 20000
	dr := h / steps
	sum := 0.0
	for i := 0; i < steps; i++ {
		r := (float64(i) + 0.5) * dr
		sum += w(r*r, r) * 2.0 * math.Pi * r * dr
	}
	return sum
}

func TestPoly6UnitIntegral(t *testing.T) {
	for _, h := range []float64{0.024, 0.1, 1.0, 3.5} {
		k := NewPoly6(h)
		got := integrateOverDisk(h, k.Evaluate)
		if math.Abs(got-1.0) > 1e-3 {
			t.Errorf("h=%g: poly6 integral = %g, want 1", h, got)
		}
	}
}

func TestSpikyUnitIntegral(t *testing.T) {
	for _, h := range []float64{0.024, 0.1, 1.0, 3.5} {
		k := NewSpiky(h)
		got := integrateOverDisk(h, k.Evaluate)
		if math.Abs(got-1.0) > 1e-3 {
			t.Errorf("h=%g: spiky integral = %g, want 1", h, got)
		}
	}
}

func TestKernelsVanishOutsideSupport(t *testing.T) {
	const h = 0.5
	poly6 := NewPoly6(h)
	spiky := NewSpiky(h)
	visc := NewViscosity(h)

	for _, r := range []float64{h, h * 1.0001, h * 2, h * 100} {
		rSq := r * r
		if got := poly6.Evaluate(rSq, r); got != 0 {
			t.Errorf("poly6(%g) = %g, want 0", r, got)
		}
		if got := spiky.Evaluate(rSq, r); got != 0 {
			t.Errorf("spiky(%g) = %g, want 0", r, got)
		}
		if got := spiky.Gradient(Vec2{X: r}, rSq, r); got != (Vec2{}) {
			t.Errorf("spiky gradient(%g) = %v, want zero", r, got)
		}
		if got := visc.Laplacian(rSq, r); got != 0 {
			t.Errorf("viscosity laplacian(%g) = %g, want 0", r, got)
		}
	}
}

func TestPoly6PeaksAtZero(t *testing.T) {
	k := NewPoly6(1.0)
	prev := math.Inf(1)
	for _, r := range []float64{0, 0.1, 0.3, 0.6, 0.9, 0.999} {
		cur := k.Evaluate(r*r, r)
		if cur > prev {
			t.Fatalf("poly6 not monotonically decreasing at r=%g", r)
		}
		prev = cur
	}
	if k.Evaluate(0, 0) <= 0 {
		t.Error("poly6 self-contribution must be positive")
	}
}

func TestSpikyGradientMatchesFiniteDifference(t *testing.T) {
	const h = 0.8
	k := NewSpiky(h)
	const eps = 1e-7

	for _, r := range []float64{0.05, 0.2, 0.4, 0.7} {
		fd := (k.Evaluate((r+eps)*(r+eps), r+eps) - k.Evaluate((r-eps)*(r-eps), r-eps)) / (2 * eps)

		// Pair displaced along x: gradient must point along -x (downhill
		// away from the peak means dW/dr < 0 toward the neighbor).
		grad := k.Gradient(Vec2{X: r}, r*r, r)
		if grad.Y != 0 {
			t.Fatalf("gradient off-axis for axis-aligned pair: %v", grad)
		}
		if math.Abs(grad.X-fd) > math.Abs(fd)*1e-4 {
			t.Errorf("r=%g: gradient %g, finite difference %g", r, grad.X, fd)
		}
		if grad.X >= 0 {
			t.Errorf("r=%g: gradient must be negative along the pair axis", r)
		}
	}
}

func TestSpikyGradientSteepensTowardZero(t *testing.T) {
	k := NewSpiky(1.0)
	near := k.Gradient(Vec2{X: 0.01}, 0.0001, 0.01).Norm()
	far := k.Gradient(Vec2{X: 0.5}, 0.25, 0.5).Norm()
	if near <= far {
		t.Errorf("spiky gradient must steepen near zero: |∇W(0.01)|=%g, |∇W(0.5)|=%g", near, far)
	}
}

func TestViscosityLaplacian(t *testing.T) {
	k := NewViscosity(1.0)
	prev := math.Inf(1)
	for _, r := range []float64{0.05, 0.2, 0.5, 0.8, 0.99} {
		got := k.Laplacian(r*r, r)
		if got < 0 {
			t.Errorf("laplacian negative at r=%g: %g", r, got)
		}
		if got > prev {
			t.Errorf("laplacian must decrease with distance, r=%g", r)
		}
		prev = got
	}
}

func TestKernelSupportsAgree(t *testing.T) {
	// All kernels are built from the same h so their supports coincide.
	const h = 0.042
	poly6 := NewPoly6(h)
	spiky := NewSpiky(h)
	visc := NewViscosity(h)

	inside := h * 0.999
	if poly6.Evaluate(inside*inside, inside) == 0 ||
		spiky.Evaluate(inside*inside, inside) == 0 ||
		visc.Laplacian(inside*inside, inside) == 0 {
		t.Error("kernels must be non-zero just inside the shared support")
	}
}
