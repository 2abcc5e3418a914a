package fluid

import (
	"math"
	"math/rand"
)

// World is the particle store plus the global fluid parameters. Per-particle
// state is kept as parallel arrays of equal length, indexed by a stable
// particle id; ids are never reused or compacted (particle removal is
// unsupported). Boundary ("shadow") particles are fixed positions that act
// as density and force sources but never move and carry no state of their
// own.
type World struct {
	positions     []Vec2
	velocities    []Vec2
	accelerations []Vec2
	densities     []float64

	boundaryPositions []Vec2

	smoothingLength float64
	particleDensity float64 // #particles/m² for the resting fluid
	fluidDensity    float64 // kg/m² for the resting fluid
	speedOfSoundSq  float64
	viscosity       float64 // dynamic viscosity in Pa·s
	gravity         Vec2

	rng *rand.Rand
}

// NewWorld creates an empty world. The smoothing length h is derived from
// the rest particle density: twice the rest particle radius times the
// smoothing factor.
func NewWorld(smoothingFactor, particleDensity, fluidDensity, speedOfSound, viscosity float64) *World {
	return &World{
		smoothingLength: 2.0 * particleRadiusFromDensity(particleDensity) * smoothingFactor,
		particleDensity: particleDensity,
		fluidDensity:    fluidDensity,
		speedOfSoundSq:  speedOfSound * speedOfSound,
		viscosity:       viscosity,
		gravity:         Vec2{X: 0.0, Y: -9.81},
		rng:             rand.New(rand.NewSource(1)),
	}
}

func particleRadiusFromDensity(particleDensity float64) float64 {
	// density is per m²
	return 0.5 / math.Sqrt(particleDensity)
}

func (w *World) numParticlesPerMeter() float64 {
	return math.Sqrt(w.particleDensity)
}

// Reseed resets the jitter randomness, making particle placement
// reproducible.
func (w *World) Reseed(seed int64) {
	w.rng = rand.New(rand.NewSource(seed))
}

func (w *World) SmoothingLength() float64 { return w.smoothingLength }

func (w *World) FluidDensity() float64 { return w.fluidDensity }

// ParticleMass is the constant mass carried by every fluid particle,
// derived from the rest densities rather than stored per particle.
func (w *World) ParticleMass() float64 {
	return w.fluidDensity / w.particleDensity
}

func (w *World) Gravity() Vec2 { return w.gravity }

func (w *World) SetGravity(g Vec2) { w.gravity = g }

// Count returns the number of fluid particles.
func (w *World) Count() int { return len(w.positions) }

// Positions returns the position array for rendering. Callers must treat it
// as read-only.
func (w *World) Positions() []Vec2 { return w.positions }

// Velocities returns the velocity array. Read-only for callers.
func (w *World) Velocities() []Vec2 { return w.velocities }

// Accelerations returns the acceleration array, used for heatmap coloring.
// Read-only for callers.
func (w *World) Accelerations() []Vec2 { return w.accelerations }

// Densities returns the locally estimated density array. Read-only for
// callers.
func (w *World) Densities() []float64 { return w.densities }

// BoundaryPositions returns the fixed boundary particle positions.
// Read-only for callers.
func (w *World) BoundaryPositions() []Vec2 { return w.boundaryPositions }

// SuggestedParticleRenderRadius returns a draw radius derived purely from
// the rest particle density.
func (w *World) SuggestedParticleRenderRadius() float64 {
	return particleRadiusFromDensity(w.particleDensity)
}

// AddFluidRect fills an axis-aligned rectangle with a lattice of fluid
// particles spaced by the rest particle density. jitter displaces each
// lattice point by a random offset in [0, jitter·spacing) per axis; 0 gives
// a perfect lattice. A zero-area rect still produces one particle.
//
// New particles start at rest with their acceleration primed to the gravity
// vector, so the first leapfrog drift sees the force an isolated resting
// particle actually experiences.
func (w *World) AddFluidRect(rect Rect, jitter float64) {
	perMeter := w.numParticlesPerMeter()
	numX := latticeCount(rect.W, perMeter)
	numY := latticeCount(rect.H, perMeter)

	num := numX * numY
	w.velocities = append(w.velocities, make([]Vec2, num)...)
	w.densities = append(w.densities, make([]float64, num)...)
	for i := 0; i < num; i++ {
		w.accelerations = append(w.accelerations, w.gravity)
	}

	// Spacing is the tighter of the two axes; a degenerate axis does not
	// collapse the other one.
	stepX := rect.W / float64(numX)
	stepY := rect.H / float64(numY)
	step := stepX
	if step == 0 || (stepY != 0 && stepY < step) {
		step = stepY
	}
	jitterFactor := step * jitter
	for y := 0; y < numY; y++ {
		for x := 0; x < numX; x++ {
			p := Vec2{
				X: rect.X + step*float64(x) + w.rng.Float64()*jitterFactor,
				Y: rect.Y + step*float64(y) + w.rng.Float64()*jitterFactor,
			}
			w.positions = append(w.positions, p)
		}
	}
}

// AddBoundaryLine discretizes the segment from start to end into evenly
// spaced immovable boundary particles at the rest spacing. A zero-length
// segment still produces one particle.
func (w *World) AddBoundaryLine(start, end Vec2) {
	distance := end.Sub(start).Norm()
	num := latticeCount(distance, w.numParticlesPerMeter())

	step := end.Sub(start).Scale(1.0 / float64(num))
	pos := start
	for i := 0; i < num; i++ {
		w.boundaryPositions = append(w.boundaryPositions, pos)
		pos = pos.Add(step)
	}
}

// latticeCount is max(1, floor(extent · perMeter)): degenerate geometry
// clamps to a single particle instead of failing.
func latticeCount(extent, perMeter float64) int {
	n := int(extent * perMeter)
	if n < 1 {
		return 1
	}
	return n
}
