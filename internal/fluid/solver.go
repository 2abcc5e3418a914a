package fluid

import (
	"math"
	"runtime"
)

// Expected boundary acceleration over the spacing ratio of boundary to
// fluid particles. One consistent convention; see DESIGN.md.
const defaultBoundaryForceFactor = 10.0

// Work below this many particles per stage is not worth spreading across
// goroutines.
const minParallelChunk = 64

// Solver advances a World through the fixed four-stage SPH pipeline:
// leapfrog drift with the previous accelerations, density estimation,
// force estimation, and the closing half-kick with the new accelerations.
//
// All three kernels are built from the world's smoothing length so their
// supports agree. The neighbor grids are rebuilt every step (the boundary
// grid only when boundary particles were added) and no stage observes a
// partially rebuilt grid.
type Solver struct {
	densityKernel   Poly6
	pressureKernel  Spiky
	viscosityKernel Viscosity

	fluidGrid    *NeighborGrid
	boundaryGrid *NeighborGrid

	boundaryForceFactor float64
	workers             int

	// Force accumulation is symmetric (each unordered pair evaluated once,
	// applied with opposite sign to both sides), which is not parallel-safe
	// on a shared array. Each worker scatters into its private buffer here;
	// a reduce pass sums them. This keeps exact pairwise antisymmetry and
	// with it the zero-net-momentum property of the pair pass.
	forceBuffers [][]Vec2
}

// NewSolver creates a solver for the given world's smoothing length.
func NewSolver(w *World) *Solver {
	h := w.SmoothingLength()
	return &Solver{
		densityKernel:       NewPoly6(h),
		pressureKernel:      NewSpiky(h),
		viscosityKernel:     NewViscosity(h),
		fluidGrid:           NewNeighborGrid(h),
		boundaryGrid:        NewNeighborGrid(h),
		boundaryForceFactor: defaultBoundaryForceFactor,
		workers:             runtime.NumCPU(),
	}
}

// SetWorkers caps the number of worker goroutines per stage.
func (s *Solver) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	s.workers = n
}

// Step advances the simulation by dt seconds. It may be called repeatedly
// with externally chosen timesteps, including very small warm-up values; the
// solver keeps no internal clock. A non-finite density or acceleration
// aborts the step with a StepError before the value is integrated.
func (s *Solver) Step(w *World, dt float64) error {
	// Drift and first half-kick with the previous step's accelerations.
	for i := range w.positions {
		a := w.accelerations[i]
		w.positions[i] = w.positions[i].Add(w.velocities[i].Scale(dt)).Add(a.Scale(0.5 * dt * dt))
		w.velocities[i] = w.velocities[i].Add(a.Scale(0.5 * dt))
	}

	if err := s.rebuildGrids(w); err != nil {
		return err
	}

	s.updateDensities(w)
	for i, rho := range w.densities {
		if math.IsNaN(rho) || math.IsInf(rho, 0) {
			return &StepError{Particle: i, Quantity: "density", Wrapped: ErrUnstable}
		}
	}

	s.updateAccelerations(w)
	for i, a := range w.accelerations {
		if !a.IsFinite() {
			return &StepError{Particle: i, Quantity: "acceleration", Wrapped: ErrUnstable}
		}
	}

	// Second half-kick with the accelerations just computed.
	for i := range w.velocities {
		w.velocities[i] = w.velocities[i].Add(w.accelerations[i].Scale(0.5 * dt))
	}
	return nil
}

func (s *Solver) rebuildGrids(w *World) error {
	if err := s.fluidGrid.Build(w.positions); err != nil {
		return err
	}
	if s.boundaryGrid.Len() != len(w.boundaryPositions) {
		if err := s.boundaryGrid.Build(w.boundaryPositions); err != nil {
			return err
		}
	}
	return nil
}

// pressure is the isothermal equation of state (Tait with gamma 1).
func (s *Solver) pressure(w *World, localDensity float64) float64 {
	return w.speedOfSoundSq * (localDensity - w.fluidDensity)
}

// updateDensities is a per-output-particle gather: every worker writes only
// densities[i] and reads shared immutable state, so no synchronization is
// needed.
func (s *Solver) updateDensities(w *World) {
	mass := w.ParticleMass()
	hSq := w.smoothingLength * w.smoothingLength
	selfTerm := s.densityKernel.Evaluate(0.0, 0.0) * mass

	parallelFor(w.Count(), minParallelChunk, s.workers, func(_, start, end int) {
		for i := start; i < end; i++ {
			ri := w.positions[i]
			rho := selfTerm

			s.fluidGrid.ForEachPotentialNeighbor(ri, func(j int) {
				if j == i {
					return
				}
				rSq := DistSq(ri, w.positions[j])
				if rSq > hSq {
					return
				}
				rho += s.densityKernel.Evaluate(rSq, math.Sqrt(rSq)) * mass
			})
			// Boundary particles contribute density but never receive it.
			s.boundaryGrid.ForEachPotentialNeighbor(ri, func(k int) {
				rSq := DistSq(ri, w.boundaryPositions[k])
				if rSq > hSq {
					return
				}
				rho += s.densityKernel.Evaluate(rSq, math.Sqrt(rSq)) * mass
			})

			w.densities[i] = rho
		}
	})
}

func (s *Solver) updateAccelerations(w *World) {
	n := w.Count()
	mass := w.ParticleMass()
	hSq := w.smoothingLength * w.smoothingLength

	if len(s.forceBuffers) != s.workers {
		s.forceBuffers = make([][]Vec2, s.workers)
	}
	for bi := range s.forceBuffers {
		if len(s.forceBuffers[bi]) != n {
			s.forceBuffers[bi] = make([]Vec2, n)
		} else {
			clear(s.forceBuffers[bi])
		}
	}

	parallelFor(n, minParallelChunk, s.workers, func(worker, start, end int) {
		buf := s.forceBuffers[worker]
		for i := start; i < end; i++ {
			ri := w.positions[i]
			rhoi := w.densities[i]
			pi := s.pressure(w, rhoi)

			s.fluidGrid.ForEachPotentialNeighbor(ri, func(j int) {
				// Each unordered pair once; the visit from the lower id
				// covers both sides.
				if j <= i {
					return
				}
				riToRj := ri.Sub(w.positions[j])
				rSq := riToRj.NormSq()
				if rSq > hSq {
					return
				}
				r := math.Sqrt(rSq)
				rhoj := w.densities[j]
				pj := s.pressure(w, rhoj)

				// Symmetric pressure term after Müller et al.:
				// -m (pi + pj) / (2 ρi ρj) ∇W.
				fpressure := s.pressureKernel.Gradient(riToRj, rSq, r).
					Scale(-mass * (pi + pj) / (2.0 * rhoi * rhoj))

				velocityDiff := w.velocities[j].Sub(w.velocities[i])
				fviscosity := velocityDiff.
					Scale(w.viscosity * mass * s.viscosityKernel.Laplacian(rSq, r) / (rhoi * rhoj))

				ftotal := fpressure.Add(fviscosity)
				buf[i] = buf[i].Add(ftotal)
				buf[j] = buf[j].Sub(ftotal)
			})

			// Purely repulsive radial boundary force (Monaghan & Kajtar
			// style); boundary particles never accelerate, so i only.
			s.boundaryGrid.ForEachPotentialNeighbor(ri, func(k int) {
				riToRb := ri.Sub(w.boundaryPositions[k])
				rSq := riToRb.NormSq()
				if rSq > hSq {
					return
				}
				f := s.boundaryForceFactor * s.densityKernel.Evaluate(rSq, math.Sqrt(rSq)) / rSq
				buf[i] = buf[i].Add(riToRb.Scale(f))
			})
		}
	})

	// Reduce the per-worker buffers onto gravity.
	parallelFor(n, minParallelChunk, s.workers, func(_, start, end int) {
		for i := start; i < end; i++ {
			a := w.gravity
			for _, buf := range s.forceBuffers {
				a = a.Add(buf[i])
			}
			w.accelerations[i] = a
		}
	})
}
