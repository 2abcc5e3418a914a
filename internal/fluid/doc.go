// Package fluid implements a 2D Smoothed Particle Hydrodynamics (SPH)
// simulation core.
//
// The fluid is a set of discrete particles carrying mass, position, velocity
// and a locally estimated density; continuum quantities (pressure,
// viscosity) are kernel-weighted sums over nearby particles. The package is
// built from four parts:
//
//   - [Poly6], [Spiky], [Viscosity]: smoothing kernels normalized for the
//     2D disk of radius h
//   - [NeighborGrid]: Morton-coded uniform grid answering radius queries
//     without an O(n²) scan
//   - [World]: structure-of-arrays particle store plus global fluid
//     parameters and particle sources
//   - [Solver]: the per-step pipeline turning neighbor sets into densities,
//     forces and a leapfrog position/velocity update
//
// # Stepping
//
//	w := fluid.NewWorld(1.2, 2500, 100, 30, 0.1)
//	w.AddFluidRect(fluid.Rect{X: 0.1, Y: 0.1, W: 0.5, H: 0.8}, 0.05)
//	w.AddBoundaryLine(fluid.Vec2{}, fluid.Vec2{X: 1.5})
//	s := fluid.NewSolver(w)
//	if err := s.Step(w, dt); err != nil { ... }
//
// # Thread safety
//
// A Solver parallelizes internally but its API is not safe for concurrent
// use; drive one World with one Solver from one goroutine.
package fluid
