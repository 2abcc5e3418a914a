package fluid

import (
	"errors"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Solver", func() {
	newWorld := func() *World {
		w := NewWorld(1.2, 100.0, 100.0, 30.0, 0.1)
		w.Reseed(1)
		return w
	}

	Describe("leapfrog integration", func() {
		It("reproduces projectile motion for an isolated particle", func() {
			w := newWorld()
			w.AddFluidRect(Rect{}, 0) // single particle at the origin
			s := NewSolver(w)

			Expect(s.Step(w, 0.1)).To(Succeed())

			// No neighbors and no boundary: pure gravity. One step of
			// dt=0.1 under g=(0,-9.81) gives v=(0,-0.981) and
			// p=(0,-0.04905).
			Expect(w.Velocities()[0].X).To(BeZero())
			Expect(w.Velocities()[0].Y).To(BeNumerically("~", -0.981, 1e-12))
			Expect(w.Positions()[0].X).To(BeZero())
			Expect(w.Positions()[0].Y).To(BeNumerically("~", -0.04905, 1e-12))
		})

		It("accepts very small warm-up timesteps", func() {
			w := newWorld()
			w.AddFluidRect(Rect{W: 0.3, H: 0.3}, 0.05)
			s := NewSolver(w)

			for i := 0; i < 10; i++ {
				Expect(s.Step(w, 1e-10)).To(Succeed())
			}
		})
	})

	Describe("density estimation", func() {
		It("reduces to the self-contribution for a lone particle", func() {
			w := newWorld()
			w.AddFluidRect(Rect{}, 0)
			s := NewSolver(w)

			Expect(s.Step(w, 0.01)).To(Succeed())

			want := NewPoly6(w.SmoothingLength()).Evaluate(0, 0) * w.ParticleMass()
			Expect(w.Densities()[0]).To(BeNumerically("~", want, 1e-12))
		})

		It("includes boundary neighbors as sources", func() {
			w := newWorld()
			w.AddFluidRect(Rect{X: 0.5, Y: 0.01}, 0)
			w.AddBoundaryLine(Vec2{}, Vec2{X: 1})
			s := NewSolver(w)

			Expect(s.Step(w, 1e-9)).To(Succeed())

			selfOnly := NewPoly6(w.SmoothingLength()).Evaluate(0, 0) * w.ParticleMass()
			Expect(w.Densities()[0]).To(BeNumerically(">", selfOnly))
		})
	})

	Describe("force estimation", func() {
		It("conserves momentum over the pair pass", func() {
			w := newWorld()
			w.SetGravity(Vec2{})
			w.AddFluidRect(Rect{W: 0.5, H: 0.5}, 0.4)
			s := NewSolver(w)

			// Random velocities so the viscosity term participates.
			rng := rand.New(rand.NewSource(8))
			for i := range w.velocities {
				w.velocities[i] = Vec2{X: rng.Float64() - 0.5, Y: rng.Float64() - 0.5}
			}

			Expect(s.rebuildGrids(w)).To(Succeed())
			s.updateDensities(w)
			s.updateAccelerations(w)

			// Pairwise pressure and viscosity contributions cancel by
			// Newton's third law; with zero gravity and no boundary the
			// net acceleration sum vanishes (up to summation rounding).
			var sum Vec2
			for _, a := range w.Accelerations() {
				sum = sum.Add(a)
			}
			Expect(sum.X).To(BeNumerically("~", 0, 1e-7))
			Expect(sum.Y).To(BeNumerically("~", 0, 1e-7))
		})

		It("pushes fluid away from boundary particles", func() {
			w := newWorld()
			w.SetGravity(Vec2{})
			w.AddFluidRect(Rect{X: 0.5, Y: 0.02}, 0) // single particle just above the floor
			w.AddBoundaryLine(Vec2{}, Vec2{X: 1})
			s := NewSolver(w)

			Expect(s.rebuildGrids(w)).To(Succeed())
			s.updateDensities(w)
			s.updateAccelerations(w)

			Expect(w.Accelerations()[0].Y).To(BeNumerically(">", 0))
		})
	})

	Describe("numeric stability", func() {
		It("surfaces coincident particles instead of integrating NaN", func() {
			w := newWorld()
			w.AddFluidRect(Rect{X: 0.25, Y: 0.25}, 0)
			w.AddFluidRect(Rect{X: 0.25, Y: 0.25}, 0)
			s := NewSolver(w)

			err := s.Step(w, 0.01)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, ErrUnstable)).To(BeTrue())

			var stepErr *StepError
			Expect(errors.As(err, &stepErr)).To(BeTrue())
			Expect(stepErr.Quantity).To(Equal("acceleration"))
		})
	})

	Describe("particle growth", func() {
		It("supports adding particles between steps", func() {
			w := newWorld()
			w.AddFluidRect(Rect{W: 0.2, H: 0.2}, 0.05)
			s := NewSolver(w)
			Expect(s.Step(w, 0.001)).To(Succeed())

			before := w.Count()
			w.AddFluidRect(Rect{X: 0.5, W: 0.2, H: 0.2}, 0.05)
			Expect(w.Count()).To(BeNumerically(">", before))
			Expect(s.Step(w, 0.001)).To(Succeed())
		})
	})

	Describe("worker configuration", func() {
		It("produces identical results for any worker count", func() {
			run := func(workers int) []Vec2 {
				w := newWorld()
				w.Reseed(21)
				w.AddFluidRect(Rect{X: 0.1, Y: 0.1, W: 0.4, H: 0.4}, 0.05)
				w.AddBoundaryLine(Vec2{}, Vec2{X: 1})
				s := NewSolver(w)
				s.SetWorkers(workers)
				for i := 0; i < 5; i++ {
					Expect(s.Step(w, 0.0005)).To(Succeed())
				}
				return append([]Vec2(nil), w.Positions()...)
			}

			single := run(1)
			parallel := run(8)
			Expect(parallel).To(HaveLen(len(single)))
			for i := range single {
				Expect(parallel[i].X).To(BeNumerically("~", single[i].X, 1e-9))
				Expect(parallel[i].Y).To(BeNumerically("~", single[i].Y, 1e-9))
			}
		})
	})
})
