// Package gui is the raylib front end: real-time particle rendering with
// camera pan/zoom and a fixed-timestep stepping loop.
package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/sphlab/droplet/internal/driver"
	"github.com/sphlab/droplet/internal/fluid"
	"github.com/sphlab/droplet/internal/metrics"
)

var (
	colBg       = rl.NewColor(12, 14, 18, 255)
	colBoundary = rl.NewColor(120, 120, 120, 255)
	colText     = rl.NewColor(200, 200, 200, 255)
	colTextDim  = rl.NewColor(110, 110, 110, 255)
	colError    = rl.NewColor(235, 80, 80, 255)
)

const (
	windowWidth  = 1024
	windowHeight = 768
	targetFPS    = 60
)

type Options struct {
	Name        string
	View        fluid.Rect
	Dt          float64
	WarmupSteps int
	WarmupDt    float64
	Workers     int
}

// App owns the window loop. The camera maps world meters to screen
// pixels with Y flipped, since raylib's Y axis points down.
type App struct {
	newWorld func() *fluid.World
	opts     Options

	world  *fluid.World
	solver *fluid.Solver
	acc    *driver.Accumulator
	energy *metrics.KineticEnergy

	camera  rl.Camera2D
	running bool
	heat    bool
	time    float64
	stepErr error
}

func NewApp(newWorld func() *fluid.World, opts Options) *App {
	a := &App{
		newWorld: newWorld,
		opts:     opts,
		energy:   metrics.NewKineticEnergy(),
		running:  true,
		heat:     true,
	}
	maxPerFrame := int(4.0 / (opts.Dt * targetFPS))
	if maxPerFrame < 1 {
		maxPerFrame = 1
	}
	a.acc = driver.NewAccumulator(opts.Dt, maxPerFrame)
	a.reset()
	a.camera = fitCamera(opts.View)
	return a
}

func (a *App) reset() {
	a.world = a.newWorld()
	a.solver = fluid.NewSolver(a.world)
	if a.opts.Workers > 0 {
		a.solver.SetWorkers(a.opts.Workers)
	}
	a.acc.SetWarmup(a.opts.WarmupSteps, a.opts.WarmupDt)
	a.time = 0
	a.stepErr = nil
}

// fitCamera centers the view rectangle in the window. Zoom is pixels per
// meter; the negative offset math accounts for the flipped Y axis.
func fitCamera(view fluid.Rect) rl.Camera2D {
	zoomX := float64(windowWidth) * 0.9 / view.W
	zoomY := float64(windowHeight) * 0.9 / view.H
	zoom := zoomX
	if zoomY < zoom {
		zoom = zoomY
	}
	return rl.Camera2D{
		Target: rl.NewVector2(float32(view.X+view.W/2), float32(-(view.Y + view.H/2))),
		Offset: rl.NewVector2(windowWidth/2, windowHeight/2),
		Zoom:   float32(zoom),
	}
}

// Run opens the window and blocks until it is closed.
func (a *App) Run() error {
	rl.InitWindow(windowWidth, windowHeight, "droplet — "+a.opts.Name)
	defer rl.CloseWindow()
	rl.SetTargetFPS(targetFPS)

	for !rl.WindowShouldClose() {
		a.handleInput()
		if a.running && a.stepErr == nil {
			a.advance(float64(rl.GetFrameTime()))
		}
		a.draw()
	}
	return a.stepErr
}

func (a *App) handleInput() {
	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		a.running = !a.running
	case rl.IsKeyPressed(rl.KeyR):
		a.reset()
	case rl.IsKeyPressed(rl.KeyH):
		a.heat = !a.heat
	case rl.IsKeyPressed(rl.KeyC):
		a.camera = fitCamera(a.opts.View)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.camera.Zoom *= 1 + wheel*0.1
		if a.camera.Zoom < 10 {
			a.camera.Zoom = 10
		}
	}
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		delta := rl.GetMouseDelta()
		a.camera.Target.X -= delta.X / a.camera.Zoom
		a.camera.Target.Y -= delta.Y / a.camera.Zoom
	}
}

func (a *App) advance(elapsed float64) {
	steps, dt := a.acc.Advance(elapsed)
	warming := dt != a.acc.Dt()
	for i := 0; i < steps; i++ {
		if err := a.solver.Step(a.world, dt); err != nil {
			a.stepErr = err
			a.running = false
			return
		}
		if !warming {
			a.time += dt
		}
	}
	a.energy.Observe(a.world, a.time)
}

func (a *App) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(colBg)

	rl.BeginMode2D(a.camera)
	a.drawWorld()
	rl.EndMode2D()

	a.drawOverlay()
	rl.EndDrawing()
}

func (a *App) drawOverlay() {
	rl.DrawText(fmt.Sprintf("t = %.2fs   particles = %d   E = %.4f J   %d fps",
		a.time, a.world.Count(), a.energy.Value(), rl.GetFPS()), 10, 10, 18, colText)

	status := "running"
	switch {
	case a.stepErr != nil:
		status = "failed"
	case a.acc.Warming():
		status = "warming up"
	case !a.running:
		status = "paused"
	}
	rl.DrawText(status, 10, 34, 18, colTextDim)
	if a.stepErr != nil {
		rl.DrawText(a.stepErr.Error(), 10, 58, 18, colError)
	}
	rl.DrawText("space pause  r reset  h heat  c recenter  wheel zoom  drag pan",
		10, windowHeight-28, 16, colTextDim)
}
