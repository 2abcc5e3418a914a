package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/sphlab/droplet/internal/fluid"
)

// Speed above which the heat map saturates, in m/s.
const heatSpeedCap = 2.5

func (a *App) drawWorld() {
	radius := float32(a.world.SuggestedParticleRenderRadius())

	for _, b := range a.world.BoundaryPositions() {
		rl.DrawCircleV(worldToScreen(b), radius, colBoundary)
	}

	positions := a.world.Positions()
	velocities := a.world.Velocities()
	for i, p := range positions {
		c := rl.SkyBlue
		if a.heat {
			c = heatColor(velocities[i].Norm() / heatSpeedCap)
		}
		rl.DrawCircleV(worldToScreen(p), radius, c)
	}
}

// worldToScreen flips Y; the camera handles scale and translation.
func worldToScreen(p fluid.Vec2) rl.Vector2 {
	return rl.NewVector2(float32(p.X), float32(-p.Y))
}

// heatColor maps t in [0,1] onto a cold-to-hot gradient: blue through
// cyan and yellow to red.
func heatColor(t float64) rl.Color {
	t = math.Max(0, math.Min(1, t))
	var r, g, b float64
	switch {
	case t < 0.25:
		r, g, b = 0, t/0.25, 1
	case t < 0.5:
		r, g, b = 0, 1, 1-(t-0.25)/0.25
	case t < 0.75:
		r, g, b = (t-0.5)/0.25, 1, 0
	default:
		r, g, b = 1, 1-(t-0.75)/0.25, 0
	}
	return rl.NewColor(uint8(r*255), uint8(g*255), uint8(b*255), 255)
}
