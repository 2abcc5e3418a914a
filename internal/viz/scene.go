package viz

import "github.com/sphlab/droplet/internal/fluid"

// Scene projects a rectangular window of world space onto a canvas.
// World Y grows upward, raster Y grows downward, so the projection
// flips the vertical axis.
type Scene struct {
	view   fluid.Rect
	canvas *Canvas
}

func NewScene(view fluid.Rect, cols, rows int) *Scene {
	return &Scene{view: view, canvas: NewCanvas(cols, rows)}
}

func (s *Scene) SetView(view fluid.Rect) {
	s.view = view
}

// Project maps a world position to raster coordinates. Points outside
// the view map outside the raster and are dropped by the canvas.
func (s *Scene) Project(p fluid.Vec2) (int, int) {
	dw := float64(s.canvas.DotWidth())
	dh := float64(s.canvas.DotHeight())
	x := (p.X - s.view.X) / s.view.W * dw
	y := (1.0 - (p.Y-s.view.Y)/s.view.H) * dh
	return int(x), int(y)
}

// Render draws the world's boundary segments and fluid particles and
// returns the frame as text.
func (s *Scene) Render(w *fluid.World) string {
	s.canvas.Clear()

	boundary := w.BoundaryPositions()
	for i := 1; i < len(boundary); i++ {
		// Boundary particles are laid out along lines; only join
		// neighbors that are close enough to belong to the same wall.
		if fluid.DistSq(boundary[i-1], boundary[i]) > 4*w.SmoothingLength()*w.SmoothingLength() {
			continue
		}
		x0, y0 := s.Project(boundary[i-1])
		x1, y1 := s.Project(boundary[i])
		s.canvas.DrawLine(x0, y0, x1, y1)
	}

	for _, p := range w.Positions() {
		x, y := s.Project(p)
		s.canvas.Set(x, y)
	}

	return s.canvas.String()
}
