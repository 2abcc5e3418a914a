package store

import (
	"fmt"
	"os"
	"strings"

	"github.com/sphlab/droplet/internal/fluid"
)

// SnapshotSVG renders the world's particles into an SVG image. The view
// rectangle selects the world window; world Y points up so the vertical
// axis is flipped into SVG coordinates.
func SnapshotSVG(w *fluid.World, view fluid.Rect, widthPx int) string {
	heightPx := int(float64(widthPx) * view.H / view.W)
	scaleX := float64(widthPx) / view.W
	scaleY := float64(heightPx) / view.H
	radius := w.SuggestedParticleRenderRadius() * scaleX

	project := func(p fluid.Vec2) (float64, float64) {
		return (p.X - view.X) * scaleX, float64(heightPx) - (p.Y-view.Y)*scaleY
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0c0e12"/>
`, widthPx, heightPx, widthPx, heightPx))

	sb.WriteString(`<g fill="#787878">` + "\n")
	for _, b := range w.BoundaryPositions() {
		x, y := project(b)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", x, y, radius))
	}
	sb.WriteString("</g>\n")

	sb.WriteString(`<g fill="#53a8e8">` + "\n")
	for _, p := range w.Positions() {
		x, y := project(p)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", x, y, radius))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// WriteSnapshotSVG renders and writes the snapshot to path.
func WriteSnapshotSVG(w *fluid.World, view fluid.Rect, widthPx int, path string) error {
	return os.WriteFile(path, []byte(SnapshotSVG(w, view, widthPx)), 0644)
}
