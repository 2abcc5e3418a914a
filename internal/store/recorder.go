// Package store persists simulation runs: a metadata.json with the run
// parameters and summary metrics, a positions.csv with sampled particle
// positions, and optional SVG snapshots.
package store

import "github.com/sphlab/droplet/internal/fluid"

// Frame is one sampled snapshot of the particle positions.
type Frame struct {
	Time      float64
	Positions []fluid.Vec2
}

// Recorder samples particle positions every Nth observed step. It plugs
// into the driver as an observer.
type Recorder struct {
	every  int
	count  int
	frames []Frame
}

// NewRecorder records every nth step; n < 1 records every step.
func NewRecorder(every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{every: every}
}

func (r *Recorder) Observe(w *fluid.World, t float64) {
	r.count++
	if (r.count-1)%r.every != 0 {
		return
	}
	positions := make([]fluid.Vec2, len(w.Positions()))
	copy(positions, w.Positions())
	r.frames = append(r.frames, Frame{Time: t, Positions: positions})
}

func (r *Recorder) Frames() []Frame { return r.frames }
