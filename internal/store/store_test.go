package store

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sphlab/droplet/internal/fluid"
)

func testWorld() *fluid.World {
	w := fluid.NewWorld(1.2, 2500.0, 100.0, 30.0, 0.1)
	w.AddFluidRect(fluid.Rect{X: 0.1, Y: 0.1, W: 0.2, H: 0.2}, 0)
	w.AddBoundaryLine(fluid.Vec2{X: 0, Y: 0}, fluid.Vec2{X: 1, Y: 0})
	return w
}

func TestRecorderSampling(t *testing.T) {
	w := testWorld()
	r := NewRecorder(3)

	for i := 0; i < 10; i++ {
		r.Observe(w, float64(i)*0.1)
	}

	frames := r.Frames()
	if len(frames) != 4 {
		t.Fatalf("recorded %d frames, want 4 (steps 0,3,6,9)", len(frames))
	}
	if frames[1].Time != 0.3 {
		t.Errorf("second frame at t=%g, want 0.3", frames[1].Time)
	}
	if len(frames[0].Positions) != w.Count() {
		t.Errorf("frame holds %d positions, want %d", len(frames[0].Positions), w.Count())
	}

	// Frames must be snapshots, not views of the live slice.
	w.Positions()[0] = fluid.Vec2{X: 99, Y: 99}
	if frames[3].Positions[0].X == 99 {
		t.Error("frame aliases the world's position slice")
	}
}

func TestSaveAndLoadRun(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	w := testWorld()
	r := NewRecorder(1)
	r.Observe(w, 0.0)
	r.Observe(w, 0.1)

	meta := RunMetadata{
		Preset:    "dam_break",
		Seed:      42,
		Dt:        1.0 / 1200.0,
		Duration:  0.1,
		Steps:     120,
		Particles: w.Count(),
		Metrics:   map[string]float64{"kinetic_energy": 0.25},
	}
	runID, err := s.Save(meta, r.Frames())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "dam_break_") {
		t.Errorf("run ID %q missing preset prefix", runID)
	}

	loaded, err := s.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Seed != 42 || loaded.Particles != w.Count() {
		t.Errorf("metadata round trip lost fields: %+v", loaded)
	}
	if loaded.Metrics["kinetic_energy"] != 0.25 {
		t.Errorf("metrics round trip lost values: %v", loaded.Metrics)
	}

	frames, err := s.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("loaded %d frames, want 2", len(frames))
	}
	for i := range frames[0].Positions {
		if math.Abs(frames[0].Positions[i].X-w.Positions()[i].X) > 1e-5 {
			t.Fatalf("particle %d X drifted through the CSV round trip", i)
		}
	}
}

func TestListRuns(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	runs, err := s.List()
	if err != nil || len(runs) != 0 {
		t.Fatalf("empty store: runs=%v err=%v", runs, err)
	}

	if _, err := s.Save(RunMetadata{Preset: "droplet"}, nil); err != nil {
		t.Fatal(err)
	}
	runs, err = s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Preset != "droplet" {
		t.Errorf("runs = %+v", runs)
	}
}

func TestListMissingDir(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nope"))
	runs, err := s.List()
	if err != nil {
		t.Fatalf("missing base dir should not error: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("runs = %v, want empty", runs)
	}
}

func TestSnapshotSVG(t *testing.T) {
	w := testWorld()
	svg := SnapshotSVG(w, fluid.Rect{X: -0.1, Y: -0.1, W: 1.2, H: 1.2}, 600)

	if !strings.HasPrefix(svg, `<?xml version="1.0"`) {
		t.Error("missing XML header")
	}
	if !strings.Contains(svg, `width="600"`) {
		t.Error("missing width attribute")
	}
	wantCircles := w.Count() + len(w.BoundaryPositions())
	if got := strings.Count(svg, "<circle"); got != wantCircles {
		t.Errorf("snapshot has %d circles, want %d", got, wantCircles)
	}

	path := filepath.Join(t.TempDir(), "snap.svg")
	if err := WriteSnapshotSVG(w, fluid.Rect{W: 1, H: 1}, 300, path); err != nil {
		t.Fatalf("write failed: %v", err)
	}
}
