package driver

// Accumulator converts variable wall-clock frame times into a bounded
// number of fixed-dt solver steps. Leftover time is carried to the next
// frame; the per-frame cap keeps a slow frame from snowballing into ever
// more work.
type Accumulator struct {
	dt          float64
	acc         float64
	maxPerFrame int
	warmupLeft  int
	warmupDt    float64
}

func NewAccumulator(dt float64, maxPerFrame int) *Accumulator {
	if maxPerFrame < 1 {
		maxPerFrame = 1
	}
	return &Accumulator{dt: dt, maxPerFrame: maxPerFrame}
}

// SetWarmup queues steps that run at warmupDt before any real-time
// stepping begins.
func (a *Accumulator) SetWarmup(steps int, warmupDt float64) {
	a.warmupLeft = steps
	a.warmupDt = warmupDt
}

// Warming reports whether warm-up steps are still pending.
func (a *Accumulator) Warming() bool { return a.warmupLeft > 0 }

// Advance consumes elapsed seconds of wall time and returns how many steps
// to run and at which dt. During warm-up the elapsed time is ignored and
// warm-up steps are handed out instead.
func (a *Accumulator) Advance(elapsed float64) (steps int, dt float64) {
	if a.warmupLeft > 0 {
		steps = a.warmupLeft
		if steps > a.maxPerFrame {
			steps = a.maxPerFrame
		}
		a.warmupLeft -= steps
		return steps, a.warmupDt
	}

	a.acc += elapsed
	steps = int(a.acc / a.dt)
	if steps > a.maxPerFrame {
		steps = a.maxPerFrame
		a.acc = 0
		return steps, a.dt
	}
	a.acc -= float64(steps) * a.dt
	return steps, a.dt
}

// Dt returns the fixed timestep.
func (a *Accumulator) Dt() float64 { return a.dt }
