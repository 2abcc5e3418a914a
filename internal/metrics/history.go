package metrics

import "github.com/sphlab/droplet/internal/fluid"

// History wraps a metric and records its value at every observation, for
// plotting after a run.
type History struct {
	Metric
	values []float64
	times  []float64
}

func NewHistory(m Metric) *History {
	return &History{Metric: m}
}

func (h *History) Observe(w *fluid.World, t float64) {
	h.Metric.Observe(w, t)
	h.values = append(h.values, h.Metric.Value())
	h.times = append(h.times, t)
}

func (h *History) Values() []float64 { return h.values }

func (h *History) Times() []float64 { return h.times }

func (h *History) Reset() {
	h.Metric.Reset()
	h.values = h.values[:0]
	h.times = h.times[:0]
}
