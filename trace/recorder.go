package trace

import (
	"github.com/guptarohit/asciigraph"

	"github.com/lixenwraith/toybox/physics"
)

// Recorder accumulates per-step cloth diagnostics for a headless run
type Recorder struct {
	// KeepFrames retains full snapshots for WriteFrames, off by default to bound memory
	KeepFrames bool

	Frames  []physics.Snapshot
	Energy  []float64
	Stretch []float64
}

// Observe samples the cloth after a step
func (r *Recorder) Observe(c *physics.Cloth) {
	r.Energy = append(r.Energy, c.KineticEnergy())
	r.Stretch = append(r.Stretch, c.MaxStretch())
	if r.KeepFrames {
		r.Frames = append(r.Frames, c.Snapshot())
	}
}

// Len returns the number of observed steps
func (r *Recorder) Len() int {
	return len(r.Energy)
}

// PeakStretch returns the worst stretch seen, 0 before any observation
func (r *Recorder) PeakStretch() float64 {
	peak := 0.0
	for _, s := range r.Stretch {
		peak = max(peak, s)
	}
	return peak
}

// Plot renders a series as an ASCII chart, empty for an empty series
func Plot(series []float64, width, height int, caption string) string {
	if len(series) == 0 {
		return ""
	}
	return asciigraph.Plot(series,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(caption),
	)
}
