package status

import (
	"fmt"
	"sync/atomic"
)

// Well-known metric names shared by the loop, toys and HUD
const (
	Frames      = "loop.frames"
	Steps       = "sim.steps"
	Impulses    = "sim.impulses"
	Throttled   = "sim.impulses_throttled"
	MaxStretch  = "sim.max_stretch"
	PeakStretch = "sim.peak_stretch"
	Energy      = "sim.kinetic_energy"
	Clients     = "stream.clients"
	Dropped     = "stream.dropped_frames"
)

// Registry holds every counter and gauge of the process
type Registry struct {
	Counters *MetricMap[atomic.Int64]
	Gauges   *MetricMap[Gauge]
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		Counters: NewMetricMap[atomic.Int64](),
		Gauges:   NewMetricMap[Gauge](),
	}
}

// Counter is shorthand for Counters.Get
func (r *Registry) Counter(name string) *atomic.Int64 {
	return r.Counters.Get(name)
}

// Gauge is shorthand for Gauges.Get
func (r *Registry) Gauge(name string) *Gauge {
	return r.Gauges.Get(name)
}

// Snapshot copies every metric into a plain map, counters as float64
func (r *Registry) Snapshot() map[string]float64 {
	out := make(map[string]float64, r.Counters.Count()+r.Gauges.Count())
	r.Counters.Range(func(k string, v *atomic.Int64) {
		out[k] = float64(v.Load())
	})
	r.Gauges.Range(func(k string, v *Gauge) {
		out[k] = v.Get()
	})
	return out
}

// Lines formats metrics for the HUD, counters first, each group sorted
func (r *Registry) Lines() []string {
	lines := make([]string, 0, r.Counters.Count()+r.Gauges.Count())
	r.Counters.Range(func(k string, v *atomic.Int64) {
		lines = append(lines, fmt.Sprintf("%s=%d", k, v.Load()))
	})
	r.Gauges.Range(func(k string, v *Gauge) {
		lines = append(lines, fmt.Sprintf("%s=%.3f", k, v.Get()))
	})
	return lines
}
