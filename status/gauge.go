package status

import (
	"math"
	"sync/atomic"
)

// Gauge is an atomic float64 readable from the HUD while the frame loop writes it
// Zero value is ready to use
type Gauge struct {
	bits atomic.Uint64
}

// Set stores val
func (g *Gauge) Set(val float64) {
	g.bits.Store(math.Float64bits(val))
}

// Get loads the current value
func (g *Gauge) Get() float64 {
	return math.Float64frombits(g.bits.Load())
}

// Add atomically adds delta and returns the new value
func (g *Gauge) Add(delta float64) float64 {
	for {
		old := g.bits.Load()
		next := math.Float64frombits(old) + delta
		if g.bits.CompareAndSwap(old, math.Float64bits(next)) {
			return next
		}
	}
}

// Max raises the gauge to val if val is larger, for peak tracking
func (g *Gauge) Max(val float64) float64 {
	for {
		old := g.bits.Load()
		cur := math.Float64frombits(old)
		if val <= cur {
			return cur
		}
		if g.bits.CompareAndSwap(old, math.Float64bits(val)) {
			return val
		}
	}
}
