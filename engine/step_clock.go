package engine

import (
	"sync/atomic"

	"github.com/lixenwraith/toybox/status"
)

// StepClock gates simulation ticks with a fixed dt
// Running mode advances every frame; step mode advances only after RequestStep
// State is atomic so HUD and stream readers may poll it from other goroutines
type StepClock struct {
	dt float64

	stepMode atomic.Bool
	pending  atomic.Bool

	ticks   atomic.Uint64
	elapsed status.Gauge
}

// NewStepClock creates a clock advancing dt per tick
func NewStepClock(dt float64, stepMode bool) *StepClock {
	c := &StepClock{dt: dt}
	c.stepMode.Store(stepMode)
	return c
}

// DT returns the fixed tick length in seconds
func (c *StepClock) DT() float64 {
	return c.dt
}

// Toggle flips step mode and returns the new state, a pending step is discarded
func (c *StepClock) Toggle() bool {
	for {
		old := c.stepMode.Load()
		if c.stepMode.CompareAndSwap(old, !old) {
			c.pending.Store(false)
			return !old
		}
	}
}

// IsStepMode reports whether ticks wait for RequestStep
func (c *StepClock) IsStepMode() bool {
	return c.stepMode.Load()
}

// RequestStep arms one tick in step mode, repeated requests before the tick collapse
func (c *StepClock) RequestStep() {
	if c.stepMode.Load() {
		c.pending.Store(true)
	}
}

// Advance is called once per frame, it returns dt and true when the simulation should tick
func (c *StepClock) Advance() (float64, bool) {
	if c.stepMode.Load() && !c.pending.CompareAndSwap(true, false) {
		return 0, false
	}
	c.ticks.Add(1)
	c.elapsed.Add(c.dt)
	return c.dt, true
}

// Ticks returns the number of ticks granted
func (c *StepClock) Ticks() uint64 {
	return c.ticks.Load()
}

// Elapsed returns simulated seconds
func (c *StepClock) Elapsed() float64 {
	return c.elapsed.Get()
}
