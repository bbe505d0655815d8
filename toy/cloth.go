// Package toy adapts simulations to the frame loop: input, drawing, metrics and sound
package toy

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/lixenwraith/toybox/input"
	"github.com/lixenwraith/toybox/physics"
	"github.com/lixenwraith/toybox/render"
	"github.com/lixenwraith/toybox/status"
	"github.com/lixenwraith/toybox/vmath"
)

// Impulse tunes mouse drags
type Impulse struct {
	Radius float64
	// Strength scales the drag delta into a velocity change
	Strength  float64
	PerSecond float64
	Burst     int
}

// Plucker sounds an impulse; audio.Plucker satisfies it
type Plucker interface {
	Pluck(strength float64)
}

// simEpoch anchors the limiter clock so throttling follows simulated time
var simEpoch = time.Unix(0, 0)

// dragger turns a held mouse into rate-limited impulses
type dragger struct {
	impulse  Impulse
	limiter  *rate.Limiter
	plucker  Plucker
	last     vmath.Vec2
	dragging bool

	impulses  *atomic.Int64
	throttled *atomic.Int64
}

func newDragger(imp Impulse, pl Plucker, metrics *status.Registry) dragger {
	if imp.Burst < 1 {
		imp.Burst = 1
	}
	return dragger{
		impulse:   imp,
		limiter:   rate.NewLimiter(rate.Limit(imp.PerSecond), imp.Burst),
		plucker:   pl,
		impulses:  metrics.Counter(status.Impulses),
		throttled: metrics.Counter(status.Throttled),
	}
}

// velocity returns the impulse for this frame's drag, false when there is none
func (d *dragger) velocity(in input.Snapshot, elapsed float64) (vmath.Vec2, bool) {
	if !in.MouseHeld {
		d.dragging = false
		return vmath.Vec2{}, false
	}
	prev, was := d.last, d.dragging
	d.last, d.dragging = in.Mouse, true
	if !was {
		return vmath.Vec2{}, false
	}

	delta := vmath.V2Sub(in.Mouse, prev)
	if vmath.V2MagSq(delta) == 0 {
		return vmath.Vec2{}, false
	}
	at := simEpoch.Add(time.Duration(elapsed * float64(time.Second)))
	if !d.limiter.AllowN(at, 1) {
		d.throttled.Add(1)
		return vmath.Vec2{}, false
	}
	return vmath.V2Scale(delta, d.impulse.Strength), true
}

// applied records a landed impulse of velocity dv
func (d *dragger) applied(dv vmath.Vec2) {
	d.impulses.Add(1)
	if d.plucker != nil {
		d.plucker.Pluck(1 + vmath.V2Mag(dv)/10)
	}
}

// Cloth drives a particle cloth, grid chain or diamond
type Cloth struct {
	Sim *physics.Cloth

	drag dragger
	log  *zap.Logger
	lo   vmath.Vec2
	hi   vmath.Vec2

	steps   *atomic.Int64
	stretch *status.Gauge
	peak    *status.Gauge
	energy  *status.Gauge
}

// NewCloth wraps sim; plucker, log and metrics may be nil
// The visible frame is fixed from the initial layout so the view does not chase the cloth
func NewCloth(sim *physics.Cloth, imp Impulse, pl Plucker, log *zap.Logger, metrics *status.Registry) *Cloth {
	if log == nil {
		log = zap.NewNop()
	}
	if metrics == nil {
		metrics = status.NewRegistry()
	}
	c := &Cloth{
		Sim:     sim,
		drag:    newDragger(imp, pl, metrics),
		log:     log.Named("cloth"),
		steps:   metrics.Counter(status.Steps),
		stretch: metrics.Gauge(status.MaxStretch),
		peak:    metrics.Gauge(status.PeakStretch),
		energy:  metrics.Gauge(status.Energy),
	}

	pts := make([]vmath.Vec2, len(sim.Particles))
	for i, p := range sim.Particles {
		pts[i] = p.Position
	}
	c.lo, c.hi = hangingFrame(pts)
	return c
}

// hangingFrame pads the bounding box, with extra room below for sagging
func hangingFrame(pts []vmath.Vec2) (vmath.Vec2, vmath.Vec2) {
	if len(pts) == 0 {
		return vmath.Vec2{}, vmath.V2(100, 100)
	}
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		lo = vmath.V2(math.Min(lo.X, p.X), math.Min(lo.Y, p.Y))
		hi = vmath.V2(math.Max(hi.X, p.X), math.Max(hi.Y, p.Y))
	}
	span := math.Max(math.Max(hi.X-lo.X, hi.Y-lo.Y), 20)
	pad := span / 4
	return vmath.V2(lo.X-pad, lo.Y-pad), vmath.V2(hi.X+pad, hi.Y+pad+span)
}

func (c *Cloth) Update(dt float64, in input.Snapshot) error {
	if dv, ok := c.drag.velocity(in, c.Sim.Elapsed()); ok {
		if n := c.Sim.ApplyImpulse(in.Mouse, c.drag.impulse.Radius, dv); n > 0 {
			c.drag.applied(dv)
			c.log.Debug("impulse", zap.Int("particles", n), zap.Float64("dvx", dv.X), zap.Float64("dvy", dv.Y))
		}
	}

	if err := c.Sim.Step(dt); err != nil {
		return fmt.Errorf("cloth step %d: %w", c.Sim.Steps(), err)
	}

	c.steps.Add(1)
	s := c.Sim.MaxStretch()
	c.stretch.Set(s)
	c.peak.Max(s)
	c.energy.Set(c.Sim.KineticEnergy())
	return nil
}

// Draw shades links by stretch, blue at the compression limit and red at the stretch limit
func (c *Cloth) Draw(canvas render.Canvas) {
	for _, con := range c.Sim.Constraints {
		t := (con.Stretch() - physics.MinRatio) / (physics.MaxRatio - physics.MinRatio)
		canvas.Line(con.A.Position, con.B.Position, render.Heat(t))
	}
	for _, p := range c.Sim.Particles {
		color := render.RgbWhite
		if p.Fixed {
			color = render.RgbRed
		}
		canvas.Dot(p.Position, color)
	}
}

func (c *Cloth) EndFrame() {
	c.Sim.EndFrame()
}

func (c *Cloth) WorldBounds() (vmath.Vec2, vmath.Vec2) {
	return c.lo, c.hi
}
