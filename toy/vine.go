package toy

import (
	"fmt"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/toybox/input"
	"github.com/lixenwraith/toybox/physics"
	"github.com/lixenwraith/toybox/render"
	"github.com/lixenwraith/toybox/status"
	"github.com/lixenwraith/toybox/vmath"
)

var gizmoColors = map[physics.GizmoRole]tcell.Color{
	physics.RoleTarget:     render.RgbYellow,
	physics.RoleGravity:    render.RgbRed,
	physics.RoleLift:       render.RgbGreen,
	physics.RolePull:       render.RgbBlue,
	physics.RoleVelocity:   render.RgbYellow,
	physics.RoleCorrection: render.RgbPink,
	physics.RoleAccel:      render.RgbOrange,
}

// GizmoColor returns the overlay colour of a role
func GizmoColor(role physics.GizmoRole) tcell.Color {
	if c, ok := gizmoColors[role]; ok {
		return c
	}
	return render.RgbGray
}

// Vine drives a pull-follow rope with its force overlay; g toggles the overlay
type Vine struct {
	Sim *physics.Vine
	// ShowGizmos draws the per-node force overlay
	ShowGizmos bool

	drag  dragger
	log   *zap.Logger
	time  float64
	lo    vmath.Vec2
	hi    vmath.Vec2
	steps *atomic.Int64
}

// NewVine wraps sim and primes it with a zero-length update so the overlay exists before the first step
func NewVine(sim *physics.Vine, imp Impulse, pl Plucker, log *zap.Logger, metrics *status.Registry) (*Vine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if metrics == nil {
		metrics = status.NewRegistry()
	}
	if err := sim.Update(0); err != nil {
		return nil, fmt.Errorf("prime vine: %w", err)
	}

	v := &Vine{
		Sim:        sim,
		ShowGizmos: true,
		drag:       newDragger(imp, pl, metrics),
		log:        log.Named("vine"),
		steps:      metrics.Counter(status.Steps),
	}

	// The rope swings about its root; frame a square of its full reach around it
	root := sim.Nodes[0].Position
	reach := 0.0
	for _, n := range sim.Nodes {
		reach += n.Segment
	}
	reach = max(reach, 20) * 1.1
	v.lo = vmath.V2(root.X-reach, root.Y-reach/4)
	v.hi = vmath.V2(root.X+reach, root.Y+reach)
	return v, nil
}

// Control toggles the overlay even while stepping is held
func (v *Vine) Control(in input.Snapshot) {
	if in.Keys.Rune('g') {
		v.ShowGizmos = !v.ShowGizmos
	}
}

func (v *Vine) Update(dt float64, in input.Snapshot) error {
	if dv, ok := v.drag.velocity(in, v.time); ok {
		if n := v.Sim.ApplyImpulse(in.Mouse, v.drag.impulse.Radius, dv); n > 0 {
			v.drag.applied(dv)
		}
	}
	if err := v.Sim.Update(dt); err != nil {
		return err
	}
	v.time += dt
	v.steps.Add(1)
	return nil
}

func (v *Vine) Draw(c render.Canvas) {
	nodes := v.Sim.Nodes
	for i := range nodes {
		c.Dot(nodes[i].Position, render.RgbWhite)
		if i > 0 {
			c.Line(nodes[i-1].Position, nodes[i].Position, render.RgbWhite)
		}
	}
	if !v.ShowGizmos {
		return
	}
	for _, g := range v.Sim.Gizmos {
		color := GizmoColor(g.Role)
		if g.Kind == physics.GizmoDot {
			c.Dot(g.From, color)
			continue
		}
		c.Line(g.From, g.To, color)
	}
}

// Records returns the trace gathered so far
func (v *Vine) Records() []physics.Record {
	return v.Sim.Records
}

func (v *Vine) WorldBounds() (vmath.Vec2, vmath.Vec2) {
	return v.lo, v.hi
}

// Frame is a fixed visible rectangle for toys that do not report their own
type Frame struct {
	Lo, Hi vmath.Vec2
}

func (f Frame) WorldBounds() (vmath.Vec2, vmath.Vec2) {
	return f.Lo, f.Hi
}
