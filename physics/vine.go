package physics

import (
	"fmt"

	"github.com/lixenwraith/toybox/vmath"
)

// GizmoKind selects how a debug gizmo is drawn
type GizmoKind uint8

const (
	GizmoLine GizmoKind = iota
	GizmoDot
)

// GizmoRole names the force or target a gizmo visualises; renderers map it to a colour
type GizmoRole uint8

const (
	RoleTarget GizmoRole = iota
	RoleGravity
	RoleLift
	RolePull
	RoleVelocity
	RoleCorrection
	RoleAccel
)

// Gizmo is one debug overlay primitive, To is ignored for dots
type Gizmo struct {
	Kind     GizmoKind
	Role     GizmoRole
	From, To vmath.Vec2
}

// Record is one traced node sample
type Record struct {
	X, Y   float64
	VX, VY float64
	Speed  float64
}

// VineNode is one rope node; Segment is its rest distance to the node above
type VineNode struct {
	Position vmath.Vec2
	Velocity vmath.Vec2
	Segment  float64
}

// VineSpec describes a hanging vine
type VineSpec struct {
	Start vmath.Vec2
	Step  vmath.Vec2
	Count int
	// Gravity is zero in the classic toy, the pull term alone makes it hang
	Gravity vmath.Vec2
	// Lift scales the spring toward the parent node, nil uses DefaultVineLift
	// and a pointer to 0 turns the spring off
	Lift *float64
	// Record keeps one Record per moving node per update
	Record bool
}

const DefaultVineLift = 0.3

// Vine is a pull-follow rope: each node chases the node above it and is
// then clamped back onto its segment, the constraint is folded into velocity
type Vine struct {
	Nodes   []VineNode
	Gravity vmath.Vec2
	Lift    float64
	// PullDirection is the rest orientation of every segment
	PullDirection vmath.Vec2

	Gizmos  []Gizmo
	Records []Record
	record  bool
}

// NewVine lays nodes out from Start stepping by Step; the first node is the fixed root
func NewVine(spec VineSpec) (*Vine, error) {
	if spec.Count < 1 {
		return nil, fmt.Errorf("%w: vine of %d nodes", ErrInvalidTopology, spec.Count)
	}
	if spec.Count > 1 && vmath.V2MagSq(spec.Step) == 0 {
		return nil, fmt.Errorf("%w: zero vine step", ErrInvalidTopology)
	}
	lift := DefaultVineLift
	if spec.Lift != nil {
		lift = *spec.Lift
	}

	v := &Vine{
		Nodes:         make([]VineNode, 0, spec.Count),
		Gravity:       spec.Gravity,
		Lift:          lift,
		PullDirection: vmath.V2(0, 1),
		record:        spec.Record,
	}
	pos := spec.Start
	v.Nodes = append(v.Nodes, VineNode{Position: pos})
	for i := 1; i < spec.Count; i++ {
		next := vmath.V2Add(pos, spec.Step)
		v.Nodes = append(v.Nodes, VineNode{Position: next, Segment: vmath.V2Dist(pos, next)})
		pos = next
	}
	return v, nil
}

// Update advances every node below the root by dt
func (v *Vine) Update(dt float64) error {
	v.Gizmos = v.Gizmos[:0]
	if len(v.Nodes) == 0 {
		return nil
	}
	pullFrom := v.Nodes[0].Position

	for i := 1; i < len(v.Nodes); i++ {
		n := &v.Nodes[i]

		pullTo := vmath.V2Add(pullFrom, vmath.V2Scale(v.PullDirection, n.Segment))
		lift := vmath.V2Scale(vmath.V2Sub(pullFrom, n.Position), v.Lift)
		pull := vmath.V2Sub(pullTo, n.Position)
		accel := vmath.V2Add(vmath.V2Add(v.Gravity, lift), pull)

		v.gizmo(GizmoDot, RoleTarget, pullTo, pullTo)
		v.gizmo(GizmoLine, RoleGravity, n.Position, vmath.V2Add(n.Position, v.Gravity))
		v.gizmo(GizmoLine, RoleLift, n.Position, vmath.V2Add(n.Position, lift))
		v.gizmo(GizmoLine, RolePull, n.Position, pullTo)

		n.Velocity = vmath.V2Add(n.Velocity, vmath.V2Scale(accel, dt))

		// Unconstrained landing point, then clamp it back onto the segment
		free := vmath.V2Add(n.Position, vmath.V2Scale(n.Velocity, dt))
		offset, err := vmath.V2ClampMagnitude(vmath.V2Sub(free, pullFrom), n.Segment, false)
		if err != nil {
			return fmt.Errorf("vine node %d: %w", i, err)
		}
		clamped := vmath.V2Add(pullFrom, offset)
		fix := vmath.V2Sub(clamped, free)

		v.gizmo(GizmoLine, RoleVelocity, clamped, vmath.V2Add(clamped, n.Velocity))
		v.gizmo(GizmoLine, RoleCorrection, n.Position, clamped)
		v.gizmo(GizmoLine, RoleAccel, n.Position, vmath.V2Add(n.Position, accel))

		n.Velocity = vmath.V2Add(n.Velocity, fix)
		n.Position = clamped

		if v.record {
			v.Records = append(v.Records, Record{
				X:     n.Position.X,
				Y:     n.Position.Y,
				VX:    n.Velocity.X,
				VY:    n.Velocity.Y,
				Speed: vmath.V2Mag(n.Velocity),
			})
		}

		pullFrom = n.Position
	}
	return nil
}

func (v *Vine) gizmo(kind GizmoKind, role GizmoRole, from, to vmath.Vec2) {
	v.Gizmos = append(v.Gizmos, Gizmo{Kind: kind, Role: role, From: from, To: to})
}

// ApplyImpulse adds dv to every non-root node within radius of center
func (v *Vine) ApplyImpulse(center vmath.Vec2, radius float64, dv vmath.Vec2) int {
	r2 := radius * radius
	n := 0
	for i := 1; i < len(v.Nodes); i++ {
		if vmath.V2DistSq(v.Nodes[i].Position, center) <= r2 {
			v.Nodes[i].Velocity = vmath.V2Add(v.Nodes[i].Velocity, dv)
			n++
		}
	}
	return n
}
