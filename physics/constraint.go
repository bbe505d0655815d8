package physics

import (
	"fmt"

	"github.com/lixenwraith/toybox/vmath"
)

// Tolerance band around the rest length; no hard positional correction happens inside it
const (
	MinRatio = 0.9
	MaxRatio = 1.1
)

// Constraint keeps two particles near a rest length
// Endpoint order matters only for error messages; both anchored cases are handled symmetrically
type Constraint struct {
	A, B *Particle

	// RestLength is the endpoint distance at construction, immutable afterward
	RestLength float64
}

// resolution is the outcome of one constraint against a pair of positions
// a and b are the endpoint positions after the hard clamp
type resolution struct {
	a, b       vmath.Vec2
	accA, accB vmath.Vec2
}

// NewConstraint measures the current distance as rest length
// Coincident endpoints have no direction and are rejected
func NewConstraint(a, b *Particle) (*Constraint, error) {
	if a == nil || b == nil {
		return nil, ErrNilParticle
	}
	rest := vmath.V2Dist(a.Position, b.Position)
	if rest == 0 {
		return nil, fmt.Errorf("%w at (%g, %g)", ErrCoincident, a.Position.X, a.Position.Y)
	}
	return &Constraint{A: a, B: b, RestLength: rest}, nil
}

// Stretch returns current length over rest length
func (c *Constraint) Stretch() float64 {
	return vmath.V2Dist(c.A.Position, c.B.Position) / c.RestLength
}

// MaxLength is the upper edge of the tolerance band
func (c *Constraint) MaxLength() float64 {
	return c.RestLength * MaxRatio
}

// MinLength is the lower edge of the tolerance band
func (c *Constraint) MinLength() float64 {
	return c.RestLength * MinRatio
}

// Resolve applies one corrective pass in place
// Positions move only on gross violations; the soft pull lands in the acceleration accumulators
func (c *Constraint) Resolve() error {
	r, err := c.solve(c.A.Position, c.B.Position)
	if err != nil {
		return err
	}
	if !c.A.Fixed {
		c.A.Position = r.a
		c.A.Accelerate(r.accA)
	}
	if !c.B.Fixed {
		c.B.Position = r.b
		c.B.Accelerate(r.accB)
	}
	return nil
}

// solve computes the correction for the given endpoint positions without mutating particles
func (c *Constraint) solve(pa, pb vmath.Vec2) (resolution, error) {
	r := resolution{a: pa, b: pb}
	var err error

	switch {
	case c.A.Fixed && c.B.Fixed:
		// Geometry between two pins never needs correction
		return r, nil
	case c.A.Fixed:
		r.b, r.accB, err = c.anchored(pa, pb)
	case c.B.Fixed:
		r.a, r.accA, err = c.anchored(pb, pa)
	default:
		r, err = c.free(pa, pb)
	}
	if err != nil {
		return r, fmt.Errorf("constraint %d-%d: %w", c.A.index, c.B.index, err)
	}
	return r, nil
}

// anchored handles one pinned endpoint
// Snap to the band edge when over it, then nudge toward the nominal rest length
func (c *Constraint) anchored(anchor, mobile vmath.Vec2) (vmath.Vec2, vmath.Vec2, error) {
	delta := vmath.V2Sub(mobile, anchor)
	limit := c.MaxLength()

	if vmath.V2Mag(delta) > limit {
		snapped, err := vmath.V2ClampMagnitude(delta, limit, true)
		if err != nil {
			return mobile, vmath.Vec2{}, err
		}
		mobile = vmath.V2Add(anchor, snapped)
	}

	rest, err := vmath.V2ClampMagnitude(delta, c.RestLength, false)
	if err != nil {
		return mobile, vmath.Vec2{}, err
	}
	ideal := vmath.V2Add(anchor, rest)
	return mobile, vmath.V2Sub(ideal, mobile), nil
}

// free handles two mobile endpoints symmetrically
// delta is sampled before the pull, the ideal positions use post-pull endpoints
func (c *Constraint) free(pa, pb vmath.Vec2) (resolution, error) {
	delta := vmath.V2Sub(pb, pa)
	limit := c.MaxLength()

	if vmath.V2Mag(delta) > limit {
		var err error
		pa, pb, err = PullTogether(pa, pb, limit)
		if err != nil {
			return resolution{a: pa, b: pb}, err
		}
	}

	towardB, err := vmath.V2ClampMagnitude(delta, c.RestLength, false)
	if err != nil {
		return resolution{a: pa, b: pb}, err
	}
	towardA, err := vmath.V2ClampMagnitude(vmath.V2Neg(delta), c.RestLength, false)
	if err != nil {
		return resolution{a: pa, b: pb}, err
	}

	idealB := vmath.V2Add(pa, towardB)
	idealA := vmath.V2Add(pb, towardA)

	return resolution{
		a:    pa,
		b:    pb,
		accA: vmath.V2Sub(idealA, pa),
		accB: vmath.V2Sub(idealB, pb),
	}, nil
}

// PullTogether moves a and b toward their midpoint until each lies at most length/2 from it
func PullTogether(a, b vmath.Vec2, length float64) (vmath.Vec2, vmath.Vec2, error) {
	center := vmath.V2Lerp(a, b, 0.5)
	half := length / 2

	da, err := vmath.V2ClampMagnitude(vmath.V2Sub(a, center), half, true)
	if err != nil {
		return a, b, err
	}
	db, err := vmath.V2ClampMagnitude(vmath.V2Sub(b, center), half, true)
	if err != nil {
		return a, b, err
	}
	return vmath.V2Add(center, da), vmath.V2Add(center, db), nil
}
