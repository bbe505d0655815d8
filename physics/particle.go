package physics

import "github.com/lixenwraith/toybox/vmath"

// Particle is a point mass driven by the constraint and integration passes
// Acceleration is a per-frame accumulator, cleared by Cloth.EndFrame
type Particle struct {
	Position     vmath.Vec2
	Velocity     vmath.Vec2
	Acceleration vmath.Vec2

	// Mass is carried for future mass-weighted corrections, gravity ignores it
	Mass float64

	// Fixed pins the particle, nothing in the simulation moves it
	Fixed bool

	owner *Cloth
	index int
}

// NewParticle creates a free unit-mass particle at rest
func NewParticle(pos vmath.Vec2) *Particle {
	return &Particle{
		Position: pos,
		Mass:     1,
		index:    -1,
	}
}

// Index returns the insertion index within the owning cloth, -1 when unowned
func (p *Particle) Index() int {
	return p.index
}

// Accelerate adds to the per-frame acceleration accumulator
func (p *Particle) Accelerate(a vmath.Vec2) {
	p.Acceleration = vmath.V2Add(p.Acceleration, a)
}
