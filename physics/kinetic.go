package physics

import "github.com/lixenwraith/toybox/vmath"

// Integrate performs semi-implicit Euler: v = v + a*dt; p = p + v*dt
// Fixed particles are skipped
func Integrate(p *Particle, dt float64) {
	if p.Fixed {
		return
	}
	p.Velocity = vmath.V2Add(p.Velocity, vmath.V2Scale(p.Acceleration, dt))
	p.Position = vmath.V2Add(p.Position, vmath.V2Scale(p.Velocity, dt))
}

// ApplyImpulse adds velocity delta (momentum transfer), returns false for pinned particles
func ApplyImpulse(p *Particle, dv vmath.Vec2) bool {
	if p.Fixed {
		return false
	}
	p.Velocity = vmath.V2Add(p.Velocity, dv)
	return true
}

// KineticEnergy returns ½mv² with mass defaulting to 1 when unset
func KineticEnergy(p *Particle) float64 {
	m := p.Mass
	if m <= 0 {
		m = 1
	}
	return 0.5 * m * vmath.V2MagSq(p.Velocity)
}
