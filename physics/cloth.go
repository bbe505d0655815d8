package physics

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/toybox/vmath"
)

var (
	ErrNilParticle     = errors.New("physics: nil particle")
	ErrCoincident      = errors.New("physics: coincident endpoints")
	ErrForeignParticle = errors.New("physics: particle belongs to another cloth")
	ErrSelfLink        = errors.New("physics: particle linked to itself")
	ErrInvalidTopology = errors.New("physics: invalid topology")
)

// SolverMode selects how the constraint pass sees particle positions
type SolverMode uint8

const (
	// SolverSequential resolves constraints in slice order, each one seeing
	// the positions already corrected by earlier ones (Gauss-Seidel ordering)
	SolverSequential SolverMode = iota
	// SolverJacobi computes every correction from a frozen snapshot and applies the sums afterward
	SolverJacobi
)

func (m SolverMode) String() string {
	switch m {
	case SolverSequential:
		return "sequential"
	case SolverJacobi:
		return "jacobi"
	default:
		return fmt.Sprintf("solver(%d)", uint8(m))
	}
}

// ParseSolverMode maps a config string to a SolverMode
func ParseSolverMode(s string) (SolverMode, error) {
	switch s {
	case "", "sequential", "gauss-seidel":
		return SolverSequential, nil
	case "jacobi":
		return SolverJacobi, nil
	}
	return SolverSequential, fmt.Errorf("physics: unknown solver %q", s)
}

// ForceField contributes acceleration to free particles during integration
// t is simulated seconds since the cloth was built
type ForceField interface {
	Accel(pos vmath.Vec2, t float64) vmath.Vec2
}

// Cloth owns a particle graph and steps it one frame at a time
// Not safe for concurrent use; the frame driver is the only writer
type Cloth struct {
	// Particles in insertion order
	Particles []*Particle
	// Constraints in resolution order
	Constraints []*Constraint

	Gravity vmath.Vec2
	Forces  []ForceField

	Solver SolverMode
	// Workers > 1 spreads Jacobi correction work across goroutines
	Workers int

	elapsed float64
	steps   uint64
	jacobi  jacobiScratch
}

// NewCloth creates an empty cloth under constant gravity
func NewCloth(gravity vmath.Vec2) *Cloth {
	return &Cloth{Gravity: gravity}
}

// AddParticle appends a particle at pos and returns it
func (c *Cloth) AddParticle(pos vmath.Vec2, fixed bool) *Particle {
	p := NewParticle(pos)
	p.Fixed = fixed
	p.owner = c
	p.index = len(c.Particles)
	c.Particles = append(c.Particles, p)
	return p
}

// Connect links two particles of this cloth at their current distance
func (c *Cloth) Connect(a, b *Particle) (*Constraint, error) {
	if a == nil || b == nil {
		return nil, ErrNilParticle
	}
	if a.owner != c || b.owner != c {
		return nil, ErrForeignParticle
	}
	if a == b {
		return nil, ErrSelfLink
	}
	con, err := NewConstraint(a, b)
	if err != nil {
		return nil, fmt.Errorf("link %d-%d: %w", a.index, b.index, err)
	}
	c.Constraints = append(c.Constraints, con)
	return con, nil
}

// bind claims unowned particles in Particles and refreshes every index, so
// cloths assembled from NewParticle and NewConstraint step like built ones
// A particle of another cloth, or a constraint endpoint missing from Particles, is ErrForeignParticle
func (c *Cloth) bind() error {
	for i, p := range c.Particles {
		if p == nil {
			return fmt.Errorf("%w: slot %d", ErrNilParticle, i)
		}
		if p.owner == nil {
			p.owner = c
		}
		if p.owner != c {
			return fmt.Errorf("%w: slot %d", ErrForeignParticle, i)
		}
		p.index = i
	}
	for i, con := range c.Constraints {
		if !c.owns(con.A) || !c.owns(con.B) {
			return fmt.Errorf("%w: constraint %d", ErrForeignParticle, i)
		}
	}
	return nil
}

// owns reports whether p sits in Particles at its recorded index
func (c *Cloth) owns(p *Particle) bool {
	return p != nil && p.owner == c && p.index >= 0 && p.index < len(c.Particles) && c.Particles[p.index] == p
}

// Step advances one frame: constraint pass, then integration
// Accelerations stay populated for drawing until EndFrame
// A failed constraint pass returns with the corrections made before the failure
// already applied; the cloth is not rolled back and should not be stepped again
func (c *Cloth) Step(dt float64) error {
	if err := c.bind(); err != nil {
		return err
	}

	var err error
	if c.Solver == SolverJacobi {
		err = c.solveJacobi()
	} else {
		err = c.solveSequential()
	}
	if err != nil {
		return err
	}

	for _, p := range c.Particles {
		if p.Fixed {
			continue
		}
		p.Accelerate(c.Gravity)
		for _, f := range c.Forces {
			p.Accelerate(f.Accel(p.Position, c.elapsed))
		}
		Integrate(p, dt)
	}

	c.elapsed += dt
	c.steps++
	return nil
}

// EndFrame zeroes every acceleration accumulator, call after the frame is drawn
func (c *Cloth) EndFrame() {
	for _, p := range c.Particles {
		p.Acceleration = vmath.Vec2{}
	}
}

// Advance is Step followed by EndFrame for drivers that do not draw
func (c *Cloth) Advance(dt float64) error {
	if err := c.Step(dt); err != nil {
		return err
	}
	c.EndFrame()
	return nil
}

func (c *Cloth) solveSequential() error {
	for _, con := range c.Constraints {
		if err := con.Resolve(); err != nil {
			return err
		}
	}
	return nil
}

// ApplyImpulse adds dv to the velocity of every free particle within radius of center
// Returns the number of particles touched
func (c *Cloth) ApplyImpulse(center vmath.Vec2, radius float64, dv vmath.Vec2) int {
	r2 := radius * radius
	n := 0
	for _, p := range c.Particles {
		if vmath.V2DistSq(p.Position, center) > r2 {
			continue
		}
		if ApplyImpulse(p, dv) {
			n++
		}
	}
	return n
}

// Nearest returns the particle closest to pos, nil for an empty cloth
func (c *Cloth) Nearest(pos vmath.Vec2) *Particle {
	var best *Particle
	bestD := 0.0
	for _, p := range c.Particles {
		d := vmath.V2DistSq(p.Position, pos)
		if best == nil || d < bestD {
			best, bestD = p, d
		}
	}
	return best
}

// Steps returns the number of completed steps
func (c *Cloth) Steps() uint64 {
	return c.steps
}

// Elapsed returns simulated seconds
func (c *Cloth) Elapsed() float64 {
	return c.elapsed
}

// KineticEnergy sums ½mv² over free particles
func (c *Cloth) KineticEnergy() float64 {
	total := 0.0
	for _, p := range c.Particles {
		if !p.Fixed {
			total += KineticEnergy(p)
		}
	}
	return total
}

// MaxStretch returns the largest length/rest ratio across constraints, 0 when there are none
func (c *Cloth) MaxStretch() float64 {
	worst := 0.0
	for _, con := range c.Constraints {
		if s := con.Stretch(); s > worst {
			worst = s
		}
	}
	return worst
}

// ParticleState is a read-only copy of one particle
type ParticleState struct {
	Position vmath.Vec2
	Velocity vmath.Vec2
	Fixed    bool
}

// Snapshot is a value copy of the cloth for renderers and exporters
type Snapshot struct {
	Step      uint64
	Elapsed   float64
	Particles []ParticleState
	// Links holds particle indices per constraint, in constraint order
	Links [][2]int
}

// Snapshot copies the current state; a link endpoint outside the cloth is reported as -1
func (c *Cloth) Snapshot() Snapshot {
	_ = c.bind()
	s := Snapshot{
		Step:      c.steps,
		Elapsed:   c.elapsed,
		Particles: make([]ParticleState, len(c.Particles)),
		Links:     make([][2]int, len(c.Constraints)),
	}
	for i, p := range c.Particles {
		s.Particles[i] = ParticleState{Position: p.Position, Velocity: p.Velocity, Fixed: p.Fixed}
	}
	for i, con := range c.Constraints {
		s.Links[i] = [2]int{c.linkIndex(con.A), c.linkIndex(con.B)}
	}
	return s
}

func (c *Cloth) linkIndex(p *Particle) int {
	if !c.owns(p) {
		return -1
	}
	return p.index
}

// Each visits particles in insertion order
func (c *Cloth) Each(fn func(p *Particle)) {
	for _, p := range c.Particles {
		fn(p)
	}
}

// EachConstraint visits constraint endpoints in resolution order
func (c *Cloth) EachConstraint(fn func(a, b vmath.Vec2)) {
	for _, con := range c.Constraints {
		fn(con.A.Position, con.B.Position)
	}
}
