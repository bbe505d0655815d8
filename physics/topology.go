package physics

import (
	"fmt"

	"github.com/lixenwraith/toybox/vmath"
)

// Cell addresses a grid particle
type Cell struct {
	Row, Col int
}

// GridSpec describes a rectangular cloth
type GridSpec struct {
	Cols, Rows int
	Origin     vmath.Vec2
	Spacing    vmath.Vec2
	Gravity    vmath.Vec2
	// Anchors lists pinned cells, nil pins the two top corners
	Anchors []Cell
}

// NewGrid builds a row-major grid linked to right and lower neighbours
// Particle (row, col) sits at index row*Cols+col
func NewGrid(spec GridSpec) (*Cloth, error) {
	if spec.Cols < 1 || spec.Rows < 1 {
		return nil, fmt.Errorf("%w: grid %dx%d", ErrInvalidTopology, spec.Cols, spec.Rows)
	}
	if spec.Cols > 1 && spec.Spacing.X == 0 {
		return nil, fmt.Errorf("%w: zero horizontal spacing", ErrInvalidTopology)
	}
	if spec.Rows > 1 && spec.Spacing.Y == 0 {
		return nil, fmt.Errorf("%w: zero vertical spacing", ErrInvalidTopology)
	}

	c := NewCloth(spec.Gravity)
	at := func(row, col int) *Particle {
		return c.Particles[row*spec.Cols+col]
	}

	for row := 0; row < spec.Rows; row++ {
		for col := 0; col < spec.Cols; col++ {
			pos := vmath.V2(
				spec.Origin.X+float64(col)*spec.Spacing.X,
				spec.Origin.Y+float64(row)*spec.Spacing.Y,
			)
			c.AddParticle(pos, false)
		}
	}

	anchors := spec.Anchors
	if anchors == nil {
		anchors = []Cell{{0, 0}, {0, spec.Cols - 1}}
	}
	for _, a := range anchors {
		if a.Row < 0 || a.Row >= spec.Rows || a.Col < 0 || a.Col >= spec.Cols {
			return nil, fmt.Errorf("%w: anchor (%d, %d) outside %dx%d grid", ErrInvalidTopology, a.Row, a.Col, spec.Cols, spec.Rows)
		}
		at(a.Row, a.Col).Fixed = true
	}

	link := func(a, b *Particle) error {
		_, err := c.Connect(a, b)
		return err
	}

	// Interior cells first, right then down, then the bottom row and right column
	for row := 0; row < spec.Rows-1; row++ {
		for col := 0; col < spec.Cols-1; col++ {
			if err := link(at(row, col), at(row, col+1)); err != nil {
				return nil, err
			}
			if err := link(at(row, col), at(row+1, col)); err != nil {
				return nil, err
			}
		}
	}
	last := spec.Rows - 1
	for col := 0; col < spec.Cols-1; col++ {
		if err := link(at(last, col), at(last, col+1)); err != nil {
			return nil, err
		}
	}
	right := spec.Cols - 1
	for row := 0; row < spec.Rows-1; row++ {
		if err := link(at(row, right), at(row+1, right)); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// ChainSpec describes a 1xN rope
type ChainSpec struct {
	Start   vmath.Vec2
	Step    vmath.Vec2
	Count   int
	Gravity vmath.Vec2
	// Free leaves the first node unpinned
	Free bool
}

// NewChain builds a sequential chain, each node linked to its predecessor
func NewChain(spec ChainSpec) (*Cloth, error) {
	if spec.Count < 2 {
		return nil, fmt.Errorf("%w: chain of %d nodes", ErrInvalidTopology, spec.Count)
	}
	if vmath.V2MagSq(spec.Step) == 0 {
		return nil, fmt.Errorf("%w: zero chain step", ErrInvalidTopology)
	}

	c := NewCloth(spec.Gravity)
	prev := c.AddParticle(spec.Start, !spec.Free)
	for i := 1; i < spec.Count; i++ {
		pos := vmath.V2Add(spec.Start, vmath.V2Scale(spec.Step, float64(i)))
		p := c.AddParticle(pos, false)
		if _, err := c.Connect(prev, p); err != nil {
			return nil, err
		}
		prev = p
	}
	return c, nil
}

// NewDiamond builds the single-cell rhombus: top and left pinned, right and bottom free
func NewDiamond(center vmath.Vec2, radius float64, gravity vmath.Vec2) (*Cloth, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("%w: diamond radius %g", ErrInvalidTopology, radius)
	}
	c := NewCloth(gravity)
	top := c.AddParticle(vmath.V2(center.X, center.Y-radius), true)
	left := c.AddParticle(vmath.V2(center.X-radius, center.Y), true)
	right := c.AddParticle(vmath.V2(center.X+radius, center.Y), false)
	bottom := c.AddParticle(vmath.V2(center.X, center.Y+radius), false)

	for _, pair := range [][2]*Particle{{top, left}, {top, right}, {left, bottom}, {right, bottom}} {
		if _, err := c.Connect(pair[0], pair[1]); err != nil {
			return nil, err
		}
	}
	return c, nil
}
