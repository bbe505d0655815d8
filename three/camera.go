package three

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/toybox/input"
	"github.com/lixenwraith/toybox/render"
	"github.com/lixenwraith/toybox/vmath"
)

// ErrDegenerateDepth is returned when a point shares the camera depth or the camera sits at z=0
var ErrDegenerateDepth = errors.New("three: degenerate projection depth")

// Camera projects objects onto a screen centred at Center
// Projection divides by |d.z / camera.z|, so distance is relative to the camera's own depth
type Camera struct {
	Position  mgl64.Vec3
	MoveSpeed mgl64.Vec3
	Scale     float64
	Center    vmath.Vec2
	Objects   []*Cube
}

// NewCamera creates a camera with move speed (10,10,1) and scale 10
func NewCamera(pos mgl64.Vec3, center vmath.Vec2) *Camera {
	return &Camera{
		Position:  pos,
		MoveSpeed: mgl64.Vec3{10, 10, 1},
		Scale:     10,
		Center:    center,
	}
}

// Update moves the camera: A/D along X, Q/E along Y, W/S along Z
func (c *Camera) Update(dt float64, in input.Snapshot) error {
	var delta mgl64.Vec3
	if in.Keys.Rune('a') {
		delta[0] += c.MoveSpeed[0]
	}
	if in.Keys.Rune('d') {
		delta[0] -= c.MoveSpeed[0]
	}
	if in.Keys.Rune('q') {
		delta[1] -= c.MoveSpeed[1]
	}
	if in.Keys.Rune('e') {
		delta[1] += c.MoveSpeed[1]
	}
	if in.Keys.Rune('w') {
		delta[2] -= c.MoveSpeed[2]
	}
	if in.Keys.Rune('s') {
		delta[2] += c.MoveSpeed[2]
	}
	c.Position = c.Position.Add(delta.Mul(dt))
	return nil
}

// Project maps a world point to screen space
func (c *Camera) Project(p mgl64.Vec3) (vmath.Vec2, error) {
	d := p.Sub(c.Position)
	if c.Position.Z() == 0 {
		return vmath.Vec2{}, ErrDegenerateDepth
	}
	m := math.Abs(d.Z() / c.Position.Z())
	if m == 0 {
		return vmath.Vec2{}, ErrDegenerateDepth
	}
	return vmath.V2(
		c.Center.X-d.X()/m*c.Scale,
		c.Center.Y-d.Y()/m*c.Scale,
	), nil
}

// Draw renders every object as white edges, skipping edges with an unprojectable end
func (c *Camera) Draw(canvas render.Canvas) {
	for _, obj := range c.Objects {
		var pts [8]vmath.Vec2
		var ok [8]bool
		for i, v := range obj.Vertices {
			p, err := c.Project(v)
			pts[i], ok[i] = p, err == nil
		}
		for _, e := range CubeEdges {
			if ok[e[0]] && ok[e[1]] {
				canvas.Line(pts[e[0]], pts[e[1]], render.RgbWhite)
			}
		}
	}
}

// WorldBounds frames the screen rectangle around Center
func (c *Camera) WorldBounds() (vmath.Vec2, vmath.Vec2) {
	return vmath.Vec2{}, vmath.V2Scale(c.Center, 2)
}
