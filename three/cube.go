// Package three is the perspective wireframe toy
package three

import "github.com/go-gl/mathgl/mgl64"

// CubeEdges indexes Cube.Vertices, each vertex touches three edges
var CubeEdges = [12][2]int{
	{0, 1}, {0, 2}, {0, 4},
	{1, 3}, {1, 5},
	{2, 3}, {2, 6},
	{3, 7},
	{4, 5}, {4, 6},
	{5, 7},
	{6, 7},
}

// Cube is an axis-aligned cube, Size is the half edge length
type Cube struct {
	Position mgl64.Vec3
	Size     float64
	Vertices [8]mgl64.Vec3
}

// NewCube places vertices with bit 0 selecting -X, bit 1 -Y and bit 2 -Z
func NewCube(pos mgl64.Vec3, size float64) *Cube {
	c := &Cube{Position: pos, Size: size}
	for i := range c.Vertices {
		offset := mgl64.Vec3{size, size, size}
		if i&1 != 0 {
			offset[0] = -size
		}
		if i&2 != 0 {
			offset[1] = -size
		}
		if i&4 != 0 {
			offset[2] = -size
		}
		c.Vertices[i] = pos.Add(offset)
	}
	return c
}
