package vmath

import (
	"errors"
	"math"
)

// ErrZeroLength reports a rescale of a zero vector or to a zero target length, direction is undefined
var ErrZeroLength = errors.New("vmath: zero-length vector has no direction")

// Vec2 is a float64 2D vector in world units
type Vec2 struct {
	X, Y float64
}

// V2 builds a Vec2
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

func V2Add(a, b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

func V2Sub(a, b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

func V2Scale(v Vec2, s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// V2Mul multiplies component-wise
func V2Mul(a, b Vec2) Vec2 {
	return Vec2{a.X * b.X, a.Y * b.Y}
}

func V2Neg(v Vec2) Vec2 {
	return Vec2{-v.X, -v.Y}
}

func V2MagSq(v Vec2) float64 {
	return v.X*v.X + v.Y*v.Y
}

func V2Mag(v Vec2) float64 {
	return math.Sqrt(V2MagSq(v))
}

// V2Dist returns |p - q|
func V2Dist(p, q Vec2) float64 {
	return V2Mag(V2Sub(p, q))
}

// V2DistSq returns |p - q|² for comparisons that can skip the sqrt
func V2DistSq(p, q Vec2) float64 {
	return V2MagSq(V2Sub(p, q))
}

// Lerp returns a + t*(b-a), t is not clamped
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// V2Lerp interpolates per component, extrapolates outside [0,1]
func V2Lerp(a, b Vec2, t float64) Vec2 {
	return Vec2{Lerp(a.X, b.X, t), Lerp(a.Y, b.Y, t)}
}

// V2Normalize returns the unit vector of v
func V2Normalize(v Vec2) (Vec2, error) {
	mag := V2Mag(v)
	if mag == 0 {
		return Vec2{}, ErrZeroLength
	}
	return Vec2{v.X / mag, v.Y / mag}, nil
}

// V2ClampMagnitude rescales v to exactly maxLen preserving direction
// With onlyWhenOver set, vectors shorter than maxLen are returned unchanged
func V2ClampMagnitude(v Vec2, maxLen float64, onlyWhenOver bool) (Vec2, error) {
	mag := V2Mag(v)
	if onlyWhenOver && mag < maxLen {
		return v, nil
	}
	if mag == 0 || maxLen == 0 {
		return Vec2{}, ErrZeroLength
	}
	ratio := mag / maxLen
	return Vec2{v.X / ratio, v.Y / ratio}, nil
}

// V2IsFinite reports whether both components are finite numbers
func V2IsFinite(v Vec2) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
