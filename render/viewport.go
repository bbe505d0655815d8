package render

import (
	"math"

	"github.com/lixenwraith/toybox/vmath"
)

// CellAspect is the height/width ratio of a terminal cell
const CellAspect = 2.0

// Viewport maps world units onto terminal cells
// One column spans Scale world units, one row spans Scale*CellAspect
type Viewport struct {
	// Origin is the world position at the top-left corner of cell (0,0)
	Origin vmath.Vec2
	Scale  float64
	Cols   int
	Rows   int
}

// FitViewport picks the smallest scale that shows the world box [lo, hi] inside cols x rows, centred
func FitViewport(lo, hi vmath.Vec2, cols, rows int) Viewport {
	cols, rows = max(cols, 1), max(rows, 1)
	w := math.Max(hi.X-lo.X, 1e-9)
	h := math.Max(hi.Y-lo.Y, 1e-9)

	scale := math.Max(w/float64(cols), h/(float64(rows)*CellAspect))

	// Centre the box in the spare space
	spanX := float64(cols) * scale
	spanY := float64(rows) * scale * CellAspect
	origin := vmath.V2(
		lo.X-(spanX-w)/2,
		lo.Y-(spanY-h)/2,
	)
	return Viewport{Origin: origin, Scale: scale, Cols: cols, Rows: rows}
}

// ToCell returns the cell containing p, possibly outside the screen
func (v Viewport) ToCell(p vmath.Vec2) (int, int) {
	x := (p.X - v.Origin.X) / v.Scale
	y := (p.Y - v.Origin.Y) / (v.Scale * CellAspect)
	return int(math.Floor(x)), int(math.Floor(y))
}

// ToWorld returns the world position at the centre of cell (x, y)
func (v Viewport) ToWorld(x, y int) vmath.Vec2 {
	return vmath.V2(
		v.Origin.X+(float64(x)+0.5)*v.Scale,
		v.Origin.Y+(float64(y)+0.5)*v.Scale*CellAspect,
	)
}

// Contains reports whether cell (x, y) is on screen
func (v Viewport) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < v.Cols && y < v.Rows
}

// Clip trims world segment a-b to the viewport rectangle (Liang-Barsky); ok is false when nothing is visible
func (v Viewport) Clip(a, b vmath.Vec2) (vmath.Vec2, vmath.Vec2, bool) {
	lo, hi := v.Bounds()
	d := vmath.V2Sub(b, a)
	t0, t1 := 0.0, 1.0

	edges := [4][2]float64{
		{-d.X, a.X - lo.X},
		{d.X, hi.X - a.X},
		{-d.Y, a.Y - lo.Y},
		{d.Y, hi.Y - a.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			t0 = math.Max(t0, r)
		} else {
			t1 = math.Min(t1, r)
		}
		if t0 > t1 {
			return a, b, false
		}
	}
	return vmath.V2Add(a, vmath.V2Scale(d, t0)), vmath.V2Add(a, vmath.V2Scale(d, t1)), true
}

// Bounds returns the world rectangle covered by the viewport
func (v Viewport) Bounds() (vmath.Vec2, vmath.Vec2) {
	hi := vmath.V2(
		v.Origin.X+float64(v.Cols)*v.Scale,
		v.Origin.Y+float64(v.Rows)*v.Scale*CellAspect,
	)
	return v.Origin, hi
}
