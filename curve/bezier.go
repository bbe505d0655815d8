package curve

import (
	"github.com/lixenwraith/toybox/input"
	"github.com/lixenwraith/toybox/render"
	"github.com/lixenwraith/toybox/vmath"
)

// Pick radii for anchor markers
const (
	PivotRange  = 30.0
	HandleRange = 30.0
)

// Anchor is a curve endpoint (pivot) with its control handle
type Anchor struct {
	Pivot   *ClickablePoint
	Handle  *ClickablePoint
	changed bool
}

// NewAnchor creates an anchor with a white pivot and gray handle
func NewAnchor(pivot, handle vmath.Vec2) *Anchor {
	h := NewClickablePoint(handle, HandleRange)
	h.Color = render.RgbGray
	return &Anchor{
		Pivot:  NewClickablePoint(pivot, PivotRange),
		Handle: h,
	}
}

// Update drags the pivot together with its handle, or the handle alone
func (a *Anchor) Update(in input.Snapshot) {
	a.changed = false

	a.Pivot.Update(in)
	if a.Pivot.State == Held {
		offset := vmath.V2Sub(a.Handle.Position, a.Pivot.Position)
		a.Pivot.Position = in.Mouse
		a.Handle.Position = vmath.V2Add(in.Mouse, offset)
		a.changed = true
	}

	a.Handle.Update(in)
	if a.Handle.State == Held {
		a.Handle.Position = in.Mouse
		a.changed = true
	}
}

// Changed reports whether the last Update moved either point
func (a *Anchor) Changed() bool {
	return a.changed
}

func (a *Anchor) Draw(c render.Canvas) {
	c.Line(a.Pivot.Position, a.Handle.Position, render.RgbGray)
	a.Pivot.Draw(c)
	a.Handle.Draw(c)
}

// DefaultSegments is the polyline resolution of a Bezier
const DefaultSegments = 20

// Bezier is the cubic curve pivot1, handle1, handle2, pivot2
type Bezier struct {
	A1, A2   *Anchor
	Segments int
	// Points holds Segments+1 samples from t=0 to t=1
	Points []vmath.Vec2

	recomputes int
}

// NewBezier builds the curve and samples it once
func NewBezier(a1, a2 *Anchor, segments int) *Bezier {
	if segments < 1 {
		segments = DefaultSegments
	}
	b := &Bezier{A1: a1, A2: a2, Segments: segments}
	b.Recalculate()
	return b
}

// Controls returns the four control points in curve order
func (b *Bezier) Controls() [4]vmath.Vec2 {
	return [4]vmath.Vec2{b.A1.Pivot.Position, b.A1.Handle.Position, b.A2.Handle.Position, b.A2.Pivot.Position}
}

// Sample evaluates the curve at t by De Casteljau
func (b *Bezier) Sample(t float64) vmath.Vec2 {
	_, _, p := Construct(b.Controls(), t)
	return p
}

// Construct returns every De Casteljau level for t: three first-level points,
// two second-level points and the curve point
func Construct(ctrl [4]vmath.Vec2, t float64) ([3]vmath.Vec2, [2]vmath.Vec2, vmath.Vec2) {
	l1 := [3]vmath.Vec2{
		vmath.V2Lerp(ctrl[0], ctrl[1], t),
		vmath.V2Lerp(ctrl[1], ctrl[2], t),
		vmath.V2Lerp(ctrl[2], ctrl[3], t),
	}
	l2 := [2]vmath.Vec2{
		vmath.V2Lerp(l1[0], l1[1], t),
		vmath.V2Lerp(l1[1], l1[2], t),
	}
	return l1, l2, vmath.V2Lerp(l2[0], l2[1], t)
}

// Recalculate resamples the polyline
func (b *Bezier) Recalculate() {
	b.Points = b.Points[:0]
	for i := 0; i <= b.Segments; i++ {
		b.Points = append(b.Points, b.Sample(float64(i)/float64(b.Segments)))
	}
	b.recomputes++
}

// Recomputes counts polyline rebuilds including the initial one
func (b *Bezier) Recomputes() int {
	return b.recomputes
}

// Update drives both anchors and resamples only when one moved
func (b *Bezier) Update(_ float64, in input.Snapshot) error {
	b.A1.Update(in)
	b.A2.Update(in)
	if b.A1.Changed() || b.A2.Changed() {
		b.Recalculate()
	}
	return nil
}

func (b *Bezier) Draw(c render.Canvas) {
	b.A1.Draw(c)
	b.A2.Draw(c)
	for i := 1; i < len(b.Points); i++ {
		c.Line(b.Points[i-1], b.Points[i], render.RgbWhite)
	}
}
