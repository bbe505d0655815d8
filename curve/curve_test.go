package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/toybox/input"
	"github.com/lixenwraith/toybox/render"
	"github.com/lixenwraith/toybox/vmath"
)

func at(x, y float64) input.Snapshot {
	return input.Snapshot{Mouse: vmath.V2(x, y)}
}

func press(x, y float64) input.Snapshot {
	return input.Snapshot{Mouse: vmath.V2(x, y), MouseDown: true, MouseHeld: true}
}

func drag(x, y float64) input.Snapshot {
	return input.Snapshot{Mouse: vmath.V2(x, y), MouseHeld: true}
}

func release(x, y float64) input.Snapshot {
	return input.Snapshot{Mouse: vmath.V2(x, y), MouseUp: true}
}

func TestClickablePointStates(t *testing.T) {
	p := NewClickablePoint(vmath.V2(0, 0), 10)

	p.Update(at(50, 0))
	assert.Equal(t, Idle, p.State)
	assert.Equal(t, render.RgbWhite, p.CurrentColor())

	p.Update(at(6, 8))
	assert.Equal(t, Hover, p.State, "distance 10 is within range")
	assert.Equal(t, render.RgbOrange, p.CurrentColor())

	p.Update(press(6, 8))
	assert.Equal(t, Held, p.State)
	assert.Equal(t, render.RgbRed, p.CurrentColor())

	p.Update(drag(80, 80))
	assert.Equal(t, Held, p.State, "held survives leaving range")

	p.Update(release(80, 80))
	assert.Equal(t, Idle, p.State)
}

func TestClickablePointHonoursRange(t *testing.T) {
	p := NewClickablePoint(vmath.V2(0, 0), 30)
	p.Update(at(25, 0))
	assert.Equal(t, Hover, p.State)

	p.Range = 10
	p.Update(at(25, 0))
	assert.Equal(t, Idle, p.State)
}

func TestClickablePointPressOutsideRangeIgnored(t *testing.T) {
	p := NewClickablePoint(vmath.V2(0, 0), 10)
	p.Update(press(20, 0))
	assert.Equal(t, Idle, p.State)
}

func TestClickablePointClickWithinFrame(t *testing.T) {
	p := NewClickablePoint(vmath.V2(0, 0), 10)
	p.Update(input.Snapshot{Mouse: vmath.V2(1, 1), MouseDown: true, MouseUp: true})
	assert.Equal(t, Hover, p.State)
}

func TestAnchorDragPivotMovesHandle(t *testing.T) {
	a := NewAnchor(vmath.V2(150, 150), vmath.V2(150, 200))

	a.Update(press(150, 150))
	assert.True(t, a.Changed())
	a.Update(drag(170, 140))
	assert.True(t, a.Changed())
	assert.Equal(t, vmath.V2(170, 140), a.Pivot.Position)
	assert.Equal(t, vmath.V2(170, 190), a.Handle.Position)

	a.Update(release(170, 140))
	assert.False(t, a.Changed())
	a.Update(at(500, 500))
	assert.False(t, a.Changed())
}

func TestAnchorDragHandleOnly(t *testing.T) {
	a := NewAnchor(vmath.V2(150, 150), vmath.V2(150, 200))

	a.Update(press(150, 205))
	a.Update(drag(120, 230))
	assert.True(t, a.Changed())
	assert.Equal(t, vmath.V2(150, 150), a.Pivot.Position)
	assert.Equal(t, vmath.V2(120, 230), a.Handle.Position)
}

func newCurve() *Bezier {
	return NewBezier(
		NewAnchor(vmath.V2(150, 150), vmath.V2(150, 200)),
		NewAnchor(vmath.V2(250, 150), vmath.V2(250, 200)),
		DefaultSegments,
	)
}

func TestBezierEndpointsArePivots(t *testing.T) {
	b := newCurve()
	require.Len(t, b.Points, DefaultSegments+1)
	assert.Equal(t, vmath.V2(150, 150), b.Points[0])
	assert.Equal(t, vmath.V2(250, 150), b.Points[DefaultSegments])

	// Symmetric controls: the midpoint sits at 3/4 of the handle depth
	mid := b.Sample(0.5)
	assert.InDelta(t, 200, mid.X, 1e-9)
	assert.InDelta(t, 187.5, mid.Y, 1e-9)
}

func TestBezierRecomputesOnlyOnChange(t *testing.T) {
	b := newCurve()
	require.Equal(t, 1, b.Recomputes())

	require.NoError(t, b.Update(1.0/30, at(400, 400)))
	assert.Equal(t, 1, b.Recomputes())

	require.NoError(t, b.Update(1.0/30, press(250, 150)))
	require.NoError(t, b.Update(1.0/30, drag(260, 150)))
	assert.Equal(t, 3, b.Recomputes())
	assert.Equal(t, vmath.V2(260, 150), b.Points[DefaultSegments])
}

func TestScrubberPingPong(t *testing.T) {
	s := NewScrubber(newCurve())
	require.Equal(t, 0.5, s.T)

	// 0.5 to 1 takes 5/3 s at 0.3/s, about 50 frames
	frames := 0
	for s.Forward() && frames < 100 {
		require.NoError(t, s.Update(1.0/30, input.Snapshot{}))
		frames++
	}
	assert.InDelta(t, 50, frames, 1)
	assert.Equal(t, 1.0, s.T)
	assert.False(t, s.Forward())

	require.NoError(t, s.Update(1, input.Snapshot{}))
	assert.InDelta(t, 0.7, s.T, 1e-9)

	require.NoError(t, s.Update(10, input.Snapshot{}))
	assert.Equal(t, 0.0, s.T)
	assert.True(t, s.Forward())
}

func TestScrubberLevelsMatchSample(t *testing.T) {
	s := NewScrubber(newCurve())
	s.T = 0.3
	_, _, p := s.Levels()
	assert.Equal(t, s.Curve.Sample(0.3), p)

	c := render.NewCapture(vmath.V2(0, 0), vmath.V2(400, 300))
	s.Draw(c)
	assert.Equal(t, 6, c.Count(render.OpDot))
	assert.Equal(t, 4, c.Count(render.OpLine))
}
