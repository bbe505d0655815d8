package toy

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/toybox/input"
	"github.com/lixenwraith/toybox/physics"
	"github.com/lixenwraith/toybox/render"
	"github.com/lixenwraith/toybox/status"
	"github.com/lixenwraith/toybox/vmath"
)

const dt = 1.0 / 30

type fakePlucker struct {
	strengths []float64
}

func (f *fakePlucker) Pluck(s float64) { f.strengths = append(f.strengths, s) }

func grid(t *testing.T) *physics.Cloth {
	t.Helper()
	c, err := physics.NewGrid(physics.GridSpec{
		Cols: 5, Rows: 5,
		Origin:  vmath.V2(100, 40),
		Spacing: vmath.V2(20, 20),
		Gravity: vmath.V2(0, 10),
	})
	require.NoError(t, err)
	return c
}

func held(x, y float64) input.Snapshot {
	return input.Snapshot{Mouse: vmath.V2(x, y), MouseHeld: true}
}

func generous() Impulse {
	return Impulse{Radius: 20, Strength: 1, PerSecond: 100, Burst: 10}
}

func TestClothDragAppliesImpulse(t *testing.T) {
	metrics := status.NewRegistry()
	pl := &fakePlucker{}
	c := NewCloth(grid(t), generous(), pl, nil, metrics)

	// Particle 12 sits at (140, 80); the first held frame only anchors the drag
	require.NoError(t, c.Update(dt, held(137, 80)))
	assert.Zero(t, metrics.Counter(status.Impulses).Load())

	require.NoError(t, c.Update(dt, held(140, 80)))
	assert.EqualValues(t, 1, metrics.Counter(status.Impulses).Load())
	require.Len(t, pl.strengths, 1)
	assert.InDelta(t, 1.3, pl.strengths[0], 1e-9)

	// A stationary held mouse is not a drag
	require.NoError(t, c.Update(dt, held(140, 80)))
	assert.EqualValues(t, 1, metrics.Counter(status.Impulses).Load())

	// Releasing resets the anchor
	require.NoError(t, c.Update(dt, input.Snapshot{Mouse: vmath.V2(150, 80)}))
	require.NoError(t, c.Update(dt, held(160, 80)))
	assert.EqualValues(t, 1, metrics.Counter(status.Impulses).Load())

	assert.EqualValues(t, 5, metrics.Counter(status.Steps).Load())
	assert.EqualValues(t, 5, c.Sim.Steps())
}

func TestClothDragIsThrottled(t *testing.T) {
	metrics := status.NewRegistry()
	c := NewCloth(grid(t), Impulse{Radius: 20, Strength: 1, PerSecond: 1, Burst: 1}, nil, nil, metrics)

	require.NoError(t, c.Update(dt, held(140, 80)))
	for i := 1; i <= 4; i++ {
		require.NoError(t, c.Update(dt, held(140+float64(i), 80)))
	}
	assert.EqualValues(t, 1, metrics.Counter(status.Impulses).Load())
	assert.EqualValues(t, 3, metrics.Counter(status.Throttled).Load())
}

func TestClothDragMissesEmptySpace(t *testing.T) {
	metrics := status.NewRegistry()
	c := NewCloth(grid(t), generous(), nil, nil, metrics)

	require.NoError(t, c.Update(dt, held(0, 0)))
	require.NoError(t, c.Update(dt, held(5, 0)))
	assert.Zero(t, metrics.Counter(status.Impulses).Load())
}

func TestClothMetricsAndDraw(t *testing.T) {
	metrics := status.NewRegistry()
	c := NewCloth(grid(t), generous(), nil, nil, metrics)
	for i := 0; i < 10; i++ {
		require.NoError(t, c.Update(dt, input.Snapshot{}))
	}

	assert.Equal(t, c.Sim.MaxStretch(), metrics.Gauge(status.MaxStretch).Get())
	assert.GreaterOrEqual(t, metrics.Gauge(status.PeakStretch).Get(), metrics.Gauge(status.MaxStretch).Get())
	assert.Equal(t, c.Sim.KineticEnergy(), metrics.Gauge(status.Energy).Get())

	canvas := render.NewCapture(c.WorldBounds())
	c.Draw(canvas)
	assert.Equal(t, 40, canvas.Count(render.OpLine))
	assert.Equal(t, 25, canvas.Count(render.OpDot))

	c.EndFrame()
	for _, p := range c.Sim.Particles {
		assert.Equal(t, vmath.Vec2{}, p.Acceleration)
	}
}

func TestClothFrameCoversLayout(t *testing.T) {
	c := NewCloth(grid(t), generous(), nil, nil, nil)
	lo, hi := c.WorldBounds()
	for _, p := range c.Sim.Particles {
		assert.True(t, p.Position.X > lo.X && p.Position.X < hi.X)
		assert.True(t, p.Position.Y > lo.Y && p.Position.Y < hi.Y)
	}
	assert.Greater(t, hi.Y-120, 80.0, "room to sag below the bottom row")
}

func TestClothWrapsStepErrors(t *testing.T) {
	sim, err := physics.NewChain(physics.ChainSpec{
		Start: vmath.V2(0, 0), Step: vmath.V2(10, 0), Count: 3,
	})
	require.NoError(t, err)
	c := NewCloth(sim, generous(), nil, nil, nil)
	sim.Particles[2].Position = sim.Particles[1].Position

	err = c.Update(dt, input.Snapshot{})
	require.Error(t, err)
	assert.ErrorIs(t, err, vmath.ErrZeroLength)
	assert.Contains(t, err.Error(), "cloth step 0")
}

func newVine(t *testing.T) *Vine {
	t.Helper()
	sim, err := physics.NewVine(physics.VineSpec{
		Start: vmath.V2(150, 10), Step: vmath.V2(60, 80), Count: 2, Record: true,
	})
	require.NoError(t, err)
	v, err := NewVine(sim, generous(), nil, nil, nil)
	require.NoError(t, err)
	return v
}

func TestVinePrimedOverlay(t *testing.T) {
	v := newVine(t)
	assert.Len(t, v.Sim.Gizmos, 7)
	assert.Len(t, v.Records(), 1)

	canvas := render.NewCapture(v.WorldBounds())
	v.Draw(canvas)
	assert.Equal(t, 2+1, canvas.Count(render.OpDot), "two nodes and the target")
	assert.Equal(t, 1+6, canvas.Count(render.OpLine))
}

func TestVineGizmoToggle(t *testing.T) {
	v := newVine(t)
	tr := input.NewTracker(nil)
	tr.Handle(tcell.NewEventKey(tcell.KeyRune, 'g', tcell.ModNone))
	v.Control(tr.Snapshot())
	assert.False(t, v.ShowGizmos)

	canvas := render.NewCapture(v.WorldBounds())
	v.Draw(canvas)
	assert.Equal(t, 2, canvas.Count(render.OpDot))
	assert.Equal(t, 1, canvas.Count(render.OpLine))

	v.Control(input.Snapshot{})
	assert.False(t, v.ShowGizmos, "keys are pulses, no key no toggle")
}

func TestVineUpdateAndDrag(t *testing.T) {
	v := newVine(t)
	tip := v.Sim.Nodes[1].Position

	require.NoError(t, v.Update(dt, held(tip.X, tip.Y)))
	require.NoError(t, v.Update(dt, held(tip.X+5, tip.Y)))
	assert.Len(t, v.Records(), 3)
	assert.InDelta(t, 100, vmath.V2Dist(v.Sim.Nodes[0].Position, v.Sim.Nodes[1].Position), 1e-6)
}

func TestGizmoColors(t *testing.T) {
	assert.Equal(t, render.RgbPink, GizmoColor(physics.RoleCorrection))
	assert.Equal(t, render.RgbGray, GizmoColor(physics.GizmoRole(99)))
}

func TestFrame(t *testing.T) {
	f := Frame{Lo: vmath.V2(1, 2), Hi: vmath.V2(3, 4)}
	lo, hi := f.WorldBounds()
	assert.Equal(t, vmath.V2(1, 2), lo)
	assert.Equal(t, vmath.V2(3, 4), hi)
}
