package wind

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/toybox/physics"
	"github.com/lixenwraith/toybox/vmath"
)

func gust() Config {
	return Config{Strength: 4, Scale: 0.05, Speed: 0.5, Seed: 7}
}

func TestFieldIsDeterministicPerSeed(t *testing.T) {
	a := New(gust())
	b := New(gust())
	p := vmath.V2(13.3, 41.9)
	assert.Equal(t, a.Accel(p, 1.7), b.Accel(p, 1.7))
}

func TestFieldVaries(t *testing.T) {
	f := New(gust())
	seen := map[vmath.Vec2]struct{}{}
	for i := 0; i < 10; i++ {
		seen[f.Accel(vmath.V2(float64(i)*7.3, 11.1), float64(i)*0.37)] = struct{}{}
	}
	assert.Greater(t, len(seen), 5)
}

func TestFieldIsBounded(t *testing.T) {
	f := New(gust())
	for i := 0; i < 200; i++ {
		a := f.Accel(vmath.V2(float64(i)*3.1, float64(i)*1.7), float64(i)*0.1)
		assert.LessOrEqual(t, math.Abs(a.X), 4*2.0)
		assert.LessOrEqual(t, math.Abs(a.Y), 4*2.0)
	}
}

func TestZeroStrengthIsCalm(t *testing.T) {
	cfg := gust()
	cfg.Strength = 0
	assert.Equal(t, vmath.Vec2{}, New(cfg).Accel(vmath.V2(3, 4), 2))
}

func TestFieldDrivesCloth(t *testing.T) {
	c, err := physics.NewGrid(physics.GridSpec{
		Cols: 3, Rows: 3,
		Origin:  vmath.V2(100, 40),
		Spacing: vmath.V2(20, 20),
	})
	require.NoError(t, err)
	c.Forces = append(c.Forces, New(gust()))

	for i := 0; i < 30; i++ {
		require.NoError(t, c.Advance(1.0/30))
	}
	assert.Positive(t, c.KineticEnergy(), "gusts move a weightless cloth")
}
