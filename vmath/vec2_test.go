package vmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestV2Arithmetic(t *testing.T) {
	a := V2(1, 2)
	b := V2(3, -4)

	assert.Equal(t, V2(4, -2), V2Add(a, b))
	assert.Equal(t, V2(-2, 6), V2Sub(a, b))
	assert.Equal(t, V2(2.5, 5), V2Scale(a, 2.5))
	assert.Equal(t, V2(3, -8), V2Mul(a, b))
	assert.Equal(t, V2(-1, -2), V2Neg(a))
}

func TestV2Magnitudes(t *testing.T) {
	v := V2(3, 4)
	assert.InDelta(t, 5, V2Mag(v), eps)
	assert.InDelta(t, 25, V2MagSq(v), eps)

	p, q := V2(1, 1), V2(4, 5)
	assert.InDelta(t, 5, V2Dist(p, q), eps)
	assert.InDelta(t, 25, V2DistSq(p, q), eps)
	assert.Equal(t, V2Dist(p, q), V2Dist(q, p))
}

func TestV2LerpExtrapolates(t *testing.T) {
	a, b := V2(0, 0), V2(10, -10)

	assert.Equal(t, a, V2Lerp(a, b, 0))
	assert.Equal(t, b, V2Lerp(a, b, 1))
	assert.Equal(t, V2(5, -5), V2Lerp(a, b, 0.5))
	assert.Equal(t, V2(20, -20), V2Lerp(a, b, 2))
	assert.Equal(t, V2(-5, 5), V2Lerp(a, b, -0.5))
}

func TestV2ClampMagnitude(t *testing.T) {
	t.Run("shrinks long vector", func(t *testing.T) {
		got, err := V2ClampMagnitude(V2(30, 40), 5, false)
		require.NoError(t, err)
		assert.InDelta(t, 3, got.X, eps)
		assert.InDelta(t, 4, got.Y, eps)
	})

	t.Run("grows short vector when not gated", func(t *testing.T) {
		got, err := V2ClampMagnitude(V2(0, 2), 10, false)
		require.NoError(t, err)
		assert.InDelta(t, 10, V2Mag(got), eps)
		assert.InDelta(t, 0, got.X, eps)
	})

	t.Run("only when over leaves short vector untouched", func(t *testing.T) {
		v := V2(0.3, 0.4)
		got, err := V2ClampMagnitude(v, 1, true)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	})

	t.Run("only when over clamps long vector", func(t *testing.T) {
		got, err := V2ClampMagnitude(V2(6, 8), 5, true)
		require.NoError(t, err)
		assert.InDelta(t, 5, V2Mag(got), eps)
	})

	t.Run("zero vector fails", func(t *testing.T) {
		_, err := V2ClampMagnitude(Vec2{}, 5, false)
		assert.ErrorIs(t, err, ErrZeroLength)
	})

	t.Run("zero vector passes gate when target positive", func(t *testing.T) {
		got, err := V2ClampMagnitude(Vec2{}, 5, true)
		require.NoError(t, err)
		assert.Equal(t, Vec2{}, got)
	})

	t.Run("zero target fails", func(t *testing.T) {
		_, err := V2ClampMagnitude(V2(1, 0), 0, false)
		assert.ErrorIs(t, err, ErrZeroLength)
	})
}

func TestV2Normalize(t *testing.T) {
	n, err := V2Normalize(V2(0, -7))
	require.NoError(t, err)
	assert.Equal(t, V2(0, -1), n)

	_, err = V2Normalize(Vec2{})
	assert.ErrorIs(t, err, ErrZeroLength)
}

func TestV2IsFinite(t *testing.T) {
	assert.True(t, V2IsFinite(V2(1, -1)))
	assert.False(t, V2IsFinite(V2(math.NaN(), 0)))
	assert.False(t, V2IsFinite(V2(0, math.Inf(-1))))
}
