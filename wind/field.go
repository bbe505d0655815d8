// Package wind provides a Perlin noise force field for the cloth toys
package wind

import (
	"github.com/aquilax/go-perlin"

	"github.com/lixenwraith/toybox/vmath"
)

// Offset decorrelates the Y sample from the X sample
const axisOffset = 57.31

type Config struct {
	// Strength is the peak acceleration of a single octave
	Strength float64
	// Scale converts world units to noise space
	Scale float64
	// Speed is noise-space drift per simulated second
	Speed   float64
	Seed    int64
	Alpha   float64
	Beta    float64
	Octaves int32
}

// Field is a time-varying gust field, read-only after construction
type Field struct {
	cfg   Config
	noise *perlin.Perlin
}

// New builds a field; Alpha, Beta and Octaves fall back to 2, 2, 3
func New(cfg Config) *Field {
	if cfg.Alpha == 0 {
		cfg.Alpha = 2
	}
	if cfg.Beta == 0 {
		cfg.Beta = 2
	}
	if cfg.Octaves <= 0 {
		cfg.Octaves = 3
	}
	return &Field{
		cfg:   cfg,
		noise: perlin.NewPerlin(cfg.Alpha, cfg.Beta, cfg.Octaves, cfg.Seed),
	}
}

// Accel samples the gust at pos and simulated time t
func (f *Field) Accel(pos vmath.Vec2, t float64) vmath.Vec2 {
	if f.cfg.Strength == 0 {
		return vmath.Vec2{}
	}
	x := pos.X * f.cfg.Scale
	y := pos.Y * f.cfg.Scale
	z := t * f.cfg.Speed
	if z < 0 {
		z = 0
	}
	return vmath.V2(
		f.cfg.Strength*f.noise.Noise3D(x, y, z),
		f.cfg.Strength*f.noise.Noise3D(x+axisOffset, y+axisOffset, z),
	)
}
