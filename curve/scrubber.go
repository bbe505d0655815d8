package curve

import (
	"github.com/lixenwraith/toybox/input"
	"github.com/lixenwraith/toybox/render"
	"github.com/lixenwraith/toybox/vmath"
)

// ScrubSpeed is how far T moves per simulated second
const ScrubSpeed = 0.3

// Scrubber animates the De Casteljau construction of a curve
// T ping-pongs between 0 and 1, starting at 0.5 and moving forward
type Scrubber struct {
	Curve *Bezier
	T     float64
	Speed float64

	forward bool
}

func NewScrubber(curve *Bezier) *Scrubber {
	return &Scrubber{Curve: curve, T: 0.5, Speed: ScrubSpeed, forward: true}
}

// Forward reports the current direction of travel
func (s *Scrubber) Forward() bool {
	return s.forward
}

func (s *Scrubber) Update(dt float64, _ input.Snapshot) error {
	if s.forward {
		s.T += s.Speed * dt
		if s.T >= 1 {
			s.T = 1
			s.forward = false
		}
		return nil
	}
	s.T -= s.Speed * dt
	if s.T <= 0 {
		s.T = 0
		s.forward = true
	}
	return nil
}

// Levels returns the construction at the current T
func (s *Scrubber) Levels() ([3]vmath.Vec2, [2]vmath.Vec2, vmath.Vec2) {
	return Construct(s.Curve.Controls(), s.T)
}

func (s *Scrubber) Draw(c render.Canvas) {
	ctrl := s.Curve.Controls()
	c.Line(ctrl[1], ctrl[2], render.RgbGray)

	l1, l2, p := s.Levels()
	for _, q := range l1 {
		c.Dot(q, render.RgbGray)
	}
	c.Line(l1[0], l1[1], render.RgbGray)
	c.Line(l1[1], l1[2], render.RgbGray)

	c.Dot(l2[0], render.RgbGray)
	c.Dot(l2[1], render.RgbGray)
	c.Line(l2[0], l2[1], render.RgbGray)

	c.Dot(p, render.RgbYellow)
}
