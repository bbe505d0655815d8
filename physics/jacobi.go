package physics

import (
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/toybox/vmath"
)

// minChunk keeps goroutine fan-out from dominating small graphs
const minChunk = 64

// jacobiScratch is reused across steps to avoid per-frame allocation
type jacobiScratch struct {
	frozen  []vmath.Vec2
	results []resolution
	dPos    []vmath.Vec2
	dAcc    []vmath.Vec2
}

func (s *jacobiScratch) reset(particles, constraints int) {
	s.frozen = grow(s.frozen, particles)
	s.dPos = grow(s.dPos, particles)
	s.dAcc = grow(s.dAcc, particles)
	if cap(s.results) < constraints {
		s.results = make([]resolution, constraints)
	}
	s.results = s.results[:constraints]
	for i := range s.dPos {
		s.dPos[i] = vmath.Vec2{}
		s.dAcc[i] = vmath.Vec2{}
	}
}

func grow(v []vmath.Vec2, n int) []vmath.Vec2 {
	if cap(v) < n {
		return make([]vmath.Vec2, n)
	}
	return v[:n]
}

// solveJacobi resolves every constraint against positions frozen at the start of the pass
// Corrections touching the same particle add up instead of chaining, so a particle
// shared by two overstretched links can overshoot where sequential resolution would not
func (c *Cloth) solveJacobi() error {
	s := &c.jacobi
	s.reset(len(c.Particles), len(c.Constraints))

	for i, p := range c.Particles {
		s.frozen[i] = p.Position
	}

	compute := func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			con := c.Constraints[i]
			r, err := con.solve(s.frozen[con.A.index], s.frozen[con.B.index])
			if err != nil {
				return err
			}
			s.results[i] = r
		}
		return nil
	}

	n := len(c.Constraints)
	if c.Workers > 1 && n >= 2*minChunk {
		chunk := max((n+c.Workers-1)/c.Workers, minChunk)
		var g errgroup.Group
		g.SetLimit(c.Workers)
		for lo := 0; lo < n; lo += chunk {
			hi := min(lo+chunk, n)
			g.Go(func() error { return compute(lo, hi) })
		}
		if err := g.Wait(); err != nil {
			return err
		}
	} else if err := compute(0, n); err != nil {
		return err
	}

	// Summation runs in constraint order regardless of worker count
	for i, con := range c.Constraints {
		r := s.results[i]
		ia, ib := con.A.index, con.B.index
		s.dPos[ia] = vmath.V2Add(s.dPos[ia], vmath.V2Sub(r.a, s.frozen[ia]))
		s.dPos[ib] = vmath.V2Add(s.dPos[ib], vmath.V2Sub(r.b, s.frozen[ib]))
		s.dAcc[ia] = vmath.V2Add(s.dAcc[ia], r.accA)
		s.dAcc[ib] = vmath.V2Add(s.dAcc[ib], r.accB)
	}

	for i, p := range c.Particles {
		if p.Fixed {
			continue
		}
		p.Position = vmath.V2Add(p.Position, s.dPos[i])
		p.Accelerate(s.dAcc[i])
	}
	return nil
}
