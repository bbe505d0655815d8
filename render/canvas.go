package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/toybox/vmath"
)

// Canvas is the drawing surface handed to every drawer, positions are in world units
type Canvas interface {
	// Dot marks a single point
	Dot(p vmath.Vec2, color tcell.Color)
	// Line connects two points
	Line(a, b vmath.Vec2, color tcell.Color)
	// Text writes a HUD string at a terminal cell, unaffected by the viewport
	Text(col, row int, s string, color tcell.Color)
	// Bounds returns the visible world rectangle
	Bounds() (lo, hi vmath.Vec2)
}

// OpKind identifies a captured draw call
type OpKind uint8

const (
	OpDot OpKind = iota
	OpLine
	OpText
)

// Op is one captured draw call
type Op struct {
	Kind  OpKind
	A, B  vmath.Vec2
	Col   int
	Row   int
	Text  string
	Color tcell.Color
}

// Capture is a Canvas that records calls instead of drawing, for headless runs and tests
type Capture struct {
	Ops    []Op
	lo, hi vmath.Vec2
}

// NewCapture creates a capture reporting the given world bounds
func NewCapture(lo, hi vmath.Vec2) *Capture {
	return &Capture{lo: lo, hi: hi}
}

func (c *Capture) Dot(p vmath.Vec2, color tcell.Color) {
	c.Ops = append(c.Ops, Op{Kind: OpDot, A: p, Color: color})
}

func (c *Capture) Line(a, b vmath.Vec2, color tcell.Color) {
	c.Ops = append(c.Ops, Op{Kind: OpLine, A: a, B: b, Color: color})
}

func (c *Capture) Text(col, row int, s string, color tcell.Color) {
	c.Ops = append(c.Ops, Op{Kind: OpText, Col: col, Row: row, Text: s, Color: color})
}

func (c *Capture) Bounds() (vmath.Vec2, vmath.Vec2) {
	return c.lo, c.hi
}

// Count returns how many ops of kind were captured
func (c *Capture) Count(kind OpKind) int {
	n := 0
	for _, op := range c.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Reset drops captured ops
func (c *Capture) Reset() {
	c.Ops = c.Ops[:0]
}
