// Package curve implements the interactive cubic Bezier editor toy
package curve

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/toybox/input"
	"github.com/lixenwraith/toybox/render"
	"github.com/lixenwraith/toybox/vmath"
)

// PointState is the pointer interaction state of a ClickablePoint
type PointState uint8

const (
	Idle PointState = iota
	Hover
	Held
)

func (s PointState) String() string {
	switch s {
	case Hover:
		return "hover"
	case Held:
		return "held"
	default:
		return "idle"
	}
}

// ClickablePoint is a draggable marker, Range is its pick radius in world units
type ClickablePoint struct {
	Position vmath.Vec2
	Range    float64
	State    PointState

	Color      tcell.Color
	HoverColor tcell.Color
	HeldColor  tcell.Color
}

// NewClickablePoint creates an idle white point
func NewClickablePoint(pos vmath.Vec2, pickRange float64) *ClickablePoint {
	return &ClickablePoint{
		Position:   pos,
		Range:      pickRange,
		Color:      render.RgbWhite,
		HoverColor: render.RgbOrange,
		HeldColor:  render.RgbRed,
	}
}

// Update advances the state machine
// Hovering within Range and pressing holds; a release anywhere drops the point
// A press and release inside one frame counts as a click and leaves it hovered
func (p *ClickablePoint) Update(in input.Snapshot) {
	inRange := vmath.V2DistSq(in.Mouse, p.Position) <= p.Range*p.Range

	if p.State == Held {
		if in.MouseUp && !in.MouseHeld {
			p.State = Idle
			if inRange {
				p.State = Hover
			}
		}
		return
	}

	if !inRange {
		p.State = Idle
		return
	}
	p.State = Hover
	if in.MouseDown {
		p.State = Held
		if in.MouseUp && !in.MouseHeld {
			p.State = Hover
		}
	}
}

// CurrentColor returns the colour for the current state
func (p *ClickablePoint) CurrentColor() tcell.Color {
	switch p.State {
	case Hover:
		return p.HoverColor
	case Held:
		return p.HeldColor
	default:
		return p.Color
	}
}

func (p *ClickablePoint) Draw(c render.Canvas) {
	c.Dot(p.Position, p.CurrentColor())
}
