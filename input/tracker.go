package input

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/toybox/vmath"
)

// CellMapper converts a terminal cell to world coordinates
type CellMapper func(x, y int) vmath.Vec2

// Tracker folds the raw tcell event stream into per-frame snapshots
// Owned by the frame loop goroutine, not safe for concurrent use
type Tracker struct {
	toWorld CellMapper

	mouse vmath.Vec2
	held  bool

	// Pulses, cleared by Snapshot
	down bool
	up   bool
	keys KeySet
	step bool
}

// NewTracker creates a tracker; nil mapper uses raw cell coordinates
func NewTracker(toWorld CellMapper) *Tracker {
	if toWorld == nil {
		toWorld = func(x, y int) vmath.Vec2 {
			return vmath.V2(float64(x), float64(y))
		}
	}
	return &Tracker{toWorld: toWorld}
}

// SetMapper swaps the cell mapper, used after a resize changes the viewport
func (t *Tracker) SetMapper(toWorld CellMapper) {
	if toWorld != nil {
		t.toWorld = toWorld
	}
}

// Handle consumes one event, returns false for events it ignores
func (t *Tracker) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventMouse:
		x, y := ev.Position()
		t.mouse = t.toWorld(x, y)

		pressed := ev.Buttons()&tcell.Button1 != 0
		if pressed && !t.held {
			t.down = true
		}
		if !pressed && t.held {
			t.up = true
		}
		t.held = pressed
		return true

	case *tcell.EventKey:
		t.keys.add(ev)
		if ev.Key() == tcell.KeyRune && ev.Rune() == ' ' {
			t.step = true
		}
		return true
	}
	return false
}

// Snapshot returns the frame state and clears pulses
func (t *Tracker) Snapshot() Snapshot {
	s := Snapshot{
		Mouse:     t.mouse,
		MouseDown: t.down,
		MouseUp:   t.up,
		MouseHeld: t.held,
		Keys:      t.keys,
		Step:      t.step,
	}
	t.down, t.up, t.step = false, false, false
	t.keys = KeySet{}
	return s
}
