package input

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/toybox/vmath"
)

// KeySet records keys that arrived during one frame
// Terminals send no key-up, so membership is a one-frame pulse
type KeySet struct {
	runes   map[rune]struct{}
	special map[tcell.Key]struct{}
}

// Rune reports whether r was typed this frame, letters match either case
func (k KeySet) Rune(r rune) bool {
	if _, ok := k.runes[r]; ok {
		return true
	}
	switch {
	case r >= 'a' && r <= 'z':
		_, ok := k.runes[r-'a'+'A']
		return ok
	case r >= 'A' && r <= 'Z':
		_, ok := k.runes[r-'A'+'a']
		return ok
	}
	return false
}

// Special reports whether a non-rune key such as tcell.KeyEnter arrived this frame
func (k KeySet) Special(key tcell.Key) bool {
	_, ok := k.special[key]
	return ok
}

// Len returns the number of distinct keys in the set
func (k KeySet) Len() int {
	return len(k.runes) + len(k.special)
}

func (k *KeySet) add(ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyRune {
		if k.runes == nil {
			k.runes = make(map[rune]struct{})
		}
		k.runes[ev.Rune()] = struct{}{}
		return
	}
	if k.special == nil {
		k.special = make(map[tcell.Key]struct{})
	}
	k.special[ev.Key()] = struct{}{}
}

// Snapshot is the input state for one frame, passed by value to every updater
type Snapshot struct {
	// Mouse is the pointer position in world units
	Mouse vmath.Vec2
	// MouseDown and MouseUp are edges seen this frame, both may be set
	MouseDown bool
	MouseUp   bool
	// MouseHeld is the primary button level at the end of the frame
	MouseHeld bool
	Keys      KeySet
	// Step requests a single advance while the loop is in step mode
	Step bool
}
