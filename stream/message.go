// Package stream broadcasts cloth snapshots to websocket viewers
package stream

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/lixenwraith/toybox/physics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Message types
const (
	TypeWelcome = "welcome"
	TypeState   = "state"
)

// Envelope wraps every frame on the wire
type Envelope struct {
	Type    string `json:"t"`
	Payload any    `json:"p"`
}

// Welcome is the first frame a viewer receives
type Welcome struct {
	Session string `json:"session"`
	TickHz  int    `json:"tickHz"`
}

type Particle struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Fixed bool    `json:"fixed"`
}

// State is one broadcast cloth frame
type State struct {
	Tick      uint64     `json:"tick"`
	Particles []Particle `json:"particles"`
	Links     [][2]int   `json:"links"`
}

// StateFrom converts a snapshot to its wire form
func StateFrom(s physics.Snapshot) State {
	st := State{
		Tick:      s.Step,
		Particles: make([]Particle, len(s.Particles)),
		Links:     s.Links,
	}
	for i, p := range s.Particles {
		st.Particles[i] = Particle{X: p.Position.X, Y: p.Position.Y, Fixed: p.Fixed}
	}
	if st.Links == nil {
		st.Links = [][2]int{}
	}
	return st
}

func encode(typ string, payload any) ([]byte, error) {
	return json.Marshal(Envelope{Type: typ, Payload: payload})
}
