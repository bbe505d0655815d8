// Package audio plays a short plucked tone whenever a drag disturbs the cloth
package audio

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

// Config tunes the pluck voice
type Config struct {
	Enabled    bool
	SampleRate int
	Volume     float64
	// BaseHz is the pitch of a strength 1 impulse
	BaseHz  float64
	MaxHz   float64
	DecayMs int
}

// Plucker mixes one decaying tone per impulse into the speaker
// Every method is safe on an unstarted or disabled plucker
type Plucker struct {
	mu          sync.Mutex
	cfg         Config
	rate        beep.SampleRate
	mixer       *beep.Mixer
	initialized bool

	plucks atomic.Int64
}

// NewPlucker creates a plucker, call Start to open the device
func NewPlucker(cfg Config) *Plucker {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 44100
	}
	if cfg.DecayMs <= 0 {
		cfg.DecayMs = 180
	}
	if cfg.MaxHz < cfg.BaseHz {
		cfg.MaxHz = cfg.BaseHz
	}
	return &Plucker{
		cfg:   cfg,
		rate:  beep.SampleRate(cfg.SampleRate),
		mixer: &beep.Mixer{},
	}
}

// Start opens the speaker; a disabled plucker stays silent and returns nil
// A device error leaves the plucker silent, callers may log it and continue
func (p *Plucker) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized || !p.cfg.Enabled {
		return nil
	}

	if err := speaker.Init(p.rate, p.rate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Close silences pending tones
func (p *Plucker) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

// Pluck queues a tone for an impulse of the given strength
func (p *Plucker) Pluck(strength float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	tone := p.Tone(strength)
	speaker.Lock()
	p.mixer.Add(tone)
	speaker.Unlock()
	p.plucks.Add(1)
}

// Plucks returns the number of tones queued since start
func (p *Plucker) Plucks() int64 {
	return p.plucks.Load()
}

// Pitch maps impulse strength onto [BaseHz, MaxHz]
func (p *Plucker) Pitch(strength float64) float64 {
	hz := p.cfg.BaseHz * strength
	return math.Max(p.cfg.BaseHz, math.Min(hz, p.cfg.MaxHz))
}

// Duration is the length of one tone, long enough for the envelope to fall below 2%
func (p *Plucker) Duration() time.Duration {
	return 4 * time.Duration(p.cfg.DecayMs) * time.Millisecond
}

// Tone builds the finite streamer for one pluck
func (p *Plucker) Tone(strength float64) beep.Streamer {
	hz := p.Pitch(strength)
	decay := float64(p.cfg.DecayMs) / 1000

	fund := &pluckGenerator{rate: p.rate, freq: hz, decay: decay}
	over := &pluckGenerator{rate: p.rate, freq: 2 * hz, decay: decay / 2}
	mixed := beep.Mix(
		newVolume(fund, 0.75),
		newVolume(over, 0.25),
	)
	return beep.Take(p.rate.N(p.Duration()), newVolume(mixed, p.cfg.Volume))
}

// pluckGenerator is a sine under an exponential decay
type pluckGenerator struct {
	rate  beep.SampleRate
	freq  float64
	decay float64
	pos   int
}

func (g *pluckGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.rate)
		sample := math.Exp(-t/g.decay) * math.Sin(2*math.Pi*g.freq*t)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *pluckGenerator) Err() error {
	return nil
}

// math.Log2(0) is -Inf, so zero volume is mapped to Silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
