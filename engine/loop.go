package engine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/toybox/input"
	"github.com/lixenwraith/toybox/render"
	"github.com/lixenwraith/toybox/status"
	"github.com/lixenwraith/toybox/vmath"
)

// Updater advances simulated state by dt using this frame's input
type Updater interface {
	Update(dt float64, in input.Snapshot) error
}

// Drawer renders current state
type Drawer interface {
	Draw(c render.Canvas)
}

// FrameEnder resets per-frame state after drawing
type FrameEnder interface {
	EndFrame()
}

// Framed reports the world rectangle a toy wants visible
type Framed interface {
	WorldBounds() (lo, hi vmath.Vec2)
}

// Controller sees every frame's input even while the simulation is held in step mode
type Controller interface {
	Control(in input.Snapshot)
}

var (
	ErrNoCapability = errors.New("engine: entity implements no loop interface")
	ErrQuit         = errors.New("engine: quit requested")
)

// Config tunes the loop
type Config struct {
	TickHz   int
	StepMode bool
	// HUD draws the status lines in the top rows
	HUD bool
	// NoRuneQuit leaves 'q' to toys that bind it, ESC and Ctrl-C still quit
	NoRuneQuit bool
}

// Loop drives toys on a fixed tick against a tcell screen
type Loop struct {
	screen  tcell.Screen
	surface *render.Surface
	tracker *input.Tracker
	clock   *StepClock
	tick    time.Duration
	hud     bool
	runeQ   bool

	updaters    []Updater
	drawers     []Drawer
	enders      []FrameEnder
	controllers []Controller
	framed      Framed

	log     *zap.Logger
	metrics *status.Registry
	frames  *atomic.Int64
}

// NewLoop creates a loop; log and metrics may be nil
func NewLoop(screen tcell.Screen, cfg Config, log *zap.Logger, metrics *status.Registry) *Loop {
	if cfg.TickHz <= 0 {
		cfg.TickHz = 30
	}
	if log == nil {
		log = zap.NewNop()
	}
	if metrics == nil {
		metrics = status.NewRegistry()
	}

	l := &Loop{
		screen:  screen,
		clock:   NewStepClock(1/float64(cfg.TickHz), cfg.StepMode),
		tick:    time.Second / time.Duration(cfg.TickHz),
		hud:     cfg.HUD,
		runeQ:   !cfg.NoRuneQuit,
		log:     log.Named("loop"),
		metrics: metrics,
		frames:  metrics.Counter(status.Frames),
	}
	l.surface = render.NewSurface(screen, render.Viewport{Scale: 1})
	l.tracker = input.NewTracker(nil)
	return l
}

// Clock exposes the step clock
func (l *Loop) Clock() *StepClock {
	return l.clock
}

// Add registers entities by the interfaces they implement
func (l *Loop) Add(entities ...any) error {
	for _, e := range entities {
		matched := false
		if u, ok := e.(Updater); ok {
			l.updaters = append(l.updaters, u)
			matched = true
		}
		if d, ok := e.(Drawer); ok {
			l.drawers = append(l.drawers, d)
			matched = true
		}
		if f, ok := e.(FrameEnder); ok {
			l.enders = append(l.enders, f)
			matched = true
		}
		if c, ok := e.(Controller); ok {
			l.controllers = append(l.controllers, c)
			matched = true
		}
		if f, ok := e.(Framed); ok && l.framed == nil {
			l.framed = f
			matched = true
		}
		if !matched {
			return fmt.Errorf("%w: %T", ErrNoCapability, e)
		}
	}
	return nil
}

// Resize refits the viewport to the current screen size
func (l *Loop) Resize() {
	cols, rows := l.screen.Size()
	var vp render.Viewport
	if l.framed != nil {
		lo, hi := l.framed.WorldBounds()
		vp = render.FitViewport(lo, hi, cols, rows)
	} else {
		vp = render.Viewport{Scale: 1, Cols: cols, Rows: rows}
	}
	l.surface.SetViewport(vp)
	l.tracker.SetMapper(vp.ToWorld)
	l.log.Debug("viewport", zap.Int("cols", cols), zap.Int("rows", rows), zap.Float64("scale", vp.Scale))
}

// Handle feeds one terminal event, returning ErrQuit on a quit key
func (l *Loop) Handle(ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		l.screen.Sync()
		l.Resize()
		return nil
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			return ErrQuit
		case l.runeQ && ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return ErrQuit
		case ev.Key() == tcell.KeyEnter:
			mode := l.clock.Toggle()
			l.log.Debug("step mode", zap.Bool("enabled", mode))
		case ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
			l.clock.RequestStep()
		}
	}
	l.tracker.Handle(ev)
	return nil
}

// Frame runs one update/draw/end cycle with the input gathered since the last frame
func (l *Loop) Frame() error {
	in := l.tracker.Snapshot()
	for _, c := range l.controllers {
		c.Control(in)
	}

	if dt, ok := l.clock.Advance(); ok {
		for _, u := range l.updaters {
			if err := u.Update(dt, in); err != nil {
				return err
			}
		}
	}

	l.surface.Clear()
	for _, d := range l.drawers {
		d.Draw(l.surface)
	}
	if l.hud {
		l.drawHUD()
	}
	for _, e := range l.enders {
		e.EndFrame()
	}
	l.surface.Show()
	l.frames.Add(1)
	return nil
}

func (l *Loop) drawHUD() {
	mode := "running"
	color := render.RgbHUD
	if l.clock.IsStepMode() {
		mode = "step (space: advance, enter: resume)"
		color = render.RgbHUDWarn
	}
	l.surface.Text(0, 0, fmt.Sprintf("t=%.2fs %s  q: quit", l.clock.Elapsed(), mode), color)
	for i, line := range l.metrics.Lines() {
		l.surface.Text(0, i+1, line, render.RgbHUD)
	}
}

// Run ticks until ctx is cancelled, the user quits, or an updater fails
// A quit or cancellation returns nil
func (l *Loop) Run(ctx context.Context) (err error) {
	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	go l.screen.ChannelEvents(events, quit)
	defer func() {
		close(quit)
		// Wait for the poller so no goroutine outlives Run
		for range events {
		}
	}()

	// Restore the terminal before the panic propagates
	defer func() {
		if r := recover(); r != nil {
			l.screen.Fini()
			panic(r)
		}
	}()

	l.screen.EnableMouse()
	l.Resize()

	ticker := time.NewTicker(l.tick)
	defer ticker.Stop()

	l.log.Info("loop started", zap.Duration("tick", l.tick), zap.Bool("step_mode", l.clock.IsStepMode()))
	for {
		select {
		case <-ctx.Done():
			l.log.Info("loop cancelled", zap.Uint64("ticks", l.clock.Ticks()))
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := l.Handle(ev); err != nil {
				if errors.Is(err, ErrQuit) {
					l.log.Info("quit", zap.Uint64("ticks", l.clock.Ticks()))
					return nil
				}
				return err
			}

		case <-ticker.C:
			if err := l.Frame(); err != nil {
				l.log.Error("frame failed", zap.Error(err))
				return err
			}
		}
	}
}
