package main

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lixenwraith/toybox/audio"
	"github.com/lixenwraith/toybox/curve"
	"github.com/lixenwraith/toybox/engine"
	"github.com/lixenwraith/toybox/parameter"
	"github.com/lixenwraith/toybox/physics"
	"github.com/lixenwraith/toybox/three"
	"github.com/lixenwraith/toybox/toy"
	"github.com/lixenwraith/toybox/trace"
	"github.com/lixenwraith/toybox/vmath"
	"github.com/lixenwraith/toybox/wind"
)

var ErrUnknownToy = errors.New("unknown toy")

// clothFlags are the overrides shared by every cloth-backed command
type clothFlags struct {
	solver  string
	workers int
	wind    bool
}

func (f *clothFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.solver, "solver", "", "constraint solver: sequential or jacobi")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "goroutines for jacobi corrections")
	cmd.Flags().BoolVar(&f.wind, "wind", false, "blow perlin wind across the cloth")
}

// apply folds changed flags into the loaded settings
func (f *clothFlags) apply(cmd *cobra.Command, a *app) error {
	if cmd.Flags().Changed("solver") {
		if _, err := physics.ParseSolverMode(f.solver); err != nil {
			return err
		}
		a.cfg.Sim.Solver = f.solver
	}
	if cmd.Flags().Changed("workers") {
		a.cfg.Sim.Workers = f.workers
	}
	if cmd.Flags().Changed("wind") {
		a.cfg.Wind.Enabled = f.wind
	}
	return nil
}

// buildCloth creates the named cloth topology with the configured solver and forces
func (a *app) buildCloth(name string) (*physics.Cloth, error) {
	var (
		sim *physics.Cloth
		err error
	)
	switch name {
	case "cloth":
		sim, err = physics.NewGrid(a.cfg.GridSpec())
	case "chain":
		sim, err = physics.NewChain(a.cfg.ChainSpec())
	case "diamond":
		sim, err = physics.NewDiamond(
			vmath.V2(parameter.DiamondCenterX, parameter.DiamondCenterY),
			parameter.DiamondRadius,
			a.cfg.Sim.Gravity.V2(),
		)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownToy, name)
	}
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", name, err)
	}

	sim.Solver = a.cfg.Solver()
	sim.Workers = a.cfg.Sim.Workers
	if w := a.cfg.Wind; w.Enabled {
		sim.Forces = append(sim.Forces, wind.New(wind.Config{
			Strength: w.Strength,
			Scale:    w.Scale,
			Speed:    w.Speed,
			Seed:     w.Seed,
			Alpha:    w.Alpha,
			Beta:     w.Beta,
			Octaves:  w.Octaves,
		}))
	}
	a.log.Debug("cloth built",
		zap.String("toy", name),
		zap.Int("particles", len(sim.Particles)),
		zap.Int("constraints", len(sim.Constraints)),
		zap.Stringer("solver", sim.Solver),
		zap.Bool("wind", a.cfg.Wind.Enabled),
	)
	return sim, nil
}

func (a *app) impulse() toy.Impulse {
	return toy.Impulse{
		Radius:    a.cfg.Impulse.Radius,
		Strength:  a.cfg.Impulse.Strength,
		PerSecond: a.cfg.Impulse.PerSecond,
		Burst:     a.cfg.Impulse.Burst,
	}
}

// plucker opens the speaker; a device failure only costs the sound
func (a *app) plucker() *audio.Plucker {
	c := a.cfg.Audio
	p := audio.NewPlucker(audio.Config{
		Enabled:    c.Enabled,
		SampleRate: c.SampleRate,
		Volume:     c.Volume,
		BaseHz:     c.BaseHz,
		MaxHz:      c.MaxHz,
		DecayMs:    c.DecayMs,
	})
	if err := p.Start(); err != nil {
		a.log.Warn("audio unavailable, continuing without sound", zap.Error(err))
	}
	return p
}

// loopConfig picks the starting step mode per toy. Curve and cube never integrate and always run;
// the cube leaves q to its camera, ESC still quits
func (a *app) loopConfig(name string) engine.Config {
	switch name {
	case "cloth", "chain", "diamond":
		return engine.Config{StepMode: a.cfg.Sim.StepMode}
	case "vine":
		return engine.Config{StepMode: a.cfg.Vine.StepMode}
	case "cube":
		return engine.Config{NoRuneQuit: true}
	default:
		return engine.Config{}
	}
}

func newClothToyCmd(a *app, name, short string) *cobra.Command {
	var flags clothFlags
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(cmd, a); err != nil {
				return err
			}
			sim, err := a.buildCloth(name)
			if err != nil {
				return err
			}
			pl := a.plucker()
			defer pl.Close()

			c := toy.NewCloth(sim, a.impulse(), pl, a.log, a.metrics)
			return a.play(cmd.Context(), a.loopConfig(name), c)
		},
	}
	flags.register(cmd)
	return cmd
}

func newClothCmd(a *app) *cobra.Command {
	return newClothToyCmd(a, "cloth", "Hanging cloth grid, drag to push it around")
}

func newChainCmd(a *app) *cobra.Command {
	return newClothToyCmd(a, "chain", "Chain pinned at its first link")
}

func newDiamondCmd(a *app) *cobra.Command {
	return newClothToyCmd(a, "diamond", "Four-node diamond pinned at two corners")
}

func newVineCmd(a *app) *cobra.Command {
	var csv bool
	cmd := &cobra.Command{
		Use:   "vine",
		Short: "Pull-follow rope with its force overlay, g toggles the overlay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sim, err := physics.NewVine(a.cfg.VineSpec(csv))
			if err != nil {
				return fmt.Errorf("build vine: %w", err)
			}
			v, err := toy.NewVine(sim, a.impulse(), nil, a.log, a.metrics)
			if err != nil {
				return err
			}

			err = a.play(cmd.Context(), a.loopConfig("vine"), v)
			if !csv {
				return err
			}
			if werr := trace.WriteRecordsFile(a.cfg.Vine.CSV, v.Records()); werr != nil {
				return errors.Join(err, fmt.Errorf("write %s: %w", a.cfg.Vine.CSV, werr))
			}
			a.log.Info("vine records written", zap.String("path", a.cfg.Vine.CSV), zap.Int("records", len(v.Records())))
			return err
		},
	}
	cmd.Flags().BoolVar(&csv, "csv", false, "write node records to the vine.csv path on exit")
	return cmd
}

func newCurveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "curve",
		Short: "Cubic Bezier with draggable anchors and a De Casteljau scrubber",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a1 := curve.NewAnchor(vmath.V2(150, 150), vmath.V2(150, 200))
			a2 := curve.NewAnchor(vmath.V2(250, 150), vmath.V2(250, 200))
			bezier := curve.NewBezier(a1, a2, curve.DefaultSegments)
			frame := toy.Frame{Hi: vmath.V2(parameter.CurveWidth, parameter.CurveHeight)}
			return a.play(cmd.Context(), a.loopConfig("curve"), frame, bezier, curve.NewScrubber(bezier))
		},
	}
}

func newCubeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cube",
		Short: "Wireframe cube, wasd and qe move the camera",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cam := three.NewCamera(
				mgl64.Vec3{0, 0, parameter.CameraDepth},
				vmath.V2(parameter.CubeCenterX, parameter.CubeCenterY),
			)
			cam.Objects = append(cam.Objects, three.NewCube(mgl64.Vec3{0, 0, parameter.CubeDepth}, parameter.CubeSize))
			return a.play(cmd.Context(), a.loopConfig("cube"), cam)
		},
	}
}
