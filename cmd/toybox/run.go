package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lixenwraith/toybox/config"
	"github.com/lixenwraith/toybox/physics"
	"github.com/lixenwraith/toybox/status"
	"github.com/lixenwraith/toybox/trace"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func newRunCmd(a *app) *cobra.Command {
	var (
		flags  clothFlags
		steps  int
		frames string
		noPlot bool
	)
	cmd := &cobra.Command{
		Use:   "run [cloth|chain|diamond]",
		Short: "Step a cloth headless and summarise its energy and stretch",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(cmd, a); err != nil {
				return err
			}
			if cmd.Flags().Changed("steps") {
				if steps < 1 {
					return fmt.Errorf("%w: --steps %d", config.ErrInvalid, steps)
				}
				a.cfg.Run.Steps = steps
			}
			name := "cloth"
			if len(args) == 1 {
				name = args[0]
			}

			sim, err := a.buildCloth(name)
			if err != nil {
				return err
			}
			rec := &trace.Recorder{KeepFrames: frames != ""}
			if err := a.simulateHeadless(cmd, sim, rec); err != nil {
				return err
			}

			if frames != "" {
				if err := writeFramesFile(frames, rec.Frames); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, summary(uuid.New(), name, sim, rec))
			if !noPlot {
				printPlots(out, a.cfg.Run, rec)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&steps, "steps", 0, "number of ticks to simulate (default run.steps)")
	cmd.Flags().StringVar(&frames, "frames", "", "write every particle of every step to this CSV file")
	cmd.Flags().BoolVar(&noPlot, "no-plot", false, "skip the energy and stretch charts")
	return cmd
}

// simulateHeadless advances sim run.steps ticks, stopping early when the command is cancelled
func (a *app) simulateHeadless(cmd *cobra.Command, sim *physics.Cloth, rec *trace.Recorder) error {
	ctx := cmd.Context()
	dt := a.cfg.Sim.DT()
	steps := a.metrics.Counter(status.Steps)
	peak := a.metrics.Gauge(status.PeakStretch)

	for i := 0; i < a.cfg.Run.Steps; i++ {
		if err := ctx.Err(); err != nil {
			a.log.Info("run cancelled", zap.Int("step", i))
			return err
		}
		if err := sim.Advance(dt); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		rec.Observe(sim)
		steps.Add(1)
		peak.Max(sim.MaxStretch())
	}
	a.log.Info("run finished", zap.Uint64("steps", sim.Steps()), zap.Float64("peak_stretch", rec.PeakStretch()))
	return nil
}

func writeFramesFile(path string, frames []physics.Snapshot) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return trace.WriteFrames(f, frames)
}

func summary(id uuid.UUID, name string, sim *physics.Cloth, rec *trace.Recorder) string {
	energy := 0.0
	if n := len(rec.Energy); n > 0 {
		energy = rec.Energy[n-1]
	}
	rows := []string{
		titleStyle.Render("run " + id.String()),
		row("toy", name),
		row("solver", sim.Solver.String()),
		row("steps", strconv.FormatUint(sim.Steps(), 10)),
		row("elapsed", fmt.Sprintf("%.2fs", sim.Elapsed())),
		row("particles", strconv.Itoa(len(sim.Particles))),
		row("links", strconv.Itoa(len(sim.Constraints))),
		row("peak stretch", fmt.Sprintf("%.4f", rec.PeakStretch())),
		row("energy", fmt.Sprintf("%.4f", energy)),
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}

func printPlots(w io.Writer, cfg config.Run, rec *trace.Recorder) {
	if plot := trace.Plot(rec.Energy, cfg.PlotWidth, cfg.PlotHeight, "kinetic energy"); plot != "" {
		fmt.Fprintf(w, "\n%s\n", plot)
	}
	if plot := trace.Plot(rec.Stretch, cfg.PlotWidth, cfg.PlotHeight, "max stretch"); plot != "" {
		fmt.Fprintf(w, "\n%s\n", plot)
	}
}
