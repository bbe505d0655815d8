package main

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/toybox/physics"
	"github.com/lixenwraith/toybox/status"
	"github.com/lixenwraith/toybox/stream"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		flags    clothFlags
		addr     string
		duration time.Duration
	)
	cmd := &cobra.Command{
		Use:   "serve [cloth|chain|diamond]",
		Short: "Step a cloth headless and stream its state to websocket viewers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(cmd, a); err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				a.cfg.Stream.Addr = addr
			}
			name := "cloth"
			if len(args) == 1 {
				name = args[0]
			}
			sim, err := a.buildCloth(name)
			if err != nil {
				return err
			}

			ln, err := net.Listen("tcp", a.cfg.Stream.Addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", a.cfg.Stream.Addr, err)
			}
			hub := stream.NewHub(stream.Config{
				TickHz:      a.cfg.Sim.TickHz,
				ClientQueue: a.cfg.Stream.ClientQueue,
			}, a.log, a.metrics)
			defer hub.Close()

			ctx, stop := signalContext(cmd.Context())
			defer stop()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}

			fmt.Fprintf(cmd.OutOrStdout(), "streaming %s on ws://%s%s\n", name, ln.Addr(), a.cfg.Stream.Path)
			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return stream.Serve(ctx, ln, stream.NewMux(a.cfg.Stream.Path, hub), a.log)
			})
			g.Go(func() error {
				return a.broadcastLoop(ctx, sim, hub)
			})
			return g.Wait()
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default stream.addr)")
	cmd.Flags().DurationVar(&duration, "for", 0, "stop after this long, 0 runs until interrupted")
	return cmd
}

// broadcastLoop steps sim on the tick and sends every n-th state, n = tick_hz / broadcast_hz
func (a *app) broadcastLoop(ctx context.Context, sim *physics.Cloth, hub *stream.Hub) error {
	dt := a.cfg.Sim.DT()
	every := uint64(max(1, a.cfg.Sim.TickHz/a.cfg.Stream.BroadcastHz))
	steps := a.metrics.Counter(status.Steps)
	energy := a.metrics.Gauge(status.Energy)

	ticker := time.NewTicker(time.Second / time.Duration(a.cfg.Sim.TickHz))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.log.Info("stream simulation stopped", zap.Uint64("steps", sim.Steps()))
			return nil
		case <-ticker.C:
			if err := sim.Advance(dt); err != nil {
				return fmt.Errorf("step %d: %w", sim.Steps(), err)
			}
			steps.Add(1)
			energy.Set(sim.KineticEnergy())
			if sim.Steps()%every != 0 {
				continue
			}
			if err := hub.Broadcast(sim.Snapshot()); err != nil {
				return err
			}
		}
	}
}
