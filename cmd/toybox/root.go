package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/lixenwraith/toybox/config"
	"github.com/lixenwraith/toybox/engine"
	"github.com/lixenwraith/toybox/logging"
	"github.com/lixenwraith/toybox/status"
)

// Version is replaced at build time with -ldflags
var Version = "dev"

// newScreen opens the terminal; tests swap in a simulation screen
var newScreen = func() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return screen, nil
}

// app carries what every command shares once the root has loaded settings
type app struct {
	cfgFile string
	debug   bool

	cfg      config.Config
	log      *zap.Logger
	closeLog func()
	metrics  *status.Registry
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "toybox",
		Short:         "Terminal physics toys: cloth, chains, vines, curves and a wireframe cube",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./toybox.toml)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "write a debug log under the log directory")
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.AddCommand(
		newClothCmd(a),
		newChainCmd(a),
		newDiamondCmd(a),
		newVineCmd(a),
		newCurveCmd(a),
		newCubeCmd(a),
		newRunCmd(a),
		newServeCmd(a),
		newConfigCmd(a),
	)
	return root
}

// init loads settings and opens the logger
func (a *app) init() error {
	cfg, err := config.Load(viper.New(), a.cfgFile)
	if err != nil {
		return err
	}
	if a.debug {
		cfg.Log.Enabled = true
	}

	log, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	a.cfg = cfg
	a.log = log
	a.closeLog = closeLog
	a.metrics = status.NewRegistry()
	a.log.Info("starting", zap.String("version", Version), zap.Bool("step_mode", cfg.Sim.StepMode))
	return nil
}

func (a *app) close() {
	if a.closeLog != nil {
		a.closeLog()
		a.closeLog = nil
	}
}

// signalContext cancels on SIGINT or SIGTERM
func signalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// play runs entities in the frame loop until the user quits
func (a *app) play(ctx context.Context, lc engine.Config, entities ...any) error {
	screen, err := newScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	defer screen.Fini()

	lc.TickHz = a.cfg.Sim.TickHz
	lc.HUD = true
	loop := engine.NewLoop(screen, lc, a.log, a.metrics)
	if err := loop.Add(entities...); err != nil {
		return err
	}

	ctx, stop := signalContext(ctx)
	defer stop()
	return loop.Run(ctx)
}
