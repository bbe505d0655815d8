// Package config loads toybox settings from defaults, an optional TOML file and TOYBOX_* env vars
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/lixenwraith/toybox/logging"
	"github.com/lixenwraith/toybox/parameter"
	"github.com/lixenwraith/toybox/physics"
	"github.com/lixenwraith/toybox/vmath"
)

var ErrInvalid = errors.New("config: invalid value")

// Vec is a 2D pair in config files
type Vec struct {
	X float64 `mapstructure:"x" toml:"x"`
	Y float64 `mapstructure:"y" toml:"y"`
}

// V2 converts to vmath
func (v Vec) V2() vmath.Vec2 {
	return vmath.V2(v.X, v.Y)
}

type Sim struct {
	TickHz   int    `mapstructure:"tick_hz" toml:"tick_hz"`
	StepMode bool   `mapstructure:"step_mode" toml:"step_mode"`
	Gravity  Vec    `mapstructure:"gravity" toml:"gravity"`
	Solver   string `mapstructure:"solver" toml:"solver"`
	Workers  int    `mapstructure:"workers" toml:"workers"`
}

// DT is the fixed tick length
func (s Sim) DT() float64 {
	return 1 / float64(s.TickHz)
}

type Anchor struct {
	Row int `mapstructure:"row" toml:"row"`
	Col int `mapstructure:"col" toml:"col"`
}

type Cloth struct {
	Cols    int `mapstructure:"cols" toml:"cols"`
	Rows    int `mapstructure:"rows" toml:"rows"`
	Origin  Vec `mapstructure:"origin" toml:"origin"`
	Spacing Vec `mapstructure:"spacing" toml:"spacing"`
	// Anchors empty pins the two top corners
	Anchors []Anchor `mapstructure:"anchors" toml:"anchors,omitempty"`
}

type Chain struct {
	Count int `mapstructure:"count" toml:"count"`
	Start Vec `mapstructure:"start" toml:"start"`
	Step  Vec `mapstructure:"step" toml:"step"`
}

type Vine struct {
	Count    int     `mapstructure:"count" toml:"count"`
	Start    Vec     `mapstructure:"start" toml:"start"`
	Step     Vec     `mapstructure:"step" toml:"step"`
	Lift     float64 `mapstructure:"lift" toml:"lift"`
	CSV      string  `mapstructure:"csv" toml:"csv"`
	// StepMode replaces sim.step_mode for the vine toy
	StepMode bool    `mapstructure:"step_mode" toml:"step_mode"`
}

type Impulse struct {
	Radius    float64 `mapstructure:"radius" toml:"radius"`
	Strength  float64 `mapstructure:"strength" toml:"strength"`
	PerSecond float64 `mapstructure:"per_second" toml:"per_second"`
	Burst     int     `mapstructure:"burst" toml:"burst"`
}

type Wind struct {
	Enabled  bool    `mapstructure:"enabled" toml:"enabled"`
	Strength float64 `mapstructure:"strength" toml:"strength"`
	Scale    float64 `mapstructure:"scale" toml:"scale"`
	Speed    float64 `mapstructure:"speed" toml:"speed"`
	Seed     int64   `mapstructure:"seed" toml:"seed"`
	Alpha    float64 `mapstructure:"alpha" toml:"alpha"`
	Beta     float64 `mapstructure:"beta" toml:"beta"`
	Octaves  int32   `mapstructure:"octaves" toml:"octaves"`
}

type Audio struct {
	Enabled    bool    `mapstructure:"enabled" toml:"enabled"`
	SampleRate int     `mapstructure:"sample_rate" toml:"sample_rate"`
	Volume     float64 `mapstructure:"volume" toml:"volume"`
	BaseHz     float64 `mapstructure:"base_hz" toml:"base_hz"`
	MaxHz      float64 `mapstructure:"max_hz" toml:"max_hz"`
	DecayMs    int     `mapstructure:"decay_ms" toml:"decay_ms"`
}

type Stream struct {
	Addr        string `mapstructure:"addr" toml:"addr"`
	Path        string `mapstructure:"path" toml:"path"`
	BroadcastHz int    `mapstructure:"broadcast_hz" toml:"broadcast_hz"`
	ClientQueue int    `mapstructure:"client_queue" toml:"client_queue"`
}

type Run struct {
	Steps      int `mapstructure:"steps" toml:"steps"`
	PlotWidth  int `mapstructure:"plot_width" toml:"plot_width"`
	PlotHeight int `mapstructure:"plot_height" toml:"plot_height"`
}

// Config is the full settings tree
type Config struct {
	Sim     Sim            `mapstructure:"sim" toml:"sim"`
	Cloth   Cloth          `mapstructure:"cloth" toml:"cloth"`
	Chain   Chain          `mapstructure:"chain" toml:"chain"`
	Vine    Vine           `mapstructure:"vine" toml:"vine"`
	Impulse Impulse        `mapstructure:"impulse" toml:"impulse"`
	Wind    Wind           `mapstructure:"wind" toml:"wind"`
	Audio   Audio          `mapstructure:"audio" toml:"audio"`
	Log     logging.Config `mapstructure:"log" toml:"log"`
	Stream  Stream         `mapstructure:"stream" toml:"stream"`
	Run     Run            `mapstructure:"run" toml:"run"`
}

// SetDefaults registers every key so env overrides reach Unmarshal
func SetDefaults(v *viper.Viper) {
	// -- Sim --
	v.SetDefault("sim.tick_hz", parameter.TickHz)
	v.SetDefault("sim.step_mode", parameter.StepModeDefault)
	v.SetDefault("sim.gravity.x", parameter.GravityX)
	v.SetDefault("sim.gravity.y", parameter.GravityY)
	v.SetDefault("sim.solver", parameter.ClothSolver)
	v.SetDefault("sim.workers", parameter.ClothWorkers)

	// -- Cloth --
	v.SetDefault("cloth.cols", parameter.ClothCols)
	v.SetDefault("cloth.rows", parameter.ClothRows)
	v.SetDefault("cloth.origin.x", parameter.ClothOriginX)
	v.SetDefault("cloth.origin.y", parameter.ClothOriginY)
	v.SetDefault("cloth.spacing.x", parameter.ClothSpacingX)
	v.SetDefault("cloth.spacing.y", parameter.ClothSpacingY)

	// -- Chain --
	v.SetDefault("chain.count", parameter.ChainCount)
	v.SetDefault("chain.start.x", parameter.ChainStartX)
	v.SetDefault("chain.start.y", parameter.ChainStartY)
	v.SetDefault("chain.step.x", parameter.ChainStepX)
	v.SetDefault("chain.step.y", parameter.ChainStepY)

	// -- Vine --
	v.SetDefault("vine.count", parameter.VineCount)
	v.SetDefault("vine.start.x", parameter.VineStartX)
	v.SetDefault("vine.start.y", parameter.VineStartY)
	v.SetDefault("vine.step.x", parameter.VineStepX)
	v.SetDefault("vine.step.y", parameter.VineStepY)
	v.SetDefault("vine.lift", parameter.VineLift)
	v.SetDefault("vine.csv", parameter.VineCSVFile)
	v.SetDefault("vine.step_mode", parameter.VineStepModeDefault)

	// -- Impulse --
	v.SetDefault("impulse.radius", parameter.ImpulseRadius)
	v.SetDefault("impulse.strength", parameter.ImpulseStrength)
	v.SetDefault("impulse.per_second", parameter.ImpulsePerSecond)
	v.SetDefault("impulse.burst", parameter.ImpulseBurst)

	// -- Wind --
	v.SetDefault("wind.enabled", parameter.WindEnabled)
	v.SetDefault("wind.strength", parameter.WindStrength)
	v.SetDefault("wind.scale", parameter.WindScale)
	v.SetDefault("wind.speed", parameter.WindSpeed)
	v.SetDefault("wind.seed", parameter.WindSeed)
	v.SetDefault("wind.alpha", parameter.WindAlpha)
	v.SetDefault("wind.beta", parameter.WindBeta)
	v.SetDefault("wind.octaves", parameter.WindOctaves)

	// -- Audio --
	v.SetDefault("audio.enabled", parameter.AudioEnabled)
	v.SetDefault("audio.sample_rate", parameter.AudioSampleRate)
	v.SetDefault("audio.volume", parameter.AudioVolume)
	v.SetDefault("audio.base_hz", parameter.AudioBaseHz)
	v.SetDefault("audio.max_hz", parameter.AudioMaxHz)
	v.SetDefault("audio.decay_ms", parameter.AudioDecayMs)

	// -- Log --
	v.SetDefault("log.enabled", false)
	v.SetDefault("log.dir", parameter.LogDir)
	v.SetDefault("log.file", parameter.LogFileName)
	v.SetDefault("log.level", parameter.LogLevel)
	v.SetDefault("log.max_size_mb", parameter.LogMaxSizeMB)
	v.SetDefault("log.max_backups", parameter.LogMaxBackups)

	// -- Stream --
	v.SetDefault("stream.addr", parameter.StreamAddr)
	v.SetDefault("stream.path", parameter.StreamPath)
	v.SetDefault("stream.broadcast_hz", parameter.StreamBroadcastHz)
	v.SetDefault("stream.client_queue", parameter.StreamClientQueue)

	// -- Run --
	v.SetDefault("run.steps", parameter.RunSteps)
	v.SetDefault("run.plot_width", parameter.RunPlotWidth)
	v.SetDefault("run.plot_height", parameter.RunPlotHeight)
}

// Default returns the built-in settings
func Default() Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Defaults are compile-time constants
		panic(fmt.Sprintf("config: unmarshal defaults: %v", err))
	}
	return cfg
}

// Load layers defaults, the config file and TOYBOX_* env vars onto v
// An empty file searches ./toybox.toml; a missing default file is not an error
func Load(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
		if ext := strings.TrimPrefix(filepath.Ext(file), "."); ext == "" {
			v.SetConfigType(parameter.ConfigType)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(parameter.ConfigName)
		v.SetConfigType(parameter.ConfigType)
	}

	v.SetEnvPrefix(parameter.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings no toy can run with
func (c Config) Validate() error {
	switch {
	case c.Sim.TickHz <= 0:
		return fmt.Errorf("%w: sim.tick_hz %d", ErrInvalid, c.Sim.TickHz)
	case c.Sim.Workers < 0:
		return fmt.Errorf("%w: sim.workers %d", ErrInvalid, c.Sim.Workers)
	case c.Cloth.Cols < 1 || c.Cloth.Rows < 1:
		return fmt.Errorf("%w: cloth %dx%d", ErrInvalid, c.Cloth.Cols, c.Cloth.Rows)
	case c.Chain.Count < 2:
		return fmt.Errorf("%w: chain.count %d", ErrInvalid, c.Chain.Count)
	case c.Vine.Count < 1:
		return fmt.Errorf("%w: vine.count %d", ErrInvalid, c.Vine.Count)
	case c.Impulse.Radius <= 0:
		return fmt.Errorf("%w: impulse.radius %g", ErrInvalid, c.Impulse.Radius)
	case c.Impulse.PerSecond <= 0 || c.Impulse.Burst < 1:
		return fmt.Errorf("%w: impulse rate %g/s burst %d", ErrInvalid, c.Impulse.PerSecond, c.Impulse.Burst)
	case c.Stream.BroadcastHz <= 0 || c.Stream.ClientQueue < 1:
		return fmt.Errorf("%w: stream rate %d queue %d", ErrInvalid, c.Stream.BroadcastHz, c.Stream.ClientQueue)
	case c.Run.Steps < 1:
		return fmt.Errorf("%w: run.steps %d", ErrInvalid, c.Run.Steps)
	}
	if _, err := physics.ParseSolverMode(c.Sim.Solver); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Solver returns the parsed solver mode, sequential on a bad value
func (c Config) Solver() physics.SolverMode {
	m, _ := physics.ParseSolverMode(c.Sim.Solver)
	return m
}

// GridSpec builds the cloth topology from settings
func (c Config) GridSpec() physics.GridSpec {
	spec := physics.GridSpec{
		Cols:    c.Cloth.Cols,
		Rows:    c.Cloth.Rows,
		Origin:  c.Cloth.Origin.V2(),
		Spacing: c.Cloth.Spacing.V2(),
		Gravity: c.Sim.Gravity.V2(),
	}
	for _, a := range c.Cloth.Anchors {
		spec.Anchors = append(spec.Anchors, physics.Cell{Row: a.Row, Col: a.Col})
	}
	return spec
}

// ChainSpec builds the chain topology from settings
func (c Config) ChainSpec() physics.ChainSpec {
	return physics.ChainSpec{
		Start:   c.Chain.Start.V2(),
		Step:    c.Chain.Step.V2(),
		Count:   c.Chain.Count,
		Gravity: c.Sim.Gravity.V2(),
	}
}

// VineSpec builds the vine from settings; vines ignore sim gravity
func (c Config) VineSpec(record bool) physics.VineSpec {
	lift := c.Vine.Lift
	return physics.VineSpec{
		Start:  c.Vine.Start.V2(),
		Step:   c.Vine.Step.V2(),
		Count:  c.Vine.Count,
		Lift:   &lift,
		Record: record,
	}
}

// TOML renders the settings as a config file
func (c Config) TOML() ([]byte, error) {
	return toml.Marshal(c)
}
