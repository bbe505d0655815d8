package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/toybox/parameter"
	"github.com/lixenwraith/toybox/physics"
	"github.com/lixenwraith/toybox/vmath"
)

func TestDefaultMatchesParameters(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, parameter.TickHz, cfg.Sim.TickHz)
	assert.Equal(t, parameter.StepModeDefault, cfg.Sim.StepMode)
	assert.False(t, cfg.Sim.StepMode, "cloth toys run free")
	assert.True(t, cfg.Vine.StepMode, "the vine starts held")
	assert.Equal(t, vmath.V2(parameter.GravityX, parameter.GravityY), cfg.Sim.Gravity.V2())
	assert.Equal(t, parameter.ClothCols, cfg.Cloth.Cols)
	assert.Equal(t, parameter.ClothRows, cfg.Cloth.Rows)
	assert.Equal(t, parameter.VineCSVFile, cfg.Vine.CSV)
	assert.Equal(t, parameter.StreamAddr, cfg.Stream.Addr)
	assert.False(t, cfg.Log.Enabled)
	assert.Empty(t, cfg.Cloth.Anchors)
	assert.InDelta(t, 1.0/float64(parameter.TickHz), cfg.Sim.DT(), 1e-12)
	assert.Equal(t, physics.SolverSequential, cfg.Solver())
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toy.toml")
	body := `
[sim]
solver = "jacobi"
workers = 4

[sim.gravity]
y = 20

[cloth]
cols = 3
rows = 2
anchors = [{row = 0, col = 1}]
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("TOYBOX_SIM_TICK_HZ", "60")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.Sim.TickHz)
	assert.Equal(t, physics.SolverJacobi, cfg.Solver())
	assert.Equal(t, 4, cfg.Sim.Workers)
	assert.Equal(t, 20.0, cfg.Sim.Gravity.Y)
	assert.Equal(t, parameter.GravityX, cfg.Sim.Gravity.X, "unset sibling keeps its default")

	spec := cfg.GridSpec()
	assert.Equal(t, 3, spec.Cols)
	assert.Equal(t, 2, spec.Rows)
	assert.Equal(t, []physics.Cell{{Row: 0, Col: 1}}, spec.Anchors)
	assert.Equal(t, vmath.V2(parameter.GravityX, 20), spec.Gravity)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[sim]\nsolver = \"gauss\"\n"), 0o644))

	_, err := Load(viper.New(), path)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"tick", func(c *Config) { c.Sim.TickHz = 0 }},
		{"workers", func(c *Config) { c.Sim.Workers = -1 }},
		{"grid", func(c *Config) { c.Cloth.Rows = 0 }},
		{"chain", func(c *Config) { c.Chain.Count = 1 }},
		{"vine", func(c *Config) { c.Vine.Count = 0 }},
		{"radius", func(c *Config) { c.Impulse.Radius = 0 }},
		{"rate", func(c *Config) { c.Impulse.PerSecond = 0 }},
		{"burst", func(c *Config) { c.Impulse.Burst = 0 }},
		{"stream", func(c *Config) { c.Stream.ClientQueue = 0 }},
		{"run", func(c *Config) { c.Run.Steps = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestTOMLRoundTripsThroughLoad(t *testing.T) {
	cfg := Default()
	cfg.Cloth.Cols = 7
	cfg.Wind.Enabled = true

	data, err := cfg.TOML()
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, toml.Unmarshal(data, &generic))
	assert.Contains(t, generic, "cloth")
	assert.Contains(t, generic, "stream")

	path := filepath.Join(t.TempDir(), "dump.toml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	loaded, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, 7, loaded.Cloth.Cols)
	assert.True(t, loaded.Wind.Enabled)
}

func TestSpecsCarrySettings(t *testing.T) {
	cfg := Default()

	chain := cfg.ChainSpec()
	assert.Equal(t, parameter.ChainCount, chain.Count)
	assert.Equal(t, cfg.Sim.Gravity.V2(), chain.Gravity)

	vine := cfg.VineSpec(true)
	assert.True(t, vine.Record)
	require.NotNil(t, vine.Lift)
	assert.Equal(t, parameter.VineLift, *vine.Lift)
	assert.Equal(t, vmath.Vec2{}, vine.Gravity)

	// Zero is a setting, not a request for the default
	cfg.Vine.Lift = 0
	vine = cfg.VineSpec(false)
	require.NotNil(t, vine.Lift)
	assert.Zero(t, *vine.Lift)
}
