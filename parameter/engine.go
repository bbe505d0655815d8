package parameter

// Frame loop
const (
	// TickHz is the simulation and render rate; dt is its reciprocal
	TickHz = 30

	// StepModeDefault lets cloth toys run free; ENTER holds them and SPACE advances one tick
	StepModeDefault = false

	// VineStepModeDefault starts the vine held so its first overlay can be read
	VineStepModeDefault = true
)

// Logging, active only with --debug
const (
	LogDir        = "logs"
	LogFileName   = "toybox.log"
	LogMaxSizeMB  = 10
	LogMaxBackups = 3
	LogLevel      = "debug"
)

// Config discovery
const (
	ConfigName = "toybox"
	ConfigType = "toml"
	EnvPrefix  = "TOYBOX"
)
