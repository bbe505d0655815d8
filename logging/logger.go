// Package logging builds the process logger
// The terminal owns stdout while a toy runs, so logs only ever go to a rotated file
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls file logging
type Config struct {
	// Enabled is set by --debug; a disabled config yields a no-op logger
	Enabled bool   `mapstructure:"enabled" toml:"enabled"`
	Dir     string `mapstructure:"dir" toml:"dir"`
	File    string `mapstructure:"file" toml:"file"`
	Level   string `mapstructure:"level" toml:"level"`
	// MaxSizeMB rotates the file once it grows past this size
	MaxSizeMB  int `mapstructure:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int `mapstructure:"max_backups" toml:"max_backups"`
}

// New returns a JSON file logger, or zap.NewNop when logging is disabled
// The returned close func syncs and releases the file
func New(cfg Config) (*zap.Logger, func(), error) {
	if !cfg.Enabled {
		return zap.NewNop(), func() {}, nil
	}

	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, nil, err
	}

	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level.SetLevel(zap.DebugLevel)
	}

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, cfg.File),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(rotator), level)
	logger := zap.New(core, zap.AddStacktrace(zap.ErrorLevel)).Named("toybox")

	closeFn := func() {
		_ = logger.Sync()
		_ = rotator.Close()
	}
	return logger, closeFn, nil
}
