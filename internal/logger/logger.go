// Package logger builds the zap logger shared by every component.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options select where logs go and how much is kept.
type Options struct {
	Level string // debug | info | warn | error
	File  string // optional; empty means stderr
	Quiet bool   // discard everything (the TUI owns the terminal)
}

// New builds a JSON logger with ISO8601 timestamps.
func New(opt Options) (*zap.Logger, error) {
	if opt.Quiet && opt.File == "" {
		return zap.NewNop(), nil
	}

	level := zapcore.WarnLevel
	if opt.Level != "" {
		if err := level.Set(opt.Level); err != nil {
			return nil, fmt.Errorf("log level %q: %w", opt.Level, err)
		}
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Sampling = nil
	if opt.File != "" {
		cfg.OutputPaths = []string{opt.File}
		cfg.ErrorOutputPaths = []string{opt.File}
	}
	return cfg.Build()
}

// Named returns a child logger for a component.
func Named(base *zap.Logger, component string) *zap.Logger {
	if base == nil {
		return zap.NewNop()
	}
	return base.Named(component)
}
