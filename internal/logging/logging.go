// Package logging builds the zap loggers used by runway's commands.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Mode selects a logger flavour.
type Mode int

const (
	// Quiet discards everything. Interactive commands render their own output.
	Quiet Mode = iota
	// Verbose writes human-readable debug logs to stderr.
	Verbose
	// Service writes JSON logs for `runway serve`.
	Service
)

// New returns a logger for mode.
func New(mode Mode) (*zap.Logger, error) {
	switch mode {
	case Quiet:
		return zap.NewNop(), nil
	case Verbose:
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.DisableStacktrace = true
		return cfg.Build()
	case Service:
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return cfg.Build()
	}
	return nil, fmt.Errorf("unknown log mode %d", mode)
}

// ModeFor picks the mode for a command from its flags.
func ModeFor(service, verbose bool) Mode {
	switch {
	case verbose:
		return Verbose
	case service:
		return Service
	default:
		return Quiet
	}
}
