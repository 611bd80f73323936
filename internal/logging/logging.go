// Package logging builds the process logger. Diagnostic logging is opt-in:
// when disabled the returned logger is a no-op.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns the bridge logger. With enabled=false a no-op logger is
// returned so call sites never need to nil-check.
func New(enabled bool) *zap.Logger {
	if !enabled {
		return zap.NewNop()
	}

	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := cfg.Build()
	if err != nil {
		// zap.NewProductionConfig only fails on invalid sink URLs.
		return zap.NewNop()
	}
	return logger
}
