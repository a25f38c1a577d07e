// Package logging builds the zap logger used by the lvflux command line.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/lvflux/internal/config"
)

// parseLevel converts a level name; unknown names fall back to info.
func parseLevel(s string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// New constructs a logger writing to stderr, so command output on stdout stays
// machine-readable. Format "console" selects the development encoder, anything
// else JSON.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	encCfg := zap.NewProductionEncoderConfig()
	encoding := "json"
	if cfg.Format == "console" {
		encCfg = zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoding = "console"
	}
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	zcfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(parseLevel(cfg.Level)),
		Development:       cfg.Format == "console",
		DisableStacktrace: true,
		Encoding:          encoding,
		EncoderConfig:     encCfg,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
	}
	l, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: failed to build zap logger: %w", err)
	}
	return l, nil
}
