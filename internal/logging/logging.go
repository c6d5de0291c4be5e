// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the zap logger used by the CLI and handed to the
// generator, the gap analyzer and the archive.
package logging

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/prime-shields/pkg/types"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New returns a logger writing to stderr. JSON is the default encoding;
// Verbose lowers the level from INFO to DEBUG.
func New(cfg types.LogConfig) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if cfg.Format == FormatConsole {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else if cfg.Format != "" && cfg.Format != FormatJSON {
		return nil, fmt.Errorf("%w: unknown log format %q (want json or console)", types.ErrInvalidConfig, cfg.Format)
	}

	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if cfg.Verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	config.DisableStacktrace = !cfg.Verbose

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// NewWriter returns a logger that writes to w with the same encoding and
// level rules as New, without timestamps. It is used by tests and by
// callers that capture log output.
func NewWriter(cfg types.LogConfig, w io.Writer) (*zap.Logger, error) {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = ""

	var enc zapcore.Encoder
	switch cfg.Format {
	case "", FormatJSON:
		enc = zapcore.NewJSONEncoder(encCfg)
	case FormatConsole:
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, fmt.Errorf("%w: unknown log format %q (want json or console)", types.ErrInvalidConfig, cfg.Format)
	}

	level := zapcore.InfoLevel
	if cfg.Verbose {
		level = zapcore.DebugLevel
	}
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level)), nil
}
