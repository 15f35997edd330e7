// Package logging builds the zap logger shared by commands, services and
// providers.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls logger construction.
type Options struct {
	// Level is a zap level name ("debug", "info", "warn", "error").
	// Empty means "warn": the CLI stays quiet unless something is off.
	Level string

	// Debug forces debug level regardless of Level.
	Debug bool

	// Path sends output to a file instead of stderr. The TUI sets this so
	// log lines do not draw over the alternate screen.
	Path string
}

// New returns a console-encoded logger configured by opts.
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
		level = parsed
	}
	if opts.Debug {
		level = zapcore.DebugLevel
	}

	cc := zap.NewProductionConfig()
	cc.DisableCaller = true
	cc.DisableStacktrace = true
	cc.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	cc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cc.Encoding = "console"
	cc.Level = zap.NewAtomicLevelAt(level)
	cc.Sampling = nil
	cc.OutputPaths = []string{"stderr"}
	cc.ErrorOutputPaths = []string{"stderr"}

	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, fmt.Errorf("logging: failed to create log directory: %w", err)
		}
		cc.OutputPaths = []string{opts.Path}
	}

	return cc.Build()
}

// DefaultFilePath returns the log file used while the TUI owns the terminal.
func DefaultFilePath() string {
	base, err := os.UserCacheDir()
	if err != nil || base == "" {
		base = os.TempDir()
	}
	return filepath.Join(base, "namectl", "namectl.log")
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
