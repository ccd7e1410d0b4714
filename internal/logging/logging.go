// Package logging builds the zap loggers shared by the commands.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger at the given level and a func that flushes
// it and releases its sink. An empty path writes to stderr, anything else
// is opened for append.
func New(level, path string) (*zap.Logger, func(), error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level %q: %w", level, err)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var sink zapcore.WriteSyncer = zapcore.Lock(os.Stderr)
	closeSink := func() {}
	if path != "" {
		sink, closeSink, err = zap.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
	}

	logger := zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), sink, lvl))
	return logger, func() {
		_ = logger.Sync()
		closeSink()
	}, nil
}

// NewInteractive is New for the full-screen UI: without a log file nothing
// is written, since stderr shares the terminal with the alt screen.
func NewInteractive(level, path string) (*zap.Logger, func(), error) {
	if path == "" {
		return zap.NewNop(), func() {}, nil
	}
	return New(level, path)
}
