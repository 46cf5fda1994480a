// Package logging builds the zap loggers used across papermap. The TUI
// owns the terminal, so its logger must write to a file; the simulator
// daemon logs structured JSON to stdout.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// NewFileLogger returns a sugared logger appending JSON lines to path,
// creating parent directories as needed. The returned sync function
// flushes buffered entries and should be deferred by the caller.
func NewFileLogger(path string) (*zap.SugaredLogger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}

	logger, err := cfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("building logger: %w", err)
	}
	sugar := logger.Sugar()
	return sugar, func() { _ = sugar.Sync() }, nil
}

// NewStdoutLogger returns a sugared production logger writing to stdout,
// for daemons that do not own the terminal.
func NewStdoutLogger() (*zap.SugaredLogger, func(), error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, nil, fmt.Errorf("building logger: %w", err)
	}
	sugar := logger.Sugar()
	return sugar, func() { _ = sugar.Sync() }, nil
}

// Nop returns a logger that discards everything. Library packages take a
// logger and default to this when given nil.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
