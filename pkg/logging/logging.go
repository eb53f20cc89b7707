// Copyright 2025 Author(s) of Upshare
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	once          sync.Once
	defaultLogger *slog.Logger
)

// ForTestsOnlyResetLogger resets the sync.Once guard so tests can
// re-initialize the global logger. Not for production use.
func ForTestsOnlyResetLogger() {
	once = sync.Once{}
	defaultLogger = nil
}

// Init initializes the global logger with the given minimum level and output.
// It is effective only on the first call; later calls are no-ops.
func Init(level slog.Level, output io.Writer) {
	once.Do(func() {
		defaultLogger = slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
			Level:     level,
			AddSource: true,
		}))
	})
}

// GetLogger returns the shared global logger, initializing it to stderr at
// Info level if Init has not been called.
func GetLogger() *slog.Logger {
	once.Do(func() {
		defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: true,
		}))
	})
	return defaultLogger
}
