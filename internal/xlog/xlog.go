// Package xlog provides the process-wide slog.Logger accessor. Grounded
// verbatim on the teacher's internal/logger/logger.go.
package xlog

import (
	"log/slog"
	"os"
	"sync"
)

var (
	global       *slog.Logger
	debugEnabled bool
	mu           sync.RWMutex
)

// SetGlobal installs the process-wide logger and debug flag.
func SetGlobal(logger *slog.Logger, debug bool) {
	mu.Lock()
	defer mu.Unlock()
	global = logger
	debugEnabled = debug
}

// Get returns the process-wide logger, falling back to a stderr text
// handler at Info (or Debug, if enabled) level if none was installed.
func Get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if global != nil {
		return global
	}
	level := slog.LevelInfo
	if debugEnabled {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// IsDebug reports whether debug-level logging is enabled.
func IsDebug() bool {
	mu.RLock()
	defer mu.RUnlock()
	return debugEnabled
}
