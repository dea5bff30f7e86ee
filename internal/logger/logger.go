// Package logger writes diagnostics to a JSON log file. The TUI owns the
// terminal, so failures that are shown to the user only as generic messages
// keep their full detail here.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var (
	mu      sync.RWMutex
	global  = slog.New(slog.NewJSONHandler(io.Discard, nil))
	logFile *os.File
)

// Setup opens (or creates) dir/wiremgr.log and routes the global logger to
// it. Returns a cleanup func that closes the file and discards the logger.
func Setup(dir string, debug bool) (func() error, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	path := filepath.Join(dir, "wiremgr.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	l := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))

	mu.Lock()
	global = l
	logFile = f
	mu.Unlock()

	cleanup := func() error {
		mu.Lock()
		defer mu.Unlock()

		var cerr error
		if logFile != nil {
			cerr = logFile.Close()
		}
		logFile = nil
		global = slog.New(slog.NewJSONHandler(io.Discard, nil))
		return cerr
	}
	return cleanup, nil
}

// L returns the global logger. Before Setup it discards everything, so
// callers never need a nil check.
func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}
