// Package logging provides structured logging for the cellrun sandbox.
//
// This package uses Go's standard library log/slog for structured, leveled
// logging, with text/JSON output selectable via Config. On top of the
// generic slog setup it adds the handful of field-scoped loggers the
// containment pipeline actually attaches as it runs: which profile a child
// was built for, which rootfs it is about to chroot into, and which
// syscall name a filter-construction step is talking about.
package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	// defaultLogger is the global logger instance.
	defaultLogger *slog.Logger
	// loggerMu protects defaultLogger.
	loggerMu sync.RWMutex
)

func init() {
	defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// Config holds the logger configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level slog.Level
	// Format is the output format ("text" or "json").
	Format string
	// Output is the log output destination.
	Output io.Writer
	// AddSource adds source file information to log entries.
	AddSource bool
}

// NewLogger creates a new structured logger with the given configuration.
func NewLogger(cfg Config) *slog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	} else {
		handler = slog.NewTextHandler(cfg.Output, opts)
	}

	return slog.New(handler)
}

// SetDefault sets the default global logger.
func SetDefault(logger *slog.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	defaultLogger = logger
}

// Default returns the default global logger.
func Default() *slog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return defaultLogger
}

// WithProfile returns a logger scoped to a seccomp profile. The supervisor
// and child initializer attach this as soon as the SandboxRequest's profile
// is known, so every later log line in that run carries it.
func WithProfile(logger *slog.Logger, profile string) *slog.Logger {
	return logger.With(slog.String("profile", profile))
}

// WithRootfs returns a logger scoped to a chroot target. The child
// initializer attaches this before the chroot/mount-proc steps, so a
// failure there is diagnosable without re-deriving the path from the
// SandboxRequest.
func WithRootfs(logger *slog.Logger, rootfs string) *slog.Logger {
	return logger.With(slog.String("rootfs", rootfs))
}

// WithSyscall returns a logger scoped to a single syscall name. The filter
// builder attaches this when a profile's allow/deny list names a syscall
// the resolver does not recognize on this architecture — the entry is
// silently omitted from the filter per spec, but the omission itself is
// worth a log line.
func WithSyscall(logger *slog.Logger, name string) *slog.Logger {
	return logger.With(slog.String("syscall", name))
}

// ParseLevel parses a log level string and returns the corresponding
// slog.Level. Valid values: "debug", "info", "warn", "error". Returns
// slog.LevelInfo for invalid values.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
