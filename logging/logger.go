package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger defines the minimal logging interface used throughout actormesh.
// This allows users to provide their own logger implementation or use the
// built-in adapters. Arguments follow the slog key/value convention.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefaultSlogLogger creates a Logger using slog.Default().
func NewDefaultSlogLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// NoOpLogger discards all log messages. Useful for testing or when logging
// is disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}

// RuntimeLoggerConfig configures construction of a RuntimeLogger.
type RuntimeLoggerConfig struct {
	Level     slog.Level
	Format    string // json or text
	Output    io.Writer
	AddSource bool
	Component string
}

// DefaultRuntimeLoggerConfig returns a baseline JSON info-level configuration.
func DefaultRuntimeLoggerConfig() *RuntimeLoggerConfig {
	return &RuntimeLoggerConfig{Level: slog.LevelInfo, Format: "json", Output: os.Stdout}
}

// RuntimeLogger wraps slog.Logger adding contextual cloning helpers for the
// runtime domain. It should be cheap to copy via the With* methods.
type RuntimeLogger struct {
	logger    *slog.Logger
	component string
	runtimeID string
}

// NewRuntimeLogger builds a RuntimeLogger from a config (or defaults if nil).
func NewRuntimeLogger(cfg *RuntimeLoggerConfig) *RuntimeLogger {
	if cfg == nil {
		cfg = DefaultRuntimeLoggerConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: cfg.Level, AddSource: cfg.AddSource}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}
	return &RuntimeLogger{logger: slog.New(handler), component: cfg.Component}
}

// WithComponent sets the logical component (registry, runtime, mailbox, ...).
func (l *RuntimeLogger) WithComponent(c string) *RuntimeLogger {
	nl := *l
	nl.component = c
	return &nl
}

// WithRuntime attaches the runtime identifier to every entry.
func (l *RuntimeLogger) WithRuntime(id string) *RuntimeLogger {
	nl := *l
	nl.runtimeID = id
	return &nl
}

func (l *RuntimeLogger) log(level slog.Level, msg string, args ...any) {
	attrs := make([]slog.Attr, 0, 2)
	if l.component != "" {
		attrs = append(attrs, slog.String("component", l.component))
	}
	if l.runtimeID != "" {
		attrs = append(attrs, slog.String("runtime_id", l.runtimeID))
	}
	logger := l.logger
	if len(attrs) > 0 {
		anyAttrs := make([]any, len(attrs))
		for i, a := range attrs {
			anyAttrs[i] = a
		}
		logger = logger.With(anyAttrs...)
	}
	logger.Log(context.Background(), level, msg, args...)
}

// Debug logs at debug level.
func (l *RuntimeLogger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, msg, args...) }

// Info logs at info level.
func (l *RuntimeLogger) Info(msg string, args ...any) { l.log(slog.LevelInfo, msg, args...) }

// Warn logs at warn level.
func (l *RuntimeLogger) Warn(msg string, args ...any) { l.log(slog.LevelWarn, msg, args...) }

// Error logs at error level.
func (l *RuntimeLogger) Error(msg string, args ...any) { l.log(slog.LevelError, msg, args...) }

// LogActivity records delivery details for a consumed activity.
func (l *RuntimeLogger) LogActivity(runtimeID, activityID, activityType string) {
	l.log(slog.LevelDebug, "activity consumed",
		"runtime_id", runtimeID,
		"activity_id", activityID,
		"activity_type", activityType,
	)
}

// LogReducer records execution details for a reducer application.
func (l *RuntimeLogger) LogReducer(runtimeID string, dur time.Duration, success bool, err error) {
	level := slog.LevelDebug
	msg := "reducer applied"
	args := []any{"runtime_id", runtimeID, "duration", dur, "success", success}
	if !success {
		level = slog.LevelWarn
		msg = "reducer failed"
		if err != nil {
			args = append(args, "error", err.Error())
		}
	}
	l.log(level, msg, args...)
}
