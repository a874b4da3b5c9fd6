package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlogAdapterWritesStructuredOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(slog.New(slog.NewJSONHandler(&buf, nil)))

	logger.Info("runtime created", "runtime_id", "r1")

	out := buf.String()
	assert.Contains(t, out, "runtime created")
	assert.Contains(t, out, `"runtime_id":"r1"`)
}

func TestNoOpLoggerIsSilent(t *testing.T) {
	var l Logger = NoOpLogger{}
	assert.NotPanics(t, func() {
		l.Debug("debug")
		l.Info("info")
		l.Warn("warn")
		l.Error("error")
	})
}

func TestRuntimeLoggerContextualAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := NewRuntimeLogger(&RuntimeLoggerConfig{Level: slog.LevelDebug, Output: &buf})

	l.WithComponent("registry").WithRuntime("r1").Info("terminated")

	out := buf.String()
	assert.Contains(t, out, `"component":"registry"`)
	assert.Contains(t, out, `"runtime_id":"r1"`)
}

func TestRuntimeLoggerWithDoesNotMutateReceiver(t *testing.T) {
	var buf bytes.Buffer
	base := NewRuntimeLogger(&RuntimeLoggerConfig{Level: slog.LevelDebug, Output: &buf})

	_ = base.WithRuntime("r1")
	base.Info("no runtime attached")

	assert.NotContains(t, buf.String(), "r1")
}

func TestLogReducerFailure(t *testing.T) {
	var buf bytes.Buffer
	l := NewRuntimeLogger(&RuntimeLoggerConfig{Level: slog.LevelDebug, Output: &buf, Format: "text"})

	l.LogReducer("r1", 5*time.Millisecond, false, errors.New("command not implemented"))

	out := buf.String()
	assert.Contains(t, out, "reducer failed")
	assert.Contains(t, out, "command not implemented")
}
