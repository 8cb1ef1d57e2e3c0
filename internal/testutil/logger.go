// Package testutil provides shared test helpers: a logger that writes to the
// test log and accident-record fixtures.
package testutil

import (
	"bytes"
	"log/slog"
	"testing"
)

// NewTestLogger returns a debug-level logger whose records go to t.Log, so
// stage logs only show up for failing tests or under -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return NewTestLoggerLevel(t, slog.LevelDebug)
}

// NewTestLoggerLevel is NewTestLogger with a minimum level.
func NewTestLoggerLevel(t testing.TB, level slog.Level) *slog.Logger {
	t.Helper()
	h := slog.NewTextHandler(logSink{t}, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("test", t.Name())
}

// logSink forwards each formatted record to the test log.
type logSink struct {
	t testing.TB
}

func (s logSink) Write(p []byte) (int, error) {
	s.t.Helper()
	s.t.Log(string(bytes.TrimRight(p, "\n")))
	return len(p), nil
}
