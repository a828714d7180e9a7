package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// TestLogger captures JSON log output for assertions.
type TestLogger struct {
	zerolog.Logger
	Buffer *bytes.Buffer
}

// NewTestLogger creates a logger that records every level into a buffer.
func NewTestLogger(t testing.TB) *TestLogger {
	t.Helper()
	buf := &bytes.Buffer{}
	return &TestLogger{
		Logger: zerolog.New(buf).Level(zerolog.TraceLevel),
		Buffer: buf,
	}
}

// AssertContains fails the test if the captured output lacks s.
func (l *TestLogger) AssertContains(t testing.TB, s string) {
	t.Helper()
	if !strings.Contains(l.Buffer.String(), s) {
		t.Errorf("expected log output to contain %q, got:\n%s", s, l.Buffer.String())
	}
}
