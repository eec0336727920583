package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	old := get()
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})))
	t.Cleanup(func() { SetLogger(old) })
	return &buf
}

func TestInfoIncludesKeyValues(t *testing.T) {
	SetLevel("info")
	buf := capture(t)

	Info("pushed branch", "branch", "main")

	out := buf.String()
	if !strings.Contains(out, "pushed branch") || !strings.Contains(out, "branch=main") {
		t.Errorf("output = %q, want message and key/value", out)
	}
}

func TestSetLevelFiltersDebug(t *testing.T) {
	SetLevel("info")
	buf := capture(t)

	Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug output emitted at info level: %q", buf.String())
	}

	SetLevel("debug")
	Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Error("debug output missing at debug level")
	}
}

func TestSetLevelUnknownFallsBackToInfo(t *testing.T) {
	SetLevel("nonsense")
	buf := capture(t)

	Info("still logs")
	if !strings.Contains(buf.String(), "still logs") {
		t.Error("info output missing after unknown level name")
	}
}
