package logger

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
)

func capture(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(prev)
	fn()
	return buf.String()
}

func TestQuietModeSuppressesDebugAndInfoOnly(t *testing.T) {
	l := NewStd(false)

	out := capture(t, func() {
		l.Debug("debug line", nil)
		l.Info("info line", nil)
	})
	if out != "" {
		t.Fatalf("quiet logger emitted debug/info output: %q", out)
	}

	out = capture(t, func() {
		l.Warn("strategy failed", map[string]interface{}{"strategy": "classifier"})
	})
	if !strings.Contains(out, "[WARN] strategy failed") {
		t.Fatalf("warning not emitted in quiet mode: %q", out)
	}

	out = capture(t, func() {
		l.Error("save failed", errors.New("disk full"), nil)
	})
	if !strings.Contains(out, "[ERROR] save failed disk full") {
		t.Fatalf("error not emitted in quiet mode: %q", out)
	}
}

func TestVerboseModeEmitsAllLevels(t *testing.T) {
	l := NewStd(true)

	out := capture(t, func() {
		l.Debug("debug line", nil)
		l.Info("info line", nil)
		l.Warn("warn line", nil)
	})
	for _, want := range []string{"[DEBUG] debug line", "[INFO] info line", "[WARN] warn line"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output %q", want, out)
		}
	}
}
