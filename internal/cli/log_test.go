package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	logger.Debug("hidden")
	logger.Info("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug message leaked at info level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("info message missing")
	}
}

func TestLoggerContextRoundtrip(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.DebugLevel)

	ctx := withLogger(context.Background(), logger)
	if got := loggerFromContext(ctx); got != logger {
		t.Error("context did not return the attached logger")
	}
}

func TestLoggerFromContextFallback(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Error("missing logger must fall back to the default, not nil")
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(newLogger(&buf, log.InfoLevel))
	p.done("finished stage")

	if !strings.Contains(buf.String(), "finished stage (") {
		t.Errorf("progress output = %q", buf.String())
	}
}
