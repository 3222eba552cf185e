package halite

import (
	"bytes"
	"strings"
	"testing"
)

// Light smoke tests ensuring exported logger APIs do not panic and remain
// callable; richer assertions live on the writer-backed variant.
func TestSimpleLoggerLevels(t *testing.T) {
	logger := NewSimpleLogger()

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")
}

func TestSimpleLoggerWritesKeyValues(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSimpleLoggerWithWriter(&buf)

	logger.Info("request", "method", "GET", "status", 200)

	line := buf.String()
	if !strings.Contains(line, "request") {
		t.Errorf("line %q missing message", line)
	}
	if !strings.Contains(line, "method=GET") || !strings.Contains(line, "status=200") {
		t.Errorf("line %q missing key/value pairs", line)
	}
}

func TestDefaultDebugConfig(t *testing.T) {
	config := DefaultDebugConfig()

	if config.Enabled {
		t.Error("debug should be disabled by default")
	}
	if !config.LogRequests || !config.LogResponses || !config.LogRedirects {
		t.Error("all categories should be selected by default")
	}
	if config.RequestIDGen == nil {
		t.Fatal("RequestIDGen should be set")
	}

	a, b := config.RequestIDGen(), config.RequestIDGen()
	if a == "" || a == b {
		t.Errorf("request IDs should be unique and non-empty, got %q and %q", a, b)
	}
}
