package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsoleOutputIncludesComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	NewComponentLogger(logger, "scanner").Info("scan complete",
		Int("candidates", 12),
		String(FieldMechanism, "steam"))

	line := buf.String()
	if !strings.Contains(line, "INFO scanner: scan complete") {
		t.Fatalf("unexpected output: %q", line)
	}
	if !strings.Contains(line, "candidates=12") {
		t.Fatalf("missing attr in output: %q", line)
	}
	if !strings.Contains(line, "mechanism=steam") {
		t.Fatalf("missing mechanism attr in output: %q", line)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("suppressed")
	logger.Warn("visible")

	if strings.Contains(buf.String(), "suppressed") {
		t.Fatalf("info record should be filtered: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "visible") {
		t.Fatalf("warn record missing: %q", buf.String())
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("hello", String("k", "v"))
	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Fatalf("unexpected json output: %q", buf.String())
	}
}

func TestUnsupportedFormatRejected(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
