package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitAndLoggingToFile(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "nested", "peaksweep.log")

	if err := Init(logPath); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() {
		_ = Close()
	})

	LogEvent("hello %s", "world")
	LogCommand("g.region", []string{"raster=elevation"}, "")
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "hello world") {
		t.Fatalf("expected LogEvent content, got: %s", content)
	}
	if !strings.Contains(content, "[RUN] module=g.region args=raster=elevation status=ok") {
		t.Fatalf("expected LogCommand content, got: %s", content)
	}
}

func TestBuildCommandMessageDefaults(t *testing.T) {
	msg := buildCommandMessage(" ", nil, " ")
	if msg != "[RUN] module=unknown args=[] status=ok" {
		t.Fatalf("unexpected default message: %s", msg)
	}
}

func TestFormatArgsQuotesWhitespace(t *testing.T) {
	got := formatArgs([]string{"-f", "name=a b", ""})
	if got != `-f "name=a b" ""` {
		t.Fatalf("formatArgs: %s", got)
	}
}

func TestCloseWithoutFile(t *testing.T) {
	if err := Init(""); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	if err := Close(); err != nil {
		t.Fatalf("Close without file: %v", err)
	}
}
