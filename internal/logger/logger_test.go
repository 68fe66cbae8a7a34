package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWithoutOutputsIsNop(t *testing.T) {
	l, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if l.Core().Enabled(0) {
		t.Error("expected no-op core to be disabled")
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(Options{Level: "chatty"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNewWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "academy.log")
	l, err := New(Options{Level: "debug", File: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("lesson opened")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"lesson opened"`) {
		t.Errorf("log file missing message, got %q", data)
	}
}

func TestDefaultFileUsesXDGStateHome(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	p, err := DefaultFile()
	if err != nil {
		t.Fatalf("DefaultFile: %v", err)
	}
	if p != "/tmp/state/academy/academy.log" {
		t.Errorf("DefaultFile = %q", p)
	}
}
