package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Fatal("expected error for invalid level, got nil")
	}
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "namectl.log")

	log, err := New(Options{Level: "info", Path: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	log.Info("resolver updated")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected log file at %s: %v", path, err)
	}
	if !strings.Contains(string(data), "resolver updated") {
		t.Errorf("log file missing message:\n%s", data)
	}
}

func TestNew_DebugOverridesLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "namectl.log")

	log, err := New(Options{Level: "error", Debug: true, Path: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	log.Debug("fetching migration info")
	_ = log.Sync()

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "fetching migration info") {
		t.Errorf("expected debug line in log:\n%s", data)
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("OrNop(nil) returned nil")
	}
}
