package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultProvider != "" {
		t.Errorf("expected empty DefaultProvider, got %q", cfg.DefaultProvider)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "namectl", "config.json")

	want := &Config{
		DefaultProvider: "graphql",
		Endpoint:        "https://api.example.org/graphql",
		Account:         "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
		LogLevel:        "info",
	}
	if err := want.SaveTo(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "deep")
	path := filepath.Join(dir, "config.json")

	cfg := &Config{DefaultProvider: "local"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Verify the file exists.
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file at %s: %v", path, err)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json}"), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestSave_OverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	first := &Config{DefaultProvider: "local"}
	if err := first.SaveTo(path); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}

	second := &Config{DefaultProvider: "graphql"}
	if err := second.SaveTo(path); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got.DefaultProvider != "graphql" {
		t.Errorf("expected DefaultProvider %q, got %q", "graphql", got.DefaultProvider)
	}
}

func TestLoad_EmptyDefaultProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultProvider != "" {
		t.Errorf("expected empty DefaultProvider, got %q", cfg.DefaultProvider)
	}
}

func TestApplyEnv_OverridesFileValues(t *testing.T) {
	cfg := &Config{DefaultProvider: "local", Endpoint: "https://a.example", Account: "0xaaa"}
	env := map[string]string{
		EnvEndpoint: "https://b.example",
		EnvProvider: "graphql",
	}

	cfg.applyEnv(func(k string) string { return env[k] })

	want := &Config{DefaultProvider: "graphql", Endpoint: "https://b.example", Account: "0xaaa"}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadWithEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	SetPath(path)
	t.Cleanup(ResetPath)

	if err := (&Config{Account: "0xfile"}).SaveTo(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	t.Setenv(EnvAccount, "0xenv")

	cfg, err := LoadWithEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Account != "0xenv" {
		t.Errorf("Account = %q, want %q", cfg.Account, "0xenv")
	}
}
