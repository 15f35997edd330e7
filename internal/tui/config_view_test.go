package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"nathanbeddoewebdev/namectl/internal/config"
	"nathanbeddoewebdev/namectl/internal/tui/components"
)

func newTestConfigView(t *testing.T) configViewModel {
	t.Helper()
	config.SetPath(filepath.Join(t.TempDir(), "config.json"))
	t.Cleanup(config.ResetPath)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	m := newConfigViewModel(cfg, []string{"local", "graphql"})
	m.width = 80
	m.height = 24
	return m
}

func updateConfig(t *testing.T, m configViewModel, msg any) (configViewModel, func() any) {
	t.Helper()
	next, cmd := m.Update(msg)
	if cmd == nil {
		return next.(configViewModel), nil
	}
	return next.(configViewModel), func() any { return cmd() }
}

func selectKey(t *testing.T, m configViewModel, name string) configViewModel {
	t.Helper()
	for i, k := range m.keys {
		if k.Name == name {
			m.cursor = i
			return m
		}
	}
	t.Fatalf("unknown key %q", name)
	return m
}

func TestConfigView_RejectsInvalidAccount(t *testing.T) {
	m := selectKey(t, newTestConfigView(t), "account")

	m, _ = updateConfig(t, m, key("e"))
	if !m.editing {
		t.Fatal("expected edit mode")
	}
	m.editor.SetValue("not-an-address")
	m, save := updateConfig(t, m, key("enter"))

	if save != nil {
		t.Error("expected no save for an invalid value")
	}
	if m.statusLevel != components.StatusError {
		t.Errorf("expected error status, got %q", m.status)
	}
	if m.cfg.Account != "" {
		t.Errorf("account should be unchanged, got %q", m.cfg.Account)
	}
}

func TestConfigView_SavesNormalizedAccount(t *testing.T) {
	m := selectKey(t, newTestConfigView(t), "account")

	m, _ = updateConfig(t, m, key("e"))
	m.editor.SetValue("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	m, save := updateConfig(t, m, key("enter"))
	if save == nil {
		t.Fatal("expected a save command")
	}

	m, _ = updateConfig(t, m, save())
	if m.editing || m.statusLevel != components.StatusSuccess {
		t.Errorf("expected saved state, got editing=%v status=%q", m.editing, m.status)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Account != "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed" {
		t.Errorf("expected lowercased account, got %q", cfg.Account)
	}
}

func TestConfigView_RejectsUnknownProvider(t *testing.T) {
	m := selectKey(t, newTestConfigView(t), "default-provider")

	m, _ = updateConfig(t, m, key("e"))
	m.editor.SetValue("cloudflare")
	m, save := updateConfig(t, m, key("enter"))

	if save != nil {
		t.Error("expected no save for an unregistered provider")
	}
	if !strings.Contains(m.status, "unknown provider") {
		t.Errorf("expected unknown provider error, got %q", m.status)
	}
	if m.cfg.DefaultProvider != "" {
		t.Errorf("default-provider should be unchanged, got %q", m.cfg.DefaultProvider)
	}
}

func TestConfigView_TabCyclesProviders(t *testing.T) {
	m := selectKey(t, newTestConfigView(t), "default-provider")

	m, _ = updateConfig(t, m, key("e"))
	tab := tea.KeyMsg{Type: tea.KeyTab}

	var got []string
	for range 3 {
		m, _ = updateConfig(t, m, tab)
		got = append(got, m.editor.Value())
	}
	want := []string{"graphql", "local", "graphql"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tab sequence = %v, want %v", got, want)
		}
	}

	m, save := updateConfig(t, m, key("enter"))
	if save == nil {
		t.Fatal("expected a save command")
	}
	m, _ = updateConfig(t, m, save())
	if m.status != `default-provider set to "graphql"` {
		t.Errorf("unexpected status %q", m.status)
	}
}

func TestConfigView_ListsRegisteredProviders(t *testing.T) {
	m := selectKey(t, newTestConfigView(t), "default-provider")

	out := m.View()
	for _, want := range []string{"registered: graphql, local", "account", "(not set)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}
