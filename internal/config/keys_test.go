package config

import (
	"strings"
	"testing"
)

func TestLookup_Exists(t *testing.T) {
	spec := Lookup("default-provider")
	if spec == nil {
		t.Fatal("expected to find key 'default-provider', got nil")
	}
	if spec.Name != "default-provider" {
		t.Errorf("expected Name %q, got %q", "default-provider", spec.Name)
	}
}

func TestLookup_CaseInsensitive(t *testing.T) {
	spec := Lookup("DEFAULT-PROVIDER")
	if spec == nil {
		t.Fatal("expected case-insensitive lookup to succeed")
	}
	if spec.Name != "default-provider" {
		t.Errorf("expected Name %q, got %q", "default-provider", spec.Name)
	}
}

func TestLookup_NotFound(t *testing.T) {
	spec := Lookup("nonexistent-key")
	if spec != nil {
		t.Errorf("expected nil for unknown key, got %+v", spec)
	}
}

func TestKeys_AllHaveGetAndSet(t *testing.T) {
	for _, k := range Keys {
		if k.Get == nil {
			t.Errorf("key %q has nil Get function", k.Name)
		}
		if k.Set == nil {
			t.Errorf("key %q has nil Set function", k.Name)
		}
		if k.Description == "" {
			t.Errorf("key %q has empty Description", k.Name)
		}
	}
}

func TestKeys_GetSetRoundtrip(t *testing.T) {
	for _, k := range Keys {
		cfg := &Config{}
		k.Set(cfg, "test-value")
		got := k.Get(cfg)
		if got != "test-value" {
			t.Errorf("key %q: Set then Get = %q, want %q", k.Name, got, "test-value")
		}
	}
}

func TestKeyNames(t *testing.T) {
	names := KeyNames()
	if len(names) != len(Keys) {
		t.Fatalf("expected %d names, got %d", len(Keys), len(names))
	}
	for i, name := range names {
		if name != Keys[i].Name {
			t.Errorf("index %d: expected %q, got %q", i, Keys[i].Name, name)
		}
	}
}

func TestKeysHelp_ContainsAllKeys(t *testing.T) {
	help := KeysHelp()
	if !strings.Contains(help, "Available keys:") {
		t.Error("expected 'Available keys:' header in help output")
	}
	for _, k := range Keys {
		if !strings.Contains(help, k.Name) {
			t.Errorf("expected key %q in help output", k.Name)
		}
		if !strings.Contains(help, k.Description) {
			t.Errorf("expected description %q in help output", k.Description)
		}
	}
}

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		key     string
		input   string
		want    string
		wantErr bool
	}{
		{"default-provider", " GraphQL ", "graphql", false},
		{"endpoint", "https://api.example.org/graphql/", "https://api.example.org/graphql", false},
		{"endpoint", "ftp://example.org", "", true},
		{"endpoint", "not a url", "", true},
		{"account", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", false},
		{"account", "0x1234", "", true},
		{"log-level", "DEBUG", "debug", false},
		{"log-level", "chatty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"/"+tt.input, func(t *testing.T) {
			got, err := Lookup(tt.key).NormalizeValue(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got value %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("NormalizeValue(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
