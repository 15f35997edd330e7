package config

import (
	"fmt"
	"net/url"
	"strings"

	"nathanbeddoewebdev/namectl/internal/names/namehash"

	"go.uber.org/zap/zapcore"
)

// KeySpec describes a single configuration key.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "default-provider").
	Name string

	// Description is a short human-readable explanation shown in help text.
	Description string

	// Get returns the current value for this key from a loaded Config.
	Get func(cfg *Config) string

	// Set applies a value for this key to the given Config (in memory only;
	// the caller is responsible for calling Save).
	Set func(cfg *Config, value string)

	// Normalize cleans a user-supplied value and rejects malformed ones.
	// Nil means the trimmed value is stored as-is.
	Normalize func(value string) (string, error)
}

// Keys is the authoritative list of all supported configuration keys.
// To add a new option: add a field to Config and append a KeySpec here.
var Keys = []KeySpec{
	{
		Name:        "default-provider",
		Description: "Name-service backend used when --provider is not specified",
		Get:         func(cfg *Config) string { return cfg.DefaultProvider },
		Set:         func(cfg *Config, v string) { cfg.DefaultProvider = v },
		Normalize:   lower,
	},
	{
		Name:        "endpoint",
		Description: "GraphQL endpoint URL for the graphql provider",
		Get:         func(cfg *Config) string { return cfg.Endpoint },
		Set:         func(cfg *Config, v string) { cfg.Endpoint = v },
		Normalize:   normalizeEndpoint,
	},
	{
		Name:        "account",
		Description: "Your address; names it owns are editable",
		Get:         func(cfg *Config) string { return cfg.Account },
		Set:         func(cfg *Config, v string) { cfg.Account = v },
		Normalize:   normalizeAccount,
	},
	{
		Name:        "log-level",
		Description: "Log level: debug, info, warn, or error",
		Get:         func(cfg *Config) string { return cfg.LogLevel },
		Set:         func(cfg *Config, v string) { cfg.LogLevel = v },
		Normalize:   normalizeLogLevel,
	},
}

// Lookup returns the KeySpec for the given name, or nil if not found.
// The name is matched case-insensitively after trimming whitespace.
func Lookup(name string) *KeySpec {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// NormalizeValue applies the key's normaliser to value.
func (k *KeySpec) NormalizeValue(value string) (string, error) {
	value = strings.TrimSpace(value)
	if k.Normalize == nil {
		return value, nil
	}
	return k.Normalize(value)
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp builds a formatted block listing all available keys and their
// descriptions, suitable for inclusion in Cobra Long help text.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	maxLen := 0
	for _, k := range Keys {
		if len(k.Name) > maxLen {
			maxLen = len(k.Name)
		}
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s\n", maxLen, k.Name, k.Description)
	}
	return b.String()
}

func lower(v string) (string, error) {
	return strings.ToLower(v), nil
}

func normalizeEndpoint(v string) (string, error) {
	u, err := url.Parse(v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("endpoint must be an http(s) URL, got %q", v)
	}
	return strings.TrimRight(v, "/"), nil
}

func normalizeAccount(v string) (string, error) {
	if !namehash.IsAddress(v) {
		return "", fmt.Errorf("account must be a 0x-prefixed 20-byte address, got %q", v)
	}
	return strings.ToLower(v), nil
}

func normalizeLogLevel(v string) (string, error) {
	v = strings.ToLower(v)
	if _, err := zapcore.ParseLevel(v); err != nil {
		return "", fmt.Errorf("unknown log level %q", v)
	}
	return v, nil
}
