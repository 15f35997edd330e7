package config

import (
	"fmt"
	"slices"
	"strings"

	"nathanbeddoewebdev/namectl/internal/config"
	"nathanbeddoewebdev/namectl/internal/names/providers"

	"github.com/spf13/cobra"
)

// SetCommand returns the "config set" command.
func SetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: "Set a persistent configuration value.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  namectl config set default-provider local\n" +
			"  namectl config set account 0xb8c2C29ee19D8307cb7255e1Cd9CbDE883A267d5\n" +
			"  namectl config set endpoint https://api.example.com/subgraphs/name/ens",
		Args:         cobra.ExactArgs(2),
		RunE:         runSet,
		SilenceUsage: true,
	}

	return cmd
}

// validators maps key names to checks run after normalisation.
// Keys not present in this map have no extra validation.
var validators = map[string]func(value string) error{
	"default-provider": validateProvider,
}

func runSet(cmd *cobra.Command, args []string) error {
	spec := config.Lookup(args[0])
	if spec == nil {
		return fmt.Errorf("unknown configuration key %q (valid: %s)", args[0], strings.Join(config.KeyNames(), ", "))
	}

	value, err := spec.NormalizeValue(args[1])
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", spec.Name, err)
	}

	if validate, ok := validators[spec.Name]; ok {
		if err := validate(value); err != nil {
			return err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	spec.Set(cfg, value)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s set to %q\n", spec.Name, value)
	return nil
}

// validateProvider checks that the given name is a registered provider.
func validateProvider(name string) error {
	known := providers.List()
	if slices.Contains(known, name) {
		return nil
	}
	return fmt.Errorf("unknown provider %q (registered: %s)", name, strings.Join(known, ", "))
}
