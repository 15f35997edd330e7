package config

import (
	"nathanbeddoewebdev/namectl/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage namectl configuration",
		Long: "View and modify persistent namectl settings.\n\n" +
			"Configuration is stored at ~/.config/namectl/config.json.\n" +
			"NAMECTL_PROVIDER, NAMECTL_ENDPOINT and NAMECTL_ACCOUNT override the file.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())

	return cmd
}
