package local

import (
	"fmt"

	"nathanbeddoewebdev/namectl/internal/database"
	"nathanbeddoewebdev/namectl/internal/names/providers"

	"github.com/spf13/cobra"
)

// NewCommand returns the "local" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "local",
		Short: "Manage the local name catalogue",
		Long: `Manage the names and resolvers served by the local provider.

The local provider keeps names in the namectl database so the records panel
can be used without a network backend:

  namectl local resolver 0x4976fb03C32e5B8cfe2b6cCB31c09Ba78EBaBa41 --label "public v2"
  namectl local register alice.eth --owner 0xabc... --resolver 0x4976...
  namectl records show alice.eth --provider local`,
		SilenceUsage: true,
	}

	cmd.AddCommand(RegisterCommand())
	cmd.AddCommand(ResolverCommand())

	return cmd
}

func openLocal() (*providers.LocalProvider, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("failed to locate database: %w", err)
	}
	return providers.OpenLocal(path)
}
