package cmd

import (
	"os"

	"nathanbeddoewebdev/namectl/cmd/commands/audit"
	"nathanbeddoewebdev/namectl/cmd/commands/auth"
	"nathanbeddoewebdev/namectl/cmd/commands/cache"
	cfgcmd "nathanbeddoewebdev/namectl/cmd/commands/config"
	"nathanbeddoewebdev/namectl/cmd/commands/local"
	"nathanbeddoewebdev/namectl/cmd/commands/records"
	"nathanbeddoewebdev/namectl/cmd/commands/resolver"
	"nathanbeddoewebdev/namectl/internal/config"
	"nathanbeddoewebdev/namectl/internal/names/providers"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "namectl",
		Short: "A CLI tool for viewing and editing name-service records",
		Long: `namectl is a command-line tool for viewing and editing the records of
names registered with a name service. It shows a name's resolver, primary
address, content hash, other-chain addresses and text records, flags
resolvers that need migrating, and lets the owner edit or add records.

Supported providers: graphql (remote endpoint) and local (sqlite catalogue).

Quick start:
  namectl config set account 0x...          # Names owned by this address are editable
  namectl records show alice.eth            # Interactive records panel
  namectl records set alice.eth text https://example.com --key url
  namectl resolver migration alice.eth      # Check whether the resolver needs migrating
  namectl cache clear                       # Drop cached record lists`,
	}

	cmd.AddCommand(records.NewCommand())
	cmd.AddCommand(resolver.NewCommand())
	cmd.AddCommand(auth.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(audit.NewCommand())
	cmd.AddCommand(cache.NewCommand())
	cmd.AddCommand(local.NewCommand())

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	endpoint := ""
	if cfg, err := config.LoadWithEnv(); err == nil {
		endpoint = cfg.Endpoint
	}
	providers.RegisterGraphQL(endpoint, nil)
	providers.RegisterLocal()

	var root = rootCmd()
	err := root.Execute()
	if err != nil {
		os.Exit(1)
	}
}
