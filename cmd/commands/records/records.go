package records

import (
	"context"
	"errors"

	"nathanbeddoewebdev/namectl/cmd/commands/cmdutil"
	"nathanbeddoewebdev/namectl/internal/names/domain"
	"nathanbeddoewebdev/namectl/internal/names/panel"
	"nathanbeddoewebdev/namectl/internal/names/policy"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewCommand returns the "records" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "View and edit the records of a name",
		Long: `View and edit the resolver and records of a name.

Records are only editable by the name's owner. Set your address with
--account or "namectl config set account <address>".`,
		SilenceUsage: true,
	}

	cmdutil.AddSessionFlags(cmd)

	cmd.AddCommand(ShowCommand())
	cmd.AddCommand(SetCommand())
	cmd.AddCommand(AddCommand())

	return cmd
}

// loadPanel fetches everything the panel shows for name and composes it.
// Sub-list failures are logged and leave the lists unloaded.
func loadPanel(ctx context.Context, s *cmdutil.Session, name string) (panel.View, *domain.Domain, error) {
	d, err := s.Service.GetDomain(ctx, name)
	if err != nil {
		return panel.View{}, nil, err
	}

	in := panel.Input{
		Domain:    d,
		IsOwner:   policy.IsOwner(s.Account, d.Owner),
		Account:   s.Account,
		Migration: s.Composer.FetchMigration(ctx, *d),
	}
	lists, err := s.Composer.FetchRecordLists(ctx, *d, 0)
	if err != nil {
		s.Logger.Warn("record lists unavailable", zap.String("name", d.Name), zap.Error(err))
	} else {
		in.Lists = &lists
	}

	return panel.Compose(in), d, nil
}

// checkEditable rejects edits to records behind the legacy public resolver.
func checkEditable(ctx context.Context, s *cmdutil.Session, d *domain.Domain) error {
	status := s.Composer.FetchMigration(ctx, *d)
	if status.Flags().IsOldPublicResolver {
		return errors.New(panel.LegacyResolverNotice)
	}
	return nil
}
