// Package cmdutil wires configuration, logging, providers and services
// together for the commands that operate on names.
package cmdutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"nathanbeddoewebdev/namectl/internal/auditlog"
	"nathanbeddoewebdev/namectl/internal/config"
	"nathanbeddoewebdev/namectl/internal/logging"
	"nathanbeddoewebdev/namectl/internal/names/domain"
	"nathanbeddoewebdev/namectl/internal/names/panel"
	"nathanbeddoewebdev/namectl/internal/names/policy"
	"nathanbeddoewebdev/namectl/internal/names/providers"
	"nathanbeddoewebdev/namectl/internal/names/services"
	"nathanbeddoewebdev/namectl/internal/services/auth"
	"nathanbeddoewebdev/namectl/internal/swrcache"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// EnvDisableCache turns off the on-disk record list cache when set to "1".
const EnvDisableCache = "NAMECTL_DISABLE_CACHE"

// Flag names shared by every name command group.
const (
	FlagProvider = "provider"
	FlagAccount  = "account"
	FlagDebug    = "debug"
)

// AddSessionFlags registers the persistent flags read by Open.
func AddSessionFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String(FlagProvider, "", "Name-service provider to use (overrides default-provider)")
	cmd.PersistentFlags().String(FlagAccount, "", "Your address; names it owns are editable (overrides account)")
	cmd.PersistentFlags().Bool(FlagDebug, false, "Enable debug logging")
}

// Options adjusts how a Session is opened.
type Options struct {
	// LogToFile sends log output to logging.DefaultFilePath. Set it when a
	// full-screen TUI will own the terminal.
	LogToFile bool
}

// Session bundles everything a name command needs.
type Session struct {
	Config       *config.Config
	Logger       *zap.Logger
	ProviderName string
	DisplayName  string
	Account      string
	Service      *services.Service
	Composer     *panel.Composer

	provider domain.Provider
	audit    *auditlog.SQLiteRepository
}

// Open resolves the provider and account from flags and config, builds the
// logger and stamps the command context with audit metadata.
func Open(cmd *cobra.Command, args []string, opts Options) (*Session, error) {
	cfg, err := config.LoadWithEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	providerName := flagOr(cmd, FlagProvider, cfg.DefaultProvider)
	if providerName == "" {
		providerName = providers.GraphQLName
	}

	account, err := resolveAccount(flagOr(cmd, FlagAccount, cfg.Account))
	if err != nil {
		return nil, err
	}

	debug, _ := cmd.Flags().GetBool(FlagDebug)
	logOpts := logging.Options{Level: cfg.LogLevel, Debug: debug}
	if opts.LogToFile {
		logOpts.Path = logging.DefaultFilePath()
	}
	logger, err := logging.New(logOpts)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)

	provider, err := providers.Get(providerName, auth.DefaultStore())
	if err != nil {
		return nil, err
	}

	s := &Session{
		Config:       cfg,
		Logger:       logger,
		ProviderName: providerName,
		Account:      account,
		provider:     provider,
	}

	svcOpts := []services.Option{services.WithLogger(logger)}
	if repo, err := auditlog.Open(); err != nil {
		logger.Warn("audit log unavailable", zap.Error(err))
	} else {
		s.audit = repo
		svcOpts = append(svcOpts, services.WithAudit(repo))
	}
	if os.Getenv(EnvDisableCache) != "1" {
		svcOpts = append(svcOpts, services.WithCache(swrcache.NewDefault()))
	}

	s.Service = services.New(provider, svcOpts...)
	s.DisplayName = s.Service.ProviderName()
	s.Composer = panel.NewComposer(s.Service, s.Service, panel.WithLogger(logger))

	cmd.SetContext(auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{
		Command:  cmd.CommandPath(),
		Args:     strings.Join(auditlog.SanitizeArgs(args), " "),
		Provider: providerName,
		Account:  account,
	}))

	return s, nil
}

// Close releases the audit database and the provider's resources.
func (s *Session) Close() error {
	var errs []error
	if s.audit != nil {
		errs = append(errs, s.audit.Close())
	}
	if c, ok := s.provider.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	_ = s.Logger.Sync()
	return errors.Join(errs...)
}

// RequireOwner fails when an account is configured and does not own d.
// Without an account the backend is left to enforce ownership.
func (s *Session) RequireOwner(d *domain.Domain) error {
	if s.Account == "" {
		return nil
	}
	if !policy.IsOwner(s.Account, d.Owner) {
		return fmt.Errorf("%s is owned by %s, not %s: %w", d.Name, d.Owner, s.Account, domain.ErrUnauthorized)
	}
	return nil
}

func resolveAccount(account string) (string, error) {
	if account == "" {
		return "", nil
	}
	spec := config.Lookup("account")
	normalized, err := spec.NormalizeValue(account)
	if err != nil {
		return "", fmt.Errorf("invalid account: %w", err)
	}
	return normalized, nil
}

// flagOr returns the flag's value when it was set, else fallback.
func flagOr(cmd *cobra.Command, name, fallback string) string {
	if f := cmd.Flag(name); f != nil && f.Changed {
		return strings.TrimSpace(f.Value.String())
	}
	return strings.TrimSpace(fallback)
}
