// Package services provides the name-service layer.
//
// The Service type wraps a domain.Provider and adds input normalisation,
// validation, caching, retries for reads, and an audit trail for mutations
// before delegating to the provider. It satisfies panel.Queries and
// panel.Mutations, so the records panel talks to it rather than to a
// provider directly.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nathanbeddoewebdev/namectl/internal/auditlog"
	"nathanbeddoewebdev/namectl/internal/names/contenthash"
	"nathanbeddoewebdev/namectl/internal/names/domain"
	"nathanbeddoewebdev/namectl/internal/names/panel"
	"nathanbeddoewebdev/namectl/internal/retry"
	"nathanbeddoewebdev/namectl/internal/swrcache"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
)

const (
	// DefaultMigrationCacheSize bounds the in-process migration info cache.
	DefaultMigrationCacheSize = 256

	// DefaultMigrationTTL is how long a migration lookup is reused before the
	// provider is asked again.
	DefaultMigrationTTL = 30 * time.Second
)

type migrationEntry struct {
	info      domain.MigrationInfo
	fetchedAt time.Time
}

var (
	_ panel.Queries   = (*Service)(nil)
	_ panel.Mutations = (*Service)(nil)
)

// Service is the name-service business logic layer.
type Service struct {
	provider     domain.Provider
	cache        *swrcache.Cache
	migrations   *lru.Cache
	migrationTTL time.Duration
	audit        auditlog.Writer
	logger       *zap.Logger
	retry        retry.Config
	now          func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithCache enables stale-while-revalidate caching for record lists.
func WithCache(cache *swrcache.Cache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithMigrationTTL sets how long migration lookups are reused. Zero or
// less disables reuse.
func WithMigrationTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.migrationTTL = ttl
	}
}

// WithAudit records every mutation attempt to w.
func WithAudit(w auditlog.Writer) Option {
	return func(s *Service) {
		s.audit = w
	}
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRetry overrides the retry policy for reads.
func WithRetry(cfg retry.Config) Option {
	return func(s *Service) {
		s.retry = cfg
	}
}

// New returns a Service backed by the given provider.
func New(provider domain.Provider, opts ...Option) *Service {
	migrations, err := lru.New(DefaultMigrationCacheSize)
	if err != nil {
		// Only reachable with a non-positive size.
		panic(fmt.Sprintf("names/services: %v", err))
	}

	svc := &Service{
		provider:     provider,
		migrations:   migrations,
		migrationTTL: DefaultMigrationTTL,
		logger:       zap.NewNop(),
		retry:        retry.DefaultConfig(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// ProviderName returns the display name of the underlying provider.
func (s *Service) ProviderName() string {
	return s.provider.GetDisplayName()
}

// GetDomain returns the current state of a name.
func (s *Service) GetDomain(ctx context.Context, name string) (*domain.Domain, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	d, err := retry.Value(ctx, s.retry, retry.IsRetryable, func() (*domain.Domain, error) {
		return s.provider.GetDomain(ctx, name)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", name, err)
	}
	return d, nil
}

// ResolverMigrationInfo reports whether resolver is outdated for name.
// Results are cached per (name, resolver) for the migration TTL, and
// dropped early when the resolver changes.
func (s *Service) ResolverMigrationInfo(ctx context.Context, name, resolver string) (*domain.MigrationInfo, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	resolver, err = normalizeAddress(resolver)
	if err != nil {
		return nil, err
	}

	key := migrationKey(name, resolver)
	if cached, ok := s.migrations.Get(key); ok {
		entry := cached.(migrationEntry)
		if s.now().Sub(entry.fetchedAt) < s.migrationTTL {
			info := entry.info
			return &info, nil
		}
		s.migrations.Remove(key)
	}

	info, err := retry.Value(ctx, s.retry, retry.IsRetryable, func() (*domain.MigrationInfo, error) {
		return s.provider.GetResolverMigrationInfo(ctx, name, resolver)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get migration info for %s: %w", name, err)
	}
	if info == nil {
		return nil, fmt.Errorf("migration info for %s: %w", name, domain.ErrNotFound)
	}

	s.migrations.Add(key, migrationEntry{info: *info, fetchedAt: s.now()})
	return info, nil
}

// OtherAddresses returns the non-empty address records for the known coins.
func (s *Service) OtherAddresses(ctx context.Context, name string, generation uint64) ([]domain.AddressRecord, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	key := cacheKey(s.provider.GetDisplayName(), name, "addresses")
	return swrcache.GetOrFetch(s.cache, ctx, key, generation, func(ctx context.Context) ([]domain.AddressRecord, error) {
		return retry.Value(ctx, s.retry, retry.IsRetryable, func() ([]domain.AddressRecord, error) {
			return s.provider.ListAddresses(ctx, name, domain.CoinList)
		})
	})
}

// TextRecords returns the non-empty text records for the well-known keys.
func (s *Service) TextRecords(ctx context.Context, name string, generation uint64) ([]domain.TextRecord, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	key := cacheKey(s.provider.GetDisplayName(), name, "text")
	return swrcache.GetOrFetch(s.cache, ctx, key, generation, func(ctx context.Context) ([]domain.TextRecord, error) {
		return retry.Value(ctx, s.retry, retry.IsRetryable, func() ([]domain.TextRecord, error) {
			return s.provider.ListTextRecords(ctx, name, domain.TextRecordKeys)
		})
	})
}

// SetResolver points name at a new resolver and forgets any cached
// migration info for it.
func (s *Service) SetResolver(ctx context.Context, name, address string) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	address, err = normalizeAddress(address)
	if err != nil {
		return err
	}

	err = s.mutate(ctx, name, "resolver", "", func() error {
		return s.provider.SetResolver(ctx, name, address)
	})
	if err == nil {
		s.forgetMigrations(name)
		s.invalidateLists(name)
	}
	return err
}

// SetAddress sets the primary address record.
func (s *Service) SetAddress(ctx context.Context, name, address string) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	address, err = normalizeAddress(address)
	if err != nil {
		return err
	}

	return s.mutate(ctx, name, string(domain.RecordKindAddress), "", func() error {
		return s.provider.SetAddress(ctx, name, address)
	})
}

// SetContent sets the legacy bytes32 content record.
func (s *Service) SetContent(ctx context.Context, name, content string) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	content, err = normalizeLegacyContent(content)
	if err != nil {
		return err
	}

	return s.mutate(ctx, name, string(domain.RecordKindContent), "", func() error {
		return s.provider.SetContent(ctx, name, content)
	})
}

// SetContenthash encodes value (a URI or raw hex) and stores it as the
// contenthash record.
func (s *Service) SetContenthash(ctx context.Context, name, value string) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	hash, err := contenthash.Encode(value)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	return s.mutate(ctx, name, string(domain.RecordKindContent), "", func() error {
		return s.provider.SetContenthash(ctx, name, hash)
	})
}

// SetText sets a text record.
func (s *Service) SetText(ctx context.Context, name, key, value string) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	key, err = normalizeTextKey(key)
	if err != nil {
		return err
	}

	err = s.mutate(ctx, name, string(domain.RecordKindText), key, func() error {
		return s.provider.SetText(ctx, name, key, value)
	})
	if err == nil {
		s.invalidate(cacheKey(s.provider.GetDisplayName(), name, "text"))
	}
	return err
}

// SetAddr sets the address record for another coin.
func (s *Service) SetAddr(ctx context.Context, name, coin, value string) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	coin, err = normalizeCoin(coin)
	if err != nil {
		return err
	}
	value, err = normalizeCoinAddress(value)
	if err != nil {
		return err
	}

	err = s.mutate(ctx, name, string(domain.RecordKindOtherAddresses), coin, func() error {
		return s.provider.SetAddr(ctx, name, coin, value)
	})
	if err == nil {
		s.invalidate(cacheKey(s.provider.GetDisplayName(), name, "addresses"))
	}
	return err
}

func (s *Service) forgetMigrations(name string) {
	prefix := migrationKey(name, "")
	for _, k := range s.migrations.Keys() {
		if key, ok := k.(string); ok && strings.HasPrefix(key, prefix) {
			s.migrations.Remove(k)
		}
	}
}

// invalidateLists drops every cached list for name. Keys for a subname
// share the prefix and are dropped too.
func (s *Service) invalidateLists(name string) {
	if s.cache == nil {
		return
	}
	prefix := cacheKey(s.provider.GetDisplayName(), name) + "_"
	if err := s.cache.InvalidatePrefix(prefix); err != nil {
		s.logger.Debug("cache invalidation failed", zap.String("prefix", prefix), zap.Error(err))
	}
}

// ClearCache forgets everything cached for this service's provider: the
// on-disk record lists and the in-process migration lookups.
func (s *Service) ClearCache() error {
	s.migrations.Purge()
	if s.cache == nil {
		return nil
	}
	if err := s.cache.InvalidatePrefix(cacheKey(s.provider.GetDisplayName()) + "_"); err != nil {
		return fmt.Errorf("failed to clear cached records for %s: %w", s.ProviderName(), err)
	}
	return nil
}

func (s *Service) invalidate(key string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(key); err != nil {
		s.logger.Debug("cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}
