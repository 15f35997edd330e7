// Package panel composes the resolver and records panel for a domain. The
// composition itself is pure; fetching and mutations are delegated to the
// injected Queries and Mutations.
package panel

import (
	"context"
	"fmt"

	"nathanbeddoewebdev/namectl/internal/names/domain"
	"nathanbeddoewebdev/namectl/internal/names/policy"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Queries reads the state the panel needs beyond the domain itself.
type Queries interface {
	ResolverMigrationInfo(ctx context.Context, name, resolver string) (*domain.MigrationInfo, error)
	OtherAddresses(ctx context.Context, name string, generation uint64) ([]domain.AddressRecord, error)
	TextRecords(ctx context.Context, name string, generation uint64) ([]domain.TextRecord, error)
}

// Mutations are the record mutation handles.
type Mutations interface {
	SetResolver(ctx context.Context, name, address string) error
	SetAddress(ctx context.Context, name, address string) error
	SetContent(ctx context.Context, name, content string) error
	SetContenthash(ctx context.Context, name, hash string) error
	SetText(ctx context.Context, name, key, value string) error
	SetAddr(ctx context.Context, name, coin, value string) error
}

// Composer runs the panel's queries and dispatches its edits.
type Composer struct {
	queries   Queries
	mutations Mutations
	logger    *zap.Logger
}

// Option configures a Composer.
type Option func(*Composer)

// WithLogger sets the logger used for swallowed query failures.
func WithLogger(l *zap.Logger) Option {
	return func(c *Composer) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewComposer returns a Composer over the given collaborators.
func NewComposer(q Queries, m Mutations, opts ...Option) *Composer {
	c := &Composer{queries: q, mutations: m, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchMigration looks up migration info for the domain's resolver. The
// lookup is skipped when no resolver is set. Failures are logged and
// reported as a completed status without data, so defaults apply.
func (c *Composer) FetchMigration(ctx context.Context, d domain.Domain) MigrationStatus {
	if !policy.HasResolver(d.Resolver) {
		return MigrationStatus{}
	}

	info, err := c.queries.ResolverMigrationInfo(ctx, d.Name, d.Resolver)
	if err != nil {
		c.logger.Warn("resolver migration lookup failed",
			zap.String("name", d.Name),
			zap.String("resolver", d.Resolver),
			zap.Error(err))
		return MigrationStatus{}
	}
	return MigrationStatus{Info: info}
}

// FetchRecordLists fetches the other-address and text sub-lists
// concurrently for the given generation.
func (c *Composer) FetchRecordLists(ctx context.Context, d domain.Domain, generation uint64) (RecordLists, error) {
	lists := RecordLists{Generation: generation}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addrs, err := c.queries.OtherAddresses(gctx, d.Name, generation)
		if err != nil {
			return fmt.Errorf("fetching other addresses: %w", err)
		}
		lists.OtherAddresses = addrs
		return nil
	})
	g.Go(func() error {
		texts, err := c.queries.TextRecords(gctx, d.Name, generation)
		if err != nil {
			return fmt.Errorf("fetching text records: %w", err)
		}
		lists.TextRecords = texts
		return nil
	})
	if err := g.Wait(); err != nil {
		return RecordLists{}, err
	}
	return lists, nil
}

// Edit is a single change requested from the panel.
type Edit struct {
	Mutation MutationKind
	// Key is the coin symbol for MutationSetAddr and the text key for
	// MutationSetText.
	Key   string
	Value string
}

// AddEdit builds the edit for adding a record of kind to d. Content is
// routed by the domain's content type.
func AddEdit(d domain.Domain, kind domain.RecordKind, key, value string) (Edit, error) {
	switch kind {
	case domain.RecordKindAddress:
		return Edit{Mutation: MutationSetAddress, Value: value}, nil
	case domain.RecordKindContent:
		return Edit{Mutation: contentMutation(d.ContentType), Value: value}, nil
	case domain.RecordKindOtherAddresses:
		return Edit{Mutation: MutationSetAddr, Key: key, Value: value}, nil
	case domain.RecordKindText:
		return Edit{Mutation: MutationSetText, Key: key, Value: value}, nil
	default:
		return Edit{}, fmt.Errorf("unknown record kind %q: %w", kind, domain.ErrInvalidInput)
	}
}

// Apply dispatches e to the matching mutation handle. It never changes
// local state; callers refetch on success.
func (c *Composer) Apply(ctx context.Context, d domain.Domain, e Edit) error {
	if d.Name == "" {
		return fmt.Errorf("no domain to edit: %w", domain.ErrInvalidInput)
	}

	switch e.Mutation {
	case MutationSetResolver:
		return c.mutations.SetResolver(ctx, d.Name, e.Value)
	case MutationSetAddress:
		return c.mutations.SetAddress(ctx, d.Name, e.Value)
	case MutationSetContent:
		return c.mutations.SetContent(ctx, d.Name, e.Value)
	case MutationSetContenthash:
		return c.mutations.SetContenthash(ctx, d.Name, e.Value)
	case MutationSetText:
		if e.Key == "" {
			return fmt.Errorf("text record key is required: %w", domain.ErrInvalidInput)
		}
		return c.mutations.SetText(ctx, d.Name, e.Key, e.Value)
	case MutationSetAddr:
		if e.Key == "" {
			return fmt.Errorf("coin is required: %w", domain.ErrInvalidInput)
		}
		return c.mutations.SetAddr(ctx, d.Name, e.Key, e.Value)
	default:
		return fmt.Errorf("unsupported mutation %q: %w", e.Mutation, domain.ErrInvalidInput)
	}
}
