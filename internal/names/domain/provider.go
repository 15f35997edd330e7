package domain

import "context"

// Provider is the interface that name-service backends must implement.
// It covers reading a name's state and every record mutation the
// records panel can issue.
type Provider interface {
	// GetDisplayName returns the human-readable backend name (e.g. "GraphQL").
	GetDisplayName() string

	// GetDomain returns the current state of a name.
	GetDomain(ctx context.Context, name string) (*Domain, error)

	// GetResolverMigrationInfo reports whether resolver is an outdated
	// resolver for name.
	GetResolverMigrationInfo(ctx context.Context, name, resolver string) (*MigrationInfo, error)

	// ListAddresses returns the non-empty address records for the given coins.
	ListAddresses(ctx context.Context, name string, coins []string) ([]AddressRecord, error)

	// ListTextRecords returns the non-empty text records for the given keys.
	ListTextRecords(ctx context.Context, name string, keys []string) ([]TextRecord, error)

	// SetResolver points name at a new resolver contract.
	SetResolver(ctx context.Context, name, address string) error

	// SetAddress sets the primary address record.
	SetAddress(ctx context.Context, name, address string) error

	// SetContent sets the legacy bytes32 content record.
	SetContent(ctx context.Context, name, content string) error

	// SetContenthash sets the encoded contenthash record.
	SetContenthash(ctx context.Context, name, hash string) error

	// SetText sets a text record.
	SetText(ctx context.Context, name, key, value string) error

	// SetAddr sets the address record for another coin.
	SetAddr(ctx context.Context, name, coin, value string) error
}
