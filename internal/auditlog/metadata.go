package auditlog

import "context"

// Metadata is attached to a command's context so layers below the CLI can
// stamp audit entries with the invoking command.
type Metadata struct {
	Command  string
	Args     string
	Provider string
	Account  string
}

type metadataKey struct{}

// WithMetadata attaches audit metadata to a context. Non-empty fields of
// meta override those already present.
func WithMetadata(ctx context.Context, meta Metadata) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	existing, _ := ctx.Value(metadataKey{}).(Metadata)
	merged := Metadata{
		Command:  pick(meta.Command, existing.Command),
		Args:     pick(meta.Args, existing.Args),
		Provider: pick(meta.Provider, existing.Provider),
		Account:  pick(meta.Account, existing.Account),
	}
	return context.WithValue(ctx, metadataKey{}, merged)
}

// MetadataFromContext returns audit metadata stored in the context.
func MetadataFromContext(ctx context.Context) Metadata {
	if ctx == nil {
		return Metadata{}
	}
	meta, _ := ctx.Value(metadataKey{}).(Metadata)
	return meta
}

func pick(next, fallback string) string {
	if next != "" {
		return next
	}
	return fallback
}
