package services

import (
	"context"
	"time"

	"nathanbeddoewebdev/namectl/internal/auditlog"

	"go.uber.org/zap"
)

// mutate runs fn and records the attempt in the audit log. The command path
// and account come from the context metadata set by the CLI.
func (s *Service) mutate(ctx context.Context, name, kind, key string, fn func() error) error {
	start := time.Now()
	err := fn()

	meta := auditlog.MetadataFromContext(ctx)
	entry := &auditlog.AuditEntry{
		Command:      meta.Command,
		Args:         meta.Args,
		Provider:     meta.Provider,
		Account:      meta.Account,
		ResourceType: kind,
		ResourceID:   key,
		ResourceName: name,
	}
	if entry.Command == "" {
		entry.Command = "namectl"
	}
	if entry.Provider == "" {
		entry.Provider = s.ProviderName()
	}
	if auditErr := auditlog.Finish(s.audit, entry, start, err); auditErr != nil {
		s.logger.Warn("failed to write audit entry", zap.Error(auditErr))
	}

	fields := []zap.Field{
		zap.String("name", name),
		zap.String("record", kind),
		zap.Duration("took", time.Since(start)),
	}
	if key != "" {
		fields = append(fields, zap.String("key", key))
	}
	if err != nil {
		s.logger.Error("record update failed", append(fields, zap.Error(err))...)
		return err
	}
	s.logger.Info("record updated", fields...)
	return nil
}
