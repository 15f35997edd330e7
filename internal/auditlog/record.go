package auditlog

import "time"

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// AuditEntry represents a persisted audit event. For record mutations
// ResourceName is the domain name, ResourceType the record kind and
// ResourceID the record key (coin symbol or text key) when there is one.
type AuditEntry struct {
	ID           int64     `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Command      string    `json:"command"`
	Args         string    `json:"args,omitempty"`
	Provider     string    `json:"provider,omitempty"`
	Account      string    `json:"account,omitempty"`
	ResourceType string    `json:"resource_type,omitempty"`
	ResourceID   string    `json:"resource_id,omitempty"`
	ResourceName string    `json:"resource_name,omitempty"`
	Outcome      string    `json:"outcome"`
	Detail       string    `json:"detail,omitempty"`
	DurationMs   int64     `json:"duration_ms"`
}

// Writer is the subset of Repository needed to record entries.
type Writer interface {
	Save(entry *AuditEntry) error
}

// Finish fills in the outcome and duration of entry from err and start,
// then saves it. Save failures are returned so callers can log them; they
// never affect the audited operation.
func Finish(w Writer, entry *AuditEntry, start time.Time, err error) error {
	if w == nil {
		return nil
	}
	entry.Timestamp = start.UTC()
	entry.DurationMs = time.Since(start).Milliseconds()
	if err != nil {
		entry.Outcome = OutcomeError
		entry.Detail = err.Error()
	} else {
		entry.Outcome = OutcomeSuccess
	}
	return w.Save(entry)
}
