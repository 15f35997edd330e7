package auditlog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func tempRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "namectl.db")
	r, err := OpenAt(path)
	if err != nil {
		t.Fatalf("OpenAt failed: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestSave_AssignsIDAndTimestamp(t *testing.T) {
	r := tempRepo(t)

	entry := &AuditEntry{
		Command:    "namectl records set",
		Outcome:    OutcomeSuccess,
		DurationMs: 12,
	}

	if err := r.Save(entry); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if entry.ID == 0 {
		t.Error("expected ID to be assigned")
	}
	if entry.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestList(t *testing.T) {
	r := tempRepo(t)

	for i := range 3 {
		entry := &AuditEntry{
			Command:   "namectl records set",
			Outcome:   OutcomeSuccess,
			Timestamp: time.Now().UTC().Add(time.Duration(i) * time.Second),
		}
		if err := r.Save(entry); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	entries, err := r.List(2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Timestamp.Before(entries[1].Timestamp) {
		t.Error("expected entries sorted by timestamp descending")
	}
}

func TestListByCommand(t *testing.T) {
	r := tempRepo(t)

	entries := []*AuditEntry{
		{Command: "namectl records set", Outcome: OutcomeSuccess},
		{Command: "namectl resolver set", Outcome: OutcomeSuccess},
		{Command: "namectl records set", Outcome: OutcomeError},
	}
	for _, entry := range entries {
		if err := r.Save(entry); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	listEntries, err := r.ListByCommand("namectl records set", 10)
	if err != nil {
		t.Fatalf("ListByCommand failed: %v", err)
	}
	if len(listEntries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(listEntries))
	}
	for _, entry := range listEntries {
		if entry.Command != "namectl records set" {
			t.Errorf("expected command 'namectl records set', got %q", entry.Command)
		}
	}
}

func TestListByName(t *testing.T) {
	r := tempRepo(t)

	entries := []*AuditEntry{
		{Command: "namectl records set", ResourceName: "alice.eth", ResourceType: "text", ResourceID: "url", Account: "0xabc", Outcome: OutcomeSuccess},
		{Command: "namectl records set", ResourceName: "bob.eth", ResourceType: "address", Outcome: OutcomeSuccess},
	}
	for _, entry := range entries {
		if err := r.Save(entry); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	got, err := r.ListByName("alice.eth", 10)
	if err != nil {
		t.Fatalf("ListByName failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}

	want := *entries[0]
	if diff := cmp.Diff(want, got[0], cmp.Comparer(func(a, b time.Time) bool { return a.Equal(b) })); diff != "" {
		t.Errorf("ListByName mismatch (-want +got):\n%s", diff)
	}
}

func TestPrune(t *testing.T) {
	r := tempRepo(t)

	oldEntry := &AuditEntry{
		Command:   "namectl records set",
		Outcome:   OutcomeSuccess,
		Timestamp: time.Now().UTC().Add(-48 * time.Hour),
	}
	recentEntry := &AuditEntry{
		Command:   "namectl records set",
		Outcome:   OutcomeSuccess,
		Timestamp: time.Now().UTC().Add(-1 * time.Hour),
	}

	if err := r.Save(oldEntry); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := r.Save(recentEntry); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	removed, err := r.Prune(24 * time.Hour)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}

	remaining, err := r.List(10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("expected 1 remaining entry, got %d", len(remaining))
	}
}

type captureWriter struct {
	saved []*AuditEntry
}

func (w *captureWriter) Save(entry *AuditEntry) error {
	w.saved = append(w.saved, entry)
	return nil
}

func TestFinish(t *testing.T) {
	w := &captureWriter{}
	start := time.Now().Add(-50 * time.Millisecond)

	if err := Finish(w, &AuditEntry{Command: "ok"}, start, nil); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if err := Finish(w, &AuditEntry{Command: "bad"}, start, errors.New("boom")); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	if len(w.saved) != 2 {
		t.Fatalf("saved %d entries, want 2", len(w.saved))
	}
	if w.saved[0].Outcome != OutcomeSuccess || w.saved[0].Detail != "" {
		t.Errorf("success entry = %+v", w.saved[0])
	}
	if w.saved[1].Outcome != OutcomeError || w.saved[1].Detail != "boom" {
		t.Errorf("error entry = %+v", w.saved[1])
	}
	if w.saved[0].DurationMs < 50 {
		t.Errorf("DurationMs = %d, want >= 50", w.saved[0].DurationMs)
	}
}

func TestFinish_NilWriter(t *testing.T) {
	if err := Finish(nil, &AuditEntry{}, time.Now(), nil); err != nil {
		t.Fatalf("Finish(nil) = %v", err)
	}
}

func TestMetadata_Merge(t *testing.T) {
	ctx := WithMetadata(context.Background(), Metadata{Command: "namectl records set", Provider: "graphql"})
	ctx = WithMetadata(ctx, Metadata{Account: "0xabc"})

	want := Metadata{Command: "namectl records set", Provider: "graphql", Account: "0xabc"}
	if diff := cmp.Diff(want, MetadataFromContext(ctx)); diff != "" {
		t.Errorf("metadata mismatch (-want +got):\n%s", diff)
	}
}

func TestSanitizeArgs(t *testing.T) {
	got := SanitizeArgs([]string{"login", "graphql", "--token", "secret", "--api-key=abc", "--debug"})
	want := []string{"login", "graphql", "--token", "<redacted>", "--api-key=<redacted>", "--debug"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SanitizeArgs mismatch (-want +got):\n%s", diff)
	}

	trailing := SanitizeArgs([]string{"--token"})
	if diff := cmp.Diff([]string{"--token", "<redacted>"}, trailing); diff != "" {
		t.Errorf("trailing flag mismatch (-want +got):\n%s", diff)
	}
}
