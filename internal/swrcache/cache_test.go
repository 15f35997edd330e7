package swrcache

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestGetOrFetch_FreshCache(t *testing.T) {
	dir := t.TempDir()
	cache := WithTTLs(dir, 5*time.Minute, time.Hour)

	key := "graphql_text_vitalik.eth"
	if err := writeEntry(cache, key, Entry[string]{Data: "cached", FetchedAt: time.Now().Add(-time.Minute)}); err != nil {
		t.Fatalf("writeEntry error: %v", err)
	}

	called := 0
	fetch := func(ctx context.Context) (string, error) {
		called++
		return "fresh", nil
	}

	got, err := GetOrFetch(cache, context.Background(), key, 0, fetch)
	if err != nil {
		t.Fatalf("GetOrFetch error: %v", err)
	}
	if got != "cached" {
		t.Fatalf("got %q, want %q", got, "cached")
	}
	if called != 0 {
		t.Fatalf("fetch called %d times, want 0", called)
	}
}

func TestGetOrFetch_StaleCacheRevalidates(t *testing.T) {
	dir := t.TempDir()
	cache := WithTTLs(dir, 5*time.Minute, time.Hour)

	key := "graphql_addresses_vitalik.eth"
	if err := writeEntry(cache, key, Entry[string]{Data: "cached", FetchedAt: time.Now().Add(-10 * time.Minute)}); err != nil {
		t.Fatalf("writeEntry error: %v", err)
	}

	called := make(chan struct{}, 1)
	fetch := func(ctx context.Context) (string, error) {
		called <- struct{}{}
		return "fresh", nil
	}

	got, err := GetOrFetch(cache, context.Background(), key, 0, fetch)
	if err != nil {
		t.Fatalf("GetOrFetch error: %v", err)
	}
	if got != "cached" {
		t.Fatalf("got %q, want %q", got, "cached")
	}

	select {
	case <-called:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected background revalidation")
	}

	deadline := time.Now().Add(750 * time.Millisecond)
	for time.Now().Before(deadline) {
		entry, ok, _ := readEntry[string](cache, key)
		if ok && entry.Data == "fresh" {
			return
		}
		time.Sleep(25 * time.Millisecond)
	}
	entry, ok, _ := readEntry[string](cache, key)
	if !ok || entry.Data != "fresh" {
		t.Fatalf("expected cache to be refreshed, got ok=%v data=%q", ok, entry.Data)
	}
}

func TestGetOrFetch_ExpiredCacheFetchesSync(t *testing.T) {
	dir := t.TempDir()
	cache := WithTTLs(dir, 5*time.Minute, time.Hour)

	key := "graphql_text_vitalik.eth"
	if err := writeEntry(cache, key, Entry[string]{Data: "cached", FetchedAt: time.Now().Add(-2 * time.Hour)}); err != nil {
		t.Fatalf("writeEntry error: %v", err)
	}

	called := 0
	fetch := func(ctx context.Context) (string, error) {
		called++
		return "fresh", nil
	}

	got, err := GetOrFetch(cache, context.Background(), key, 0, fetch)
	if err != nil {
		t.Fatalf("GetOrFetch error: %v", err)
	}
	if got != "fresh" {
		t.Fatalf("got %q, want %q", got, "fresh")
	}
	if called != 1 {
		t.Fatalf("fetch called %d times, want 1", called)
	}
}

func TestGetOrFetch_MissFetchesSync(t *testing.T) {
	dir := t.TempDir()
	cache := WithTTLs(dir, 5*time.Minute, time.Hour)

	called := 0
	fetch := func(ctx context.Context) (string, error) {
		called++
		return "fresh", nil
	}

	got, err := GetOrFetch(cache, context.Background(), "missing", 0, fetch)
	if err != nil {
		t.Fatalf("GetOrFetch error: %v", err)
	}
	if got != "fresh" {
		t.Fatalf("got %q, want %q", got, "fresh")
	}
	if called != 1 {
		t.Fatalf("fetch called %d times, want 1", called)
	}
}

func TestInvalidatePrefix(t *testing.T) {
	dir := t.TempDir()
	cache := WithTTLs(dir, 5*time.Minute, time.Hour)

	if err := writeEntry(cache, "graphql_text_vitalik.eth", Entry[string]{Data: "a", FetchedAt: time.Now()}); err != nil {
		t.Fatalf("writeEntry error: %v", err)
	}
	if err := writeEntry(cache, "graphql_addresses_vitalik.eth", Entry[string]{Data: "b", FetchedAt: time.Now()}); err != nil {
		t.Fatalf("writeEntry error: %v", err)
	}
	if err := writeEntry(cache, "local_text_nick.eth", Entry[string]{Data: "c", FetchedAt: time.Now()}); err != nil {
		t.Fatalf("writeEntry error: %v", err)
	}

	if err := cache.InvalidatePrefix("graphql_"); err != nil {
		t.Fatalf("InvalidatePrefix error: %v", err)
	}

	if _, ok, _ := readEntry[string](cache, "graphql_text_vitalik.eth"); ok {
		t.Fatal("expected graphql text entry to be removed")
	}
	if _, ok, _ := readEntry[string](cache, "graphql_addresses_vitalik.eth"); ok {
		t.Fatal("expected graphql addresses entry to be removed")
	}
	if _, ok, _ := readEntry[string](cache, "local_text_nick.eth"); !ok {
		t.Fatal("expected local entry to remain")
	}
}

func TestGetOrFetch_GenerationMismatchFetchesSync(t *testing.T) {
	dir := t.TempDir()
	cache := WithTTLs(dir, 5*time.Minute, time.Hour)

	key := "graphql_text_vitalik.eth"
	if err := writeEntry(cache, key, Entry[string]{Data: "cached", FetchedAt: time.Now(), Generation: 1}); err != nil {
		t.Fatalf("writeEntry error: %v", err)
	}

	called := 0
	fetch := func(ctx context.Context) (string, error) {
		called++
		return "fresh", nil
	}

	got, err := GetOrFetch(cache, context.Background(), key, 2, fetch)
	if err != nil {
		t.Fatalf("GetOrFetch error: %v", err)
	}
	if got != "fresh" {
		t.Fatalf("got %q, want %q", got, "fresh")
	}
	if called != 1 {
		t.Fatalf("fetch called %d times, want 1", called)
	}

	entry, ok, _ := readEntry[string](cache, key)
	if !ok || entry.Generation != 2 {
		t.Fatalf("expected entry stamped with generation 2, got ok=%v generation=%d", ok, entry.Generation)
	}
}

func TestGetOrFetch_NilCacheAlwaysFetches(t *testing.T) {
	called := 0
	fetch := func(ctx context.Context) (int, error) {
		called++
		return 42, nil
	}

	got, err := GetOrFetch[int](nil, context.Background(), "any", 0, fetch)
	if err != nil || got != 42 || called != 1 {
		t.Fatalf("got (%d, %v) after %d calls, want (42, nil) after 1", got, err, called)
	}
}

func TestNewDefault_HonoursEnvDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvDir, dir)

	if got := NewDefault().dir; got != dir {
		t.Errorf("dir = %q, want %q", got, dir)
	}
}

func TestClear(t *testing.T) {
	cache := WithTTLs(t.TempDir(), 5*time.Minute, time.Hour)
	for _, key := range []string{"local_alice.eth_text", "graphql_bob.eth_addresses"} {
		if err := writeEntry(cache, key, Entry[string]{Data: "x", FetchedAt: time.Now()}); err != nil {
			t.Fatalf("writeEntry error: %v", err)
		}
	}

	if err := cache.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	for _, key := range []string{"local_alice.eth_text", "graphql_bob.eth_addresses"} {
		if _, ok, _ := readEntry[string](cache, key); ok {
			t.Errorf("expected %s to be removed", key)
		}
	}

	if err := WithTTLs(filepath.Join(t.TempDir(), "missing"), time.Minute, time.Hour).Clear(); err != nil {
		t.Errorf("Clear on a missing dir: %v", err)
	}
}
