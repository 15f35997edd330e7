package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"nathanbeddoewebdev/namectl/internal/auditlog"
	"nathanbeddoewebdev/namectl/internal/names/domain"
	"nathanbeddoewebdev/namectl/internal/retry"
	"nathanbeddoewebdev/namectl/internal/swrcache"

	"github.com/google/go-cmp/cmp"
)

const (
	testResolver = "0x4976fb03C32e5B8cfe2b6cCB31c09Ba78EBaBa41"
	otherAddr    = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
)

// --- Mock provider ---

type mockProvider struct {
	domain       *domain.Domain
	migration    *domain.MigrationInfo
	addresses    []domain.AddressRecord
	texts        []domain.TextRecord
	getDomainErr error
	mutationErr  error

	// Capture arguments for assertion.
	getDomainCalls int
	migrationCalls int
	addressCalls   int
	textCalls      int
	mutationCalls  int
	lastName       string
	lastKey        string
	lastValue      string
	lastCoins      []string
}

func (m *mockProvider) GetDisplayName() string { return "Mock" }

func (m *mockProvider) GetDomain(_ context.Context, name string) (*domain.Domain, error) {
	m.getDomainCalls++
	m.lastName = name
	if m.getDomainErr != nil {
		return nil, m.getDomainErr
	}
	return m.domain, nil
}

func (m *mockProvider) GetResolverMigrationInfo(_ context.Context, name, resolver string) (*domain.MigrationInfo, error) {
	m.migrationCalls++
	m.lastName = name
	m.lastValue = resolver
	return m.migration, nil
}

func (m *mockProvider) ListAddresses(_ context.Context, name string, coins []string) ([]domain.AddressRecord, error) {
	m.addressCalls++
	m.lastName = name
	m.lastCoins = coins
	return m.addresses, nil
}

func (m *mockProvider) ListTextRecords(_ context.Context, name string, keys []string) ([]domain.TextRecord, error) {
	m.textCalls++
	m.lastName = name
	return m.texts, nil
}

func (m *mockProvider) set(name, key, value string) error {
	m.mutationCalls++
	m.lastName = name
	m.lastKey = key
	m.lastValue = value
	return m.mutationErr
}

func (m *mockProvider) SetResolver(_ context.Context, name, address string) error {
	return m.set(name, "", address)
}

func (m *mockProvider) SetAddress(_ context.Context, name, address string) error {
	return m.set(name, "", address)
}

func (m *mockProvider) SetContent(_ context.Context, name, content string) error {
	return m.set(name, "", content)
}

func (m *mockProvider) SetContenthash(_ context.Context, name, hash string) error {
	return m.set(name, "", hash)
}

func (m *mockProvider) SetText(_ context.Context, name, key, value string) error {
	return m.set(name, key, value)
}

func (m *mockProvider) SetAddr(_ context.Context, name, coin, value string) error {
	return m.set(name, coin, value)
}

type captureAudit struct {
	entries []auditlog.AuditEntry
}

func (c *captureAudit) Save(entry *auditlog.AuditEntry) error {
	c.entries = append(c.entries, *entry)
	return nil
}

func fastRetry() retry.Config {
	return retry.Config{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}
}

// --- Reads ---

func TestGetDomain_NormalisesName(t *testing.T) {
	m := &mockProvider{domain: &domain.Domain{Name: "alice.eth"}}
	svc := New(m)

	if _, err := svc.GetDomain(context.Background(), "  Alice.ETH. "); err != nil {
		t.Fatalf("GetDomain: %v", err)
	}
	if m.lastName != "alice.eth" {
		t.Errorf("provider got name %q, want alice.eth", m.lastName)
	}
}

func TestGetDomain_InvalidName(t *testing.T) {
	m := &mockProvider{}
	svc := New(m)

	for _, name := range []string{"", "alice..eth", "al ice.eth"} {
		_, err := svc.GetDomain(context.Background(), name)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("GetDomain(%q) err = %v, want ErrInvalidInput", name, err)
		}
	}
	if m.getDomainCalls != 0 {
		t.Errorf("provider called %d times for invalid input", m.getDomainCalls)
	}
}

func TestGetDomain_RetriesTransientErrors(t *testing.T) {
	m := &mockProvider{getDomainErr: domain.ErrRateLimited}
	svc := New(m, WithRetry(fastRetry()))

	_, err := svc.GetDomain(context.Background(), "alice.eth")
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}
	if m.getDomainCalls != 3 {
		t.Errorf("GetDomain attempts = %d, want 3", m.getDomainCalls)
	}
}

func TestGetDomain_DoesNotRetryNotFound(t *testing.T) {
	m := &mockProvider{getDomainErr: domain.ErrNotFound}
	svc := New(m, WithRetry(fastRetry()))

	if _, err := svc.GetDomain(context.Background(), "alice.eth"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if m.getDomainCalls != 1 {
		t.Errorf("GetDomain attempts = %d, want 1", m.getDomainCalls)
	}
}

func TestResolverMigrationInfo_CachedUntilResolverChanges(t *testing.T) {
	m := &mockProvider{migration: &domain.MigrationInfo{IsOldPublicResolver: true}}
	svc := New(m)
	ctx := context.Background()

	for range 2 {
		info, err := svc.ResolverMigrationInfo(ctx, "alice.eth", testResolver)
		if err != nil {
			t.Fatalf("ResolverMigrationInfo: %v", err)
		}
		if !info.IsOldPublicResolver {
			t.Error("expected old public resolver")
		}
	}
	if m.migrationCalls != 1 {
		t.Errorf("migration lookups = %d, want 1 (cached)", m.migrationCalls)
	}

	if err := svc.SetResolver(ctx, "alice.eth", otherAddr); err != nil {
		t.Fatalf("SetResolver: %v", err)
	}
	if _, err := svc.ResolverMigrationInfo(ctx, "alice.eth", testResolver); err != nil {
		t.Fatalf("ResolverMigrationInfo: %v", err)
	}
	if m.migrationCalls != 2 {
		t.Errorf("migration lookups = %d, want 2 after SetResolver", m.migrationCalls)
	}
}

func TestResolverMigrationInfo_RequeriedAfterTTL(t *testing.T) {
	m := &mockProvider{migration: &domain.MigrationInfo{IsDeprecatedResolver: true}}
	svc := New(m, WithMigrationTTL(30*time.Second))
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	info, err := svc.ResolverMigrationInfo(ctx, "alice.eth", testResolver)
	if err != nil {
		t.Fatalf("ResolverMigrationInfo: %v", err)
	}
	if !info.IsDeprecatedResolver {
		t.Fatal("expected deprecated resolver on first lookup")
	}

	m.migration = &domain.MigrationInfo{IsDeprecatedResolver: false}

	now = now.Add(10 * time.Second)
	info, _ = svc.ResolverMigrationInfo(ctx, "alice.eth", testResolver)
	if !info.IsDeprecatedResolver || m.migrationCalls != 1 {
		t.Errorf("expected cached answer within the TTL, got %+v after %d lookups", info, m.migrationCalls)
	}

	now = now.Add(30 * time.Second)
	info, err = svc.ResolverMigrationInfo(ctx, "alice.eth", testResolver)
	if err != nil {
		t.Fatalf("ResolverMigrationInfo: %v", err)
	}
	if info.IsDeprecatedResolver {
		t.Error("expected the refreshed answer once the TTL passed")
	}
	if m.migrationCalls != 2 {
		t.Errorf("migration lookups = %d, want 2", m.migrationCalls)
	}
}

func TestResolverMigrationInfo_ZeroTTLAlwaysQueries(t *testing.T) {
	m := &mockProvider{migration: &domain.MigrationInfo{}}
	svc := New(m, WithMigrationTTL(0))

	for range 3 {
		if _, err := svc.ResolverMigrationInfo(context.Background(), "alice.eth", testResolver); err != nil {
			t.Fatalf("ResolverMigrationInfo: %v", err)
		}
	}
	if m.migrationCalls != 3 {
		t.Errorf("migration lookups = %d, want 3", m.migrationCalls)
	}
}

func TestResolverMigrationInfo_LowercasesResolver(t *testing.T) {
	m := &mockProvider{migration: &domain.MigrationInfo{}}
	svc := New(m)

	if _, err := svc.ResolverMigrationInfo(context.Background(), "alice.eth", testResolver); err != nil {
		t.Fatalf("ResolverMigrationInfo: %v", err)
	}
	if m.lastValue != "0x4976fb03c32e5b8cfe2b6ccb31c09ba78ebaba41" {
		t.Errorf("provider got resolver %q", m.lastValue)
	}
}

func TestResolverMigrationInfo_NilInfoIsNotFound(t *testing.T) {
	svc := New(&mockProvider{})
	_, err := svc.ResolverMigrationInfo(context.Background(), "alice.eth", testResolver)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestOtherAddresses_QueriesCoinList(t *testing.T) {
	m := &mockProvider{addresses: []domain.AddressRecord{{Key: "BTC", Value: "1abc"}}}
	svc := New(m)

	got, err := svc.OtherAddresses(context.Background(), "alice.eth", 0)
	if err != nil {
		t.Fatalf("OtherAddresses: %v", err)
	}
	if diff := cmp.Diff(m.addresses, got); diff != "" {
		t.Errorf("addresses mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(domain.CoinList, m.lastCoins); diff != "" {
		t.Errorf("coins mismatch (-want +got):\n%s", diff)
	}
}

func TestTextRecords_CacheAndGeneration(t *testing.T) {
	m := &mockProvider{texts: []domain.TextRecord{{Key: "url", Value: "https://example.com"}}}
	svc := New(m, WithCache(swrcache.New(t.TempDir())))
	ctx := context.Background()

	for range 2 {
		if _, err := svc.TextRecords(ctx, "alice.eth", 1); err != nil {
			t.Fatalf("TextRecords: %v", err)
		}
	}
	if m.textCalls != 1 {
		t.Errorf("text lookups = %d, want 1 (cached)", m.textCalls)
	}

	if _, err := svc.TextRecords(ctx, "alice.eth", 2); err != nil {
		t.Fatalf("TextRecords: %v", err)
	}
	if m.textCalls != 2 {
		t.Errorf("text lookups = %d, want 2 after generation bump", m.textCalls)
	}

	if err := svc.SetText(ctx, "alice.eth", "url", "https://example.org"); err != nil {
		t.Fatalf("SetText: %v", err)
	}
	if _, err := svc.TextRecords(ctx, "alice.eth", 2); err != nil {
		t.Fatalf("TextRecords: %v", err)
	}
	if m.textCalls != 3 {
		t.Errorf("text lookups = %d, want 3 after SetText", m.textCalls)
	}
}

// --- Mutations ---

func TestSetAddress_ValidatesAddress(t *testing.T) {
	m := &mockProvider{}
	svc := New(m)

	if err := svc.SetAddress(context.Background(), "alice.eth", "not-an-address"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if m.mutationCalls != 0 {
		t.Error("provider should not be called for invalid input")
	}

	if err := svc.SetAddress(context.Background(), "alice.eth", otherAddr); err != nil {
		t.Fatalf("SetAddress: %v", err)
	}
	if m.lastValue != "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed" {
		t.Errorf("provider got %q", m.lastValue)
	}
}

func TestMutations_AreNotRetried(t *testing.T) {
	m := &mockProvider{mutationErr: domain.ErrRateLimited}
	svc := New(m, WithRetry(fastRetry()))

	err := svc.SetAddress(context.Background(), "alice.eth", otherAddr)
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}
	if m.mutationCalls != 1 {
		t.Errorf("mutation attempts = %d, want 1", m.mutationCalls)
	}
}

func TestSetContenthash_EncodesURI(t *testing.T) {
	m := &mockProvider{}
	svc := New(m)

	err := svc.SetContenthash(context.Background(), "alice.eth", "ipfs://QmRAQB6YaCyidP37UdDnjFY5vQuiBrcqdyoW1CuDgwxkD4")
	if err != nil {
		t.Fatalf("SetContenthash: %v", err)
	}
	want := "0xe3010170122029f2d17be6139079dc48696d1f582a8530eb9805b561eda517e22a892c7e3f1f"
	if m.lastValue != want {
		t.Errorf("provider got %q, want %q", m.lastValue, want)
	}

	if err := svc.SetContenthash(context.Background(), "alice.eth", "https://example.com"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("unsupported URI err = %v, want ErrInvalidInput", err)
	}
}

func TestSetContent_Legacy(t *testing.T) {
	m := &mockProvider{}
	svc := New(m)
	ctx := context.Background()

	valid := "0x" + "AB" + "00000000000000000000000000000000000000000000000000000000000000"
	if err := svc.SetContent(ctx, "alice.eth", valid); err != nil {
		t.Fatalf("SetContent: %v", err)
	}
	if m.lastValue != "0xab00000000000000000000000000000000000000000000000000000000000000" {
		t.Errorf("provider got %q", m.lastValue)
	}

	for _, bad := range []string{"0x1234", "1234", "0x" + "zz00000000000000000000000000000000000000000000000000000000000000"} {
		if err := svc.SetContent(ctx, "alice.eth", bad); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("SetContent(%q) err = %v, want ErrInvalidInput", bad, err)
		}
	}
}

func TestSetText_Validation(t *testing.T) {
	m := &mockProvider{}
	svc := New(m)
	ctx := context.Background()

	for _, key := range []string{"", "  ", "com twitter"} {
		if err := svc.SetText(ctx, "alice.eth", key, "v"); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("SetText key %q err = %v, want ErrInvalidInput", key, err)
		}
	}

	if err := svc.SetText(ctx, "alice.eth", " com.twitter ", "alice"); err != nil {
		t.Fatalf("SetText: %v", err)
	}
	if m.lastKey != "com.twitter" || m.lastValue != "alice" {
		t.Errorf("provider got key=%q value=%q", m.lastKey, m.lastValue)
	}
}

func TestSetAddr_NormalisesCoin(t *testing.T) {
	m := &mockProvider{}
	svc := New(m)
	ctx := context.Background()

	if err := svc.SetAddr(ctx, "alice.eth", "btc", " 1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2 "); err != nil {
		t.Fatalf("SetAddr: %v", err)
	}
	if m.lastKey != "BTC" || m.lastValue != "1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2" {
		t.Errorf("provider got coin=%q value=%q", m.lastKey, m.lastValue)
	}

	if err := svc.SetAddr(ctx, "alice.eth", "SHIB", "x"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("unknown coin err = %v, want ErrInvalidInput", err)
	}
	if err := svc.SetAddr(ctx, "alice.eth", "BTC", ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("empty address err = %v, want ErrInvalidInput", err)
	}
}

func TestMutations_WriteAuditEntries(t *testing.T) {
	audit := &captureAudit{}
	m := &mockProvider{}
	svc := New(m, WithAudit(audit))

	ctx := auditlog.WithMetadata(context.Background(), auditlog.Metadata{
		Command: "namectl records set",
		Account: "0xabc",
	})

	if err := svc.SetText(ctx, "alice.eth", "url", "https://example.com"); err != nil {
		t.Fatalf("SetText: %v", err)
	}
	m.mutationErr = domain.ErrUnauthorized
	if err := svc.SetAddr(ctx, "alice.eth", "BTC", "1abc"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("SetAddr err = %v", err)
	}

	if len(audit.entries) != 2 {
		t.Fatalf("audit entries = %d, want 2", len(audit.entries))
	}

	first := audit.entries[0]
	if first.Command != "namectl records set" || first.Account != "0xabc" || first.Provider != "Mock" {
		t.Errorf("first entry metadata = %+v", first)
	}
	if first.ResourceName != "alice.eth" || first.ResourceType != "text" || first.ResourceID != "url" {
		t.Errorf("first entry resource = %+v", first)
	}
	if first.Outcome != auditlog.OutcomeSuccess {
		t.Errorf("first outcome = %q", first.Outcome)
	}

	second := audit.entries[1]
	if second.Outcome != auditlog.OutcomeError || second.ResourceID != "BTC" {
		t.Errorf("second entry = %+v", second)
	}
}

func TestMutations_InvalidInputNotAudited(t *testing.T) {
	audit := &captureAudit{}
	svc := New(&mockProvider{}, WithAudit(audit))

	_ = svc.SetResolver(context.Background(), "alice.eth", "nope")
	if len(audit.entries) != 0 {
		t.Errorf("audit entries = %d, want 0", len(audit.entries))
	}
}

// --- Cache maintenance ---

func TestSetResolver_DropsCachedListsForName(t *testing.T) {
	m := &mockProvider{
		addresses: []domain.AddressRecord{{Key: "BTC", Value: "1abc"}},
		texts:     []domain.TextRecord{{Key: "url", Value: "https://example.com"}},
	}
	svc := New(m, WithCache(swrcache.New(t.TempDir())))
	ctx := context.Background()

	load := func(name string) {
		t.Helper()
		if _, err := svc.OtherAddresses(ctx, name, 0); err != nil {
			t.Fatalf("OtherAddresses: %v", err)
		}
		if _, err := svc.TextRecords(ctx, name, 0); err != nil {
			t.Fatalf("TextRecords: %v", err)
		}
	}
	load("alice.eth")
	load("bob.eth")

	if err := svc.SetResolver(ctx, "alice.eth", otherAddr); err != nil {
		t.Fatalf("SetResolver: %v", err)
	}
	load("alice.eth")
	load("bob.eth")

	if m.addressCalls != 3 || m.textCalls != 3 {
		t.Errorf("lookups = (%d addresses, %d text), want 3 each: alice refetched, bob cached",
			m.addressCalls, m.textCalls)
	}
}

func TestClearCache(t *testing.T) {
	m := &mockProvider{
		migration: &domain.MigrationInfo{},
		texts:     []domain.TextRecord{{Key: "url", Value: "https://example.com"}},
	}
	svc := New(m, WithCache(swrcache.New(t.TempDir())))
	ctx := context.Background()

	warm := func() {
		t.Helper()
		if _, err := svc.TextRecords(ctx, "alice.eth", 0); err != nil {
			t.Fatalf("TextRecords: %v", err)
		}
		if _, err := svc.ResolverMigrationInfo(ctx, "alice.eth", testResolver); err != nil {
			t.Fatalf("ResolverMigrationInfo: %v", err)
		}
	}
	warm()
	warm()
	if m.textCalls != 1 || m.migrationCalls != 1 {
		t.Fatalf("expected warm caches, got %d text and %d migration lookups", m.textCalls, m.migrationCalls)
	}

	if err := svc.ClearCache(); err != nil {
		t.Fatalf("ClearCache: %v", err)
	}
	warm()
	if m.textCalls != 2 || m.migrationCalls != 2 {
		t.Errorf("expected refetch after ClearCache, got %d text and %d migration lookups", m.textCalls, m.migrationCalls)
	}
}

func TestClearCache_WithoutDiskCache(t *testing.T) {
	if err := New(&mockProvider{}).ClearCache(); err != nil {
		t.Errorf("ClearCache: %v", err)
	}
}
