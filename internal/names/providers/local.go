package providers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"nathanbeddoewebdev/namectl/internal/database"
	"nathanbeddoewebdev/namectl/internal/names/domain"
	"nathanbeddoewebdev/namectl/internal/names/namehash"
	"nathanbeddoewebdev/namectl/internal/services/auth"
)

// LocalName is the registry name of the SQLite-backed provider.
const LocalName = "local"

// Compile-time check that LocalProvider satisfies domain.Provider.
var _ domain.Provider = (*LocalProvider)(nil)

// LocalProvider implements domain.Provider on a local SQLite database. It
// keeps names keyed by namehash alongside a catalogue of known resolvers
// and is used for offline work and tests.
type LocalProvider struct {
	db *sql.DB
}

// ResolverInfo describes a resolver in the local catalogue.
type ResolverInfo struct {
	Address    string
	Label      string
	OldPublic  bool
	Deprecated bool
}

// RegisterLocal registers the local provider factory. It opens the shared
// namectl database.
func RegisterLocal() {
	Register(LocalName, func(_ auth.Store) (domain.Provider, error) {
		path, err := database.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("local: %w", err)
		}
		return OpenLocal(path)
	})
}

// OpenLocal opens (and migrates) a local provider database at path.
func OpenLocal(path string) (*LocalProvider, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("local: %w", err)
	}
	p, err := NewLocalProvider(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

// NewLocalProvider wraps an open database, creating the tables it needs.
func NewLocalProvider(db *sql.DB) (*LocalProvider, error) {
	err := database.Migrate(db, "local",
		`CREATE TABLE IF NOT EXISTS names (
            node             TEXT PRIMARY KEY,
            name             TEXT NOT NULL UNIQUE,
            owner            TEXT NOT NULL DEFAULT '',
            resolver         TEXT NOT NULL DEFAULT '0x0000000000000000000000000000000000000000',
            addr             TEXT NOT NULL DEFAULT '',
            content          TEXT NOT NULL DEFAULT '',
            content_type     TEXT NOT NULL DEFAULT 'contenthash',
            records_migrated INTEGER NOT NULL DEFAULT 1
        )`,
		`CREATE TABLE IF NOT EXISTS text_records (
            node  TEXT NOT NULL REFERENCES names(node) ON DELETE CASCADE,
            key   TEXT NOT NULL,
            value TEXT NOT NULL,
            PRIMARY KEY (node, key)
        )`,
		`CREATE TABLE IF NOT EXISTS addr_records (
            node  TEXT NOT NULL REFERENCES names(node) ON DELETE CASCADE,
            coin  TEXT NOT NULL,
            value TEXT NOT NULL,
            PRIMARY KEY (node, coin)
        )`,
		`CREATE TABLE IF NOT EXISTS resolvers (
            address    TEXT PRIMARY KEY,
            label      TEXT NOT NULL DEFAULT '',
            old_public INTEGER NOT NULL DEFAULT 0,
            deprecated INTEGER NOT NULL DEFAULT 0
        )`,
	)
	if err != nil {
		return nil, err
	}
	return &LocalProvider{db: db}, nil
}

// GetDisplayName returns the human-readable provider name.
func (p *LocalProvider) GetDisplayName() string {
	return "Local"
}

// Close releases database resources.
func (p *LocalProvider) Close() error {
	return p.db.Close()
}

// --- Catalogue management ---

// PutDomain creates or replaces a name and its scalar records.
// RecordsMigrated is stored as true.
func (p *LocalProvider) PutDomain(ctx context.Context, d domain.Domain) error {
	contentType := d.ContentType
	if contentType == "" {
		contentType = domain.ContentTypeHash
	}
	resolver := d.Resolver
	if resolver == "" {
		resolver = zeroAddress
	}

	_, err := p.db.ExecContext(ctx, `
        INSERT INTO names (node, name, owner, resolver, addr, content, content_type)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(node) DO UPDATE SET
            owner = excluded.owner,
            resolver = excluded.resolver,
            addr = excluded.addr,
            content = excluded.content,
            content_type = excluded.content_type`,
		namehash.Hex(d.Name), d.Name, lowerHex(d.Owner), lowerHex(resolver), lowerHex(d.Addr), d.Content, contentType,
	)
	if err != nil {
		return fmt.Errorf("local: failed to store %q: %w", d.Name, err)
	}
	return nil
}

// SetRecordsMigrated records whether name's records have been copied to a
// current resolver.
func (p *LocalProvider) SetRecordsMigrated(ctx context.Context, name string, migrated bool) error {
	return p.update(ctx, name, `UPDATE names SET records_migrated = ? WHERE node = ?`, migrated, namehash.Hex(name))
}

// PutResolver adds or replaces a resolver in the catalogue.
func (p *LocalProvider) PutResolver(ctx context.Context, r ResolverInfo) error {
	if !namehash.IsAddress(r.Address) {
		return fmt.Errorf("local: resolver %q: %w", r.Address, domain.ErrInvalidInput)
	}
	_, err := p.db.ExecContext(ctx, `
        INSERT INTO resolvers (address, label, old_public, deprecated) VALUES (?, ?, ?, ?)
        ON CONFLICT(address) DO UPDATE SET
            label = excluded.label,
            old_public = excluded.old_public,
            deprecated = excluded.deprecated`,
		lowerHex(r.Address), r.Label, r.OldPublic, r.Deprecated,
	)
	if err != nil {
		return fmt.Errorf("local: failed to store resolver %q: %w", r.Address, err)
	}
	return nil
}

// ListResolvers returns the resolver catalogue ordered by address.
func (p *LocalProvider) ListResolvers(ctx context.Context) ([]ResolverInfo, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT address, label, old_public, deprecated FROM resolvers ORDER BY address`)
	if err != nil {
		return nil, fmt.Errorf("local: query failed: %w", err)
	}
	defer rows.Close()

	var out []ResolverInfo
	for rows.Next() {
		var r ResolverInfo
		if err := rows.Scan(&r.Address, &r.Label, &r.OldPublic, &r.Deprecated); err != nil {
			return nil, fmt.Errorf("local: scan failed: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// --- Provider implementation ---

// GetDomain returns the current state of a name.
func (p *LocalProvider) GetDomain(ctx context.Context, name string) (*domain.Domain, error) {
	d := domain.Domain{}
	err := p.db.QueryRowContext(ctx, `
        SELECT name, owner, resolver, addr, content, content_type FROM names WHERE node = ?`,
		namehash.Hex(name),
	).Scan(&d.Name, &d.Owner, &d.Resolver, &d.Addr, &d.Content, &d.ContentType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("name %q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("local: failed to get %q: %w", name, err)
	}
	return &d, nil
}

// GetResolverMigrationInfo derives migration info from the resolver
// catalogue. Resolvers missing from the catalogue are treated as current.
func (p *LocalProvider) GetResolverMigrationInfo(ctx context.Context, name, resolver string) (*domain.MigrationInfo, error) {
	info := domain.DefaultMigrationInfo()

	err := p.db.QueryRowContext(ctx, `SELECT old_public, deprecated FROM resolvers WHERE address = ?`,
		lowerHex(resolver),
	).Scan(&info.IsOldPublicResolver, &info.IsDeprecatedResolver)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("local: failed to look up resolver %q: %w", resolver, err)
	}

	err = p.db.QueryRowContext(ctx, `SELECT records_migrated FROM names WHERE node = ?`,
		namehash.Hex(name),
	).Scan(&info.AreRecordsMigrated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("name %q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("local: failed to get %q: %w", name, err)
	}
	return &info, nil
}

// ListAddresses returns the stored address records for coins, in coin order.
func (p *LocalProvider) ListAddresses(ctx context.Context, name string, coins []string) ([]domain.AddressRecord, error) {
	values, err := p.keyed(ctx, `SELECT coin, value FROM addr_records WHERE node = ?`, name)
	if err != nil {
		return nil, err
	}
	records := make([]domain.AddressRecord, 0, len(values))
	for _, coin := range coins {
		if v, ok := values[coin]; ok && v != "" {
			records = append(records, domain.AddressRecord{Key: coin, Value: v})
		}
	}
	return records, nil
}

// ListTextRecords returns the stored text records for keys, in key order.
func (p *LocalProvider) ListTextRecords(ctx context.Context, name string, keys []string) ([]domain.TextRecord, error) {
	values, err := p.keyed(ctx, `SELECT key, value FROM text_records WHERE node = ?`, name)
	if err != nil {
		return nil, err
	}
	records := make([]domain.TextRecord, 0, len(values))
	for _, key := range keys {
		if v, ok := values[key]; ok && v != "" {
			records = append(records, domain.TextRecord{Key: key, Value: v})
		}
	}
	return records, nil
}

// SetResolver points name at a new resolver.
func (p *LocalProvider) SetResolver(ctx context.Context, name, address string) error {
	return p.update(ctx, name, `UPDATE names SET resolver = ? WHERE node = ?`, lowerHex(address), namehash.Hex(name))
}

// SetAddress sets the primary address record.
func (p *LocalProvider) SetAddress(ctx context.Context, name, address string) error {
	return p.update(ctx, name, `UPDATE names SET addr = ? WHERE node = ?`, lowerHex(address), namehash.Hex(name))
}

// SetContent sets the legacy content record.
func (p *LocalProvider) SetContent(ctx context.Context, name, content string) error {
	return p.update(ctx, name, `UPDATE names SET content = ?, content_type = ? WHERE node = ?`,
		content, domain.ContentTypeOld, namehash.Hex(name))
}

// SetContenthash sets the contenthash record.
func (p *LocalProvider) SetContenthash(ctx context.Context, name, hash string) error {
	return p.update(ctx, name, `UPDATE names SET content = ?, content_type = ? WHERE node = ?`,
		hash, domain.ContentTypeHash, namehash.Hex(name))
}

// SetText sets a text record. An empty value removes it.
func (p *LocalProvider) SetText(ctx context.Context, name, key, value string) error {
	return p.setKeyed(ctx, name, "text_records", "key", key, value)
}

// SetAddr sets the address record for another coin. An empty value removes it.
func (p *LocalProvider) SetAddr(ctx context.Context, name, coin, value string) error {
	return p.setKeyed(ctx, name, "addr_records", "coin", coin, value)
}

// --- helpers ---

const zeroAddress = "0x0000000000000000000000000000000000000000"

func (p *LocalProvider) update(ctx context.Context, name, query string, args ...any) error {
	result, err := p.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("local: failed to update %q: %w", name, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("local: failed to update %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("name %q: %w", name, domain.ErrNotFound)
	}
	return nil
}

func (p *LocalProvider) exists(ctx context.Context, node string) (bool, error) {
	var one int
	err := p.db.QueryRowContext(ctx, `SELECT 1 FROM names WHERE node = ?`, node).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// setKeyed upserts or deletes one row of a keyed record table. table and
// column are compile-time constants, never user input.
func (p *LocalProvider) setKeyed(ctx context.Context, name, table, column, key, value string) error {
	node := namehash.Hex(name)
	ok, err := p.exists(ctx, node)
	if err != nil {
		return fmt.Errorf("local: failed to get %q: %w", name, err)
	}
	if !ok {
		return fmt.Errorf("name %q: %w", name, domain.ErrNotFound)
	}

	if value == "" {
		_, err = p.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE node = ? AND %s = ?`, table, column), node, key)
	} else {
		_, err = p.db.ExecContext(ctx, fmt.Sprintf(`
            INSERT INTO %[1]s (node, %[2]s, value) VALUES (?, ?, ?)
            ON CONFLICT(node, %[2]s) DO UPDATE SET value = excluded.value`, table, column), node, key, value)
	}
	if err != nil {
		return fmt.Errorf("local: failed to set %s %q on %q: %w", column, key, name, err)
	}
	return nil
}

func (p *LocalProvider) keyed(ctx context.Context, query, name string) (map[string]string, error) {
	rows, err := p.db.QueryContext(ctx, query, namehash.Hex(name))
	if err != nil {
		return nil, fmt.Errorf("local: query failed: %w", err)
	}
	defer rows.Close()

	values := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("local: scan failed: %w", err)
		}
		values[k] = v
	}
	return values, rows.Err()
}

func lowerHex(s string) string {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return "0x" + strings.ToLower(s[2:])
	}
	return s
}
