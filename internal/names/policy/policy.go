// Package policy holds the visibility rules for a name's records panel.
//
// Every function here is pure: callers pass the state they have and get a
// decision back. The records panel, the CLI text renderer and the TUI all
// share these rules so that a record hidden in one surface is hidden in all.
package policy

import (
	"strings"

	"nathanbeddoewebdev/namectl/internal/names/domain"
)

// emptyPlaceholder is the value backends return for an unset bytes field.
const emptyPlaceholder = "0x"

// IsEmpty reports whether a raw record value is unset. A value is empty if
// it parses as a zero hex integer, equals the "0x" placeholder, or is the
// empty string. The checks overlap and are all kept because backends have
// used each of these encodings for "unset".
func IsEmpty(record string) bool {
	if zero, ok := parseHex(record); ok && zero {
		return true
	}
	if record == emptyPlaceholder {
		return true
	}
	if record == "" {
		return true
	}
	return false
}

// HasResolver reports whether resolver is assigned. Only a value that
// parses as zero counts as unassigned; input with no hex digits is treated
// as nonzero.
func HasResolver(resolver string) bool {
	zero, ok := parseHex(resolver)
	return !ok || !zero
}

// IsResolverSet is the strict form of HasResolver used for reporting: the
// value must contain hex digits and be nonzero.
func IsResolverSet(resolver string) bool {
	zero, ok := parseHex(resolver)
	return ok && !zero
}

// HasAnyRecord reports whether the domain's address or content record is set.
// Text and other-address records are not considered.
func HasAnyRecord(d domain.Domain) bool {
	if !IsEmpty(d.Addr) {
		return true
	}
	if !IsEmpty(d.Content) {
		return true
	}
	return false
}

// IsOwner reports whether account controls a name owned by owner.
// Addresses compare case-insensitively; an unset side never matches.
func IsOwner(account, owner string) bool {
	account = strings.TrimSpace(account)
	owner = strings.TrimSpace(owner)
	if account == "" || IsEmpty(owner) {
		return false
	}
	return strings.EqualFold(account, owner)
}

// ShouldShowRecords decides whether the records section renders at all.
// Owners see it as soon as a resolver exists so they can add records;
// everyone else only sees it when there is something to show.
func ShouldShowRecords(isOwner, hasResolver, hasRecords bool) bool {
	if !isOwner && hasRecords {
		return true
	}
	if isOwner && hasResolver {
		return true
	}
	return false
}

// CanEditRecords reports whether record fields accept edits. The old public
// resolver rejects record writes until the name is migrated.
func CanEditRecords(isOwner, isOldPublicResolver bool) bool {
	return isOwner && !isOldPublicResolver
}

// NeedsMigration reports whether the migration warning should show. A
// pending lookup never triggers it.
func NeedsMigration(loading bool, info domain.MigrationInfo) bool {
	return !loading && (info.IsOldPublicResolver || info.IsDeprecatedResolver)
}

// EmptyRecords returns the add-record options whose record is currently
// unset. List-valued kinds have no scalar on the domain and are always
// offered.
func EmptyRecords(d domain.Domain) []domain.RecordOption {
	options := make([]domain.RecordOption, 0, len(domain.RecordOptions))
	for _, opt := range domain.RecordOptions {
		if IsEmpty(d.Value(opt.Kind)) {
			options = append(options, opt)
		}
	}
	return options
}

// ContentEncoding selects which mutation updates a content record.
type ContentEncoding int

const (
	// ContentEncodingHash updates the contenthash field.
	ContentEncodingHash ContentEncoding = iota
	// ContentEncodingLegacy updates the legacy bytes32 content field.
	ContentEncodingLegacy
)

// ContentMutation picks the content update path for a domain's content type.
func ContentMutation(contentType string) ContentEncoding {
	if contentType == domain.ContentTypeOld {
		return ContentEncodingLegacy
	}
	return ContentEncodingHash
}
