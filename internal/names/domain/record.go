package domain

// ContentTypeOld marks a domain whose content record uses the legacy
// bytes32 "content" field rather than the contenthash encoding.
const ContentTypeOld = "oldcontent"

// ContentTypeHash is the content type reported for modern contenthash records.
const ContentTypeHash = "contenthash"

// Domain is the name-service state shown on a domain detail page.
type Domain struct {
	// Name is the full name (e.g. "vitalik.eth").
	Name string `json:"name"`

	// Owner is the address that controls the name's records.
	Owner string `json:"owner,omitempty"`

	// Resolver is the address of the resolver contract. The all-zero
	// address means no resolver is set.
	Resolver string `json:"resolver"`

	// Addr is the primary address record.
	Addr string `json:"addr"`

	// Content is the raw content record, either a legacy bytes32 value or
	// an encoded contenthash depending on ContentType.
	Content string `json:"content"`

	// ContentType discriminates the content encoding. See ContentTypeOld.
	ContentType string `json:"contentType"`
}

// MigrationInfo describes whether a domain's resolver is outdated.
type MigrationInfo struct {
	IsOldPublicResolver  bool `json:"isOldPublicResolver"`
	IsDeprecatedResolver bool `json:"isDeprecatedResolver"`
	AreRecordsMigrated   bool `json:"areRecordsMigrated"`
}

// DefaultMigrationInfo is assumed whenever migration info is unavailable:
// the resolver is current and its records need no migration.
func DefaultMigrationInfo() MigrationInfo {
	return MigrationInfo{
		IsOldPublicResolver:  false,
		IsDeprecatedResolver: false,
		AreRecordsMigrated:   true,
	}
}

// AddressRecord is an address for another chain, keyed by coin symbol.
type AddressRecord struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// TextRecord is a free-form key/value text record.
type TextRecord struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// RecordKind identifies a class of record that can be added to a name.
type RecordKind string

const (
	RecordKindAddress        RecordKind = "address"
	RecordKindOtherAddresses RecordKind = "otherAddresses"
	RecordKindContent        RecordKind = "content"
	RecordKindText           RecordKind = "text"
)

// RecordOption is an entry in the "add record" picker.
type RecordOption struct {
	Label string     `json:"label"`
	Kind  RecordKind `json:"value"`
}

// RecordOptions lists every addable record kind in display order.
var RecordOptions = []RecordOption{
	{Label: "Address", Kind: RecordKindAddress},
	{Label: "Other addresses", Kind: RecordKindOtherAddresses},
	{Label: "Content", Kind: RecordKindContent},
	{Label: "Text", Kind: RecordKindText},
}

// Value returns the scalar value stored on the domain for kind. Kinds that
// are lists rather than a single field report the empty string.
func (d Domain) Value(kind RecordKind) string {
	switch kind {
	case RecordKindAddress:
		return d.Addr
	case RecordKindContent:
		return d.Content
	default:
		return ""
	}
}

// CoinList is the set of coin symbols accepted as "other address" keys.
var CoinList = []string{
	"BTC",
	"LTC",
	"DOGE",
	"MONA",
	"ETC",
	"RSK",
	"XRP",
	"BCH",
	"BNB",
}

// TextRecordKeys is the set of well-known text record keys queried for
// every name.
var TextRecordKeys = []string{
	"email",
	"url",
	"avatar",
	"description",
	"notice",
	"keywords",
	"com.discord",
	"com.github",
	"com.reddit",
	"com.twitter",
	"org.telegram",
}
