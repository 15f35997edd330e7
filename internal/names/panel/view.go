package panel

import (
	"nathanbeddoewebdev/namectl/internal/names/contenthash"
	"nathanbeddoewebdev/namectl/internal/names/domain"
	"nathanbeddoewebdev/namectl/internal/names/namehash"
	"nathanbeddoewebdev/namectl/internal/names/policy"
)

// ViewKind tags the shape of a composed panel.
type ViewKind int

const (
	// ViewEmpty means there is no domain to render.
	ViewEmpty ViewKind = iota
	// ViewResolverOnly renders the resolver field alone.
	ViewResolverOnly
	// ViewResolverWithRecords renders the resolver field and the records
	// section.
	ViewResolverWithRecords
	// ViewMigrationBlocked renders the records section with the legacy
	// resolver notice in place of the add-record control.
	ViewMigrationBlocked
)

var viewKindNames = map[ViewKind]string{
	ViewEmpty:               "empty",
	ViewResolverOnly:        "resolverOnly",
	ViewResolverWithRecords: "resolverWithRecords",
	ViewMigrationBlocked:    "migrationBlocked",
}

func (k ViewKind) String() string {
	if s, ok := viewKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// MarshalText renders the kind by name in JSON output.
func (k ViewKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// MutationKind names the mutation handle an editable field dispatches to.
type MutationKind string

const (
	MutationNone           MutationKind = ""
	MutationSetResolver    MutationKind = "setResolver"
	MutationSetAddress     MutationKind = "setAddress"
	MutationSetContent     MutationKind = "setContent"
	MutationSetContenthash MutationKind = "setContenthash"
	MutationSetText        MutationKind = "setText"
	MutationSetAddr        MutationKind = "setAddr"
)

const (
	MigrationWarningText = "You're using an outdated version of the public resolver. " +
		"Migrate your resolver and records; this takes two transactions, " +
		"one for the records and one for the resolver."
	LegacyResolverNotice = "You can't edit or add records until you migrate to the new resolver."

	RecordsTitle        = "Records"
	OtherAddressesTitle = "Other Addresses"
	TextRecordsTitle    = "Text Record"
)

// View is the composed resolver and records panel.
type View struct {
	Kind ViewKind `json:"kind"`
	Name string   `json:"name,omitempty"`

	Resolver ResolverField `json:"resolver"`

	// Warning is set when the resolver needs migrating.
	Warning string `json:"warning,omitempty"`

	// MigrationPending is true while the migration lookup is in flight.
	// Records are not judged until it completes.
	MigrationPending bool `json:"migrationPending,omitempty"`

	Records *Records `json:"records,omitempty"`
}

// ResolverField is the always-present resolver row.
type ResolverField struct {
	Label          string       `json:"label"`
	Value          string       `json:"value"`
	Display        string       `json:"display"`
	Editable       bool         `json:"editable"`
	NeedsMigration bool         `json:"needsMigration"`
	Mutation       MutationKind `json:"mutation"`
}

// Records is the records section of the panel.
type Records struct {
	Title string `json:"title"`

	// Add is nil when records cannot be added by the caller.
	Add *AddControl `json:"add,omitempty"`

	// Notice replaces the add control on the legacy public resolver.
	Notice string `json:"notice,omitempty"`

	Items          []RecordItem `json:"items"`
	OtherAddresses SubList      `json:"otherAddresses"`
	TextRecords    SubList      `json:"textRecords"`
	Generation     uint64       `json:"generation"`
}

// AddControl is the add-record affordance.
type AddControl struct {
	Options []domain.RecordOption `json:"options"`
}

// RecordItem is one editable record row.
type RecordItem struct {
	Kind     domain.RecordKind `json:"kind"`
	Label    string            `json:"label"`
	Key      string            `json:"key,omitempty"`
	Value    string            `json:"value"`
	Display  string            `json:"display"`
	Editable bool              `json:"editable"`
	Mutation MutationKind      `json:"mutation"`
}

// SubList is an independently fetched list of keyed records.
type SubList struct {
	Title  string       `json:"title"`
	Loaded bool         `json:"loaded"`
	Items  []RecordItem `json:"items"`
}

// RecordLists holds the fetched sub-list records for one generation.
type RecordLists struct {
	Generation     uint64                 `json:"generation"`
	OtherAddresses []domain.AddressRecord `json:"otherAddresses"`
	TextRecords    []domain.TextRecord    `json:"textRecords"`
}

// MigrationStatus is the state of the migration lookup for the current
// resolver. Info is nil when the lookup was skipped or failed.
type MigrationStatus struct {
	Loading bool
	Info    *domain.MigrationInfo
}

// PendingMigration is the status while a lookup is in flight.
func PendingMigration() MigrationStatus {
	return MigrationStatus{Loading: true}
}

// Flags returns the effective migration flags. Anything short of a
// completed lookup with data yields domain.DefaultMigrationInfo.
func (s MigrationStatus) Flags() domain.MigrationInfo {
	if s.Loading || s.Info == nil {
		return domain.DefaultMigrationInfo()
	}
	return *s.Info
}

// Input is everything Compose needs to build a View.
type Input struct {
	Domain    *domain.Domain
	IsOwner   bool
	Account   string
	Migration MigrationStatus

	// Generation is bumped each time a record is added.
	Generation uint64

	// Lists is nil until the sub-lists for Generation have been fetched.
	Lists *RecordLists
}

// Compose builds the panel view tree. It performs no I/O.
func Compose(in Input) View {
	if in.Domain == nil || in.Domain.Name == "" {
		return View{Kind: ViewEmpty}
	}
	d := *in.Domain

	hasResolver := policy.HasResolver(d.Resolver)
	flags := in.Migration.Flags()
	needsMigration := policy.NeedsMigration(in.Migration.Loading, flags)

	v := View{
		Kind: ViewResolverOnly,
		Name: d.Name,
		Resolver: ResolverField{
			Label:          "Resolver",
			Value:          d.Resolver,
			Display:        displayAddress(d.Resolver),
			Editable:       in.IsOwner,
			NeedsMigration: needsMigration,
			Mutation:       MutationSetResolver,
		},
	}
	if needsMigration {
		v.Warning = MigrationWarningText
	}

	if !hasResolver {
		return v
	}
	if in.Migration.Loading {
		v.MigrationPending = true
		return v
	}

	hasRecords := policy.HasAnyRecord(d)
	if !policy.ShouldShowRecords(in.IsOwner, hasResolver, hasRecords) {
		return v
	}

	canEdit := policy.CanEditRecords(in.IsOwner, flags.IsOldPublicResolver)
	records := &Records{
		Title:          RecordsTitle,
		Items:          simpleItems(d, canEdit),
		OtherAddresses: SubList{Title: OtherAddressesTitle},
		TextRecords:    SubList{Title: TextRecordsTitle},
		Generation:     in.Generation,
	}

	if flags.IsOldPublicResolver {
		v.Kind = ViewMigrationBlocked
		records.Notice = LegacyResolverNotice
	} else {
		v.Kind = ViewResolverWithRecords
		if canEdit {
			records.Add = &AddControl{Options: policy.EmptyRecords(d)}
		}
	}

	if in.Lists != nil && in.Lists.Generation == in.Generation {
		records.OtherAddresses = addressSubList(in.Lists.OtherAddresses, canEdit)
		records.TextRecords = textSubList(in.Lists.TextRecords, canEdit)
	}

	v.Records = records
	return v
}

func simpleItems(d domain.Domain, canEdit bool) []RecordItem {
	items := []RecordItem{}
	if !policy.IsEmpty(d.Addr) {
		items = append(items, RecordItem{
			Kind:     domain.RecordKindAddress,
			Label:    "Address",
			Value:    d.Addr,
			Display:  displayAddress(d.Addr),
			Editable: canEdit,
			Mutation: MutationSetAddress,
		})
	}
	if !policy.IsEmpty(d.Content) {
		items = append(items, RecordItem{
			Kind:     domain.RecordKindContent,
			Label:    "Content",
			Value:    d.Content,
			Display:  contenthash.Display(d.Content, d.ContentType),
			Editable: canEdit,
			Mutation: contentMutation(d.ContentType),
		})
	}
	return items
}

func addressSubList(records []domain.AddressRecord, canEdit bool) SubList {
	list := SubList{Title: OtherAddressesTitle, Loaded: true, Items: []RecordItem{}}
	for _, r := range records {
		if policy.IsEmpty(r.Value) {
			continue
		}
		list.Items = append(list.Items, RecordItem{
			Kind:     domain.RecordKindOtherAddresses,
			Label:    r.Key,
			Key:      r.Key,
			Value:    r.Value,
			Display:  r.Value,
			Editable: canEdit,
			Mutation: MutationSetAddr,
		})
	}
	return list
}

func textSubList(records []domain.TextRecord, canEdit bool) SubList {
	list := SubList{Title: TextRecordsTitle, Loaded: true, Items: []RecordItem{}}
	for _, r := range records {
		if r.Value == "" {
			continue
		}
		list.Items = append(list.Items, RecordItem{
			Kind:     domain.RecordKindText,
			Label:    r.Key,
			Key:      r.Key,
			Value:    r.Value,
			Display:  r.Value,
			Editable: canEdit,
			Mutation: MutationSetText,
		})
	}
	return list
}

func contentMutation(contentType string) MutationKind {
	if policy.ContentMutation(contentType) == policy.ContentEncodingLegacy {
		return MutationSetContent
	}
	return MutationSetContenthash
}

func displayAddress(addr string) string {
	if checksummed, err := namehash.ChecksumAddress(addr); err == nil {
		return checksummed
	}
	return addr
}
