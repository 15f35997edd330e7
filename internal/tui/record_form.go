package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"nathanbeddoewebdev/namectl/internal/names/domain"
	"nathanbeddoewebdev/namectl/internal/names/panel"
	"nathanbeddoewebdev/namectl/internal/names/policy"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// ErrAborted is returned when a user cancels an interactive flow.
var ErrAborted = errors.New("aborted by user")

// AddRecordResult is the edit collected by AddRecordForm, ready for
// panel.Composer.Apply.
type AddRecordResult struct {
	Domain domain.Domain
	Kind   domain.RecordKind
	Edit   panel.Edit
}

// AddRecordForm runs an interactive picker over the record kinds that can
// still be added to name, then collects the key and value.
func AddRecordForm(loader DomainLoader, composer *panel.Composer, name, account string) (*AddRecordResult, error) {
	accessible := os.Getenv("ACCESSIBLE") != ""

	var view panel.View
	var d *domain.Domain
	fetchErr := spinner.New().
		Title("Loading " + name + "...").
		Accessible(accessible).
		Output(os.Stderr).
		ActionWithErr(func(ctx context.Context) error {
			var err error
			d, err = loader.GetDomain(ctx, name)
			if err != nil {
				return err
			}
			view = panel.Compose(panel.Input{
				Domain:    d,
				IsOwner:   policy.IsOwner(account, d.Owner),
				Account:   account,
				Migration: composer.FetchMigration(ctx, *d),
			})
			return nil
		}).
		Run()
	if fetchErr != nil {
		if errors.Is(fetchErr, huh.ErrUserAborted) || errors.Is(fetchErr, context.Canceled) {
			return nil, ErrAborted
		}
		return nil, fetchErr
	}

	if err := addBlockedReason(view, account); err != nil {
		return nil, err
	}

	result := AddRecordResult{Domain: *d}
	kindField := huh.NewSelect[domain.RecordKind]().
		Title("Record type").
		Options(buildRecordOptions(view.Records.Add.Options)...).
		Value(&result.Kind)
	if err := runForm(accessible, huh.NewGroup(kindField)); err != nil {
		return nil, err
	}

	var key, value string
	var groups []*huh.Group
	switch result.Kind {
	case domain.RecordKindOtherAddresses:
		groups = append(groups, huh.NewGroup(
			huh.NewSelect[string]().
				Title("Coin").
				Options(huh.NewOptions(domain.CoinList...)...).
				Value(&key).
				Height(selectHeight(len(domain.CoinList), 10)),
		))
	case domain.RecordKindText:
		groups = append(groups, huh.NewGroup(
			huh.NewInput().
				Title("Key").
				Suggestions(domain.TextRecordKeys).
				Value(&key).
				Validate(requireValue("key")),
		))
	}

	confirmed := true
	groups = append(groups, huh.NewGroup(
		huh.NewInput().
			Title("Value").
			Description(valueHint(result.Kind)).
			Value(&value).
			Validate(requireValue("value")),
		huh.NewConfirm().
			Title("Save record?").
			Affirmative("Save").
			Negative("Cancel").
			Value(&confirmed),
	))
	if err := runForm(accessible, groups...); err != nil {
		return nil, err
	}
	if !confirmed {
		return nil, ErrAborted
	}

	edit, err := panel.AddEdit(result.Domain, result.Kind, strings.TrimSpace(key), strings.TrimSpace(value))
	if err != nil {
		return nil, err
	}
	result.Edit = edit
	return &result, nil
}

// runForm creates and runs a huh.Form, translating ErrUserAborted to ErrAborted.
func runForm(accessible bool, groups ...*huh.Group) error {
	err := huh.NewForm(groups...).WithAccessible(accessible).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	return nil
}

// addBlockedReason explains why the add control is unavailable, or returns
// nil when records can be added.
func addBlockedReason(v panel.View, account string) error {
	switch {
	case v.Kind == panel.ViewEmpty:
		return fmt.Errorf("nothing to edit: %w", domain.ErrNotFound)
	case v.Kind == panel.ViewMigrationBlocked:
		return errors.New(panel.LegacyResolverNotice)
	case account == "":
		return fmt.Errorf("no account configured; set one with --account or \"namectl config set account\": %w", domain.ErrUnauthorized)
	case !v.Resolver.Editable:
		return fmt.Errorf("%s is not owned by %s: %w", v.Name, account, domain.ErrUnauthorized)
	case v.Records == nil:
		return fmt.Errorf("%s has no resolver; set one with \"namectl resolver set\"", v.Name)
	case v.Records.Add == nil || len(v.Records.Add.Options) == 0:
		return fmt.Errorf("no record types left to add for %s", v.Name)
	}
	return nil
}

func buildRecordOptions(options []domain.RecordOption) []huh.Option[domain.RecordKind] {
	out := make([]huh.Option[domain.RecordKind], 0, len(options))
	for _, opt := range options {
		out = append(out, huh.NewOption(opt.Label, opt.Kind))
	}
	return out
}

func valueHint(kind domain.RecordKind) string {
	switch kind {
	case domain.RecordKindAddress:
		return "0x-prefixed address"
	case domain.RecordKindContent:
		return "ipfs://, bzz:// or 0x-encoded content hash"
	case domain.RecordKindOtherAddresses:
		return "address on the selected chain"
	default:
		return ""
	}
}

func requireValue(field string) func(string) error {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// selectHeight returns a sensible height for a select list.
func selectHeight(count, maxHeight int) int {
	if count < 3 {
		return 3
	}
	if count > maxHeight {
		return maxHeight
	}
	return count
}
