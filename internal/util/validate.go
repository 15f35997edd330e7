package util

import (
	"fmt"
	"strings"
	"unicode"
)

// maxLabelLength bounds a single label. Longer labels are legal on chain
// but are almost always a paste error on the command line.
const maxLabelLength = 255

// ValidateName checks that a normalised name is usable as a lookup key:
//   - not empty
//   - no empty labels (leading, trailing or doubled dots)
//   - no whitespace, control characters or upper-case letters
//   - no label longer than 255 bytes
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}

	for i, label := range strings.Split(name, ".") {
		if label == "" {
			return fmt.Errorf("name %q has an empty label at position %d", name, i+1)
		}
		if len(label) > maxLabelLength {
			return fmt.Errorf("label %d of %q is longer than %d bytes", i+1, name, maxLabelLength)
		}
		for _, r := range label {
			switch {
			case unicode.IsSpace(r), unicode.IsControl(r):
				return fmt.Errorf("name %q contains invalid character %q", name, r)
			case unicode.IsUpper(r):
				return fmt.Errorf("name %q must be lower case", name)
			}
		}
	}

	return nil
}

// NormalizeName lowercases a name and strips surrounding whitespace and any
// trailing dot.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(name), "."))
}

// NormalizeKey turns a provider or cache-part name into a lookup key: lower
// case, no surrounding whitespace or byte-order mark, and inner runs of
// whitespace collapsed to a single hyphen so "ENS Subgraph" and
// "ens  subgraph" share a key.
func NormalizeKey(s string) string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
	return strings.ToLower(strings.Join(fields, "-"))
}
