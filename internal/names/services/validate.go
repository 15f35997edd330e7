package services

import (
	"encoding/hex"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"nathanbeddoewebdev/namectl/internal/names/domain"
	"nathanbeddoewebdev/namectl/internal/names/namehash"
	"nathanbeddoewebdev/namectl/internal/util"
)

// normalizeName lowercases a name, strips any trailing dot, and validates it.
func normalizeName(name string) (string, error) {
	name = util.NormalizeName(name)
	if err := util.ValidateName(name); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return name, nil
}

// normalizeAddress accepts a 20-byte hex address in any checksum casing and
// returns it lower-cased.
func normalizeAddress(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if !namehash.IsAddress(addr) {
		return "", fmt.Errorf("%w: %q is not a 0x-prefixed 20-byte address", domain.ErrInvalidInput, addr)
	}
	return "0x" + strings.ToLower(addr[2:]), nil
}

// normalizeLegacyContent validates a bytes32 value for the legacy content
// record. "0x" clears the record.
func normalizeLegacyContent(content string) (string, error) {
	content = strings.ToLower(strings.TrimSpace(content))
	if content == "0x" {
		return content, nil
	}
	body, ok := strings.CutPrefix(content, "0x")
	if !ok || len(body) != 64 {
		return "", fmt.Errorf("%w: legacy content must be 0x followed by 64 hex digits", domain.ErrInvalidInput)
	}
	if _, err := hex.DecodeString(body); err != nil {
		return "", fmt.Errorf("%w: legacy content is not hex: %w", domain.ErrInvalidInput, err)
	}
	return content, nil
}

// normalizeTextKey validates a text record key. Keys are case-sensitive.
func normalizeTextKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("%w: text record key is required", domain.ErrInvalidInput)
	}
	if strings.ContainsFunc(key, unicode.IsSpace) {
		return "", fmt.Errorf("%w: text record key %q contains whitespace", domain.ErrInvalidInput, key)
	}
	return key, nil
}

// normalizeCoin upper-cases a coin symbol and checks it is supported.
func normalizeCoin(coin string) (string, error) {
	coin = strings.ToUpper(strings.TrimSpace(coin))
	if !slices.Contains(domain.CoinList, coin) {
		return "", fmt.Errorf("%w: unsupported coin %q (supported: %s)",
			domain.ErrInvalidInput, coin, strings.Join(domain.CoinList, ", "))
	}
	return coin, nil
}

// normalizeCoinAddress trims an address for another chain. Its format is
// chain-specific so only emptiness and whitespace are checked.
func normalizeCoinAddress(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: address is required", domain.ErrInvalidInput)
	}
	if strings.ContainsFunc(value, unicode.IsSpace) {
		return "", fmt.Errorf("%w: address %q contains whitespace", domain.ErrInvalidInput, value)
	}
	return value, nil
}
