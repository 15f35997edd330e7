// Package auth stores backend credentials in the OS keychain.
package auth

import (
	"errors"

	"nathanbeddoewebdev/namectl/internal/util"
)

const ServiceName = "namectl"

var ErrTokenNotFound = errors.New("auth token not found")

type Store interface {
	SetToken(provider string, token string) error
	GetToken(provider string) (string, error)
	DeleteToken(provider string) error
}

// DefaultStore returns the standard auth store backed by the OS keychain.
func DefaultStore() Store {
	return NewKeyringStore(ServiceName)
}

// NormalizeProvider normalizes a provider name for consistent key lookup.
func NormalizeProvider(provider string) string {
	return util.NormalizeKey(provider)
}

// OptionalToken returns the stored token for provider, or "" when none is
// stored. Public endpoints accept anonymous reads, so a missing token is
// not an error; any other keychain failure is.
func OptionalToken(store Store, provider string) (string, error) {
	if store == nil {
		return "", nil
	}
	token, err := store.GetToken(provider)
	if errors.Is(err, ErrTokenNotFound) {
		return "", nil
	}
	return token, err
}
