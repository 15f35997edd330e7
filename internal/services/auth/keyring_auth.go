package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// ErrEmptyToken is returned when asked to store a blank token.
var ErrEmptyToken = errors.New("auth token is empty")

// KeyringStore keeps one token per provider in the OS keychain. Entries
// live under the namectl service with the account "token:<provider>", so
// they sit alongside any other credentials the OS keeps for namectl.
type KeyringStore struct {
	service string
}

// NewKeyringStore returns a store writing under service, or ServiceName
// when service is empty.
func NewKeyringStore(service string) *KeyringStore {
	if strings.TrimSpace(service) == "" {
		service = ServiceName
	}
	return &KeyringStore{service: service}
}

func tokenAccount(provider string) (string, error) {
	key := NormalizeProvider(provider)
	if key == "" {
		return "", errors.New("auth: provider name is required")
	}
	return "token:" + key, nil
}

// SetToken stores token for provider. Surrounding whitespace from a paste
// is dropped.
func (k *KeyringStore) SetToken(provider string, token string) error {
	account, err := tokenAccount(provider)
	if err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}
	if err := keyring.Set(k.service, account, token); err != nil {
		return fmt.Errorf("auth: save token for %s to keychain: %w", NormalizeProvider(provider), err)
	}
	return nil
}

func (k *KeyringStore) GetToken(provider string) (string, error) {
	account, err := tokenAccount(provider)
	if err != nil {
		return "", err
	}
	token, err := keyring.Get(k.service, account)
	switch {
	case err == nil:
		return token, nil
	case errors.Is(err, keyring.ErrNotFound):
		return "", ErrTokenNotFound
	}
	return "", fmt.Errorf("auth: read token for %s from keychain: %w", NormalizeProvider(provider), err)
}

func (k *KeyringStore) DeleteToken(provider string) error {
	account, err := tokenAccount(provider)
	if err != nil {
		return err
	}
	err = keyring.Delete(k.service, account)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, keyring.ErrNotFound):
		return ErrTokenNotFound
	}
	return fmt.Errorf("auth: remove token for %s from keychain: %w", NormalizeProvider(provider), err)
}
