package secrets

import (
	"errors"

	"github.com/zalando/go-keyring"
)

// keychainStore persists secrets in the OS credential manager.
type keychainStore struct{}

func newKeychainStore() *keychainStore {
	return &keychainStore{}
}

func (s *keychainStore) Get(key string) (string, error) {
	value, err := keyring.Get(serviceName, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (s *keychainStore) Set(key, value string) error {
	return keyring.Set(serviceName, key, value)
}

func (s *keychainStore) Delete(key string) error {
	err := keyring.Delete(serviceName, key)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}
