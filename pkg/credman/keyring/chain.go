package keyring

import (
	"errors"
	"fmt"
)

// Chain tries several key stores in order. The first store holding a key
// wins; when none does, a new key is created in the first store that accepts
// it.
type Chain []KeyStore

// LoadOrCreate returns the stored key, generating one on first use. A store
// failing with anything but ErrKeyNotFound (a locked or absent keyring, for
// instance) is skipped.
func (c Chain) LoadOrCreate() ([]byte, error) {
	var errs []error
	for _, s := range c {
		key, err := s.GetKey()
		if err == nil {
			return key, nil
		}
		if !errors.Is(err, ErrKeyNotFound) {
			errs = append(errs, err)
		}
	}
	for _, s := range c {
		key, err := s.SetKey()
		if err == nil {
			return key, nil
		}
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("no usable key store: %w", errors.Join(errs...))
}

// DeleteKey removes the key from every store. Missing keys are not errors.
func (c Chain) DeleteKey() error {
	var errs []error
	for _, s := range c {
		if _, err := s.GetKey(); errors.Is(err, ErrKeyNotFound) {
			continue
		}
		if err := s.DeleteKey(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
