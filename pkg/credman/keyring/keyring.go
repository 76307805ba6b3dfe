// Package keyring stores the persistent cookie jar key in the operating
// system's keyring, with a file-based fallback for systems without one.
package keyring

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeySize is the length in bytes of every key handed out by a KeyStore.
const KeySize = 32

// ErrKeyNotFound is returned by GetKey when no key has been stored yet.
var ErrKeyNotFound = errors.New("key not found")

// KeyStore persists a single symmetric key.
type KeyStore interface {
	// SetKey generates, stores and returns a new random key.
	SetKey() ([]byte, error)
	// GetKey returns the stored key, or an error wrapping ErrKeyNotFound.
	GetKey() ([]byte, error)
	DeleteKey() error
}

// Keyring is a KeyStore backed by the OS keyring (Secret Service, macOS
// Keychain or Windows Credential Manager). The key is stored hex-encoded.
type Keyring struct {
	AppName  string
	KeyField string
}

var (
	keyringSet    = keyring.Set
	keyringGet    = keyring.Get
	keyringDelete = keyring.Delete
	randRead      = rand.Read
)

func NewKeyring() *Keyring {
	return &Keyring{
		AppName:  "aluminum",
		KeyField: "cookie-jar",
	}
}

func (k *Keyring) SetKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := randRead(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	if err := keyringSet(k.AppName, k.KeyField, hex.EncodeToString(key)); err != nil {
		return nil, fmt.Errorf("store key in keyring: %w", err)
	}
	return key, nil
}

func (k *Keyring) GetKey() ([]byte, error) {
	s, err := keyringGet(k.AppName, k.KeyField)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, fmt.Errorf("keyring: %w", ErrKeyNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read key from keyring: %w", err)
	}
	return decodeKey(s)
}

func (k *Keyring) DeleteKey() error {
	return keyringDelete(k.AppName, k.KeyField)
}

func decodeKey(s string) ([]byte, error) {
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid key format: %w", err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("invalid key length: expected %d, got %d", KeySize, len(key))
	}
	return key, nil
}

var (
	_ KeyStore = (*Keyring)(nil)
	_ KeyStore = (*FileKeyStore)(nil)
)
