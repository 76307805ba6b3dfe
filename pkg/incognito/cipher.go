package incognito

import (
	"crypto/rand"
	"encoding/base64"
	"math/big"

	"github.com/TypeDummying/AIuminum/pkg/credman/encryption"
)

const (
	alphanumeric   = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	passwordLength = 32
)

// EncryptedValue is an AES-GCM ciphertext under a session key.
type EncryptedValue []byte

// randomString returns n characters drawn uniformly from alphanumeric.
func randomString(n int) (string, error) {
	max := big.NewInt(int64(len(alphanumeric)))
	b := make([]byte, n)
	for i := range b {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = alphanumeric[v.Int64()]
	}
	return string(b), nil
}

// newSessionKey derives a key from a throwaway random password and salt.
// The password is discarded, so the key cannot be re-derived.
func newSessionKey() ([]byte, error) {
	pw, err := randomString(passwordLength)
	if err != nil {
		return nil, err
	}
	salt, err := encryption.NewSalt()
	if err != nil {
		return nil, err
	}
	password := []byte(pw)
	defer encryption.Zero(password)
	return encryption.DeriveKey(password, salt), nil
}

func seal(key []byte, plaintext []byte) (EncryptedValue, error) {
	ct, err := encryption.EncryptBytes(plaintext, key)
	if err != nil {
		return nil, &CryptoError{Op: "encrypt", Err: err}
	}
	return ct, nil
}

func open(key []byte, ct EncryptedValue) ([]byte, error) {
	pt, err := encryption.DecryptValue(ct, key)
	if err != nil {
		return nil, &CryptoError{Op: "decrypt", Err: err}
	}
	return pt, nil
}

// Encrypt seals plaintext under the session key.
func (s *Session) Encrypt(plaintext string) (EncryptedValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return nil, ErrSessionEnded
	}
	return seal(s.key, []byte(plaintext))
}

// Decrypt opens a value produced by Encrypt on the same session.
func (s *Session) Decrypt(ct EncryptedValue) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return "", ErrSessionEnded
	}
	pt, err := open(s.key, ct)
	if err != nil {
		return "", err
	}
	return string(pt), nil
}

// sealCodec lets the session's cookie jar store values as base64 session
// ciphertext. It is only used with s.mu held.
type sealCodec struct {
	s *Session
}

func (c sealCodec) Seal(plaintext string) (string, error) {
	ct, err := seal(c.s.key, []byte(plaintext))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ct), nil
}

func (c sealCodec) Open(sealed string) (string, error) {
	ct, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", &CryptoError{Op: "decrypt", Err: err}
	}
	pt, err := open(c.s.key, ct)
	if err != nil {
		return "", err
	}
	return string(pt), nil
}
