// Package encryption implements the authenticated encryption used for
// private-session state and the persisted cookie jar.
//
// Ciphertexts are framed as "gcm1" || nonce || AES-256-GCM(sealed data).
// Every decryption failure (unknown framing, truncation, tag mismatch, wrong
// key) is reported as an error; there is no unauthenticated fallback.
package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const gcmPrefix = "gcm1"

const (
	// KeySize is the length in bytes of a session or jar key (AES-256).
	KeySize = 32
	// SaltSize is the length in bytes of the random PBKDF2 salt.
	SaltSize = 16
	// KDFIterations is the PBKDF2-HMAC-SHA256 work factor.
	KDFIterations = 100_000
)

var (
	ErrMalformedCiphertext = errors.New("ciphertext is malformed")
	ErrCiphertextTooShort  = errors.New("ciphertext too short")
	ErrAuthentication      = errors.New("message authentication failed")
)

var randReader io.Reader = rand.Reader

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// EncryptValue seals value under key with a fresh random nonce.
func EncryptValue(value string, key []byte) ([]byte, error) {
	return EncryptBytes([]byte(value), key)
}

// EncryptBytes seals plaintext under key with a fresh random nonce.
func EncryptBytes(plaintext []byte, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(randReader, nonce); err != nil {
		return nil, err
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)
	out := make([]byte, 0, len(gcmPrefix)+len(nonce)+len(ciphertext))
	out = append(out, gcmPrefix...)
	out = append(out, nonce...)
	out = append(out, ciphertext...)
	return out, nil
}

// DecryptValue opens a ciphertext produced by EncryptValue or EncryptBytes.
func DecryptValue(ciphertext []byte, key []byte) ([]byte, error) {
	if len(ciphertext) < len(gcmPrefix) || string(ciphertext[:len(gcmPrefix)]) != gcmPrefix {
		return nil, ErrMalformedCiphertext
	}
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonceSize := gcm.NonceSize()
	if len(ciphertext) < len(gcmPrefix)+nonceSize+gcm.Overhead() {
		return nil, ErrCiphertextTooShort
	}
	nonce := ciphertext[len(gcmPrefix) : len(gcmPrefix)+nonceSize]
	data := ciphertext[len(gcmPrefix)+nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthentication, err)
	}
	return plaintext, nil
}

// DeriveKey stretches password with PBKDF2-HMAC-SHA256 into a KeySize key.
func DeriveKey(password, salt []byte) []byte {
	return pbkdf2.Key(password, salt, KDFIterations, KeySize, sha256.New)
}

// NewSalt returns SaltSize random bytes.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(randReader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// Zero overwrites b with zeros.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
