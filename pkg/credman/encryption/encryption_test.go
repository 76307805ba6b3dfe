package encryption

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x11}, 32)
	for _, in := range []string{"hello", "", "Grüße, 世界 🍪"} {
		ciphertext, err := EncryptValue(in, key)
		if err != nil {
			t.Fatalf("EncryptValue: %v", err)
		}
		plaintext, err := DecryptValue(ciphertext, key)
		if err != nil {
			t.Fatalf("DecryptValue: %v", err)
		}
		if string(plaintext) != in {
			t.Fatalf("expected plaintext %q, got %q", in, string(plaintext))
		}
	}
}

func TestEncryptValueFreshNonce(t *testing.T) {
	key := bytes.Repeat([]byte{0x11}, 32)
	a, _ := EncryptValue("same", key)
	b, _ := EncryptValue("same", key)
	if bytes.Equal(a, b) {
		t.Fatal("expected distinct ciphertexts for the same plaintext")
	}
}

func TestEncryptValueInvalidKey(t *testing.T) {
	if _, err := EncryptValue("hi", []byte{0x01}); err == nil {
		t.Fatalf("expected error for invalid key length")
	}
}

func TestDecryptValueTooShort(t *testing.T) {
	key := bytes.Repeat([]byte{0x22}, 32)
	if _, err := DecryptValue([]byte("gcm1\x00\x01"), key); !errors.Is(err, ErrCiphertextTooShort) {
		t.Fatalf("expected ErrCiphertextTooShort, got %v", err)
	}
}

func TestDecryptValueUnframed(t *testing.T) {
	key := bytes.Repeat([]byte{0x22}, 32)
	if _, err := DecryptValue(bytes.Repeat([]byte{0x01}, 64), key); !errors.Is(err, ErrMalformedCiphertext) {
		t.Fatalf("expected ErrMalformedCiphertext, got %v", err)
	}
}

func TestDecryptValueDetectsTampering(t *testing.T) {
	key := bytes.Repeat([]byte{0x33}, 32)
	ciphertext, err := EncryptValue("session-token", key)
	if err != nil {
		t.Fatalf("EncryptValue: %v", err)
	}
	for i := range ciphertext {
		tampered := append([]byte(nil), ciphertext...)
		tampered[i] ^= 0x01
		if _, err := DecryptValue(tampered, key); err == nil {
			t.Fatalf("flipping byte %d went undetected", i)
		}
	}
}

func TestDecryptValueWrongKey(t *testing.T) {
	ciphertext, _ := EncryptValue("secret", bytes.Repeat([]byte{0x01}, 32))
	if _, err := DecryptValue(ciphertext, bytes.Repeat([]byte{0x02}, 32)); !errors.Is(err, ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication, got %v", err)
	}
}

func TestDeriveKey(t *testing.T) {
	salt := bytes.Repeat([]byte{0x05}, SaltSize)
	k1 := DeriveKey([]byte("password"), salt)
	k2 := DeriveKey([]byte("password"), salt)
	if len(k1) != KeySize {
		t.Fatalf("expected %d byte key, got %d", KeySize, len(k1))
	}
	if !bytes.Equal(k1, k2) {
		t.Fatal("expected deterministic derivation for equal inputs")
	}
	if bytes.Equal(k1, DeriveKey([]byte("password"), bytes.Repeat([]byte{0x06}, SaltSize))) {
		t.Fatal("expected different keys for different salts")
	}
}

func TestZero(t *testing.T) {
	b := []byte{1, 2, 3}
	Zero(b)
	if !bytes.Equal(b, []byte{0, 0, 0}) {
		t.Fatalf("expected zeroed slice, got %v", b)
	}
}
