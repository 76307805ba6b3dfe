package incognito

import "errors"

// ErrSessionEnded is returned by data operations after EndSession.
var ErrSessionEnded = errors.New("incognito session has ended")

// CryptoError reports a failed encryption or decryption. Decryption of a
// malformed, truncated, tampered or foreign ciphertext always yields a
// *CryptoError; callers must treat it as fatal to the operation.
type CryptoError struct {
	Op  string
	Err error
}

func (e *CryptoError) Error() string {
	return "incognito: " + e.Op + ": " + e.Err.Error()
}

func (e *CryptoError) Unwrap() error {
	return e.Err
}
