package kem

import "errors"

var (
	// ErrInvalidPublicKeySize reports a public key of the wrong length.
	ErrInvalidPublicKeySize = errors.New("kem: invalid public key size")
	// ErrInvalidSecretKeySize reports a secret key of the wrong length.
	ErrInvalidSecretKeySize = errors.New("kem: invalid secret key size")
	// ErrInvalidCiphertextSize reports a ciphertext of the wrong length.
	ErrInvalidCiphertextSize = errors.New("kem: invalid ciphertext size")
	// ErrInvalidSeedSize reports a deterministic seed of the wrong length.
	ErrInvalidSeedSize = errors.New("kem: invalid seed size")
	// ErrEntropy wraps a failure of the randomness source.
	ErrEntropy = errors.New("kem: entropy source failed")
)
