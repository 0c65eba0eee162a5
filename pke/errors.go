package pke

import "errors"

// Sentinel errors for malformed inputs; the returned errors wrap them with
// the got and want sizes.
var (
	// ErrPublicKeySize reports a packed public key of the wrong length.
	ErrPublicKeySize = errors.New("pke: invalid public key size")
	// ErrPrivateKeySize reports a packed private key of the wrong length.
	ErrPrivateKeySize = errors.New("pke: invalid private key size")
	// ErrCiphertextSize reports a ciphertext or output buffer of the wrong length.
	ErrCiphertextSize = errors.New("pke: invalid ciphertext size")
	// ErrMessageSize reports a message that is not 32 bytes.
	ErrMessageSize = errors.New("pke: invalid message size")
	// ErrSeedSize reports a key seed or coins value that is not 32 bytes.
	ErrSeedSize = errors.New("pke: invalid seed size")
)
