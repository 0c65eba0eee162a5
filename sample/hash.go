// Package sample implements the symmetric primitives of the scheme and the
// samplers built on them.
//
//	G   = SHA3-512
//	H   = SHA3-256
//	KDF = SHAKE256, 32-byte output
//	PRF = SHAKE256(seed || nonce)
//	XOF = SHAKE128(rho || x || y)
package sample

import "golang.org/x/crypto/sha3"

// HashG returns SHA3-512 over the concatenation of in.
func HashG(in ...[]byte) [64]byte {
	h := sha3.New512()
	for _, b := range in {
		h.Write(b)
	}
	var out [64]byte
	h.Sum(out[:0])
	return out
}

// HashH returns SHA3-256 over the concatenation of in.
func HashH(in ...[]byte) [32]byte {
	h := sha3.New256()
	for _, b := range in {
		h.Write(b)
	}
	var out [32]byte
	h.Sum(out[:0])
	return out
}

// KDF fills out with SHAKE256 over the concatenation of in.
func KDF(out []byte, in ...[]byte) {
	h := sha3.NewShake256()
	for _, b := range in {
		h.Write(b)
	}
	h.Read(out)
}

// PRF fills out with SHAKE256(seed || nonce).
func PRF(out []byte, seed []byte, nonce byte) {
	h := sha3.NewShake256()
	h.Write(seed)
	h.Write([]byte{nonce})
	h.Read(out)
}
