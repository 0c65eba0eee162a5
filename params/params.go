package params

import (
	"errors"
	"fmt"
)

const (
	// N is the degree of the quotient polynomial x^N + 1.
	N = 256
	// Q is the prime modulus, 13*2^8 + 1.
	Q = 3329
	// SymBytes is the size of seeds, hashes and messages.
	SymBytes = 32
	// SharedSecretBytes is the size of the derived shared secret.
	SharedSecretBytes = 32
	// PolyBytes is the size of a 12-bit packed polynomial.
	PolyBytes = 384
	// MaxK bounds the module rank over all parameter sets.
	MaxK = 4
	// Eta2 is the noise parameter for e1, e2 in every parameter set.
	Eta2 = 2
)

// ErrUnknownParamSet is returned when a parameter set name cannot be resolved.
var ErrUnknownParamSet = errors.New("params: unknown parameter set")

// Set defines one Kyber security level.
type Set struct {
	Name string
	K    int // module rank
	Eta1 int // CBD parameter for s, e and r
	Eta2 int // CBD parameter for e1 and e2
	DU   int // compression bits for u
	DV   int // compression bits for v
}

// Validate checks that the set is one the arithmetic supports.
func (s Set) Validate() error {
	if s.K < 2 || s.K > MaxK {
		return fmt.Errorf("params: k=%d out of range [2,%d]", s.K, MaxK)
	}
	if s.Eta1 != 2 && s.Eta1 != 3 {
		return fmt.Errorf("params: eta1=%d must be 2 or 3", s.Eta1)
	}
	if s.Eta2 != Eta2 {
		return fmt.Errorf("params: eta2=%d must be %d", s.Eta2, Eta2)
	}
	if !supportedBits(s.DU) || !supportedBits(s.DV) {
		return fmt.Errorf("params: unsupported compression du=%d dv=%d", s.DU, s.DV)
	}
	return nil
}

func supportedBits(d int) bool {
	switch d {
	case 4, 5, 10, 11:
		return true
	}
	return false
}

// String returns the set name.
func (s Set) String() string { return s.Name }

// CompressedPolyBytes is the size of one polynomial compressed to d bits.
func CompressedPolyBytes(d int) int { return N * d / 8 }

// PolyVecBytes is the size of k 12-bit packed polynomials.
func (s Set) PolyVecBytes() int { return s.K * PolyBytes }

// PKEPublicKeyBytes is the size of Encode12(t) || rho.
func (s Set) PKEPublicKeyBytes() int { return s.PolyVecBytes() + SymBytes }

// PKESecretKeyBytes is the size of Encode12(s).
func (s Set) PKESecretKeyBytes() int { return s.PolyVecBytes() }

// PublicKeyBytes is the KEM public key size (same as the PKE public key).
func (s Set) PublicKeyBytes() int { return s.PKEPublicKeyBytes() }

// SecretKeyBytes is the KEM secret key size: sk || pk || H(pk) || z.
func (s Set) SecretKeyBytes() int {
	return s.PKESecretKeyBytes() + s.PKEPublicKeyBytes() + 2*SymBytes
}

// CompressedVecBytes is the size of the u component of a ciphertext.
func (s Set) CompressedVecBytes() int { return s.K * CompressedPolyBytes(s.DU) }

// CiphertextBytes is Compress_du(u) || Compress_dv(v).
func (s Set) CiphertextBytes() int {
	return s.CompressedVecBytes() + CompressedPolyBytes(s.DV)
}
