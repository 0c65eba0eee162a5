package pke

import (
	"fmt"

	"kyber-kem/internal/ctime"
	"kyber-kem/params"
)

// Pack writes Encode12(t̂) || ρ to dst, which must be PKEPublicKeyBytes long.
func (pk *PublicKey) Pack(dst []byte) {
	pk.t.encode(dst)
	copy(dst[pk.ps.PolyVecBytes():], pk.rho[:])
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (pk *PublicKey) MarshalBinary() ([]byte, error) {
	b := make([]byte, pk.ps.PKEPublicKeyBytes())
	pk.Pack(b)
	return b, nil
}

// UnmarshalPublicKey parses a public key for ps. Coefficients are reduced
// modulo q on decode.
func UnmarshalPublicKey(ps params.Set, b []byte) (*PublicKey, error) {
	if err := ps.Validate(); err != nil {
		return nil, err
	}
	if len(b) != ps.PKEPublicKeyBytes() {
		return nil, fmt.Errorf("%w: got %d want %d", ErrPublicKeySize, len(b), ps.PKEPublicKeyBytes())
	}
	pk := &PublicKey{ps: ps}
	pk.t.decode(b, ps.K)
	copy(pk.rho[:], b[ps.PolyVecBytes():])
	return pk, nil
}

// Equal reports whether both keys encode to the same bytes.
func (pk *PublicKey) Equal(o *PublicKey) bool {
	if pk.ps != o.ps {
		return false
	}
	a, _ := pk.MarshalBinary()
	b, _ := o.MarshalBinary()
	return ctime.Verify(a, b) == 0
}

// Pack writes Encode12(ŝ) to dst, which must be PKESecretKeyBytes long.
func (sk *PrivateKey) Pack(dst []byte) {
	sk.s.encode(dst)
}

// MarshalBinary implements encoding.BinaryMarshaler. The caller owns the
// returned secret and should wipe it after use.
func (sk *PrivateKey) MarshalBinary() ([]byte, error) {
	b := make([]byte, sk.ps.PKESecretKeyBytes())
	sk.Pack(b)
	return b, nil
}

// UnmarshalPrivateKey parses a private key for ps.
func UnmarshalPrivateKey(ps params.Set, b []byte) (*PrivateKey, error) {
	if err := ps.Validate(); err != nil {
		return nil, err
	}
	if len(b) != ps.PKESecretKeyBytes() {
		return nil, fmt.Errorf("%w: got %d want %d", ErrPrivateKeySize, len(b), ps.PKESecretKeyBytes())
	}
	sk := &PrivateKey{ps: ps}
	sk.s.decode(b, ps.K)
	return sk, nil
}

// Equal compares two private keys in constant time.
func (sk *PrivateKey) Equal(o *PrivateKey) bool {
	if sk.ps != o.ps {
		return false
	}
	a, _ := sk.MarshalBinary()
	b, _ := o.MarshalBinary()
	defer ctime.Wipe(a)
	defer ctime.Wipe(b)
	return ctime.Verify(a, b) == 0
}

// Zero wipes the secret vector.
func (sk *PrivateKey) Zero() {
	sk.s.Zero()
}
