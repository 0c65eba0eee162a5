package kem

import (
	"fmt"
	"io"

	"kyber-kem/entropy"
	"kyber-kem/internal/ctime"
	"kyber-kem/internal/trace"
	"kyber-kem/params"
	"kyber-kem/pke"
	"kyber-kem/sample"
)

const (
	// KeySeedSize is the size of the seed accepted by DeriveKeyPair: d || z.
	KeySeedSize = 2 * params.SymBytes
	// EncapsulationSeedSize is the size of the message accepted by
	// EncapsulateDeterministic.
	EncapsulationSeedSize = params.SymBytes
	// SharedSecretSize is the size of every shared secret.
	SharedSecretSize = params.SharedSecretBytes
)

// Scheme is the KEM for one parameter set. It holds no mutable state and
// is safe for concurrent use.
type Scheme struct {
	ps params.Set
}

// New returns the scheme for ps.
func New(ps params.Set) (*Scheme, error) {
	if err := ps.Validate(); err != nil {
		return nil, err
	}
	return &Scheme{ps: ps}, nil
}

// Must is like New but panics on an invalid set.
func Must(ps params.Set) *Scheme {
	s, err := New(ps)
	if err != nil {
		panic(err)
	}
	return s
}

// Params returns the parameter set.
func (s *Scheme) Params() params.Set { return s.ps }

// Name returns the parameter set name, e.g. "Kyber768".
func (s *Scheme) Name() string { return s.ps.Name }

// PublicKeySize is the length of an encoded public key.
func (s *Scheme) PublicKeySize() int { return s.ps.PublicKeyBytes() }

// SecretKeySize is the length of an encoded secret key.
func (s *Scheme) SecretKeySize() int { return s.ps.SecretKeyBytes() }

// CiphertextSize is the length of a ciphertext.
func (s *Scheme) CiphertextSize() int { return s.ps.CiphertextBytes() }

// SharedSecretSize is the length of a shared secret.
func (s *Scheme) SharedSecretSize() int { return SharedSecretSize }

// KeySeedSize is the seed length DeriveKeyPair expects.
func (s *Scheme) KeySeedSize() int { return KeySeedSize }

// EncapsulationSize is the seed length EncapsulateDeterministic expects.
func (s *Scheme) EncapsulationSize() int { return EncapsulationSeedSize }

// readEntropy fills buf from rand, or from the system source if rand is nil.
func readEntropy(rand io.Reader, buf []byte) error {
	if rand == nil {
		rand = entropy.System()
	}
	if _, err := io.ReadFull(rand, buf); err != nil {
		return fmt.Errorf("%w: %w", ErrEntropy, err)
	}
	return nil
}

// KeyGen generates a key pair with 64 bytes drawn from rand. A nil rand
// selects the system CSPRNG.
func (s *Scheme) KeyGen(rand io.Reader) (pk, sk []byte, err error) {
	var seed [KeySeedSize]byte
	defer ctime.Wipe(seed[:])
	if err := readEntropy(rand, seed[:]); err != nil {
		return nil, nil, err
	}
	return s.DeriveKeyPair(seed[:])
}

// DeriveKeyPair deterministically derives a key pair from seed = d || z,
// where d seeds the PKE key pair and z is the implicit-rejection secret.
func (s *Scheme) DeriveKeyPair(seed []byte) (pk, sk []byte, err error) {
	if len(seed) != KeySeedSize {
		return nil, nil, fmt.Errorf("%w: got %d want %d", ErrInvalidSeedSize, len(seed), KeySeedSize)
	}
	ps := s.ps
	ppk, psk, err := pke.KeyGen(ps, seed[:params.SymBytes])
	if err != nil {
		return nil, nil, err
	}
	defer psk.Zero()

	pk = make([]byte, ps.PublicKeyBytes())
	ppk.Pack(pk)

	sk = make([]byte, ps.SecretKeyBytes())
	off := ps.PKESecretKeyBytes()
	psk.Pack(sk[:off])
	off += copy(sk[off:], pk)
	h := sample.HashH(pk)
	off += copy(sk[off:], h[:])
	copy(sk[off:], seed[params.SymBytes:])

	trace.Log.Debug().Str("params", ps.Name).Int("pk_bytes", len(pk)).Int("sk_bytes", len(sk)).Msg("kem keygen")
	return pk, sk, nil
}

// Encapsulate derives a fresh shared secret and its ciphertext for pk,
// drawing 32 bytes from rand. A nil rand selects the system CSPRNG.
func (s *Scheme) Encapsulate(pk []byte, rand io.Reader) (ct, ss []byte, err error) {
	if len(pk) != s.ps.PublicKeyBytes() {
		return nil, nil, fmt.Errorf("%w: got %d want %d", ErrInvalidPublicKeySize, len(pk), s.ps.PublicKeyBytes())
	}
	var seed [EncapsulationSeedSize]byte
	defer ctime.Wipe(seed[:])
	if err := readEntropy(rand, seed[:]); err != nil {
		return nil, nil, err
	}
	return s.EncapsulateDeterministic(pk, seed[:])
}

// EncapsulateDeterministic is Encapsulate with the 32 random bytes supplied
// by the caller. It exists for known-answer tests.
func (s *Scheme) EncapsulateDeterministic(pk, seed []byte) (ct, ss []byte, err error) {
	ps := s.ps
	if len(pk) != ps.PublicKeyBytes() {
		return nil, nil, fmt.Errorf("%w: got %d want %d", ErrInvalidPublicKeySize, len(pk), ps.PublicKeyBytes())
	}
	if len(seed) != EncapsulationSeedSize {
		return nil, nil, fmt.Errorf("%w: got %d want %d", ErrInvalidSeedSize, len(seed), EncapsulationSeedSize)
	}
	ppk, err := pke.UnmarshalPublicKey(ps, pk)
	if err != nil {
		return nil, nil, err
	}

	// Never expose the raw system randomness.
	m := sample.HashH(seed)
	defer ctime.Wipe(m[:])
	hpk := sample.HashH(pk)
	kr := sample.HashG(m[:], hpk[:])
	defer ctime.Wipe(kr[:])

	ct = make([]byte, ps.CiphertextBytes())
	if err := ppk.EncryptTo(ct, m[:], kr[params.SymBytes:]); err != nil {
		return nil, nil, err
	}
	hc := sample.HashH(ct)
	ss = make([]byte, SharedSecretSize)
	sample.KDF(ss, kr[:params.SymBytes], hc[:])

	trace.Log.Debug().Str("params", ps.Name).Int("ct_bytes", len(ct)).Msg("kem encapsulate")
	return ct, ss, nil
}

// Decapsulate recovers the shared secret from ct. A ciphertext of the right
// size always yields a 32-byte secret; a forged one yields the
// implicit-rejection value KDF(z || H(ct)).
func (s *Scheme) Decapsulate(sk, ct []byte) (ss []byte, err error) {
	ps := s.ps
	if len(sk) != ps.SecretKeyBytes() {
		return nil, fmt.Errorf("%w: got %d want %d", ErrInvalidSecretKeySize, len(sk), ps.SecretKeyBytes())
	}
	if len(ct) != ps.CiphertextBytes() {
		return nil, fmt.Errorf("%w: got %d want %d", ErrInvalidCiphertextSize, len(ct), ps.CiphertextBytes())
	}

	skOff := ps.PKESecretKeyBytes()
	pkOff := skOff + ps.PublicKeyBytes()
	hOff := pkOff + params.SymBytes
	psk, err := pke.UnmarshalPrivateKey(ps, sk[:skOff])
	if err != nil {
		return nil, err
	}
	defer psk.Zero()
	ppk, err := pke.UnmarshalPublicKey(ps, sk[skOff:pkOff])
	if err != nil {
		return nil, err
	}
	hpk := sk[pkOff:hOff]
	z := sk[hOff:]

	var m [params.SymBytes]byte
	defer ctime.Wipe(m[:])
	if err := psk.DecryptTo(m[:], ct); err != nil {
		return nil, err
	}
	kr := sample.HashG(m[:], hpk)
	defer ctime.Wipe(kr[:])

	ct2 := make([]byte, ps.CiphertextBytes())
	defer ctime.Wipe(ct2)
	if err := ppk.EncryptTo(ct2, m[:], kr[params.SymBytes:]); err != nil {
		return nil, err
	}
	fail := ctime.Verify(ct, ct2)
	ctime.CMov(kr[:params.SymBytes], z, fail)

	hc := sample.HashH(ct)
	ss = make([]byte, SharedSecretSize)
	sample.KDF(ss, kr[:params.SymBytes], hc[:])

	trace.Log.Debug().Str("params", ps.Name).Msg("kem decapsulate")
	return ss, nil
}

// PublicKeyFromSecretKey returns a copy of the public key embedded in sk.
func (s *Scheme) PublicKeyFromSecretKey(sk []byte) ([]byte, error) {
	ps := s.ps
	if len(sk) != ps.SecretKeyBytes() {
		return nil, fmt.Errorf("%w: got %d want %d", ErrInvalidSecretKeySize, len(sk), ps.SecretKeyBytes())
	}
	off := ps.PKESecretKeyBytes()
	pk := make([]byte, ps.PublicKeyBytes())
	copy(pk, sk[off:off+ps.PublicKeyBytes()])
	return pk, nil
}
