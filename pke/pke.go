// Package pke implements the IND-CPA public-key encryption scheme that the
// KEM is built on. Messages are 32 bytes, encryption randomness is an
// explicit 32-byte coins value, and everything is deterministic given its
// inputs.
package pke

import (
	"fmt"

	"kyber-kem/codec"
	"kyber-kem/internal/ctime"
	"kyber-kem/internal/trace"
	"kyber-kem/params"
	"kyber-kem/ring"
	"kyber-kem/sample"
)

// PublicKey is (t̂, ρ). The matrix is regenerated from ρ on every use.
type PublicKey struct {
	ps  params.Set
	t   NTTVec
	rho [params.SymBytes]byte
}

// PrivateKey is ŝ in the NTT domain.
type PrivateKey struct {
	ps params.Set
	s  NTTVec
}

// KeyGen derives a key pair from a 32-byte seed.
func KeyGen(ps params.Set, seed []byte) (*PublicKey, *PrivateKey, error) {
	if err := ps.Validate(); err != nil {
		return nil, nil, err
	}
	if len(seed) != params.SymBytes {
		return nil, nil, fmt.Errorf("%w: got %d want %d", ErrSeedSize, len(seed), params.SymBytes)
	}
	k := ps.K

	g := sample.HashG(seed)
	defer ctime.Wipe(g[:])
	pk := &PublicKey{ps: ps}
	copy(pk.rho[:], g[:params.SymBytes])
	sigma := g[params.SymBytes:]

	a := expandMatrix(&pk.rho, k, false)

	var s, e Vec
	defer s.Zero()
	defer e.Zero()
	var nonce byte
	sampleNoise(&s, k, sigma, &nonce, ps.Eta1)
	sampleNoise(&e, k, sigma, &nonce, ps.Eta1)

	sk := &PrivateKey{ps: ps, s: s.NTT()}
	eh := e.NTT()
	defer eh.Zero()

	pk.t.k = k
	for i := 0; i < k; i++ {
		pk.t.p[i] = dot(&a.rows[i], &sk.s)
		pk.t.p[i].ToMont()
	}
	pk.t.Add(&pk.t, &eh)
	pk.t.Reduce()

	trace.Log.Debug().Str("params", ps.Name).Msg("pke keygen")
	return pk, sk, nil
}

// Params returns the parameter set the key belongs to.
func (pk *PublicKey) Params() params.Set { return pk.ps }

// Params returns the parameter set the key belongs to.
func (sk *PrivateKey) Params() params.Set { return sk.ps }

// Encrypt returns the encryption of a 32-byte msg under coins.
func (pk *PublicKey) Encrypt(msg, coins []byte) ([]byte, error) {
	ct := make([]byte, pk.ps.CiphertextBytes())
	if err := pk.EncryptTo(ct, msg, coins); err != nil {
		return nil, err
	}
	return ct, nil
}

// EncryptTo writes the encryption of msg under coins to ct, which must be
// exactly CiphertextBytes long.
func (pk *PublicKey) EncryptTo(ct, msg, coins []byte) error {
	ps := pk.ps
	if len(ct) != ps.CiphertextBytes() {
		return fmt.Errorf("%w: got %d want %d", ErrCiphertextSize, len(ct), ps.CiphertextBytes())
	}
	if len(msg) != codec.MessageBytes {
		return fmt.Errorf("%w: got %d want %d", ErrMessageSize, len(msg), codec.MessageBytes)
	}
	if len(coins) != params.SymBytes {
		return fmt.Errorf("%w: coins got %d want %d", ErrSeedSize, len(coins), params.SymBytes)
	}
	var st encryption
	defer st.wipe()
	st.compute(pk, msg, coins)

	off := ps.CompressedVecBytes()
	if err := st.u.compress(ct[:off], ps.DU); err != nil {
		return err
	}
	if err := codec.Compress(ct[off:], &st.v, ps.DV); err != nil {
		return err
	}
	trace.Log.Debug().Str("params", ps.Name).Int("ct_bytes", len(ct)).Msg("pke encrypt")
	return nil
}

// encryption holds every intermediate of one encryption that depends on
// the coins or the message.
type encryption struct {
	r, e1, u Vec
	rh       NTTVec
	e2, mp   ring.Poly
	vh       ring.NTTPoly
	v        ring.Poly
}

// compute sets u = InvNTT(Âᵀ∘r̂) + e1 and v = InvNTT(t̂∘r̂) + e2 + m.
func (st *encryption) compute(pk *PublicKey, msg, coins []byte) {
	ps := pk.ps
	k := ps.K
	at := expandMatrix(&pk.rho, k, true)

	var nonce byte
	sampleNoise(&st.r, k, coins, &nonce, ps.Eta1)
	sampleNoise(&st.e1, k, coins, &nonce, ps.Eta2)
	st.e2 = sample.CBD(coins, nonce, ps.Eta2)
	st.rh = st.r.NTT()

	st.u = at.mulVec(&st.rh)
	st.u.Add(&st.u, &st.e1)
	st.u.Reduce()

	st.vh = dot(&pk.t, &st.rh)
	st.v = st.vh.InvNTTToMont()
	codec.FromMessage(&st.mp, msg)
	st.v.Add(&st.v, &st.e2)
	st.v.Add(&st.v, &st.mp)
	st.v.Reduce()
}

func (st *encryption) wipe() {
	st.r.Zero()
	st.e1.Zero()
	st.u.Zero()
	st.rh.Zero()
	st.e2.Zero()
	st.mp.Zero()
	st.vh.Zero()
	st.v.Zero()
}

// Decrypt recovers the 32-byte message from ct.
func (sk *PrivateKey) Decrypt(ct []byte) ([]byte, error) {
	msg := make([]byte, codec.MessageBytes)
	if err := sk.DecryptTo(msg, ct); err != nil {
		return nil, err
	}
	return msg, nil
}

// DecryptTo writes the message recovered from ct to msg.
func (sk *PrivateKey) DecryptTo(msg, ct []byte) error {
	if len(msg) != codec.MessageBytes {
		return fmt.Errorf("%w: got %d want %d", ErrMessageSize, len(msg), codec.MessageBytes)
	}
	mp, err := sk.noisyMessage(ct)
	if err != nil {
		return err
	}
	defer mp.Zero()
	codec.ToMessage(msg, &mp)
	return nil
}

// noisyMessage returns v - InvNTT(ŝ·NTT(u)), the message polynomial before
// rounding.
func (sk *PrivateKey) noisyMessage(ct []byte) (ring.Poly, error) {
	ps := sk.ps
	if len(ct) != ps.CiphertextBytes() {
		return ring.Poly{}, fmt.Errorf("%w: got %d want %d", ErrCiphertextSize, len(ct), ps.CiphertextBytes())
	}
	off := ps.CompressedVecBytes()
	var (
		u Vec
		v ring.Poly
	)
	if err := u.decompress(ct[:off], ps.K, ps.DU); err != nil {
		return ring.Poly{}, err
	}
	if err := codec.Decompress(&v, ct[off:], ps.DV); err != nil {
		return ring.Poly{}, err
	}
	uh := u.NTT()
	acc := dot(&sk.s, &uh)
	mp := acc.InvNTTToMont()
	acc.Zero()
	mp.Sub(&v, &mp)
	mp.Reduce()
	return mp, nil
}

// NoiseMargin decrypts ct and returns the largest centered distance between
// a coefficient of the noisy message polynomial and its encoding of msg.
// Decryption is correct while the margin stays below ⌈q/4⌉. It is meant
// for diagnostics and is not constant time.
func (sk *PrivateKey) NoiseMargin(ct, msg []byte) (int, error) {
	if len(msg) != codec.MessageBytes {
		return 0, fmt.Errorf("%w: got %d want %d", ErrMessageSize, len(msg), codec.MessageBytes)
	}
	mp, err := sk.noisyMessage(ct)
	if err != nil {
		return 0, err
	}
	var want ring.Poly
	codec.FromMessage(&want, msg)
	mp.Sub(&mp, &want)
	mp.Normalize()
	worst := 0
	for _, c := range mp {
		d := int(c)
		if d > params.Q/2 {
			d = params.Q - d
		}
		if d > worst {
			worst = d
		}
	}
	return worst, nil
}
