package pke

import (
	"kyber-kem/codec"
	"kyber-kem/params"
	"kyber-kem/ring"
	"kyber-kem/sample"
)

// Vec is a vector of k polynomials in the normal domain.
type Vec struct {
	k int
	p [params.MaxK]ring.Poly
}

// NTTVec is a vector of k polynomials in the NTT domain.
type NTTVec struct {
	k int
	p [params.MaxK]ring.NTTPoly
}

// Matrix is a k×k matrix over the NTT domain, stored by rows.
type Matrix struct {
	k    int
	rows [params.MaxK]NTTVec
}

// NTT transforms every entry.
func (v *Vec) NTT() NTTVec {
	out := NTTVec{k: v.k}
	for i := 0; i < v.k; i++ {
		out.p[i] = v.p[i].NTT()
	}
	return out
}

// Add sets v = a + b without reduction.
func (v *Vec) Add(a, b *Vec) {
	for i := 0; i < v.k; i++ {
		v.p[i].Add(&a.p[i], &b.p[i])
	}
}

// Reduce Barrett-reduces every entry.
func (v *Vec) Reduce() {
	for i := 0; i < v.k; i++ {
		v.p[i].Reduce()
	}
}

// Zero wipes all MaxK slots.
func (v *Vec) Zero() {
	for i := range v.p {
		v.p[i].Zero()
	}
}

// Add sets v = a + b without reduction.
func (v *NTTVec) Add(a, b *NTTVec) {
	for i := 0; i < v.k; i++ {
		v.p[i].Add(&a.p[i], &b.p[i])
	}
}

// Reduce Barrett-reduces every entry.
func (v *NTTVec) Reduce() {
	for i := 0; i < v.k; i++ {
		v.p[i].Reduce()
	}
}

// Zero wipes all MaxK slots.
func (v *NTTVec) Zero() {
	for i := range v.p {
		v.p[i].Zero()
	}
}

// dot returns Σ a_i ∘ b_i, Barrett-reduced. It carries the 2^-16 factor of
// BaseMul.
func dot(a, b *NTTVec) ring.NTTPoly {
	var r ring.NTTPoly
	for i := 0; i < a.k; i++ {
		r.BaseMulAcc(&a.p[i], &b.p[i])
	}
	r.Reduce()
	return r
}

// mulVec returns InvNTT(m·v) in the normal domain.
func (m *Matrix) mulVec(v *NTTVec) Vec {
	out := Vec{k: m.k}
	for i := 0; i < m.k; i++ {
		acc := dot(&m.rows[i], v)
		out.p[i] = acc.InvNTTToMont()
		acc.Zero()
	}
	return out
}

// expandMatrix derives A from rho, or its transpose when transposed is set.
// Entry (i, j) of A is Uniform(rho, j, i).
func expandMatrix(rho *[params.SymBytes]byte, k int, transposed bool) Matrix {
	m := Matrix{k: k}
	for i := 0; i < k; i++ {
		m.rows[i].k = k
		for j := 0; j < k; j++ {
			if transposed {
				m.rows[i].p[j] = sample.Uniform(rho, byte(i), byte(j))
			} else {
				m.rows[i].p[j] = sample.Uniform(rho, byte(j), byte(i))
			}
		}
	}
	return m
}

// sampleNoise fills v with CBD_eta samples using consecutive nonces
// starting at *nonce.
func sampleNoise(v *Vec, k int, seed []byte, nonce *byte, eta int) {
	v.k = k
	for i := 0; i < k; i++ {
		v.p[i] = sample.CBD(seed, *nonce, eta)
		*nonce++
	}
}

func (v *NTTVec) encode(dst []byte) {
	for i := 0; i < v.k; i++ {
		codec.Encode12(dst[i*params.PolyBytes:], (*[ring.N]int16)(&v.p[i]))
	}
}

func (v *NTTVec) decode(src []byte, k int) {
	v.k = k
	for i := 0; i < k; i++ {
		codec.Decode12((*[ring.N]int16)(&v.p[i]), src[i*params.PolyBytes:])
	}
}

func (v *Vec) compress(dst []byte, d int) error {
	n := codec.CompressedSize(d)
	for i := 0; i < v.k; i++ {
		if err := codec.Compress(dst[i*n:(i+1)*n], &v.p[i], d); err != nil {
			return err
		}
	}
	return nil
}

func (v *Vec) decompress(src []byte, k, d int) error {
	v.k = k
	n := codec.CompressedSize(d)
	for i := 0; i < k; i++ {
		if err := codec.Decompress(&v.p[i], src[i*n:(i+1)*n], d); err != nil {
			return err
		}
	}
	return nil
}
