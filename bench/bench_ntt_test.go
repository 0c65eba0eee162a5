package bench

import (
	"testing"

	"kyber-kem/internal/naive"
	"kyber-kem/params"
	"kyber-kem/ring"
)

func benchPoly() ring.Poly {
	var p ring.Poly
	for i := range p {
		p[i] = int16(i * 13 % params.Q)
	}
	return p
}

func BenchmarkNTTForwardInverse(b *testing.B) {
	p := benchPoly()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h := p.NTT()
		p = h.InvNTT()
	}
}

func BenchmarkMulNTT(b *testing.B) {
	x, y := benchPoly(), benchPoly()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ring.Mul(&x, &y)
	}
}

func BenchmarkMulSchoolbook(b *testing.B) {
	x := make([]int64, ring.N)
	for i := range x {
		x[i] = int64(i * 13 % params.Q)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = naive.MulNegacyclic(x, x, params.Q)
	}
}

func BenchmarkMulLattigoRNS(b *testing.B) {
	x := make([]int64, ring.N)
	for i := range x {
		x[i] = int64(i * 13 % params.Q)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := naive.MulNegacyclicRNS(x, x, params.Q); err != nil {
			b.Fatal(err)
		}
	}
}
