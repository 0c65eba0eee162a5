package bench

import (
	"testing"

	"kyber-kem/entropy"
	"kyber-kem/kem"
	"kyber-kem/params"
)

func benchScheme(b *testing.B, ps params.Set) (*kem.Scheme, []byte, []byte, []byte) {
	b.Helper()
	s := kem.Must(ps)
	rnd, err := entropy.Deterministic([]byte("bench-" + ps.Name))
	if err != nil {
		b.Fatal(err)
	}
	pk, sk, err := s.KeyGen(rnd)
	if err != nil {
		b.Fatal(err)
	}
	ct, _, err := s.Encapsulate(pk, rnd)
	if err != nil {
		b.Fatal(err)
	}
	return s, pk, sk, ct
}

func BenchmarkKeyGen(b *testing.B) {
	for _, ps := range params.All() {
		b.Run(ps.Name, func(b *testing.B) {
			s, _, _, _ := benchScheme(b, ps)
			seed := make([]byte, kem.KeySeedSize)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				seed[0] = byte(i)
				if _, _, err := s.DeriveKeyPair(seed); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkEncapsulate(b *testing.B) {
	for _, ps := range params.All() {
		b.Run(ps.Name, func(b *testing.B) {
			s, pk, _, _ := benchScheme(b, ps)
			m := make([]byte, kem.EncapsulationSeedSize)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				m[0] = byte(i)
				if _, _, err := s.EncapsulateDeterministic(pk, m); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkDecapsulate(b *testing.B) {
	for _, ps := range params.All() {
		b.Run(ps.Name, func(b *testing.B) {
			s, _, sk, ct := benchScheme(b, ps)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := s.Decapsulate(sk, ct); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
