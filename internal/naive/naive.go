// Package naive holds slow reference multipliers for R_q = Z_q[x]/(x^N+1).
// They are used to cross-check the NTT arithmetic and never run on a key
// or ciphertext path.
package naive

import (
	"fmt"
	"math/big"

	"github.com/tuneinsight/lattigo/v4/ring"
)

// MulNegacyclic computes a·b mod (x^N+1, q) by schoolbook convolution.
// The result lies in [0, q).
func MulNegacyclic(a, b []int64, q int64) []int64 {
	n := len(a)
	acc := make([]int64, n)
	for i, ai := range a {
		ai = mod(ai, q)
		for j, bj := range b {
			t := ai * mod(bj, q) % q
			k := i + j
			if k < n {
				acc[k] += t
			} else {
				acc[k-n] -= t
			}
			acc[k%n] = mod(acc[k%n], q)
		}
	}
	return acc
}

// rnsPrimes are NTT-friendly for every power-of-two degree up to 2^8
// (p ≡ 1 mod 512). Their product exceeds N·q^2 with room for the sign.
var rnsPrimes = []uint64{998244353, 469762049}

// MulNegacyclicRNS computes a·b mod (x^N+1, q) with lattigo's NTT over two
// word-sized primes, lifting each coefficient from the CRT of the residues
// before the final reduction modulo q. The result lies in [0, q).
func MulNegacyclicRNS(a, b []int64, q int64) ([]int64, error) {
	n := len(a)
	if len(b) != n {
		return nil, fmt.Errorf("naive: length mismatch %d != %d", len(a), len(b))
	}
	limbs := make([][]uint64, len(rnsPrimes))
	for i, p := range rnsPrimes {
		r, err := ring.NewRing(n, []uint64{p})
		if err != nil {
			return nil, fmt.Errorf("naive: ring for p=%d: %w", p, err)
		}
		pa, pb := r.NewPoly(), r.NewPoly()
		for j := 0; j < n; j++ {
			pa.Coeffs[0][j] = uint64(mod(mod(a[j], q), int64(p)))
			pb.Coeffs[0][j] = uint64(mod(mod(b[j], q), int64(p)))
		}
		r.MForm(pa, pa)
		r.MForm(pb, pb)
		r.NTT(pa, pa)
		r.NTT(pb, pb)
		res := r.NewPoly()
		r.MulCoeffsMontgomery(pa, pb, res)
		r.InvNTT(res, res)
		r.InvMForm(res, res)
		limbs[i] = res.Coeffs[0]
	}
	return fromRNS(limbs, q), nil
}

// fromRNS combines the residues, centers the lift around zero and reduces
// it modulo q.
func fromRNS(limbs [][]uint64, q int64) []int64 {
	P := big.NewInt(1)
	for _, p := range rnsPrimes {
		P.Mul(P, new(big.Int).SetUint64(p))
	}
	half := new(big.Int).Rsh(P, 1)
	bq := big.NewInt(q)
	n := len(limbs[0])
	out := make([]int64, n)
	for j := 0; j < n; j++ {
		x := new(big.Int)
		for i, p := range rnsPrimes {
			pi := new(big.Int).SetUint64(p)
			Mi := new(big.Int).Quo(P, pi)
			inv := new(big.Int).ModInverse(Mi, pi)
			t := new(big.Int).SetUint64(limbs[i][j])
			t.Mul(t, inv).Mod(t, pi).Mul(t, Mi)
			x.Add(x, t)
		}
		x.Mod(x, P)
		if x.Cmp(half) > 0 {
			x.Sub(x, P)
		}
		out[j] = x.Mod(x, bq).Int64()
	}
	return out
}

func mod(a, q int64) int64 {
	a %= q
	if a < 0 {
		a += q
	}
	return a
}
