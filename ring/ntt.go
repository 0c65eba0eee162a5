package ring

const (
	invNTTMont  = 1441 // 2^32 / 128 mod q
	invNTTExact = 512  // 2^16 / 128 mod q
)

// NTT returns the forward transform of p.
//
// Coefficients of p must be bounded by q in absolute value, which holds
// for normalized, Barrett-reduced and noise polynomials. The result is
// Barrett-reduced. If p is in Montgomery form so is the result.
func (p *Poly) NTT() NTTPoly {
	r := NTTPoly(*p)
	k := 1
	for l := N / 2; l >= 2; l >>= 1 {
		for start := 0; start < N; start += 2 * l {
			zeta := zetas[k]
			k++
			for j := start; j < start+l; j++ {
				t := fqmul(zeta, r[j+l])
				r[j+l] = r[j] - t
				r[j] += t
			}
		}
	}
	r.Reduce()
	return r
}

// InvNTT returns the exact inverse transform: InvNTT(NTT(p)) == p mod q.
func (p *NTTPoly) InvNTT() Poly {
	return p.invNTT(invNTTExact)
}

// InvNTTToMont returns the inverse transform multiplied by 2^16. It cancels
// the 2^-16 factor that BaseMul leaves on a product, so
// InvNTTToMont(BaseMul(NTT(a), NTT(b))) == a·b mod q.
func (p *NTTPoly) InvNTTToMont() Poly {
	return p.invNTT(invNTTMont)
}

// invNTT runs the Gentleman-Sande butterflies and folds the 1/128 scaling
// together with the Montgomery adjustment f into a final multiplication.
func (p *NTTPoly) invNTT(f int16) Poly {
	r := Poly(*p)
	r.Reduce()
	k := 127
	for l := 2; l <= N/2; l <<= 1 {
		for start := 0; start < N; start += 2 * l {
			zeta := zetas[k]
			k--
			for j := start; j < start+l; j++ {
				t := r[j]
				r[j] = barrettReduce(t + r[j+l])
				r[j+l] = fqmul(zeta, r[j+l]-t)
			}
		}
	}
	for j := range r {
		r[j] = fqmul(r[j], f)
	}
	return r
}

// BaseMul sets p to the product of a and b in the NTT domain: 128
// products of degree-one residues modulo x^2 - ζ_i. The result carries a
// factor 2^-16 and is bounded by 2q in absolute value. p may alias a or b.
func (p *NTTPoly) BaseMul(a, b *NTTPoly) {
	for i := 0; i < N/4; i++ {
		zeta := zetas[64+i]
		p[4*i], p[4*i+1] = basemul(a[4*i], a[4*i+1], b[4*i], b[4*i+1], zeta)
		p[4*i+2], p[4*i+3] = basemul(a[4*i+2], a[4*i+3], b[4*i+2], b[4*i+3], -zeta)
	}
}

// BaseMulAcc adds BaseMul(a, b) to p without reduction.
func (p *NTTPoly) BaseMulAcc(a, b *NTTPoly) {
	var t NTTPoly
	t.BaseMul(a, b)
	p.Add(p, &t)
}

// basemul computes (a0 + a1·x)(b0 + b1·x) mod (x^2 - zeta).
func basemul(a0, a1, b0, b1, zeta int16) (r0, r1 int16) {
	r0 = fqmul(a1, b1)
	r0 = fqmul(r0, zeta)
	r0 += fqmul(a0, b0)
	r1 = fqmul(a0, b1)
	r1 += fqmul(a1, b0)
	return r0, r1
}
