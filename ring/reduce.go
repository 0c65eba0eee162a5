package ring

import "kyber-kem/params"

const (
	// N is the number of coefficients of a polynomial.
	N = params.N
	// Q is the coefficient modulus.
	Q = params.Q

	qInv   = -3327 // q^-1 mod 2^16
	montR2 = 1353  // 2^32 mod q
	barV   = ((1 << 26) + Q/2) / Q
)

// montReduce returns a·2^-16 mod q in (-q, q) for |a| ≤ 2^15·q.
func montReduce(a int32) int16 {
	t := int16(a) * qInv
	return int16((a - int32(t)*Q) >> 16)
}

// barrettReduce returns the centered representative of a mod q,
// in [-(q-1)/2, (q-1)/2].
func barrettReduce(a int16) int16 {
	t := int16((barV*int32(a) + (1 << 25)) >> 26)
	t *= Q
	return a - t
}

// csubq subtracts q if a >= q. Input must be in [0, 2q).
func csubq(a int16) int16 {
	a -= Q
	return a + ((a >> 15) & Q)
}

// canonical maps any int16 into [0, q).
func canonical(a int16) int16 { return csubq(barrettReduce(a) + Q) }

func fqmul(a, b int16) int16 {
	return montReduce(int32(a) * int32(b))
}

// toMont returns a·2^16 mod q.
func toMont(a int16) int16 {
	return montReduce(int32(a) * montR2)
}
