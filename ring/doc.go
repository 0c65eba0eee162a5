// Package ring implements arithmetic in R_q = Z_q[x]/(x^256 + 1) with
// q = 3329, the base ring of Kyber.
//
// Polynomials live in one of two domains with distinct types: Poly holds
// coefficients in the normal domain and NTTPoly holds the number-theoretic
// transform of a polynomial, i.e. 128 residues modulo x^2 - ζ^(2·brv(i)+1)
// in bit-reversed order. Crossing domains goes through Poly.NTT and
// NTTPoly.InvNTT / InvNTTToMont only, so multiplying in the wrong domain
// does not type-check.
//
// All reductions are branch-free and use no division, so the timing of an
// operation does not depend on coefficient values.
package ring
