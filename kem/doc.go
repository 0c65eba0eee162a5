// Package kem implements the IND-CCA2 key encapsulation mechanism obtained
// from the pke package by the Fujisaki–Okamoto transform with implicit
// rejection.
//
// All keys and ciphertexts are plain byte slices in the round-3 reference
// layout:
//
//	public key  = Encode12(t̂) || ρ
//	secret key  = Encode12(ŝ) || public key || H(public key) || z
//	ciphertext  = Compress_du(u) || Compress_dv(v)
//
// Decapsulation never reports a failure for a well-sized ciphertext. A
// ciphertext that does not re-encrypt to itself yields a pseudorandom
// shared secret derived from z.
package kem
