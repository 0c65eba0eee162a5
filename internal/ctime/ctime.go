// Package ctime provides the constant-time primitives used on secret data:
// comparison, conditional copy and zeroization.
package ctime

import "runtime"

// Verify returns 0 if a and b are equal and 1 otherwise. The running time
// depends only on the lengths, which are public.
func Verify(a, b []byte) byte {
	if len(a) != len(b) {
		return 1
	}
	var r byte
	for i := range a {
		r |= a[i] ^ b[i]
	}
	return byte((-uint64(r)) >> 63)
}

// CMov overwrites dst with src if b is 1 and leaves it unchanged if b is 0.
// b must be 0 or 1 and the slices must have equal length.
func CMov(dst, src []byte, b byte) {
	mask := -b
	for i := range dst {
		dst[i] ^= mask & (dst[i] ^ src[i])
	}
}

// Wipe zeroes b.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
