// Package codec converts polynomials to and from their wire encodings:
// lossless 12-bit packing, lossy d-bit compression and 32-byte messages.
//
// Every encoding is a little-endian bit stream: coefficient i occupies bits
// [i·d, (i+1)·d) of the output.
package codec

import (
	"errors"
	"fmt"

	"kyber-kem/params"
	"kyber-kem/ring"
)

// ErrUnsupportedBits is returned for a compression width outside {1, 4, 5, 10, 11}.
var ErrUnsupportedBits = errors.New("codec: unsupported compression width")

// MessageBytes is the size of an encoded message.
const MessageBytes = ring.N / 8

// CompressedSize returns the encoded size of one polynomial at d bits.
func CompressedSize(d int) int { return params.CompressedPolyBytes(d) }

func checkBits(d int) error {
	switch d {
	case 1, 4, 5, 10, 11:
		return nil
	}
	return fmt.Errorf("%w: d=%d", ErrUnsupportedBits, d)
}

// Encode12 packs p into dst using 12 bits per coefficient. Coefficients are
// reduced into [0, q) first. dst must hold params.PolyBytes bytes.
func Encode12(dst []byte, p *[ring.N]int16) {
	c := ring.Poly(*p)
	c.Normalize()
	var v [ring.N]uint16
	for i, x := range c {
		v[i] = uint16(x)
	}
	pack(dst[:params.PolyBytes], &v, 12)
}

// Decode12 unpacks 12-bit coefficients from src and reduces them into
// [0, q). src must hold params.PolyBytes bytes.
func Decode12(p *[ring.N]int16, src []byte) {
	var v [ring.N]uint16
	unpack(&v, src[:params.PolyBytes], 12)
	c := (*ring.Poly)(p)
	for i, x := range v {
		c[i] = int16(x)
	}
	c.Normalize()
}

// Compress writes Compress_d(p) to dst, which must hold CompressedSize(d)
// bytes.
func Compress(dst []byte, p *ring.Poly, d int) error {
	if err := checkBits(d); err != nil {
		return err
	}
	if len(dst) < CompressedSize(d) {
		return fmt.Errorf("codec: compress buffer %d bytes, need %d", len(dst), CompressedSize(d))
	}
	c := *p
	c.Normalize()
	var v [ring.N]uint16
	for i, x := range c {
		v[i] = compress(uint32(x), uint(d))
	}
	pack(dst[:CompressedSize(d)], &v, uint(d))
	return nil
}

// Decompress reads Decompress_d of src into p.
func Decompress(p *ring.Poly, src []byte, d int) error {
	if err := checkBits(d); err != nil {
		return err
	}
	if len(src) < CompressedSize(d) {
		return fmt.Errorf("codec: decompress input %d bytes, need %d", len(src), CompressedSize(d))
	}
	var v [ring.N]uint16
	unpack(&v, src[:CompressedSize(d)], uint(d))
	for i, y := range v {
		p[i] = decompress(y, uint(d))
	}
	return nil
}

// FromMessage maps each bit of msg to 0 or ⌈q/2⌉. msg must hold
// MessageBytes bytes.
func FromMessage(p *ring.Poly, msg []byte) {
	_ = msg[MessageBytes-1]
	for i := 0; i < MessageBytes; i++ {
		for j := 0; j < 8; j++ {
			mask := -int16((msg[i] >> j) & 1)
			p[8*i+j] = mask & ((params.Q + 1) / 2)
		}
	}
}

// ToMessage rounds each coefficient of p to the nearer of 0 and ⌈q/2⌉ and
// writes the resulting bits to msg.
func ToMessage(msg []byte, p *ring.Poly) {
	_ = msg[MessageBytes-1]
	c := *p
	c.Normalize()
	for i := 0; i < MessageBytes; i++ {
		var b byte
		for j := 0; j < 8; j++ {
			b |= byte(compress(uint32(c[8*i+j]), 1)) << j
		}
		msg[i] = b
	}
	c.Zero()
}
