package sample

import (
	"encoding/binary"
	"fmt"

	"kyber-kem/internal/ctime"
	"kyber-kem/ring"
)

// CBD samples a noise polynomial from the centered binomial distribution
// with parameter eta over PRF(seed, nonce). eta must be 2 or 3.
func CBD(seed []byte, nonce byte, eta int) ring.Poly {
	if eta != 2 && eta != 3 {
		panic(fmt.Sprintf("sample: unsupported eta %d", eta))
	}
	var (
		p   ring.Poly
		buf [3 * ring.N / 4]byte
	)
	b := buf[:eta*ring.N/4]
	defer ctime.Wipe(buf[:])
	PRF(b, seed, nonce)
	if eta == 2 {
		cbd2(&p, b)
	} else {
		cbd3(&p, b)
	}
	return p
}

func cbd2(p *ring.Poly, buf []byte) {
	for i := 0; i < ring.N/8; i++ {
		t := binary.LittleEndian.Uint32(buf[4*i:])
		d := t & 0x55555555
		d += (t >> 1) & 0x55555555
		for j := 0; j < 8; j++ {
			a := int16((d >> (4 * j)) & 3)
			b := int16((d >> (4*j + 2)) & 3)
			p[8*i+j] = a - b
		}
	}
}

func cbd3(p *ring.Poly, buf []byte) {
	for i := 0; i < ring.N/4; i++ {
		t := uint32(buf[3*i]) | uint32(buf[3*i+1])<<8 | uint32(buf[3*i+2])<<16
		d := t & 0x00249249
		d += (t >> 1) & 0x00249249
		d += (t >> 2) & 0x00249249
		for j := 0; j < 4; j++ {
			a := int16((d >> (6 * j)) & 7)
			b := int16((d >> (6*j + 3)) & 7)
			p[4*i+j] = a - b
		}
	}
}
