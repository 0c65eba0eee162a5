package sample

import (
	"golang.org/x/crypto/sha3"

	"kyber-kem/params"
	"kyber-kem/ring"
)

// xofBlockBytes is the SHAKE128 rate.
const xofBlockBytes = 168

// Uniform samples a polynomial with coefficients uniform in [0, q) by
// rejection from SHAKE128(seed || x || y). The output is interpreted in
// the NTT domain. Seeds are public so the data-dependent loop is fine.
func Uniform(seed *[params.SymBytes]byte, x, y byte) ring.NTTPoly {
	xof := sha3.NewShake128()
	xof.Write(seed[:])
	xof.Write([]byte{x, y})

	var (
		p   ring.NTTPoly
		buf [xofBlockBytes]byte
		ctr int
	)
	for ctr < ring.N {
		xof.Read(buf[:])
		ctr = rejUniform(&p, ctr, buf[:])
	}
	return p
}

// rejUniform parses 12-bit candidates from buf into p starting at ctr and
// returns the new fill level.
func rejUniform(p *ring.NTTPoly, ctr int, buf []byte) int {
	for i := 0; i+3 <= len(buf) && ctr < ring.N; i += 3 {
		v0 := (uint16(buf[i]) | uint16(buf[i+1])<<8) & 0xfff
		v1 := (uint16(buf[i+1])>>4 | uint16(buf[i+2])<<4) & 0xfff
		if v0 < params.Q {
			p[ctr] = int16(v0)
			ctr++
		}
		if v1 < params.Q && ctr < ring.N {
			p[ctr] = int16(v1)
			ctr++
		}
	}
	return ctr
}
