package codec

import (
	"kyber-kem/params"
	"kyber-kem/ring"
)

// divq returns ⌊y/q⌋ for y < 2^11·q + q without a division instruction,
// whose latency may depend on the operand.
func divq(y uint32) uint32 {
	return uint32((uint64(y) * 10321340) >> 35)
}

// compress maps x in [0, q) to ⌊(2^d·x + ⌊q/2⌋) / q⌉ mod 2^d.
func compress(x uint32, d uint) uint16 {
	y := x<<d + params.Q/2
	return uint16(divq(y) & (1<<d - 1))
}

func decompress(y uint16, d uint) int16 {
	return int16((uint32(y)*params.Q + 1<<(d-1)) >> d)
}

// pack writes the low d bits of every value as a little-endian bit stream.
func pack(dst []byte, v *[ring.N]uint16, d uint) {
	var (
		acc   uint32
		nbits uint
		o     int
	)
	for _, x := range v {
		acc |= uint32(x) << nbits
		nbits += d
		for nbits >= 8 {
			dst[o] = byte(acc)
			o++
			acc >>= 8
			nbits -= 8
		}
	}
}

func unpack(v *[ring.N]uint16, src []byte, d uint) {
	var (
		acc   uint32
		nbits uint
		i     int
	)
	mask := uint32(1)<<d - 1
	for _, b := range src {
		acc |= uint32(b) << nbits
		nbits += 8
		for nbits >= d && i < ring.N {
			v[i] = uint16(acc & mask)
			i++
			acc >>= d
			nbits -= d
		}
	}
}
