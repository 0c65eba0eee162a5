package codec

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"kyber-kem/params"
	"kyber-kem/ring"
)

func randPoly(rng *rand.Rand) ring.Poly {
	var p ring.Poly
	for i := range p {
		p[i] = int16(rng.Intn(params.Q))
	}
	return p
}

func TestEncode12RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 20; trial++ {
		p := randPoly(rng)
		buf := make([]byte, params.PolyBytes)
		Encode12(buf, (*[ring.N]int16)(&p))
		var back ring.Poly
		Decode12((*[ring.N]int16)(&back), buf)
		if back != p {
			t.Fatalf("trial %d: Decode12(Encode12(p)) != p", trial)
		}
	}
}

// The layout is three bytes per coefficient pair, low nibble first.
func TestEncode12Layout(t *testing.T) {
	var p ring.Poly
	p[0], p[1] = 0xabc, 0x123
	buf := make([]byte, params.PolyBytes)
	Encode12(buf, (*[ring.N]int16)(&p))
	if !bytes.Equal(buf[:3], []byte{0xbc, 0x3a, 0x12}) {
		t.Fatalf("layout %x want bc3a12", buf[:3])
	}
}

func TestEncode12ReducesInput(t *testing.T) {
	var p ring.Poly
	p[0], p[1] = -1, params.Q+5
	buf := make([]byte, params.PolyBytes)
	Encode12(buf, (*[ring.N]int16)(&p))
	var back ring.Poly
	Decode12((*[ring.N]int16)(&back), buf)
	if back[0] != params.Q-1 || back[1] != 5 {
		t.Fatalf("got %d, %d want %d, 5", back[0], back[1], params.Q-1)
	}
}

func TestDecode12ReducesOutOfRange(t *testing.T) {
	buf := make([]byte, params.PolyBytes)
	for i := range buf {
		buf[i] = 0xff
	}
	var p ring.Poly
	Decode12((*[ring.N]int16)(&p), buf)
	for i, c := range p {
		if c != 0xfff-params.Q {
			t.Fatalf("coeff %d = %d want %d", i, c, 0xfff-params.Q)
		}
	}
}

func TestCompressErrorBound(t *testing.T) {
	for _, d := range []int{1, 4, 5, 10, 11} {
		bound := (params.Q + (1 << (d + 1)) - 1) >> (d + 1)
		var p ring.Poly
		buf := make([]byte, CompressedSize(d))
		for base := 0; base < params.Q; base += ring.N {
			for i := range p {
				p[i] = int16((base + i) % params.Q)
			}
			if err := Compress(buf, &p, d); err != nil {
				t.Fatalf("d=%d: Compress: %v", d, err)
			}
			var back ring.Poly
			if err := Decompress(&back, buf, d); err != nil {
				t.Fatalf("d=%d: Decompress: %v", d, err)
			}
			for i := range p {
				diff := int(back[i]) - int(p[i])
				if diff < 0 {
					diff = -diff
				}
				if params.Q-diff < diff {
					diff = params.Q - diff
				}
				if diff > bound {
					t.Fatalf("d=%d x=%d: error %d exceeds %d", d, p[i], diff, bound)
				}
			}
		}
	}
}

// Compress_d ∘ Decompress_d is the identity on d-bit values.
func TestDecompressThenCompressIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for _, d := range []int{1, 4, 5, 10, 11} {
		src := make([]byte, CompressedSize(d))
		rng.Read(src)
		var p ring.Poly
		if err := Decompress(&p, src, d); err != nil {
			t.Fatalf("d=%d: %v", d, err)
		}
		dst := make([]byte, CompressedSize(d))
		if err := Compress(dst, &p, d); err != nil {
			t.Fatalf("d=%d: %v", d, err)
		}
		if !bytes.Equal(src, dst) {
			t.Fatalf("d=%d: Compress(Decompress(y)) != y", d)
		}
	}
}

func TestCompressAcceptsCenteredInput(t *testing.T) {
	var a, b ring.Poly
	for i := range a {
		a[i] = int16(i*13) % params.Q
		b[i] = a[i] - params.Q
	}
	x, y := make([]byte, CompressedSize(10)), make([]byte, CompressedSize(10))
	if err := Compress(x, &a, 10); err != nil {
		t.Fatal(err)
	}
	if err := Compress(y, &b, 10); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(x, y) {
		t.Fatalf("representatives of the same class compress differently")
	}
}

func TestUnsupportedBits(t *testing.T) {
	var p ring.Poly
	buf := make([]byte, 512)
	for _, d := range []int{0, 2, 3, 6, 12} {
		if err := Compress(buf, &p, d); !errors.Is(err, ErrUnsupportedBits) {
			t.Fatalf("Compress d=%d err=%v", d, err)
		}
		if err := Decompress(&p, buf, d); !errors.Is(err, ErrUnsupportedBits) {
			t.Fatalf("Decompress d=%d err=%v", d, err)
		}
	}
}

func TestShortBuffers(t *testing.T) {
	var p ring.Poly
	if err := Compress(make([]byte, 10), &p, 4); err == nil {
		t.Fatalf("expected short buffer error")
	}
	if err := Decompress(&p, make([]byte, 10), 4); err == nil {
		t.Fatalf("expected short input error")
	}
}

func TestMessageRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	msg := make([]byte, MessageBytes)
	rng.Read(msg)
	var p ring.Poly
	FromMessage(&p, msg)
	for i, c := range p {
		if c != 0 && c != (params.Q+1)/2 {
			t.Fatalf("coeff %d = %d", i, c)
		}
	}
	// noise up to q/4 in either direction is tolerated
	for i := range p {
		if i%2 == 0 {
			p[i] += 800
		} else {
			p[i] -= 800
		}
	}
	out := make([]byte, MessageBytes)
	ToMessage(out, &p)
	if !bytes.Equal(out, msg) {
		t.Fatalf("ToMessage(FromMessage(m)+noise) != m")
	}
}

func TestMessageMatchesCompressOne(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	p := randPoly(rng)
	a := make([]byte, MessageBytes)
	b := make([]byte, CompressedSize(1))
	ToMessage(a, &p)
	if err := Compress(b, &p, 1); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("ToMessage differs from Compress_1")
	}
}

func TestDivq(t *testing.T) {
	for y := uint32(0); y < (1<<11)*params.Q+params.Q; y++ {
		if divq(y) != y/params.Q {
			t.Fatalf("divq(%d)=%d want %d", y, divq(y), y/params.Q)
		}
	}
}
