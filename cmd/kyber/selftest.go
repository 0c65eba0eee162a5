package main

import (
	"bytes"
	"fmt"
	"math/rand"
	"strings"

	"github.com/urfave/cli/v2"

	"kyber-kem/codec"
	"kyber-kem/internal/naive"
	"kyber-kem/kem"
	"kyber-kem/params"
	"kyber-kem/ring"
)

type check struct {
	Set  string
	Name string
	Err  error
}

func selftestCommand() *cli.Command {
	return &cli.Command{
		Name:  "selftest",
		Usage: "check arithmetic, encodings and the KEM for each parameter set",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "sets", Value: "all", Usage: "comma-separated parameter sets, or all"},
			&cli.Int64Flag{Name: "rng-seed", Value: 1, Usage: "seed for the random test polynomials"},
		},
		Action: runSelftest,
	}
}

func selectedSets(list string) ([]params.Set, error) {
	if strings.EqualFold(strings.TrimSpace(list), "all") {
		return params.All(), nil
	}
	var out []params.Set
	for _, name := range strings.Split(list, ",") {
		ps, err := params.ByName(name)
		if err != nil {
			return nil, err
		}
		out = append(out, ps)
	}
	return out, nil
}

func runSelftest(c *cli.Context) error {
	sets, err := selectedSets(c.String("sets"))
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(c.Int64("rng-seed")))
	failed := 0
	for _, ps := range sets {
		for _, r := range selfTest(ps, rng) {
			status := "ok"
			if r.Err != nil {
				status = "FAIL: " + r.Err.Error()
				failed++
				log.Error().Str("params", r.Set).Str("check", r.Name).Err(r.Err).Msg("self test failed")
			}
			fmt.Fprintf(c.App.Writer, "%-10s %-22s %s\n", r.Set, r.Name, status)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d self test checks failed", failed)
	}
	return nil
}

func selfTest(ps params.Set, rng *rand.Rand) []check {
	run := func(name string, f func() error) check {
		return check{Set: ps.Name, Name: name, Err: f()}
	}
	return []check{
		run("ntt-product", func() error { return checkProduct(rng) }),
		run("encode12", func() error { return checkEncode12(rng) }),
		run("compress-du", func() error { return checkCompress(rng, ps.DU) }),
		run("compress-dv", func() error { return checkCompress(rng, ps.DV) }),
		run("kem-roundtrip", func() error { return checkKEM(ps) }),
	}
}

func randPoly(rng *rand.Rand) ring.Poly {
	var p ring.Poly
	for i := range p {
		p[i] = int16(rng.Intn(params.Q))
	}
	return p
}

// checkProduct compares the NTT product with the RNS reference.
func checkProduct(rng *rand.Rand) error {
	a, b := randPoly(rng), randPoly(rng)
	got := ring.Mul(&a, &b)
	x, y := make([]int64, ring.N), make([]int64, ring.N)
	for i := range x {
		x[i], y[i] = int64(a[i]), int64(b[i])
	}
	want, err := naive.MulNegacyclicRNS(x, y, params.Q)
	if err != nil {
		return err
	}
	for i := range want {
		if int64(got[i]) != want[i] {
			return fmt.Errorf("coefficient %d: %d != %d", i, got[i], want[i])
		}
	}
	return nil
}

func checkEncode12(rng *rand.Rand) error {
	p := randPoly(rng)
	buf := make([]byte, params.PolyBytes)
	codec.Encode12(buf, (*[ring.N]int16)(&p))
	var back ring.Poly
	codec.Decode12((*[ring.N]int16)(&back), buf)
	if back != p {
		return fmt.Errorf("decode(encode(p)) != p")
	}
	return nil
}

func checkCompress(rng *rand.Rand, d int) error {
	p := randPoly(rng)
	buf := make([]byte, codec.CompressedSize(d))
	if err := codec.Compress(buf, &p, d); err != nil {
		return err
	}
	var back ring.Poly
	if err := codec.Decompress(&back, buf, d); err != nil {
		return err
	}
	bound := (params.Q + (1 << (d + 1)) - 1) >> (d + 1)
	for i := range p {
		e := int(back[i]) - int(p[i])
		if e < 0 {
			e = -e
		}
		if params.Q-e < e {
			e = params.Q - e
		}
		if e > bound {
			return fmt.Errorf("d=%d coefficient %d: error %d > %d", d, i, e, bound)
		}
	}
	return nil
}

func checkKEM(ps params.Set) error {
	s, err := kem.New(ps)
	if err != nil {
		return err
	}
	pk, sk, err := s.KeyGen(nil)
	if err != nil {
		return err
	}
	ct, ss, err := s.Encapsulate(pk, nil)
	if err != nil {
		return err
	}
	got, err := s.Decapsulate(sk, ct)
	if err != nil {
		return err
	}
	if !bytes.Equal(ss, got) {
		return fmt.Errorf("decapsulated secret differs")
	}
	ct[0] ^= 1
	rej, err := s.Decapsulate(sk, ct)
	if err != nil {
		return fmt.Errorf("tampered ciphertext returned an error: %w", err)
	}
	if bytes.Equal(ss, rej) {
		return fmt.Errorf("tampered ciphertext yielded the honest secret")
	}
	return nil
}
