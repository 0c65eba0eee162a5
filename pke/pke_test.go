package pke

import (
	"bytes"
	"errors"
	"testing"

	"kyber-kem/params"
	"kyber-kem/ring"
)

func seq(n int, start byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = start + byte(i)
	}
	return b
}

func TestEncryptDecrypt(t *testing.T) {
	for _, ps := range params.All() {
		pk, sk, err := KeyGen(ps, seq(32, 1))
		if err != nil {
			t.Fatalf("%s: KeyGen: %v", ps, err)
		}
		for trial := 0; trial < 8; trial++ {
			msg := seq(32, byte(trial*32))
			coins := seq(32, byte(100+trial))
			ct, err := pk.Encrypt(msg, coins)
			if err != nil {
				t.Fatalf("%s: Encrypt: %v", ps, err)
			}
			if len(ct) != ps.CiphertextBytes() {
				t.Fatalf("%s: ct=%d bytes want %d", ps, len(ct), ps.CiphertextBytes())
			}
			got, err := sk.Decrypt(ct)
			if err != nil {
				t.Fatalf("%s: Decrypt: %v", ps, err)
			}
			if !bytes.Equal(got, msg) {
				t.Fatalf("%s trial %d: decrypted %x want %x", ps, trial, got, msg)
			}
			margin, err := sk.NoiseMargin(ct, msg)
			if err != nil {
				t.Fatalf("%s: NoiseMargin: %v", ps, err)
			}
			if margin >= (params.Q+3)/4 {
				t.Fatalf("%s: margin %d not below q/4", ps, margin)
			}
		}
	}
}

func TestEncryptDeterministic(t *testing.T) {
	ps := params.Kyber768()
	pk, _, err := KeyGen(ps, seq(32, 9))
	if err != nil {
		t.Fatal(err)
	}
	a, _ := pk.Encrypt(seq(32, 0), seq(32, 1))
	b, _ := pk.Encrypt(seq(32, 0), seq(32, 1))
	c, _ := pk.Encrypt(seq(32, 0), seq(32, 2))
	if !bytes.Equal(a, b) {
		t.Fatalf("same coins gave different ciphertexts")
	}
	if bytes.Equal(a, c) {
		t.Fatalf("different coins gave the same ciphertext")
	}
}

func TestKeyGenDeterministic(t *testing.T) {
	ps := params.Kyber512()
	pk1, sk1, _ := KeyGen(ps, seq(32, 3))
	pk2, sk2, _ := KeyGen(ps, seq(32, 3))
	pk3, _, _ := KeyGen(ps, seq(32, 4))
	if !pk1.Equal(pk2) || !sk1.Equal(sk2) {
		t.Fatalf("same seed gave different keys")
	}
	if pk1.Equal(pk3) {
		t.Fatalf("different seeds gave the same public key")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	for _, ps := range params.All() {
		pk, sk, err := KeyGen(ps, seq(32, 7))
		if err != nil {
			t.Fatal(err)
		}
		pb, _ := pk.MarshalBinary()
		sb, _ := sk.MarshalBinary()
		if len(pb) != ps.PKEPublicKeyBytes() || len(sb) != ps.PKESecretKeyBytes() {
			t.Fatalf("%s: sizes pk=%d sk=%d", ps, len(pb), len(sb))
		}
		pk2, err := UnmarshalPublicKey(ps, pb)
		if err != nil {
			t.Fatalf("%s: UnmarshalPublicKey: %v", ps, err)
		}
		sk2, err := UnmarshalPrivateKey(ps, sb)
		if err != nil {
			t.Fatalf("%s: UnmarshalPrivateKey: %v", ps, err)
		}
		if !pk.Equal(pk2) || !sk.Equal(sk2) {
			t.Fatalf("%s: keys changed across marshal", ps)
		}
		// A parsed key must behave like the original.
		msg := seq(32, 50)
		ct, err := pk2.Encrypt(msg, seq(32, 60))
		if err != nil {
			t.Fatal(err)
		}
		ct0, _ := pk.Encrypt(msg, seq(32, 60))
		if !bytes.Equal(ct, ct0) {
			t.Fatalf("%s: parsed public key encrypts differently", ps)
		}
		got, _ := sk2.Decrypt(ct)
		if !bytes.Equal(got, msg) {
			t.Fatalf("%s: parsed private key decrypts wrongly", ps)
		}
	}
}

func TestSizeErrors(t *testing.T) {
	ps := params.Kyber768()
	if _, _, err := KeyGen(ps, seq(31, 0)); !errors.Is(err, ErrSeedSize) {
		t.Fatalf("short seed err=%v", err)
	}
	pk, sk, _ := KeyGen(ps, seq(32, 0))
	if _, err := pk.Encrypt(seq(31, 0), seq(32, 0)); !errors.Is(err, ErrMessageSize) {
		t.Fatalf("short msg err=%v", err)
	}
	if _, err := pk.Encrypt(seq(32, 0), seq(33, 0)); !errors.Is(err, ErrSeedSize) {
		t.Fatalf("long coins err=%v", err)
	}
	if _, err := sk.Decrypt(make([]byte, ps.CiphertextBytes()-1)); !errors.Is(err, ErrCiphertextSize) {
		t.Fatalf("short ct err=%v", err)
	}
	if _, err := UnmarshalPublicKey(ps, make([]byte, 10)); !errors.Is(err, ErrPublicKeySize) {
		t.Fatalf("short pk err=%v", err)
	}
	if _, err := UnmarshalPrivateKey(ps, make([]byte, 10)); !errors.Is(err, ErrPrivateKeySize) {
		t.Fatalf("short sk err=%v", err)
	}
}

func TestZeroWipesKey(t *testing.T) {
	_, sk, _ := KeyGen(params.Kyber512(), seq(32, 5))
	sk.Zero()
	b, _ := sk.MarshalBinary()
	if !bytes.Equal(b, make([]byte, len(b))) {
		t.Fatalf("private key not wiped")
	}
}

func TestDecryptTamperedCiphertextDiffers(t *testing.T) {
	ps := params.Kyber768()
	pk, sk, _ := KeyGen(ps, seq(32, 11))
	msg := seq(32, 0)
	ct, _ := pk.Encrypt(msg, seq(32, 12))
	// flip the high bit of v's first compressed coefficient
	ct[ps.CompressedVecBytes()] ^= 0x08
	got, err := sk.Decrypt(ct)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(got, msg) {
		t.Fatalf("flipping the top bit of v did not change the message")
	}
}

func TestEncryptionWipe(t *testing.T) {
	pk, _, err := KeyGen(params.Kyber768(), seq(32, 3))
	if err != nil {
		t.Fatalf("KeyGen: %v", err)
	}
	var st encryption
	st.compute(pk, seq(32, 40), seq(32, 80))

	var zeroVec [params.MaxK]ring.Poly
	var zeroNTT [params.MaxK]ring.NTTPoly
	if st.rh.p == zeroNTT || st.vh == (ring.NTTPoly{}) || st.u.p == zeroVec {
		t.Fatalf("intermediates unexpectedly zero before wipe")
	}

	st.wipe()
	cleared := map[string]bool{
		"r":  st.r.p == zeroVec,
		"e1": st.e1.p == zeroVec,
		"u":  st.u.p == zeroVec,
		"rh": st.rh.p == zeroNTT,
		"e2": st.e2 == ring.Poly{},
		"mp": st.mp == ring.Poly{},
		"vh": st.vh == ring.NTTPoly{},
		"v":  st.v == ring.Poly{},
	}
	for name, ok := range cleared {
		if !ok {
			t.Fatalf("%s not wiped", name)
		}
	}
}
