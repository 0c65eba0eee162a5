package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"kyber-kem/entropy"
	"kyber-kem/internal/ctime"
	"kyber-kem/kem"
	"kyber-kem/keys"
)

func seedFlag(size int) *cli.StringFlag {
	return &cli.StringFlag{
		Name:  flagSeed,
		Usage: fmt.Sprintf("hex seed (up to %d bytes) for a reproducible run; never use for real keys", size),
	}
}

// randSource returns the system source, or a deterministic stream expanded
// from the hex --seed flag.
func randSource(c *cli.Context) (io.Reader, error) {
	s := c.String(flagSeed)
	if s == "" {
		return nil, nil
	}
	seed, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("--seed: %w", err)
	}
	log.Warn().Msg("using a deterministic seed; output is reproducible and not secret")
	return entropy.Deterministic(seed)
}

func keygenCommand() *cli.Command {
	return &cli.Command{
		Name:   "keygen",
		Usage:  "generate a key pair into the key directory",
		Flags:  []cli.Flag{seedFlag(64)},
		Action: runKeygen,
	}
}

func runKeygen(c *cli.Context) error {
	cfg, ps, err := paramSet(c)
	if err != nil {
		return err
	}
	s, err := kem.New(ps)
	if err != nil {
		return err
	}
	rnd, err := randSource(c)
	if err != nil {
		return err
	}
	pk, sk, err := s.KeyGen(rnd)
	if err != nil {
		return err
	}
	defer ctime.Wipe(sk)

	pub, priv := keys.NewKeyPair(ps, pk, sk)
	if err := keys.SavePublic(cfg.KeyDir, pub); err != nil {
		return fmt.Errorf("save public key: %w", err)
	}
	if err := keys.SavePrivate(cfg.KeyDir, priv); err != nil {
		return fmt.Errorf("save private key: %w", err)
	}
	log.Info().
		Str("key_id", pub.KeyID).
		Str("params", ps.Name).
		Int("pk_bytes", len(pk)).
		Int("sk_bytes", len(sk)).
		Str("dir", cfg.KeyDir).
		Msg("key pair written")
	fmt.Fprintln(c.App.Writer, pub.KeyID)
	return nil
}

func encapsCommand() *cli.Command {
	return &cli.Command{
		Name:  "encaps",
		Usage: "encapsulate a fresh shared secret to a public key",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "pub", Usage: "public key file (default: <key-dir>/public.json)"},
			&cli.StringFlag{Name: "out", Usage: "ciphertext file (default: <key-dir>/ciphertext.json)"},
			seedFlag(64),
		},
		Action: runEncaps,
	}
}

func runEncaps(c *cli.Context) error {
	cfg, err := settings(c)
	if err != nil {
		return err
	}
	pubPath := c.String("pub")
	if pubPath == "" {
		pubPath = filepath.Join(cfg.KeyDir, keys.PublicFile)
	}
	pub, err := keys.LoadPublicFile(pubPath)
	if err != nil {
		return err
	}
	ps, err := pub.Validate()
	if err != nil {
		return err
	}
	s, err := kem.New(ps)
	if err != nil {
		return err
	}
	rnd, err := randSource(c)
	if err != nil {
		return err
	}
	ct, ss, err := s.Encapsulate(pub.Key, rnd)
	if err != nil {
		return err
	}
	defer ctime.Wipe(ss)

	out := c.String("out")
	if out == "" {
		out = filepath.Join(cfg.KeyDir, keys.CiphertextFile)
	}
	if err := keys.SaveCiphertext(out, keys.NewCiphertext(pub, ct)); err != nil {
		return fmt.Errorf("save ciphertext: %w", err)
	}
	log.Info().Str("key_id", pub.KeyID).Str("params", ps.Name).Int("ct_bytes", len(ct)).Str("out", out).Msg("ciphertext written")
	fmt.Fprintln(c.App.Writer, hex.EncodeToString(ss))
	return nil
}

func decapsCommand() *cli.Command {
	return &cli.Command{
		Name:  "decaps",
		Usage: "recover the shared secret from a ciphertext",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "priv", Usage: "private key file (default: <key-dir>/private.json)"},
			&cli.StringFlag{Name: "ct", Usage: "ciphertext file (default: <key-dir>/ciphertext.json)"},
		},
		Action: runDecaps,
	}
}

func runDecaps(c *cli.Context) error {
	cfg, err := settings(c)
	if err != nil {
		return err
	}
	privPath := c.String("priv")
	if privPath == "" {
		privPath = filepath.Join(cfg.KeyDir, keys.PrivateFile)
	}
	ctPath := c.String("ct")
	if ctPath == "" {
		ctPath = filepath.Join(cfg.KeyDir, keys.CiphertextFile)
	}
	priv, err := keys.LoadPrivateFile(privPath)
	if err != nil {
		return err
	}
	defer priv.Wipe()
	ctDoc, err := keys.LoadCiphertext(ctPath)
	if err != nil {
		return err
	}
	ps, err := priv.Validate()
	if err != nil {
		return err
	}
	if ctDoc.Params != priv.Params {
		return fmt.Errorf("ciphertext is for %s, private key is %s", ctDoc.Params, priv.Params)
	}
	if ctDoc.KeyID != priv.KeyID {
		// Decapsulation still runs; the result will be the rejection value.
		log.Warn().Str("ct_key_id", ctDoc.KeyID).Str("key_id", priv.KeyID).Msg("ciphertext addressed to a different key")
	}
	s, err := kem.New(ps)
	if err != nil {
		return err
	}
	ss, err := s.Decapsulate(priv.Key, ctDoc.Ciphertext)
	if err != nil {
		return err
	}
	defer ctime.Wipe(ss)
	log.Info().Str("key_id", priv.KeyID).Str("params", ps.Name).Msg("shared secret recovered")
	fmt.Fprintln(c.App.Writer, hex.EncodeToString(ss))
	return nil
}
