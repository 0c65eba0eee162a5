// Package keys stores KEM keys and ciphertexts as JSON documents.
//
// Payloads are raw scheme encodings; encoding/json writes them as base64.
package keys

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"kyber-kem/internal/ctime"
	"kyber-kem/params"
)

// Version tags every document written by this package.
const Version = "kyber-kem/1"

const (
	PublicFile     = "public.json"
	PrivateFile    = "private.json"
	CiphertextFile = "ciphertext.json"
)

var (
	ErrVersion     = errors.New("keys: unsupported document version")
	ErrPayloadSize = errors.New("keys: payload size does not match parameter set")
)

// Header is shared by all documents.
type Header struct {
	Version string    `json:"version"`
	KeyID   string    `json:"key_id"`
	Params  string    `json:"params"`
	Created time.Time `json:"created"`
}

// Set resolves the parameter set named in the header.
func (h Header) Set() (params.Set, error) {
	if h.Version != Version {
		return params.Set{}, fmt.Errorf("%w: %q", ErrVersion, h.Version)
	}
	return params.ByName(h.Params)
}

func newHeader(ps params.Set, keyID string) Header {
	return Header{Version: Version, KeyID: keyID, Params: ps.Name, Created: time.Now().UTC()}
}

// PublicKey is an encapsulation key on disk.
type PublicKey struct {
	Header
	Key []byte `json:"public_key"`
}

// PrivateKey is a decapsulation key on disk.
type PrivateKey struct {
	Header
	Key []byte `json:"private_key"`
}

// Ciphertext is an encapsulation addressed to KeyID.
type Ciphertext struct {
	Header
	Ciphertext []byte `json:"ciphertext"`
}

// NewKeyPair wraps a freshly generated pair under a new random key id.
func NewKeyPair(ps params.Set, pk, sk []byte) (*PublicKey, *PrivateKey) {
	id := uuid.New().String()
	return &PublicKey{Header: newHeader(ps, id), Key: pk},
		&PrivateKey{Header: newHeader(ps, id), Key: sk}
}

// NewCiphertext wraps ct produced for the public key pk.
func NewCiphertext(pk *PublicKey, ct []byte) *Ciphertext {
	return &Ciphertext{
		Header:     Header{Version: Version, KeyID: pk.KeyID, Params: pk.Params, Created: time.Now().UTC()},
		Ciphertext: ct,
	}
}

// Validate checks the version and the payload size.
func (pk *PublicKey) Validate() (params.Set, error) {
	ps, err := pk.Set()
	if err != nil {
		return ps, err
	}
	if len(pk.Key) != ps.PublicKeyBytes() {
		return ps, fmt.Errorf("%w: public key %d bytes, %s wants %d", ErrPayloadSize, len(pk.Key), ps, ps.PublicKeyBytes())
	}
	return ps, nil
}

// Validate checks the version and the payload size.
func (sk *PrivateKey) Validate() (params.Set, error) {
	ps, err := sk.Set()
	if err != nil {
		return ps, err
	}
	if len(sk.Key) != ps.SecretKeyBytes() {
		return ps, fmt.Errorf("%w: private key %d bytes, %s wants %d", ErrPayloadSize, len(sk.Key), ps, ps.SecretKeyBytes())
	}
	return ps, nil
}

// Validate checks the version and the payload size.
func (c *Ciphertext) Validate() (params.Set, error) {
	ps, err := c.Set()
	if err != nil {
		return ps, err
	}
	if len(c.Ciphertext) != ps.CiphertextBytes() {
		return ps, fmt.Errorf("%w: ciphertext %d bytes, %s wants %d", ErrPayloadSize, len(c.Ciphertext), ps, ps.CiphertextBytes())
	}
	return ps, nil
}

// Wipe zeroes the key material.
func (sk *PrivateKey) Wipe() {
	ctime.Wipe(sk.Key)
}

// SavePublic writes pk to dir/public.json.
func SavePublic(dir string, pk *PublicKey) error {
	return writeJSON(filepath.Join(dir, PublicFile), pk, 0o644)
}

// SavePrivate writes sk to dir/private.json, readable by the owner only.
func SavePrivate(dir string, sk *PrivateKey) error {
	return writeJSON(filepath.Join(dir, PrivateFile), sk, 0o600)
}

// SaveCiphertext writes c to path.
func SaveCiphertext(path string, c *Ciphertext) error {
	return writeJSON(path, c, 0o644)
}

// LoadPublic reads and validates dir/public.json.
func LoadPublic(dir string) (*PublicKey, error) {
	return LoadPublicFile(filepath.Join(dir, PublicFile))
}

// LoadPublicFile reads and validates a public key document.
func LoadPublicFile(path string) (*PublicKey, error) {
	var pk PublicKey
	if err := readJSON(path, &pk); err != nil {
		return nil, err
	}
	if _, err := pk.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &pk, nil
}

// LoadPrivate reads and validates dir/private.json.
func LoadPrivate(dir string) (*PrivateKey, error) {
	return LoadPrivateFile(filepath.Join(dir, PrivateFile))
}

// LoadPrivateFile reads and validates a private key document. The caller
// should Wipe the result when done.
func LoadPrivateFile(path string) (*PrivateKey, error) {
	var sk PrivateKey
	if err := readJSON(path, &sk); err != nil {
		return nil, err
	}
	if _, err := sk.Validate(); err != nil {
		sk.Wipe()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &sk, nil
}

// LoadCiphertext reads and validates a ciphertext document.
func LoadCiphertext(path string) (*Ciphertext, error) {
	var c Ciphertext
	if err := readJSON(path, &c); err != nil {
		return nil, err
	}
	if _, err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &c, nil
}

// writeJSON encodes v into a temporary file next to path and renames it
// into place, so path ends up with exactly perm whether or not it existed.
func writeJSON(path string, v any, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()
	if err := f.Chmod(perm); err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// readJSON decodes path into v and wipes the raw file contents, which may
// hold a private key.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	defer ctime.Wipe(data)
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
