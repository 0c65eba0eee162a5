// Package entropy provides the randomness sources accepted by the KEM.
//
// System is the only source suitable for real keys. Deterministic exists for
// reproducible runs and test vectors and is never selected implicitly.
package entropy

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/tuneinsight/lattigo/v4/utils"
)

// ErrEmptySeed is returned by Deterministic for an empty seed.
var ErrEmptySeed = errors.New("entropy: empty seed")

// System returns the operating system CSPRNG.
func System() io.Reader { return rand.Reader }

// Deterministic returns a keyed PRNG expanding seed. The same seed always
// yields the same stream.
func Deterministic(seed []byte) (io.Reader, error) {
	if len(seed) == 0 {
		return nil, ErrEmptySeed
	}
	prng, err := utils.NewKeyedPRNG(seed)
	if err != nil {
		return nil, fmt.Errorf("entropy: keyed prng: %w", err)
	}
	return prng, nil
}

type failing struct{ err error }

func (f failing) Read([]byte) (int, error) { return 0, f.err }

// Failing returns a reader whose every Read fails with err.
func Failing(err error) io.Reader { return failing{err: err} }
